package ecsworld

import (
	"encoding/binary"
	"io"
)

// formatVersion is the only binary world format version this package
// understands.
const formatVersion uint32 = 1

// WriteWorld serializes world to w: a version header, schema's own
// opaque blob, then per-entity component/array/tag records, then
// per-entity reference lists.
func WriteWorld(w io.Writer, world *World, schemaBlob []byte) error {
	bw := &binWriter{w: w}
	bw.u32(formatVersion)

	bw.i32(int32(len(schemaBlob)))
	bw.bytes(schemaBlob)

	var live []Entity
	maxID := int32(0)
	for e := range world.Entities() {
		live = append(live, e)
		if int32(e) > maxID {
			maxID = int32(e)
		}
	}

	bw.i32(int32(len(live)))
	bw.i32(maxID)

	for _, e := range live {
		if err := writeEntityRecord(bw, world, e); err != nil {
			return err
		}
	}
	for _, e := range live {
		writeReferenceRecord(bw, world, e)
	}

	return bw.err
}

func writeEntityRecord(bw *binWriter, world *World, e Entity) error {
	slot := world.slots.Get(e)
	def := slot.Chunk.definition

	bw.u32(uint32(e))
	bw.u8(uint8(slot.State))
	bw.u32(uint32(slot.Parent))

	var components []uint16
	def.Components.Bits(func(bit uint16) bool {
		components = append(components, bit)
		return true
	})
	bw.u8(uint8(len(components)))
	row := slot.Chunk.Row(int(slot.RowIndex))
	for _, typeIndex := range components {
		bytesFor, ok := row.Component(world.schema, typeIndex)
		if !ok {
			continue
		}
		bw.u8(uint8(typeIndex))
		bw.bytes(bytesFor)
	}

	var arrays []uint16
	def.Arrays.Bits(func(bit uint16) bool {
		arrays = append(arrays, bit)
		return true
	})
	bw.u8(uint8(len(arrays)))
	for _, typeIndex := range arrays {
		arr := world.arrays.get(e, uint8(typeIndex))
		bw.u8(uint8(typeIndex))
		if arr == nil {
			bw.i32(0)
			continue
		}
		bw.i32(int32(arr.Length()))
		bw.bytes(arr.Bytes())
	}

	var tags []uint16
	def.Tags.Bits(func(bit uint16) bool {
		if bit == DisabledBit {
			return true
		}
		tags = append(tags, bit)
		return true
	})
	bw.u8(uint8(len(tags)))
	for _, typeIndex := range tags {
		bw.u8(uint8(typeIndex))
	}

	return bw.err
}

func writeReferenceRecord(bw *binWriter, world *World, e Entity) {
	count := world.ReferenceCount(e)
	bw.i32(int32(count))
	for i := uint32(1); i <= count; i++ {
		target, err := world.GetReference(e, i)
		if err != nil {
			bw.u32(uint32(NoEntity))
			continue
		}
		bw.u32(uint32(target))
	}
}

// ReadWorld deserializes a binary world written by WriteWorld into a
// freshly built World over schema. process, if non-nil, is invoked for
// every (kind, type index) this format references before it's looked up
// against schema, letting callers adapt a foreign schema's numbering.
func ReadWorld(r io.Reader, schema Schema, opts WorldOptions, process func(kind TypeKind, typeIndex uint16) uint16) (*World, []byte, error) {
	br := &binReader{r: r}
	version := br.u32()
	if version != formatVersion {
		return nil, nil, VersionMismatchError{Got: version, Want: formatVersion}
	}

	schemaLen := int(br.i32())
	schemaBlob := br.bytes(schemaLen)

	entityCount := int(br.i32())
	_ = br.i32() // max_entity_value, informational only

	world := NewWorld(schema, opts)
	remap := make(map[uint32]Entity, entityCount)
	type pendingParent struct {
		entity Entity
		parent uint32
	}
	var parents []pendingParent

	for i := 0; i < entityCount; i++ {
		id := br.u32()
		state := SlotState(br.u8())
		parent := br.u32()

		ncomp := int(br.u8())
		var def Definition
		type compRec struct {
			typeIndex uint16
			value     []byte
		}
		var comps []compRec
		for c := 0; c < ncomp; c++ {
			typeIndex := uint16(br.u8())
			if process != nil {
				typeIndex = process(ComponentKind, typeIndex)
			}
			size := int(schema.ComponentSize(typeIndex))
			value := br.bytes(size)
			def.Components.Set(typeIndex)
			comps = append(comps, compRec{typeIndex, value})
		}

		narr := int(br.u8())
		type arrRec struct {
			typeIndex uint8
			data      []byte
		}
		var arrs []arrRec
		for a := 0; a < narr; a++ {
			typeIndex := uint8(br.u8())
			if process != nil {
				typeIndex = uint8(process(ArrayKind, uint16(typeIndex)))
			}
			length := int(br.i32())
			stride := int(schema.ArraySize(typeIndex))
			data := br.bytes(length * stride)
			def.Arrays.Set(uint16(typeIndex))
			arrs = append(arrs, arrRec{typeIndex, data})
		}

		ntag := int(br.u8())
		var tags []uint8
		for t := 0; t < ntag; t++ {
			typeIndex := uint8(br.u8())
			if process != nil {
				typeIndex = uint8(process(TagKind, uint16(typeIndex)))
			}
			def.Tags.Set(uint16(typeIndex))
			tags = append(tags, typeIndex)
		}
		if state != StateEnabled {
			def = def.WithDisabled(true)
		}

		e := world.createEntityIn(def)
		remap[id] = e
		world.slots.Get(e).State = state

		row := world.slots.Get(e).Chunk.Row(int(world.slots.Get(e).RowIndex))
		for _, c := range comps {
			if dst, ok := row.Component(schema, c.typeIndex); ok {
				copy(dst, c.value)
			}
		}
		for _, a := range arrs {
			arr := world.arrays.get(e, a.typeIndex)
			if arr == nil {
				continue
			}
			stride := arr.Stride()
			if stride == 0 {
				continue
			}
			arr.resize(len(a.data) / stride)
			copy(arr.data, a.data)
		}

		if parent != uint32(NoEntity) {
			parents = append(parents, pendingParent{e, parent})
		}
	}

	for _, p := range parents {
		if target, ok := remap[p.parent]; ok {
			_ = world.SetParent(p.entity, target)
		}
	}

	ordered := make([]Entity, 0, len(remap))
	for _, id := range sortedKeys(remap) {
		ordered = append(ordered, remap[id])
	}
	for _, e := range ordered {
		count := int(br.i32())
		for i := 0; i < count; i++ {
			targetID := br.u32()
			if target, ok := remap[targetID]; ok {
				_, _ = world.AddReference(e, target)
			}
		}
	}

	return world, schemaBlob, br.err
}

func sortedKeys(m map[uint32]Entity) []uint32 {
	keys := make([]uint32, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// binWriter is a tiny little-endian byte writer that latches the first
// error it sees, letting every call site in WriteWorld skip per-call
// error checks.
type binWriter struct {
	w   io.Writer
	err error
}

func (bw *binWriter) write(p []byte) {
	if bw.err != nil {
		return
	}
	_, bw.err = bw.w.Write(p)
}
func (bw *binWriter) u8(v uint8)   { bw.write([]byte{v}) }
func (bw *binWriter) u32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	bw.write(tmp[:])
}
func (bw *binWriter) i32(v int32)    { bw.u32(uint32(v)) }
func (bw *binWriter) bytes(v []byte) { bw.write(v) }

// binReader is the read-side counterpart. It reads each field straight
// from r with io.ReadFull (no buffering of its own) and, like binWriter,
// latches the first error; once latched, reads return zeroed bytes.
type binReader struct {
	r   io.Reader
	err error
}

func (br *binReader) fill(n int) []byte {
	if br.err != nil {
		return make([]byte, n)
	}
	tmp := make([]byte, n)
	if _, err := io.ReadFull(br.r, tmp); err != nil {
		br.err = err
	}
	return tmp
}
func (br *binReader) u8() uint8 { return br.fill(1)[0] }
func (br *binReader) u32() uint32 {
	return binary.LittleEndian.Uint32(br.fill(4))
}
func (br *binReader) i32() int32      { return int32(br.u32()) }
func (br *binReader) bytes(n int) []byte { return br.fill(n) }
