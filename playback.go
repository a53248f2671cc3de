package ecsworld

import "encoding/binary"

// reader is a cursor over an Operation's recorded bytes, tracking the
// current byte position for UnknownInstructionError reporting.
type reader struct {
	buf []byte
	pos int
}

func (r *reader) byte() byte {
	b := r.buf[r.pos]
	r.pos++
	return b
}

func (r *reader) bool() bool { return r.byte() != 0 }

func (r *reader) u32() uint32 {
	v := binary.LittleEndian.Uint32(r.buf[r.pos:])
	r.pos += 4
	return v
}

func (r *reader) i32() int32 { return int32(r.u32()) }

func (r *reader) i64() int64 {
	v := int64(binary.LittleEndian.Uint64(r.buf[r.pos:]))
	r.pos += 8
	return v
}

func (r *reader) take(n int) []byte {
	b := r.buf[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) done() bool { return r.pos >= len(r.buf) }

// Perform replays o against world, in buffer order. It maintains two
// scratch vectors, both starting empty on every call: history (every
// entity CreateEntities has produced during this playback, in order,
// minus those DestroySelected has since destroyed) and selection (the
// working set subsequent instructions act on).
func (o *Operation) Perform(world *World) error {
	r := &reader{buf: o.buf}
	var history []Entity
	var selection []Entity

	for !r.done() {
		tagPos := r.pos
		tag := r.byte()

		switch tag {
		case opCreateEntities:
			count := r.i32()
			selectNew := r.bool()
			for i := int32(0); i < count; i++ {
				e := world.CreateEntity()
				history = append(history, e)
				if selectNew {
					selection = append(selection, e)
				}
			}

		case opDestroySelected:
			for _, e := range selection {
				_ = world.DestroyEntity(e, true)
			}
			history = removeFromHistory(history, selection)
			selection = selection[:0]

		case opSelectEntities:
			count := r.i32()
			for i := int32(0); i < count; i++ {
				selection = append(selection, Entity(r.u32()))
			}

		case opSelectPrevCreated:
			ago := r.u32()
			if e, ok := fromEnd(history, int(ago)); ok {
				selection = append(selection[:0], e)
			}

		case opClearSelection:
			selection = selection[:0]

		case opSetParent:
			parent := Entity(r.u32())
			for _, e := range selection {
				_ = world.SetParent(e, parent)
			}

		case opSetParentToPrevCreated:
			ago := r.i32()
			if parent, ok := fromEnd(history, int(ago)); ok {
				for _, e := range selection {
					_ = world.SetParent(e, parent)
				}
			}

		case opAddComponent, opSetComponent, opAddOrSetComponent:
			typeHash := r.i64()
			_, typeIndex, ok := world.schema.TypeByHash(typeHash)
			if !ok {
				return UnknownInstructionError{Tag: tag, BytePos: tagPos}
			}
			size := int(world.schema.ComponentSize(typeIndex))
			value := r.take(size)
			for _, e := range selection {
				switch tag {
				case opAddComponent:
					_ = world.AddComponent(e, typeIndex, value)
				case opSetComponent:
					if dst, ok := world.GetComponent(e, typeIndex); ok {
						copy(dst, value)
					}
				case opAddOrSetComponent:
					if dst, ok := world.GetComponent(e, typeIndex); ok {
						copy(dst, value)
					} else {
						_ = world.AddComponent(e, typeIndex, value)
					}
				}
			}

		case opRemoveComponent:
			typeHash := r.i64()
			_, typeIndex, ok := world.schema.TypeByHash(typeHash)
			if !ok {
				return UnknownInstructionError{Tag: tag, BytePos: tagPos}
			}
			for _, e := range selection {
				_ = world.RemoveComponent(e, typeIndex)
			}

		case opCreateArray:
			typeIndex, err := resolveArrayType(world, r, tagPos, tag)
			if err != nil {
				return err
			}
			for _, e := range selection {
				_ = world.CreateArray(e, typeIndex)
			}

		case opCreateAndInitializeArray:
			typeHash := r.i64()
			_, typeIndex, ok := world.schema.TypeByHash(typeHash)
			if !ok {
				return UnknownInstructionError{Tag: tag, BytePos: tagPos}
			}
			byteLen := int(r.i32())
			elements := r.take(byteLen)
			stride := int(world.schema.ArraySize(uint8(typeIndex)))
			n := 0
			if stride > 0 {
				n = byteLen / stride
			}
			for _, e := range selection {
				_ = world.CreateArray(e, uint8(typeIndex))
				_ = world.ResizeArray(e, uint8(typeIndex), n)
				writeArrayElements(world, e, uint8(typeIndex), 0, elements, stride)
			}

		case opResizeArray:
			typeHash := r.i64()
			_, typeIndex, ok := world.schema.TypeByHash(typeHash)
			if !ok {
				return UnknownInstructionError{Tag: tag, BytePos: tagPos}
			}
			n := int(r.i32())
			for _, e := range selection {
				_ = world.ResizeArray(e, uint8(typeIndex), n)
			}

		case opSetArrayElements:
			typeHash := r.i64()
			_, typeIndex, ok := world.schema.TypeByHash(typeHash)
			if !ok {
				return UnknownInstructionError{Tag: tag, BytePos: tagPos}
			}
			start := int(r.i32())
			byteLen := int(r.i32())
			elements := r.take(byteLen)
			stride := int(world.schema.ArraySize(uint8(typeIndex)))
			for _, e := range selection {
				writeArrayElements(world, e, uint8(typeIndex), start, elements, stride)
			}

		case opSetArray, opCreateOrSetArray:
			typeHash := r.i64()
			_, typeIndex, ok := world.schema.TypeByHash(typeHash)
			if !ok {
				return UnknownInstructionError{Tag: tag, BytePos: tagPos}
			}
			byteLen := int(r.i32())
			elements := r.take(byteLen)
			stride := int(world.schema.ArraySize(uint8(typeIndex)))
			n := 0
			if stride > 0 {
				n = byteLen / stride
			}
			for _, e := range selection {
				if tag == opCreateOrSetArray && !world.HasArray(e, uint8(typeIndex)) {
					_ = world.CreateArray(e, uint8(typeIndex))
				}
				_ = world.ResizeArray(e, uint8(typeIndex), n)
				writeArrayElements(world, e, uint8(typeIndex), 0, elements, stride)
			}

		case opRemoveReference:
			ref := r.u32()
			for _, e := range selection {
				_ = world.RemoveReference(e, ref)
			}

		case opAddReferenceToPrevCreated:
			ago := r.i32()
			if target, ok := fromEnd(history, int(ago)); ok {
				for _, e := range selection {
					_, _ = world.AddReference(e, target)
				}
			}

		default:
			return UnknownInstructionError{Tag: tag, BytePos: tagPos}
		}
	}

	return nil
}

// resolveArrayType reads a type_hash for an array-only instruction and
// resolves it, returning UnknownInstructionError if the hash is unknown.
func resolveArrayType(world *World, r *reader, tagPos int, tag byte) (uint8, error) {
	typeHash := r.i64()
	_, typeIndex, ok := world.schema.TypeByHash(typeHash)
	if !ok {
		return 0, UnknownInstructionError{Tag: tag, BytePos: tagPos}
	}
	return uint8(typeIndex), nil
}

// writeArrayElements copies elements into e's array at typeIndex starting
// at element index start, skipping entities that don't carry the array.
func writeArrayElements(world *World, e Entity, typeIndex uint8, start int, elements []byte, stride int) {
	if stride == 0 {
		return
	}
	n := len(elements) / stride
	for i := 0; i < n; i++ {
		_ = world.SetArrayElement(e, typeIndex, start+i, elements[i*stride:(i+1)*stride])
	}
}

// fromEnd returns the element ago steps back from the end of s (ago==0 is
// the last element), or false if out of range.
func fromEnd(s []Entity, ago int) (Entity, bool) {
	idx := len(s) - 1 - ago
	if idx < 0 || idx >= len(s) {
		return NoEntity, false
	}
	return s[idx], true
}

// removeFromHistory drops every entity present in destroyed from
// history, preserving order.
func removeFromHistory(history []Entity, destroyed []Entity) []Entity {
	if len(destroyed) == 0 {
		return history
	}
	dead := make(map[Entity]bool, len(destroyed))
	for _, e := range destroyed {
		dead[e] = true
	}
	out := history[:0]
	for _, e := range history {
		if !dead[e] {
			out = append(out, e)
		}
	}
	return out
}
