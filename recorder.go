package ecsworld

import (
	"encoding/binary"
	"fmt"
)

// Operation is an append-only, tag-prefixed instruction buffer: record a
// sequence of World mutations without a World in hand, then replay them
// later via Perform. count tracks how many instructions have been
// recorded, independent of the byte buffer's own length and capacity.
type Operation struct {
	buf   []byte
	count int32
}

// Instruction tags, one byte each.
const (
	opCreateEntities byte = iota
	opDestroySelected
	opSelectEntities
	opSelectPrevCreated
	opClearSelection
	opSetParent
	opSetParentToPrevCreated
	opAddComponent
	opSetComponent
	opAddOrSetComponent
	opRemoveComponent
	opCreateArray
	opCreateAndInitializeArray
	opResizeArray
	opSetArrayElements
	opSetArray
	opCreateOrSetArray
	opRemoveReference
	opAddReferenceToPrevCreated
)

// NewOperation returns an empty Operation ready for recording.
func NewOperation() *Operation {
	return &Operation{buf: make([]byte, 0, 64)}
}

// Len returns the number of bytes currently recorded.
func (o *Operation) Len() int { return len(o.buf) }

// Count returns the number of instructions currently recorded.
func (o *Operation) Count() int32 { return o.count }

// Bytes returns the recorded instruction stream.
func (o *Operation) Bytes() []byte { return o.buf }

// Serialize writes o as count:i32, used:i32, capacity:i32, bytes[used],
// so it can be stored or transmitted independently of any World and
// reconstructed later with DeserializeOperation.
func (o *Operation) Serialize() []byte {
	out := make([]byte, 0, 12+len(o.buf))
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], uint32(o.count))
	out = append(out, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:], uint32(len(o.buf)))
	out = append(out, tmp[:]...)
	binary.LittleEndian.PutUint32(tmp[:], uint32(cap(o.buf)))
	out = append(out, tmp[:]...)
	out = append(out, o.buf...)
	return out
}

// DeserializeOperation parses the count:i32, used:i32, capacity:i32,
// bytes[used] layout Serialize produces.
func DeserializeOperation(data []byte) (*Operation, error) {
	if len(data) < 12 {
		return nil, fmt.Errorf("ecsworld: operation buffer too short: %d bytes", len(data))
	}
	count := int32(binary.LittleEndian.Uint32(data[0:4]))
	used := binary.LittleEndian.Uint32(data[4:8])
	capacity := binary.LittleEndian.Uint32(data[8:12])
	if int(12+used) > len(data) {
		return nil, fmt.Errorf("ecsworld: operation buffer truncated: used=%d available=%d", used, len(data)-12)
	}
	buf := make([]byte, used, max(int(capacity), int(used)))
	copy(buf, data[12:12+used])
	return &Operation{buf: buf, count: count}, nil
}

func (o *Operation) writeByte(b byte) {
	o.buf = append(o.buf, b)
	o.count++
}
func (o *Operation) writeU8(v uint8)      { o.buf = append(o.buf, v) }
func (o *Operation) writeBool(v bool) {
	if v {
		o.writeU8(1)
	} else {
		o.writeU8(0)
	}
}
func (o *Operation) writeU32(v uint32) {
	var tmp [4]byte
	binary.LittleEndian.PutUint32(tmp[:], v)
	o.buf = append(o.buf, tmp[:]...)
}
func (o *Operation) writeI32(v int32)  { o.writeU32(uint32(v)) }
func (o *Operation) writeI64(v int64)  { o.writeU64(uint64(v)) }
func (o *Operation) writeU64(v uint64) {
	var tmp [8]byte
	binary.LittleEndian.PutUint64(tmp[:], v)
	o.buf = append(o.buf, tmp[:]...)
}
func (o *Operation) writeBytes(v []byte) { o.buf = append(o.buf, v...) }

// RecordCreateEntities records the creation of count entities. If
// selectNew, the newly created entities are appended to the selection on
// replay.
func (o *Operation) RecordCreateEntities(count int32, selectNew bool) {
	o.writeByte(opCreateEntities)
	o.writeI32(count)
	o.writeBool(selectNew)
}

// RecordDestroySelected records destruction of every currently selected
// entity.
func (o *Operation) RecordDestroySelected() {
	o.writeByte(opDestroySelected)
}

// RecordSelectEntities records appending ids to the selection.
func (o *Operation) RecordSelectEntities(ids []uint32) {
	o.writeByte(opSelectEntities)
	o.writeI32(int32(len(ids)))
	for _, id := range ids {
		o.writeU32(id)
	}
}

// RecordSelectPrevCreated records replacing the selection with the entity
// ago entities back from the most recently created one in this
// Operation's playback (ago==0 is the most recent).
func (o *Operation) RecordSelectPrevCreated(ago uint32) {
	o.writeByte(opSelectPrevCreated)
	o.writeU32(ago)
}

// RecordClearSelection records emptying the selection.
func (o *Operation) RecordClearSelection() {
	o.writeByte(opClearSelection)
}

// RecordSetParent records SetParent(s, parent) for every s in selection.
func (o *Operation) RecordSetParent(parent uint32) {
	o.writeByte(opSetParent)
	o.writeU32(parent)
}

// RecordSetParentToPrevCreated records reparenting the selection onto the
// entity ago entities back from the most recently created one
// (ago==0 is the most recent).
func (o *Operation) RecordSetParentToPrevCreated(ago int32) {
	o.writeByte(opSetParentToPrevCreated)
	o.writeI32(ago)
}

// RecordAddComponent records AddComponent(typeHash, value) across the
// selection. typeHash is the schema-stable 64-bit hash the target
// World's schema resolves on replay.
func (o *Operation) RecordAddComponent(typeHash int64, value []byte) {
	o.writeByte(opAddComponent)
	o.writeI64(typeHash)
	o.writeBytes(value)
}

// RecordSetComponent records overwriting an already-present component's
// bytes across the selection.
func (o *Operation) RecordSetComponent(typeHash int64, value []byte) {
	o.writeByte(opSetComponent)
	o.writeI64(typeHash)
	o.writeBytes(value)
}

// RecordAddOrSetComponent records adding the component if absent or
// overwriting it if present, chosen per-entity at replay time.
func (o *Operation) RecordAddOrSetComponent(typeHash int64, value []byte) {
	o.writeByte(opAddOrSetComponent)
	o.writeI64(typeHash)
	o.writeBytes(value)
}

// RecordRemoveComponent records RemoveComponent(typeHash) across the
// selection.
func (o *Operation) RecordRemoveComponent(typeHash int64) {
	o.writeByte(opRemoveComponent)
	o.writeI64(typeHash)
}

// RecordCreateArray records CreateArray(typeHash) across the selection.
func (o *Operation) RecordCreateArray(typeHash int64) {
	o.writeByte(opCreateArray)
	o.writeI64(typeHash)
}

// RecordCreateAndInitializeArray records creating an array and setting
// its initial contents in one instruction.
func (o *Operation) RecordCreateAndInitializeArray(typeHash int64, elements []byte) {
	o.writeByte(opCreateAndInitializeArray)
	o.writeI64(typeHash)
	o.writeI32(int32(len(elements)))
	o.writeBytes(elements)
}

// RecordResizeArray records ResizeArray(typeHash, n) across the selection.
func (o *Operation) RecordResizeArray(typeHash int64, n int32) {
	o.writeByte(opResizeArray)
	o.writeI64(typeHash)
	o.writeI32(n)
}

// RecordSetArrayElements records overwriting a byte range of an existing
// array starting at element index start.
func (o *Operation) RecordSetArrayElements(typeHash int64, start int32, elements []byte) {
	o.writeByte(opSetArrayElements)
	o.writeI64(typeHash)
	o.writeI32(start)
	o.writeI32(int32(len(elements)))
	o.writeBytes(elements)
}

// RecordSetArray records replacing an array's full contents.
func (o *Operation) RecordSetArray(typeHash int64, elements []byte) {
	o.writeByte(opSetArray)
	o.writeI64(typeHash)
	o.writeI32(int32(len(elements)))
	o.writeBytes(elements)
}

// RecordCreateOrSetArray records creating the array if absent or
// replacing its contents if present.
func (o *Operation) RecordCreateOrSetArray(typeHash int64, elements []byte) {
	o.writeByte(opCreateOrSetArray)
	o.writeI64(typeHash)
	o.writeI32(int32(len(elements)))
	o.writeBytes(elements)
}

// RecordRemoveReference records RemoveReference(ref) across the
// selection.
func (o *Operation) RecordRemoveReference(ref uint32) {
	o.writeByte(opRemoveReference)
	o.writeU32(ref)
}

// RecordAddReferenceToPrevCreated records adding a reference from every
// selected entity to the entity ago entities back from the most recently
// created one (ago==0 is the most recent).
func (o *Operation) RecordAddReferenceToPrevCreated(ago int32) {
	o.writeByte(opAddReferenceToPrevCreated)
	o.writeI32(ago)
}
