package ecsworld

// CloneEntity creates a new entity with the same Definition, component
// bytes, and arrays as e. The clone starts with no parent, no children,
// and no references of its own: hierarchy and reference edges name
// specific entity ids, and blindly copying them would point the clone at
// e's relationships rather than give it its own.
func (w *World) CloneEntity(e Entity) (Entity, error) {
	if err := w.requireAlive(e); err != nil {
		return NoEntity, err
	}

	srcSlot := w.slots.Get(e)
	def := srcSlot.Chunk.definition

	clone := w.createEntityIn(def)
	cloneSlot := w.slots.Get(clone)

	srcRow := srcSlot.Chunk.Row(int(srcSlot.RowIndex))
	cloneRow := cloneSlot.Chunk.Row(int(cloneSlot.RowIndex))
	def.Components.Bits(func(bit uint16) bool {
		src, ok := srcRow.Component(w.schema, bit)
		if !ok {
			return true
		}
		dst, _ := cloneRow.Component(w.schema, bit)
		copy(dst, src)
		return true
	})

	w.arrays.copyAll(clone, e)

	return clone, nil
}

// Append copies every entity in other into w, preserving each entity's
// Definition, component bytes, and arrays. Parent/child relationships
// and references are not remapped: they name specific entity ids from
// other's id space, and other's ids are meaningless once w assigns its
// own. Callers that need graph fidelity across a merge should go through
// WriteWorld/ReadWorld instead, which carry relationships via a full
// id remap.
func (w *World) Append(other *World) {
	for e := range other.Entities() {
		slot := other.slots.Get(e)
		def := slot.Chunk.definition
		n := w.createEntityIn(def)

		nslot := w.slots.Get(n)
		srcRow := slot.Chunk.Row(int(slot.RowIndex))
		dstRow := nslot.Chunk.Row(int(nslot.RowIndex))
		def.Components.Bits(func(bit uint16) bool {
			src, ok := srcRow.Component(other.schema, bit)
			if !ok {
				return true
			}
			dst, _ := dstRow.Component(w.schema, bit)
			copy(dst, src)
			return true
		})
		w.copyForeignArrays(other, e, n)
	}
}

// copyForeignArrays copies every TypedArray src carries onto dst, where
// src belongs to a different World's ArraysTable than dst.
func (w *World) copyForeignArrays(other *World, src Entity, dst Entity) {
	def := other.Definition(src)
	def.Arrays.Bits(func(bit uint16) bool {
		arr := other.arrays.get(src, uint8(bit))
		if arr == nil {
			return true
		}
		dstArr := w.arrays.get(dst, uint8(bit))
		if dstArr == nil {
			return true
		}
		dstArr.resize(arr.Length())
		copy(dstArr.data, arr.data)
		return true
	})
}
