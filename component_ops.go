package ecsworld

// AddComponent adds componentType to e, migrating it to the matching
// chunk and writing value into the new row. value must be exactly
// schema.ComponentSize(componentType) bytes; it is copied, not retained.
func (w *World) AddComponent(e Entity, componentType uint16, value []byte) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	if Config.AssertionsEnabled && from.definition.Components.Test(componentType) {
		return ComponentAlreadyPresentError{Entity: e, Type: componentType}
	}

	to := from.definition
	to.Components.Set(componentType)
	dest := w.chunks.GetOrCreate(to)

	w.moveEntity(e, dest)
	w.writeComponent(e, componentType, value)
	w.fireDataChanged(e, ComponentKind, componentType, true, 0)
	return nil
}

// RemoveComponent removes componentType from e, migrating it to the
// matching chunk.
func (w *World) RemoveComponent(e Entity, componentType uint16) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	if Config.AssertionsEnabled && !from.definition.Components.Test(componentType) {
		return ComponentMissingError{Entity: e, Type: componentType}
	}

	to := from.definition
	to.Components.Clear(componentType)
	dest := w.chunks.GetOrCreate(to)

	w.moveEntity(e, dest)
	w.fireDataChanged(e, ComponentKind, componentType, false, 0)
	return nil
}

// GetComponent returns the byte span for e's componentType, or nil, false
// if the entity doesn't currently carry it.
func (w *World) GetComponent(e Entity, componentType uint16) ([]byte, bool) {
	if !w.EntityAlive(e) {
		return nil, false
	}
	slot := w.slots.Get(e)
	row := slot.Chunk.Row(int(slot.RowIndex))
	return row.Component(w.schema, componentType)
}

// writeComponent copies value into e's row at componentType's offset,
// without any presence check or chunk migration; callers must already
// have moved e into a chunk whose Definition includes componentType.
func (w *World) writeComponent(e Entity, componentType uint16, value []byte) {
	dst, ok := w.GetComponent(e, componentType)
	if !ok {
		return
	}
	copy(dst, value)
}

// AddComponentTypes adds every component bit set in mask to e in a
// single migration, zero-initializing newly added columns. Bits already
// present in e's Definition are left untouched and not reported as an
// error, so the bulk form is safe to use as "ensure these bits are
// present".
func (w *World) AddComponentTypes(e Entity, mask BitMask256) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	to := from.definition
	to.Components = to.Components.Or(mask)
	if to.Components.Equal(from.definition.Components) {
		return nil
	}
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)

	added := mask.AndNot(from.definition.Components)
	added.Bits(func(bit uint16) bool {
		w.fireDataChanged(e, ComponentKind, bit, true, 0)
		return true
	})
	return nil
}

// RemoveComponentTypes removes every component bit set in mask from e in
// a single migration.
func (w *World) RemoveComponentTypes(e Entity, mask BitMask256) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	to := from.definition
	to.Components = to.Components.AndNot(mask)
	if to.Components.Equal(from.definition.Components) {
		return nil
	}
	removed := mask.And(from.definition.Components)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)

	removed.Bits(func(bit uint16) bool {
		w.fireDataChanged(e, ComponentKind, bit, false, 0)
		return true
	})
	return nil
}
