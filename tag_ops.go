package ecsworld

// AddTag adds tagType to e, migrating it to the matching chunk. Tags
// carry no bytes, so unlike AddComponent there is nothing to initialize
// beyond the Definition bit itself.
func (w *World) AddTag(e Entity, tagType uint8) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	bit := uint16(tagType)
	if Config.AssertionsEnabled && from.definition.Tags.Test(bit) {
		return TagAlreadyPresentError{Entity: e, Type: tagType}
	}

	to := from.definition
	to.Tags.Set(bit)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)
	w.fireDataChanged(e, TagKind, bit, true, 0)
	return nil
}

// RemoveTag removes tagType from e, migrating it to the matching chunk.
func (w *World) RemoveTag(e Entity, tagType uint8) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	bit := uint16(tagType)
	if Config.AssertionsEnabled && !from.definition.Tags.Test(bit) {
		return TagMissingError{Entity: e, Type: tagType}
	}

	to := from.definition
	to.Tags.Clear(bit)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)
	w.fireDataChanged(e, TagKind, bit, false, 0)
	return nil
}

// HasTag reports whether e currently carries tagType.
func (w *World) HasTag(e Entity, tagType uint8) bool {
	if !w.EntityAlive(e) {
		return false
	}
	return w.slots.Get(e).Chunk.definition.Tags.Test(uint16(tagType))
}

// AddTagTypes adds every tag bit set in mask to e in a single migration.
// Bits already present are left untouched, mirroring AddComponentTypes's
// coalescing semantics.
func (w *World) AddTagTypes(e Entity, mask BitMask256) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	to := from.definition
	to.Tags = to.Tags.Or(mask)
	if to.Tags.Equal(from.definition.Tags) {
		return nil
	}
	added := mask.AndNot(from.definition.Tags)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)

	added.Bits(func(bit uint16) bool {
		w.fireDataChanged(e, TagKind, bit, true, 0)
		return true
	})
	return nil
}

// RemoveTagTypes removes every tag bit set in mask from e in a single
// migration.
func (w *World) RemoveTagTypes(e Entity, mask BitMask256) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	to := from.definition
	to.Tags = to.Tags.AndNot(mask)
	if to.Tags.Equal(from.definition.Tags) {
		return nil
	}
	removed := mask.And(from.definition.Tags)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)

	removed.Bits(func(bit uint16) bool {
		w.fireDataChanged(e, TagKind, bit, false, 0)
		return true
	})
	return nil
}
