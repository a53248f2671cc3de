package ecsworld

// reference_ops.go implements the World-level surface over ReferenceList.
// Every entity's references live in one contiguous slice of the shared
// global vector; inserting or removing anywhere but the end shifts every
// other entity's slice start, so every mutation here is O(N_entities) in
// the number of currently-referencing entities.
//
// Local indices handed to callers are 1-based; 0 reported back from
// GetReferenceIndex means "not found", matching Slot.ReferenceRange's own
// 0-count-means-empty convention.

// shiftRangesAfter adjusts every entity's ReferenceRange.Start by delta
// wherever Start is greater than after, used after an insertion or
// removal at position after to keep every other entity's range pointing
// at its own (now-shifted) slice.
func (w *World) shiftRangesAfter(after uint32, delta int32) {
	for candidate := range w.Entities() {
		slot := w.slots.Get(candidate)
		if slot.ReferenceRange.Count == 0 {
			continue
		}
		if slot.ReferenceRange.Start > after {
			slot.ReferenceRange.Start = uint32(int32(slot.ReferenceRange.Start) + delta)
		}
	}
}

// AddReference appends target to e's reference slice and returns its new
// 1-based local index.
func (w *World) AddReference(e Entity, target Entity) (uint32, error) {
	if err := w.requireAlive(e); err != nil {
		return 0, err
	}
	slot := w.slots.Get(e)

	if slot.ReferenceRange.Count == 0 {
		pos := w.refs.len()
		w.refs.insertAt(pos, target)
		slot.ReferenceRange.Start = uint32(pos)
		slot.ReferenceRange.Count = 1
		return 1, nil
	}

	pos := int(slot.ReferenceRange.Start) + int(slot.ReferenceRange.Count)
	w.refs.insertAt(pos, target)
	w.shiftRangesAfter(slot.ReferenceRange.Start, 1)
	slot.ReferenceRange.Count++
	return slot.ReferenceRange.Count, nil
}

// RemoveReference removes e's reference at the given 1-based local
// index.
func (w *World) RemoveReference(e Entity, localIndex uint32) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	if localIndex == 0 || localIndex > slot.ReferenceRange.Count {
		return ReferenceMissingError{Entity: e, Index: localIndex}
	}

	pos := int(slot.ReferenceRange.Start) + int(localIndex) - 1
	w.refs.removeAt(pos)
	slot.ReferenceRange.Count--
	w.shiftRangesAfter(slot.ReferenceRange.Start, -1)
	if slot.ReferenceRange.Count == 0 {
		slot.ReferenceRange.Start = 0
	}
	return nil
}

// GetReference returns the entity stored at e's 1-based local index.
func (w *World) GetReference(e Entity, localIndex uint32) (Entity, error) {
	if err := w.requireAlive(e); err != nil {
		return NoEntity, err
	}
	slot := w.slots.Get(e)
	if localIndex == 0 || localIndex > slot.ReferenceRange.Count {
		return NoEntity, ReferenceMissingError{Entity: e, Index: localIndex}
	}
	pos := int(slot.ReferenceRange.Start) + int(localIndex) - 1
	return w.refs.at(pos), nil
}

// GetReferenceIndex returns target's 1-based local index within e's
// reference slice, or 0, false if e does not reference target.
func (w *World) GetReferenceIndex(e Entity, target Entity) (uint32, bool) {
	if !w.EntityAlive(e) {
		return 0, false
	}
	slot := w.slots.Get(e)
	for i := uint32(0); i < slot.ReferenceRange.Count; i++ {
		if w.refs.at(int(slot.ReferenceRange.Start)+int(i)) == target {
			return i + 1, true
		}
	}
	return 0, false
}

// ContainsReference reports whether e references target.
func (w *World) ContainsReference(e Entity, target Entity) bool {
	_, ok := w.GetReferenceIndex(e, target)
	return ok
}

// ReferenceCount returns the number of references e currently holds.
func (w *World) ReferenceCount(e Entity) uint32 {
	if !w.EntityAlive(e) {
		return 0
	}
	return w.slots.Get(e).ReferenceRange.Count
}

// clearReferences removes e's entire reference slice in one pass, used by
// destroyEntity. Removing count entries at once, then shifting every
// later entity's Start by -count, is equivalent to count individual
// RemoveReference calls but avoids the O(count) repeated shifting.
func (w *World) clearReferences(e Entity) {
	slot := w.slots.Get(e)
	count := slot.ReferenceRange.Count
	if count == 0 {
		return
	}
	start := int(slot.ReferenceRange.Start)
	for i := uint32(0); i < count; i++ {
		w.refs.removeAt(start)
	}
	slot.ReferenceRange.Count = 0
	slot.ReferenceRange.Start = 0
	w.shiftRangesAfter(uint32(start), -int32(count))
}
