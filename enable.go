package ecsworld

// enable.go implements the enable/disable state machine. An entity's
// "local" intent (did the caller ask for it to be enabled) and its
// "effective" state (is it actually running, given ancestors) are
// distinct: SetEnabled(e, false) always marks e locally disabled, but
// SetEnabled(e, true) only takes effect if every ancestor is itself
// effectively enabled, otherwise e becomes
// StateDisabledButLocallyEnabled, ready to resume the instant its
// disabled ancestor re-enables.
//
// Effective disabled-ness is expressed the same way everything else
// structural is: as the Disabled tag bit in the entity's chunk
// Definition, so disabled entities are already segregated into their own
// chunks for iteration.

// IsEnabled reports whether e is currently running: locally enabled and
// every ancestor is too.
func (w *World) IsEnabled(e Entity) bool {
	if !w.EntityAlive(e) {
		return false
	}
	return w.slots.Get(e).State == StateEnabled
}

// IsLocallyEnabled reports e's own enable intent, ignoring ancestors: true
// for StateEnabled and StateDisabledButLocallyEnabled, false for
// StateDisabled.
func (w *World) IsLocallyEnabled(e Entity) bool {
	if !w.EntityAlive(e) {
		return false
	}
	return w.slots.Get(e).State != StateDisabled
}

// SetEnabled sets e's local enable intent and propagates the resulting
// effective-state change to its descendants.
func (w *World) SetEnabled(e Entity, want bool) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)

	parentDisabled := false
	if slot.Parent != NoEntity {
		parentDisabled = w.slots.Get(slot.Parent).State != StateEnabled
	}

	newState := resolveState(want, parentDisabled)
	if newState == slot.State {
		return nil
	}

	effectiveBefore := slot.State != StateEnabled
	slot.State = newState
	effectiveAfter := newState != StateEnabled

	if effectiveBefore != effectiveAfter {
		w.migrateDisabled(e, effectiveAfter)
		w.propagateEnabled(e)
	}
	return nil
}

// resolveState computes the state a node should be in given its own local
// intent and whether its parent is currently effectively disabled.
func resolveState(locallyWant bool, parentDisabled bool) SlotState {
	if !locallyWant {
		return StateDisabled
	}
	if parentDisabled {
		return StateDisabledButLocallyEnabled
	}
	return StateEnabled
}

// migrateDisabled moves e between its current chunk and the equivalent
// chunk with the Disabled tag bit flipped to disabled.
func (w *World) migrateDisabled(e Entity, disabled bool) {
	slot := w.slots.Get(e)
	to := slot.Chunk.definition.WithDisabled(disabled)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)
}

// propagateEnabled recomputes effective state for every direct child of e
// (whose own parent's effective state just changed) and recurses,
// stopping early at any subtree whose ChildrenCount is zero.
func (w *World) propagateEnabled(e Entity) {
	slot := w.slots.Get(e)
	if slot.ChildrenCount == 0 {
		return
	}
	for _, child := range w.directChildren(e) {
		w.recomputeEnabledFromParent(child)
	}
}

func (w *World) recomputeEnabledFromParent(e Entity) {
	slot := w.slots.Get(e)
	parentDisabled := w.slots.Get(slot.Parent).State != StateEnabled
	locallyWant := slot.State != StateDisabled

	newState := resolveState(locallyWant, parentDisabled)
	if newState == slot.State {
		return
	}

	effectiveBefore := slot.State != StateEnabled
	slot.State = newState
	effectiveAfter := newState != StateEnabled

	if effectiveBefore != effectiveAfter {
		w.migrateDisabled(e, effectiveAfter)
	}
	w.propagateEnabled(e)
}
