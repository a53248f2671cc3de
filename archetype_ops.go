package ecsworld

// Is reports whether e's current Definition contains every bit set in
// def, i.e. e has at least the components, arrays, and tags def names.
func (w *World) Is(e Entity, def Definition) bool {
	if !w.EntityAlive(e) {
		return false
	}
	return w.Definition(e).ContainsAll(def)
}

// Become migrates e so that its Definition contains every bit set in def,
// adding whatever components, arrays, and tags it's currently missing.
// Bits already present are left alone. Newly added components are
// zero-initialized.
//
// Each missing bit is added with its own AddComponent/CreateArray/AddTag
// call rather than one batched chunk move, so Become fires the same
// per-type entity_data_changed events a caller doing the equivalent adds
// by hand would see, deliberately per-bit rather than the single-
// migration shortcut AddComponentTypes/AddTagTypes use.
func (w *World) Become(e Entity, def Definition) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}

	current := w.Definition(e)

	missingComponents := def.Components.AndNot(current.Components)
	var opErr error
	missingComponents.Bits(func(bit uint16) bool {
		size := w.schema.ComponentSize(bit)
		if err := w.AddComponent(e, bit, make([]byte, size)); err != nil {
			opErr = err
			return false
		}
		return true
	})
	if opErr != nil {
		return opErr
	}

	missingArrays := def.Arrays.AndNot(w.Definition(e).Arrays)
	missingArrays.Bits(func(bit uint16) bool {
		if err := w.CreateArray(e, uint8(bit)); err != nil {
			opErr = err
			return false
		}
		return true
	})
	if opErr != nil {
		return opErr
	}

	missingTags := def.Tags.AndNot(w.Definition(e).Tags)
	missingTags.Bits(func(bit uint16) bool {
		if bit == DisabledBit {
			return true
		}
		if err := w.AddTag(e, uint8(bit)); err != nil {
			opErr = err
			return false
		}
		return true
	})
	return opErr
}
