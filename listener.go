package ecsworld

// OnEntityCreatedOrDestroyed registers a listener invoked synchronously
// whenever an entity is created or destroyed. It returns an unsubscribe
// function, so callers that build scoped systems can stop listening when
// they tear them down.
func (w *World) OnEntityCreatedOrDestroyed(l EntityCreatedOrDestroyedListener) func() {
	if len(w.onCreatedOrDestroyed) >= Config.MaxListeners {
		Config.Logger.Warn("ecsworld: entity_created_or_destroyed listener limit reached")
	}
	w.onCreatedOrDestroyed = append(w.onCreatedOrDestroyed, l)
	idx := len(w.onCreatedOrDestroyed) - 1
	return func() {
		w.onCreatedOrDestroyed[idx] = func(*World, Entity, bool, uint64) {}
	}
}

// OnParentChanged registers a listener invoked synchronously whenever
// SetParent changes an entity's parent. It returns an unsubscribe
// function.
func (w *World) OnParentChanged(l ParentChangedListener) func() {
	if len(w.onParentChanged) >= Config.MaxListeners {
		Config.Logger.Warn("ecsworld: parent_changed listener limit reached")
	}
	w.onParentChanged = append(w.onParentChanged, l)
	idx := len(w.onParentChanged) - 1
	return func() {
		w.onParentChanged[idx] = func(*World, Entity, Entity, Entity, uint64) {}
	}
}

// OnDataChanged registers a listener invoked synchronously whenever a
// component, array, or tag is added to or removed from an entity. It
// returns an unsubscribe function.
func (w *World) OnDataChanged(l DataChangedListener) func() {
	if len(w.onDataChanged) >= Config.MaxListeners {
		Config.Logger.Warn("ecsworld: data_changed listener limit reached")
	}
	w.onDataChanged = append(w.onDataChanged, l)
	idx := len(w.onDataChanged) - 1
	return func() {
		w.onDataChanged[idx] = func(*World, Entity, TypeKind, uint16, bool, uint64) {}
	}
}
