package ecsworld

import "iter"

// WorldOptions configures a new World.
type WorldOptions struct {
	// InitialCapacity hints the expected entity population, used to
	// presize the slot table and default chunk.
	InitialCapacity int
}

// World is the public façade: create/destroy, add/remove component/array/
// tag, parent, enable/disable, reference, clone, append, iterate. It
// exclusively owns Slots, the ChunkMap (and thus Chunks), the
// ArraysTable, and the ReferenceList; entities are pure integer handles
// into it. No internal locking; a World is not safe for concurrent use.
type World struct {
	schema Schema

	slots     *SlotTable
	chunks    *ChunkMap
	arrays    *ArraysTable
	refs      *ReferenceList
	maxDepth  uint16

	onCreatedOrDestroyed []EntityCreatedOrDestroyedListener
	onParentChanged      []ParentChangedListener
	onDataChanged        []DataChangedListener
}

// EntityCreatedOrDestroyedListener is notified whenever an entity is
// created or destroyed.
type EntityCreatedOrDestroyedListener func(w *World, e Entity, created bool, userData uint64)

// ParentChangedListener is notified whenever an entity's parent link
// changes.
type ParentChangedListener func(w *World, e Entity, oldParent, newParent Entity, userData uint64)

// DataChangedListener is notified whenever a component, array, or tag is
// added to or removed from an entity. dataType is a schema type index;
// kind says which namespace it belongs to.
type DataChangedListener func(w *World, e Entity, kind TypeKind, dataType uint16, added bool, userData uint64)

// NewWorld creates a World backed by schema, the external type-registry
// collaborator.
func NewWorld(schema Schema, opts WorldOptions) *World {
	w := &World{
		schema: schema,
		slots:  newSlotTable(),
		chunks: newChunkMap(schema),
		arrays: newArraysTable(),
		refs:   newReferenceList(),
	}
	if opts.InitialCapacity > 0 {
		w.slots.slots = make([]Slot, 1, opts.InitialCapacity+1)
		def := w.chunks.Default()
		def.entities = make([]Entity, 0, opts.InitialCapacity)
		def.rows = make([]byte, 0, opts.InitialCapacity*def.stride)
	}
	return w
}

// Schema returns the external schema collaborator this World was built
// with.
func (w *World) Schema() Schema { return w.schema }

// EntityAlive reports whether e is a live (non-Free) entity in this
// World.
func (w *World) EntityAlive(e Entity) bool {
	if !w.slots.InRange(e) {
		return false
	}
	return w.slots.Get(e).State != StateFree
}

// requireAlive is the debug-assertion boundary for administrative paths
// (this is one): it always runs regardless of Config.AssertionsEnabled,
// returning EntityMissingError rather than panicking, since Destroy and
// other structural ops are not hot-path calls.
func (w *World) requireAlive(e Entity) error {
	if !w.EntityAlive(e) {
		return EntityMissingError{Entity: e}
	}
	return nil
}

// CreateEntity allocates a new entity in the default (empty-composition)
// chunk. Entity id exhaustion is a terminal programmer error: CreateEntity
// cannot otherwise fail.
func (w *World) CreateEntity() Entity {
	return w.createEntityIn(Definition{})
}

// createEntityIn allocates a new entity directly into the chunk for def,
// used by CreateEntity, CloneEntity, Append and ReadWorld, where the
// target Definition is already known.
func (w *World) createEntityIn(def Definition) Entity {
	e := w.slots.allocate()
	chunk := w.chunks.GetOrCreate(def)
	rowIndex := chunk.append(e)

	slot := w.slots.Get(e)
	slot.State = StateEnabled
	slot.Chunk = chunk
	slot.RowIndex = uint32(rowIndex)

	def.Arrays.Bits(func(bit uint16) bool {
		stride := w.schema.ArraySize(uint8(bit))
		w.arrays.create(e, uint8(bit), stride)
		return true
	})
	if !def.Arrays.IsEmpty() {
		slot.Flags |= FlagContainsArrays
	}

	w.fireCreatedOrDestroyed(e, true, 0)
	return e
}

// DestroyEntity removes e from the world. If destroyChildren is true,
// every descendant is destroyed too; otherwise each child's parent link
// is cleared.
func (w *World) DestroyEntity(e Entity, destroyChildren bool) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	return w.destroyEntity(e, destroyChildren)
}

func (w *World) destroyEntity(e Entity, destroyChildren bool) error {
	slot := w.slots.Get(e)

	if slot.Flags.has(FlagContainsChildren) || slot.ChildrenCount > 0 {
		children := w.directChildren(e)
		for _, c := range children {
			if destroyChildren {
				if err := w.destroyEntity(c, true); err != nil {
					return err
				}
			} else {
				w.slots.Get(c).Parent = NoEntity
			}
		}
	}

	if slot.Parent != NoEntity {
		if pslot := w.slots.Get(slot.Parent); pslot.ChildrenCount > 0 {
			pslot.ChildrenCount--
		}
	}

	chunk := slot.Chunk
	moved := chunk.swapRemove(int(slot.RowIndex))
	if moved != NoEntity {
		w.slots.Get(moved).RowIndex = slot.RowIndex
	}

	w.arrays.destroyAll(e)
	w.clearReferences(e)

	w.slots.release(e)
	w.fireCreatedOrDestroyed(e, false, 0)
	return nil
}

// directChildren scans slots 1..len for entities whose Parent is e. It is
// the same restartable-scan idiom World.Entities uses.
func (w *World) directChildren(e Entity) []Entity {
	var out []Entity
	for candidate := range w.Entities() {
		if w.slots.Get(candidate).Parent == e {
			out = append(out, candidate)
		}
	}
	return out
}

// Entities returns a restartable iterator over every live entity,
// scanning slots 1..len and skipping Free ones.
func (w *World) Entities() iter.Seq[Entity] {
	return func(yield func(Entity) bool) {
		for i := 1; i < w.slots.Len(); i++ {
			e := Entity(i)
			if w.slots.Get(e).State == StateFree {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// Slot exposes e's metadata record. Intended for invariant checks and for
// packages built on top of World (e.g. a serializer); callers must not
// mutate the fields of the returned pointer's Chunk/ReferenceRange
// directly.
func (w *World) Slot(e Entity) *Slot {
	return w.slots.Get(e)
}

// Chunks returns every chunk this World has ever created, in creation
// order. Chunks are created lazily and never destroyed until World
// teardown.
func (w *World) Chunks() []*Chunk {
	return w.chunks.All()
}

// Definition returns e's current archetype key.
func (w *World) Definition(e Entity) Definition {
	return w.slots.Get(e).Chunk.Definition()
}

// moveEntity is the single pivotal routine used by every structural
// mutation. It relocates e from its current chunk to `to`, preserving
// bytes for components present in both Definitions, zeroing newly added
// components (rows start zeroed on append), and dropping removed ones
// implicitly (they're simply not copied).
func (w *World) moveEntity(e Entity, to *Chunk) {
	slot := w.slots.Get(e)
	from := slot.Chunk
	if from == to {
		return
	}

	oldIndex := int(slot.RowIndex)
	newIndex := to.append(e)

	retained := from.definition.Components.And(to.definition.Components)
	retained.Bits(func(bit uint16) bool {
		srcOff, srcOK := w.schema.ComponentOffset(from.definition, bit)
		dstOff, dstOK := w.schema.ComponentOffset(to.definition, bit)
		if !srcOK || !dstOK {
			return true
		}
		size := int(w.schema.ComponentSize(bit))
		srcBase := oldIndex*from.stride + int(srcOff)
		dstBase := newIndex*to.stride + int(dstOff)
		copy(to.rows[dstBase:dstBase+size], from.rows[srcBase:srcBase+size])
		return true
	})

	moved := from.swapRemove(oldIndex)
	if moved != NoEntity {
		w.slots.Get(moved).RowIndex = uint32(oldIndex)
	}

	slot.Chunk = to
	slot.RowIndex = uint32(newIndex)
}

func (w *World) fireCreatedOrDestroyed(e Entity, created bool, userData uint64) {
	for _, l := range w.onCreatedOrDestroyed {
		l(w, e, created, userData)
	}
}

func (w *World) fireParentChanged(e, oldParent, newParent Entity, userData uint64) {
	for _, l := range w.onParentChanged {
		l(w, e, oldParent, newParent, userData)
	}
}

func (w *World) fireDataChanged(e Entity, kind TypeKind, typeIndex uint16, added bool, userData uint64) {
	for _, l := range w.onDataChanged {
		l(w, e, kind, typeIndex, added, userData)
	}
}
