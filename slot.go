package ecsworld

import (
	"fmt"

	"github.com/TheBitDrifter/bark"
)

// SlotState is the entity lifecycle/enable state machine.
type SlotState uint8

const (
	// StateFree marks a Slot index that is not currently occupied by a
	// live entity. Slot index 0 is always Free and permanently reserved.
	StateFree SlotState = iota
	StateEnabled
	StateDisabled
	// StateDisabledButLocallyEnabled: the entity's own local flag says
	// enabled, but an ancestor forces it disabled.
	StateDisabledButLocallyEnabled
)

// SlotFlags are auxiliary per-entity bits tracked alongside state.
type SlotFlags uint8

const (
	FlagContainsArrays SlotFlags = 1 << iota
	FlagContainsChildren
	FlagChildrenOutdated
	FlagArraysOutdated
	FlagOutdated
)

func (f SlotFlags) has(bit SlotFlags) bool { return f&bit != 0 }

// ReferenceRange names an entity's contiguous slice within the global
// ReferenceList.
type ReferenceRange struct {
	Start uint32
	Count uint32
}

// Slot is the per-entity metadata record.
type Slot struct {
	Parent         Entity
	Depth          uint16
	ChildrenCount  uint32
	Chunk          *Chunk
	RowIndex       uint32
	ReferenceRange ReferenceRange
	State          SlotState
	Flags          SlotFlags
}

// SlotTable is the entity allocator: a dense array of Slots indexed by
// entity id, plus a stack-based free list for immediate id reuse. Entity
// carries no version field (see entity.go), so a released id can be
// handed back out immediately without any recycling generation to track.
type SlotTable struct {
	slots    []Slot   // index 0 reserved, always Free
	freeList []uint32 // stack of reusable entity ids, LIFO
}

// newSlotTable returns a SlotTable with index 0 reserved.
func newSlotTable() *SlotTable {
	st := &SlotTable{slots: make([]Slot, 1, 64)}
	st.slots[0] = Slot{State: StateFree}
	return st
}

// allocate pops a free id or grows the table, returning the new entity id
// with its Slot zeroed and ready for the caller to populate. Entity id
// exhaustion is terminal and unrecoverable, so unlike every other
// precondition in this package it panics rather than returning an error,
// carrying a stack trace for whoever has to diagnose it.
func (st *SlotTable) allocate() Entity {
	if n := len(st.freeList); n > 0 {
		id := st.freeList[n-1]
		st.freeList = st.freeList[:n-1]
		st.slots[id] = Slot{}
		return Entity(id)
	}
	if len(st.slots) >= 1<<32-1 {
		panic(bark.AddTrace(fmt.Errorf("ecsworld: entity id space exhausted")))
	}
	id := uint32(len(st.slots))
	st.slots = append(st.slots, Slot{})
	return Entity(id)
}

// release pushes id back onto the free stack and zeroes its Slot to
// StateFree. Callers must have already detached id from its Chunk and
// reference range.
func (st *SlotTable) release(e Entity) {
	st.slots[e] = Slot{State: StateFree}
	st.freeList = append(st.freeList, uint32(e))
}

// Get returns a pointer to e's Slot. Callers must ensure e is in range;
// use World.EntityAlive for a bounds+liveness checked accessor.
func (st *SlotTable) Get(e Entity) *Slot {
	return &st.slots[e]
}

// InRange reports whether e is a valid index into the slot table (it may
// still be Free).
func (st *SlotTable) InRange(e Entity) bool {
	return e != NoEntity && int(e) < len(st.slots)
}

// Len returns the number of slot table entries, including index 0 and any
// Free slots (i.e. the high-water mark of allocated ids + 1).
func (st *SlotTable) Len() int {
	return len(st.slots)
}

// FreeListSize returns the number of ids currently on the free stack.
func (st *SlotTable) FreeListSize() int {
	return len(st.freeList)
}
