// Package ecsworld implements the core of an archetype-based
// Entity-Component-System data store.
//
// It maintains a large population of lightweight entities, each associated
// with a dynamic set of fixed-layout components, variable-length typed
// arrays, and boolean tags. Entities sharing an identical component/array/tag
// composition (a Definition) are grouped into contiguous storage blocks
// (Chunks) so iteration and bulk queries traverse packed arrays of plain
// data.
//
// Core Concepts:
//
//   - Entity: a 32-bit id handed out by the World; entities own nothing.
//   - Definition: the (components, arrays, tags) bitmask triple identifying
//     an archetype.
//   - Chunk: the contiguous, row-major storage block for one Definition.
//   - Slot: per-entity metadata (parent, chunk location, state, flags).
//   - Operation: a recorded, replayable log of structural edits.
//
// The schema/type-registry, query/iteration front-ends, the simulation
// Systems layer, and low-level allocator utilities are external
// collaborators; this package only consumes the Schema contract in
// schema.go and exposes the World façade that everything else is built on.
//
// Basic usage:
//
//	schema := myschema.New()
//	w := ecsworld.NewWorld(schema, ecsworld.WorldOptions{})
//
//	position := schema.MustComponent("Position")
//	e := w.CreateEntity()
//	_ = w.AddComponent(e, position, posBytes)
//
// ecsworld is the underlying data store for a simulation's systems layer,
// but also works standalone.
package ecsworld
