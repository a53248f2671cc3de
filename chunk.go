package ecsworld

// Chunk is the contiguous storage block for one Definition: a dense
// array of entity ids, paired with a dense byte array of packed
// component rows. Row layout is array-of-structs: for a component type
// in the Definition, its bytes begin at a fixed schema-provided offset
// within every row.
//
// A Slot names a Chunk and a row index rather than a raw pointer into
// rows, so growing rows never requires re-pointing any Slot: byte
// offsets are recomputed from the current rows slice on every access.
type Chunk struct {
	definition Definition
	entities   []Entity
	rows       []byte
	stride     int
	version    uint64
}

// newChunk creates an empty Chunk for def with the given row stride
// (schema.RowStride(def.Components)).
func newChunk(def Definition, stride int) *Chunk {
	return &Chunk{
		definition: def,
		entities:   make([]Entity, 0, 8),
		rows:       make([]byte, 0, 8*stride),
		stride:     stride,
	}
}

// Definition returns the archetype key this Chunk stores.
func (c *Chunk) Definition() Definition { return c.definition }

// Count returns the number of entities currently packed into the chunk.
func (c *Chunk) Count() int { return len(c.entities) }

// Stride returns the byte width of one row.
func (c *Chunk) Stride() int { return c.stride }

// Version returns the monotonic counter bumped on every structural
// change, used by external iterators to invalidate cached cursors.
func (c *Chunk) Version() uint64 { return c.version }

// EntityAt returns the entity id occupying row index i.
func (c *Chunk) EntityAt(i int) Entity { return c.entities[i] }

// LastEntity returns the entity at index Count()-1, or NoEntity if empty.
func (c *Chunk) LastEntity() Entity {
	if len(c.entities) == 0 {
		return NoEntity
	}
	return c.entities[len(c.entities)-1]
}

// Entities returns the dense, packed slice of entity ids backing the
// chunk. Callers must not retain it across a mutation.
func (c *Chunk) Entities() []Entity { return c.entities }

// Row returns a safe view over the row at index i, bounded by the
// chunk's version at the time the row was taken.
func (c *Chunk) Row(i int) ChunkRow {
	return ChunkRow{chunk: c, index: i, version: c.version}
}

// append grows the chunk by one zero-initialized row for e and returns its
// row index.
func (c *Chunk) append(e Entity) int {
	idx := len(c.entities)
	c.entities = extendSlice(c.entities, 1)
	c.entities[idx] = e
	c.rows = extendByteSlice(c.rows, c.stride)
	// extendByteSlice may reuse capacity left behind by swapRemove, so the
	// new row's bytes are cleared explicitly.
	clear(c.rows[idx*c.stride:])
	c.version++
	return idx
}

// swapRemove removes the row at index, swapping the last row into its
// place. It returns the entity that was moved into index (NoEntity if the
// removed row was already last, meaning no other Slot needs fixing up).
func (c *Chunk) swapRemove(index int) (moved Entity) {
	last := len(c.entities) - 1
	if index < 0 || index > last {
		return NoEntity
	}
	if index != last {
		copy(c.rowBytes(index), c.rowBytes(last))
		c.entities[index] = c.entities[last]
		moved = c.entities[index]
	}
	c.entities = c.entities[:last]
	c.rows = c.rows[:last*c.stride]
	c.version++
	return moved
}

// rowBytes returns the raw byte span for row index i. Internal helper;
// external callers go through ChunkRow/Component.
func (c *Chunk) rowBytes(i int) []byte {
	return c.rows[i*c.stride : (i+1)*c.stride]
}

// ChunkRow is a bounds- and version-checked view over a single Chunk
// row. It hands out component byte slices computed from offset + size,
// never a cached raw pointer. Any structural change to the chunk (an
// append or swapRemove of any row) bumps the chunk version, after which
// Valid reports false and Component returns nil, false.
type ChunkRow struct {
	chunk   *Chunk
	index   int
	version uint64
}

// Valid reports whether the chunk has not structurally changed since this
// ChunkRow was taken.
func (r ChunkRow) Valid() bool {
	return r.chunk != nil && r.chunk.version == r.version
}

// Component returns the byte slice for typeIndex's component within this
// row, using schema to locate the offset and size. Returns nil, false if
// the row is stale or the type isn't present in the chunk's Definition.
func (r ChunkRow) Component(schema Schema, typeIndex uint16) ([]byte, bool) {
	if !r.Valid() {
		return nil, false
	}
	if !r.chunk.definition.Components.Test(typeIndex) {
		return nil, false
	}
	offset, ok := schema.ComponentOffset(r.chunk.definition, typeIndex)
	if !ok {
		return nil, false
	}
	size := schema.ComponentSize(typeIndex)
	base := r.index * r.chunk.stride
	return r.chunk.rows[base+int(offset) : base+int(offset)+int(size)], true
}
