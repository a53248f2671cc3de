package ecsworld

// ChunkMap maps Definition -> Chunk, canonicalizing chunk creation and
// caching the "default" (empty-composition) chunk. A map gives O(1)
// lookup; a parallel slice gives stable, creation-ordered iteration over
// every chunk, exposed through All and World.Chunks.
type ChunkMap struct {
	schema  Schema
	byDef   map[Definition]*Chunk
	ordered []*Chunk
	empty   *Chunk
}

func newChunkMap(schema Schema) *ChunkMap {
	cm := &ChunkMap{
		schema: schema,
		byDef:  make(map[Definition]*Chunk, 32),
	}
	cm.empty = cm.GetOrCreate(Definition{})
	return cm
}

// GetOrCreate returns the canonical Chunk for def, creating it on demand
// with a stride derived from the schema.
func (cm *ChunkMap) GetOrCreate(def Definition) *Chunk {
	if c, ok := cm.byDef[def]; ok {
		return c
	}
	stride := int(cm.schema.RowStride(def.Components))
	c := newChunk(def, stride)
	cm.byDef[def] = c
	cm.ordered = append(cm.ordered, c)
	return c
}

// Default returns the chunk for the empty Definition (no components, no
// arrays, no tags).
func (cm *ChunkMap) Default() *Chunk {
	return cm.empty
}

// Lookup returns the chunk for def without creating it.
func (cm *ChunkMap) Lookup(def Definition) (*Chunk, bool) {
	c, ok := cm.byDef[def]
	return c, ok
}

// All returns every chunk ever created, in creation order. Chunks are
// never destroyed until World teardown.
func (cm *ChunkMap) All() []*Chunk {
	return cm.ordered
}
