package ecsworld

import "testing"

func TestChunkAppendAndSwapRemove(t *testing.T) {
	c := newChunk(Definition{}, 4)
	e1, e2, e3 := Entity(1), Entity(2), Entity(3)

	c.append(e1)
	c.append(e2)
	c.append(e3)

	if c.Count() != 3 {
		t.Fatalf("expected count 3, got %d", c.Count())
	}
	if c.EntityAt(0) != e1 || c.EntityAt(1) != e2 || c.EntityAt(2) != e3 {
		t.Fatalf("unexpected entity ordering: %v", c.Entities())
	}

	moved := c.swapRemove(0)
	if moved != e3 {
		t.Fatalf("expected last entity %d swapped into removed slot, got %d", e3, moved)
	}
	if c.Count() != 2 {
		t.Fatalf("expected count 2 after remove, got %d", c.Count())
	}
	if c.EntityAt(0) != e3 {
		t.Fatalf("expected e3 at index 0 after swap, got %d", c.EntityAt(0))
	}
}

func TestChunkSwapRemoveLastNoMove(t *testing.T) {
	c := newChunk(Definition{}, 4)
	e1 := Entity(1)
	c.append(e1)

	moved := c.swapRemove(0)
	if moved != NoEntity {
		t.Fatalf("expected no entity to move when removing the only row, got %d", moved)
	}
	if c.Count() != 0 {
		t.Fatalf("expected empty chunk, got count %d", c.Count())
	}
}

func TestChunkVersionBumpsOnStructuralChange(t *testing.T) {
	c := newChunk(Definition{}, 4)
	v0 := c.Version()
	c.append(Entity(1))
	if c.Version() == v0 {
		t.Fatalf("expected version to bump on append")
	}
	v1 := c.Version()
	c.swapRemove(0)
	if c.Version() == v1 {
		t.Fatalf("expected version to bump on swapRemove")
	}
}

func TestChunkRowComponentRoundTrip(t *testing.T) {
	schema := newFakeSchema().withComponent(0, 4, 100).withComponent(1, 2, 101)
	def := Definition{}
	def.Components.Set(0)
	def.Components.Set(1)

	stride := int(schema.RowStride(def.Components))
	c := newChunk(def, stride)
	idx := c.append(Entity(1))

	row := c.Row(idx)
	comp0, ok := row.Component(schema, 0)
	if !ok || len(comp0) != 4 {
		t.Fatalf("expected 4-byte span for component 0, got %v ok=%v", comp0, ok)
	}
	copy(comp0, []byte{1, 2, 3, 4})

	comp1, ok := row.Component(schema, 1)
	if !ok || len(comp1) != 2 {
		t.Fatalf("expected 2-byte span for component 1, got %v ok=%v", comp1, ok)
	}

	if c.rows[0] != 1 || c.rows[3] != 4 {
		t.Fatalf("expected component 0 bytes written into row storage, got %v", c.rows)
	}
}

func TestChunkRowInvalidatedByStructuralChange(t *testing.T) {
	c := newChunk(Definition{}, 4)
	c.append(Entity(1))
	row := c.Row(0)
	c.append(Entity(2))
	if row.Valid() {
		t.Fatalf("expected row taken before a structural change to be invalid afterward")
	}
}
