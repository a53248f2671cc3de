package ecsworld

import (
	"bytes"
	"testing"
)

const (
	compPosition uint16 = 0
	compVelocity uint16 = 1
	tagEnemy     uint8  = 0
	arrInventory uint8  = 0

	hashPosition    int64 = 1001
	hashVelocity    int64 = 1002
	hashEnemy       int64 = 1003
	hashInventory   int64 = 1004
)

func newTestSchema() *fakeSchema {
	return newFakeSchema().
		withComponent(compPosition, 8, hashPosition).
		withComponent(compVelocity, 8, hashVelocity).
		withTag(tagEnemy, hashEnemy).
		withArray(arrInventory, 4, hashInventory)
}

func TestWorldCreateDestroyLifecycle(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})

	e := w.CreateEntity()
	if !w.EntityAlive(e) {
		t.Fatalf("expected newly created entity to be alive")
	}
	if w.Definition(e) != (Definition{}) {
		t.Fatalf("expected new entity to start with the empty Definition")
	}

	if err := w.DestroyEntity(e, false); err != nil {
		t.Fatalf("DestroyEntity: %v", err)
	}
	if w.EntityAlive(e) {
		t.Fatalf("expected destroyed entity to report not alive")
	}

	if err := w.DestroyEntity(e, false); err == nil {
		t.Fatalf("expected destroying an already-dead entity to error")
	}

	e2 := w.CreateEntity()
	if e2 != e {
		t.Fatalf("expected immediate id reuse, got %d want %d", e2, e)
	}
}

func TestWorldAddRemoveComponentMigratesChunk(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	e := w.CreateEntity()

	posValue := []byte{1, 0, 0, 0, 0, 0, 0, 0}
	if err := w.AddComponent(e, compPosition, posValue); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if !w.Definition(e).Components.Test(compPosition) {
		t.Fatalf("expected entity's Definition to include Position after AddComponent")
	}

	got, ok := w.GetComponent(e, compPosition)
	if !ok {
		t.Fatalf("expected Position component present")
	}
	if !bytes.Equal(got, posValue) {
		t.Fatalf("expected component bytes preserved across migration, got %v want %v", got, posValue)
	}

	if err := w.AddComponent(e, compPosition, posValue); err == nil {
		t.Fatalf("expected re-adding an already-present component to error")
	}

	if err := w.RemoveComponent(e, compPosition); err != nil {
		t.Fatalf("RemoveComponent: %v", err)
	}
	if _, ok := w.GetComponent(e, compPosition); ok {
		t.Fatalf("expected Position gone after RemoveComponent")
	}
}

func TestWorldMoveEntityPreservesOtherComponent(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	e := w.CreateEntity()

	velValue := []byte{9, 9, 9, 9, 9, 9, 9, 9}
	if err := w.AddComponent(e, compVelocity, velValue); err != nil {
		t.Fatalf("AddComponent velocity: %v", err)
	}
	if err := w.AddComponent(e, compPosition, []byte{0, 0, 0, 0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("AddComponent position: %v", err)
	}

	got, ok := w.GetComponent(e, compVelocity)
	if !ok || !bytes.Equal(got, velValue) {
		t.Fatalf("expected velocity bytes preserved through the second migration, got %v", got)
	}
}

func TestWorldTagsMigrateChunk(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	e := w.CreateEntity()

	if w.HasTag(e, tagEnemy) {
		t.Fatalf("expected tag absent initially")
	}
	if err := w.AddTag(e, tagEnemy); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if !w.HasTag(e, tagEnemy) {
		t.Fatalf("expected tag present after AddTag")
	}
	if err := w.RemoveTag(e, tagEnemy); err != nil {
		t.Fatalf("RemoveTag: %v", err)
	}
	if w.HasTag(e, tagEnemy) {
		t.Fatalf("expected tag absent after RemoveTag")
	}
}

func TestWorldArraysLifecycle(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	e := w.CreateEntity()

	if err := w.CreateArray(e, arrInventory); err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	if err := w.ResizeArray(e, arrInventory, 2); err != nil {
		t.Fatalf("ResizeArray: %v", err)
	}
	if err := w.SetArrayElement(e, arrInventory, 0, []byte{1, 2, 3, 4}); err != nil {
		t.Fatalf("SetArrayElement: %v", err)
	}
	elem, ok := w.GetArrayElement(e, arrInventory, 0)
	if !ok || !bytes.Equal(elem, []byte{1, 2, 3, 4}) {
		t.Fatalf("expected element bytes round-trip, got %v", elem)
	}

	if err := w.DestroyArray(e, arrInventory); err != nil {
		t.Fatalf("DestroyArray: %v", err)
	}
	if w.HasArray(e, arrInventory) {
		t.Fatalf("expected array gone after DestroyArray")
	}
}

func TestWorldParentChildDepthAndDestroy(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	root := w.CreateEntity()
	child := w.CreateEntity()
	grandchild := w.CreateEntity()

	if err := w.SetParent(child, root); err != nil {
		t.Fatalf("SetParent child: %v", err)
	}
	if err := w.SetParent(grandchild, child); err != nil {
		t.Fatalf("SetParent grandchild: %v", err)
	}

	if w.Depth(root) != 0 || w.Depth(child) != 1 || w.Depth(grandchild) != 2 {
		t.Fatalf("unexpected depths: root=%d child=%d grandchild=%d", w.Depth(root), w.Depth(child), w.Depth(grandchild))
	}
	if w.MaxDepth() != 2 {
		t.Fatalf("expected MaxDepth 2, got %d", w.MaxDepth())
	}

	if err := w.SetParent(root, root); err == nil {
		t.Fatalf("expected self-parenting to error")
	}
	if err := w.SetParent(root, grandchild); err == nil {
		t.Fatalf("expected reparenting onto a descendant to error")
	}

	if err := w.DestroyEntity(root, true); err != nil {
		t.Fatalf("DestroyEntity cascading: %v", err)
	}
	if w.EntityAlive(child) || w.EntityAlive(grandchild) {
		t.Fatalf("expected cascading destroy to remove descendants")
	}
}

func TestWorldDestroyWithoutCascadeUnparentsChildren(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	root := w.CreateEntity()
	child := w.CreateEntity()
	if err := w.SetParent(child, root); err != nil {
		t.Fatalf("SetParent: %v", err)
	}

	if err := w.DestroyEntity(root, false); err != nil {
		t.Fatalf("DestroyEntity: %v", err)
	}
	if !w.EntityAlive(child) {
		t.Fatalf("expected child to survive non-cascading destroy")
	}
	if w.Parent(child) != NoEntity {
		t.Fatalf("expected child's parent cleared, got %d", w.Parent(child))
	}
}

func TestWorldEnableDisablePropagation(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	parent := w.CreateEntity()
	child := w.CreateEntity()
	if err := w.SetParent(child, parent); err != nil {
		t.Fatalf("SetParent: %v", err)
	}

	if !w.IsEnabled(parent) || !w.IsEnabled(child) {
		t.Fatalf("expected both entities enabled initially")
	}

	if err := w.SetEnabled(parent, false); err != nil {
		t.Fatalf("SetEnabled: %v", err)
	}
	if w.IsEnabled(parent) || w.IsEnabled(child) {
		t.Fatalf("expected disabling parent to effectively disable child")
	}
	if !w.IsLocallyEnabled(child) {
		t.Fatalf("expected child's own local intent to remain enabled")
	}
	if !w.Definition(child).Disabled() {
		t.Fatalf("expected child migrated into a disabled chunk")
	}

	if err := w.SetEnabled(parent, true); err != nil {
		t.Fatalf("SetEnabled re-enable: %v", err)
	}
	if !w.IsEnabled(parent) || !w.IsEnabled(child) {
		t.Fatalf("expected re-enabling parent to resume child")
	}
}

func TestWorldEnableDisableLocalOverride(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	parent := w.CreateEntity()
	child := w.CreateEntity()
	if err := w.SetParent(child, parent); err != nil {
		t.Fatalf("SetParent: %v", err)
	}

	if err := w.SetEnabled(child, false); err != nil {
		t.Fatalf("SetEnabled child: %v", err)
	}
	if err := w.SetEnabled(parent, false); err != nil {
		t.Fatalf("SetEnabled parent: %v", err)
	}
	if err := w.SetEnabled(parent, true); err != nil {
		t.Fatalf("SetEnabled parent re-enable: %v", err)
	}

	if w.IsEnabled(child) {
		t.Fatalf("expected child to remain disabled since it was locally disabled before the parent was")
	}
	if w.IsLocallyEnabled(child) {
		t.Fatalf("expected child's local intent to still be disabled")
	}
}

func TestWorldIsAndBecome(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	e := w.CreateEntity()

	var target Definition
	target.Components.Set(compPosition)
	target.Components.Set(compVelocity)
	target.Tags.Set(uint16(tagEnemy))

	if w.Is(e, target) {
		t.Fatalf("expected fresh entity to not already match target Definition")
	}

	if err := w.Become(e, target); err != nil {
		t.Fatalf("Become: %v", err)
	}
	if !w.Is(e, target) {
		t.Fatalf("expected entity to match target Definition after Become")
	}

	// Become must be idempotent against bits already present.
	if err := w.Become(e, target); err != nil {
		t.Fatalf("Become again: %v", err)
	}
}

func TestWorldCloneEntity(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	e := w.CreateEntity()
	posValue := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	if err := w.AddComponent(e, compPosition, posValue); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if err := w.CreateArray(e, arrInventory); err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	if err := w.ResizeArray(e, arrInventory, 1); err != nil {
		t.Fatalf("ResizeArray: %v", err)
	}
	if err := w.SetArrayElement(e, arrInventory, 0, []byte{9, 9, 9, 9}); err != nil {
		t.Fatalf("SetArrayElement: %v", err)
	}

	clone, err := w.CloneEntity(e)
	if err != nil {
		t.Fatalf("CloneEntity: %v", err)
	}
	if clone == e {
		t.Fatalf("expected clone to have a distinct id")
	}
	if w.Definition(clone) != w.Definition(e) {
		t.Fatalf("expected clone to share e's Definition")
	}

	got, ok := w.GetComponent(clone, compPosition)
	if !ok || !bytes.Equal(got, posValue) {
		t.Fatalf("expected cloned component bytes, got %v", got)
	}
	elem, ok := w.GetArrayElement(clone, arrInventory, 0)
	if !ok || !bytes.Equal(elem, []byte{9, 9, 9, 9}) {
		t.Fatalf("expected cloned array element, got %v", elem)
	}

	if w.Parent(clone) != NoEntity {
		t.Fatalf("expected clone to start parentless")
	}
}

func TestWorldAppendMergesWorlds(t *testing.T) {
	schema := newTestSchema()
	src := NewWorld(schema, WorldOptions{})
	dst := NewWorld(schema, WorldOptions{})

	root := src.CreateEntity()
	child := src.CreateEntity()
	if err := src.SetParent(child, root); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	if err := src.AddComponent(root, compPosition, []byte{1, 0, 0, 0, 0, 0, 0, 0}); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if _, err := src.AddReference(child, root); err != nil {
		t.Fatalf("AddReference: %v", err)
	}

	dst.Append(src)

	var found []Entity
	for e := range dst.Entities() {
		found = append(found, e)
	}
	if len(found) != 2 {
		t.Fatalf("expected 2 entities copied into dst, got %d", len(found))
	}

	for _, e := range found {
		if dst.Parent(e) != NoEntity {
			t.Fatalf("expected Append to leave every copied entity parentless, got parent for %d", e)
		}
		if dst.ReferenceCount(e) != 0 {
			t.Fatalf("expected Append to leave every copied entity referenceless, got %d references for %d", dst.ReferenceCount(e), e)
		}
	}

	var newRoot Entity
	for _, e := range found {
		if dst.Is(e, Definition{Components: func() BitMask256 {
			var m BitMask256
			m.Set(compPosition)
			return m
		}()}) {
			newRoot = e
		}
	}
	if newRoot == 0 {
		t.Fatalf("expected the entity carrying compPosition to have been copied into dst")
	}
	if got, ok := dst.GetComponent(newRoot, compPosition); !ok || got[0] != 1 {
		t.Fatalf("expected component bytes preserved across Append")
	}
}

func TestOperationCreateAndDestroyPlayback(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})

	op := NewOperation()
	op.RecordCreateEntities(3, true)
	op.RecordSelectPrevCreated(0)
	op.RecordAddComponent(hashPosition, []byte{1, 0, 0, 0, 0, 0, 0, 0})

	if err := op.Perform(w); err != nil {
		t.Fatalf("Perform: %v", err)
	}

	var alive []Entity
	for e := range w.Entities() {
		alive = append(alive, e)
	}
	if len(alive) != 3 {
		t.Fatalf("expected 3 entities created, got %d", len(alive))
	}

	var withPosition int
	for _, e := range alive {
		if w.Definition(e).Components.Test(compPosition) {
			withPosition++
		}
	}
	if withPosition != 1 {
		t.Fatalf("expected exactly 1 entity (the most recently created) to have Position, got %d", withPosition)
	}

	// history is scratch state of a single Perform, so a second Operation
	// names the most recently created entity by id.
	op2 := NewOperation()
	op2.RecordSelectEntities([]uint32{uint32(alive[len(alive)-1])})
	op2.RecordDestroySelected()
	if err := op2.Perform(w); err != nil {
		t.Fatalf("Perform destroy: %v", err)
	}

	alive = alive[:0]
	for e := range w.Entities() {
		alive = append(alive, e)
	}
	if len(alive) != 2 {
		t.Fatalf("expected 2 entities to remain after DestroySelected, got %d", len(alive))
	}
}

func TestOperationUnknownInstruction(t *testing.T) {
	w := NewWorld(newTestSchema(), WorldOptions{})
	op := NewOperation()
	op.buf = append(op.buf, 0xFF)

	err := op.Perform(w)
	if err == nil {
		t.Fatalf("expected unknown tag to error")
	}
	if _, ok := err.(UnknownInstructionError); !ok {
		t.Fatalf("expected UnknownInstructionError, got %T", err)
	}
}

func TestWorldSerializeRoundTrip(t *testing.T) {
	schema := newTestSchema()
	w := NewWorld(schema, WorldOptions{})

	root := w.CreateEntity()
	child := w.CreateEntity()
	if err := w.SetParent(child, root); err != nil {
		t.Fatalf("SetParent: %v", err)
	}
	if err := w.AddComponent(root, compPosition, []byte{1, 2, 3, 4, 5, 6, 7, 8}); err != nil {
		t.Fatalf("AddComponent: %v", err)
	}
	if err := w.AddTag(child, tagEnemy); err != nil {
		t.Fatalf("AddTag: %v", err)
	}
	if err := w.CreateArray(child, arrInventory); err != nil {
		t.Fatalf("CreateArray: %v", err)
	}
	if err := w.ResizeArray(child, arrInventory, 2); err != nil {
		t.Fatalf("ResizeArray: %v", err)
	}
	if err := w.SetArrayElement(child, arrInventory, 1, []byte{4, 4, 4, 4}); err != nil {
		t.Fatalf("SetArrayElement: %v", err)
	}
	if _, err := w.AddReference(child, root); err != nil {
		t.Fatalf("AddReference: %v", err)
	}

	var buf bytes.Buffer
	blob := []byte("opaque-schema-blob")
	if err := WriteWorld(&buf, w, blob); err != nil {
		t.Fatalf("WriteWorld: %v", err)
	}

	readBack, gotBlob, err := ReadWorld(&buf, schema, WorldOptions{}, nil)
	if err != nil {
		t.Fatalf("ReadWorld: %v", err)
	}
	if !bytes.Equal(gotBlob, blob) {
		t.Fatalf("expected schema blob preserved, got %v", gotBlob)
	}

	var entities []Entity
	for e := range readBack.Entities() {
		entities = append(entities, e)
	}
	if len(entities) != 2 {
		t.Fatalf("expected 2 entities after round trip, got %d", len(entities))
	}

	var newRoot, newChild Entity
	for _, e := range entities {
		if readBack.Parent(e) == NoEntity {
			newRoot = e
		} else {
			newChild = e
		}
	}
	if newChild == 0 {
		t.Fatalf("expected a parented entity after round trip")
	}
	if readBack.Parent(newChild) != newRoot {
		t.Fatalf("expected parent link preserved")
	}

	got, ok := readBack.GetComponent(newRoot, compPosition)
	if !ok || !bytes.Equal(got, []byte{1, 2, 3, 4, 5, 6, 7, 8}) {
		t.Fatalf("expected component bytes preserved, got %v", got)
	}
	if !readBack.HasTag(newChild, tagEnemy) {
		t.Fatalf("expected tag preserved")
	}
	elem, ok := readBack.GetArrayElement(newChild, arrInventory, 1)
	if !ok || !bytes.Equal(elem, []byte{4, 4, 4, 4}) {
		t.Fatalf("expected array element preserved, got %v", elem)
	}
	if !readBack.ContainsReference(newChild, newRoot) {
		t.Fatalf("expected reference preserved")
	}
}
