package ecsworld

// CreateArray gives e a zero-length typed array at arrayType, migrating
// it to the chunk whose Definition includes the bit. Arrays live in the
// Definition's Arrays mask but are stored outside any Chunk's row bytes.
func (w *World) CreateArray(e Entity, arrayType uint8) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	bit := uint16(arrayType)
	if Config.AssertionsEnabled && from.definition.Arrays.Test(bit) {
		return ArrayAlreadyPresentError{Entity: e, Type: arrayType}
	}

	to := from.definition
	to.Arrays.Set(bit)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)

	stride := w.schema.ArraySize(arrayType)
	w.arrays.create(e, arrayType, stride)
	slot.Flags |= FlagContainsArrays

	w.fireDataChanged(e, ArrayKind, bit, true, 0)
	return nil
}

// DestroyArray drops e's typed array at arrayType, migrating it to the
// chunk whose Definition excludes the bit.
func (w *World) DestroyArray(e Entity, arrayType uint8) error {
	if err := w.requireAlive(e); err != nil {
		return err
	}
	slot := w.slots.Get(e)
	from := slot.Chunk
	bit := uint16(arrayType)
	if Config.AssertionsEnabled && !from.definition.Arrays.Test(bit) {
		return ArrayMissingError{Entity: e, Type: arrayType}
	}

	to := from.definition
	to.Arrays.Clear(bit)
	dest := w.chunks.GetOrCreate(to)
	w.moveEntity(e, dest)

	w.arrays.destroy(e, arrayType)
	if to.Arrays.IsEmpty() {
		slot.Flags &^= FlagContainsArrays
	}

	w.fireDataChanged(e, ArrayKind, bit, false, 0)
	return nil
}

// HasArray reports whether e currently carries a typed array at
// arrayType.
func (w *World) HasArray(e Entity, arrayType uint8) bool {
	if !w.EntityAlive(e) {
		return false
	}
	return w.slots.Get(e).Chunk.definition.Arrays.Test(uint16(arrayType))
}

// ResizeArray changes e's array at arrayType to n elements,
// zero-extending or truncating as needed.
func (w *World) ResizeArray(e Entity, arrayType uint8, n int) error {
	if !w.HasArray(e, arrayType) {
		return ArrayMissingError{Entity: e, Type: arrayType}
	}
	w.arrays.get(e, arrayType).resize(n)
	return nil
}

// ArrayLength returns the current element count of e's array at
// arrayType, or 0 if absent.
func (w *World) ArrayLength(e Entity, arrayType uint8) int {
	arr := w.arrays.get(e, arrayType)
	if arr == nil {
		return 0
	}
	return arr.Length()
}

// GetArrayElement returns the byte span for element i of e's array at
// arrayType.
func (w *World) GetArrayElement(e Entity, arrayType uint8, i int) ([]byte, bool) {
	arr := w.arrays.get(e, arrayType)
	if arr == nil {
		return nil, false
	}
	return arr.Element(i)
}

// SetArrayElement overwrites element i of e's array at arrayType with
// value (len(value) must equal the array's element stride).
func (w *World) SetArrayElement(e Entity, arrayType uint8, i int, value []byte) error {
	arr := w.arrays.get(e, arrayType)
	if arr == nil {
		return ArrayMissingError{Entity: e, Type: arrayType}
	}
	if i < 0 || i >= arr.Length() {
		return ArrayMissingError{Entity: e, Type: arrayType}
	}
	arr.setElement(i, value)
	return nil
}

// ArrayBytes returns the full backing buffer of e's array at arrayType.
func (w *World) ArrayBytes(e Entity, arrayType uint8) ([]byte, bool) {
	arr := w.arrays.get(e, arrayType)
	if arr == nil {
		return nil, false
	}
	return arr.Bytes(), true
}
