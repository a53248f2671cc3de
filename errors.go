package ecsworld

import "fmt"

// EntityMissingError is returned when an operation targets an entity id
// that is 0, out of range, or whose Slot is currently Free.
type EntityMissingError struct {
	Entity Entity
}

func (e EntityMissingError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d is missing", uint32(e.Entity))
}

// ComponentAlreadyPresentError is returned by AddComponent when the entity
// already carries the named component type.
type ComponentAlreadyPresentError struct {
	Entity Entity
	Type   uint16
}

func (e ComponentAlreadyPresentError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d already has component %d", uint32(e.Entity), e.Type)
}

// ComponentMissingError is returned by RemoveComponent when the entity
// does not carry the named component type. GetComponent reports a missing
// component as nil, false instead.
type ComponentMissingError struct {
	Entity Entity
	Type   uint16
}

func (e ComponentMissingError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d does not have component %d", uint32(e.Entity), e.Type)
}

// TagAlreadyPresentError is returned by AddTag when the entity already
// carries the named tag type.
type TagAlreadyPresentError struct {
	Entity Entity
	Type   uint8
}

func (e TagAlreadyPresentError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d already has tag %d", uint32(e.Entity), e.Type)
}

// TagMissingError is returned by RemoveTag when the entity does not carry
// the named tag type.
type TagMissingError struct {
	Entity Entity
	Type   uint8
}

func (e TagMissingError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d does not have tag %d", uint32(e.Entity), e.Type)
}

// ArrayAlreadyPresentError is returned by CreateArray when the entity
// already owns a TypedArray of the named array type.
type ArrayAlreadyPresentError struct {
	Entity Entity
	Type   uint8
}

func (e ArrayAlreadyPresentError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d already has array %d", uint32(e.Entity), e.Type)
}

// ArrayMissingError is returned when an array operation targets an array
// type the entity does not currently own.
type ArrayMissingError struct {
	Entity Entity
	Type   uint8
}

func (e ArrayMissingError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d does not have array %d", uint32(e.Entity), e.Type)
}

// ReferenceMissingError is returned by GetReference/RemoveReference when a
// local reference index is 0 or exceeds the entity's reference count.
// Looking up a target that is not in the entity's slice
// (GetReferenceIndex) reports 0, false instead.
type ReferenceMissingError struct {
	Entity Entity
	Index  uint32
}

func (e ReferenceMissingError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d has no reference at index %d", uint32(e.Entity), e.Index)
}

// InvalidParentError is returned by SetParent when the requested parent
// would make an entity its own ancestor.
type InvalidParentError struct {
	Entity, Parent Entity
}

func (e InvalidParentError) Error() string {
	return fmt.Sprintf("ecsworld: entity %d cannot be parented to %d", uint32(e.Entity), uint32(e.Parent))
}

// UnknownInstructionError is returned by Operation playback when a buffer
// contains a tag byte that does not match any known instruction.
type UnknownInstructionError struct {
	Tag      byte
	BytePos  int
	EntityID uint32
}

func (e UnknownInstructionError) Error() string {
	return fmt.Sprintf("ecsworld: unknown operation tag %d at byte %d", e.Tag, e.BytePos)
}

// VersionMismatchError is returned when deserializing a binary world whose
// header version this package does not understand.
type VersionMismatchError struct {
	Got, Want uint32
}

func (e VersionMismatchError) Error() string {
	return fmt.Sprintf("ecsworld: world format version %d unsupported (want %d)", e.Got, e.Want)
}
