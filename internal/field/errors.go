package field

import "errors"

var (
	// ErrOutOfRange is returned when a field's start address falls outside
	// the buffer (spec.md §7 AddressingOutOfRange).
	ErrOutOfRange = errors.New("field: start address out of range")
	// ErrProtected is returned by write attempts against a protected field
	// (spec.md §7 FieldViolation).
	ErrProtected = errors.New("field: protected field rejects write")
	// ErrNoUnprotectedFields is returned by TabNext/TabPrev when no
	// unprotected, non-bypass field exists to land on.
	ErrNoUnprotectedFields = errors.New("field: no unprotected fields")
	// ErrNotFound is returned when an operation references a field id or
	// address with no matching field.
	ErrNotFound = errors.New("field: not found")
	// ErrValidation is returned by Validate when a field's content fails
	// its extended-attribute validation rule.
	ErrValidation = errors.New("field: validation failed")
)
