package vector

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfMemory is returned when a storage block cannot be allocated.
	// The vector is left exactly as it was before the call.
	ErrOutOfMemory = errors.New("vector: out of memory")

	// ErrIndexOutOfBounds is returned for a position outside the range valid
	// for the operation.
	ErrIndexOutOfBounds = errors.New("vector: index out of bounds")

	// ErrEmptyVector is returned by pop, front and back on an empty vector.
	ErrEmptyVector = errors.New("vector: empty vector")

	// ErrInvalidHandle is returned by any operation on a destroyed vector.
	ErrInvalidHandle = errors.New("vector: invalid handle")

	// ErrSizeMismatch is returned when a buffer does not match the element size.
	ErrSizeMismatch = errors.New("vector: element size mismatch")

	// ErrCapacityExceeded is returned when a vector would grow past MaxIndex.
	ErrCapacityExceeded = errors.New("vector: capacity exceeded")

	// ErrNotFound is returned by searches that match no element.
	ErrNotFound = errors.New("vector: not found")
)

// IndexError describes an out-of-bounds access.
// It unwraps to ErrIndexOutOfBounds.
type IndexError struct {
	Op     string
	Index  Index
	Length Index
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("vector: %s: index %d out of bounds (length %d)", e.Op, e.Index, e.Length)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfBounds }

// SizeError describes a buffer whose length differs from the element size.
// It unwraps to ErrSizeMismatch.
type SizeError struct {
	Expected int
	Actual   int
}

func (e *SizeError) Error() string {
	return fmt.Sprintf("vector: element size mismatch: expected %d bytes, got %d", e.Expected, e.Actual)
}

func (e *SizeError) Unwrap() error { return ErrSizeMismatch }
