package vector

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrBudgetExceeded is returned by Budget.Acquire when the limit would be
// exceeded. Vectors report it wrapped in ErrOutOfMemory.
var ErrBudgetExceeded = errors.New("vector: memory budget exceeded")

// Budget caps the bytes held by the storage blocks of one or more vectors.
//
// All methods are safe for concurrent use and handle a nil *Budget as an
// unlimited budget, so vectors can take one optionally.
type Budget struct {
	limit int64
	sem   *semaphore.Weighted // nil if unlimited
	used  atomic.Int64
}

// NewBudget creates a budget of limitBytes bytes.
// If limitBytes <= 0, usage is only tracked.
func NewBudget(limitBytes int64) *Budget {
	b := &Budget{}
	if limitBytes > 0 {
		b.limit = limitBytes
		b.sem = semaphore.NewWeighted(limitBytes)
	}
	return b
}

// Acquire reserves n bytes without blocking.
func (b *Budget) Acquire(n int64) error {
	if b == nil || n <= 0 {
		return nil
	}
	if b.sem != nil && !b.sem.TryAcquire(n) {
		return ErrBudgetExceeded
	}
	b.used.Add(n)
	return nil
}

// Release returns n bytes previously reserved with Acquire.
func (b *Budget) Release(n int64) {
	if b == nil || n <= 0 {
		return
	}
	if b.sem != nil {
		b.sem.Release(n)
	}
	b.used.Add(-n)
}

// Used returns the bytes currently reserved.
func (b *Budget) Used() int64 {
	if b == nil {
		return 0
	}
	return b.used.Load()
}

// Limit returns the configured limit in bytes (0 if unlimited).
func (b *Budget) Limit() int64 {
	if b == nil {
		return 0
	}
	return b.limit
}
