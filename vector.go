package vector

import (
	"context"
	"iter"
	"slices"
	"unsafe"
)

// Vector is a resizable array of T.
//
// A Vector made with New is not safe for concurrent use; one made with
// NewSafe (or WithThreadSafe(true)) locks every operation: mutations
// exclusively, reads shared. Callbacks passed to Apply, Range, Find and
// similar run with the lock held and must not call back into the same
// Vector.
type Vector[T any] struct {
	g guard
	c core[T]
}

// New creates an empty Vector. The zero capacity and element size options
// fall back to the package defaults.
func New[T any](opts ...Option) (*Vector[T], error) {
	o := buildOptions(opts)
	var zero T
	size := int(unsafe.Sizeof(zero))
	if o.elementSize > 0 && o.elementSize != size {
		return nil, &SizeError{Expected: size, Actual: o.elementSize}
	}
	v := &Vector[T]{g: newGuard(o.threadSafe)}
	if err := v.c.init(o, 1, size, allocSlots[T], o.initialCapacity); err != nil {
		return nil, err
	}
	return v, nil
}

// NewSafe creates an empty Vector that is safe for concurrent use.
func NewSafe[T any](opts ...Option) (*Vector[T], error) {
	return New[T](append(opts, WithThreadSafe(true))...)
}

// Of creates an unsynchronized Vector holding xs.
func Of[T any](xs ...T) (*Vector[T], error) {
	v, err := New[T]()
	if err != nil {
		return nil, err
	}
	if err := v.c.appendUnits(xs, Index(len(xs))); err != nil {
		return nil, err
	}
	return v, nil
}

// Destroy releases the storage. Every later call fails with ErrInvalidHandle.
func (v *Vector[T]) Destroy() error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.destroy()
}

// IsDestroyed reports whether Destroy has been called.
func (v *Vector[T]) IsDestroyed() bool {
	v.g.RLock()
	defer v.g.RUnlock()
	return v.c.destroyed
}

// Len returns the number of elements.
func (v *Vector[T]) Len() Index {
	v.g.RLock()
	defer v.g.RUnlock()
	return v.c.length
}

// Cap returns the number of allocated slots.
func (v *Vector[T]) Cap() Index {
	v.g.RLock()
	defer v.g.RUnlock()
	return v.c.capacity
}

// IsEmpty reports whether the vector holds no elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.Len() == 0
}

// ElementSize returns the size of T in bytes.
func (v *Vector[T]) ElementSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// PushBack appends e. Amortized O(1).
func (v *Vector[T]) PushBack(e T) error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.insert("PushBack", v.c.length, []T{e})
}

// PushFront inserts e at index 0. O(n).
func (v *Vector[T]) PushFront(e T) error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.insert("PushFront", 0, []T{e})
}

// Insert places e at index i, shifting later elements right.
// i may equal Len, which appends.
func (v *Vector[T]) Insert(i Index, e T) error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.insert("Insert", i, []T{e})
}

// PopBack removes and returns the last element.
func (v *Vector[T]) PopBack() (T, error) {
	return v.pop(true)
}

// PopFront removes and returns the first element. O(n).
func (v *Vector[T]) PopFront() (T, error) {
	return v.pop(false)
}

func (v *Vector[T]) pop(back bool) (T, error) {
	v.g.Lock()
	defer v.g.Unlock()
	var out [1]T
	i, err := v.c.end(back)
	if err != nil {
		return out[0], err
	}
	err = v.c.remove("Pop", i, out[:])
	return out[0], err
}

// Remove deletes and returns the element at i, shifting later elements left.
func (v *Vector[T]) Remove(i Index) (T, error) {
	v.g.Lock()
	defer v.g.Unlock()
	var out [1]T
	err := v.c.remove("Remove", i, out[:])
	return out[0], err
}

// Get returns the element at i.
func (v *Vector[T]) Get(i Index) (T, error) {
	v.g.RLock()
	defer v.g.RUnlock()
	var out [1]T
	err := v.c.get("Get", i, out[:])
	return out[0], err
}

// Set overwrites the element at i.
func (v *Vector[T]) Set(i Index, e T) error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.set("Set", i, []T{e})
}

// Front returns the first element.
func (v *Vector[T]) Front() (T, error) {
	return v.at(false)
}

// Back returns the last element.
func (v *Vector[T]) Back() (T, error) {
	return v.at(true)
}

func (v *Vector[T]) at(back bool) (T, error) {
	v.g.RLock()
	defer v.g.RUnlock()
	var zero T
	i, err := v.c.end(back)
	if err != nil {
		return zero, err
	}
	return v.c.slots[i], nil
}

// Apply replaces every element with fn(i, e), in index order.
func (v *Vector[T]) Apply(fn func(i Index, e T) T) error {
	v.g.Lock()
	defer v.g.Unlock()
	if err := v.c.live(); err != nil {
		return err
	}
	v.c.visit(0, v.c.length, func(i Index, s []T) bool {
		s[0] = fn(i, s[0])
		return true
	})
	return nil
}

// ApplyRange replaces the elements in [from, to) with fn(i, e).
func (v *Vector[T]) ApplyRange(from, to Index, fn func(i Index, e T) T) error {
	v.g.Lock()
	defer v.g.Unlock()
	if err := v.c.checkRange("ApplyRange", from, to); err != nil {
		return err
	}
	v.c.visit(from, to, func(i Index, s []T) bool {
		s[0] = fn(i, s[0])
		return true
	})
	return nil
}

// ApplyIf replaces the elements matching pred with fn(e) and returns how
// many were replaced.
func (v *Vector[T]) ApplyIf(pred func(e T) bool, fn func(e T) T) (Index, error) {
	v.g.Lock()
	defer v.g.Unlock()
	if err := v.c.live(); err != nil {
		return 0, err
	}
	var n Index
	v.c.visit(0, v.c.length, func(_ Index, s []T) bool {
		if pred(s[0]) {
			s[0] = fn(s[0])
			n++
		}
		return true
	})
	return n, nil
}

// Range calls fn for each element in index order until fn returns false.
func (v *Vector[T]) Range(fn func(i Index, e T) bool) error {
	v.g.RLock()
	defer v.g.RUnlock()
	if err := v.c.live(); err != nil {
		return err
	}
	v.c.visit(0, v.c.length, func(i Index, s []T) bool {
		return fn(i, s[0])
	})
	return nil
}

// All returns an iterator over index/element pairs. Each iteration holds
// the read lock until it finishes, so the loop body must not call any
// method of v: with a writer waiting, a nested read deadlocks. Copy with
// ToSlice first when the body needs the vector. A destroyed vector yields
// nothing.
func (v *Vector[T]) All() iter.Seq2[Index, T] {
	return func(yield func(Index, T) bool) {
		_ = v.Range(yield)
	}
}

// ParallelRange calls fn for every element from up to workers goroutines
// (GOMAXPROCS if workers <= 0). Order across goroutines is unspecified.
// The first error returned by fn, or ctx's error, is returned.
func (v *Vector[T]) ParallelRange(ctx context.Context, workers int, fn func(i Index, e T) error) error {
	v.g.RLock()
	defer v.g.RUnlock()
	return v.c.parallelVisit(ctx, workers, func(i Index, s []T) error {
		return fn(i, s[0])
	})
}

// Find returns the index of the first element matching pred, or
// ErrNotFound.
func (v *Vector[T]) Find(pred func(e T) bool) (Index, error) {
	v.g.RLock()
	defer v.g.RUnlock()
	return v.c.find(func(s []T) bool { return pred(s[0]) })
}

// IndexOf returns the index of the first element equal to x, or ErrNotFound.
func IndexOf[T comparable](v *Vector[T], x T) (Index, error) {
	return v.Find(func(e T) bool { return e == x })
}

// Contains reports whether x is stored in v.
func Contains[T comparable](v *Vector[T], x T) bool {
	_, err := IndexOf(v, x)
	return err == nil
}

// Swap exchanges the elements at i and j.
func (v *Vector[T]) Swap(i, j Index) error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.swap(i, j)
}

// Reverse reverses the order of the elements.
func (v *Vector[T]) Reverse() error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.reverse()
}

// RotateLeft moves the first n elements to the back.
func (v *Vector[T]) RotateLeft(n Index) error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.rotateLeft(n)
}

// RotateRight moves the last n elements to the front.
func (v *Vector[T]) RotateRight(n Index) error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.rotateRight(n)
}

// Sort sorts the elements by cmp, which follows the slices.SortFunc contract.
func (v *Vector[T]) Sort(cmp func(a, b T) int) error {
	v.g.Lock()
	defer v.g.Unlock()
	if err := v.c.live(); err != nil {
		return err
	}
	slices.SortFunc(v.c.slots[:v.c.length], cmp)
	return nil
}

// BinarySearch searches a vector sorted by cmp for target. When target is
// absent it returns ErrNotFound along with the position where it would be
// inserted.
func (v *Vector[T]) BinarySearch(target T, cmp func(e, target T) int) (Index, error) {
	v.g.RLock()
	defer v.g.RUnlock()
	if err := v.c.live(); err != nil {
		return 0, err
	}
	i, found := slices.BinarySearchFunc(v.c.slots[:v.c.length], target, cmp)
	if !found {
		return Index(i), ErrNotFound
	}
	return Index(i), nil
}

// Clear removes every element. Under ShrinkAuto capacity returns to the
// initial capacity.
func (v *Vector[T]) Clear() error {
	v.g.Lock()
	defer v.g.Unlock()
	return v.c.clearAll()
}

// Reserve grows capacity to hold at least n elements.
func (v *Vector[T]) Reserve(n Index) error {
	v.g.Lock()
	defer v.g.Unlock()
	if err := v.c.live(); err != nil {
		return err
	}
	return v.c.reserve(n)
}

// ShrinkToFit reduces capacity to max(Len, initial capacity).
func (v *Vector[T]) ShrinkToFit() error {
	v.g.Lock()
	defer v.g.Unlock()
	if err := v.c.live(); err != nil {
		return err
	}
	return v.c.shrinkToFit()
}

// Clone returns an independent copy with the same options.
func (v *Vector[T]) Clone() (*Vector[T], error) {
	v.g.RLock()
	defer v.g.RUnlock()
	dst := &Vector[T]{g: newGuard(v.c.opts.threadSafe)}
	if err := v.c.cloneInto(&dst.c); err != nil {
		return nil, err
	}
	return dst, nil
}

// AppendVector appends a snapshot of other's elements. other may be v.
func (v *Vector[T]) AppendVector(other *Vector[T]) error {
	src, err := other.ToSlice()
	if err != nil {
		return err
	}
	return v.AppendSlice(src...)
}

// AppendSlice appends xs as one operation.
func (v *Vector[T]) AppendSlice(xs ...T) error {
	v.g.Lock()
	defer v.g.Unlock()
	if uint64(len(xs)) > uint64(MaxIndex) {
		return ErrCapacityExceeded
	}
	return v.c.appendUnits(xs, Index(len(xs)))
}

// ToSlice returns a copy of the elements.
func (v *Vector[T]) ToSlice() ([]T, error) {
	v.g.RLock()
	defer v.g.RUnlock()
	if err := v.c.live(); err != nil {
		return nil, err
	}
	return v.c.occupied(), nil
}

// Metrics returns a snapshot of vector statistics.
func (v *Vector[T]) Metrics() Metrics {
	v.g.RLock()
	defer v.g.RUnlock()
	return v.c.metrics()
}
