package vector

import (
	"bytes"
	"context"
	"fmt"
	"iter"
	"sort"
)

// Raw is a type-erased vector of fixed-size byte elements. Its element size
// is set at creation and never changes; every buffer passed in must be
// exactly that long.
//
// Byte slices handed to callbacks (Apply, Range, All, Find, Sort,
// ParallelRange) are views into storage, valid only for the duration of
// the callback. Get, Remove and the pop operations return copies.
type Raw struct {
	g guard
	c core[byte]
}

// NewRaw creates an empty Raw vector.
// The element size comes from WithElementSize, DefaultDataSize if unset.
func NewRaw(opts ...Option) (*Raw, error) {
	o := buildOptions(opts)
	if o.elementSize <= 0 {
		o.elementSize = DefaultDataSize
	}
	r := &Raw{g: newGuard(o.threadSafe)}
	if err := r.c.init(o, o.elementSize, 1, allocAligned, o.initialCapacity); err != nil {
		return nil, err
	}
	return r, nil
}

// NewSafeRaw creates an empty Raw vector that is safe for concurrent use.
func NewSafeRaw(opts ...Option) (*Raw, error) {
	return NewRaw(append(opts, WithThreadSafe(true))...)
}

func (r *Raw) checkSize(elem []byte) error {
	if len(elem) != r.c.elemSize {
		return &SizeError{Expected: r.c.elemSize, Actual: len(elem)}
	}
	return nil
}

// Destroy releases the storage. Every later call fails with ErrInvalidHandle.
func (r *Raw) Destroy() error {
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.destroy()
}

// IsDestroyed reports whether Destroy has been called.
func (r *Raw) IsDestroyed() bool {
	r.g.RLock()
	defer r.g.RUnlock()
	return r.c.destroyed
}

// Len returns the number of elements.
func (r *Raw) Len() Index {
	r.g.RLock()
	defer r.g.RUnlock()
	return r.c.length
}

// Cap returns the number of allocated slots.
func (r *Raw) Cap() Index {
	r.g.RLock()
	defer r.g.RUnlock()
	return r.c.capacity
}

// IsEmpty reports whether the vector holds no elements.
func (r *Raw) IsEmpty() bool {
	return r.Len() == 0
}

// ElementSize returns the byte width of each element.
func (r *Raw) ElementSize() int {
	return r.c.elemSize
}

// PushBack appends a copy of elem.
func (r *Raw) PushBack(elem []byte) error {
	return r.insert("PushBack", elem, func() Index { return r.c.length })
}

// PushFront inserts a copy of elem at index 0.
func (r *Raw) PushFront(elem []byte) error {
	return r.insert("PushFront", elem, func() Index { return 0 })
}

// Insert places a copy of elem at index i. i may equal Len.
func (r *Raw) Insert(i Index, elem []byte) error {
	return r.insert("Insert", elem, func() Index { return i })
}

func (r *Raw) insert(op string, elem []byte, pos func() Index) error {
	if err := r.checkSize(elem); err != nil {
		return err
	}
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.insert(op, pos(), elem)
}

// PopBack removes and returns the last element.
func (r *Raw) PopBack() ([]byte, error) {
	return r.pop(true)
}

// PopFront removes and returns the first element.
func (r *Raw) PopFront() ([]byte, error) {
	return r.pop(false)
}

func (r *Raw) pop(back bool) ([]byte, error) {
	r.g.Lock()
	defer r.g.Unlock()
	i, err := r.c.end(back)
	if err != nil {
		return nil, err
	}
	out := make([]byte, r.c.elemSize)
	if err := r.c.remove("Pop", i, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove deletes and returns the element at i.
func (r *Raw) Remove(i Index) ([]byte, error) {
	r.g.Lock()
	defer r.g.Unlock()
	out := make([]byte, r.c.elemSize)
	if err := r.c.remove("Remove", i, out); err != nil {
		return nil, err
	}
	return out, nil
}

// Get returns a copy of the element at i.
func (r *Raw) Get(i Index) ([]byte, error) {
	out := make([]byte, r.c.elemSize)
	if err := r.GetInto(i, out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetInto copies the element at i into dst, which must be ElementSize long.
func (r *Raw) GetInto(i Index, dst []byte) error {
	if err := r.checkSize(dst); err != nil {
		return err
	}
	r.g.RLock()
	defer r.g.RUnlock()
	return r.c.get("Get", i, dst)
}

// Set overwrites the element at i with a copy of elem.
func (r *Raw) Set(i Index, elem []byte) error {
	if err := r.checkSize(elem); err != nil {
		return err
	}
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.set("Set", i, elem)
}

// Front returns a copy of the first element.
func (r *Raw) Front() ([]byte, error) {
	return r.at(false)
}

// Back returns a copy of the last element.
func (r *Raw) Back() ([]byte, error) {
	return r.at(true)
}

func (r *Raw) at(back bool) ([]byte, error) {
	r.g.RLock()
	defer r.g.RUnlock()
	i, err := r.c.end(back)
	if err != nil {
		return nil, err
	}
	return bytes.Clone(r.c.slot(i)), nil
}

// Apply calls fn on every element in index order. fn may modify elem in
// place.
func (r *Raw) Apply(fn func(i Index, elem []byte)) error {
	r.g.Lock()
	defer r.g.Unlock()
	if err := r.c.live(); err != nil {
		return err
	}
	r.c.visit(0, r.c.length, func(i Index, s []byte) bool {
		fn(i, s)
		return true
	})
	return nil
}

// ApplyRange calls fn on the elements in [from, to).
func (r *Raw) ApplyRange(from, to Index, fn func(i Index, elem []byte)) error {
	r.g.Lock()
	defer r.g.Unlock()
	if err := r.c.checkRange("ApplyRange", from, to); err != nil {
		return err
	}
	r.c.visit(from, to, func(i Index, s []byte) bool {
		fn(i, s)
		return true
	})
	return nil
}

// Range calls fn on each element until fn returns false. fn must not
// modify elem.
func (r *Raw) Range(fn func(i Index, elem []byte) bool) error {
	r.g.RLock()
	defer r.g.RUnlock()
	if err := r.c.live(); err != nil {
		return err
	}
	r.c.visit(0, r.c.length, fn)
	return nil
}

// All returns an iterator over index/element pairs. The read lock is held
// while the loop body runs, so the body must not call any method of r;
// with a writer waiting, a nested read deadlocks.
func (r *Raw) All() iter.Seq2[Index, []byte] {
	return func(yield func(Index, []byte) bool) {
		_ = r.Range(yield)
	}
}

// ParallelRange calls fn for every element from up to workers goroutines.
func (r *Raw) ParallelRange(ctx context.Context, workers int, fn func(i Index, elem []byte) error) error {
	r.g.RLock()
	defer r.g.RUnlock()
	return r.c.parallelVisit(ctx, workers, fn)
}

// Find returns the index of the first element equal to target under eq,
// or ErrNotFound. A nil eq compares bytes.
func (r *Raw) Find(target []byte, eq func(elem, target []byte) bool) (Index, error) {
	if err := r.checkSize(target); err != nil {
		return 0, err
	}
	if eq == nil {
		eq = bytes.Equal
	}
	r.g.RLock()
	defer r.g.RUnlock()
	return r.c.find(func(s []byte) bool { return eq(s, target) })
}

// Swap exchanges the elements at i and j.
func (r *Raw) Swap(i, j Index) error {
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.swap(i, j)
}

// Reverse reverses the order of the elements.
func (r *Raw) Reverse() error {
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.reverse()
}

// RotateLeft moves the first n elements to the back.
func (r *Raw) RotateLeft(n Index) error {
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.rotateLeft(n)
}

// RotateRight moves the last n elements to the front.
func (r *Raw) RotateRight(n Index) error {
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.rotateRight(n)
}

type rawSorter struct {
	c   *core[byte]
	cmp func(a, b []byte) int
}

func (s rawSorter) Len() int           { return int(s.c.length) }
func (s rawSorter) Less(i, j int) bool { return s.cmp(s.c.slot(Index(i)), s.c.slot(Index(j))) < 0 }
func (s rawSorter) Swap(i, j int)      { s.c.swapSlots(Index(i), Index(j)) }

// Sort sorts the elements by cmp. A nil cmp orders by bytes.Compare.
func (r *Raw) Sort(cmp func(a, b []byte) int) error {
	if cmp == nil {
		cmp = bytes.Compare
	}
	r.g.Lock()
	defer r.g.Unlock()
	if err := r.c.live(); err != nil {
		return err
	}
	sort.Sort(rawSorter{c: &r.c, cmp: cmp})
	return nil
}

// BinarySearch searches a vector sorted by cmp for target. When target is
// absent it returns ErrNotFound with the insertion position.
func (r *Raw) BinarySearch(target []byte, cmp func(elem, target []byte) int) (Index, error) {
	if err := r.checkSize(target); err != nil {
		return 0, err
	}
	if cmp == nil {
		cmp = bytes.Compare
	}
	r.g.RLock()
	defer r.g.RUnlock()
	if err := r.c.live(); err != nil {
		return 0, err
	}
	i := sort.Search(int(r.c.length), func(i int) bool {
		return cmp(r.c.slot(Index(i)), target) >= 0
	})
	if i < int(r.c.length) && cmp(r.c.slot(Index(i)), target) == 0 {
		return Index(i), nil
	}
	return Index(i), ErrNotFound
}

// Clear removes every element.
func (r *Raw) Clear() error {
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.clearAll()
}

// Reserve grows capacity to hold at least n elements.
func (r *Raw) Reserve(n Index) error {
	r.g.Lock()
	defer r.g.Unlock()
	if err := r.c.live(); err != nil {
		return err
	}
	return r.c.reserve(n)
}

// ShrinkToFit reduces capacity to max(Len, initial capacity).
func (r *Raw) ShrinkToFit() error {
	r.g.Lock()
	defer r.g.Unlock()
	if err := r.c.live(); err != nil {
		return err
	}
	return r.c.shrinkToFit()
}

// Clone returns an independent copy with the same options.
func (r *Raw) Clone() (*Raw, error) {
	r.g.RLock()
	defer r.g.RUnlock()
	dst := &Raw{g: newGuard(r.c.opts.threadSafe)}
	if err := r.c.cloneInto(&dst.c); err != nil {
		return nil, err
	}
	return dst, nil
}

// AppendRaw appends a snapshot of other's elements. Both vectors must have
// the same element size.
func (r *Raw) AppendRaw(other *Raw) error {
	if other.ElementSize() != r.ElementSize() {
		return &SizeError{Expected: r.ElementSize(), Actual: other.ElementSize()}
	}
	data, err := other.Bytes()
	if err != nil {
		return err
	}
	return r.AppendBytes(data)
}

// AppendBytes appends the elements packed back to back in data, whose
// length must be a multiple of ElementSize.
func (r *Raw) AppendBytes(data []byte) error {
	if len(data)%r.c.elemSize != 0 {
		return fmt.Errorf("%w: %d bytes is not a multiple of the element size %d",
			ErrSizeMismatch, len(data), r.c.elemSize)
	}
	n := uint64(len(data) / r.c.elemSize)
	if n > uint64(MaxIndex) {
		return ErrCapacityExceeded
	}
	r.g.Lock()
	defer r.g.Unlock()
	return r.c.appendUnits(data, Index(n))
}

// Bytes returns a copy of every element packed back to back.
func (r *Raw) Bytes() ([]byte, error) {
	r.g.RLock()
	defer r.g.RUnlock()
	if err := r.c.live(); err != nil {
		return nil, err
	}
	return r.c.occupied(), nil
}

// Metrics returns a snapshot of vector statistics.
func (r *Raw) Metrics() Metrics {
	r.g.RLock()
	defer r.g.RUnlock()
	return r.c.metrics()
}
