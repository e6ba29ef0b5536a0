package vector

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// core is the engine shared by Vector and Raw. It stores elements as runs
// of stride units of type U and holds no lock; callers go through a guard.
type core[U any] struct {
	slots    []U // len(slots) == capacity*stride
	scratch  []U // one slot, used by swaps
	stride   int // units per element
	unit     int // bytes per unit
	elemSize int // bytes per element

	length   Index
	capacity Index
	minCap   Index
	limit    Index

	alloc allocator[U]
	opts  options

	grows     uint64
	shrinks   uint64
	destroyed bool
}

// init allocates the first block of capacity slots.
func (c *core[U]) init(o options, stride, unit int, alloc allocator[U], capacity Index) error {
	c.opts = o
	c.stride = stride
	c.unit = unit
	c.elemSize = stride * unit
	c.minCap = o.initialCapacity
	c.limit = MaxIndex
	c.alloc = alloc

	units, bytes, ok := c.blockSize(capacity)
	if !ok {
		return fmt.Errorf("%w: %d slots of %d bytes overflow", ErrOutOfMemory, capacity, c.elemSize)
	}
	if err := o.budget.Acquire(bytes); err != nil {
		return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
	}
	buf, err := c.allocate(units)
	if err != nil {
		o.budget.Release(bytes)
		return err
	}
	c.slots = buf
	c.scratch = make([]U, stride)
	c.capacity = capacity
	return nil
}

func (c *core[U]) live() error {
	if c.destroyed {
		return ErrInvalidHandle
	}
	return nil
}

func (c *core[U]) destroy() error {
	if c.destroyed {
		return ErrInvalidHandle
	}
	c.release()
	if c.opts.secureWipe {
		clear(c.scratch)
	}
	c.scratch = nil
	c.destroyed = true
	return nil
}

func (c *core[U]) checkIndex(op string, i Index) error {
	if i >= c.length {
		return &IndexError{Op: op, Index: i, Length: c.length}
	}
	return nil
}

// insert places src at position i, shifting [i, length) right.
func (c *core[U]) insert(op string, i Index, src []U) error {
	if err := c.live(); err != nil {
		return err
	}
	if i > c.length {
		return &IndexError{Op: op, Index: i, Length: c.length}
	}
	if err := c.ensure(1); err != nil {
		return err
	}
	if i < c.length {
		c.shiftRight(i)
	}
	c.storeAt(i, src)
	c.length++
	return nil
}

// remove copies slot i into dst (if non-nil) and closes the gap.
func (c *core[U]) remove(op string, i Index, dst []U) error {
	if err := c.live(); err != nil {
		return err
	}
	if err := c.checkIndex(op, i); err != nil {
		return err
	}
	if dst != nil {
		c.load(i, dst)
	}
	c.shiftLeft(i)
	c.length--
	c.maybeShrink()
	return nil
}

func (c *core[U]) get(op string, i Index, dst []U) error {
	if err := c.live(); err != nil {
		return err
	}
	if err := c.checkIndex(op, i); err != nil {
		return err
	}
	c.load(i, dst)
	return nil
}

func (c *core[U]) set(op string, i Index, src []U) error {
	if err := c.live(); err != nil {
		return err
	}
	if err := c.checkIndex(op, i); err != nil {
		return err
	}
	c.storeAt(i, src)
	return nil
}

// end returns the position of the front (first) or back (last) element.
func (c *core[U]) end(back bool) (Index, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	if c.length == 0 {
		return 0, ErrEmptyVector
	}
	if back {
		return c.length - 1, nil
	}
	return 0, nil
}

// visit calls fn on slots [from, to) in order until fn returns false.
func (c *core[U]) visit(from, to Index, fn func(Index, []U) bool) {
	for i := from; i < to; i++ {
		if !fn(i, c.slot(i)) {
			return
		}
	}
}

func (c *core[U]) checkRange(op string, from, to Index) error {
	if err := c.live(); err != nil {
		return err
	}
	if to > c.length {
		return &IndexError{Op: op, Index: to, Length: c.length}
	}
	if from > to {
		return &IndexError{Op: op, Index: from, Length: c.length}
	}
	return nil
}

func (c *core[U]) find(pred func([]U) bool) (Index, error) {
	if err := c.live(); err != nil {
		return 0, err
	}
	for i := Index(0); i < c.length; i++ {
		if pred(c.slot(i)) {
			return i, nil
		}
	}
	return 0, ErrNotFound
}

func (c *core[U]) swap(i, j Index) error {
	if err := c.live(); err != nil {
		return err
	}
	if err := c.checkIndex("Swap", i); err != nil {
		return err
	}
	if err := c.checkIndex("Swap", j); err != nil {
		return err
	}
	c.swapSlots(i, j)
	return nil
}

func (c *core[U]) reverse() error {
	if err := c.live(); err != nil {
		return err
	}
	c.reverseRange(0, c.length)
	return nil
}

// rotateLeft moves the first n elements to the back.
func (c *core[U]) rotateLeft(n Index) error {
	if err := c.live(); err != nil {
		return err
	}
	if c.length == 0 {
		return nil
	}
	n %= c.length
	if n == 0 {
		return nil
	}
	c.reverseRange(0, n)
	c.reverseRange(n, c.length)
	c.reverseRange(0, c.length)
	return nil
}

func (c *core[U]) rotateRight(n Index) error {
	if err := c.live(); err != nil {
		return err
	}
	if c.length == 0 {
		return nil
	}
	return c.rotateLeft(c.length - n%c.length)
}

// clearAll drops every element, then applies the shrink policy.
func (c *core[U]) clearAll() error {
	if err := c.live(); err != nil {
		return err
	}
	clear(c.slots[:c.offset(c.length)])
	c.length = 0
	if c.opts.shrink == ShrinkAuto {
		if err := c.shrinkToFit(); err != nil {
			c.opts.logger.LogResizeFailed("shrink", c.capacity, c.minCap, err)
		}
	}
	return nil
}

// appendUnits appends n elements held contiguously in src.
func (c *core[U]) appendUnits(src []U, n Index) error {
	if err := c.live(); err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	if err := c.ensure(n); err != nil {
		return err
	}
	copy(c.slots[c.offset(c.length):], src[:int(n)*c.stride])
	c.length += n
	return nil
}

// occupied returns a copy of the units of every element.
func (c *core[U]) occupied() []U {
	out := make([]U, c.offset(c.length))
	copy(out, c.slots)
	return out
}

// cloneInto initialises dst as a copy of c with the same options.
func (c *core[U]) cloneInto(dst *core[U]) error {
	if err := c.live(); err != nil {
		return err
	}
	if err := dst.init(c.opts, c.stride, c.unit, c.alloc, max(c.length, c.minCap)); err != nil {
		return err
	}
	dst.limit = c.limit
	copy(dst.slots, c.slots[:c.offset(c.length)])
	dst.length = c.length
	return nil
}

// parallelVisit splits [0, length) into contiguous chunks visited on an
// errgroup of at most workers goroutines. The first error cancels the rest.
// The caller holds the guard shared for the whole call.
func (c *core[U]) parallelVisit(ctx context.Context, workers int, fn func(Index, []U) error) error {
	if err := c.live(); err != nil {
		return err
	}
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	n := int(c.length)
	if n == 0 {
		return nil
	}
	workers = min(workers, n)
	chunk := (n + workers - 1) / workers

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for start := 0; start < n; start += chunk {
		end := min(start+chunk, n)
		g.Go(func() error {
			for i := start; i < end; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				if err := fn(Index(i), c.slot(Index(i))); err != nil {
					return err
				}
			}
			return nil
		})
	}
	return g.Wait()
}
