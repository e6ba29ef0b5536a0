package vector

import "fmt"

// resize moves the occupied slots into a new block of newCap slots.
// On failure the vector is unchanged.
func (c *core[U]) resize(kind string, newCap Index) error {
	units, bytes, ok := c.blockSize(newCap)
	if !ok {
		err := fmt.Errorf("%w: %d slots of %d bytes overflow", ErrOutOfMemory, newCap, c.elemSize)
		c.opts.logger.LogResizeFailed(kind, c.capacity, newCap, err)
		return err
	}
	if err := c.opts.budget.Acquire(bytes); err != nil {
		err = fmt.Errorf("%w: %w", ErrOutOfMemory, err)
		c.opts.logger.LogResizeFailed(kind, c.capacity, newCap, err)
		return err
	}
	buf, err := c.allocate(units)
	if err != nil {
		c.opts.budget.Release(bytes)
		c.opts.logger.LogResizeFailed(kind, c.capacity, newCap, err)
		return err
	}

	copy(buf, c.slots[:c.offset(c.length)])

	old, oldBytes, oldCap := c.slots, c.heldBytes(), c.capacity
	c.slots = buf
	c.capacity = newCap
	if c.opts.secureWipe {
		clear(old)
	}
	c.opts.budget.Release(oldBytes)
	c.opts.logger.LogResize(kind, oldCap, newCap, c.elemSize)
	return nil
}

// nextCapacity returns the capacity to grow to so that need slots fit.
func (c *core[U]) nextCapacity(need Index) Index {
	next := uint64(c.capacity) * GrowthFactor
	if next < uint64(need) {
		next = uint64(need)
	}
	if next < uint64(c.minCap) {
		next = uint64(c.minCap)
	}
	if next > uint64(c.limit) {
		next = uint64(c.limit)
	}
	return Index(next)
}

// ensure makes room for extra more elements.
func (c *core[U]) ensure(extra Index) error {
	if c.limit-c.length < extra {
		return fmt.Errorf("%w: length %d + %d exceeds %d", ErrCapacityExceeded, c.length, extra, c.limit)
	}
	need := c.length + extra
	if need <= c.capacity {
		return nil
	}
	if err := c.resize("grow", c.nextCapacity(need)); err != nil {
		return err
	}
	c.grows++
	return nil
}

// reserve grows capacity to at least n slots.
func (c *core[U]) reserve(n Index) error {
	if n > c.limit {
		return fmt.Errorf("%w: reserve %d exceeds %d", ErrCapacityExceeded, n, c.limit)
	}
	if n <= c.capacity {
		return nil
	}
	if err := c.resize("grow", c.nextCapacity(n)); err != nil {
		return err
	}
	c.grows++
	return nil
}

// maybeShrink applies ShrinkAuto after a removal: below a quarter of the
// slots in use, capacity halves. A refused shrink is logged and ignored.
func (c *core[U]) maybeShrink() {
	if c.opts.shrink != ShrinkAuto || c.capacity <= c.minCap {
		return
	}
	if c.length >= c.capacity/4 {
		return
	}
	target := max(c.capacity/2, c.minCap, c.length)
	if target >= c.capacity {
		return
	}
	if err := c.resize("shrink", target); err == nil {
		c.shrinks++
	}
}

// shrinkToFit releases every slot beyond max(length, initial capacity).
func (c *core[U]) shrinkToFit() error {
	target := max(c.length, c.minCap)
	if target >= c.capacity {
		return nil
	}
	if err := c.resize("shrink", target); err != nil {
		return err
	}
	c.shrinks++
	return nil
}
