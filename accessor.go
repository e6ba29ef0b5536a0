package vector

// offset returns the first storage unit of slot i.
func (c *core[U]) offset(i Index) int {
	return int(i) * c.stride
}

// slot returns a view of slot i. The view is capped so it cannot reach
// neighbouring slots and is only valid until the next mutation.
func (c *core[U]) slot(i Index) []U {
	off := c.offset(i)
	end := off + c.stride
	return c.slots[off:end:end]
}

// load copies slot i into dst.
func (c *core[U]) load(i Index, dst []U) {
	copy(dst, c.slot(i))
}

// storeAt copies src into slot i.
func (c *core[U]) storeAt(i Index, src []U) {
	copy(c.slot(i), src)
}

// shiftRight moves slots [i, length) up by one. Requires capacity > length.
func (c *core[U]) shiftRight(i Index) {
	from, end := c.offset(i), c.offset(c.length)
	copy(c.slots[from+c.stride:end+c.stride], c.slots[from:end])
}

// shiftLeft moves slots (i, length) down by one, over slot i, and zeroes
// the vacated last slot.
func (c *core[U]) shiftLeft(i Index) {
	from, end := c.offset(i), c.offset(c.length)
	copy(c.slots[from:end-c.stride], c.slots[from+c.stride:end])
	clear(c.slots[end-c.stride : end])
}

// swapSlots exchanges slots i and j through the scratch slot.
func (c *core[U]) swapSlots(i, j Index) {
	if i == j {
		return
	}
	if c.stride == 1 {
		c.slots[i], c.slots[j] = c.slots[j], c.slots[i]
		return
	}
	copy(c.scratch, c.slot(i))
	copy(c.slot(i), c.slot(j))
	copy(c.slot(j), c.scratch)
	if c.opts.secureWipe {
		clear(c.scratch)
	}
}

// reverseRange reverses the order of slots [from, to).
func (c *core[U]) reverseRange(from, to Index) {
	for to > from+1 {
		to--
		c.swapSlots(from, to)
		from++
	}
}
