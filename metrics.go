package vector

// Metrics contains statistical information about a vector.
type Metrics struct {
	Length      Index   // Elements currently stored
	Capacity    Index   // Slots currently allocated
	ElementSize int     // Bytes per element
	SizeInUse   int     // Bytes held by stored elements
	Reserved    int     // Bytes held by the storage block
	Utilization float64 // Ratio of length to capacity (0.0-1.0)
	Grows       uint64  // Reallocations that increased capacity
	Shrinks     uint64  // Reallocations that decreased capacity
	ThreadSafe  bool    // Whether the vector locks
	Destroyed   bool
}

// metrics returns a snapshot. A destroyed vector reports zero sizes.
func (c *core[U]) metrics() Metrics {
	m := Metrics{
		Length:      c.length,
		Capacity:    c.capacity,
		ElementSize: c.elemSize,
		SizeInUse:   int(c.length) * c.elemSize,
		Reserved:    int(c.heldBytes()),
		Grows:       c.grows,
		Shrinks:     c.shrinks,
		ThreadSafe:  c.opts.threadSafe,
		Destroyed:   c.destroyed,
	}
	if c.capacity > 0 {
		m.Utilization = float64(c.length) / float64(c.capacity)
	}
	return m
}
