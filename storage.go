package vector

import (
	"fmt"
	"math"
	"math/bits"
	"unsafe"
)

// MaxAlign is the alignment of every Raw storage block. Element types are
// unknown to a Raw vector, so blocks are aligned for the widest scalar.
const MaxAlign = 8

// allocator returns a zeroed block of n storage units.
type allocator[U any] func(n int) []U

// allocSlots backs typed vectors.
func allocSlots[T any](n int) []T {
	return make([]T, n)
}

// allocAligned backs Raw vectors. The bytes are carved out of a []uint64 so
// the block start is MaxAlign-aligned.
func allocAligned(n int) []byte {
	if n <= 0 {
		return nil
	}
	words := make([]uint64, alignUp(n, MaxAlign)/MaxAlign)
	return unsafe.Slice((*byte)(unsafe.Pointer(&words[0])), n)
}

// alignUp rounds n up to a multiple of align, which must be a power of two.
func alignUp(n, align int) int {
	mask := align - 1
	return (n + mask) &^ mask
}

// blockSize returns the units and bytes needed for capacity slots.
// ok is false when the size overflows int.
func (c *core[U]) blockSize(capacity Index) (units int, bytes int64, ok bool) {
	hi, u := bits.Mul64(uint64(capacity), uint64(c.stride))
	if hi != 0 || u > math.MaxInt {
		return 0, 0, false
	}
	hi, b := bits.Mul64(u, uint64(c.unit))
	if hi != 0 || b > math.MaxInt64 {
		return 0, 0, false
	}
	return int(u), int64(b), true
}

// allocate obtains a block of n units, turning a runtime allocation refusal
// into ErrOutOfMemory.
func (c *core[U]) allocate(n int) (buf []U, err error) {
	defer func() {
		if r := recover(); r != nil {
			buf = nil
			err = fmt.Errorf("%w: allocating %d units: %v", ErrOutOfMemory, n, r)
		}
	}()
	return c.alloc(n), nil
}

// heldBytes returns the bytes currently charged for the storage block.
func (c *core[U]) heldBytes() int64 {
	return int64(len(c.slots)) * int64(c.unit)
}

// release drops the storage block and its budget charge.
func (c *core[U]) release() {
	if c.opts.secureWipe {
		clear(c.slots)
	}
	c.opts.budget.Release(c.heldBytes())
	c.slots = nil
	c.capacity = 0
	c.length = 0
}
