package vector

import (
	"bytes"
	"encoding/binary"
	"math"
	"strconv"
	"testing"
	"unsafe"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func u32(x uint32) []byte {
	return binary.LittleEndian.AppendUint32(nil, x)
}

func newRaw(t *testing.T, opts ...Option) *Raw {
	t.Helper()
	r, err := NewRaw(opts...)
	require.NoError(t, err)
	return r
}

func rawUint32s(t *testing.T, r *Raw) []uint32 {
	t.Helper()
	data, err := r.Bytes()
	require.NoError(t, err)
	out := make([]uint32, 0, len(data)/4)
	for off := 0; off < len(data); off += 4 {
		out = append(out, binary.LittleEndian.Uint32(data[off:]))
	}
	return out
}

func TestNewRaw(t *testing.T) {
	tests := []struct {
		name     string
		opts     []Option
		elemSize int
		capacity Index
	}{
		{"defaults", nil, DefaultDataSize, DefaultInitialCapacity},
		{"zero size", []Option{WithElementSize(0)}, DefaultDataSize, DefaultInitialCapacity},
		{"negative size", []Option{WithElementSize(-3)}, DefaultDataSize, DefaultInitialCapacity},
		{"four bytes, zero capacity", []Option{WithElementSize(4), WithInitialCapacity(0)}, 4, 4},
		{"odd size", []Option{WithElementSize(3), WithInitialCapacity(10)}, 3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRaw(t, tt.opts...)
			assert.Equal(t, tt.elemSize, r.ElementSize())
			assert.Equal(t, tt.capacity, r.Cap())
			assert.Equal(t, Index(0), r.Len())
			checkInvariants(t, &r.c)
		})
	}
}

func TestRawGrowthScenario(t *testing.T) {
	r := newRaw(t, WithElementSize(4), WithInitialCapacity(0))
	require.Equal(t, Index(4), r.Cap())

	for i := uint32(1); i <= 4; i++ {
		require.NoError(t, r.PushBack(u32(i)))
	}
	assert.Equal(t, Index(4), r.Cap())

	require.NoError(t, r.PushBack(u32(5)))
	assert.GreaterOrEqual(t, r.Cap(), Index(8))
	assert.Equal(t, Index(5), r.Len())
	for i := Index(0); i < 5; i++ {
		got, err := r.Get(i)
		require.NoError(t, err)
		assert.Equal(t, u32(uint32(i)+1), got)
	}
}

func TestRawSizeMismatch(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	require.NoError(t, r.PushBack(u32(1)))

	short := []byte{1, 2}
	assert.ErrorIs(t, r.PushBack(short), ErrSizeMismatch)
	assert.ErrorIs(t, r.PushFront(short), ErrSizeMismatch)
	assert.ErrorIs(t, r.Insert(0, short), ErrSizeMismatch)
	assert.ErrorIs(t, r.Set(0, short), ErrSizeMismatch)
	assert.ErrorIs(t, r.GetInto(0, short), ErrSizeMismatch)
	_, err := r.Find(short, nil)
	assert.ErrorIs(t, err, ErrSizeMismatch)
	err = r.AppendBytes([]byte{1, 2, 3, 4, 5})
	assert.ErrorIs(t, err, ErrSizeMismatch)
	assert.Contains(t, err.Error(), "5 bytes is not a multiple of the element size 4")

	assert.Equal(t, Index(1), r.Len())
}

func TestRawGetReturnsCopy(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	require.NoError(t, r.PushBack(u32(7)))

	got, err := r.Get(0)
	require.NoError(t, err)
	got[0] = 0xff

	again, err := r.Get(0)
	require.NoError(t, err)
	assert.Equal(t, u32(7), again)

	dst := make([]byte, 4)
	require.NoError(t, r.GetInto(0, dst))
	assert.Equal(t, u32(7), dst)
}

func TestRawStackAndQueue(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	for i := uint32(0); i < 50; i++ {
		require.NoError(t, r.PushBack(u32(i)))
	}
	for i := uint32(0); i < 10; i++ {
		got, err := r.PopFront()
		require.NoError(t, err)
		require.Equal(t, u32(i), got)
	}
	for i := uint32(49); i >= 10; i-- {
		got, err := r.PopBack()
		require.NoError(t, err)
		require.Equal(t, u32(i), got)
		checkInvariants(t, &r.c)
	}
	_, err := r.PopBack()
	assert.ErrorIs(t, err, ErrEmptyVector)
	_, err = r.Front()
	assert.ErrorIs(t, err, ErrEmptyVector)
}

func TestRawInsertRemove(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	for i := uint32(0); i < 5; i++ {
		require.NoError(t, r.PushBack(u32(i)))
	}
	before := rawUint32s(t, r)

	for i := Index(0); i <= r.Len(); i++ {
		require.NoError(t, r.Insert(i, u32(99)))
		got, err := r.Remove(i)
		require.NoError(t, err)
		require.Equal(t, u32(99), got)
		require.Equal(t, before, rawUint32s(t, r))
	}

	assert.ErrorIs(t, r.Insert(6, u32(1)), ErrIndexOutOfBounds)
	_, err := r.Remove(5)
	assert.ErrorIs(t, err, ErrIndexOutOfBounds)

	got, err := r.Remove(4)
	require.NoError(t, err)
	assert.Equal(t, u32(4), got)
	assert.Equal(t, []uint32{0, 1, 2, 3}, rawUint32s(t, r))
}

func TestRawAlignment(t *testing.T) {
	r := newRaw(t, WithElementSize(3), WithInitialCapacity(1))
	for i := 0; i < 100; i++ {
		require.NoError(t, r.PushBack([]byte{byte(i), byte(i), byte(i)}))
		addr := uintptr(unsafe.Pointer(&r.c.slots[0]))
		require.Zero(t, addr%MaxAlign, "block not aligned after %d pushes", i+1)
	}
}

func TestRawApplyAndRange(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	for i := uint32(0); i < 5; i++ {
		require.NoError(t, r.PushBack(u32(i)))
	}

	require.NoError(t, r.Apply(func(_ Index, elem []byte) {
		binary.LittleEndian.PutUint32(elem, binary.LittleEndian.Uint32(elem)*10)
	}))
	assert.Equal(t, []uint32{0, 10, 20, 30, 40}, rawUint32s(t, r))

	require.NoError(t, r.ApplyRange(3, 5, func(_ Index, elem []byte) {
		clear(elem)
	}))
	assert.Equal(t, []uint32{0, 10, 20, 0, 0}, rawUint32s(t, r))
	assert.ErrorIs(t, r.ApplyRange(0, 6, func(Index, []byte) {}), ErrIndexOutOfBounds)

	var sum uint32
	require.NoError(t, r.Range(func(_ Index, elem []byte) bool {
		assert.Len(t, elem, 4)
		assert.Equal(t, 4, cap(elem))
		sum += binary.LittleEndian.Uint32(elem)
		return true
	}))
	assert.Equal(t, uint32(30), sum)

	var n int
	for range r.All() {
		n++
	}
	assert.Equal(t, 5, n)
}

func TestRawFind(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	for _, x := range []uint32{4, 8, 15, 16} {
		require.NoError(t, r.PushBack(u32(x)))
	}

	i, err := r.Find(u32(15), nil)
	require.NoError(t, err)
	assert.Equal(t, Index(2), i)

	_, err = r.Find(u32(23), nil)
	assert.ErrorIs(t, err, ErrNotFound)

	// low byte equality only
	i, err = r.Find(u32(0x0100+16), func(elem, target []byte) bool { return elem[0] == target[0] })
	require.NoError(t, err)
	assert.Equal(t, Index(3), i)
}

func TestRawSwapReverseRotate(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	for i := uint32(0); i < 5; i++ {
		require.NoError(t, r.PushBack(u32(i)))
	}

	require.NoError(t, r.Swap(1, 3))
	assert.Equal(t, []uint32{0, 3, 2, 1, 4}, rawUint32s(t, r))
	require.NoError(t, r.Reverse())
	assert.Equal(t, []uint32{4, 1, 2, 3, 0}, rawUint32s(t, r))
	require.NoError(t, r.RotateLeft(1))
	assert.Equal(t, []uint32{1, 2, 3, 0, 4}, rawUint32s(t, r))
	require.NoError(t, r.RotateRight(1))
	assert.Equal(t, []uint32{4, 1, 2, 3, 0}, rawUint32s(t, r))
}

func TestRawSortAndBinarySearch(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	for _, x := range []uint32{300, 5, 70000, 42, 1} {
		require.NoError(t, r.PushBack(u32(x)))
	}
	byValue := func(a, b []byte) int {
		x, y := binary.LittleEndian.Uint32(a), binary.LittleEndian.Uint32(b)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	}
	require.NoError(t, r.Sort(byValue))
	assert.Equal(t, []uint32{1, 5, 42, 300, 70000}, rawUint32s(t, r))

	i, err := r.BinarySearch(u32(300), byValue)
	require.NoError(t, err)
	assert.Equal(t, Index(3), i)

	i, err = r.BinarySearch(u32(6), byValue)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, Index(2), i)

	b := newRaw(t, WithElementSize(2))
	for _, e := range [][]byte{{2, 0}, {1, 9}, {1, 2}} {
		require.NoError(t, b.PushBack(e))
	}
	require.NoError(t, b.Sort(nil))
	data, err := b.Bytes()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 1, 9, 2, 0}, data)
}

func TestRawAppend(t *testing.T) {
	a := newRaw(t, WithElementSize(4))
	b := newRaw(t, WithElementSize(4))
	for i := uint32(0); i < 3; i++ {
		require.NoError(t, a.PushBack(u32(i)))
		require.NoError(t, b.PushBack(u32(i+10)))
	}

	require.NoError(t, a.AppendRaw(b))
	assert.Equal(t, []uint32{0, 1, 2, 10, 11, 12}, rawUint32s(t, a))

	require.NoError(t, a.AppendBytes(append(u32(20), u32(21)...)))
	assert.Equal(t, []uint32{0, 1, 2, 10, 11, 12, 20, 21}, rawUint32s(t, a))

	other := newRaw(t, WithElementSize(8))
	assert.ErrorIs(t, a.AppendRaw(other), ErrSizeMismatch)
}

func TestRawClone(t *testing.T) {
	r := newRaw(t, WithElementSize(4))
	require.NoError(t, r.PushBack(u32(1)))

	c, err := r.Clone()
	require.NoError(t, err)
	require.NoError(t, c.Set(0, u32(2)))

	assert.Equal(t, []uint32{1}, rawUint32s(t, r))
	assert.Equal(t, []uint32{2}, rawUint32s(t, c))
	assert.Equal(t, r.ElementSize(), c.ElementSize())
}

func TestRawDestroy(t *testing.T) {
	b := NewBudget(0)
	r := newRaw(t, WithElementSize(4), WithBudget(b))
	require.NoError(t, r.PushBack(u32(1)))
	require.Positive(t, b.Used())

	require.NoError(t, r.Destroy())
	assert.Zero(t, b.Used())
	assert.True(t, r.IsDestroyed())
	assert.ErrorIs(t, r.Destroy(), ErrInvalidHandle)
	assert.ErrorIs(t, r.PushBack(u32(1)), ErrInvalidHandle)
	_, err := r.Get(0)
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = r.PopFront()
	assert.ErrorIs(t, err, ErrInvalidHandle)
	_, err = r.Bytes()
	assert.ErrorIs(t, err, ErrInvalidHandle)
	assert.ErrorIs(t, r.Sort(nil), ErrInvalidHandle)
	assert.Equal(t, Index(0), r.Len())
}

func TestRawSecureWipe(t *testing.T) {
	r := newRaw(t, WithElementSize(4), WithSecureWipe())
	for i := uint32(1); i <= 4; i++ {
		require.NoError(t, r.PushBack(u32(i)))
	}
	old := r.c.slots

	require.NoError(t, r.PushBack(u32(5)))
	assert.Equal(t, make([]byte, len(old)), old, "abandoned block still holds data")

	require.NoError(t, r.Swap(0, 1))
	scratch := r.c.scratch
	assert.Equal(t, make([]byte, 4), scratch, "swap left an element in the scratch slot")
	require.NoError(t, r.Reverse())
	assert.Equal(t, make([]byte, 4), scratch)

	live := r.c.slots
	require.NoError(t, r.Destroy())
	assert.Equal(t, make([]byte, len(live)), live)
	assert.Equal(t, make([]byte, 4), scratch)
}

func TestRawDestroyWipesScratch(t *testing.T) {
	r := newRaw(t, WithElementSize(4), WithSecureWipe())
	require.NoError(t, r.PushBack([]byte{0xde, 0xad, 0xbe, 0xef}))
	require.NoError(t, r.PushBack([]byte{1, 2, 3, 4}))
	scratch := r.c.scratch
	copy(scratch, []byte{0xde, 0xad, 0xbe, 0xef})

	require.NoError(t, r.Destroy())
	assert.Equal(t, make([]byte, 4), scratch)
}

func TestRawOverflowIsOutOfMemory(t *testing.T) {
	_, err := NewRaw(WithElementSize(math.MaxInt / 2))
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestRawAllocationRefusalIsOutOfMemory(t *testing.T) {
	if strconv.IntSize != 64 {
		t.Skip("needs a 64-bit address space")
	}
	// 4 slots of 1 PiB pass the overflow check but exceed what the runtime
	// will hand out.
	_, err := NewRaw(WithElementSize(1 << 50))
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestRawGrowthFailureLeavesVectorUnchanged(t *testing.T) {
	b := NewBudget(16)
	r := newRaw(t, WithElementSize(4), WithBudget(b))
	for i := uint32(0); i < 4; i++ {
		require.NoError(t, r.PushBack(u32(i)))
	}
	snapshot, err := r.Bytes()
	require.NoError(t, err)

	require.ErrorIs(t, r.PushBack(u32(4)), ErrOutOfMemory)
	require.ErrorIs(t, r.Insert(0, u32(4)), ErrOutOfMemory)
	require.ErrorIs(t, r.Reserve(100), ErrOutOfMemory)

	after, err := r.Bytes()
	require.NoError(t, err)
	assert.True(t, bytes.Equal(snapshot, after))
	assert.Equal(t, Index(4), r.Len())
	assert.Equal(t, Index(4), r.Cap())
}

func TestRawBudgetChargesBlockOnly(t *testing.T) {
	b := NewBudget(4 * 1024)
	r := newRaw(t, WithElementSize(1024), WithBudget(b))
	assert.Equal(t, int64(4*1024), b.Used())
	assert.Len(t, r.c.scratch, 1024)

	require.NoError(t, r.Destroy())
	assert.Zero(t, b.Used())
}
