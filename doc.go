// Package vector implements a resizable array (vector) for Go with an
// optional locking mode.
//
// # Overview
//
// Two containers share one engine:
//
//   - Vector[T]: a typed vector of any element type
//   - Raw: a type-erased vector of fixed-size byte elements, for element
//     types only known at run time
//
// Both keep their elements in one contiguous block that doubles when full
// and halves when less than a quarter of it is in use.
//
// # Basic Usage
//
//	v, err := vector.New[int]()
//	if err != nil {
//		return err
//	}
//	defer v.Destroy()
//
//	_ = v.PushBack(1)
//	_ = v.PushBack(2)
//	_ = v.Insert(1, 42) // [1 42 2]
//
//	x, _ := v.Get(1)      // 42
//	last, _ := v.PopBack() // 2
//
//	for i, e := range v.All() {
//		fmt.Println(i, e)
//	}
//
// # Raw Vectors
//
//	r, _ := vector.NewRaw(vector.WithElementSize(16))
//	_ = r.PushBack(make([]byte, 16))
//	elem, _ := r.Get(0) // a copy, 16 bytes
//
// Buffers must be exactly ElementSize bytes long, otherwise ErrSizeMismatch
// is returned. Raw storage is aligned to MaxAlign.
//
// # Thread Safety
//
// Vectors from New and NewRaw do no locking. For concurrent access use
// NewSafe or NewSafeRaw, or pass WithThreadSafe(true):
//
//	v, _ := vector.NewSafe[string]()
//
//	// Mutations lock exclusively, reads share the lock.
//	go v.PushBack("a")
//	go v.PushBack("b")
//
// Operations on one vector are linearizable. Different vectors never share
// a lock.
//
// # Capacity
//
//   - New vectors get DefaultInitialCapacity slots unless WithInitialCapacity is given
//   - A full vector grows by GrowthFactor, so PushBack is amortized O(1)
//   - Under ShrinkAuto (default) capacity halves below 25% use, never below
//     the initial capacity; ShrinkNever keeps it until ShrinkToFit
//   - Length is bounded by MaxIndex; going past it is ErrCapacityExceeded
//
// A failed reallocation returns ErrOutOfMemory and leaves the vector as it
// was. WithBudget caps the bytes a group of vectors may hold:
//
//	b := vector.NewBudget(64 << 20)
//	v, _ := vector.New[float64](vector.WithBudget(b))
//
// # Errors
//
// Operations report ErrIndexOutOfBounds, ErrEmptyVector, ErrInvalidHandle,
// ErrSizeMismatch, ErrCapacityExceeded, ErrOutOfMemory or ErrNotFound.
// Use errors.Is; IndexError and SizeError carry details. A failed operation
// never changes the vector.
//
// # Metrics
//
//	m := v.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//	fmt.Printf("Reallocations: %d\n", m.Grows)
package vector
