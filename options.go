package vector

import (
	"math"
	"unsafe"
)

// Index is the type of every position, length and capacity in this package.
// It bounds the maximum number of elements a vector can hold.
type Index = uint32

// MaxIndex is the largest length a vector can reach.
const MaxIndex Index = math.MaxUint32

const (
	// DefaultInitialCapacity is used when no initial capacity (or 0) is requested.
	DefaultInitialCapacity Index = 4

	// DefaultDataSize is the element size of a Raw vector created with size 0.
	DefaultDataSize = int(unsafe.Sizeof(int(0)))

	// GrowthFactor is the capacity multiplier applied when a full vector grows.
	GrowthFactor = 2
)

// ShrinkPolicy controls when storage is given back after removals.
type ShrinkPolicy int

const (
	// ShrinkAuto halves capacity once fewer than a quarter of the slots are
	// in use. Capacity never drops below the initial capacity.
	ShrinkAuto ShrinkPolicy = iota

	// ShrinkNever keeps capacity until ShrinkToFit is called.
	ShrinkNever
)

func (p ShrinkPolicy) String() string {
	switch p {
	case ShrinkAuto:
		return "auto"
	case ShrinkNever:
		return "never"
	default:
		return "unknown"
	}
}

type options struct {
	threadSafe      bool
	initialCapacity Index
	elementSize     int
	shrink          ShrinkPolicy
	budget          *Budget
	secureWipe      bool
	logger          *Logger
}

// Option configures a vector at construction time.
type Option func(*options)

func defaultOptions() options {
	return options{
		initialCapacity: DefaultInitialCapacity,
		shrink:          ShrinkAuto,
		logger:          NoopLogger(),
	}
}

func buildOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.initialCapacity == 0 {
		o.initialCapacity = DefaultInitialCapacity
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}

// WithThreadSafe selects the locking (true) or unsynchronized (false)
// variant. Unsynchronized vectors leave synchronization to the caller.
func WithThreadSafe(enabled bool) Option {
	return func(o *options) {
		o.threadSafe = enabled
	}
}

// WithInitialCapacity sets the number of slots allocated at creation.
// It is also the floor below which the vector never shrinks.
// If n is 0, DefaultInitialCapacity is used.
func WithInitialCapacity(n Index) Option {
	return func(o *options) {
		o.initialCapacity = n
	}
}

// WithElementSize sets the byte width of each element of a Raw vector.
// If n <= 0, DefaultDataSize is used. A typed Vector accepts it only when it
// matches the size of its element type.
func WithElementSize(n int) Option {
	return func(o *options) {
		o.elementSize = n
	}
}

// WithShrinkPolicy sets the shrink policy. The default is ShrinkAuto.
func WithShrinkPolicy(p ShrinkPolicy) Option {
	return func(o *options) {
		o.shrink = p
	}
}

// WithBudget charges every storage block against b. Allocations that
// would exceed the budget fail with ErrOutOfMemory. The one-element
// scratch slot used by swaps is not charged.
func WithBudget(b *Budget) Option {
	return func(o *options) {
		o.budget = b
	}
}

// WithSecureWipe zeroes storage blocks before they are abandoned
// (after reallocation and on Destroy).
func WithSecureWipe() Option {
	return func(o *options) {
		o.secureWipe = true
	}
}

// WithLogger sets the logger used for resize events.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		o.logger = l
	}
}
