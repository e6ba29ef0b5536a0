package vector

import (
	"sync"

	"golang.org/x/sys/cpu"
)

// guard serializes access to one vector. Mutations take Lock, reads RLock.
type guard interface {
	Lock()
	Unlock()
	RLock()
	RUnlock()
}

// rwGuard is the locking guard. The padding keeps the lock word of one
// vector off the cache line of its neighbours.
type rwGuard struct {
	_ cpu.CacheLinePad
	sync.RWMutex
	_ cpu.CacheLinePad
}

// nopGuard is the guard of unsynchronized vectors.
type nopGuard struct{}

func (nopGuard) Lock()    {}
func (nopGuard) Unlock()  {}
func (nopGuard) RLock()   {}
func (nopGuard) RUnlock() {}

func newGuard(threadSafe bool) guard {
	if threadSafe {
		return &rwGuard{}
	}
	return nopGuard{}
}
