package shared

import (
	"sync"
	"sync/atomic"

	"github.com/wippyai/shared/errors"
)

// Atomic carries the counted-ownership protocol across goroutines: the
// count is atomic and every payload access goes through an interior
// read-write lock, so mutation-while-shared is safe here rather than a
// documented hazard.
//
// The block is shared; each Atomic handle still belongs to a single
// goroutine. Clone a handle for every goroutine that needs one instead
// of passing one handle around.
type Atomic[T any] struct {
	b *ablock[T]
}

type ablock[T any] struct {
	mu       sync.RWMutex
	value    T
	teardown func(T)
	refCount atomic.Int64
}

// NewAtomic places value in a fresh block with the count at 1.
func NewAtomic[T any](value T) *Atomic[T] {
	b := &ablock[T]{value: value}
	b.refCount.Store(1)
	return &Atomic[T]{b: b}
}

// NewAtomicWithTeardown is NewAtomic with an explicit teardown hook,
// run exactly once when the last handle releases.
func NewAtomicWithTeardown[T any](value T, teardown func(T)) *Atomic[T] {
	b := &ablock[T]{value: value, teardown: teardown}
	b.refCount.Store(1)
	return &Atomic[T]{b: b}
}

func (a *Atomic[T]) live(op errors.Op) *ablock[T] {
	if a.b == nil {
		panic(errors.UseAfterRelease(op))
	}
	return a.b
}

// Clone returns a new handle to the same block, incrementing the count.
func (a *Atomic[T]) Clone() *Atomic[T] {
	b := a.live(errors.OpClone)
	if n := b.refCount.Add(1); n == 1 {
		// A live handle keeps the count above zero, so landing on 1
		// means the block was already dead.
		panic(errors.Revive(errors.OpClone, int(n)))
	}
	return &Atomic[T]{b: b}
}

// Load returns a copy of the payload, taken under the read lock.
func (a *Atomic[T]) Load() T {
	b := a.live(errors.OpBorrow)
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.value
}

// Store replaces the payload under the write lock.
func (a *Atomic[T]) Store(value T) {
	b := a.live(errors.OpBorrow)
	b.mu.Lock()
	b.value = value
	b.mu.Unlock()
}

// View calls fn with the payload under the read lock. fn must not
// retain the value past the call if T contains pointers it mutates.
func (a *Atomic[T]) View(fn func(T)) {
	b := a.live(errors.OpBorrow)
	b.mu.RLock()
	defer b.mu.RUnlock()
	fn(b.value)
}

// Update calls fn with exclusive access to the payload. This is the
// locked counterpart of Shared.Borrow: the pointer is only valid inside
// fn.
func (a *Atomic[T]) Update(fn func(*T)) {
	b := a.live(errors.OpBorrow)
	b.mu.Lock()
	defer b.mu.Unlock()
	fn(&b.value)
}

// RefCount returns the number of live handles sharing the block.
func (a *Atomic[T]) RefCount() int64 {
	return a.live(errors.OpBorrow).refCount.Load()
}

// Release ends this handle's life. At count zero teardown runs exactly
// once; no lock is needed there since no handle can reach the block
// anymore. Releasing the same handle twice panics.
func (a *Atomic[T]) Release() {
	b := a.b
	if b == nil {
		panic(errors.DoubleRelease())
	}
	a.b = nil

	n := b.refCount.Add(-1)
	if n > 0 {
		return
	}
	if n < 0 {
		panic(errors.Underflow(errors.OpRelease, int(n)))
	}

	if b.teardown != nil {
		b.teardown(b.value)
	} else if d, ok := any(b.value).(Dropper); ok {
		d.Drop()
	}
}
