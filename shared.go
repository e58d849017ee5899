package shared

import (
	"github.com/wippyai/shared/errors"
)

// Dropper is implemented by payloads whose teardown has observable side
// effects. Drop runs exactly once, when the last handle to the block
// ends its life.
type Dropper interface {
	Drop()
}

// block is the control record backing a set of handles: the payload and
// the count of live handles. A block is reachable iff its count is >= 1;
// exactly one block backs all handles derived from a common origin.
type block[T any] struct {
	value    T
	teardown func(T)
	pool     *Pool[T]
	refCount int
}

// Shared is a reference-counted handle to a heap-allocated value.
//
// A value placed in a block by New lives at a single heap location; any
// number of handles may share it. Clone extends the share, Release ends
// this handle's part of it, and the payload's teardown runs exactly once
// when the last handle releases.
//
// Shared is single-threaded: neither the count nor the payload is
// synchronized. Mutation through one handle is immediately visible
// through every other handle to the same block, with no coordination.
// Use Atomic where handles cross goroutines.
//
// The zero value is not usable; construct with New or NewWithTeardown.
type Shared[T any] struct {
	b *block[T]
}

// New places value in a fresh control block and returns the first handle
// to it, with the count at 1. The payload is written into the block
// as-is; no copy or default construction happens beyond this call.
//
// Allocation goes through the Go heap. On exhaustion the runtime aborts
// the process, so there is no recoverable failure path here.
func New[T any](value T) *Shared[T] {
	return &Shared[T]{b: &block[T]{value: value, refCount: 1}}
}

// NewWithTeardown is New with an explicit teardown hook. The hook runs
// exactly once, when the last handle releases, and takes precedence over
// a Dropper implementation on the payload.
func NewWithTeardown[T any](value T, teardown func(T)) *Shared[T] {
	return &Shared[T]{b: &block[T]{value: value, teardown: teardown, refCount: 1}}
}

// live returns the handle's block, panicking if the handle already
// ended its life. Holding a live handle proves the block exists, so no
// further liveness checks are needed past this point.
func (s *Shared[T]) live(op errors.Op) *block[T] {
	if s.b == nil {
		panic(errors.UseAfterRelease(op))
	}
	return s.b
}

// Clone returns a new handle to the same block, incrementing the count
// by one. The payload is never copied.
func (s *Shared[T]) Clone() *Shared[T] {
	b := s.live(errors.OpClone)
	b.refCount++
	return &Shared[T]{b: b}
}

// Get returns a copy of the payload.
func (s *Shared[T]) Get() T {
	return s.live(errors.OpBorrow).value
}

// Set replaces the payload. The new value is immediately visible through
// every handle to the block.
func (s *Shared[T]) Set(value T) {
	s.live(errors.OpBorrow).value = value
}

// Borrow returns a pointer to the payload inside the block.
//
// This is the exclusive-access accessor, and the exclusivity is the
// caller's to uphold: nothing stops two handles from borrowing at once,
// and a write through one pointer is immediately visible through all
// other handles. The pointer must not outlive the last handle to the
// block.
func (s *Shared[T]) Borrow() *T {
	return &s.live(errors.OpBorrow).value
}

// RefCount returns the number of live handles sharing the block.
func (s *Shared[T]) RefCount() int {
	return s.live(errors.OpBorrow).refCount
}

// Release ends this handle's life, decrementing the block's count. When
// the count reaches zero the payload's teardown runs exactly once and
// the block is surrendered. The handle is dead afterwards: any further
// method call panics, including a second Release.
func (s *Shared[T]) Release() {
	b := s.b
	if b == nil {
		panic(errors.DoubleRelease())
	}
	s.b = nil

	b.refCount--
	if b.refCount > 0 {
		return
	}
	if b.refCount < 0 {
		panic(errors.Underflow(errors.OpRelease, b.refCount))
	}
	b.destroy()
}

// destroy runs at count zero. Pooled blocks skip teardown and go back to
// their pool; plain blocks run teardown, then drop the payload so the
// collector can reclaim it.
func (b *block[T]) destroy() {
	if b.pool != nil {
		b.pool.put(b)
		return
	}

	if b.teardown != nil {
		b.teardown(b.value)
	} else if d, ok := any(b.value).(Dropper); ok {
		d.Drop()
	}

	var zero T
	b.value = zero
	b.teardown = nil
}
