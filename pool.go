package shared

import "sync"

// Pool recycles control blocks whose count reached zero. Get hands out a
// handle at count 1; when the last handle to a pooled block releases,
// the payload is reset and the block parked for reuse instead of being
// torn down. Dropper teardown does not run for pooled payloads - reset
// is the pool's teardown analog.
type Pool[T any] struct {
	pool  sync.Pool
	reset func(*T)
}

// NewPool creates a block pool. init produces the payload for fresh
// blocks; reset restores a payload before reuse and may be nil.
func NewPool[T any](init func() T, reset func(*T)) *Pool[T] {
	p := &Pool[T]{reset: reset}
	p.pool.New = func() any {
		return &block[T]{value: init(), pool: p}
	}
	return p
}

// Get returns a handle to a pooled block with the count at 1.
func (p *Pool[T]) Get() *Shared[T] {
	b := p.pool.Get().(*block[T])
	b.refCount = 1
	return &Shared[T]{b: b}
}

func (p *Pool[T]) put(b *block[T]) {
	if p.reset != nil {
		p.reset(&b.value)
	}
	p.pool.Put(b)
}
