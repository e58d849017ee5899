package registry

import (
	"sync"

	"github.com/wippyai/shared"
	"github.com/wippyai/shared/errors"
)

var (
	// ErrClosed is returned by Create on a closed store.
	ErrClosed = errors.Closed(errors.OpStore)

	// ErrExhausted is returned by Create on a store at its entry limit.
	ErrExhausted = errors.New(errors.OpCreate, errors.KindAllocation).
			Detail("store entry limit reached").
			Build()
)

// LocalStore is an in-memory Store: a slice of counted entries with a
// free list for slot reuse. Entries are torn down exactly once, when
// their count reaches zero or the store closes with them surviving.
type LocalStore struct {
	entries  []entry
	freeList []Handle
	mu       sync.RWMutex
	live     int
	limit    int
	closed   bool
}

type entry struct {
	value    any
	refCount int
	valid    bool
}

// NewLocalStore creates a new in-memory store with no entry limit.
func NewLocalStore() *LocalStore {
	return NewLocalStoreWithLimit(0)
}

// NewLocalStoreWithLimit creates a store that rejects creates beyond
// limit live entries. A limit of 0 means unbounded.
func NewLocalStoreWithLimit(limit int) *LocalStore {
	return &LocalStore{
		entries:  make([]entry, 0, 64),
		freeList: make([]Handle, 0, 16),
		limit:    limit,
	}
}

// Create stores a value at count 1 and returns its handle.
func (s *LocalStore) Create(value any) (Handle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, ErrClosed
	}
	if s.limit > 0 && s.live >= s.limit {
		return 0, ErrExhausted
	}
	s.live++

	e := entry{
		value:    value,
		refCount: 1,
		valid:    true,
	}

	if len(s.freeList) > 0 {
		handle := s.freeList[len(s.freeList)-1]
		s.freeList = s.freeList[:len(s.freeList)-1]
		s.entries[handle-1] = e
		return handle, nil
	}

	s.entries = append(s.entries, e)
	return Handle(len(s.entries)), nil
}

// Retain increments the count for a handle, returning the
// post-increment count so callers observe it under the same lock.
func (s *LocalStore) Retain(handle Handle) (int, bool) {
	if handle == 0 {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return 0, false
	}

	e := &s.entries[idx]
	if !e.valid {
		return 0, false
	}

	e.refCount++
	return e.refCount, true
}

// Set replaces the value for a live handle. The new value is
// immediately visible through every holder of the handle; the count is
// untouched and returned alongside.
func (s *LocalStore) Set(handle Handle, value any) (int, bool) {
	if handle == 0 {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return 0, false
	}

	e := &s.entries[idx]
	if !e.valid {
		return 0, false
	}

	e.value = value
	return e.refCount, true
}

// Release decrements the count for a handle. At zero the entry's
// teardown runs in place, the slot is invalidated and recycled.
func (s *LocalStore) Release(handle Handle) (int, bool) {
	if handle == 0 {
		return 0, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return 0, false
	}

	e := &s.entries[idx]
	if !e.valid {
		return 0, false
	}

	e.refCount--
	if e.refCount > 0 {
		return e.refCount, true
	}

	value := e.value
	e.valid = false
	e.value = nil
	e.refCount = 0
	s.live--
	s.freeList = append(s.freeList, handle)

	if d, ok := value.(shared.Dropper); ok {
		d.Drop()
	}

	return 0, true
}

// Get retrieves a value by handle.
func (s *LocalStore) Get(handle Handle) (any, bool) {
	if handle == 0 {
		return nil, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return nil, false
	}

	e := s.entries[idx]
	if !e.valid {
		return nil, false
	}
	return e.value, true
}

// RefCount returns the count for a handle.
func (s *LocalStore) RefCount(handle Handle) (int, bool) {
	if handle == 0 {
		return 0, false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	idx := handle - 1
	if int(idx) >= len(s.entries) {
		return 0, false
	}

	e := s.entries[idx]
	if !e.valid {
		return 0, false
	}
	return e.refCount, true
}

// Len returns the number of live entries.
func (s *LocalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live
}

// Each iterates over all live entries.
func (s *LocalStore) Each(fn func(Handle, int, any) bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i, e := range s.entries {
		if e.valid {
			if !fn(Handle(i+1), e.refCount, e.value) {
				break
			}
		}
	}
}

// Close tears down all surviving entries, regardless of their counts.
func (s *LocalStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true

	for i := range s.entries {
		if s.entries[i].valid {
			if d, ok := s.entries[i].value.(shared.Dropper); ok {
				d.Drop()
			}
			s.entries[i].valid = false
			s.entries[i].value = nil
		}
	}

	s.entries = nil
	s.freeList = nil
	s.live = 0
	return nil
}
