package registry

import (
	"sync"
)

// Table wraps a LocalStore with lifecycle observers.
type Table struct {
	store     *LocalStore
	observers []Observer
	obsMu     sync.RWMutex
	closed    bool
	closeMu   sync.RWMutex
}

// NewTable creates a new table backed by an unbounded LocalStore.
func NewTable() *Table {
	return NewTableWithLimit(0)
}

// NewTableWithLimit creates a table whose store rejects creates beyond
// limit live entries. A limit of 0 means unbounded.
func NewTableWithLimit(limit int) *Table {
	return &Table{
		store: NewLocalStoreWithLimit(limit),
	}
}

// Create stores a value at count 1 and returns its handle.
// Returns 0 if the table is closed.
func (t *Table) Create(value any) Handle {
	t.closeMu.RLock()
	if t.closed {
		t.closeMu.RUnlock()
		return 0
	}
	t.closeMu.RUnlock()

	handle, err := t.store.Create(value)
	if err != nil {
		return 0
	}

	t.notify(Event{
		Type:   EventCreated,
		Handle: handle,
		Count:  1,
		Value:  value,
	})

	return handle
}

// Retain increments the count for a handle.
func (t *Table) Retain(handle Handle) bool {
	count, ok := t.store.Retain(handle)
	if !ok {
		return false
	}

	t.notify(Event{
		Type:   EventRetained,
		Handle: handle,
		Count:  count,
	})
	return true
}

// Set replaces the value for a live handle. Every holder of the handle
// observes the new value immediately.
func (t *Table) Set(handle Handle, value any) bool {
	count, ok := t.store.Set(handle, value)
	if !ok {
		return false
	}

	t.notify(Event{
		Type:   EventUpdated,
		Handle: handle,
		Count:  count,
		Value:  value,
	})
	return true
}

// Release decrements the count for a handle. The entry's teardown runs
// when the count reaches zero.
func (t *Table) Release(handle Handle) bool {
	value, _ := t.store.Get(handle)

	count, ok := t.store.Release(handle)
	if !ok {
		return false
	}

	t.notify(Event{
		Type:   EventReleased,
		Handle: handle,
		Count:  count,
	})

	if count == 0 {
		t.notify(Event{
			Type:   EventDestroyed,
			Handle: handle,
			Value:  value,
		})
	}
	return true
}

// Get retrieves a value by handle.
func (t *Table) Get(handle Handle) (any, bool) {
	return t.store.Get(handle)
}

// RefCount returns the count for a handle.
func (t *Table) RefCount(handle Handle) (int, bool) {
	return t.store.RefCount(handle)
}

// Len returns the number of live entries.
func (t *Table) Len() int {
	return t.store.Len()
}

// Each iterates over all live entries.
func (t *Table) Each(fn func(Handle, int, any) bool) {
	t.store.Each(fn)
}

// Store returns the underlying store for direct access.
func (t *Table) Store() Store {
	return t.store
}

// Subscribe adds an observer for lifecycle events.
func (t *Table) Subscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	t.observers = append(t.observers, o)
}

// Unsubscribe removes an observer.
func (t *Table) Unsubscribe(o Observer) {
	t.obsMu.Lock()
	defer t.obsMu.Unlock()
	for i, obs := range t.observers {
		if obs == o {
			t.observers = append(t.observers[:i], t.observers[i+1:]...)
			return
		}
	}
}

func (t *Table) notify(e Event) {
	t.obsMu.RLock()
	defer t.obsMu.RUnlock()
	for _, o := range t.observers {
		o.OnHandleEvent(e)
	}
}

// Close tears down all surviving entries and rejects further creates.
func (t *Table) Close() error {
	t.closeMu.Lock()
	if t.closed {
		t.closeMu.Unlock()
		return nil
	}
	t.closed = true
	t.closeMu.Unlock()

	return t.store.Close()
}
