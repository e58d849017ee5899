package registry

// Handle is an opaque reference to an entry in a store.
// Handle 0 is reserved and always invalid.
type Handle uint32

// Event types for handle lifecycle notifications.
type EventType uint8

const (
	EventCreated EventType = iota
	EventRetained
	EventReleased
	EventDestroyed
	EventUpdated
)

// Event represents a handle lifecycle event. Count is the entry's
// reference count after the operation.
type Event struct {
	Value  any
	Handle Handle
	Count  int
	Type   EventType
}

// Observer receives notifications about handle lifecycle events.
type Observer interface {
	OnHandleEvent(Event)
}

// Store is the counted-ownership protocol behind integer handles.
type Store interface {
	// Create stores a value at count 1 and returns its handle.
	Create(value any) (Handle, error)

	// Retain increments the count for a handle. Returns the
	// post-increment count and whether the handle was live.
	Retain(handle Handle) (int, bool)

	// Set replaces the value for a live handle. The new value is
	// immediately visible through every holder of the handle. Returns
	// the entry's count and whether the handle was live.
	Set(handle Handle, value any) (int, bool)

	// Release decrements the count for a handle. At zero the entry's
	// teardown runs and the slot is recycled. Returns the remaining
	// count and whether the handle was live.
	Release(handle Handle) (int, bool)

	// Get retrieves a value by handle.
	Get(handle Handle) (any, bool)

	// RefCount returns the count for a handle.
	RefCount(handle Handle) (int, bool)

	// Close tears down all surviving entries.
	Close() error
}
