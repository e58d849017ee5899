// Package registry provides counted shared ownership behind integer
// handles.
//
// Where shared.Shared ties ownership to Go values, a registry ties it to
// plain uint32 handles that can cross a serialization boundary. Each
// entry carries a reference count; Retain extends the share, Release
// gives a unit back, and the entry's teardown runs exactly once when
// the count reaches zero.
//
// # Handle Table
//
// The Table maps integer handles to Go values:
//
//	table := registry.NewTable()
//
//	h := table.Create(conn)      // count 1
//	table.Retain(h)              // count 2
//	table.Set(h, other)          // visible through every holder of h
//	table.Release(h)             // count 1
//	table.Release(h)             // count 0: teardown runs, slot recycled
//
// Handle 0 is reserved and always invalid. Slots of destroyed entries
// are recycled, so a stale handle may alias a newer entry; callers that
// outlive their entries should treat handles as borrowed, not durable.
//
// # Teardown
//
// Values implementing shared.Dropper are torn down when their count
// reaches zero, and when the table closes with them still live:
//
//	table.Close()   // tears down every surviving entry
//
// # Observers
//
// Register observers to track the lifecycle:
//
//	table.Subscribe(registry.NewLogObserver(logger))
//
// Events report the handle, the count after the operation, and for
// created/destroyed events the value involved.
package registry
