// Package shared implements counted shared ownership of heap values.
//
// A value of type T is placed on the heap exactly once, in a control
// block that tracks how many handles are live. Handles are cheap to
// duplicate, share one payload, and the payload's teardown runs exactly
// once, the instant the last handle releases.
//
// # Architecture Overview
//
// The library is organized into a small set of packages:
//
//	shared/              Root package: Shared, Atomic, Pool
//	├── registry/        Integer-keyed counted handle table with observers
//	├── errors/          Structured error types for ownership misuse
//	└── cmd/sharedctl/   CLI for exercising and inspecting a registry
//
// # Quick Start
//
//	x := shared.New(10)
//	defer x.Release()
//
//	y := x.Clone()          // same block, count is now 2
//	*y.Borrow() += 5        // visible through x as well
//	fmt.Println(x.Get())    // 15
//	y.Release()             // count back to 1; nothing torn down yet
//
// # Lifecycle
//
// Every handle must end its life with exactly one Release call. A block
// moves through one path only:
//
//	ALLOCATED(count=1) --Clone--> ALLOCATED(count=k)
//	                   --Release--> ... --Release--> FREED
//
// FREED is terminal: teardown has run once, and no handle can reach the
// block again. Using a handle after its Release, or releasing it twice,
// panics with a structured *errors.Error; these are invariant violations
// on the caller's side, not recoverable conditions.
//
// # Teardown
//
// Payloads with teardown side effects either implement Dropper or are
// created with NewWithTeardown:
//
//	f := shared.NewWithTeardown(conn, func(c net.Conn) { c.Close() })
//
// The hook runs exactly once, only when the count reaches zero.
//
// # Sharing and Mutation
//
// Borrow returns a direct pointer to the payload and any handle may
// mutate through it at any time. There is no internal synchronization
// and no exclusivity enforcement across handles; this is a deliberate
// trade of safety for simplicity, and it is the caller's responsibility
// to keep mutation single-threaded. The Atomic variant carries the same
// ownership protocol across goroutines: an atomic count plus an interior
// lock around every payload access.
//
// # Registry
//
// Package registry provides the same counted-ownership protocol behind
// plain uint32 handles, for callers that need handles they can hand
// across a serialization boundary, plus lifecycle observers for
// instrumentation.
package shared
