// Package errors provides structured error types for the shared library.
//
// Errors are categorized by Op (which handle operation failed) and Kind
// (error category). The Error type includes the registry handle, the
// observed reference count, and a cause chain where relevant.
//
// Use the Builder for structured error construction:
//
//	err := errors.New(errors.OpRelease, errors.KindUnderflow).
//		Handle(h).
//		Count(-1).
//		Detail("released more times than retained").
//		Build()
//
// Or use convenience constructors for common patterns:
//
//	err := errors.DoubleRelease()
//	err := errors.InvalidHandle(errors.OpStore, h)
//
// Ownership misuse (double release, use after release, count underflow) is
// an invariant violation rather than a recoverable condition, so the core
// package panics with these values instead of returning them. The registry
// returns them as ordinary errors. All errors implement the standard error
// interface and support errors.Is/As.
package errors
