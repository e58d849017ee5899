package errors

import (
	"fmt"
	"strings"
)

// Op indicates which handle operation the error occurred in
type Op string

const (
	OpCreate  Op = "create"  // block allocation
	OpClone   Op = "clone"   // handle duplication
	OpBorrow  Op = "borrow"  // payload access
	OpRelease Op = "release" // handle end-of-life
	OpRetain  Op = "retain"  // registry handle duplication
	OpStore   Op = "store"   // registry storage operations
)

// Kind categorizes the error
type Kind string

const (
	KindUseAfterRelease Kind = "use_after_release"
	KindDoubleRelease   Kind = "double_release"
	KindUnderflow       Kind = "underflow"
	KindRevive          Kind = "revive"
	KindClosed          Kind = "closed"
	KindInvalidHandle   Kind = "invalid_handle"
	KindAllocation      Kind = "allocation"
)

// Error is the structured error type used throughout the library.
// The core package panics with *Error values on ownership misuse;
// the registry returns them where an operation can fail cleanly.
type Error struct {
	Cause  error
	Op     Op
	Kind   Kind
	Detail string
	Handle uint32
	Count  int
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Op))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Handle != 0 {
		fmt.Fprintf(&b, " handle %d", e.Handle)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Op == t.Op && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(op Op, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Op:   op,
			Kind: kind,
		},
	}
}

// Handle sets the registry handle the error refers to
func (b *Builder) Handle(h uint32) *Builder {
	b.err.Handle = h
	return b
}

// Count sets the reference count observed at the time of the error
func (b *Builder) Count(c int) *Builder {
	b.err.Count = c
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// UseAfterRelease reports an operation on a handle that already ended its life
func UseAfterRelease(op Op) *Error {
	return &Error{
		Op:     op,
		Kind:   KindUseAfterRelease,
		Detail: "handle has already been released",
	}
}

// DoubleRelease reports a second Release on the same handle instance
func DoubleRelease() *Error {
	return &Error{
		Op:     OpRelease,
		Kind:   KindDoubleRelease,
		Detail: "handle released twice",
	}
}

// Underflow reports a reference count decremented below zero
func Underflow(op Op, count int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindUnderflow,
		Count:  count,
		Detail: fmt.Sprintf("reference count %d after decrement", count),
	}
}

// Revive reports an increment on a block whose count already reached zero
func Revive(op Op, count int) *Error {
	return &Error{
		Op:     op,
		Kind:   KindRevive,
		Count:  count,
		Detail: fmt.Sprintf("incremented a dead block to %d", count),
	}
}

// Closed reports an operation on a closed store
func Closed(op Op) *Error {
	return &Error{
		Op:   op,
		Kind: KindClosed,
	}
}

// InvalidHandle reports an operation on an unknown or dead registry handle
func InvalidHandle(op Op, handle uint32) *Error {
	return &Error{
		Op:     op,
		Kind:   KindInvalidHandle,
		Handle: handle,
	}
}
