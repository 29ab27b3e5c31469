// Package alloc defines the allocator contract shared by the arena and the
// ownership handles in package ptr.
//
// An Allocator[T] hands out storage for values of type T, runs their
// initializer and finalizer in place, and exposes the untyped Resource it
// draws memory from. Rebinding an allocator to another element type keeps the
// same Resource, so an allocator and all of its rebinds can free each other's
// blocks.
package alloc

import (
	"errors"
	"fmt"
	"unsafe"
)

// ErrOutOfMemory is returned, possibly wrapped, when a resource cannot satisfy
// a request.
var ErrOutOfMemory = errors.New("alloc: out of memory")

// InvariantViolation is the panic value raised by debug consistency checks,
// such as resetting an arena that still has live allocations.
type InvariantViolation struct {
	Op  string
	Msg string
}

func (v *InvariantViolation) Error() string {
	return "invariant violation: " + v.Op + ": " + v.Msg
}

// Violation builds an InvariantViolation with a formatted message.
func Violation(op, format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Op: op, Msg: fmt.Sprintf(format, args...)}
}

// Resource is an untyped memory source.
//
// Implementations must be comparable (a pointer type or an empty struct):
// allocators are considered equal when their resources compare equal.
type Resource interface {
	// Allocate returns size bytes aligned to align, or an error wrapping
	// ErrOutOfMemory.
	Allocate(size, align uintptr) (unsafe.Pointer, error)
	// Deallocate returns a block obtained from Allocate. size and align must
	// match the original request.
	Deallocate(p unsafe.Pointer, size, align uintptr)
}

// Allocator is the capability set handles and containers rely on.
type Allocator[T any] interface {
	// Allocate reserves space for n contiguous values. n <= 0 returns nil.
	Allocate(n int) (*T, error)
	// Deallocate releases space obtained from Allocate. n must equal the
	// count passed to Allocate; mismatches are not detected.
	Deallocate(p *T, n int)
	// Construct initializes the value at p.
	Construct(p *T, v T)
	// Destroy finalizes the value at p without releasing its storage.
	Destroy(p *T)
	// Resource returns the memory source backing this allocator.
	Resource() Resource
}

// Finalizer is implemented by values that need to run cleanup when an
// allocator destroys them.
type Finalizer interface {
	Finalize()
}

// ConstructAt stores v at p.
func ConstructAt[T any](p *T, v T) {
	*p = v
}

// DestroyAt runs the finalizer of the value at p, if any, and zeroes it.
func DestroyAt[T any](p *T) {
	if p == nil {
		return
	}
	if f, ok := any(p).(Finalizer); ok {
		f.Finalize()
	}
	var zero T
	*p = zero
}

// Rebind returns an allocator for U drawing from the same resource as a.
func Rebind[U, T any](a Allocator[T]) Allocator[U] {
	return For[U](a.Resource())
}

// Equal reports whether a and b draw from the same resource, that is whether
// each can deallocate what the other allocated.
func Equal[T, U any](a Allocator[T], b Allocator[U]) bool {
	return a.Resource() == b.Resource()
}
