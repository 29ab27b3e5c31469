// Package ptr implements ownership handles over values produced through an
// alloc.Allocator.
//
//   - Unique owns its value exclusively and destroys it on Release or Reset.
//   - Shared owns its value jointly with other Shared handles through an
//     atomically reference-counted control block.
//   - Weak observes a Shared value without keeping it alive and can be
//     promoted back to a Shared with Lock while the value is still alive.
//
// Handles must not be copied by value; use Move, Clone or Weak instead.
// go vet reports accidental copies.
package ptr

import "github.com/pavanmanishd/pulsar/alloc"

// Unique is the sole owner of a value. It has no concurrency contract.
type Unique[T any, A alloc.Allocator[T]] struct {
	_ noCopy

	p *T
	a A
}

// NewUnique takes ownership of p, which must have been allocated and
// constructed through a.
func NewUnique[T any, A alloc.Allocator[T]](p *T, a A) *Unique[T, A] {
	return &Unique[T, A]{p: p, a: a}
}

// MakeUnique allocates v on the heap and returns its owner.
func MakeUnique[T any](v T) *Unique[T, alloc.Heap[T]] {
	u, err := MakeUniqueWith(alloc.Heap[T]{}, v)
	if err != nil {
		panic(err)
	}
	return u
}

// MakeUniqueWith allocates and constructs v through a. Allocation failures are
// returned unchanged and nothing is left allocated.
func MakeUniqueWith[T any, A alloc.Allocator[T]](a A, v T) (*Unique[T, A], error) {
	p, err := a.Allocate(1)
	if err != nil {
		return nil, err
	}
	a.Construct(p, v)
	return NewUnique(p, a), nil
}

// Get returns the owned pointer, or nil.
func (u *Unique[T, A]) Get() *T { return u.p }

// IsNil reports whether u owns nothing.
func (u *Unique[T, A]) IsNil() bool { return u.p == nil }

// Allocator returns the allocator used to free the value.
func (u *Unique[T, A]) Allocator() A { return u.a }

// Reset destroys and deallocates the current value, then adopts p.
func (u *Unique[T, A]) Reset(p *T) {
	old := u.p
	u.p = p
	if old != nil && old != p {
		u.a.Destroy(old)
		u.a.Deallocate(old, 1)
	}
}

// Release destroys the owned value, leaving u empty.
func (u *Unique[T, A]) Release() { u.Reset(nil) }

// Move transfers ownership to a new handle and empties u.
func (u *Unique[T, A]) Move() *Unique[T, A] {
	m := &Unique[T, A]{p: u.p, a: u.a}
	u.p = nil
	return m
}

// Swap exchanges the values and allocators of u and o. It is not safe for
// concurrent use.
func (u *Unique[T, A]) Swap(o *Unique[T, A]) {
	u.p, o.p = o.p, u.p
	u.a, o.a = o.a, u.a
}

// Equal reports whether both handles point at the same value.
func (u *Unique[T, A]) Equal(o *Unique[T, A]) bool { return u.p == o.p }
