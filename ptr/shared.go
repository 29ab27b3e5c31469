package ptr

import "github.com/pavanmanishd/pulsar/alloc"

// Shared owns a value jointly with every handle cloned from it. The value is
// destroyed when the last Shared is released. Cloning, releasing and promoting
// handles that share a value is safe from multiple goroutines; a single handle
// must not be used concurrently.
//
// The zero value is an empty handle.
type Shared[T any, A alloc.Allocator[T]] struct {
	_ noCopy

	p    *T
	ctrl *controlBlock
	a    A
}

// NewShared takes ownership of p, which must have been allocated and
// constructed through a. The control block is allocated through a rebind of
// a; on failure the error is returned and the caller keeps ownership of p.
// A nil p yields an empty handle.
func NewShared[T any, A alloc.Allocator[T]](p *T, a A) (*Shared[T, A], error) {
	if p == nil {
		return &Shared[T, A]{a: a}, nil
	}
	c, err := newControlBlock[T](a)
	if err != nil {
		return nil, err
	}
	return &Shared[T, A]{p: p, ctrl: c, a: a}, nil
}

// MakeShared allocates v on the heap and returns its first owner.
func MakeShared[T any](v T) *Shared[T, alloc.Heap[T]] {
	s, err := MakeSharedWith(alloc.Heap[T]{}, v)
	if err != nil {
		panic(err)
	}
	return s
}

// MakeSharedWith allocates and constructs v through a and wraps it in a
// Shared. On failure nothing is left allocated.
func MakeSharedWith[T any, A alloc.Allocator[T]](a A, v T) (*Shared[T, A], error) {
	p, err := a.Allocate(1)
	if err != nil {
		return nil, err
	}
	a.Construct(p, v)
	s, err := NewShared(p, a)
	if err != nil {
		a.Destroy(p)
		a.Deallocate(p, 1)
		return nil, err
	}
	return s, nil
}

// Get returns the shared pointer, or nil.
func (s *Shared[T, A]) Get() *T { return s.p }

// IsNil reports whether s owns nothing.
func (s *Shared[T, A]) IsNil() bool { return s.p == nil }

// Allocator returns the allocator used to free the value.
func (s *Shared[T, A]) Allocator() A { return s.a }

// StrongCount returns the number of live Shared handles, or 0 when empty.
func (s *Shared[T, A]) StrongCount() int32 {
	if s.ctrl == nil {
		return 0
	}
	return s.ctrl.strongCount()
}

// WeakCount returns the number of live Weak handles, or 0 when empty. The
// count is a snapshot when other goroutines release handles concurrently.
func (s *Shared[T, A]) WeakCount() int32 {
	if s.ctrl == nil {
		return 0
	}
	return s.ctrl.weakCount()
}

// Clone returns a new owner of the same value.
func (s *Shared[T, A]) Clone() *Shared[T, A] {
	if s.ctrl == nil {
		return &Shared[T, A]{a: s.a}
	}
	s.ctrl.retain()
	return &Shared[T, A]{p: s.p, ctrl: s.ctrl, a: s.a}
}

// Assign makes s an owner of o's value, releasing whatever s held.
// Assigning a handle to itself is a no-op.
func (s *Shared[T, A]) Assign(o *Shared[T, A]) {
	if s == o {
		return
	}
	if o.ctrl != nil {
		o.ctrl.retain()
	}
	s.Release()
	s.p, s.ctrl, s.a = o.p, o.ctrl, o.a
}

// Move transfers ownership to a new handle and empties s.
func (s *Shared[T, A]) Move() *Shared[T, A] {
	m := &Shared[T, A]{p: s.p, ctrl: s.ctrl, a: s.a}
	s.p, s.ctrl = nil, nil
	return m
}

// Swap exchanges the contents of s and o.
func (s *Shared[T, A]) Swap(o *Shared[T, A]) {
	s.p, o.p = o.p, s.p
	s.ctrl, o.ctrl = o.ctrl, s.ctrl
	s.a, o.a = o.a, s.a
}

// Release drops this owner. The last owner destroys the value. Its storage
// is returned together with the control block once no Weak handles remain,
// so observers never see the block's memory reused while they hold it.
func (s *Shared[T, A]) Release() {
	c, p := s.ctrl, s.p
	if c == nil {
		return
	}
	s.p, s.ctrl = nil, nil
	if !c.release() {
		return
	}
	s.a.Destroy(p)
	if c.releaseWeak() {
		freeStorage(s.a, c, p)
	}
}

// Weak returns a non-owning observer of s's value.
func (s *Shared[T, A]) Weak() *Weak[T, A] {
	if s.ctrl == nil {
		return &Weak[T, A]{a: s.a}
	}
	s.ctrl.retainWeak()
	return &Weak[T, A]{p: s.p, ctrl: s.ctrl, a: s.a}
}

// Equal reports whether both handles point at the same value.
func (s *Shared[T, A]) Equal(o *Shared[T, A]) bool { return s.p == o.p }
