package ptr

import "github.com/pavanmanishd/pulsar/alloc"

// Weak observes a value owned by Shared handles without extending its
// lifetime. The zero value is an empty handle.
type Weak[T any, A alloc.Allocator[T]] struct {
	_ noCopy

	p    *T
	ctrl *controlBlock
	a    A
}

// NewWeak returns an observer of s's value. It is equivalent to s.Weak().
func NewWeak[T any, A alloc.Allocator[T]](s *Shared[T, A]) *Weak[T, A] {
	return s.Weak()
}

// Valid reports whether the observed value is still alive. The answer may be
// stale by the time it is used; Lock is the only race-free check.
func (w *Weak[T, A]) Valid() bool {
	return w.ctrl != nil && w.ctrl.strongCount() > 0
}

// Lock promotes w to a Shared owner. It returns false once the last owner has
// been released.
func (w *Weak[T, A]) Lock() (*Shared[T, A], bool) {
	if w.ctrl == nil || !w.ctrl.tryRetain() {
		return nil, false
	}
	return &Shared[T, A]{p: w.p, ctrl: w.ctrl, a: w.a}, true
}

// StrongCount returns the number of live Shared owners, or 0 when empty.
func (w *Weak[T, A]) StrongCount() int32 {
	if w.ctrl == nil {
		return 0
	}
	return w.ctrl.strongCount()
}

// WeakCount returns the number of live Weak handles, or 0 when empty. The
// count is a snapshot when other goroutines release handles concurrently.
func (w *Weak[T, A]) WeakCount() int32 {
	if w.ctrl == nil {
		return 0
	}
	return w.ctrl.weakCount()
}

// Clone returns another observer of the same value.
func (w *Weak[T, A]) Clone() *Weak[T, A] {
	if w.ctrl == nil {
		return &Weak[T, A]{a: w.a}
	}
	w.ctrl.retainWeak()
	return &Weak[T, A]{p: w.p, ctrl: w.ctrl, a: w.a}
}

// Assign makes w observe o's value, releasing whatever w observed.
func (w *Weak[T, A]) Assign(o *Weak[T, A]) {
	if w == o {
		return
	}
	if o.ctrl != nil {
		o.ctrl.retainWeak()
	}
	w.Release()
	w.p, w.ctrl, w.a = o.p, o.ctrl, o.a
}

// Move transfers the observation to a new handle and empties w.
func (w *Weak[T, A]) Move() *Weak[T, A] {
	m := &Weak[T, A]{p: w.p, ctrl: w.ctrl, a: w.a}
	w.p, w.ctrl = nil, nil
	return m
}

// Swap exchanges the contents of w and o.
func (w *Weak[T, A]) Swap(o *Weak[T, A]) {
	w.p, o.p = o.p, w.p
	w.ctrl, o.ctrl = o.ctrl, w.ctrl
	w.a, o.a = o.a, w.a
}

// Release drops this observer. The last reference to a control block whose
// value is already destroyed frees the block and the value's storage.
func (w *Weak[T, A]) Release() {
	c, p := w.ctrl, w.p
	if c == nil {
		return
	}
	w.p, w.ctrl = nil, nil
	if c.releaseWeak() {
		freeStorage(w.a, c, p)
	}
}
