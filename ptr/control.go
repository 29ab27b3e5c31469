package ptr

import (
	"sync/atomic"

	"github.com/pavanmanishd/pulsar/alloc"
)

// controlBlock holds the reference counts of one shared object.
//
// weak counts live Weak handles plus one reference held collectively by the
// strong owners while strong > 0. Whoever drops weak to zero frees the block
// and the value's storage, so teardown happens exactly once even when the
// last Shared and the last Weak are released concurrently.
//
// The counts are only touched through sync/atomic, whose operations are
// sequentially consistent: the decrement that observes zero happens after
// every write made through the handles that were released before it.
type controlBlock struct {
	strong int32
	weak   int32
}

func newControlBlock[T any](a alloc.Allocator[T]) (*controlBlock, error) {
	ca := alloc.Rebind[controlBlock](a)
	c, err := ca.Allocate(1)
	if err != nil {
		return nil, err
	}
	ca.Construct(c, controlBlock{strong: 1, weak: 1})
	return c, nil
}

// freeStorage returns the control block and then the value's storage, the
// reverse of the order MakeSharedWith allocates them in, so a bump arena can
// rewind over both. The value must already be destroyed.
func freeStorage[T any](a alloc.Allocator[T], c *controlBlock, p *T) {
	ca := alloc.Rebind[controlBlock](a)
	ca.Destroy(c)
	ca.Deallocate(c, 1)
	a.Deallocate(p, 1)
}

func (c *controlBlock) strongCount() int32 {
	return atomic.LoadInt32(&c.strong)
}

// weakCount reads weak and strong with separate loads, so a concurrent final
// release may make the result stale by one. It is a snapshot.
func (c *controlBlock) weakCount() int32 {
	w := atomic.LoadInt32(&c.weak)
	if atomic.LoadInt32(&c.strong) > 0 {
		w--
	}
	return w
}

func (c *controlBlock) retain() {
	if atomic.AddInt32(&c.strong, 1) <= 1 {
		panic(alloc.Violation("retain", "strong count was zero"))
	}
}

// release drops one strong reference and reports whether it was the last.
func (c *controlBlock) release() bool {
	n := atomic.AddInt32(&c.strong, -1)
	if n < 0 {
		panic(alloc.Violation("release", "strong count underflow"))
	}
	return n == 0
}

func (c *controlBlock) retainWeak() {
	atomic.AddInt32(&c.weak, 1)
}

// releaseWeak drops one weak reference and reports whether the block must be
// freed.
func (c *controlBlock) releaseWeak() bool {
	n := atomic.AddInt32(&c.weak, -1)
	if n < 0 {
		panic(alloc.Violation("release weak", "weak count underflow"))
	}
	return n == 0
}

// tryRetain adds a strong reference unless the count already reached zero.
func (c *controlBlock) tryRetain() bool {
	for {
		n := atomic.LoadInt32(&c.strong)
		if n == 0 {
			return false
		}
		if atomic.CompareAndSwapInt32(&c.strong, n, n+1) {
			return true
		}
	}
}

// noCopy lets go vet's copylocks check flag handles copied by value.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}
