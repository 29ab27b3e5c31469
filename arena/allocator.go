package arena

import (
	"unsafe"

	"github.com/pavanmanishd/pulsar/alloc"
	"github.com/pavanmanishd/pulsar/ptr"
)

type regionRef = ptr.Shared[Region, alloc.Heap[Region]]

// ArenaAllocator implements alloc.Allocator[T] by bump-allocating from a
// Region it shares with every clone and rebind.
//
// The region is reference counted: Clone and Rebind add an owner, Release
// drops one, and the last Release releases the region. Copying an
// ArenaAllocator by assignment aliases the same owner without adding one,
// which is how handles in package ptr hold it; keep an owner alive for as long
// as those handles are.
type ArenaAllocator[T any] struct {
	region *regionRef
}

// NewAllocator creates a region of the given capacity owned by the returned
// allocator. If capacity <= 0, DefaultRegionSize is used.
func NewAllocator[T any](capacity int, opts ...Option) ArenaAllocator[T] {
	return ArenaAllocator[T]{region: ptr.MakeShared(newRegion(capacity, opts...))}
}

// Rebind returns an allocator for U that shares a's region and owns a
// reference to it.
func Rebind[U, T any](a ArenaAllocator[T]) ArenaAllocator[U] {
	return ArenaAllocator[U]{region: a.ref().Clone()}
}

// Clone returns a new owner of the same region.
func (a ArenaAllocator[T]) Clone() ArenaAllocator[T] {
	return ArenaAllocator[T]{region: a.ref().Clone()}
}

// Release drops this owner. The last owner releases the region; in debug
// mode that panics if allocations are still live.
func (a ArenaAllocator[T]) Release() {
	if a.region != nil {
		a.region.Release()
	}
}

// Region returns the underlying region.
func (a ArenaAllocator[T]) Region() *Region {
	return a.ref().Get()
}

// Owners returns the number of allocators sharing the region.
func (a ArenaAllocator[T]) Owners() int32 {
	if a.region == nil {
		return 0
	}
	return a.region.StrongCount()
}

// Allocate reserves space for n contiguous values of T.
func (a ArenaAllocator[T]) Allocate(n int) (*T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	p, err := a.Region().Allocate(unsafe.Sizeof(zero)*uintptr(n), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Deallocate returns the space of n values starting at p to the region.
func (a ArenaAllocator[T]) Deallocate(p *T, n int) {
	if p == nil || n <= 0 {
		return
	}
	var zero T
	a.Region().Deallocate(unsafe.Pointer(p), unsafe.Sizeof(zero)*uintptr(n), unsafe.Alignof(zero))
}

func (ArenaAllocator[T]) Construct(p *T, v T) { alloc.ConstructAt(p, v) }

func (ArenaAllocator[T]) Destroy(p *T) { alloc.DestroyAt(p) }

// Resource returns the shared region.
func (a ArenaAllocator[T]) Resource() alloc.Resource { return a.Region() }

// MaxSize returns the region capacity in bytes.
func (a ArenaAllocator[T]) MaxSize() int { return a.Region().Capacity() }

// UsedSize returns the bytes consumed by the bump cursor.
func (a ArenaAllocator[T]) UsedSize() int { return a.Region().Used() }

// AvailableSize returns the bytes left in the region.
func (a ArenaAllocator[T]) AvailableSize() int { return a.Region().Available() }

// AllocationCount returns the live allocation count of a debug region.
func (a ArenaAllocator[T]) AllocationCount() int { return a.Region().LiveAllocations() }

// Reset resets the shared region for every allocator using it.
func (a ArenaAllocator[T]) Reset() { a.Region().Reset() }

func (a ArenaAllocator[T]) ref() *regionRef {
	if a.region == nil || a.region.IsNil() {
		panic("arena: allocator has no region")
	}
	return a.region
}
