package alloc

import "unsafe"

// ResourceAllocator adapts an untyped Resource to Allocator[T].
type ResourceAllocator[T any] struct {
	r Resource
}

// For returns an Allocator[T] drawing from r. The heap resource maps back to
// Heap[T], so pointer-carrying element types stay visible to the collector.
func For[T any](r Resource) Allocator[T] {
	if _, ok := r.(heapResource); ok {
		return Heap[T]{}
	}
	return ResourceAllocator[T]{r: r}
}

func (a ResourceAllocator[T]) Allocate(n int) (*T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	p, err := a.r.Allocate(unsafe.Sizeof(zero)*uintptr(n), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

func (a ResourceAllocator[T]) Deallocate(p *T, n int) {
	if p == nil || n <= 0 {
		return
	}
	var zero T
	a.r.Deallocate(unsafe.Pointer(p), unsafe.Sizeof(zero)*uintptr(n), unsafe.Alignof(zero))
}

func (ResourceAllocator[T]) Construct(p *T, v T) { ConstructAt(p, v) }

func (ResourceAllocator[T]) Destroy(p *T) { DestroyAt(p) }

func (a ResourceAllocator[T]) Resource() Resource { return a.r }
