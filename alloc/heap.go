package alloc

import "unsafe"

// Heap is the default allocator. Storage comes from the Go heap and
// Deallocate leaves reclamation to the garbage collector.
type Heap[T any] struct{}

// Allocate returns storage for n values of T. It never fails.
func (Heap[T]) Allocate(n int) (*T, error) {
	if n <= 0 {
		return nil, nil
	}
	s := make([]T, n)
	return &s[0], nil
}

// Deallocate is a no-op; the block becomes garbage once unreferenced.
func (Heap[T]) Deallocate(*T, int) {}

func (Heap[T]) Construct(p *T, v T) { ConstructAt(p, v) }

func (Heap[T]) Destroy(p *T) { DestroyAt(p) }

func (Heap[T]) Resource() Resource { return heapResource{} }

// HeapResource returns the untyped resource behind Heap.
func HeapResource() Resource { return heapResource{} }

type heapResource struct{}

var zeroBase byte

func (heapResource) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	if size == 0 {
		return unsafe.Pointer(&zeroBase), nil
	}
	if align <= 1 {
		return unsafe.Pointer(unsafe.SliceData(make([]byte, size))), nil
	}
	buf := make([]byte, size+align-1)
	base := unsafe.Pointer(unsafe.SliceData(buf))
	pad := alignUp(uintptr(base), align) - uintptr(base)
	return unsafe.Add(base, pad), nil
}

func (heapResource) Deallocate(unsafe.Pointer, uintptr, uintptr) {}

// alignUp rounds off up to the next multiple of align (a power of two).
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}
