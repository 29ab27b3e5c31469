package arena

import (
	"sync"
	"unsafe"
)

// SafeRegion is a mutex-protected wrapper around Region for concurrent access.
// All operations are thread-safe but come with the overhead of mutex locking.
// It implements alloc.Resource, so alloc.For[T](s) gives a typed allocator
// that can be shared between goroutines.
type SafeRegion struct {
	mu sync.Mutex
	r  *Region
}

// NewSafeRegion creates a new thread-safe region with the specified capacity.
// If capacity <= 0, DefaultRegionSize is used.
func NewSafeRegion(capacity int, opts ...Option) *SafeRegion {
	return &SafeRegion{r: NewRegion(capacity, opts...)}
}

// Allocate thread-safely reserves size bytes aligned to align.
func (s *SafeRegion) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Allocate(size, align)
}

// Deallocate thread-safely gives size bytes back to the cursor.
func (s *SafeRegion) Deallocate(p unsafe.Pointer, size, align uintptr) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Deallocate(p, size, align)
}

// Reset thread-safely makes the whole region available again.
func (s *SafeRegion) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Reset()
}

// Release thread-safely drops the backing buffer.
func (s *SafeRegion) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.r.Release()
}

// SafeAlloc thread-safely returns a zeroed T stored inside the region.
func SafeAlloc[T any](s *SafeRegion) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alloc[T](s.r)
}

// SafeAllocSlice thread-safely allocates a zeroed slice of n elements of type T.
func SafeAllocSlice[T any](s *SafeRegion, n int) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocSliceZeroed[T](s.r, n)
}
