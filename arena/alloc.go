package arena

import (
	"runtime"
	"unsafe"
)

// Alloc returns a pointer to a zeroed T stored inside the region.
// The returned pointer is valid until the region is reset or released.
func Alloc[T any](r *Region) (*T, error) {
	p, err := AllocUninitialized[T](r)
	if err != nil {
		return nil, err
	}
	var zero T
	*p = zero
	return p, nil
}

// AllocUninitialized returns a *T located in the region without zeroing memory.
// After a Reset the memory holds whatever the previous occupant left behind.
func AllocUninitialized[T any](r *Region) (*T, error) {
	var zero T
	p, err := r.Allocate(unsafe.Sizeof(zero), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// AllocSlice allocates a slice of n elements of type T inside the region.
// The slice elements are not initialized.
// Returns nil if n <= 0.
func AllocSlice[T any](r *Region, n int) ([]T, error) {
	if n <= 0 {
		return nil, nil
	}
	var zero T
	p, err := r.Allocate(unsafe.Sizeof(zero)*uintptr(n), unsafe.Alignof(zero))
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*T)(p), n), nil
}

// AllocSliceZeroed allocates a slice of n elements of type T with zeroed memory.
func AllocSliceZeroed[T any](r *Region, n int) ([]T, error) {
	s, err := AllocSlice[T](r, n)
	if err != nil {
		return nil, err
	}
	clear(s)
	return s, nil
}

// Free returns the storage of a value obtained from Alloc. Frees must happen
// in reverse allocation order for the space to be reused.
func Free[T any](r *Region, p *T) {
	if p == nil {
		return
	}
	var zero T
	r.Deallocate(unsafe.Pointer(p), unsafe.Sizeof(zero), unsafe.Alignof(zero))
}

// FreeSlice returns the storage of a slice obtained from AllocSlice.
func FreeSlice[T any](r *Region, s []T) {
	if len(s) == 0 {
		return
	}
	var zero T
	r.Deallocate(unsafe.Pointer(unsafe.SliceData(s)), unsafe.Sizeof(zero)*uintptr(len(s)), unsafe.Alignof(zero))
}

// PtrAndKeepAlive returns t and calls runtime.KeepAlive on the region.
// This is useful to prevent the region from being garbage collected
// while the pointer is still in use in unsafe code.
func PtrAndKeepAlive[T any](r *Region, t *T) *T {
	runtime.KeepAlive(r)
	return t
}
