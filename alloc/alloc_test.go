package alloc

import (
	"errors"
	"testing"
	"unsafe"
)

type finalized struct {
	id    int
	calls *int
}

func (f *finalized) Finalize() { *f.calls++ }

func TestHeapAllocate(t *testing.T) {
	var h Heap[int64]

	p, err := h.Allocate(4)
	if err != nil {
		t.Fatalf("Allocate(4) error = %v", err)
	}
	s := unsafe.Slice(p, 4)
	for i := range s {
		s[i] = int64(i)
	}
	if s[3] != 3 {
		t.Errorf("s[3] = %d, want 3", s[3])
	}
	h.Deallocate(p, 4)

	for _, n := range []int{0, -1} {
		p, err := h.Allocate(n)
		if p != nil || err != nil {
			t.Errorf("Allocate(%d) = %v, %v, want nil, nil", n, p, err)
		}
	}
}

func TestConstructDestroy(t *testing.T) {
	calls := 0
	var h Heap[finalized]
	p, _ := h.Allocate(1)
	h.Construct(p, finalized{id: 7, calls: &calls})
	if p.id != 7 {
		t.Errorf("id after Construct = %d, want 7", p.id)
	}
	h.Destroy(p)
	if calls != 1 {
		t.Errorf("Finalize calls = %d, want 1", calls)
	}
	if p.id != 0 || p.calls != nil {
		t.Errorf("value after Destroy = %+v, want zero", *p)
	}

	DestroyAt[finalized](nil)
}

func TestRebindHeap(t *testing.T) {
	var h Heap[int32]
	r := Rebind[string](Allocator[int32](h))
	if _, ok := r.(Heap[string]); !ok {
		t.Fatalf("Rebind of Heap = %T, want Heap[string]", r)
	}
	if !Equal[int32, string](h, r) {
		t.Error("heap allocators of different element types are not equal")
	}
}

type countingResource struct {
	allocated uintptr
	freed     uintptr
	limit     uintptr
	buf       [256]byte
}

func (c *countingResource) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	if c.allocated+size > c.limit {
		return nil, ErrOutOfMemory
	}
	p := unsafe.Pointer(&c.buf[c.allocated])
	c.allocated += size
	return p, nil
}

func (c *countingResource) Deallocate(_ unsafe.Pointer, size, _ uintptr) {
	c.freed += size
}

func TestResourceAllocator(t *testing.T) {
	res := &countingResource{limit: 16}
	a := For[int32](res)

	p, err := a.Allocate(2)
	if err != nil {
		t.Fatalf("Allocate(2) error = %v", err)
	}
	a.Construct(p, 5)
	if *p != 5 {
		t.Errorf("*p = %d, want 5", *p)
	}
	if res.allocated != 8 {
		t.Errorf("allocated = %d, want 8", res.allocated)
	}

	if _, err := a.Allocate(3); !errors.Is(err, ErrOutOfMemory) {
		t.Errorf("Allocate(3) error = %v, want ErrOutOfMemory", err)
	}

	a.Destroy(p)
	a.Deallocate(p, 2)
	if res.freed != 8 {
		t.Errorf("freed = %d, want 8", res.freed)
	}

	b := Rebind[int64](a)
	if b.Resource() != Resource(res) {
		t.Error("rebind did not keep the resource")
	}
	if !Equal(a, b) {
		t.Error("allocator and its rebind are not equal")
	}
	if Equal(a, For[int32](&countingResource{})) {
		t.Error("allocators over different resources are equal")
	}
}

func TestHeapResourceAlignment(t *testing.T) {
	r := HeapResource()
	for _, align := range []uintptr{1, 8, 16, 64} {
		p, err := r.Allocate(24, align)
		if err != nil {
			t.Fatalf("Allocate(24, %d) error = %v", align, err)
		}
		if uintptr(p)%align != 0 {
			t.Errorf("Allocate(24, %d) = %p, not aligned", align, p)
		}
	}
	if p, _ := r.Allocate(0, 8); p == nil {
		t.Error("zero-size allocation returned nil")
	}
	if _, ok := For[int](r).(Heap[int]); !ok {
		t.Error("For(HeapResource) is not Heap")
	}
}

func TestInvariantViolation(t *testing.T) {
	v := Violation("reset", "%d allocations still live", 3)
	if got, want := v.Error(), "invariant violation: reset: 3 allocations still live"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
