package arena

import (
	"errors"
	"testing"
	"unsafe"

	"github.com/pavanmanishd/pulsar/alloc"
)

func TestAlloc(t *testing.T) {
	r := NewRegion(1024)
	defer r.Release()

	p, err := Alloc[int64](r)
	if err != nil {
		t.Fatalf("Alloc error = %v", err)
	}
	if *p != 0 {
		t.Errorf("*p = %d, want 0", *p)
	}
	*p = 42
	if *p != 42 {
		t.Errorf("*p = %d, want 42", *p)
	}
	if uintptr(unsafe.Pointer(p))%unsafe.Alignof(int64(0)) != 0 {
		t.Error("int64 is misaligned")
	}
}

func TestAllocZeroesReusedMemory(t *testing.T) {
	r := NewRegion(64)
	defer r.Release()

	p, _ := Alloc[uint64](r)
	*p = 0xdeadbeef
	r.Reset()

	u, _ := AllocUninitialized[uint64](r)
	if *u != 0xdeadbeef {
		t.Errorf("uninitialized value = %#x, want the previous occupant", *u)
	}
	r.Reset()

	z, _ := Alloc[uint64](r)
	if *z != 0 {
		t.Errorf("zeroed value = %#x, want 0", *z)
	}
}

func TestAllocSlice(t *testing.T) {
	r := NewRegion(1024)
	defer r.Release()

	s, err := AllocSlice[int32](r, 10)
	if err != nil {
		t.Fatalf("AllocSlice error = %v", err)
	}
	if len(s) != 10 || cap(s) != 10 {
		t.Errorf("len/cap = %d/%d, want 10/10", len(s), cap(s))
	}
	for i := range s {
		s[i] = int32(i)
	}
	if r.Used() != 40 {
		t.Errorf("Used = %d, want 40", r.Used())
	}

	for _, n := range []int{0, -1} {
		if s, err := AllocSlice[int32](r, n); s != nil || err != nil {
			t.Errorf("AllocSlice(%d) = %v, %v, want nil, nil", n, s, err)
		}
	}
}

func TestAllocSliceZeroed(t *testing.T) {
	r := NewRegion(256)
	defer r.Release()

	s, _ := AllocSlice[byte](r, 16)
	for i := range s {
		s[i] = 0xff
	}
	r.Reset()

	z, err := AllocSliceZeroed[byte](r, 16)
	if err != nil {
		t.Fatal(err)
	}
	for i, b := range z {
		if b != 0 {
			t.Fatalf("z[%d] = %#x, want 0", i, b)
		}
	}
}

func TestAllocOutOfMemory(t *testing.T) {
	r := NewRegion(16)
	defer r.Release()

	if _, err := AllocSlice[int64](r, 3); !errors.Is(err, alloc.ErrOutOfMemory) {
		t.Errorf("AllocSlice error = %v, want ErrOutOfMemory", err)
	}
	if r.Used() != 0 {
		t.Errorf("failed allocation moved the cursor to %d", r.Used())
	}
	if _, err := AllocSlice[int64](r, 2); err != nil {
		t.Errorf("AllocSlice(2) error = %v", err)
	}
}

func TestFree(t *testing.T) {
	r := NewRegion(256, WithDebug(true))
	defer r.Release()

	a, _ := Alloc[int64](r)
	s, _ := AllocSlice[int32](r, 8)
	if r.LiveAllocations() != 2 {
		t.Fatalf("LiveAllocations = %d, want 2", r.LiveAllocations())
	}

	FreeSlice(r, s)
	Free(r, a)
	if r.Used() != 0 || r.LiveAllocations() != 0 {
		t.Errorf("used/live = %d/%d, want 0/0", r.Used(), r.LiveAllocations())
	}

	Free[int64](r, nil)
	FreeSlice[int32](r, nil)
	if r.Metrics().Deallocations != 2 {
		t.Errorf("Deallocations = %d, want 2", r.Metrics().Deallocations)
	}
}

func TestPtrAndKeepAlive(t *testing.T) {
	r := NewRegion(64)
	defer r.Release()

	p, _ := Alloc[int](r)
	if PtrAndKeepAlive(r, p) != p {
		t.Error("PtrAndKeepAlive returned a different pointer")
	}
}
