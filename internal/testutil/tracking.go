// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"fmt"
	"sort"
	"strings"
	"sync"
	"unsafe"

	"github.com/pavanmanishd/pulsar/alloc"
)

// Tracker is an alloc.Resource that records every outstanding block so tests
// can assert that handles free exactly what they allocate. Element types
// allocated through a Tracker must not contain Go pointers.
type Tracker struct {
	mu         sync.Mutex
	blocks     map[uintptr]block
	mismatches []string
	allocs     int
	frees      int
}

type block struct {
	buf  []byte
	size uintptr
}

// NewTracker returns an empty Tracker.
func NewTracker() *Tracker {
	return &Tracker{blocks: make(map[uintptr]block)}
}

// Allocate implements alloc.Resource.
func (t *Tracker) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	if align == 0 {
		align = 1
	}
	buf := make([]byte, size+align)
	base := uintptr(unsafe.Pointer(unsafe.SliceData(buf)))
	pad := (base+align-1)&^(align-1) - base
	p := unsafe.Add(unsafe.Pointer(unsafe.SliceData(buf)), pad)

	t.mu.Lock()
	defer t.mu.Unlock()
	t.blocks[uintptr(p)] = block{buf: buf, size: size}
	t.allocs++
	return p, nil
}

// Deallocate implements alloc.Resource.
func (t *Tracker) Deallocate(p unsafe.Pointer, size, _ uintptr) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.blocks[uintptr(p)]
	if !ok {
		t.mismatches = append(t.mismatches, fmt.Sprintf("untracked deallocation of %p", p))
		return
	}
	if b.size != size {
		t.mismatches = append(t.mismatches, fmt.Sprintf("size mismatch at %p: allocated %d, freed %d", p, b.size, size))
	}
	delete(t.blocks, uintptr(p))
	t.frees++
}

// Live returns the number of outstanding blocks.
func (t *Tracker) Live() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.blocks)
}

// Counts returns the total number of allocations and deallocations seen.
func (t *Tracker) Counts() (allocs, frees int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.allocs, t.frees
}

// Check returns an error describing leaks and mismatched deallocations.
func (t *Tracker) Check() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	var problems []string
	problems = append(problems, t.mismatches...)
	leaks := make([]string, 0, len(t.blocks))
	for p, b := range t.blocks {
		leaks = append(leaks, fmt.Sprintf("leak: %#x size: %d", p, b.size))
	}
	sort.Strings(leaks)
	problems = append(problems, leaks...)
	if len(problems) == 0 {
		return nil
	}
	return fmt.Errorf("%d allocation problems:\n%s", len(problems), strings.Join(problems, "\n"))
}

// Allocator returns a typed allocator drawing from tr.
func Allocator[T any](tr *Tracker) alloc.Allocator[T] {
	return alloc.For[T](tr)
}

