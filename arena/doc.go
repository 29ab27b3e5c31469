// Package arena implements a fixed-capacity bump allocator (memory arena)
// that plugs into the allocator contract of package alloc.
//
// # Overview
//
// A Region is a single pre-sized byte buffer with a bump cursor. Allocation
// hands out the next aligned offset and advances the cursor; there is no
// free list and no compaction. This makes the arena a good fit for:
//
//   - Per-frame or per-request scratch objects released all at once
//   - Stack-like (LIFO) allocation patterns
//   - Bounding memory use of a subsystem to a fixed budget
//
// # Basic Usage
//
//	r := arena.NewRegion(64 << 10, arena.WithDebug(true))
//	defer r.Release()
//
//	p, err := arena.Alloc[Particle](r)
//	if err != nil {
//		// errors.Is(err, alloc.ErrOutOfMemory)
//	}
//	arena.Free(r, p)
//
//	r.Reset() // O(1), whole region available again
//
// # Allocators and Handles
//
// ArenaAllocator[T] implements alloc.Allocator[T] on top of a shared Region,
// so it can back the handles of package ptr:
//
//	a := arena.NewAllocator[Particle](1 << 20)
//	defer a.Release()
//
//	s, err := ptr.MakeSharedWith(a, Particle{})
//	...
//	s.Release()
//
// Rebind[U](a) produces an allocator for another element type that draws
// from the same region; the bump cursor and live count are shared.
//
// # Thread Safety
//
// Region and ArenaAllocator are not thread-safe. For concurrent access, use
// SafeRegion, which also implements alloc.Resource:
//
//	s := arena.NewSafeRegion(0)
//	a := alloc.For[Particle](s)
//
// # Debug Mode
//
// WithDebug(true) counts live allocations. Reset and Release then panic with
// *alloc.InvariantViolation while allocations are live, and Deallocate checks
// its arguments. Without it the checks are skipped and the caller is trusted.
//
// # Important Notes
//
//   - Allocated memory is only valid until the region is reset or released
//   - Deallocate only rewinds the cursor; free in reverse order or Reset
//   - Values stored in a region must not contain Go pointers: the buffer is a
//     []byte and is not scanned by the garbage collector
//   - Allocations are aligned to the natural alignment of the element type
//
// # Metrics and Monitoring
//
//	m := r.Metrics()
//	fmt.Printf("Utilization: %.2f%%\n", m.Utilization*100)
//
// NewCollector exposes the same numbers to Prometheus.
package arena
