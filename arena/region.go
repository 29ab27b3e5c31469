package arena

import (
	"fmt"
	"log/slog"
	"unsafe"

	"github.com/pavanmanishd/pulsar/alloc"
)

// DefaultRegionSize is the capacity used when NewRegion is given a size <= 0 (1 MiB).
const DefaultRegionSize = 1 << 20

// Region is a fixed-capacity bump allocator. It never grows: once the cursor
// reaches the end, allocations fail with alloc.ErrOutOfMemory until Reset.
// Not goroutine-safe. Use SafeRegion for concurrent access.
type Region struct {
	buf  []byte
	used int
	// slack is how many bytes below the cursor may be alignment padding left
	// by the last block rewound over.
	slack uintptr

	// Debug bookkeeping; live is only maintained when debug is set.
	debug bool
	live  int

	allocs   uint64
	frees    uint64
	failures uint64
	peak     int

	logger *slog.Logger
}

// Option configures a Region.
type Option func(*Region)

// WithDebug selects the instrumented region: live allocations are counted and
// Reset, Release and Deallocate panic with *alloc.InvariantViolation when the
// bookkeeping does not add up. Without it those checks are skipped.
func WithDebug(enabled bool) Option {
	return func(r *Region) {
		r.debug = enabled
	}
}

// WithLogger sets the logger used for lifecycle events and violations.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Region) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRegion creates a Region with the given capacity in bytes.
// If capacity <= 0, DefaultRegionSize is used.
func NewRegion(capacity int, opts ...Option) *Region {
	r := newRegion(capacity, opts...)
	return &r
}

func newRegion(capacity int, opts ...Option) Region {
	if capacity <= 0 {
		capacity = DefaultRegionSize
	}
	r := Region{
		buf:    make([]byte, capacity),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// Allocate reserves size bytes aligned to align and returns a pointer into the
// region. The cursor is only advanced on success.
func (r *Region) Allocate(size, align uintptr) (unsafe.Pointer, error) {
	r.panicIfReleased()
	if align == 0 {
		align = 1
	}

	base := unsafe.Pointer(unsafe.SliceData(r.buf))
	if size == 0 {
		// Zero-size blocks share the base address and leave the cursor alone.
		r.allocs++
		if r.debug {
			r.live++
		}
		return base, nil
	}

	off := alignUp(uintptr(base)+uintptr(r.used), align) - uintptr(base)
	if off+size > uintptr(len(r.buf)) || off+size < off {
		r.failures++
		return nil, fmt.Errorf("%w: requested %d bytes, %d of %d available",
			alloc.ErrOutOfMemory, size, r.Available(), len(r.buf))
	}

	p := unsafe.Pointer(&r.buf[off])
	r.used = int(off + size)
	r.slack = 0
	if r.used > r.peak {
		r.peak = r.used
	}
	r.allocs++
	if r.debug {
		r.live++
	}
	return p, nil
}

// Deallocate gives size bytes back to the cursor. Freeing the most recent
// live block rewinds the cursor to its start, and the padding in front of it
// is given back when the block below is freed, so blocks freed in reverse
// allocation order return the region to where it was. Freeing out of
// order only subtracts size and leaves the cursor pointing into blocks that
// are still in use. Prefer releasing everything and calling Reset.
func (r *Region) Deallocate(p unsafe.Pointer, size, align uintptr) {
	r.panicIfReleased()
	base := uintptr(unsafe.Pointer(unsafe.SliceData(r.buf)))
	addr := uintptr(p)
	if r.debug {
		switch {
		case r.live == 0:
			r.violate("deallocate", "no live allocations")
		case !r.contains(addr, size):
			r.violate("deallocate", "pointer %p does not belong to the region", p)
		case int(size) > r.used:
			r.violate("deallocate", "size %d exceeds %d bytes in use", size, r.used)
		}
		r.live--
	}
	top := base + uintptr(r.used)
	switch {
	case size == 0:
	case addr >= base && addr+size <= top && top-(addr+size) <= r.slack:
		r.used = int(addr - base)
		r.slack = 0
		if align > 1 {
			r.slack = align - 1
		}
	default:
		r.used -= int(size)
		if r.used < 0 {
			r.used = 0
		}
		r.slack = 0
	}
	r.frees++
}

// contains reports whether a block of size bytes at addr lies inside the
// buffer. A zero-size block may sit at the very end.
func (r *Region) contains(addr, size uintptr) bool {
	base := uintptr(unsafe.Pointer(unsafe.SliceData(r.buf)))
	end := base + uintptr(len(r.buf))
	if addr < base || addr > end {
		return false
	}
	if size == 0 {
		return true
	}
	return addr < end && size <= end-addr
}

// Reset makes the whole region available again. Every pointer handed out
// before becomes invalid.
func (r *Region) Reset() {
	r.panicIfReleased()
	if r.debug && r.live != 0 {
		r.violate("reset", "%d allocations still live", r.live)
	}
	r.used = 0
	r.slack = 0
	r.logger.Debug("arena: region reset", "capacity", len(r.buf))
}

// Release drops the backing buffer and makes the region unusable.
// Any subsequent allocation will panic. Releasing twice is a no-op.
func (r *Region) Release() {
	if r.buf == nil {
		return
	}
	if r.debug && r.live != 0 {
		r.violate("release", "%d allocations still live", r.live)
	}
	r.logger.Debug("arena: region released", "capacity", len(r.buf), "peak", r.peak)
	r.buf = nil
	r.used = 0
	r.slack = 0
}

// Finalize releases the region when its last owner drops it.
func (r *Region) Finalize() {
	r.Release()
}

// Released reports whether Release has been called.
func (r *Region) Released() bool {
	return r.buf == nil
}

// Debug reports whether the instrumented bookkeeping is enabled.
func (r *Region) Debug() bool {
	return r.debug
}

func (r *Region) violate(op, format string, args ...any) {
	v := alloc.Violation(op, format, args...)
	r.logger.Error("arena: invariant violation", "op", v.Op, "msg", v.Msg)
	panic(v)
}

// panicIfReleased panics if the region has been released.
func (r *Region) panicIfReleased() {
	if r.buf == nil {
		panic("arena: use after Release()")
	}
}

// alignUp rounds off up to the next multiple of align (a power of two).
func alignUp(off, align uintptr) uintptr {
	mask := align - 1
	return (off + mask) &^ mask
}
