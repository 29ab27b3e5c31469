package arena

// Capacity returns the size of the region in bytes, or 0 once released.
func (r *Region) Capacity() int {
	return len(r.buf)
}

// Used returns the position of the bump cursor in bytes.
// This includes padding inserted for alignment.
func (r *Region) Used() int {
	return r.used
}

// Available returns the number of bytes left before the region is full.
func (r *Region) Available() int {
	return len(r.buf) - r.used
}

// LiveAllocations returns the number of blocks allocated and not yet
// deallocated. It is always 0 unless the region was created WithDebug(true).
func (r *Region) LiveAllocations() int {
	return r.live
}

// Peak returns the highest cursor position observed. It survives Reset.
func (r *Region) Peak() int {
	return r.peak
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the region has no capacity.
func (r *Region) Utilization() float64 {
	capacity := r.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(r.used) / float64(capacity)
}

// Metrics returns a snapshot of region statistics.
func (r *Region) Metrics() RegionMetrics {
	return RegionMetrics{
		Capacity:        r.Capacity(),
		Used:            r.Used(),
		Available:       r.Available(),
		Peak:            r.peak,
		LiveAllocations: r.live,
		Allocations:     r.allocs,
		Deallocations:   r.frees,
		Failures:        r.failures,
		Utilization:     r.Utilization(),
		Debug:           r.debug,
	}
}

// RegionMetrics contains statistical information about a region.
type RegionMetrics struct {
	Capacity        int     `json:"capacity"`         // Total capacity in bytes
	Used            int     `json:"used"`             // Bump cursor position
	Available       int     `json:"available"`        // Bytes left
	Peak            int     `json:"peak"`             // Highest cursor position
	LiveAllocations int     `json:"live_allocations"` // Debug regions only
	Allocations     uint64  `json:"allocations"`      // Successful allocations
	Deallocations   uint64  `json:"deallocations"`    // Deallocate calls
	Failures        uint64  `json:"failures"`         // Out-of-memory failures
	Utilization     float64 `json:"utilization"`      // Ratio of used to capacity (0.0-1.0)
	Debug           bool    `json:"debug"`
}

// Thread-safe metrics for SafeRegion

// Capacity thread-safely returns the size of the region.
func (s *SafeRegion) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Capacity()
}

// Used thread-safely returns the bump cursor position.
func (s *SafeRegion) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Used()
}

// Available thread-safely returns the number of bytes left.
func (s *SafeRegion) Available() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Available()
}

// LiveAllocations thread-safely returns the number of live blocks.
func (s *SafeRegion) LiveAllocations() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.LiveAllocations()
}

// Utilization thread-safely returns the ratio of bytes in use to capacity.
func (s *SafeRegion) Utilization() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Utilization()
}

// Metrics thread-safely returns a snapshot of region statistics.
func (s *SafeRegion) Metrics() RegionMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.r.Metrics()
}
