package arena

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/pavanmanishd/pulsar/alloc"
	"github.com/pavanmanishd/pulsar/ptr"
)

type benchEntity struct {
	ID   int64
	Data [56]byte
}

// BenchmarkRealisticUsage compares frame-style arena use with the heap.
func BenchmarkRealisticUsage(b *testing.B) {
	b.Run("StructAllocs/Region", func(b *testing.B) {
		r := NewRegion(64 << 10)
		for i := 0; i < b.N; i++ {
			for j := 0; j < 50; j++ {
				s, _ := Alloc[benchEntity](r)
				s.ID = int64(j)
			}
			r.Reset()
		}
	})

	b.Run("StructAllocs/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			structs := make([]*benchEntity, 50)
			for j := 0; j < 50; j++ {
				structs[j] = &benchEntity{ID: int64(j)}
			}
			if i%10 == 0 {
				runtime.GC()
			}
		}
	})

	b.Run("BufferReuse/Region", func(b *testing.B) {
		r := NewRegion(1 << 20)
		for i := 0; i < b.N; i++ {
			for j := 0; j < 10; j++ {
				buf1, _ := AllocSlice[byte](r, 1024)
				buf2, _ := AllocSlice[byte](r, 2048)
				buf1[0] = byte(j)
				buf2[0] = byte(j)
			}
			r.Reset()
		}
	})

	b.Run("BufferReuse/Builtin", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			buffers := make([][]byte, 20)
			for j := 0; j < 10; j++ {
				buffers[j*2] = make([]byte, 1024)
				buffers[j*2+1] = make([]byte, 2048)
				buffers[j*2][0] = byte(j)
				buffers[j*2+1][0] = byte(j)
			}
			if i%5 == 0 {
				runtime.GC()
			}
		}
	})
}

// BenchmarkSharedHandles compares shared handles backed by an arena and by
// the heap.
func BenchmarkSharedHandles(b *testing.B) {
	b.Run("Arena", func(b *testing.B) {
		a := NewAllocator[benchEntity](1 << 20)
		defer a.Release()
		handles := make([]*ptr.Shared[benchEntity, ArenaAllocator[benchEntity]], 0, 100)
		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				s, err := ptr.MakeSharedWith(a, benchEntity{ID: int64(j)})
				if err != nil {
					b.Fatal(err)
				}
				handles = append(handles, s)
			}
			for _, s := range handles {
				s.Release()
			}
			handles = handles[:0]
			a.Reset()
		}
	})

	b.Run("Heap", func(b *testing.B) {
		handles := make([]*ptr.Shared[benchEntity, alloc.Heap[benchEntity]], 0, 100)
		for i := 0; i < b.N; i++ {
			for j := 0; j < 100; j++ {
				handles = append(handles, ptr.MakeShared(benchEntity{ID: int64(j)}))
			}
			for _, s := range handles {
				s.Release()
			}
			handles = handles[:0]
		}
	})
}

func BenchmarkSizedAllocations(b *testing.B) {
	for _, size := range []uintptr{8, 64, 512, 4096} {
		b.Run(fmt.Sprintf("Region_%dB", size), func(b *testing.B) {
			r := NewRegion(1 << 20)
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				if _, err := r.Allocate(size, 8); err != nil {
					r.Reset()
				}
			}
		})

		b.Run(fmt.Sprintf("Builtin_%dB", size), func(b *testing.B) {
			b.SetBytes(int64(size))
			for i := 0; i < b.N; i++ {
				_ = make([]byte, size)
			}
		})
	}
}

func BenchmarkPerGoroutineRegions(b *testing.B) {
	b.RunParallel(func(pb *testing.PB) {
		r := NewRegion(64 << 10)
		for pb.Next() {
			if _, err := Alloc[benchEntity](r); err != nil {
				r.Reset()
			}
		}
	})
}
