package ptr_test

import (
	"testing"

	"github.com/pavanmanishd/pulsar/arena"
	"github.com/pavanmanishd/pulsar/internal/testutil"
	"github.com/pavanmanishd/pulsar/ptr"
)

func TestWeakLock(t *testing.T) {
	tr := testutil.NewTracker()
	a := testutil.Allocator[widget](tr)

	s, _ := ptr.MakeSharedWith(a, widget{id: 1})
	w := s.Weak()
	if !w.Valid() || w.WeakCount() != 1 || s.WeakCount() != 1 {
		t.Fatalf("valid=%v weak=%d", w.Valid(), w.WeakCount())
	}

	p, ok := w.Lock()
	if !ok {
		t.Fatal("Lock failed on a live value")
	}
	if !p.Equal(s) || s.StrongCount() != 2 {
		t.Errorf("locked handle: equal=%v strong=%d", p.Equal(s), s.StrongCount())
	}
	p.Get().value = 99
	p.Release()
	if s.Get().value != 99 {
		t.Error("write through the locked handle was lost")
	}

	s.Release()
	w.Release()
	checkTracker(t, tr)
}

func TestWeakInvalidation(t *testing.T) {
	resetFinalized(t)
	tr := testutil.NewTracker()
	a := testutil.Allocator[widget](tr)

	s, _ := ptr.MakeSharedWith(a, widget{id: 1})
	w := ptr.NewWeak(s)
	w2 := w.Clone()

	s.Release()
	if finalized.Load() != 1 {
		t.Errorf("finalized = %d, want 1", finalized.Load())
	}
	if w.Valid() || w2.Valid() {
		t.Error("weak handle still valid after the last owner released")
	}
	if p, ok := w.Lock(); ok || p != nil {
		t.Error("Lock succeeded on an expired value")
	}
	if w.StrongCount() != 0 || w.WeakCount() != 2 {
		t.Errorf("strong/weak = %d/%d, want 0/2", w.StrongCount(), w.WeakCount())
	}
	if tr.Live() != 2 {
		t.Errorf("Live = %d, want storage and control block kept for observers", tr.Live())
	}

	w.Release()
	if tr.Live() != 2 {
		t.Error("control block freed while a weak handle remains")
	}
	w2.Release()
	checkTracker(t, tr)
}

func TestWeakAssignMoveSwap(t *testing.T) {
	tr := testutil.NewTracker()
	a := testutil.Allocator[widget](tr)

	x, _ := ptr.MakeSharedWith(a, widget{id: 1})
	y, _ := ptr.MakeSharedWith(a, widget{id: 2})
	wx, wy := x.Weak(), y.Weak()

	wx.Assign(wx)
	if x.WeakCount() != 1 {
		t.Errorf("self-assign changed the weak count to %d", x.WeakCount())
	}

	wx.Assign(wy)
	if x.WeakCount() != 0 || y.WeakCount() != 2 {
		t.Errorf("weak counts x/y = %d/%d, want 0/2", x.WeakCount(), y.WeakCount())
	}

	m := wx.Move()
	if wx.Valid() {
		t.Error("moved-from weak handle is still valid")
	}
	if _, ok := wx.Lock(); ok {
		t.Error("Lock on a moved-from weak handle succeeded")
	}
	wx.Release()

	wz := x.Weak()
	m.Swap(wz)
	if p, ok := m.Lock(); !ok || p.Get().id != 1 {
		t.Error("Swap did not exchange observed values")
	} else {
		p.Release()
	}

	for _, w := range []interface{ Release() }{m, wz, wy} {
		w.Release()
	}
	x.Release()
	y.Release()
	checkTracker(t, tr)
}

func TestWeakZeroValue(t *testing.T) {
	var w ptr.Weak[widget, testAllocator]
	if w.Valid() || w.StrongCount() != 0 || w.WeakCount() != 0 {
		t.Error("zero Weak is not empty")
	}
	if _, ok := w.Lock(); ok {
		t.Error("Lock on a zero Weak succeeded")
	}
	c := w.Clone()
	c.Release()
	w.Release()
}

// block fills a 64-byte slot so a reused slot overwrites every byte of
// whatever lived there.
type block struct {
	fill [64]byte
}

func TestWeakArenaSlotNotReused(t *testing.T) {
	a := arena.NewAllocator[block](1024, arena.WithDebug(true))
	defer a.Release()

	s, err := ptr.MakeSharedWith(a, block{})
	if err != nil {
		t.Fatal(err)
	}
	w := s.Weak()
	s.Release()
	if w.Valid() {
		t.Fatal("weak handle valid after the last owner released")
	}

	var ones block
	for i := range ones.fill {
		ones.fill[i] = 1
	}
	u, err := ptr.MakeUniqueWith(a, ones)
	if err != nil {
		t.Fatal(err)
	}
	if w.Valid() {
		t.Error("new allocation made the expired weak handle valid")
	}
	if p, ok := w.Lock(); ok {
		t.Errorf("Lock promoted a released value: Get() = %p", p.Get())
		p.Release()
	}

	u.Release()
	w.Release()
	if a.AllocationCount() != 0 || a.UsedSize() != 0 {
		t.Errorf("count/used = %d/%d, want 0/0", a.AllocationCount(), a.UsedSize())
	}
}
