package data

import (
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestNewAndClone(t *testing.T) {
	d := New(42)
	c := d.Clone()

	if got := d.GetRead().Value(); got != 42 {
		t.Errorf("d.GetRead().Value() = %d, want 42", got)
	}
	if got := c.GetRead().Value(); got != 42 {
		t.Errorf("c.GetRead().Value() = %d, want 42", got)
	}
	if c.shared != d.shared {
		t.Errorf("clone does not share the underlying record")
	}
	if diff := cmp.Diff(localView{}, c.local, cmp.AllowUnexported(localView{})); diff != "" {
		t.Errorf("clone local view not zeroed (-want +got):\n%s", diff)
	}
}

// TestDirtyFastPath checks that a read with no intervening declared write
// never touches the shared lock and is immediately ready.
func TestDirtyFastPath(t *testing.T) {
	d := New(0)
	if d.local.dirty {
		t.Fatalf("fresh Data should not be dirty")
	}
	h := d.GetRead()
	if h.Value() != 0 {
		t.Errorf("Value() = %d, want 0", h.Value())
	}
	h.Release()
	if d.local.dirty {
		t.Errorf("dirty should be false after a read release with no write")
	}
}

// TestWriteThenReadSameWorker exercises declare/get/release for a single
// holder performing a write followed by a read of its own write.
func TestWriteThenReadSameWorker(t *testing.T) {
	d := New(0)

	w := d.GetWrite(1)
	*w.Value() = 7
	w.Release()

	if d.shared.lastExecuted != 1 {
		t.Fatalf("shared.lastExecuted = %d, want 1", d.shared.lastExecuted)
	}
	if d.shared.lastExecuted > d.local.lastRegisteredWrite {
		t.Fatalf("shared view ahead of local view: shared %d > local %d", d.shared.lastExecuted, d.local.lastRegisteredWrite)
	}

	r := d.GetRead()
	if got := r.Value(); got != 7 {
		t.Errorf("Value() = %d, want 7", got)
	}
	r.Release()
}

// TestReadAfterWriteAcrossWorkers has task 1 as a write owned by worker W
// and task 2 as a read owned by worker R. R must declare the write it does
// not own before it may read, and must observe the value W published.
func TestReadAfterWriteAcrossWorkers(t *testing.T) {
	base := New(0)
	w := base.Clone() // owns task 1 (write)
	r := base.Clone() // owns task 2 (read); must DeclareWrite(1) first

	var wg sync.WaitGroup
	observed := make(chan int, 1)

	wg.Add(1)
	go func() {
		defer wg.Done()
		r.DeclareWrite(1) // task 1 belongs to someone else
		rh := r.GetRead() // task 2, owned here
		observed <- rh.Value()
		rh.Release()
	}()

	time.Sleep(10 * time.Millisecond) // give the reader a chance to block
	wh := w.GetWrite(1)
	*wh.Value() = 99
	wh.Release()

	wg.Wait()
	select {
	case v := <-observed:
		if v != 99 {
			t.Errorf("reader observed %d, want 99", v)
		}
	default:
		t.Fatal("reader goroutine did not report a value")
	}
}

// TestWriteAfterReadAcrossWorkers has task 1 as a read owned by worker R
// and task 2 as a write owned by worker W. W must declare the read it does
// not own before its write may proceed, and the write must not start until
// the read's side effects (here, just its completion) are visible.
func TestWriteAfterReadAcrossWorkers(t *testing.T) {
	base := New(5)
	r := base.Clone() // owns task 1 (read)
	w := base.Clone() // owns task 2 (write); must DeclareRead() first

	var mu sync.Mutex
	var order []string
	record := func(s string) {
		mu.Lock()
		order = append(order, s)
		mu.Unlock()
	}

	writeDone := make(chan struct{})
	go func() {
		w.DeclareRead() // task 1 belongs to someone else
		wh := w.GetWrite(2)
		record("write")
		wh.Release()
		close(writeDone)
	}()

	time.Sleep(10 * time.Millisecond) // give the writer a chance to block
	rh := r.GetRead()
	record("read")
	rh.Release()

	<-writeDone
	if diff := cmp.Diff([]string{"read", "write"}, order); diff != "" {
		t.Errorf("write-after-read ordering violated (-want +got):\n%s", diff)
	}
}

func TestCloneIndependentLocalViews(t *testing.T) {
	a := New("x")
	b := a.Clone()

	a.DeclareWrite(3)
	if b.local.lastRegisteredWrite != 0 {
		t.Errorf("b's local view should be unaffected by a.DeclareWrite, got %d", b.local.lastRegisteredWrite)
	}
}
