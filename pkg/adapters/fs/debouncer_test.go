package fs

import (
	"sync/atomic"
	"testing"
	"time"
)

func TestDebouncer(t *testing.T) {
	t.Run("Coalesces Bursts Per Key", func(t *testing.T) {
		d := newDebouncer(20 * time.Millisecond)
		var a, b atomic.Int32

		for i := 0; i < 5; i++ {
			d.add("a", func() { a.Add(1) })
		}
		d.add("b", func() { b.Add(1) })

		time.Sleep(100 * time.Millisecond)
		if !d.stopAndWait(time.Second) {
			t.Fatal("debouncer did not drain")
		}

		if got := a.Load(); got != 1 {
			t.Errorf("expected 1 call for key a, got %d", got)
		}
		if got := b.Load(); got != 1 {
			t.Errorf("expected 1 call for key b, got %d", got)
		}
	})

	t.Run("Drops Pending Calls On Stop", func(t *testing.T) {
		d := newDebouncer(time.Hour)
		var calls atomic.Int32
		d.add("a", func() { calls.Add(1) })

		if !d.stopAndWait(time.Second) {
			t.Fatal("debouncer did not drain")
		}
		d.add("a", func() { calls.Add(1) })

		if got := calls.Load(); got != 0 {
			t.Errorf("expected no calls after stop, got %d", got)
		}
	})
}
