package lock

import (
	"testing"
	"time"

	"github.com/abelbrown/flick/internal/clock"
)

func TestAcquireHoldsForDuration(t *testing.T) {
	c := clock.NewManual()
	l := New(c)

	if l.Held() {
		t.Fatal("new lock should not be held")
	}
	if !l.Acquire(500 * time.Millisecond) {
		t.Fatal("Acquire on a free lock should succeed")
	}
	if !l.Held() {
		t.Error("lock should be held after Acquire")
	}

	c.Advance(499 * time.Millisecond)
	if !l.Held() {
		t.Error("lock should still be held before the duration elapses")
	}

	c.Advance(time.Millisecond)
	if l.Held() {
		t.Error("lock should auto-release once the duration elapses")
	}
}

func TestAcquireWhileHeldIsNoop(t *testing.T) {
	c := clock.NewManual()
	l := New(c)

	l.Acquire(500 * time.Millisecond)
	c.Advance(400 * time.Millisecond)

	if l.Acquire(time.Second) {
		t.Error("Acquire while held should fail")
	}
	if c.Pending() != 1 {
		t.Errorf("failed Acquire must not schedule another release, pending = %d", c.Pending())
	}

	// The first hold is not extended.
	c.Advance(100 * time.Millisecond)
	if l.Held() {
		t.Error("lock should release at the first deadline")
	}
}

func TestExactlyOneReleasePerAcquire(t *testing.T) {
	c := clock.NewManual()
	l := New(c)
	releases := 0
	l.OnRelease(func() { releases++ })

	for i := 0; i < 3; i++ {
		if !l.Acquire(100 * time.Millisecond) {
			t.Fatalf("acquire %d failed", i)
		}
		l.Acquire(100 * time.Millisecond)
		c.Advance(time.Second)
	}

	if releases != 3 {
		t.Errorf("expected 3 releases, got %d", releases)
	}
}

func TestReleaseHookCanReacquire(t *testing.T) {
	c := clock.NewManual()
	l := New(c)
	reacquired := false
	l.OnRelease(func() {
		if !reacquired {
			reacquired = l.Acquire(50 * time.Millisecond)
		}
	})

	l.Acquire(50 * time.Millisecond)
	c.Advance(50 * time.Millisecond)
	if !reacquired || !l.Held() {
		t.Fatal("release hook should be able to acquire again")
	}
	c.Advance(50 * time.Millisecond)
	if l.Held() {
		t.Error("second hold should release too")
	}
}

func TestCloseDropsHoldSilently(t *testing.T) {
	c := clock.NewManual()
	l := New(c)
	released := false
	l.OnRelease(func() { released = true })

	l.Acquire(time.Second)
	l.Close()

	if l.Held() {
		t.Error("Close should drop the hold")
	}
	if c.Pending() != 0 {
		t.Errorf("Close should stop the pending timer, pending = %d", c.Pending())
	}
	c.Advance(2 * time.Second)
	if released {
		t.Error("release hook must not run after Close")
	}
}
