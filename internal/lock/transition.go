// Package lock provides the timed gate that keeps visual transitions from
// overlapping.
package lock

import (
	"time"

	"github.com/abelbrown/flick/internal/clock"
)

// Transition is a timed mutual-exclusion gate. Once acquired it holds for a
// fixed duration and then releases itself; there is no external release.
//
// Transition is not safe for concurrent use. Acquire, Held and the release
// callback are expected to run on one goroutine, which the scheduler must
// guarantee (clock.Manual in tests, the Bubble Tea tick scheduler in the UI).
type Transition struct {
	sched     clock.Scheduler
	timer     clock.Timer
	held      bool
	gen       uint64
	onRelease func()
}

// New creates an unheld lock that schedules its release on s.
func New(s clock.Scheduler) *Transition {
	return &Transition{sched: s}
}

// OnRelease registers fn to run each time a hold expires.
func (l *Transition) OnRelease(fn func()) {
	l.onRelease = fn
}

// Held reports whether a transition is in flight.
func (l *Transition) Held() bool {
	return l.held
}

// Acquire holds the lock for d. It is a no-op returning false if the lock
// is already held.
func (l *Transition) Acquire(d time.Duration) bool {
	if l.held {
		return false
	}
	l.held = true
	l.gen++
	gen := l.gen
	l.timer = l.sched.AfterFunc(d, func() { l.release(gen) })
	return true
}

// release ends the hold started by generation gen. Releases for an older
// generation are ignored so a stale timer can never end a newer hold.
func (l *Transition) release(gen uint64) {
	if !l.held || gen != l.gen {
		return
	}
	l.held = false
	l.timer = nil
	if l.onRelease != nil {
		l.onRelease()
	}
}

// Close stops a pending release and drops the hold without running the
// release callback. Only used when tearing a session down.
func (l *Transition) Close() {
	if l.timer != nil {
		l.timer.Stop()
		l.timer = nil
	}
	l.held = false
	l.gen++
}
