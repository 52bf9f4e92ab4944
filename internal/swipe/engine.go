// Package swipe is the interaction state machine: it turns drag gestures and
// discrete commands into accept/reject decisions, advances the queue, and
// gates everything behind the transition lock.
//
// States:
//
//	Idle ──PointerDown──▶ Dragging ──PointerUp──▶ Committing ─▶ Locked ─(timer)─▶ Idle
//	                          └────────(sub-threshold)──▶ Resetting ─▶ Idle
//
// Locked suppresses entry into Dragging from every state. The engine is not
// safe for concurrent use; all calls must come from one goroutine, and the
// scheduler passed to New must fire its callbacks on that same goroutine.
package swipe

import (
	"math"
	"time"

	"github.com/abelbrown/flick/internal/clock"
	"github.com/abelbrown/flick/internal/engagement"
	"github.com/abelbrown/flick/internal/gesture"
	"github.com/abelbrown/flick/internal/lock"
	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/queue"
)

const (
	// DefaultCommitThreshold is the horizontal travel a drag must exceed to
	// commit, in the same units as the pointer points.
	DefaultCommitThreshold = 100.0

	// DefaultTransition is how long the card takes to leave the screen.
	DefaultTransition = 500 * time.Millisecond
)

// Presenter receives the engine's presentation callbacks.
type Presenter interface {
	ItemDisplayed(item model.Item, state engagement.Record)
	QueueExhausted()
	QueueEmpty()
	CountersChanged(accepted, rejected int)
}

// EngagementReader looks up the engagement state shown with an item.
type EngagementReader interface {
	Get(itemID string) engagement.Record
}

// Engine owns the interaction state, the queue cursor and the transition lock.
type Engine struct {
	tracker    gesture.Tracker
	cursor     *queue.Cursor
	lock       *lock.Transition
	presenter  Presenter
	engagement EngagementReader

	threshold  float64
	transition time.Duration
	counters   Counters

	onCommit  func(Decision)
	onRelease func()
}

// Option configures an Engine.
type Option func(*Engine)

// WithThreshold overrides the commit threshold.
func WithThreshold(t float64) Option {
	return func(e *Engine) {
		if t > 0 {
			e.threshold = t
		}
	}
}

// WithTransition overrides the visual transition duration.
func WithTransition(d time.Duration) Option {
	return func(e *Engine) {
		if d > 0 {
			e.transition = d
		}
	}
}

// WithCommitHook runs fn after every committed decision.
func WithCommitHook(fn func(Decision)) Option {
	return func(e *Engine) {
		e.onCommit = fn
	}
}

// WithReleaseHook runs fn when a transition finishes and input is accepted again.
func WithReleaseHook(fn func()) Option {
	return func(e *Engine) {
		e.onRelease = fn
	}
}

// New creates an engine with an empty queue. Timers are scheduled on sched.
func New(sched clock.Scheduler, p Presenter, er EngagementReader, opts ...Option) *Engine {
	e := &Engine{
		cursor:     queue.New(nil),
		lock:       lock.New(sched),
		presenter:  p,
		engagement: er,
		threshold:  DefaultCommitThreshold,
		transition: DefaultTransition,
		counters:   newCounters(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.lock.OnRelease(func() {
		if e.onRelease != nil {
			e.onRelease()
		}
	})
	return e
}

// State returns the current interaction state.
func (e *Engine) State() State {
	switch {
	case e.lock.Held():
		return Locked
	case e.tracker.Active():
		return Dragging
	default:
		return Idle
	}
}

// Counters returns a snapshot of the session counters.
func (e *Engine) Counters() Counters {
	return e.counters.clone()
}

// Index returns the queue position.
func (e *Engine) Index() int { return e.cursor.Index() }

// Len returns the queue length.
func (e *Engine) Len() int { return e.cursor.Len() }

// Exhausted reports whether every item has been decided.
func (e *Engine) Exhausted() bool { return e.cursor.Exhausted() }

// Current returns the item on screen.
func (e *Engine) Current() (model.Item, bool) { return e.cursor.Current() }

// Load replaces the queue and shows its first item, or reports an empty
// queue. Counters survive reloads.
func (e *Engine) Load(items []model.Item) {
	e.tracker.Cancel()
	e.cursor.Reset(items)
	if e.cursor.Empty() {
		e.presenter.QueueEmpty()
		return
	}
	e.display()
}

// PointerDown starts a drag. It is refused while a transition is in flight
// or another drag is active.
func (e *Engine) PointerDown(p gesture.Point) bool {
	if e.lock.Held() {
		return false
	}
	return e.tracker.Begin(p)
}

// PointerMove feeds a drag position and returns visual feedback when the
// drag is horizontal.
func (e *Engine) PointerMove(p gesture.Point) (gesture.Feedback, bool) {
	if e.lock.Held() {
		return gesture.Feedback{}, false
	}
	return e.tracker.Update(p)
}

// PointerUp finishes a drag and decides: commit past the threshold,
// reset otherwise.
func (e *Engine) PointerUp(p gesture.Point) Decision {
	if e.lock.Held() {
		return Decision{Outcome: Ignored}
	}
	v, ok := e.tracker.End(p)
	if !ok {
		return Decision{Outcome: Ignored}
	}

	dx := v.Delta().X
	if math.Abs(dx) > e.threshold {
		action := Reject
		if dx > 0 {
			action = Accept
		}
		return e.commit(action)
	}

	item, _ := e.cursor.Current()
	return Decision{Outcome: Reset, Item: item}
}

// PointerLeave is treated exactly like PointerUp at the exit point.
func (e *Engine) PointerLeave(p gesture.Point) Decision {
	return e.PointerUp(p)
}

// Command is a discrete accept/reject request that bypasses the gesture.
func (e *Engine) Command(action Action) Decision {
	if e.lock.Held() {
		return Decision{Outcome: Ignored}
	}
	return e.commit(action)
}

// Back shows the previous item. Pure navigation; no counters change.
func (e *Engine) Back() bool {
	if e.lock.Held() || !e.cursor.Retreat() {
		return false
	}
	e.tracker.Cancel()
	e.display()
	return true
}

// Forward shows the next item without deciding the current one.
func (e *Engine) Forward() bool {
	if e.lock.Held() || !e.cursor.StepForward() {
		return false
	}
	e.tracker.Cancel()
	e.display()
	return true
}

// Close stops any pending transition timer.
func (e *Engine) Close() {
	e.lock.Close()
}

func (e *Engine) commit(action Action) Decision {
	item, ok := e.cursor.Current()
	if !ok {
		return Decision{Outcome: Ignored}
	}
	// The card is leaving; any drag on it is over.
	e.tracker.Cancel()

	e.counters.add(action, item.Topic)
	e.presenter.CountersChanged(e.counters.Accepted, e.counters.Rejected)

	if e.cursor.Advance() {
		e.presenter.QueueExhausted()
	} else {
		e.display()
	}

	e.lock.Acquire(e.transition)

	d := Decision{Outcome: Committed, Action: action, Item: item}
	if e.onCommit != nil {
		e.onCommit(d)
	}
	return d
}

func (e *Engine) display() {
	item, ok := e.cursor.Current()
	if !ok {
		return
	}
	var rec engagement.Record
	if e.engagement != nil {
		rec = e.engagement.Get(item.Key())
	}
	e.presenter.ItemDisplayed(item, rec)
}
