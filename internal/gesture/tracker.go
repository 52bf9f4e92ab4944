// Package gesture turns a stream of pointer positions into a drag vector.
//
// Touch and cursor input are not distinguished: callers feed normalized
// points through Begin, Update and End, and the tracker owns the drag state
// for exactly one gesture at a time.
package gesture

import "math"

const (
	// FadeDistance is the horizontal travel at which opacity would reach zero.
	FadeDistance = 200.0
	// MinOpacity keeps a dragged card from disappearing entirely.
	MinOpacity = 0.3
	// RotationFactor converts horizontal travel into degrees of tilt.
	RotationFactor = 0.1
)

// Point is a position on the interactive surface.
type Point struct {
	X, Y float64
}

// Sub returns p - q.
func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Vector is the drag state of one gesture.
type Vector struct {
	Origin     Point
	Current    Point
	Horizontal bool // |dx| > |dy| at the last update
}

// Delta returns Current - Origin.
func (v Vector) Delta() Point {
	return v.Current.Sub(v.Origin)
}

// Feedback is the continuous visual signal emitted while a drag is
// horizontally dominant.
type Feedback struct {
	Offset   float64 // horizontal travel
	Rotation float64 // degrees
	Opacity  float64 // in [MinOpacity, 1]
}

// FeedbackFor computes the feedback for a horizontal travel of dx.
func FeedbackFor(dx float64) Feedback {
	return Feedback{
		Offset:   dx,
		Rotation: dx * RotationFactor,
		Opacity:  math.Max(MinOpacity, 1-math.Abs(dx)/FadeDistance),
	}
}

// Tracker accumulates a single gesture. The zero value is ready to use.
type Tracker struct {
	vec    Vector
	active bool
}

// Active reports whether a gesture is in progress.
func (t *Tracker) Active() bool {
	return t.active
}

// Vector returns the current drag state and whether a gesture is active.
func (t *Tracker) Vector() (Vector, bool) {
	return t.vec, t.active
}

// Begin starts a gesture at p. It returns false if one is already active.
func (t *Tracker) Begin(p Point) bool {
	if t.active {
		return false
	}
	t.vec = Vector{Origin: p, Current: p}
	t.active = true
	return true
}

// Update records p as the current position. Feedback is only produced while
// the drag is horizontally dominant; ok is false otherwise or when no
// gesture is active.
func (t *Tracker) Update(p Point) (fb Feedback, ok bool) {
	if !t.active {
		return Feedback{}, false
	}
	t.vec.Current = p
	d := t.vec.Delta()
	t.vec.Horizontal = math.Abs(d.X) > math.Abs(d.Y)
	if !t.vec.Horizontal {
		return Feedback{}, false
	}
	return FeedbackFor(d.X), true
}

// End applies p as the final position, reports the finished vector and
// discards the gesture. ok is false when no gesture was active.
func (t *Tracker) End(p Point) (Vector, bool) {
	if !t.active {
		return Vector{}, false
	}
	t.Update(p)
	v := t.vec
	t.Cancel()
	return v, true
}

// Cancel discards any active gesture without reporting it.
func (t *Tracker) Cancel() {
	t.vec = Vector{}
	t.active = false
}
