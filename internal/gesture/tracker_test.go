package gesture

import (
	"math"
	"testing"
)

func TestBeginRejectsSecondGesture(t *testing.T) {
	var tr Tracker
	if !tr.Begin(Point{X: 10, Y: 10}) {
		t.Fatal("first Begin should start a gesture")
	}
	if tr.Begin(Point{X: 50, Y: 50}) {
		t.Error("second Begin should be refused while a gesture is active")
	}

	v, _ := tr.Vector()
	if v.Origin != (Point{X: 10, Y: 10}) {
		t.Errorf("origin should not move, got %+v", v.Origin)
	}
}

func TestUpdateWithoutGesture(t *testing.T) {
	var tr Tracker
	if _, ok := tr.Update(Point{X: 100}); ok {
		t.Error("Update without a gesture should be ignored")
	}
	if _, ok := tr.End(Point{X: 100}); ok {
		t.Error("End without a gesture should be ignored")
	}
}

func TestVerticalDragProducesNoFeedback(t *testing.T) {
	var tr Tracker
	tr.Begin(Point{})

	if _, ok := tr.Update(Point{X: 20, Y: 40}); ok {
		t.Error("vertical-dominant drag should not emit feedback")
	}
	// Equal magnitude counts as non-horizontal.
	if _, ok := tr.Update(Point{X: 30, Y: 30}); ok {
		t.Error("|dx| == |dy| should not emit feedback")
	}

	// Still tracked: a later horizontal move is detected.
	fb, ok := tr.Update(Point{X: 90, Y: 30})
	if !ok {
		t.Fatal("horizontal-dominant drag should emit feedback")
	}
	if fb.Offset != 90 {
		t.Errorf("offset = %v, want 90", fb.Offset)
	}
}

func TestFeedbackOpacity(t *testing.T) {
	tests := []struct {
		dx   float64
		want float64
	}{
		{0, 1},
		{50, 0.75},
		{-100, 0.5},
		{140, 0.3},
		{500, 0.3},
		{-1000, 0.3},
	}

	for _, tt := range tests {
		fb := FeedbackFor(tt.dx)
		if math.Abs(fb.Opacity-tt.want) > 1e-9 {
			t.Errorf("FeedbackFor(%v).Opacity = %v, want %v", tt.dx, fb.Opacity, tt.want)
		}
		if math.Abs(fb.Rotation-tt.dx*0.1) > 1e-9 {
			t.Errorf("FeedbackFor(%v).Rotation = %v", tt.dx, fb.Rotation)
		}
	}
}

func TestEndReportsFinalDeltaAndDiscards(t *testing.T) {
	var tr Tracker
	tr.Begin(Point{X: 100, Y: 100})
	tr.Update(Point{X: 160, Y: 105})

	v, ok := tr.End(Point{X: 250, Y: 110})
	if !ok {
		t.Fatal("End should report the gesture")
	}
	if d := v.Delta(); d.X != 150 || d.Y != 10 {
		t.Errorf("delta = %+v, want {150 10}", d)
	}
	if !v.Horizontal {
		t.Error("final vector should be horizontal")
	}
	if tr.Active() {
		t.Error("gesture should be discarded after End")
	}
}

func TestEndWithoutMovementHasZeroDelta(t *testing.T) {
	var tr Tracker
	tr.Begin(Point{X: 300, Y: 40})
	v, _ := tr.End(Point{X: 300, Y: 40})
	if d := v.Delta(); d.X != 0 || d.Y != 0 {
		t.Errorf("expected zero delta, got %+v", d)
	}
}

func TestCancel(t *testing.T) {
	var tr Tracker
	tr.Begin(Point{})
	tr.Update(Point{X: 120})
	tr.Cancel()

	if tr.Active() {
		t.Error("Cancel should discard the gesture")
	}
	if !tr.Begin(Point{X: 5}) {
		t.Error("a new gesture should be accepted after Cancel")
	}
}
