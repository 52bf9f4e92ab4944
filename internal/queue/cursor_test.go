package queue

import (
	"fmt"
	"testing"

	"github.com/abelbrown/flick/internal/model"
)

func makeItems(n int) []model.Item {
	items := make([]model.Item, n)
	for i := range items {
		items[i] = model.Item{ID: fmt.Sprintf("item-%d", i+1), Topic: "science"}
	}
	return items
}

func TestAdvanceReportsExhaustionOnce(t *testing.T) {
	c := New(makeItems(3))

	for i := 1; i <= 2; i++ {
		if c.Advance() {
			t.Fatalf("advance %d should not exhaust", i)
		}
	}
	if !c.Advance() {
		t.Fatal("third advance should report exhaustion")
	}
	if c.Index() != 3 || !c.Exhausted() {
		t.Errorf("expected exhausted at 3, got index %d", c.Index())
	}

	// Further advances stay put and do not report again.
	for i := 0; i < 3; i++ {
		if c.Advance() {
			t.Error("exhaustion must be reported only once")
		}
	}
	if c.Index() != 3 {
		t.Errorf("index must never exceed length, got %d", c.Index())
	}
	if _, ok := c.Current(); ok {
		t.Error("exhausted cursor should not yield an item")
	}
}

func TestExhaustionReportedAgainAfterRetreat(t *testing.T) {
	c := New(makeItems(2))
	c.Advance()
	c.Advance()

	if !c.Retreat() {
		t.Fatal("retreat from exhausted should move back to the last item")
	}
	if item, _ := c.Current(); item.ID != "item-2" {
		t.Errorf("expected item-2, got %q", item.ID)
	}
	if !c.Advance() {
		t.Error("advancing into exhaustion again is a new transition")
	}
}

func TestRetreatAtStartIsNoop(t *testing.T) {
	c := New(makeItems(3))
	if c.Retreat() {
		t.Error("retreat at 0 should fail silently")
	}
	if c.Index() != 0 {
		t.Errorf("index changed to %d", c.Index())
	}
}

func TestStepForward(t *testing.T) {
	c := New(makeItems(3))

	if !c.StepForward() || !c.StepForward() {
		t.Fatal("step forward should move through the items")
	}
	if c.Index() != 2 {
		t.Fatalf("expected index 2, got %d", c.Index())
	}
	if c.StepForward() {
		t.Error("step forward at the last item should be a no-op")
	}
	if c.Exhausted() {
		t.Error("step forward must never exhaust the cursor")
	}
}

func TestEmptyCursor(t *testing.T) {
	c := New(nil)

	if !c.Empty() {
		t.Error("expected empty cursor")
	}
	if c.Exhausted() {
		t.Error("empty cursor is not exhausted")
	}
	if c.Advance() || c.Retreat() || c.StepForward() {
		t.Error("no movement is possible on an empty cursor")
	}
	if c.Index() != 0 {
		t.Errorf("index = %d", c.Index())
	}
}

func TestResetCopiesItems(t *testing.T) {
	items := makeItems(2)
	c := New(items)
	c.Advance()

	items[0].ID = "mutated"
	c.Reset(items)
	if c.Index() != 0 {
		t.Errorf("reset should rewind, index = %d", c.Index())
	}

	items[0].ID = "changed-after-reset"
	if got, _ := c.Current(); got.ID != "mutated" {
		t.Errorf("cursor should own its copy, got %q", got.ID)
	}
}

func TestIndexBoundsUnderRandomWalk(t *testing.T) {
	c := New(makeItems(4))
	ops := []func() bool{c.Advance, c.Retreat, c.StepForward}

	for i := 0; i < 200; i++ {
		ops[(i*7+i/3)%len(ops)]()
		if c.Index() < 0 || c.Index() > c.Len() {
			t.Fatalf("step %d: index %d out of [0, %d]", i, c.Index(), c.Len())
		}
	}
}
