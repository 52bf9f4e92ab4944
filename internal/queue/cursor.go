// Package queue holds the ordered item sequence and the position within it.
package queue

import "github.com/abelbrown/flick/internal/model"

// Cursor is an ordered, indexable item sequence with a current position.
// The index is always in [0, Len()]; Len() itself is the exhausted sentinel
// and never addresses an item.
type Cursor struct {
	items []model.Item
	index int
}

// New creates a cursor positioned at the first item.
func New(items []model.Item) *Cursor {
	c := &Cursor{}
	c.Reset(items)
	return c
}

// Reset replaces the backing sequence and rewinds to the start.
func (c *Cursor) Reset(items []model.Item) {
	c.items = append([]model.Item(nil), items...)
	c.index = 0
}

// Len returns the number of items.
func (c *Cursor) Len() int { return len(c.items) }

// Index returns the current position.
func (c *Cursor) Index() int { return c.index }

// Empty reports whether the sequence has no items.
func (c *Cursor) Empty() bool { return len(c.items) == 0 }

// Exhausted reports whether the cursor has moved past the last item.
// An empty cursor is empty, not exhausted.
func (c *Cursor) Exhausted() bool {
	return len(c.items) > 0 && c.index == len(c.items)
}

// Current returns the item at the current position.
func (c *Cursor) Current() (model.Item, bool) {
	if c.index >= len(c.items) {
		return model.Item{}, false
	}
	return c.items[c.index], true
}

// Items returns a copy of the backing sequence.
func (c *Cursor) Items() []model.Item {
	return append([]model.Item(nil), c.items...)
}

// Advance moves past the current item after a decision. It returns true
// only on the move that lands on the exhausted position; advancing an
// exhausted or empty cursor does nothing.
func (c *Cursor) Advance() (exhaustedNow bool) {
	if c.index >= len(c.items) {
		return false
	}
	c.index++
	return c.index == len(c.items)
}

// Retreat moves back one item. It is a silent no-op at the start.
func (c *Cursor) Retreat() bool {
	if c.index == 0 {
		return false
	}
	c.index--
	return true
}

// StepForward moves to the next item without a decision. It never moves onto
// the exhausted position.
func (c *Cursor) StepForward() bool {
	if c.index >= len(c.items)-1 {
		return false
	}
	c.index++
	return true
}
