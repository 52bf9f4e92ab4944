// Package work runs the fire-and-forget side effects of the swipe loop:
// engagement persistence, swipe and view recording, feed fetches.
//
// Submitters never wait for results. Every state change is logged via
// internal/logging since a failed background write has no other surface.
package work

import (
	"context"
	"fmt"
	"time"

	"github.com/abelbrown/flick/internal/logging"
)

// LogEvent logs a work event.
func LogEvent(event Event) {
	item := event.Item
	switch event.Change {
	case ChangeCreated:
		logging.Debug("Work created",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description)
	case ChangeStarted:
		logging.Debug("Work started",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description)
	case ChangeCompleted:
		logging.Info("Work completed",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description,
			"duration", item.Duration())
	case ChangeFailed:
		logging.Error("Work failed",
			"id", item.ID,
			"type", item.Type,
			"desc", item.Description,
			"error", item.Error,
			"duration", item.Duration())
	}
}

// Type categorizes work items.
type Type string

const (
	TypeFetch      Type = "fetch"      // Loading items for a preference set
	TypeEngagement Type = "engagement" // Approve/disapprove persistence
	TypeSwipe      Type = "swipe"      // Accept/reject tallies
	TypeView       Type = "view"       // View counters
	TypeOther      Type = "other"
)

// Priorities. Higher runs first.
const (
	PriorityLow    = -10
	PriorityNormal = 0
	PriorityHigh   = 10
)

// Status is the lifecycle state of a work item.
type Status string

const (
	StatusPending  Status = "pending"
	StatusActive   Status = "active"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

// Change names an event transition.
type Change string

const (
	ChangeCreated   Change = "created"
	ChangeStarted   Change = "started"
	ChangeCompleted Change = "completed"
	ChangeFailed    Change = "failed"
)

// Item is a unit of async work.
type Item struct {
	ID          string
	Type        Type
	Status      Status
	Description string
	Priority    int

	CreatedAt  time.Time
	StartedAt  time.Time
	FinishedAt time.Time

	Error error

	fn        func(ctx context.Context) error
	seq       int64
	heapIndex int
}

// Duration returns how long the work took, or has been running.
func (i *Item) Duration() time.Duration {
	if i.FinishedAt.IsZero() {
		if i.StartedAt.IsZero() {
			return 0
		}
		return time.Since(i.StartedAt)
	}
	return i.FinishedAt.Sub(i.StartedAt)
}

// Event is sent to subscribers when work state changes.
type Event struct {
	Item   *Item
	Change Change
}

// Stats tracks pool counters.
type Stats struct {
	TotalCreated   int64
	TotalCompleted int64
	TotalFailed    int64
	WorkersActive  int
	WorkersTotal   int
	PendingCount   int
}

func (s Stats) String() string {
	return fmt.Sprintf("Active: %d  Pending: %d  Done: %d  Failed: %d",
		s.WorkersActive, s.PendingCount, s.TotalCompleted, s.TotalFailed)
}
