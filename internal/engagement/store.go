// Package engagement tracks the per-item approve/disapprove toggles.
//
// Local state is authoritative for the session: every toggle is applied
// immediately and a persistence call is dispatched without waiting for it.
// A failed call is logged and never rolls the toggle back.
package engagement

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/abelbrown/flick/internal/logging"
)

// Action is one of the two engagement flags.
type Action string

const (
	Approve    Action = "approve"
	Disapprove Action = "disapprove"
)

// Opposite returns the mutually exclusive counterpart of a.
func (a Action) Opposite() Action {
	if a == Approve {
		return Disapprove
	}
	return Approve
}

// ParseAction accepts the canonical names plus the like/dislike aliases
// older clients send.
func ParseAction(s string) (Action, error) {
	switch s {
	case "approve", "like":
		return Approve, nil
	case "disapprove", "dislike":
		return Disapprove, nil
	}
	return "", fmt.Errorf("unknown engagement action %q", s)
}

// Record is the engagement state of one item. Approved and Disapproved are
// never both true.
type Record struct {
	Approved    bool
	Disapproved bool
}

// Has reports the flag for a.
func (r Record) Has(a Action) bool {
	if a == Approve {
		return r.Approved
	}
	return r.Disapproved
}

func (r *Record) set(a Action, v bool) {
	if a == Approve {
		r.Approved = v
	} else {
		r.Disapproved = v
	}
}

// Persister stores a single toggle outcome.
type Persister interface {
	PersistEngagement(ctx context.Context, itemID string, action Action, active bool) error
}

// Dispatcher runs fn asynchronously. The result is never awaited.
type Dispatcher interface {
	Dispatch(desc string, fn func(ctx context.Context) error)
}

// Store maps item IDs to engagement records.
//
// Toggle and Get must be called from one goroutine (the UI loop); Pending
// may be read from anywhere.
type Store struct {
	records   map[string]*Record
	persist   Persister
	dispatch  Dispatcher
	pending   atomic.Int64
	onFailure func(itemID string, action Action, err error)
}

// Option configures a Store.
type Option func(*Store)

// WithFailureHook is called (from the dispatcher's goroutine) whenever a
// persistence call fails.
func WithFailureHook(fn func(itemID string, action Action, err error)) Option {
	return func(s *Store) {
		s.onFailure = fn
	}
}

// NewStore creates an empty store. A nil persister keeps state local only.
func NewStore(p Persister, d Dispatcher, opts ...Option) *Store {
	s := &Store{
		records:  make(map[string]*Record),
		persist:  p,
		dispatch: d,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the record for itemID, or the zero record if the item was
// never toggled.
func (s *Store) Get(itemID string) Record {
	if r, ok := s.records[itemID]; ok {
		return *r
	}
	return Record{}
}

// Toggle flips action for itemID and returns the new record. Setting a flag
// clears its opposite; toggling a set flag retracts it.
func (s *Store) Toggle(itemID string, action Action) Record {
	r, ok := s.records[itemID]
	if !ok {
		r = &Record{}
		s.records[itemID] = r
	}

	value := !r.Has(action)
	if value {
		r.set(action.Opposite(), false)
	}
	r.set(action, value)

	s.schedule(itemID, action, value)
	return *r
}

// Pending returns how many persistence calls have been dispatched but have
// not finished.
func (s *Store) Pending() int {
	return int(s.pending.Load())
}

func (s *Store) schedule(itemID string, action Action, value bool) {
	if s.persist == nil || s.dispatch == nil {
		return
	}

	s.pending.Add(1)
	desc := fmt.Sprintf("engagement %s %s=%t", itemID, action, value)
	s.dispatch.Dispatch(desc, func(ctx context.Context) error {
		defer s.pending.Add(-1)

		err := s.persist.PersistEngagement(ctx, itemID, action, value)
		if err != nil {
			logging.Warn("Engagement persist failed, keeping local state",
				"item", itemID,
				"action", action,
				"value", value,
				"error", err)
			if s.onFailure != nil {
				s.onFailure(itemID, action, err)
			}
		}
		return err
	})
}
