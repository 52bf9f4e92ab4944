package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	ItemID string
	Action Action
	Active bool
}

type recordingPersister struct {
	mu    sync.Mutex
	calls []call
	err   error
}

func (p *recordingPersister) PersistEngagement(_ context.Context, itemID string, action Action, active bool) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.calls = append(p.calls, call{itemID, action, active})
	return p.err
}

// inlineDispatcher runs work synchronously.
type inlineDispatcher struct{}

func (inlineDispatcher) Dispatch(_ string, fn func(ctx context.Context) error) {
	_ = fn(context.Background())
}

// stalledDispatcher accepts work and never runs it, like a transport that
// never completes.
type stalledDispatcher struct {
	queued []func(ctx context.Context) error
}

func (d *stalledDispatcher) Dispatch(_ string, fn func(ctx context.Context) error) {
	d.queued = append(d.queued, fn)
}

func TestToggleApproveThenDisapprove(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(p, inlineDispatcher{})

	r := s.Toggle("a", Approve)
	assert.Equal(t, Record{Approved: true}, r)

	r = s.Toggle("a", Disapprove)
	assert.Equal(t, Record{Approved: false, Disapproved: true}, r)
	assert.Equal(t, r, s.Get("a"))

	assert.Equal(t, []call{
		{"a", Approve, true},
		{"a", Disapprove, true},
	}, p.calls, "each toggle dispatches exactly one call with the new value")
}

func TestDoubleToggleRestoresOriginal(t *testing.T) {
	for _, action := range []Action{Approve, Disapprove} {
		s := NewStore(nil, nil)
		before := s.Get("x")
		s.Toggle("x", action)
		after := s.Toggle("x", action)
		assert.Equal(t, before, after, "double %s should retract", action)
	}
}

func TestRetractionPersistsFalse(t *testing.T) {
	p := &recordingPersister{}
	s := NewStore(p, inlineDispatcher{})

	s.Toggle("a", Disapprove)
	s.Toggle("a", Disapprove)

	require.Len(t, p.calls, 2)
	assert.Equal(t, call{"a", Disapprove, false}, p.calls[1])
}

func TestMutualExclusionInvariant(t *testing.T) {
	s := NewStore(nil, nil)
	seq := []Action{Approve, Disapprove, Disapprove, Approve, Approve, Approve, Disapprove, Approve}

	for i, a := range seq {
		r := s.Toggle("item", a)
		require.Falsef(t, r.Approved && r.Disapproved, "step %d: both flags set", i)
	}
}

func TestFailureKeepsLocalState(t *testing.T) {
	p := &recordingPersister{err: errors.New("connection refused")}
	var failures []Action
	s := NewStore(p, inlineDispatcher{}, WithFailureHook(func(_ string, a Action, err error) {
		failures = append(failures, a)
	}))

	r := s.Toggle("a", Approve)

	assert.True(t, r.Approved)
	assert.True(t, s.Get("a").Approved, "failed persist must not roll back")
	assert.Equal(t, []Action{Approve}, failures)
	assert.Zero(t, s.Pending())
}

func TestPendingWithStalledTransport(t *testing.T) {
	p := &recordingPersister{}
	d := &stalledDispatcher{}
	s := NewStore(p, d)

	s.Toggle("a", Approve)
	s.Toggle("b", Disapprove)

	assert.Equal(t, 2, s.Pending())
	assert.True(t, s.Get("a").Approved, "local state applies before persistence completes")
	assert.True(t, s.Get("b").Disapproved)
	assert.Empty(t, p.calls)

	// Completing one call drains the bookkeeping.
	require.NoError(t, d.queued[0](context.Background()))
	assert.Equal(t, 1, s.Pending())
}

func TestGetUnknownItem(t *testing.T) {
	s := NewStore(nil, nil)
	assert.Equal(t, Record{}, s.Get("missing"))
}

func TestParseAction(t *testing.T) {
	tests := map[string]Action{
		"approve":    Approve,
		"like":       Approve,
		"disapprove": Disapprove,
		"dislike":    Disapprove,
	}
	for in, want := range tests {
		got, err := ParseAction(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseAction("shrug")
	assert.Error(t, err)
}
