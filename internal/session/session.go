// Package session ties the swipe engine to its collaborators: where items
// come from, where preferences live, and where decisions are tallied.
//
// Blocking work (Start, Fetch, SavePreferences) may run on any goroutine.
// Apply and everything that touches the engine must stay on the engine's
// goroutine.
package session

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/abelbrown/flick/internal/clock"
	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/swipe"
	"github.com/abelbrown/flick/internal/topics"
)

// DefaultLimit is how many items a fetch asks for.
const DefaultLimit = 20

var (
	// ErrNoTopics is returned when saving an empty preference set.
	ErrNoTopics = errors.New("select at least one topic")

	// ErrUnknownTopic is returned when a preference names no catalog topic.
	ErrUnknownTopic = errors.New("unknown topic")

	// ErrSavePreferences wraps a failed preference write. Session state is
	// unchanged when it is returned.
	ErrSavePreferences = errors.New("failed to save preferences")
)

// ItemSource fetches items for a topic set.
type ItemSource interface {
	FetchItems(ctx context.Context, topics []string, limit int) ([]model.Item, error)
}

// Preferences loads and stores the selected topics.
type Preferences interface {
	LoadPreferences(ctx context.Context) ([]string, error)
	SavePreferences(ctx context.Context, topics []string) error
}

// Tallies records committed decisions per topic.
type Tallies interface {
	RecordSwipe(ctx context.Context, topic string, accepted bool) error
}

// Views counts item impressions.
type Views interface {
	RecordView(ctx context.Context, itemID string) error
}

// Dispatcher runs fire-and-forget work.
type Dispatcher interface {
	Dispatch(desc string, fn func(ctx context.Context) error)
}

// Deps are the session's collaborators. Source and Preferences are
// required; the rest may be nil.
type Deps struct {
	Source      ItemSource
	Preferences Preferences
	Tallies     Tallies
	Views       Views
	Dispatcher  Dispatcher
	Limit       int
}

// Session is one run of the swipe loop.
type Session struct {
	id     string
	engine *swipe.Engine
	deps   Deps
	logger *log.Logger

	mu     sync.Mutex
	topics []string
}

// New creates a session and its engine. Engine options are applied before
// the session's own commit hook.
func New(sched clock.Scheduler, p swipe.Presenter, er swipe.EngagementReader, deps Deps, opts ...swipe.Option) *Session {
	if deps.Limit <= 0 {
		deps.Limit = DefaultLimit
	}
	s := &Session{
		id:   uuid.NewString(),
		deps: deps,
	}
	s.logger = logging.WithPrefix("session " + s.id[:8])

	opts = append(opts, swipe.WithCommitHook(s.recordDecision))
	s.engine = swipe.New(sched, p, er, opts...)
	return s
}

// ID returns the session UUID.
func (s *Session) ID() string { return s.id }

// Engine returns the session's engine.
func (s *Session) Engine() *swipe.Engine { return s.engine }

// Topics returns a copy of the current topic selection.
func (s *Session) Topics() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.topics...)
}

// Start loads saved preferences. A failure leaves the topic set empty, so
// the following fetch yields an empty queue.
func (s *Session) Start(ctx context.Context) error {
	saved, err := s.deps.Preferences.LoadPreferences(ctx)
	if err != nil {
		s.warn("Loading preferences failed", "error", err)
		return fmt.Errorf("load preferences: %w", err)
	}

	valid := saved[:0:0]
	for _, t := range saved {
		if topics.Valid(t) {
			valid = append(valid, t)
		}
	}

	s.mu.Lock()
	s.topics = valid
	s.mu.Unlock()

	s.info("Session started", "topics", len(valid))
	return nil
}

// Fetch retrieves items for the current topics. No topics means no items.
func (s *Session) Fetch(ctx context.Context) ([]model.Item, error) {
	selected := s.Topics()
	if len(selected) == 0 {
		return nil, nil
	}
	items, err := s.deps.Source.FetchItems(ctx, selected, s.deps.Limit)
	if err != nil {
		return nil, fmt.Errorf("fetch items: %w", err)
	}
	return items, nil
}

// Apply loads a fetch result into the engine. A failure or an empty result
// is shown as an empty queue; nothing is retried.
func (s *Session) Apply(items []model.Item, err error) {
	if err != nil {
		s.warn("Fetch failed, showing empty queue", "error", err)
		items = nil
	}
	s.info("Queue loaded", "items", len(items))
	s.engine.Load(items)
}

// Refresh fetches and applies on the calling goroutine.
func (s *Session) Refresh(ctx context.Context) {
	s.Apply(s.Fetch(ctx))
}

// SavePreferences validates and stores sel. On failure the session keeps
// its previous topics and errors wrap ErrNoTopics, ErrUnknownTopic or
// ErrSavePreferences. The caller refreshes after success.
func (s *Session) SavePreferences(ctx context.Context, sel []string) error {
	sel, err := Validate(sel)
	if err != nil {
		return err
	}

	if err := s.deps.Preferences.SavePreferences(ctx, sel); err != nil {
		s.warn("Saving preferences failed", "error", err)
		return fmt.Errorf("%w: %w", ErrSavePreferences, err)
	}

	s.mu.Lock()
	s.topics = sel
	s.mu.Unlock()
	s.info("Preferences saved", "topics", sel)
	return nil
}

// Validate checks a topic selection and drops duplicates, keeping order.
func Validate(sel []string) ([]string, error) {
	if len(sel) == 0 {
		return nil, ErrNoTopics
	}
	seen := make(map[string]bool, len(sel))
	out := make([]string, 0, len(sel))
	for _, t := range sel {
		if !topics.Valid(t) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownTopic, t)
		}
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out, nil
}

// Viewed dispatches a view count increment for item.
func (s *Session) Viewed(item model.Item) {
	if s.deps.Views == nil || s.deps.Dispatcher == nil {
		return
	}
	id := item.Key()
	s.deps.Dispatcher.Dispatch("view "+id, func(ctx context.Context) error {
		return s.deps.Views.RecordView(ctx, id)
	})
}

func (s *Session) recordDecision(d swipe.Decision) {
	s.debug("Decision committed", "item", d.Item.Key(), "action", d.Action, "topic", d.Item.Topic)
	if s.deps.Tallies == nil || s.deps.Dispatcher == nil {
		return
	}
	topic, accepted := d.Item.Topic, d.Action == swipe.Accept
	s.deps.Dispatcher.Dispatch(fmt.Sprintf("swipe %s %s", d.Action, topic), func(ctx context.Context) error {
		if err := s.deps.Tallies.RecordSwipe(ctx, topic, accepted); err != nil {
			s.warn("Recording swipe failed", "topic", topic, "error", err)
			return err
		}
		return nil
	})
}

// Close stops pending engine timers.
func (s *Session) Close() {
	s.engine.Close()
}

func (s *Session) info(msg string, kv ...interface{}) {
	if s.logger != nil {
		s.logger.Info(msg, kv...)
	}
}

func (s *Session) warn(msg string, kv ...interface{}) {
	if s.logger != nil {
		s.logger.Warn(msg, kv...)
	}
}

func (s *Session) debug(msg string, kv ...interface{}) {
	if s.logger != nil {
		s.logger.Debug(msg, kv...)
	}
}
