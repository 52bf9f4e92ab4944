package ui

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/flick/internal/clock"
	"github.com/abelbrown/flick/internal/engagement"
	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/session"
	"github.com/abelbrown/flick/internal/swipe"
)

type fakeSource struct {
	items []model.Item
	err   error
}

func (f *fakeSource) FetchItems(context.Context, []string, int) ([]model.Item, error) {
	return f.items, f.err
}

type fakePrefs struct {
	saved []string
}

func (f *fakePrefs) LoadPreferences(context.Context) ([]string, error) { return f.saved, nil }

func (f *fakePrefs) SavePreferences(_ context.Context, topics []string) error {
	f.saved = topics
	return nil
}

type recorder struct {
	views   []string
	persist []string
}

func (r *recorder) RecordView(_ context.Context, id string) error {
	r.views = append(r.views, id)
	return nil
}

func (r *recorder) PersistEngagement(_ context.Context, id string, action engagement.Action, active bool) error {
	if active {
		r.persist = append(r.persist, id+" +"+string(action))
	} else {
		r.persist = append(r.persist, id+" -"+string(action))
	}
	return nil
}

type inline struct{}

func (inline) Dispatch(_ string, fn func(ctx context.Context) error) { _ = fn(context.Background()) }

type fixture struct {
	app   *App
	prefs *fakePrefs
	rec   *recorder
}

func testItems() []model.Item {
	return []model.Item{
		{ID: "a", Topic: "science", Title: "Comet spotted", Summary: "• Bright\n• Close"},
		{ID: "b", Topic: "sports", Title: "Final score"},
		{ID: "c", Topic: "health", Title: "Sleep study"},
	}
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		prefs: &fakePrefs{saved: []string{"science", "sports"}},
		rec:   &recorder{},
	}
	store := engagement.NewStore(f.rec, inline{})
	f.app = New(Config{
		NotesStyle: "notty",
		Engagement: store,
		NewSession: func(sched clock.Scheduler, p swipe.Presenter) *session.Session {
			return session.New(sched, p, store, session.Deps{
				Source:      &fakeSource{items: testItems()},
				Preferences: f.prefs,
				Views:       f.rec,
				Dispatcher:  inline{},
			})
		},
	})
	send(f.app, tea.WindowSizeMsg{Width: 100, Height: 30})
	return f
}

// load starts the session and applies a fetch without running any commands.
func (f *fixture) load(t *testing.T) {
	t.Helper()
	if err := f.app.Session().Start(context.Background()); err != nil {
		t.Fatalf("start: %v", err)
	}
	send(f.app, ItemsFetched{Items: testItems()})
}

func send(a *App, msg tea.Msg) tea.Cmd {
	_, cmd := a.Update(msg)
	return cmd
}

func fireTimers(a *App) {
	for id := range a.sched.timers {
		send(a, timerFired{id: id})
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func mouse(action tea.MouseAction, x, y int) tea.MouseMsg {
	b := tea.MouseButtonLeft
	if action != tea.MouseActionPress {
		b = tea.MouseButtonNone
	}
	return tea.MouseMsg{X: x, Y: y, Action: action, Button: b}
}

func TestDragAcceptCommits(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, mouse(tea.MouseActionPress, 50, 10))
	send(f.app, mouse(tea.MouseActionMotion, 66, 10))
	if f.app.offset != 160 {
		t.Fatalf("expected offset 160, got %v", f.app.offset)
	}
	if !strings.Contains(f.app.View(), "ACCEPT") {
		t.Error("expected accept hint past the threshold")
	}
	send(f.app, mouse(tea.MouseActionRelease, 66, 10))

	if f.app.accepted != 1 || f.app.engine().Index() != 1 {
		t.Fatalf("expected commit, accepted=%d index=%d", f.app.accepted, f.app.engine().Index())
	}
	if f.app.item.ID != "b" {
		t.Errorf("expected next item shown, got %q", f.app.item.ID)
	}
	if f.app.engine().State() != swipe.Locked {
		t.Fatalf("expected locked during transition, got %v", f.app.engine().State())
	}

	fireTimers(f.app)
	if f.app.engine().State() != swipe.Idle {
		t.Errorf("expected idle after transition, got %v", f.app.engine().State())
	}
}

func TestLockedIgnoresInput(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, tea.KeyMsg{Type: tea.KeyRight})
	send(f.app, tea.KeyMsg{Type: tea.KeyLeft})
	send(f.app, mouse(tea.MouseActionPress, 50, 10))

	if f.app.accepted != 1 || f.app.rejected != 0 {
		t.Errorf("expected only the first command, got %d/%d", f.app.accepted, f.app.rejected)
	}
	if f.app.dragging {
		t.Error("drag must not start while locked")
	}
}

func TestSubThresholdDragSpringsBack(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, mouse(tea.MouseActionPress, 50, 10))
	send(f.app, mouse(tea.MouseActionMotion, 55, 10))
	cmd := send(f.app, mouse(tea.MouseActionRelease, 55, 10))

	if cmd == nil || !f.app.springing {
		t.Fatal("expected snap-back animation")
	}
	if f.app.engine().Index() != 0 || f.app.accepted != 0 {
		t.Error("reset must not advance")
	}

	for i := 0; i < 600 && f.app.springing; i++ {
		send(f.app, springTick{gen: f.app.springGen})
	}
	if f.app.springing || f.app.offset != 0 || f.app.opacity != 1 {
		t.Errorf("spring did not settle: offset=%v opacity=%v", f.app.offset, f.app.opacity)
	}
}

func TestStaleSpringTickIgnored(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, mouse(tea.MouseActionPress, 50, 10))
	send(f.app, mouse(tea.MouseActionMotion, 55, 10))
	send(f.app, mouse(tea.MouseActionRelease, 55, 10))
	stale := f.app.springGen
	send(f.app, mouse(tea.MouseActionPress, 50, 10))

	if cmd := send(f.app, springTick{gen: stale}); cmd != nil {
		t.Error("stale tick should not continue the animation")
	}
}

func TestMotionOutsideCardEndsGesture(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, mouse(tea.MouseActionPress, 50, 10))
	send(f.app, mouse(tea.MouseActionMotion, 62, 10))
	send(f.app, mouse(tea.MouseActionMotion, 62, 0))

	if f.app.accepted != 1 {
		t.Fatalf("leaving the card past the threshold should commit, accepted=%d", f.app.accepted)
	}
	if f.app.dragging {
		t.Error("drag should be over")
	}
}

func TestPressOutsideCardIgnored(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, mouse(tea.MouseActionPress, 2, 10))
	if f.app.dragging || f.app.engine().State() != swipe.Idle {
		t.Error("press outside the card must not start a drag")
	}
}

func TestKeyNavigation(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, keyRunes("n"))
	if f.app.item.ID != "b" {
		t.Fatalf("forward should show b, got %q", f.app.item.ID)
	}
	send(f.app, keyRunes("["))
	if f.app.item.ID != "a" {
		t.Fatalf("back should show a, got %q", f.app.item.ID)
	}
	send(f.app, keyRunes("h"))
	if f.app.rejected != 1 {
		t.Errorf("expected reject, got %d", f.app.rejected)
	}
	if !strings.Contains(f.app.status, "Rejected") {
		t.Errorf("unexpected status %q", f.app.status)
	}
}

func TestEngagementToggles(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, keyRunes("a"))
	if !f.app.record.Approved {
		t.Fatal("expected approved")
	}
	send(f.app, keyRunes("d"))
	if f.app.record.Approved || !f.app.record.Disapproved {
		t.Fatalf("disapprove should clear approve: %+v", f.app.record)
	}

	want := []string{"a +approve", "a +disapprove"}
	if strings.Join(f.rec.persist, ",") != strings.Join(want, ",") {
		t.Errorf("persist calls = %v, want %v", f.rec.persist, want)
	}
	if !strings.Contains(f.app.View(), "disapproved") {
		t.Error("view should show the disapproved flag")
	}
}

func TestEngagementShownAfterBack(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, keyRunes("a"))
	send(f.app, keyRunes("l"))
	fireTimers(f.app)
	send(f.app, keyRunes("p"))

	if f.app.item.ID != "a" || !f.app.record.Approved {
		t.Errorf("expected a with its approve flag, got %q %+v", f.app.item.ID, f.app.record)
	}
}

func TestViewsDispatched(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	send(f.app, keyRunes("n"))

	if strings.Join(f.rec.views, ",") != "a,b" {
		t.Errorf("views = %v", f.rec.views)
	}
}

func TestExhaustedPane(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	for i := 0; i < 3; i++ {
		send(f.app, keyRunes("l"))
		fireTimers(f.app)
	}
	if f.app.pane != paneExhausted {
		t.Fatalf("expected exhausted pane, got %v", f.app.pane)
	}
	if !strings.Contains(f.app.View(), "That's everything") {
		t.Error("exhausted pane not rendered")
	}

	if cmd := send(f.app, keyRunes("r")); cmd == nil {
		t.Error("refresh should fetch")
	}
	if f.app.pane != paneLoading {
		t.Errorf("expected loading pane, got %v", f.app.pane)
	}
}

func TestFetchErrorPane(t *testing.T) {
	f := newFixture(t)
	send(f.app, ItemsFetched{Err: errors.New("network unreachable")})

	if f.app.pane != paneEmpty {
		t.Fatalf("expected empty pane, got %v", f.app.pane)
	}
	if !strings.Contains(f.app.View(), "network unreachable") {
		t.Error("error should be shown")
	}

	send(f.app, ItemsFetched{})
	if strings.Contains(f.app.View(), "network unreachable") || !strings.Contains(f.app.View(), "No stories") {
		t.Error("empty result should show the empty pane")
	}
}

func TestFetchCmd(t *testing.T) {
	f := newFixture(t)
	if err := f.app.Session().Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	msg, ok := f.app.fetchCmd()().(ItemsFetched)
	if !ok || len(msg.Items) != 3 || msg.Err != nil {
		t.Fatalf("unexpected fetch result %+v", msg)
	}
}

func TestFirstRunOpensPicker(t *testing.T) {
	f := newFixture(t)
	f.prefs.saved = nil
	if err := f.app.Session().Start(context.Background()); err != nil {
		t.Fatal(err)
	}

	if cmd := send(f.app, SessionStarted{}); cmd != nil {
		t.Error("no fetch without topics")
	}
	if f.app.picker == nil {
		t.Fatal("expected picker")
	}
	if !strings.Contains(f.app.View(), "Pick your topics") {
		t.Error("picker not rendered")
	}
}

func TestNoTopicsEmptiesQueue(t *testing.T) {
	f := newFixture(t)
	f.load(t)
	if f.app.Session().Engine().Len() == 0 {
		t.Fatal("expected a loaded queue")
	}

	f.prefs.saved = nil
	if err := f.app.Session().Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	send(f.app, SessionStarted{})

	if n := f.app.Session().Engine().Len(); n != 0 {
		t.Errorf("queue should be empty, has %d items", n)
	}
	if f.app.pane != paneEmpty {
		t.Errorf("expected empty pane, got %v", f.app.pane)
	}
	if f.app.picker == nil {
		t.Error("expected picker")
	}
}

func TestPickerRequiresOneTopic(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, keyRunes("o"))
	send(f.app, keyRunes("N"))
	if cmd := send(f.app, tea.KeyMsg{Type: tea.KeyEnter}); cmd != nil {
		t.Error("empty selection must not save")
	}
	if f.app.picker.err != session.ErrNoTopics.Error() {
		t.Errorf("expected inline error, got %q", f.app.picker.err)
	}

	send(f.app, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune(" ")})
	if f.app.picker.err != "" {
		t.Error("toggling clears the error")
	}
	if cmd := send(f.app, tea.KeyMsg{Type: tea.KeyEnter}); cmd == nil {
		t.Fatal("expected save command")
	}
	if !f.app.picker.saving {
		t.Error("picker should be saving")
	}
}

func TestPickerSaveOutcome(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, keyRunes("o"))
	send(f.app, keyRunes("A"))
	send(f.app, tea.KeyMsg{Type: tea.KeyEnter})

	send(f.app, PreferencesSaved{Err: errors.New("database is locked")})
	if f.app.picker == nil || f.app.picker.saving {
		t.Fatal("failure keeps the picker open and editable")
	}
	if !strings.Contains(f.app.View(), "database is locked") {
		t.Error("save error should be shown")
	}

	cmd := send(f.app, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("retry should save again")
	}
	send(f.app, PreferencesSaved{Topics: []string{"health"}})
	if f.app.picker != nil || f.app.pane != paneLoading {
		t.Errorf("success should close the picker and refresh, pane=%v", f.app.pane)
	}
}

func TestSaveCmdPersists(t *testing.T) {
	f := newFixture(t)
	msg := f.app.saveCmd([]string{"health", "science"})().(PreferencesSaved)
	if msg.Err != nil {
		t.Fatal(msg.Err)
	}
	if strings.Join(f.prefs.saved, ",") != "health,science" {
		t.Errorf("saved = %v", f.prefs.saved)
	}
}

func TestPickerEscCancels(t *testing.T) {
	f := newFixture(t)
	f.load(t)

	send(f.app, keyRunes("o"))
	send(f.app, tea.KeyMsg{Type: tea.KeyEscape})
	if f.app.picker != nil {
		t.Error("esc should close the picker")
	}
	if f.app.pane != paneCard {
		t.Error("cancel keeps the queue")
	}
}

func TestQuit(t *testing.T) {
	f := newFixture(t)
	cmd := send(f.app, keyRunes("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("expected tea.QuitMsg")
	}
}

func TestSchedulerStop(t *testing.T) {
	s := newScheduler()
	calls := 0
	tm := s.AfterFunc(time.Second, func() { calls++ })

	if s.drain() == nil {
		t.Fatal("expected a tick command")
	}
	if s.drain() != nil {
		t.Error("drain should empty the queue")
	}
	if !tm.Stop() {
		t.Error("first stop should report true")
	}
	if tm.Stop() {
		t.Error("second stop should report false")
	}
	s.fire(1)
	if calls != 0 {
		t.Error("stopped timer must not fire")
	}

	s.AfterFunc(time.Second, func() { calls++ })
	s.fire(2)
	s.fire(2)
	if calls != 1 {
		t.Errorf("expected one call, got %d", calls)
	}
}
