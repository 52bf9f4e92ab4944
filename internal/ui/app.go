package ui

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/harmonica"

	"github.com/abelbrown/flick/internal/clock"
	"github.com/abelbrown/flick/internal/engagement"
	"github.com/abelbrown/flick/internal/gesture"
	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/session"
	"github.com/abelbrown/flick/internal/swipe"
)

// Config configures the App.
type Config struct {
	Context context.Context

	// Terminal cells are scaled to pointer units by these factors.
	CellWidth  float64
	CellHeight float64

	// Threshold is only used for the accept/reject hint while dragging.
	Threshold float64

	// NotesStyle is a glamour standard style name. Defaults to "dark".
	NotesStyle string

	// Engagement holds the approve/disapprove toggles. Nil disables them.
	Engagement *engagement.Store

	// NewSession builds the session around the app's scheduler and
	// presenter. It is called once, from New.
	NewSession func(sched clock.Scheduler, p swipe.Presenter) *session.Session
}

type pane int

const (
	paneLoading pane = iota
	paneCard
	paneExhausted
	paneEmpty
)

// App is the root Bubble Tea model. It is also the engine's presenter, so
// it is always used by pointer.
type App struct {
	cfg     Config
	ctx     context.Context
	sched   *scheduler
	session *session.Session
	engage  *engagement.Store

	pane     pane
	item     model.Item
	record   engagement.Record
	accepted int
	rejected int
	loadErr  error
	status   string

	// Drag feedback
	dragging bool
	offset   float64
	opacity  float64

	// Snap-back animation
	spring    harmonica.Spring
	springing bool
	springVel float64
	springGen int

	picker  *picker
	spinner spinner.Model
	help    help.Model

	notes      *glamour.TermRenderer
	notesWidth int
	notesCache map[string]string

	width  int
	height int
}

// New creates the app and its session.
func New(cfg Config) *App {
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.CellWidth <= 0 {
		cfg.CellWidth = 10
	}
	if cfg.CellHeight <= 0 {
		cfg.CellHeight = 20
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = swipe.DefaultCommitThreshold
	}
	if cfg.NotesStyle == "" {
		cfg.NotesStyle = "dark"
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = Counter

	a := &App{
		cfg:     cfg,
		ctx:     cfg.Context,
		sched:   newScheduler(),
		engage:  cfg.Engagement,
		pane:    paneLoading,
		opacity: 1,
		spring:  harmonica.NewSpring(harmonica.FPS(60), 6.0, 0.8),
		spinner: s,
		help:    help.New(),
	}
	a.session = cfg.NewSession(a.sched, a)
	return a
}

// Session returns the app's session.
func (a *App) Session() *session.Session { return a.session }

func (a *App) engine() *swipe.Engine { return a.session.Engine() }

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(a.spinner.Tick, a.startCmd())
}

// Update implements tea.Model. Timers scheduled by the engine during the
// update are returned with its command.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := a.update(msg)
	if timers := a.sched.drain(); timers != nil {
		cmd = tea.Batch(cmd, timers)
	}
	return a, cmd
}

func (a *App) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		return nil

	case tea.KeyMsg:
		return a.handleKey(msg)

	case tea.MouseMsg:
		return a.handleMouse(msg)

	case timerFired:
		a.sched.fire(msg.id)
		return nil

	case springTick:
		return a.stepSpring(msg)

	case SessionStarted:
		a.loadErr = msg.Err
		if msg.Err == nil && len(a.session.Topics()) == 0 {
			// First run: an empty queue behind the picker.
			a.session.Apply(nil, nil)
			a.picker = newPicker(nil)
			return nil
		}
		return a.fetchCmd()

	case ItemsFetched:
		a.loadErr = msg.Err
		a.session.Apply(msg.Items, msg.Err)
		return nil

	case PreferencesSaved:
		if a.picker == nil {
			return nil
		}
		if msg.Err != nil {
			a.picker.saving = false
			a.picker.err = msg.Err.Error()
			return nil
		}
		a.picker = nil
		a.status = "Topics saved"
		return a.refresh()

	case spinner.TickMsg:
		var cmd tea.Cmd
		a.spinner, cmd = a.spinner.Update(msg)
		return cmd
	}
	return nil
}

func (a *App) handleKey(msg tea.KeyMsg) tea.Cmd {
	if a.picker != nil {
		switch a.picker.update(msg) {
		case pickerSave:
			return a.saveCmd(a.picker.selection())
		case pickerCancel:
			a.picker = nil
		}
		return nil
	}

	a.status = ""
	switch {
	case key.Matches(msg, keys.Quit):
		return tea.Quit
	case key.Matches(msg, keys.Help):
		a.help.ShowAll = !a.help.ShowAll
	case key.Matches(msg, keys.Accept):
		return a.decide(a.engine().Command(swipe.Accept))
	case key.Matches(msg, keys.Reject):
		return a.decide(a.engine().Command(swipe.Reject))
	case key.Matches(msg, keys.Back):
		a.engine().Back()
	case key.Matches(msg, keys.Forward):
		a.engine().Forward()
	case key.Matches(msg, keys.Approve):
		a.toggle(engagement.Approve)
	case key.Matches(msg, keys.Disapprove):
		a.toggle(engagement.Disapprove)
	case key.Matches(msg, keys.Refresh):
		return a.refresh()
	case key.Matches(msg, keys.Prefs):
		a.picker = newPicker(a.session.Topics())
	}
	return nil
}

func (a *App) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if a.picker != nil || a.pane != paneCard {
		return nil
	}
	p := a.point(msg.X, msg.Y)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft || !a.cardRect(0).contains(msg.X, msg.Y) {
			return nil
		}
		if a.engine().PointerDown(p) {
			a.stopSpring()
			a.dragging = true
			a.offset, a.opacity = 0, 1
		}

	case tea.MouseActionMotion:
		if !a.dragging {
			return nil
		}
		if !a.cardRect(a.offsetCells()).contains(msg.X, msg.Y) {
			return a.decide(a.engine().PointerLeave(p))
		}
		if fb, ok := a.engine().PointerMove(p); ok {
			a.offset, a.opacity = fb.Offset, fb.Opacity
		}

	case tea.MouseActionRelease:
		if !a.dragging {
			return nil
		}
		return a.decide(a.engine().PointerUp(p))
	}
	return nil
}

// point scales a cell position to pointer units.
func (a *App) point(x, y int) gesture.Point {
	return gesture.Point{X: float64(x) * a.cfg.CellWidth, Y: float64(y) * a.cfg.CellHeight}
}

func (a *App) offsetCells() int {
	return int(math.Round(a.offset / a.cfg.CellWidth))
}

// decide reflects an engine decision in the card state.
func (a *App) decide(d swipe.Decision) tea.Cmd {
	a.dragging = a.engine().State() == swipe.Dragging
	switch d.Outcome {
	case swipe.Committed:
		a.stopSpring()
		a.offset, a.opacity = 0, 1
		verb := "Accepted"
		if d.Action == swipe.Reject {
			verb = "Rejected"
		}
		a.status = fmt.Sprintf("%s: %s", verb, d.Item.Title)
		return nil
	case swipe.Reset:
		return a.startSpring()
	}
	return nil
}

func (a *App) toggle(action engagement.Action) {
	if a.engage == nil || a.pane != paneCard {
		return
	}
	item, ok := a.engine().Current()
	if !ok {
		return
	}
	a.record = a.engage.Toggle(item.Key(), action)
}

func (a *App) refresh() tea.Cmd {
	a.pane = paneLoading
	a.loadErr = nil
	return a.fetchCmd()
}

func (a *App) startSpring() tea.Cmd {
	if a.offset == 0 {
		a.opacity = 1
		return nil
	}
	a.springing = true
	a.springVel = 0
	a.springGen++
	return a.springTickCmd()
}

func (a *App) stopSpring() {
	a.springing = false
	a.springGen++
}

func (a *App) springTickCmd() tea.Cmd {
	gen := a.springGen
	return tea.Tick(time.Second/60, func(time.Time) tea.Msg {
		return springTick{gen: gen}
	})
}

func (a *App) stepSpring(msg springTick) tea.Cmd {
	if !a.springing || msg.gen != a.springGen {
		return nil
	}
	a.offset, a.springVel = a.spring.Update(a.offset, a.springVel, 0)
	if math.Abs(a.offset) < 0.5 && math.Abs(a.springVel) < 0.5 {
		a.offset, a.opacity = 0, 1
		a.springing = false
		return nil
	}
	a.opacity = gesture.FeedbackFor(a.offset).Opacity
	return a.springTickCmd()
}

func (a *App) startCmd() tea.Cmd {
	sess, ctx := a.session, a.ctx
	return func() tea.Msg {
		return SessionStarted{Err: sess.Start(ctx)}
	}
}

func (a *App) fetchCmd() tea.Cmd {
	sess, ctx := a.session, a.ctx
	return func() tea.Msg {
		items, err := sess.Fetch(ctx)
		return ItemsFetched{Items: items, Err: err}
	}
}

func (a *App) saveCmd(sel []string) tea.Cmd {
	sess, ctx := a.session, a.ctx
	return func() tea.Msg {
		return PreferencesSaved{Topics: sel, Err: sess.SavePreferences(ctx, sel)}
	}
}

// ItemDisplayed implements swipe.Presenter.
func (a *App) ItemDisplayed(item model.Item, state engagement.Record) {
	a.pane = paneCard
	a.item = item
	a.record = state
	a.dragging = false
	a.offset, a.opacity = 0, 1
	a.stopSpring()
	a.session.Viewed(item)
}

// QueueExhausted implements swipe.Presenter.
func (a *App) QueueExhausted() {
	a.pane = paneExhausted
}

// QueueEmpty implements swipe.Presenter.
func (a *App) QueueEmpty() {
	a.pane = paneEmpty
}

// CountersChanged implements swipe.Presenter.
func (a *App) CountersChanged(accepted, rejected int) {
	a.accepted, a.rejected = accepted, rejected
}
