package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/flick/internal/clock"
)

// scheduler implements clock.Scheduler on top of tea.Tick. Callbacks run
// inside Update when their timerFired message arrives, so the engine only
// ever sees the Update goroutine. Not safe for concurrent use.
type scheduler struct {
	next    int
	timers  map[int]func()
	pending []tea.Cmd
}

func newScheduler() *scheduler {
	return &scheduler{timers: make(map[int]func())}
}

// AfterFunc implements clock.Scheduler.
func (s *scheduler) AfterFunc(d time.Duration, f func()) clock.Timer {
	s.next++
	id := s.next
	s.timers[id] = f
	s.pending = append(s.pending, tea.Tick(d, func(time.Time) tea.Msg {
		return timerFired{id: id}
	}))
	return &timer{s: s, id: id}
}

// fire runs the callback for id unless it was stopped.
func (s *scheduler) fire(id int) {
	f, ok := s.timers[id]
	if !ok {
		return
	}
	delete(s.timers, id)
	f()
}

// drain returns the ticks queued since the last call.
func (s *scheduler) drain() tea.Cmd {
	if len(s.pending) == 0 {
		return nil
	}
	cmds := s.pending
	s.pending = nil
	return tea.Batch(cmds...)
}

type timer struct {
	s  *scheduler
	id int
}

func (t *timer) Stop() bool {
	_, ok := t.s.timers[t.id]
	delete(t.s.timers, t.id)
	return ok
}
