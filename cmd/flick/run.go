package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/abelbrown/flick/internal/clock"
	"github.com/abelbrown/flick/internal/engagement"
	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/session"
	"github.com/abelbrown/flick/internal/swipe"
	"github.com/abelbrown/flick/internal/ui"
	"github.com/abelbrown/flick/internal/work"
)

// runTUI is the default command.
func runTUI(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// The TUI owns the terminal; logs go to ~/.flick/logs.
	if err := logging.Init(cfg.Dir()); err != nil {
		return err
	}
	defer logging.Close()

	ctx := cmd.Context()
	b, err := openBackend(ctx, cfg)
	if err != nil {
		return err
	}
	defer b.Close()

	engage := engagement.NewStore(b.store, b.pool.Dispatcher(work.TypeEngagement))
	app := ui.New(ui.Config{
		Context:    ctx,
		CellWidth:  cfg.Swipe.CellWidth,
		CellHeight: cfg.Swipe.CellHeight,
		Threshold:  cfg.Swipe.CommitThreshold,
		NotesStyle: notesStyle(),
		Engagement: engage,
		NewSession: func(sched clock.Scheduler, p swipe.Presenter) *session.Session {
			return session.New(sched, p, engage, session.Deps{
				Source:      b.fetcher,
				Preferences: b.store,
				Tallies:     b.store,
				Views:       b.store,
				Dispatcher:  b.pool.Dispatcher(work.TypeSwipe),
				Limit:       cfg.News.Limit,
			},
				swipe.WithThreshold(cfg.Swipe.CommitThreshold),
				swipe.WithTransition(cfg.Transition()),
			)
		},
	})
	defer app.Session().Close()

	p := tea.NewProgram(app,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
		tea.WithContext(ctx),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run UI: %w", err)
	}

	c := app.Session().Engine().Counters()
	fmt.Printf("Accepted %d, rejected %d.\n", c.Accepted, c.Rejected)
	return nil
}

// notesStyle matches the glamour style to the terminal background.
func notesStyle() string {
	if termenv.HasDarkBackground() {
		return "dark"
	}
	return "light"
}
