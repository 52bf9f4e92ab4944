// Package ui provides the Bubble Tea TUI for flick.
package ui

import "github.com/abelbrown/flick/internal/model"

// SessionStarted is sent when saved preferences have been loaded.
type SessionStarted struct {
	Err error
}

// ItemsFetched is sent when a fetch for the current topics finishes.
type ItemsFetched struct {
	Items []model.Item
	Err   error
}

// PreferencesSaved is sent when the picker's selection has been stored.
type PreferencesSaved struct {
	Topics []string
	Err    error
}

// timerFired is sent when a scheduled engine callback is due.
type timerFired struct {
	id int
}

// springTick advances the snap-back animation. gen discards ticks from a
// superseded animation.
type springTick struct {
	gen int
}
