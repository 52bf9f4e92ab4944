package swipe

import (
	"fmt"

	"github.com/abelbrown/flick/internal/model"
)

// State is the interaction state.
type State int

const (
	Idle State = iota
	Dragging
	Locked
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Locked:
		return "locked"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Action is the direction of a committed decision.
type Action int

const (
	Accept Action = iota
	Reject
)

func (a Action) String() string {
	if a == Accept {
		return "accept"
	}
	return "reject"
}

// ParseAction accepts accept/reject and the like/pass names of the web client.
func ParseAction(s string) (Action, error) {
	switch s {
	case "accept", "like":
		return Accept, nil
	case "reject", "pass":
		return Reject, nil
	}
	return 0, fmt.Errorf("unknown swipe action %q", s)
}

// Outcome is what the engine did with an input.
type Outcome int

const (
	// Ignored: the input arrived while locked, without a gesture, or with
	// nothing left to decide.
	Ignored Outcome = iota
	// Reset: a sub-threshold drag; the card returns to neutral.
	Reset
	// Committed: the item was decided and the queue advanced.
	Committed
)

func (o Outcome) String() string {
	switch o {
	case Ignored:
		return "ignored"
	case Reset:
		return "reset"
	case Committed:
		return "committed"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Decision reports the result of a gesture end or command.
// Action is only meaningful when Outcome is Committed.
type Decision struct {
	Outcome Outcome
	Action  Action
	Item    model.Item
}

// Counters are the per-session decision tallies.
type Counters struct {
	Accepted        int
	Rejected        int
	AcceptedByTopic map[string]int
	RejectedByTopic map[string]int
}

func newCounters() Counters {
	return Counters{
		AcceptedByTopic: make(map[string]int),
		RejectedByTopic: make(map[string]int),
	}
}

func (c *Counters) add(a Action, topic string) {
	if a == Accept {
		c.Accepted++
		c.AcceptedByTopic[topic]++
		return
	}
	c.Rejected++
	c.RejectedByTopic[topic]++
}

func (c Counters) clone() Counters {
	out := newCounters()
	out.Accepted = c.Accepted
	out.Rejected = c.Rejected
	for k, v := range c.AcceptedByTopic {
		out.AcceptedByTopic[k] = v
	}
	for k, v := range c.RejectedByTopic {
		out.RejectedByTopic[k] = v
	}
	return out
}
