package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/abelbrown/flick/internal/session"
	"github.com/abelbrown/flick/internal/topics"
)

// picker is the topic preference editor.
type picker struct {
	catalog  []topics.Topic
	cursor   int
	selected map[string]bool
	saving   bool
	err      string
}

func newPicker(current []string) *picker {
	p := &picker{
		catalog:  topics.All(),
		selected: make(map[string]bool, len(current)),
	}
	for _, k := range current {
		p.selected[k] = true
	}
	return p
}

// selection returns the checked keys in catalog order.
func (p *picker) selection() []string {
	var out []string
	for _, t := range p.catalog {
		if p.selected[t.Key] {
			out = append(out, t.Key)
		}
	}
	return out
}

// pickerResult tells the app what the picker wants.
type pickerResult int

const (
	pickerStay pickerResult = iota
	pickerSave
	pickerCancel
)

func (p *picker) update(msg tea.KeyMsg) pickerResult {
	if p.saving {
		return pickerStay
	}

	switch {
	case key.Matches(msg, pickerKeys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(msg, pickerKeys.Down):
		if p.cursor < len(p.catalog)-1 {
			p.cursor++
		}
	case key.Matches(msg, pickerKeys.Toggle):
		k := p.catalog[p.cursor].Key
		p.selected[k] = !p.selected[k]
		p.err = ""
	case key.Matches(msg, pickerKeys.All):
		for _, t := range p.catalog {
			p.selected[t.Key] = true
		}
		p.err = ""
	case key.Matches(msg, pickerKeys.None):
		p.selected = make(map[string]bool)
	case key.Matches(msg, pickerKeys.Save):
		if len(p.selection()) == 0 {
			p.err = session.ErrNoTopics.Error()
			return pickerStay
		}
		p.saving = true
		p.err = ""
		return pickerSave
	case key.Matches(msg, pickerKeys.Cancel):
		return pickerCancel
	}
	return pickerStay
}

func (p *picker) view() string {
	var b strings.Builder
	b.WriteString(CardTitle.Render("Pick your topics"))
	b.WriteString("\n\n")

	for i, t := range p.catalog {
		check := "[ ]"
		if p.selected[t.Key] {
			check = "[x]"
		}
		row := fmt.Sprintf("%s %s %s", check, t.Glyph, t.Name)
		if i == p.cursor {
			b.WriteString(PickerCursor.Render("> " + row))
		} else {
			b.WriteString(PickerItem.Render("  " + row))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case p.err != "":
		b.WriteString(ErrorStyle.Render(p.err))
	case p.saving:
		b.WriteString(Meta.Render("Saving..."))
	default:
		b.WriteString(HelpStyle.Render("space toggle • A all • N none • enter save • esc cancel"))
	}
	return Card.Render(b.String())
}
