package ui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Accept     key.Binding
	Reject     key.Binding
	Back       key.Binding
	Forward    key.Binding
	Approve    key.Binding
	Disapprove key.Binding
	Refresh    key.Binding
	Prefs      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Reject, k.Approve, k.Disapprove, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Accept, k.Reject, k.Back, k.Forward},
		{k.Approve, k.Disapprove},
		{k.Refresh, k.Prefs, k.Help, k.Quit},
	}
}

var keys = keyMap{
	Accept:     key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "accept")),
	Reject:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "reject")),
	Back:       key.NewBinding(key.WithKeys("[", "p"), key.WithHelp("[/p", "back")),
	Forward:    key.NewBinding(key.WithKeys("]", "n"), key.WithHelp("]/n", "forward")),
	Approve:    key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "approve")),
	Disapprove: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "disapprove")),
	Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Prefs:      key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "topics")),
	Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

// Picker bindings
var pickerKeys = struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	All    key.Binding
	None   key.Binding
	Save   key.Binding
	Cancel key.Binding
}{
	Up:     key.NewBinding(key.WithKeys("up", "k")),
	Down:   key.NewBinding(key.WithKeys("down", "j")),
	Toggle: key.NewBinding(key.WithKeys(" ")),
	All:    key.NewBinding(key.WithKeys("A")),
	None:   key.NewBinding(key.WithKeys("N")),
	Save:   key.NewBinding(key.WithKeys("enter")),
	Cancel: key.NewBinding(key.WithKeys("esc")),
}
