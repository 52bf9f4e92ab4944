package ui

import "github.com/charmbracelet/lipgloss"

// Colors used in the application.
var (
	colorPrimary   = lipgloss.Color("62")  // Purple
	colorSecondary = lipgloss.Color("241") // Gray
	colorMuted     = lipgloss.Color("240") // Darker gray
	colorHighlight = lipgloss.Color("212") // Pink
	colorSuccess   = lipgloss.Color("78")  // Green
	colorDanger    = lipgloss.Color("196") // Red
)

// Title style for the app name in the header.
var Title = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255")).
	Background(colorPrimary).
	Padding(0, 1)

// Card is the frame around the current item.
var Card = lipgloss.NewStyle().
	Border(lipgloss.RoundedBorder()).
	BorderForeground(colorPrimary).
	Padding(1, 2)

// CardTitle style for the item headline.
var CardTitle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("255"))

// TopicBadge style for the topic label. The background is set per topic.
var TopicBadge = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Padding(0, 1).
	MarginRight(1)

// Meta style for source and date.
var Meta = lipgloss.NewStyle().
	Foreground(colorSecondary)

// Link style for the item URL.
var Link = lipgloss.NewStyle().
	Foreground(colorMuted).
	Underline(true)

// Approved style for an active approve flag.
var Approved = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// Disapproved style for an active disapprove flag.
var Disapproved = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true)

// Inactive style for unset flags.
var Inactive = lipgloss.NewStyle().
	Foreground(colorMuted)

// AcceptHint is shown while a drag is past the threshold to the right.
var AcceptHint = lipgloss.NewStyle().
	Foreground(colorSuccess).
	Bold(true)

// RejectHint is shown while a drag is past the threshold to the left.
var RejectHint = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true)

// StatusBar style for the bottom status bar.
var StatusBar = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255")).
	Background(lipgloss.Color("236")).
	Padding(0, 1)

// Counter style for the accepted/rejected counters.
var Counter = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// ErrorStyle for displaying errors.
var ErrorStyle = lipgloss.NewStyle().
	Foreground(colorDanger).
	Bold(true).
	Padding(0, 1)

// Pane style for the exhausted, empty and error screens.
var Pane = lipgloss.NewStyle().
	Foreground(colorSecondary).
	Padding(2, 4)

// HelpStyle for help text.
var HelpStyle = lipgloss.NewStyle().
	Foreground(colorMuted).
	Padding(0, 1)

// PickerCursor style for the highlighted topic in the picker.
var PickerCursor = lipgloss.NewStyle().
	Foreground(colorHighlight).
	Bold(true)

// PickerItem style for picker rows.
var PickerItem = lipgloss.NewStyle().
	Foreground(lipgloss.Color("255"))
