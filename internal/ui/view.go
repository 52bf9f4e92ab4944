package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/swipe"
	"github.com/abelbrown/flick/internal/topics"
)

const (
	headerHeight = 2
	footerHeight = 2
	maxCardWidth = 72
)

type rect struct {
	x, y, w, h int
}

func (r rect) contains(x, y int) bool {
	return x >= r.x && x < r.x+r.w && y >= r.y && y < r.y+r.h
}

func (a *App) cardWidth() int {
	return max(30, min(maxCardWidth, a.width-4))
}

func (a *App) cardHeight() int {
	return max(10, a.height-headerHeight-footerHeight)
}

// cardRect is the card's screen area shifted by shift cells.
func (a *App) cardRect(shift int) rect {
	w := a.cardWidth()
	return rect{x: (a.width-w)/2 + shift, y: headerHeight, w: w, h: a.cardHeight()}
}

// View implements tea.Model.
func (a *App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	var body string
	switch {
	case a.picker != nil:
		body = a.center(a.picker.view())
	case a.pane == paneLoading:
		body = Pane.Render(a.spinner.View() + " Fetching stories...")
	case a.pane == paneCard:
		body = a.viewCard()
	case a.pane == paneExhausted:
		body = a.center(Pane.Render("That's everything for now.\n\nr refresh • o change topics • [ go back"))
	case a.loadErr != nil:
		body = a.center(Pane.Render(ErrorStyle.Render("Couldn't load stories: "+a.loadErr.Error()) + "\n\nr retry • o change topics"))
	default:
		body = a.center(Pane.Render("No stories for your topics.\n\nr refresh • o change topics"))
	}
	body = lipgloss.NewStyle().Height(a.cardHeight()).MaxHeight(a.cardHeight()).Render(body)

	return a.viewHeader() + "\n" + body + "\n" + a.viewStatus() + "\n" + a.help.View(keys)
}

func (a *App) center(s string) string {
	return lipgloss.PlaceHorizontal(a.width, lipgloss.Center, s)
}

func (a *App) viewHeader() string {
	sel := a.session.Topics()
	names := make([]string, 0, len(sel))
	for _, k := range sel {
		t := topics.Lookup(k)
		names = append(names, t.Glyph+" "+t.Name)
	}
	return Title.Render("flick") + " " + Meta.Render(strings.Join(names, "  ")) + "\n"
}

func (a *App) viewStatus() string {
	parts := []string{Counter.Render(fmt.Sprintf("✓ %d  ✗ %d", a.accepted, a.rejected))}
	if e := a.engine(); e.Len() > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", min(e.Index()+1, e.Len()), e.Len()))
		if e.State() == swipe.Locked {
			parts = append(parts, "⋯")
		}
	}
	if a.engage != nil && a.engage.Pending() > 0 {
		parts = append(parts, "saving…")
	}
	if a.status != "" {
		parts = append(parts, a.status)
	}
	return StatusBar.Width(a.width).Render(strings.Join(parts, "  "))
}

func (a *App) viewCard() string {
	t := topics.Lookup(a.item.Topic)
	w, h := a.cardWidth(), a.cardHeight()
	inner := w - 6

	var b strings.Builder
	b.WriteString(TopicBadge.Background(lipgloss.Color("#" + t.Color)).Render(t.Glyph + " " + t.Name))
	b.WriteString(Meta.Render(a.item.PublishedLabel))
	b.WriteString("\n\n")
	b.WriteString(CardTitle.Width(inner).Render(a.item.Title))
	b.WriteString("\n")
	if a.item.Source != "" {
		b.WriteString(Meta.Render(a.item.Source))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	if notes := a.renderNotes(inner); notes != "" {
		b.WriteString(notes)
		b.WriteString("\n\n")
	}
	b.WriteString(a.viewEngagement())
	b.WriteString("\n")
	if a.item.URL != "" {
		b.WriteString(Link.Render(a.item.URL))
		b.WriteString("\n")
	}
	switch {
	case a.offset > a.cfg.Threshold:
		b.WriteString("\n" + AcceptHint.Render("ACCEPT ▶"))
	case a.offset < -a.cfg.Threshold:
		b.WriteString("\n" + RejectHint.Render("◀ REJECT"))
	}

	style := Card.Width(w - 2).Height(h - 2)
	if a.opacity < 0.6 {
		style = style.Faint(true)
	}
	return style.MarginLeft(max(0, a.cardRect(a.offsetCells()).x)).Render(b.String())
}

func (a *App) viewEngagement() string {
	up, down := Inactive.Render("▲ approve"), Inactive.Render("▼ disapprove")
	if a.record.Approved {
		up = Approved.Render("▲ approved")
	}
	if a.record.Disapproved {
		down = Disapproved.Render("▼ disapproved")
	}
	counts := Meta.Render(fmt.Sprintf("%d ▲  %d ▼  %d views", a.item.Approvals, a.item.Disapprovals, a.item.Views))
	return up + "  " + down + "    " + counts
}

// renderNotes renders the quick notes as markdown, cached per item.
func (a *App) renderNotes(width int) string {
	if a.item.Summary == "" {
		return ""
	}
	if a.notes == nil || a.notesWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(a.cfg.NotesStyle),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			logging.Warn("Creating notes renderer failed", "error", err)
			return a.item.Summary
		}
		a.notes, a.notesWidth, a.notesCache = r, width, make(map[string]string)
	}

	id := a.item.Key()
	if out, ok := a.notesCache[id]; ok {
		return out
	}
	md := "**Quick notes**\n\n" + strings.ReplaceAll(a.item.Summary, "• ", "- ")
	out, err := a.notes.Render(md)
	if err != nil {
		logging.Warn("Rendering notes failed", "item", id, "error", err)
		return a.item.Summary
	}
	out = strings.Trim(out, "\n")
	a.notesCache[id] = out
	return out
}
