// Package model holds the item type shared by the fetchers, the queue and the UI.
package model

import (
	"crypto/md5"
	"encoding/hex"
	"time"
)

// Item is one piece of content shown on a card.
// Items are immutable once fetched.
type Item struct {
	ID             string
	Topic          string
	Title          string
	Summary        string // quick notes, one "• " bullet per line
	Body           string
	URL            string
	ImageURL       string
	Source         string
	Published      time.Time
	PublishedLabel string

	// Popularity counters as persisted across all sessions.
	Approvals    int
	Disapprovals int
	Views        int
}

// Key returns the stable identifier for the item.
// Items without an ID fall back to title + "_" + published label.
func (i Item) Key() string {
	if i.ID != "" {
		return i.ID
	}
	return i.Title + "_" + i.PublishedLabel
}

// Score is the popularity used to order merged multi-topic results.
func (i Item) Score() int {
	return i.Approvals - i.Disapprovals
}

// GenerateID derives a short deterministic ID from title and raw published value.
func GenerateID(title, published string) string {
	sum := md5.Sum([]byte(title + "_" + published))
	return hex.EncodeToString(sum[:])[:12]
}

// PublishedLayout is the display format for published timestamps.
const PublishedLayout = "January 02, 2006 at 03:04 PM"

// FormatPublished renders t for display, or "Unknown date" when zero.
func FormatPublished(t time.Time) string {
	if t.IsZero() {
		return "Unknown date"
	}
	return t.Format(PublishedLayout)
}
