package fetch

import (
	"context"
	"fmt"
	"net/http"

	"github.com/mmcdole/gofeed"

	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/topics"
)

// RSS reads a topic's catalog feed.
type RSS struct {
	client *http.Client
}

// NewRSS creates an RSS provider sharing client.
func NewRSS(client *http.Client) *RSS {
	return &RSS{client: client}
}

func (r *RSS) Name() string { return "rss" }

// FetchTopic returns the first count entries of the topic feed.
func (r *RSS) FetchTopic(ctx context.Context, t topics.Topic, count int) ([]model.Item, error) {
	if t.Feed == "" {
		return nil, fmt.Errorf("topic %s has no feed", t.Key)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.Feed, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse feed: %w", err)
	}

	entries := feed.Items
	if len(entries) > count {
		entries = entries[:count]
	}
	source := feed.Title
	if source == "" {
		source = "Unknown Source"
	}

	items := make([]model.Item, 0, len(entries))
	for _, e := range entries {
		items = append(items, convertFeedItem(e, t, source))
	}
	return items, nil
}

func convertFeedItem(e *gofeed.Item, t topics.Topic, source string) model.Item {
	title := e.Title
	if title == "" {
		title = "No Title"
	}
	body := e.Description
	if body == "" && e.Content != "" {
		body = truncate(e.Content, 500)
	}

	item := model.Item{
		ID:       model.GenerateID(title, e.Published),
		Topic:    t.Key,
		Title:    title,
		Body:     body,
		Summary:  QuickNotes(body),
		URL:      e.Link,
		ImageURL: t.Placeholder,
		Source:   source,
	}
	if e.Image != nil && e.Image.URL != "" {
		item.ImageURL = e.Image.URL
	}

	switch {
	case e.PublishedParsed != nil:
		item.Published = *e.PublishedParsed
		item.PublishedLabel = model.FormatPublished(item.Published)
	case e.Published != "":
		item.PublishedLabel = e.Published
	default:
		item.PublishedLabel = model.FormatPublished(item.Published)
	}
	return item
}
