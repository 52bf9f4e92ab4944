package fetch

import (
	"context"
	"fmt"

	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/topics"
)

// DemoProvider produces placeholder items so the app works offline and
// without an API key.
type DemoProvider struct{}

func (DemoProvider) Name() string { return "demo" }

// FetchTopic returns count demo items for t.
func (DemoProvider) FetchTopic(_ context.Context, t topics.Topic, count int) ([]model.Item, error) {
	items := make([]model.Item, 0, count)
	for i := 1; i <= count; i++ {
		items = append(items, model.Item{
			ID:    fmt.Sprintf("demo_%s_%d", t.Key, i),
			Topic: t.Key,
			Title: fmt.Sprintf("Demo %s News Article %d", t.Name, i),
			Body: fmt.Sprintf("This is a demo article about %s. Configure a NewsAPI key "+
				"to see real news articles here.", t.Key),
			Summary: fmt.Sprintf("• Demo article about %s\n• This shows the app is working\n"+
				"• Add your NewsAPI key to see real news", t.Key),
			URL:            fmt.Sprintf("https://example.com/demo-%s-%d", t.Key, i),
			ImageURL:       t.Placeholder,
			Source:         "Demo Source",
			PublishedLabel: "Demo Date",
		})
	}
	return items, nil
}
