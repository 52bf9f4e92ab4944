// Package fetch loads swipeable items for a set of topics.
//
// Each topic is served by one provider: NewsAPI when a key is configured,
// the topic's RSS feed when the catalog lists one, demo items otherwise.
package fetch

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/abelbrown/flick/internal/filter"
	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/store"
	"github.com/abelbrown/flick/internal/topics"
)

// MaxLimit caps how many items one fetch returns.
const MaxLimit = 50

const maxConcurrentFetches = 4

const userAgent = "flick/0.1 (+https://github.com/abelbrown/flick)"

// ErrAllTopicsFailed is returned when no requested topic produced items.
var ErrAllTopicsFailed = errors.New("every topic failed to fetch")

// CountSource supplies persisted engagement counts for fetched items.
type CountSource interface {
	EngagementCounts(ctx context.Context, ids []string) (map[string]store.Counts, error)
}

// Provider fetches up to n items for one topic.
type Provider interface {
	Name() string
	FetchTopic(ctx context.Context, topic topics.Topic, n int) ([]model.Item, error)
}

// Config selects and tunes providers.
type Config struct {
	NewsAPIKey string
	NewsAPIURL string        // Overrides the NewsAPI endpoint
	Timeout    time.Duration // HTTP timeout
	RateLimit  time.Duration // Minimum spacing between NewsAPI calls
	DisableRSS bool          // Skip catalog feeds and fall back to demo items
}

// Fetcher implements the item source used by a session.
type Fetcher struct {
	client  *http.Client
	newsapi Provider
	rss     Provider
	demo    Provider
	counts  CountSource
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithCounts merges persisted engagement counts into fetched items.
func WithCounts(c CountSource) Option {
	return func(f *Fetcher) {
		f.counts = c
	}
}

// WithProvider replaces the NewsAPI provider.
func WithProvider(p Provider) Option {
	return func(f *Fetcher) {
		f.newsapi = p
	}
}

// NewFetcher builds a Fetcher from cfg.
func NewFetcher(cfg Config, opts ...Option) *Fetcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	f := &Fetcher{
		client: &http.Client{Timeout: cfg.Timeout},
		demo:   DemoProvider{},
	}
	if cfg.NewsAPIKey != "" {
		f.newsapi = NewNewsAPI(f.client, cfg)
	}
	if !cfg.DisableRSS {
		f.rss = NewRSS(f.client)
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Fetcher) providerFor(t topics.Topic) Provider {
	switch {
	case f.newsapi != nil:
		return f.newsapi
	case f.rss != nil && t.Feed != "":
		return f.rss
	default:
		return f.demo
	}
}

// FetchItems returns up to limit items across keys.
//
// A single topic gets the whole limit. Several topics each get
// max(1, limit/len(keys)) items; the merged list is sorted by popularity
// and truncated to limit. Duplicate stories are dropped, first topic wins.
// A failing topic is skipped unless all fail.
func (f *Fetcher) FetchItems(ctx context.Context, keys []string, limit int) ([]model.Item, error) {
	if len(keys) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = 1
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	perTopic := limit
	if len(keys) > 1 {
		perTopic = max(1, limit/len(keys))
	}

	// Results are merged in key order so the first topic wins dedup.
	results := make([][]model.Item, len(keys))
	failures := make([]error, len(keys))

	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, key := range keys {
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			t := topics.Lookup(key)
			p := f.providerFor(t)

			items, err := p.FetchTopic(ctx, t, perTopic)
			if err != nil {
				logging.Warn("Topic fetch failed", "topic", t.Key, "provider", p.Name(), "error", err)
				failures[i] = fmt.Errorf("%s: %w", t.Key, err)
				return nil
			}
			logging.Debug("Topic fetched", "topic", t.Key, "provider", p.Name(), "items", len(items))
			results[i] = items
			return nil
		})
	}
	_ = g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var all []model.Item
	var errs []error
	for i := range keys {
		all = append(all, results[i]...)
		if failures[i] != nil {
			errs = append(errs, failures[i])
		}
	}

	if len(all) == 0 && len(errs) > 0 {
		return nil, fmt.Errorf("%w: %w", ErrAllTopicsFailed, errors.Join(errs...))
	}

	all = filter.Dedup(all)
	f.mergeCounts(ctx, all)

	if len(keys) > 1 {
		sortByPopularity(all)
		if len(all) > limit {
			all = all[:limit]
		}
	}
	return all, nil
}

func (f *Fetcher) mergeCounts(ctx context.Context, items []model.Item) {
	if f.counts == nil || len(items) == 0 {
		return
	}
	ids := make([]string, len(items))
	for i, it := range items {
		ids[i] = it.Key()
	}
	counts, err := f.counts.EngagementCounts(ctx, ids)
	if err != nil {
		logging.Warn("Engagement counts unavailable", "error", err)
		return
	}
	for i := range items {
		if c, ok := counts[items[i].Key()]; ok {
			items[i].Approvals = c.Approvals
			items[i].Disapprovals = c.Disapprovals
			items[i].Views = c.Views
		}
	}
}

// sortByPopularity orders by score then views, both descending.
func sortByPopularity(items []model.Item) {
	sort.SliceStable(items, func(i, j int) bool {
		si, sj := items[i].Score(), items[j].Score()
		if si != sj {
			return si > sj
		}
		return items[i].Views > items[j].Views
	})
}

// truncate shortens a string to maxLen runes, adding "..." if truncated.
// Uses rune-aware slicing to avoid breaking UTF-8 characters.
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}
