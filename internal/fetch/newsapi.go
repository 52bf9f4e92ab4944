package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/topics"
)

// DefaultNewsAPIURL is the NewsAPI everything endpoint.
const DefaultNewsAPIURL = "https://newsapi.org/v2/everything"

// NewsAPI fetches topic queries from newsapi.org.
type NewsAPI struct {
	client   *http.Client
	endpoint string
	apiKey   string
	limiter  *rate.Limiter
	breaker  *gobreaker.CircuitBreaker
}

type newsAPIResponse struct {
	Status   string           `json:"status"`
	Code     string           `json:"code"`
	Message  string           `json:"message"`
	Articles []newsAPIArticle `json:"articles"`
}

type newsAPIArticle struct {
	Source struct {
		Name string `json:"name"`
	} `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	PublishedAt string `json:"publishedAt"`
}

// NewNewsAPI creates a NewsAPI provider sharing client.
func NewNewsAPI(client *http.Client, cfg Config) *NewsAPI {
	endpoint := cfg.NewsAPIURL
	if endpoint == "" {
		endpoint = DefaultNewsAPIURL
	}
	spacing := cfg.RateLimit
	if spacing <= 0 {
		spacing = time.Second
	}

	return &NewsAPI{
		client:   client,
		endpoint: endpoint,
		apiKey:   cfg.NewsAPIKey,
		limiter:  rate.NewLimiter(rate.Every(spacing), 1),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        "newsapi",
			MaxRequests: 1,
			Interval:    30 * time.Second,
			Timeout:     60 * time.Second,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= 3
			},
			OnStateChange: func(name string, from, to gobreaker.State) {
				logging.Warn("Circuit breaker state changed", "name", name, "from", from.String(), "to", to.String())
			},
		}),
	}
}

func (n *NewsAPI) Name() string { return "newsapi" }

// FetchTopic queries the topic's search terms, newest first.
func (n *NewsAPI) FetchTopic(ctx context.Context, t topics.Topic, count int) ([]model.Item, error) {
	if err := n.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	result, err := n.breaker.Execute(func() (any, error) {
		return n.query(ctx, t.Query)
	})
	if err != nil {
		return nil, err
	}

	articles := result.([]newsAPIArticle)
	if len(articles) > count {
		articles = articles[:count]
	}
	items := make([]model.Item, 0, len(articles))
	for _, a := range articles {
		items = append(items, convertArticle(a, t))
	}
	return items, nil
}

func (n *NewsAPI) query(ctx context.Context, q string) ([]newsAPIArticle, error) {
	params := url.Values{}
	params.Set("q", q)
	params.Set("language", "en")
	params.Set("sortBy", "publishedAt")
	params.Set("apiKey", n.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, n.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := n.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to query newsapi: %w", err)
	}
	defer resp.Body.Close()

	var body newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("failed to decode newsapi response (HTTP %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK || body.Status == "error" {
		return nil, fmt.Errorf("newsapi error: HTTP %d %s: %s", resp.StatusCode, body.Code, body.Message)
	}
	return body.Articles, nil
}

func convertArticle(a newsAPIArticle, t topics.Topic) model.Item {
	title := a.Title
	if title == "" {
		title = "No Title"
	}
	body := a.Description
	if body == "" {
		body = a.Content
	}
	source := a.Source.Name
	if source == "" {
		source = "Unknown Source"
	}

	item := model.Item{
		ID:       model.GenerateID(title, a.PublishedAt),
		Topic:    t.Key,
		Title:    title,
		Body:     body,
		Summary:  QuickNotes(body),
		URL:      a.URL,
		ImageURL: t.Placeholder,
		Source:   source,
	}
	if a.URLToImage != "" {
		item.ImageURL = a.URLToImage
	}
	item.Published, item.PublishedLabel = parsePublished(a.PublishedAt)
	return item
}

// parsePublished accepts RFC 3339 timestamps. Unparseable values are
// kept as the label verbatim.
func parsePublished(raw string) (time.Time, string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, model.FormatPublished(time.Time{})
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, raw
	}
	return t, model.FormatPublished(t)
}
