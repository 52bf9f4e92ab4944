package server

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/abelbrown/flick/internal/engagement"
	"github.com/abelbrown/flick/internal/fetch"
	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/model"
	"github.com/abelbrown/flick/internal/session"
	"github.com/abelbrown/flick/internal/store"
	"github.com/abelbrown/flick/internal/topics"
)

// article is the wire form of an item.
type article struct {
	ID          string `json:"id"`
	Topic       string `json:"topic"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Content     string `json:"content"`
	URL         string `json:"url"`
	URLToImage  string `json:"urlToImage"`
	Source      string `json:"source"`
	PublishedAt string `json:"publishedAt"`
	Likes       int    `json:"likes"`
	Dislikes    int    `json:"dislikes"`
	Views       int    `json:"views"`
}

func toArticle(it model.Item) article {
	img := it.ImageURL
	if img == "" {
		img = topics.FallbackImage(it.Topic)
	}
	label := it.PublishedLabel
	if label == "" {
		label = model.FormatPublished(it.Published)
	}
	return article{
		ID:          it.Key(),
		Topic:       it.Topic,
		Title:       it.Title,
		Description: it.Summary,
		Content:     it.Body,
		URL:         it.URL,
		URLToImage:  img,
		Source:      it.Source,
		PublishedAt: label,
		Likes:       it.Approvals,
		Dislikes:    it.Disapprovals,
		Views:       it.Views,
	}
}

// handleNews serves GET /api/news?topics=a,b&num_articles=N.
// Without topics the saved preferences are used.
func (s *Server) handleNews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	limit := s.cfg.DefaultLimit
	if raw := q.Get("num_articles"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			writeError(w, http.StatusBadRequest, "num_articles must be a positive integer")
			return
		}
		limit = min(n, fetch.MaxLimit)
	}

	sel := splitList(q.Get("topics"))
	if len(sel) == 0 {
		saved, err := s.deps.Store.LoadPreferences(r.Context())
		if err != nil {
			logging.Error("Loading preferences failed", "error", err)
			writeError(w, http.StatusInternalServerError, "failed to load preferences")
			return
		}
		sel = saved
	}
	if len(sel) == 0 {
		sel = []string{topics.DefaultKey}
	}
	sel, err := session.Validate(sel)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	items, err := s.deps.Source.FetchItems(r.Context(), sel, limit)
	if err != nil {
		logging.Error("Fetching news failed", "topics", sel, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to fetch news")
		return
	}

	out := make([]article, 0, len(items))
	for _, it := range items {
		out = append(out, toArticle(it))
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topics":   sel,
		"articles": out,
	})
}

type swipeRequest struct {
	Action string `json:"action" validate:"required,oneof=accept reject like pass"`
	Topic  string `json:"topic" validate:"required"`
}

// handleSwipe serves POST /api/swipe.
func (s *Server) handleSwipe(w http.ResponseWriter, r *http.Request) {
	var req swipeRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !topics.Valid(req.Topic) {
		writeError(w, http.StatusBadRequest, "unknown topic "+strconv.Quote(req.Topic))
		return
	}

	accepted := req.Action == "accept" || req.Action == "like"
	if err := s.deps.Store.RecordSwipe(r.Context(), req.Topic, accepted); err != nil {
		logging.Error("Recording swipe failed", "topic", req.Topic, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record swipe")
		return
	}

	action := "reject"
	if accepted {
		action = "accept"
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveSwipe(action, req.Topic)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

type engagementRequest struct {
	ArticleID string `json:"article_id" validate:"required"`
	Action    string `json:"action" validate:"required,oneof=approve disapprove like dislike"`
	IsActive  *bool  `json:"is_active"`
}

type engagementResponse struct {
	Success bool `json:"success"`
	store.Counts
}

// handleEngagement serves POST /api/article-engagement. is_active defaults
// to true.
func (s *Server) handleEngagement(w http.ResponseWriter, r *http.Request) {
	var req engagementRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	action, err := engagement.ParseAction(req.Action)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	active := req.IsActive == nil || *req.IsActive

	counts, err := s.deps.Store.ApplyEngagement(r.Context(), req.ArticleID, action, active)
	if err != nil {
		logging.Error("Updating engagement failed", "article", req.ArticleID, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update engagement")
		return
	}
	if s.deps.Metrics != nil {
		s.deps.Metrics.ObserveEngagement(string(action), active)
	}
	writeJSON(w, http.StatusOK, engagementResponse{Success: true, Counts: counts})
}

// handleTopics serves GET /api/topics.
func (s *Server) handleTopics(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"topics":  topics.All(),
		"default": topics.DefaultKey,
	})
}

type preferencesRequest struct {
	Topics []string `json:"topics" validate:"required,min=1"`
}

// handleGetPreferences serves GET /api/user-preferences.
func (s *Server) handleGetPreferences(w http.ResponseWriter, r *http.Request) {
	saved, err := s.deps.Store.LoadPreferences(r.Context())
	if err != nil {
		logging.Error("Loading preferences failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load preferences")
		return
	}
	if saved == nil {
		saved = []string{}
	}
	writeJSON(w, http.StatusOK, preferencesRequest{Topics: saved})
}

// handleSavePreferences serves POST /api/user-preferences.
func (s *Server) handleSavePreferences(w http.ResponseWriter, r *http.Request) {
	var req preferencesRequest
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	sel, err := session.Validate(req.Topics)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := s.deps.Store.SavePreferences(r.Context(), sel); err != nil {
		logging.Error("Saving preferences failed", "error", err)
		writeError(w, http.StatusInternalServerError, session.ErrSavePreferences.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true, "topics": sel})
}

// handleAdmin serves GET /api/admin with store totals.
func (s *Server) handleAdmin(w http.ResponseWriter, _ *http.Request) {
	st, err := s.deps.Store.Stats()
	if err != nil {
		logging.Error("Reading stats failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read stats")
		return
	}
	writeJSON(w, http.StatusOK, st)
}

type workItem struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Status      string `json:"status"`
	Description string `json:"description"`
	Duration    string `json:"duration"`
	Error       string `json:"error,omitempty"`
}

// handleWork serves GET /api/work?n=N with pool counters and recent items.
func (s *Server) handleWork(w http.ResponseWriter, r *http.Request) {
	if s.deps.Work == nil {
		writeError(w, http.StatusNotFound, "work pool not attached")
		return
	}
	n := 20
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil || v < 1 {
			writeError(w, http.StatusBadRequest, "n must be a positive integer")
			return
		}
		n = v
	}

	recent := s.deps.Work.Recent(n)
	items := make([]workItem, 0, len(recent))
	for _, it := range recent {
		wi := workItem{
			ID:          it.ID,
			Type:        string(it.Type),
			Status:      string(it.Status),
			Description: it.Description,
			Duration:    it.Duration().Round(time.Millisecond).String(),
		}
		if it.Error != nil {
			wi.Error = it.Error.Error()
		}
		items = append(items, wi)
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"stats":  s.deps.Work.Stats(),
		"recent": items,
	})
}

// splitList parses a comma separated query value.
func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
