// Package server exposes the swipe backend over HTTP for web clients.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/abelbrown/flick/internal/engagement"
	"github.com/abelbrown/flick/internal/logging"
	"github.com/abelbrown/flick/internal/metrics"
	"github.com/abelbrown/flick/internal/session"
	"github.com/abelbrown/flick/internal/store"
	"github.com/abelbrown/flick/internal/work"
)

// Store is the persistence the API needs.
type Store interface {
	session.Preferences
	session.Tallies
	ApplyEngagement(ctx context.Context, itemID string, action engagement.Action, active bool) (store.Counts, error)
	Stats() (store.Stats, error)
}

// WorkSource reports background work.
type WorkSource interface {
	Stats() work.Stats
	Recent(n int) []*work.Item
}

// Config holds the API limits.
type Config struct {
	DefaultLimit   int
	NewsPerMinute  int
	PrefsPerMinute int
	AllowedOrigins []string

	// TrustProxy takes the client address from X-Forwarded-For and
	// X-Real-IP. Enable only behind a proxy that sets them.
	TrustProxy bool
}

// Deps are the server's collaborators. Work and Metrics may be nil.
type Deps struct {
	Source  session.ItemSource
	Store   Store
	Work    WorkSource
	Metrics *metrics.Collector
}

// Server serves the JSON API.
type Server struct {
	cfg  Config
	deps Deps

	newsLimiter  *ipLimiter
	prefsLimiter *ipLimiter
}

// New creates a server. Zero config fields get the defaults.
func New(cfg Config, deps Deps) *Server {
	if cfg.DefaultLimit <= 0 {
		cfg.DefaultLimit = session.DefaultLimit
	}
	if cfg.NewsPerMinute <= 0 {
		cfg.NewsPerMinute = 30
	}
	if cfg.PrefsPerMinute <= 0 {
		cfg.PrefsPerMinute = 10
	}
	if len(cfg.AllowedOrigins) == 0 {
		cfg.AllowedOrigins = []string{"*"}
	}
	return &Server{
		cfg:          cfg,
		deps:         deps,
		newsLimiter:  newIPLimiter(cfg.NewsPerMinute, time.Minute),
		prefsLimiter: newIPLimiter(cfg.PrefsPerMinute, time.Minute),
	}
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	if s.cfg.TrustProxy {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.cfg.AllowedOrigins,
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))
	if s.deps.Metrics != nil {
		r.Use(observe(s.deps.Metrics))
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.With(s.newsLimiter.middleware).Get("/news", s.handleNews)
		r.Post("/swipe", s.handleSwipe)
		r.Post("/article-engagement", s.handleEngagement)
		r.Get("/topics", s.handleTopics)
		r.Get("/user-preferences", s.handleGetPreferences)
		r.With(s.prefsLimiter.middleware).Post("/user-preferences", s.handleSavePreferences)
		r.Get("/admin", s.handleAdmin)
		r.Get("/work", s.handleWork)
	})

	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics.Handler())
	}
	return r
}

// ListenAndServe serves on addr until ctx is cancelled.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info("API listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	logging.Info("API stopped")
	return nil
}
