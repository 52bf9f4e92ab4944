package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/spf13/cobra"

	"github.com/abelbrown/flick/internal/config"
	"github.com/abelbrown/flick/internal/fetch"
	"github.com/abelbrown/flick/internal/metrics"
	"github.com/abelbrown/flick/internal/store"
	"github.com/abelbrown/flick/internal/work"
)

var rootCmd = &cobra.Command{
	Use:   "flick",
	Short: "Swipe through the news in your terminal",
	Long: `flick shows one story at a time. Drag the card (or use the arrow keys)
right to accept it and left to reject it. Your topics and decisions are
kept in ~/.flick.`,
	SilenceUsage: true,
	RunE:         runTUI,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("config", "", "Path to config.json (default ~/.flick/config.json)")
	rootCmd.PersistentFlags().String("env-file", ".env", "dotenv file with NEWS_API_KEY, HOST, PORT")
}

// loadConfig reads the config file, then the env file, then validates.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		path = config.ConfigPath()
	}
	cfg, err := config.LoadFrom(path)
	if err != nil {
		return nil, err
	}

	if envFile, _ := cmd.Flags().GetString("env-file"); envFile != "" {
		if err := cfg.LoadEnvFile(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read env file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// backend is everything a command needs besides the UI.
type backend struct {
	cfg     *config.Config
	store   *store.Store
	pool    *work.Pool
	fetcher *fetch.Fetcher
	metrics *metrics.Collector
}

// openStore creates the data directory and opens the database.
func openStore(cfg *config.Config) (*store.Store, error) {
	if err := os.MkdirAll(cfg.Dir(), 0755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	st, err := store.Open(cfg.DBPath())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	return st, nil
}

// openBackend wires store, work pool and fetcher. The pool is started and
// runs until Close.
func openBackend(ctx context.Context, cfg *config.Config) (*backend, error) {
	st, err := openStore(cfg)
	if err != nil {
		return nil, err
	}

	collector := metrics.NewCollector()
	pool := work.NewPool(cfg.Workers,
		work.WithTimeout(cfg.Timeout()),
		work.WithObserver(collector.ObserveWork),
	)
	pool.Start(ctx)

	fetcher := fetch.NewFetcher(fetch.Config{
		NewsAPIKey: cfg.News.APIKey,
		NewsAPIURL: cfg.News.Endpoint,
		Timeout:    cfg.Timeout(),
		RateLimit:  cfg.RateLimit(),
		DisableRSS: cfg.News.DisableRSS,
	}, fetch.WithCounts(st))

	return &backend{
		cfg:     cfg,
		store:   st,
		pool:    pool,
		fetcher: fetcher,
		metrics: collector,
	}, nil
}

// Close drains pending writes before closing the database.
func (b *backend) Close() {
	b.pool.Stop()
	b.store.Close()
}
