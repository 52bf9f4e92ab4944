package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config is the persistent application configuration
type Config struct {
	// News sources
	News NewsConfig `json:"news"`

	// Swipe interaction tuning
	Swipe SwipeConfig `json:"swipe"`

	// HTTP API
	Server ServerConfig `json:"server"`

	// Where the database and logs live. Empty means ~/.flick.
	DataDir string `json:"data_dir,omitempty"`

	// Background workers for persistence and fetches
	Workers int `json:"workers" validate:"gte=1,lte=64"`
}

// NewsConfig holds provider settings
type NewsConfig struct {
	APIKey      string `json:"api_key,omitempty"`
	Endpoint    string `json:"endpoint,omitempty"` // Custom NewsAPI endpoint
	Limit       int    `json:"limit" validate:"gte=1,lte=50"`
	TimeoutSec  int    `json:"timeout_sec" validate:"gte=1"`
	RateLimitMs int    `json:"rate_limit_ms" validate:"gte=0"`
	DisableRSS  bool   `json:"disable_rss"`
}

// SwipeConfig holds gesture settings
type SwipeConfig struct {
	CommitThreshold float64 `json:"commit_threshold" validate:"gt=0"`
	TransitionMs    int     `json:"transition_ms" validate:"gte=50,lte=5000"`
	// Terminal cells are mapped to pointer units by these factors.
	CellWidth  float64 `json:"cell_width" validate:"gt=0"`
	CellHeight float64 `json:"cell_height" validate:"gt=0"`
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Host           string   `json:"host"`
	Port           int      `json:"port" validate:"gte=1,lte=65535"`
	NewsPerMinute  int      `json:"news_per_minute" validate:"gte=1"`
	PrefsPerMinute int      `json:"prefs_per_minute" validate:"gte=1"`
	AllowedOrigins []string `json:"allowed_origins"`
	TrustProxy     bool     `json:"trust_proxy"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		News: NewsConfig{
			Limit:       20,
			TimeoutSec:  15,
			RateLimitMs: 1000,
		},
		Swipe: SwipeConfig{
			CommitThreshold: 100,
			TransitionMs:    500,
			CellWidth:       10,
			CellHeight:      20,
		},
		Server: ServerConfig{
			Host:           "0.0.0.0",
			Port:           10000,
			NewsPerMinute:  30,
			PrefsPerMinute: 10,
			AllowedOrigins: []string{"*"},
		},
		Workers: 4,
	}
}

// Transition returns the swipe transition as a duration.
func (c *Config) Transition() time.Duration {
	return time.Duration(c.Swipe.TransitionMs) * time.Millisecond
}

// Timeout returns the HTTP fetch timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.News.TimeoutSec) * time.Second
}

// RateLimit returns the minimum spacing between NewsAPI calls.
func (c *Config) RateLimit() time.Duration {
	return time.Duration(c.News.RateLimitMs) * time.Millisecond
}

// Addr returns the listen address for the HTTP API.
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}

// Dir returns the data directory, defaulting to ~/.flick.
func (c *Config) Dir() string {
	if c.DataDir != "" {
		return c.DataDir
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".flick")
}

// DBPath returns the SQLite database path.
func (c *Config) DBPath() string {
	return filepath.Join(c.Dir(), "flick.db")
}

// Validate checks field ranges.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ConfigPath returns the path to the config file
func ConfigPath() string {
	if dir := os.Getenv("FLICK_DATA_DIR"); dir != "" {
		return filepath.Join(dir, "config.json")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".flick", "config.json")
}

// Load reads config from disk, or returns defaults.
// Environment overrides apply in both cases.
func Load() (*Config, error) {
	return LoadFrom(ConfigPath())
}

// LoadFrom reads the config at path.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := json.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.AutoPopulateFromEnv()
	return cfg, nil
}

// Save writes config to disk
func (c *Config) Save() error {
	return c.SaveTo(ConfigPath())
}

// SaveTo writes config to path.
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600) // Restrictive permissions for API keys
}

// AutoPopulateFromEnv applies environment overrides
func (c *Config) AutoPopulateFromEnv() {
	c.apply(os.Getenv)
}

// LoadEnvFile applies KEY=value lines from a dotenv-style file.
func (c *Config) LoadEnvFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	vals := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		vals[strings.TrimSpace(key)] = strings.Trim(strings.TrimSpace(value), `"'`)
	}

	c.apply(func(k string) string { return vals[k] })
	return nil
}

func (c *Config) apply(getenv func(string) string) {
	// "placeholder-key" marks an unset key in .env templates.
	if key := getenv("NEWS_API_KEY"); key != "" && key != "placeholder-key" {
		c.News.APIKey = key
	}
	if host := getenv("HOST"); host != "" {
		c.Server.Host = host
	}
	if port, err := strconv.Atoi(getenv("PORT")); err == nil && port > 0 {
		c.Server.Port = port
	}
	if dir := getenv("FLICK_DATA_DIR"); dir != "" {
		c.DataDir = dir
	}
}
