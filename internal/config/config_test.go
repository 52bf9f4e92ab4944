package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{"NEWS_API_KEY", "HOST", "PORT", "FLICK_DATA_DIR"} {
		t.Setenv(k, "")
	}
}

func TestDefaults(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.News.Limit != 20 {
		t.Errorf("expected limit 20, got %d", cfg.News.Limit)
	}
	if cfg.Swipe.CommitThreshold != 100 {
		t.Errorf("expected threshold 100, got %v", cfg.Swipe.CommitThreshold)
	}
	if cfg.Transition() != 500*time.Millisecond {
		t.Errorf("expected 500ms transition, got %v", cfg.Transition())
	}
	if cfg.Addr() != "0.0.0.0:10000" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.News.Limit != 20 || cfg.Workers != 4 {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.json")

	cfg := DefaultConfig()
	cfg.News.APIKey = "secret"
	cfg.Swipe.CommitThreshold = 80
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat: %v", err)
	}
	if info.Mode().Perm() != 0600 {
		t.Errorf("config should be private, mode %v", info.Mode().Perm())
	}

	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if loaded.News.APIKey != "secret" || loaded.Swipe.CommitThreshold != 80 {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"news": {"limit": 5}}`), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom failed: %v", err)
	}
	if cfg.News.Limit != 5 {
		t.Errorf("expected limit 5, got %d", cfg.News.Limit)
	}
	if cfg.Server.Port != 10000 || cfg.Swipe.TransitionMs != 500 {
		t.Errorf("unset fields should keep defaults: %+v", cfg)
	}
}

func TestMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	os.WriteFile(path, []byte("{not json"), 0600)
	if _, err := LoadFrom(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("NEWS_API_KEY", "env-key")
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "8080")
	t.Setenv("FLICK_DATA_DIR", "/tmp/flick-test")

	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()

	if cfg.News.APIKey != "env-key" || cfg.Addr() != "127.0.0.1:8080" {
		t.Errorf("env not applied: %+v", cfg)
	}
	if cfg.DBPath() != filepath.Join("/tmp/flick-test", "flick.db") {
		t.Errorf("unexpected db path %s", cfg.DBPath())
	}
}

func TestPlaceholderKeyIgnored(t *testing.T) {
	clearEnv(t)
	t.Setenv("NEWS_API_KEY", "placeholder-key")
	cfg := DefaultConfig()
	cfg.AutoPopulateFromEnv()
	if cfg.News.APIKey != "" {
		t.Errorf("placeholder key should be ignored, got %q", cfg.News.APIKey)
	}
}

func TestLoadEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "# comment\nexport NEWS_API_KEY=\"from-file\"\nPORT=9000\nGARBAGE\n"
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := cfg.LoadEnvFile(path); err != nil {
		t.Fatalf("LoadEnvFile failed: %v", err)
	}
	if cfg.News.APIKey != "from-file" || cfg.Server.Port != 9000 {
		t.Errorf("env file not applied: %+v", cfg)
	}
}

func TestValidateRejectsBadRanges(t *testing.T) {
	tests := map[string]func(*Config){
		"limit too high": func(c *Config) { c.News.Limit = 51 },
		"zero threshold": func(c *Config) { c.Swipe.CommitThreshold = 0 },
		"bad port":       func(c *Config) { c.Server.Port = 70000 },
		"no workers":     func(c *Config) { c.Workers = 0 },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
