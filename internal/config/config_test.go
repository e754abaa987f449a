package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWhenFileMissing(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Scrape.DaysAhead != defaultScrapeDaysAhead {
		t.Errorf("DaysAhead = %d, want %d", cfg.Scrape.DaysAhead, defaultScrapeDaysAhead)
	}
	if cfg.TMDB.BaseURL != defaultTMDBBaseURL {
		t.Errorf("BaseURL = %q, want %q", cfg.TMDB.BaseURL, defaultTMDBBaseURL)
	}
}

func TestLoadParsesOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[paths]
data_dir = "` + filepath.Join(dir, "data") + `"
log_dir = "` + filepath.Join(dir, "logs") + `"

[scrape]
days_ahead = 7
concurrency = 2
timezone = "UTC"

[logging]
format = "json"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected config at %s to be used, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Scrape.DaysAhead != 7 || cfg.Scrape.Concurrency != 2 {
		t.Errorf("unexpected scrape config: %+v", cfg.Scrape)
	}
	if cfg.Logging.Format != "json" {
		t.Errorf("Format = %q, want json", cfg.Logging.Format)
	}
}

func TestValidateRejectsBadTimezone(t *testing.T) {
	cfg := Default()
	cfg.Scrape.Timezone = "Mars/Olympus_Mons"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown timezone")
	}
}

func TestValidateRejectsBadLogFormat(t *testing.T) {
	cfg := Default()
	cfg.Logging.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unsupported log format")
	}
}

func TestTMDBKeyEnvFallback(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "from-env")
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize failed: %v", err)
	}
	if cfg.TMDB.APIKey != "from-env" {
		t.Errorf("APIKey = %q, want from-env", cfg.TMDB.APIKey)
	}
}

func TestDatabasePath(t *testing.T) {
	cfg := Default()
	cfg.Paths.DataDir = "/tmp/cinescout-test"
	if got := cfg.DatabasePath(); got != "/tmp/cinescout-test/cinescout.db" {
		t.Errorf("DatabasePath() = %q", got)
	}
}
