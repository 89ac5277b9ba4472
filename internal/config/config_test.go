package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, kv := range os.Environ() {
		if k, _, _ := strings.Cut(kv, "="); strings.HasPrefix(k, "MATHDRILL_") {
			t.Setenv(k, "")
		}
	}
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should be valid, got: %v", err)
	}
	if cfg.Session.Budget != 300*time.Second {
		t.Errorf("budget = %s, want 5m0s", cfg.Session.Budget)
	}
	if cfg.Session.FeedbackDelay != 800*time.Millisecond {
		t.Errorf("feedback delay = %s, want 800ms", cfg.Session.FeedbackDelay)
	}
}

func TestLoad_MissingDefaultFile(t *testing.T) {
	clearEnv(t)
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Progress.Sink != SinkLocal {
		t.Errorf("sink = %q, want local", cfg.Progress.Sink)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing explicit config")
	}
}

func TestLoad_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
user: maya
session:
  budget: 2m
  feedback_delay: 500ms
progress:
  sink: both
  url: http://localhost:8080
server:
  allowed_origins: [http://localhost:5173]
log:
  level: debug
  format: json
  file: /tmp/mathdrill.log
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UserID != "maya" {
		t.Errorf("user = %q", cfg.UserID)
	}
	if cfg.Session.Budget != 2*time.Minute || cfg.Session.FeedbackDelay != 500*time.Millisecond {
		t.Errorf("session = %+v", cfg.Session)
	}
	if cfg.Session.CelebrationDuration != 2*time.Second {
		t.Errorf("unset celebration duration should keep default, got %s", cfg.Session.CelebrationDuration)
	}
	if !cfg.UsesStore() || !cfg.UsesHTTP() {
		t.Error("sink both should use store and http")
	}
	if len(cfg.Server.AllowedOrigins) != 1 {
		t.Errorf("origins = %v", cfg.Server.AllowedOrigins)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "user: maya\n")
	t.Setenv("MATHDRILL_USER", "leo")
	t.Setenv("MATHDRILL_SESSION_BUDGET", "90s")
	t.Setenv("MATHDRILL_SINK", "none")
	t.Setenv("MATHDRILL_CORS_ORIGINS", "http://a.test, http://b.test")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.UserID != "leo" {
		t.Errorf("user = %q, want env override", cfg.UserID)
	}
	if cfg.Session.Budget != 90*time.Second {
		t.Errorf("budget = %s", cfg.Session.Budget)
	}
	if cfg.UsesStore() || cfg.UsesHTTP() {
		t.Error("sink none should use nothing")
	}
	if got := cfg.Server.AllowedOrigins; len(got) != 2 || got[1] != "http://b.test" {
		t.Errorf("origins = %v", got)
	}
}

func TestLoad_BadEnvDuration(t *testing.T) {
	clearEnv(t)
	t.Setenv("MATHDRILL_FEEDBACK_DELAY", "soon")
	_, err := Load("")
	if err == nil || !strings.Contains(err.Error(), "MATHDRILL_FEEDBACK_DELAY") {
		t.Fatalf("expected env duration error, got %v", err)
	}
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "session: [\n")
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"empty user", func(c *Config) { c.UserID = "" }, "user"},
		{"short budget", func(c *Config) { c.Session.Budget = 0 }, "session.budget"},
		{"negative delay", func(c *Config) { c.Session.FeedbackDelay = -time.Second }, "feedback_delay"},
		{"threshold too high", func(c *Config) { c.Session.CelebrationThreshold = 101 }, "celebration_threshold"},
		{"bad driver", func(c *Config) { c.Database.Driver = "oracle" }, "database.driver"},
		{"postgres without dsn", func(c *Config) { c.Database.Driver = "postgres" }, "database.dsn"},
		{"http without url", func(c *Config) { c.Progress.Sink = SinkHTTP }, "progress.url"},
		{"bad sink", func(c *Config) { c.Progress.Sink = "cloud" }, "progress.sink"},
		{"bad level", func(c *Config) { c.Log.Level = "loud" }, "log.level"},
		{"bad format", func(c *Config) { c.Log.Format = "xml" }, "log.format"},
		{"postgres with dsn", func(c *Config) {
			c.Database.Driver = "postgres"
			c.Database.DSN = "postgres://localhost/mathdrill"
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("expected no error, got: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error = %v, want mention of %q", err, tt.wantErr)
			}
		})
	}
}

func TestSessionSettings(t *testing.T) {
	cfg := Default()
	cfg.Session.Budget = time.Minute
	sc := cfg.SessionSettings()
	if sc.Budget != time.Minute || sc.FeedbackDelay != 800*time.Millisecond || sc.CelebrationThreshold != 90 {
		t.Errorf("session settings = %+v", sc)
	}
}

func TestDatabaseDSN(t *testing.T) {
	clearEnv(t)
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg := Default()
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		t.Fatalf("DatabaseDSN: %v", err)
	}
	if filepath.Base(dsn) != "mathdrill.db" {
		t.Errorf("dsn = %q", dsn)
	}

	cfg.Database.DSN = "file:x.db"
	if dsn, _ := cfg.DatabaseDSN(); dsn != "file:x.db" {
		t.Errorf("explicit dsn = %q", dsn)
	}
}
