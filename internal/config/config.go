// Package config loads mathdrill settings from a YAML file, a .env file and
// MATHDRILL_* environment variables, in increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// Sink modes select where progress events go.
const (
	SinkLocal = "local"
	SinkHTTP  = "http"
	SinkBoth  = "both"
	SinkNone  = "none"
)

// Config holds all mathdrill settings.
type Config struct {
	UserID   string         `yaml:"user"`
	BanksDir string         `yaml:"banks_dir"`
	Session  SessionConfig  `yaml:"session"`
	Database DatabaseConfig `yaml:"database"`
	Progress ProgressConfig `yaml:"progress"`
	Server   ServerConfig   `yaml:"server"`
	Log      LogConfig      `yaml:"log"`
}

// SessionConfig tunes the practice loop.
type SessionConfig struct {
	Budget               time.Duration `yaml:"budget"`
	FeedbackDelay        time.Duration `yaml:"feedback_delay"`
	CelebrationDuration  time.Duration `yaml:"celebration_duration"`
	CelebrationThreshold int           `yaml:"celebration_threshold"`
}

// DatabaseConfig selects the local store.
type DatabaseConfig struct {
	Driver string `yaml:"driver"` // "sqlite" or "postgres"
	DSN    string `yaml:"dsn"`    // empty uses store.DefaultDBPath for sqlite
}

// ProgressConfig selects the progress sinks.
type ProgressConfig struct {
	Sink    string        `yaml:"sink"`
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

// ServerConfig configures `mathdrill serve`.
type ServerConfig struct {
	Addr           string   `yaml:"addr"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig configures the zap logger. An empty File disables logging for
// the TUI.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // "console" or "json"
	File   string `yaml:"file"`
}

// Default returns the built-in settings.
func Default() Config {
	sc := session.DefaultConfig()
	return Config{
		UserID: "local",
		Session: SessionConfig{
			Budget:               sc.Budget,
			FeedbackDelay:        sc.FeedbackDelay,
			CelebrationDuration:  sc.CelebrationDuration,
			CelebrationThreshold: sc.CelebrationThreshold,
		},
		Database: DatabaseConfig{Driver: store.DriverSQLite},
		Progress: ProgressConfig{Sink: SinkLocal, Timeout: session.DefaultSinkTimeout},
		Server:   ServerConfig{Addr: ":8080"},
		Log:      LogConfig{Level: "info", Format: "console"},
	}
}

// DefaultPath returns the config file location: MATHDRILL_CONFIG, then
// $XDG_CONFIG_HOME/mathdrill/config.yaml, then ~/.config/mathdrill/config.yaml.
func DefaultPath() string {
	if p := os.Getenv("MATHDRILL_CONFIG"); p != "" {
		return p
	}
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml"
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "mathdrill", "config.yaml")
}

// Load builds the configuration. An empty path reads DefaultPath and
// tolerates its absence; an explicit path must exist.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	explicit := path != ""
	if !explicit {
		path = DefaultPath()
	}

	raw, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() error {
	str := func(key string, dst *string) {
		if v, ok := os.LookupEnv(key); ok && v != "" {
			*dst = v
		}
	}
	dur := func(key string, dst *time.Duration) error {
		v, ok := os.LookupEnv(key)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		*dst = d
		return nil
	}

	str("MATHDRILL_USER", &c.UserID)
	str("MATHDRILL_BANKS", &c.BanksDir)
	str("MATHDRILL_DB_DRIVER", &c.Database.Driver)
	str("MATHDRILL_DB", &c.Database.DSN)
	str("MATHDRILL_SINK", &c.Progress.Sink)
	str("MATHDRILL_PROGRESS_URL", &c.Progress.URL)
	str("MATHDRILL_ADDR", &c.Server.Addr)
	str("MATHDRILL_LOG_LEVEL", &c.Log.Level)
	str("MATHDRILL_LOG_FORMAT", &c.Log.Format)
	str("MATHDRILL_LOG_FILE", &c.Log.File)
	if v := os.Getenv("MATHDRILL_CORS_ORIGINS"); v != "" {
		c.Server.AllowedOrigins = nil
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				c.Server.AllowedOrigins = append(c.Server.AllowedOrigins, o)
			}
		}
	}

	return errors.Join(
		dur("MATHDRILL_SESSION_BUDGET", &c.Session.Budget),
		dur("MATHDRILL_FEEDBACK_DELAY", &c.Session.FeedbackDelay),
		dur("MATHDRILL_CELEBRATION_DURATION", &c.Session.CelebrationDuration),
		dur("MATHDRILL_PROGRESS_TIMEOUT", &c.Progress.Timeout),
	)
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []string
	if c.UserID == "" {
		errs = append(errs, "user must not be empty")
	}
	if c.Session.Budget < time.Second {
		errs = append(errs, fmt.Sprintf("session.budget %s must be at least 1s", c.Session.Budget))
	}
	if c.Session.FeedbackDelay < 0 {
		errs = append(errs, "session.feedback_delay must not be negative")
	}
	if c.Session.CelebrationDuration < 0 {
		errs = append(errs, "session.celebration_duration must not be negative")
	}
	if t := c.Session.CelebrationThreshold; t < 0 || t > 100 {
		errs = append(errs, fmt.Sprintf("session.celebration_threshold %d out of range [0, 100]", t))
	}
	switch c.Database.Driver {
	case store.DriverSQLite, store.DriverPostgres:
	default:
		errs = append(errs, fmt.Sprintf("database.driver %q must be sqlite or postgres", c.Database.Driver))
	}
	if c.Database.Driver == store.DriverPostgres && c.Database.DSN == "" {
		errs = append(errs, "database.dsn is required for postgres")
	}
	switch c.Progress.Sink {
	case SinkLocal, SinkNone:
	case SinkHTTP, SinkBoth:
		if c.Progress.URL == "" {
			errs = append(errs, fmt.Sprintf("progress.url is required for sink %q", c.Progress.Sink))
		}
	default:
		errs = append(errs, fmt.Sprintf("progress.sink %q must be one of local, http, both, none", c.Progress.Sink))
	}
	if c.Progress.Timeout < 0 {
		errs = append(errs, "progress.timeout must not be negative")
	}
	if _, err := zapcore.ParseLevel(c.Log.Level); err != nil {
		errs = append(errs, fmt.Sprintf("log.level: %v", err))
	}
	if c.Log.Format != "console" && c.Log.Format != "json" {
		errs = append(errs, fmt.Sprintf("log.format %q must be console or json", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

// SessionSettings converts the session section for the controller.
func (c Config) SessionSettings() session.Config {
	return session.Config{
		Budget:               c.Session.Budget,
		FeedbackDelay:        c.Session.FeedbackDelay,
		CelebrationDuration:  c.Session.CelebrationDuration,
		CelebrationThreshold: c.Session.CelebrationThreshold,
	}
}

// DatabaseDSN returns the configured DSN, falling back to the default
// SQLite path, whose directory is created on demand.
func (c Config) DatabaseDSN() (string, error) {
	if c.Database.DSN != "" {
		return c.Database.DSN, nil
	}
	return store.DefaultDBPath()
}

// UsesStore reports whether progress goes to the local database.
func (c Config) UsesStore() bool {
	return c.Progress.Sink == SinkLocal || c.Progress.Sink == SinkBoth
}

// UsesHTTP reports whether progress is posted to a progress service.
func (c Config) UsesHTTP() bool {
	return c.Progress.Sink == SinkHTTP || c.Progress.Sink == SinkBoth
}
