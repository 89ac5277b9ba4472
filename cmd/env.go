package cmd

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/engine"
	"github.com/abhisek/mathdrill/internal/logging"
	"github.com/abhisek/mathdrill/internal/progress"
	"github.com/abhisek/mathdrill/internal/screens/home"
	"github.com/abhisek/mathdrill/internal/screens/practice"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// env holds what every command shares: settings, logger, content and the
// optional store.
type env struct {
	cfg  config.Config
	log  *zap.Logger
	cat  *catalog.Catalog
	src  bank.Table
	st   *store.Store
	sink session.ProgressSink
}

// loadConfig reads the config file and applies the persistent flags on top.
func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return cfg, err
	}
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		if err := store.EnsureDir(p); err != nil {
			return cfg, fmt.Errorf("create database dir: %w", err)
		}
		cfg.Database.Driver = store.DriverSQLite
		cfg.Database.DSN = p
	}
	if dir, _ := cmd.Flags().GetString("banks"); dir != "" {
		cfg.BanksDir = dir
	}
	if u, _ := cmd.Flags().GetString("user"); u != "" {
		cfg.UserID = u
	}
	return cfg, cfg.Validate()
}

// setup loads everything a command needs. The TUI logs to the configured
// file only; other commands fall back to stderr.
func setup(cmd *cobra.Command, tui bool) (*env, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	var log *zap.Logger
	if tui {
		log, err = logging.New(cfg.Log)
	} else {
		log, err = logging.NewStderr(cfg.Log)
	}
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return newEnv(cfg, log)
}

// setupWith is setup for a non-TUI command that adjusted cfg itself.
func setupWith(cfg config.Config) (*env, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log, err := logging.NewStderr(cfg.Log)
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	return newEnv(cfg, log)
}

func newEnv(cfg config.Config, log *zap.Logger) (*env, error) {
	var err error
	e := &env{cfg: cfg, log: log}
	if e.cat, err = catalog.Default(); err != nil {
		return nil, err
	}
	if e.src, err = loadBanks(cfg.BanksDir); err != nil {
		return nil, err
	}

	if cfg.UsesStore() {
		if e.st, err = openStore(cfg); err != nil {
			return nil, err
		}
	}
	e.sink = e.buildSink()
	return e, nil
}

func loadBanks(dir string) (bank.Table, error) {
	embedded, err := bank.Embedded()
	if err != nil {
		return nil, fmt.Errorf("load embedded banks: %w", err)
	}
	if dir == "" {
		return embedded, nil
	}
	extra, err := bank.LoadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("load banks from %s: %w", dir, err)
	}
	return bank.Merge(embedded, extra), nil
}

func openStore(cfg config.Config) (*store.Store, error) {
	dsn, err := cfg.DatabaseDSN()
	if err != nil {
		return nil, fmt.Errorf("resolve database: %w", err)
	}
	st, err := store.OpenDriver(cfg.Database.Driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

func (e *env) buildSink() session.ProgressSink {
	var sinks progress.Multi
	if e.st != nil {
		sinks = append(sinks, progress.NewStore(e.st))
	}
	if e.cfg.UsesHTTP() {
		sinks = append(sinks, progress.NewHTTP(e.cfg.Progress.URL, &http.Client{Timeout: e.cfg.Progress.Timeout}))
	}
	switch len(sinks) {
	case 0:
		return progress.Nop{}
	case 1:
		return sinks[0]
	default:
		return sinks
	}
}

func (e *env) practiceDeps() practice.Deps {
	return practice.Deps{
		Source:  e.src,
		Engines: engine.Default(),
		Sink:    e.sink,
		Logger:  e.log,
		Config:  e.cfg.SessionSettings(),
		UserID:  e.cfg.UserID,
	}
}

func (e *env) homeOptions() home.Options {
	opts := home.Options{Catalog: e.cat, Practice: e.practiceDeps()}
	if e.st != nil {
		opts.Progress = e.st.ProgressRepo()
	}
	return opts
}

// selection resolves --grade and --skill against the catalog.
func (e *env) selection(gradeTag, skillID string) (session.Selection, error) {
	g, err := bank.ParseGrade(gradeTag)
	if err != nil {
		return session.Selection{}, err
	}
	sk, ok := e.cat.Lookup(g, skillID)
	if !ok {
		return session.Selection{}, fmt.Errorf("no skill %q in %s (see mathdrill bank list --grade %s)", skillID, g.DisplayName(), g)
	}
	return session.Selection{Grade: g, Skill: sk, UserID: e.cfg.UserID}, nil
}

// Close flushes the logger and closes the store.
func (e *env) Close() error {
	var errs []error
	if e.st != nil {
		errs = append(errs, e.st.Close())
	}
	// Sync on stderr fails with EINVAL on some platforms; the error is noise.
	_ = e.log.Sync()
	return errors.Join(errs...)
}
