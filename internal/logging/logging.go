// Package logging builds the zap logger shared by the CLI, the TUI and the
// progress service.
package logging

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/abhisek/mathdrill/internal/config"
	"github.com/abhisek/mathdrill/internal/store"
)

// New returns a logger writing to cfg.File. With no file it returns a no-op
// logger, since the TUI owns the terminal.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.File == "" {
		return zap.NewNop(), nil
	}
	return build(cfg, cfg.File)
}

// NewStderr returns a logger writing to stderr, for commands that do not
// draw a TUI.
func NewStderr(cfg config.LogConfig) (*zap.Logger, error) {
	if cfg.File != "" {
		return build(cfg, cfg.File)
	}
	return build(cfg, "stderr")
}

func build(cfg config.LogConfig, sink string) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}

	var zc zap.Config
	if cfg.Format == "json" {
		zc = zap.NewProductionConfig()
	} else {
		zc = zap.NewDevelopmentConfig()
		zc.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
		zc.Development = false
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	zc.Sampling = nil

	if sink != "stderr" {
		if err := store.EnsureDir(sink); err != nil {
			return nil, fmt.Errorf("create log dir: %w", err)
		}
	}
	zc.OutputPaths = []string{sink}
	zc.ErrorOutputPaths = []string{sink}

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}
