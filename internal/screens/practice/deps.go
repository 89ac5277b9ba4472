package practice

import (
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/engine"
	"github.com/abhisek/mathdrill/internal/session"
)

// Deps are the collaborators a practice screen needs. The zero value works:
// it practices against an empty bank and records nothing.
type Deps struct {
	Source  bank.Source
	Engines *engine.Registry
	Sink    session.ProgressSink
	Logger  *zap.Logger
	Config  session.Config
	UserID  string
}
