package session

import (
	"context"
	"time"

	"github.com/abhisek/mathdrill/internal/bank"
)

// ProgressEvent is emitted after every accepted submission.
type ProgressEvent struct {
	UserID        string     `json:"userId"`
	Grade         bank.Grade `json:"grade"`
	SkillID       string     `json:"skillId"`
	Score         int        `json:"score"`
	AnsweredCount int        `json:"answeredCount"`
	SessionID     string     `json:"sessionId,omitempty"`
	QuestionID    string     `json:"questionId,omitempty"`
	Correct       bool       `json:"correct"`
	At            time.Time  `json:"at"`
}

// ProgressSink receives progress events. Calls are made from their own
// goroutine; a returned error is logged and otherwise ignored.
type ProgressSink interface {
	RecordProgress(ctx context.Context, ev ProgressEvent) error
}

// SessionStart is emitted when a selection starts a new session.
type SessionStart struct {
	SessionID string     `json:"sessionId"`
	UserID    string     `json:"userId"`
	Grade     bank.Grade `json:"grade"`
	SkillID   string     `json:"skillId"`
	Questions int        `json:"questions"`
	At        time.Time  `json:"at"`
}

// SessionRecorder is implemented by sinks that also track session
// boundaries.
type SessionRecorder interface {
	RecordSessionStart(ctx context.Context, ev SessionStart) error
	RecordSessionEnd(ctx context.Context, s Summary) error
}
