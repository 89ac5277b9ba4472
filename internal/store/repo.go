package store

import (
	"context"
	"time"
)

// ProgressData is one scored answer to persist.
type ProgressData struct {
	UserID        string
	Grade         string
	SkillID       string
	Score         int
	AnsweredCount int
	SessionID     string
	QuestionID    string
	Correct       bool
	At            time.Time
}

// ProgressRecord is the latest progress for one (user, grade, skill).
type ProgressRecord struct {
	UserID        string    `json:"userId"`
	Grade         string    `json:"grade"`
	SkillID       string    `json:"skillId"`
	CurrentScore  int       `json:"currentScore"`
	TotalAnswered int       `json:"totalAnswered"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ScorePoint is one entry of a skill's score history.
type ScorePoint struct {
	Sequence      int64     `json:"sequence"`
	SessionID     string    `json:"sessionId"`
	QuestionID    string    `json:"questionId"`
	Score         int       `json:"score"`
	AnsweredCount int       `json:"answeredCount"`
	Correct       bool      `json:"correct"`
	RecordedAt    time.Time `json:"recordedAt"`
}

// ProgressQuery filters progress listings. Empty fields match everything.
type ProgressQuery struct {
	UserID  string
	Grade   string
	SkillID string
}

// ProgressRepo stores per-skill progress and its score history.
type ProgressRepo interface {
	// Record upserts the (user, grade, skill) row and appends to its history.
	// The row keeps the most recent answer by time; an older one still goes
	// to the history.
	Record(ctx context.Context, data ProgressData) error

	// List returns progress rows, most recently updated first.
	List(ctx context.Context, q ProgressQuery) ([]ProgressRecord, error)

	// History returns the score history of one skill in recording order,
	// limited to the last limit entries when limit > 0.
	History(ctx context.Context, userID, grade, skillID string, limit int) ([]ScorePoint, error)
}

// Session event actions.
const (
	SessionStart = "start"
	SessionEnd   = "end"
)

// SessionEventData captures the data for a session start or end event.
type SessionEventData struct {
	SessionID    string
	Action       string // SessionStart or SessionEnd
	UserID       string
	Grade        string
	SkillID      string
	Questions    int
	Answered     int
	Correct      int
	FinalScore   int
	BestStreak   int
	DurationSecs int
	At           time.Time
}

// SessionEventRecord is a stored session event.
type SessionEventRecord struct {
	Sequence int64 `json:"sequence"`
	SessionEventData
}

// EventRepo provides append and query access to session events.
type EventRepo interface {
	AppendSessionEvent(ctx context.Context, data SessionEventData) error

	// RecentSessions returns the newest session events for a user, newest
	// first. An empty userID matches every user.
	RecentSessions(ctx context.Context, userID string, limit int) ([]SessionEventRecord, error)
}
