package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/score"
)

// Phase is the controller's state machine position.
type Phase int

const (
	PhaseIdle     Phase = iota // Accepting an answer
	PhaseAnswered              // Feedback shown, input locked until the advance
)

func (p Phase) String() string {
	if p == PhaseAnswered {
		return "answered"
	}
	return "idle"
}

// Feedback is the result shown for the current question.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackWrong
)

func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackWrong:
		return "wrong"
	default:
		return "none"
	}
}

// Config holds the session timing and celebration settings.
type Config struct {
	// Budget is the countdown shown to the learner. Reaching zero does not
	// stop the session.
	Budget time.Duration

	// FeedbackDelay is how long feedback stays up before the next question.
	FeedbackDelay time.Duration

	// CelebrationDuration is how long the celebration signal stays set.
	CelebrationDuration time.Duration

	// CelebrationThreshold is the minimum score for a correct answer to
	// celebrate.
	CelebrationThreshold int
}

// DefaultConfig returns the standard session settings.
func DefaultConfig() Config {
	return Config{
		Budget:               300 * time.Second,
		FeedbackDelay:        800 * time.Millisecond,
		CelebrationDuration:  2 * time.Second,
		CelebrationThreshold: score.CelebrationThreshold,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Budget <= 0 {
		c.Budget = d.Budget
	}
	if c.FeedbackDelay <= 0 {
		c.FeedbackDelay = d.FeedbackDelay
	}
	if c.CelebrationDuration <= 0 {
		c.CelebrationDuration = d.CelebrationDuration
	}
	if c.CelebrationThreshold <= 0 {
		c.CelebrationThreshold = d.CelebrationThreshold
	}
	return c
}

// Selection identifies what the learner is practicing.
type Selection struct {
	Grade  bank.Grade
	Skill  catalog.Skill
	UserID string
}

// State is a snapshot of the session. Only the Controller writes it.
type State struct {
	// Cursor indexes the filtered bank. Always 0 for an empty bank.
	Cursor int

	// Score is the SmartScore in [0, 100].
	Score int

	// Streak counts consecutive correct answers.
	Streak int

	// BestStreak is the longest streak reached this session.
	BestStreak int

	// TimeRemaining is the countdown in whole seconds, floored at 0.
	TimeRemaining int

	// PendingAnswer is the typed answer not yet submitted.
	PendingAnswer string

	Feedback Feedback

	// AnsweredCount counts submissions this session.
	AnsweredCount int

	// Correct counts correct submissions this session.
	Correct int

	// Celebrating is set after a high-scoring correct answer and clears on
	// its own.
	Celebrating bool
}

func newState(cfg Config) State {
	return State{TimeRemaining: int(cfg.Budget / time.Second)}
}

// Outcome describes one accepted submission.
type Outcome struct {
	Question  bank.Question
	Submitted string
	Correct   bool
	Score     int
	Streak    int
	Celebrate bool
}
