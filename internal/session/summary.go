package session

import (
	"time"

	"github.com/abhisek/mathdrill/internal/bank"
)

// Summary holds the data displayed on the summary screen.
type Summary struct {
	SessionID     string        `json:"sessionId"`
	UserID        string        `json:"userId"`
	Grade         bank.Grade    `json:"grade"`
	SkillID       string        `json:"skillId"`
	SkillLabel    string        `json:"skillLabel"`
	Duration      time.Duration `json:"duration"`
	Answered      int           `json:"answered"`
	Correct       int           `json:"correct"`
	Accuracy      float64       `json:"accuracy"`
	FinalScore    int           `json:"finalScore"`
	BestStreak    int           `json:"bestStreak"`
	TimeRemaining int           `json:"timeRemaining"`
}

func buildSummary(sel Selection, sessionID string, st State, elapsed time.Duration) Summary {
	var accuracy float64
	if st.AnsweredCount > 0 {
		accuracy = float64(st.Correct) / float64(st.AnsweredCount)
	}
	return Summary{
		SessionID:     sessionID,
		UserID:        sel.UserID,
		Grade:         sel.Grade,
		SkillID:       sel.Skill.ID,
		SkillLabel:    sel.Skill.Label,
		Duration:      elapsed,
		Answered:      st.AnsweredCount,
		Correct:       st.Correct,
		Accuracy:      accuracy,
		FinalScore:    st.Score,
		BestStreak:    st.BestStreak,
		TimeRemaining: st.TimeRemaining,
	}
}
