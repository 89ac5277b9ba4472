package summary

import (
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/session"
)

func testSummary() session.Summary {
	return session.Summary{
		SessionID:  "s1",
		Grade:      bank.Grade3,
		SkillID:    "G.1",
		SkillLabel: "Add with a number line",
		Duration:   4*time.Minute + 5*time.Second,
		Answered:   14,
		Correct:    11,
		Accuracy:   float64(11) / float64(14),
		FinalScore: 63,
		BestStreak: 6,
	}
}

func TestSummaryScreen_Title(t *testing.T) {
	s := New(testSummary())
	if s.Title() != "Session Summary" {
		t.Errorf("Title = %q, want %q", s.Title(), "Session Summary")
	}
}

func TestSummaryScreen_Display(t *testing.T) {
	view := ansi.Strip(New(testSummary()).View(100, 30))
	for _, want := range []string{
		"Grade 3 · Add with a number line",
		"Duration: 4:05",
		"Questions: 14",
		"Correct: 11",
		"Accuracy: 79%",
		"63%",
		"Best streak: 6",
	} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}

func TestHeadline(t *testing.T) {
	tests := []struct {
		answered, score int
		want            string
	}{
		{0, 0, "See you next time!"},
		{5, 95, "Outstanding!"},
		{5, 70, "Great work!"},
		{5, 12, "Session complete!"},
	}
	for _, tt := range tests {
		got := Headline(session.Summary{Answered: tt.answered, FinalScore: tt.score})
		if got != tt.want {
			t.Errorf("Headline(%d, %d) = %q, want %q", tt.answered, tt.score, got, tt.want)
		}
	}
}

func TestSummaryScreen_Navigation_Enter(t *testing.T) {
	s := New(testSummary())
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	if cmd == nil {
		t.Fatal("expected a command on Enter (pop)")
	}
	if _, ok := cmd().(router.PopScreenMsg); !ok {
		t.Error("expected PopScreenMsg")
	}
}

func TestSummaryScreen_KeyHints(t *testing.T) {
	s := New(testSummary())
	if hints := s.KeyHints(); len(hints) != 2 {
		t.Errorf("KeyHints length = %d, want 2", len(hints))
	}
}
