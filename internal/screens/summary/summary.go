package summary

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// SummaryScreen displays the result of a finished practice session.
type SummaryScreen struct {
	summary session.Summary
	done    components.Button
}

var _ screen.Screen = (*SummaryScreen)(nil)
var _ screen.KeyHintProvider = (*SummaryScreen)(nil)

// New creates a new SummaryScreen.
func New(sum session.Summary) *SummaryScreen {
	return &SummaryScreen{
		summary: sum,
		done: components.NewButton("Pick another skill", true, func() tea.Cmd {
			return func() tea.Msg { return router.PopScreenMsg{} }
		}),
	}
}

func (s *SummaryScreen) Init() tea.Cmd {
	return nil
}

func (s *SummaryScreen) Title() string {
	return "Session Summary"
}

func (s *SummaryScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "Continue"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SummaryScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.done, cmd = s.done.Update(msg)
	return s, cmd
}

// Headline returns the one-line verdict for a final score.
func Headline(sum session.Summary) string {
	switch {
	case sum.Answered == 0:
		return "See you next time!"
	case sum.FinalScore >= 90:
		return "Outstanding!"
	case sum.FinalScore >= 70:
		return "Great work!"
	default:
		return "Session complete!"
	}
}

func (s *SummaryScreen) View(width, height int) string {
	sum := s.summary
	var b strings.Builder

	b.WriteString(lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.Primary).
		Bold(true).
		Render(Headline(sum)))
	b.WriteString("\n\n")

	skill := sum.SkillLabel
	if skill == "" {
		skill = sum.SkillID
	}
	b.WriteString(layout.Centered(fmt.Sprintf("%s · %s", sum.Grade.DisplayName(), skill), width, theme.Secondary))
	b.WriteString("\n")

	mins := int(sum.Duration.Minutes())
	secs := int(sum.Duration.Seconds()) % 60
	b.WriteString(layout.Centered(fmt.Sprintf("Duration: %d:%02d", mins, secs), width, theme.TextDim))
	b.WriteString("\n\n")

	cw := min(width-8, 60)
	stats := fmt.Sprintf("Questions: %d    Correct: %d    Accuracy: %.0f%%",
		sum.Answered, sum.Correct, sum.Accuracy*100)
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.ArcadeCard(lipgloss.NewStyle().Foreground(theme.Text).Render(stats), cw)))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
		components.ScoreBar("SmartScore", sum.FinalScore, cw).View()))
	b.WriteString("\n")
	b.WriteString(layout.Centered(fmt.Sprintf("Best streak: %d", sum.BestStreak), width, theme.Accent))
	b.WriteString("\n\n")

	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.done.View()))
	return b.String()
}
