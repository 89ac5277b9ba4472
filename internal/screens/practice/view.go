package practice

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// EmptyMessage is shown when the selection matches no questions.
const EmptyMessage = "No questions found for this grade/skill yet."

func (s *PracticeScreen) View(width, height int) string {
	if s.showQuitConfirm {
		return renderQuitConfirm(width)
	}
	q, ok := s.ctl.Current()
	if !ok {
		return renderEmpty(width)
	}

	st := s.ctl.State()
	var b strings.Builder

	b.WriteString(s.renderInfoLine(st, width))
	b.WriteString("\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", max(width-4, 0))))
	b.WriteString("\n\n")

	if q.Prompt != "" {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Text).
			Bold(true).
			Render(q.Prompt))
		b.WriteString("\n\n")
	}

	if body := s.engines.Lookup(q.Engine).Render(q.Data, max(width-8, 10)); body != "" {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, body))
		b.WriteString("\n\n")
	}

	if len(s.choices) > 0 {
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.mc.View()))
	} else {
		b.WriteString(lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Render("Answer: " + s.input.View()))
	}
	b.WriteString("\n\n")

	b.WriteString(s.renderFeedback(st, width))

	if st.Celebrating {
		b.WriteString("\n\n")
		b.WriteString(theme.Celebrate.Width(width).Render(celebration))
	}
	return b.String()
}

const celebration = "✦ ✧ ✦  Amazing! SmartScore 90+  ✦ ✧ ✦"

func (s *PracticeScreen) renderInfoLine(st sess.State, width int) string {
	left := lipgloss.NewStyle().
		Foreground(theme.Secondary).
		Bold(true).
		Render(fmt.Sprintf("  Question %d/%d", st.Cursor+1, s.ctl.Len()))

	streak := lipgloss.NewStyle().Foreground(theme.Accent).Render(fmt.Sprintf("★ %d", st.Streak))
	timer := lipgloss.NewStyle().Foreground(theme.TextDim).Render("⏱ " + formatClock(st.TimeRemaining))
	bar := components.ScoreBar("SmartScore", st.Score, 34).View()
	right := bar + "   " + streak + "   " + timer

	pad := width - lipgloss.Width(left) - lipgloss.Width(right) - 4
	if pad < 1 {
		return left + "\n  " + right
	}
	return left + strings.Repeat(" ", pad) + right
}

func (s *PracticeScreen) renderFeedback(st sess.State, width int) string {
	switch st.Feedback {
	case sess.FeedbackCorrect:
		return lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Success).
			Bold(true).
			Render("Correct!")
	case sess.FeedbackWrong:
		msg := lipgloss.NewStyle().
			Width(width).
			Align(lipgloss.Center).
			Foreground(theme.Error).
			Bold(true).
			Render("Not quite")
		if s.last != nil {
			msg += "\n" + lipgloss.NewStyle().
				Width(width).
				Align(lipgloss.Center).
				Foreground(theme.TextDim).
				Render(fmt.Sprintf("Correct answer: %s", s.last.Question.Answer))
		}
		return msg
	}
	return ""
}

func formatClock(secs int) string {
	return fmt.Sprintf("%d:%02d", secs/60, secs%60)
}

func renderQuitConfirm(width int) string {
	var b strings.Builder
	b.WriteString("\n\n\n")
	b.WriteString(layout.Centered("Finish this session?", width, theme.Text))
	b.WriteString("\n")
	b.WriteString(layout.Centered("Your SmartScore is already saved.", width, theme.TextDim))
	b.WriteString("\n\n")
	b.WriteString(layout.Centered("[Y] Yes, show my summary", width, theme.Success))
	b.WriteString("\n")
	b.WriteString(layout.Centered("[N] No, keep going", width, theme.Primary))
	return b.String()
}

func renderEmpty(width int) string {
	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Foreground(theme.TextDim).
		Italic(true).
		Render("\n\n\n" + EmptyMessage)
}
