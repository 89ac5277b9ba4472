package progress

import (
	"context"
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// historyLimit is the number of history points drawn per skill.
const historyLimit = 30

type progressLoadedMsg struct {
	Rows []store.ProgressRecord
	Err  error
}

type historyLoadedMsg struct {
	Key    string
	Points []store.ScorePoint
	Err    error
}

// ProgressScreen lists the learner's SmartScore per skill. Enter expands a
// row into its score history.
type ProgressScreen struct {
	repo     store.ProgressRepo
	userID   string
	rows     []store.ProgressRecord
	history  map[string][]store.ScorePoint
	selected int
	expanded map[int]bool
	loaded   bool
	errMsg   string
}

var _ screen.Screen = (*ProgressScreen)(nil)
var _ screen.KeyHintProvider = (*ProgressScreen)(nil)

// New creates a progress screen for userID.
func New(repo store.ProgressRepo, userID string) *ProgressScreen {
	return &ProgressScreen{
		repo:     repo,
		userID:   userID,
		history:  make(map[string][]store.ScorePoint),
		expanded: make(map[int]bool),
	}
}

func (s *ProgressScreen) Init() tea.Cmd {
	if s.repo == nil {
		return func() tea.Msg { return progressLoadedMsg{} }
	}
	repo, user := s.repo, s.userID
	return func() tea.Msg {
		rows, err := repo.List(context.Background(), store.ProgressQuery{UserID: user})
		return progressLoadedMsg{Rows: rows, Err: err}
	}
}

func (s *ProgressScreen) Title() string {
	return "My Progress"
}

func (s *ProgressScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "Enter", Description: "History"},
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Esc", Description: "Back"},
	}
}

func rowKey(r store.ProgressRecord) string {
	return r.Grade + "/" + r.SkillID
}

func (s *ProgressScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case progressLoadedMsg:
		if msg.Err != nil {
			s.errMsg = msg.Err.Error()
		} else {
			s.rows = msg.Rows
		}
		s.loaded = true
		return s, nil

	case historyLoadedMsg:
		if msg.Err == nil {
			s.history[msg.Key] = msg.Points
		}
		return s, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "esc":
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		case "up", "k":
			if s.selected > 0 {
				s.selected--
			}
		case "down", "j":
			if s.selected < len(s.rows)-1 {
				s.selected++
			}
		case "enter":
			if s.selected < len(s.rows) {
				s.expanded[s.selected] = !s.expanded[s.selected]
				return s, s.loadHistory(s.rows[s.selected])
			}
		}
	}
	return s, nil
}

func (s *ProgressScreen) loadHistory(r store.ProgressRecord) tea.Cmd {
	key := rowKey(r)
	if _, ok := s.history[key]; ok || s.repo == nil {
		return nil
	}
	repo := s.repo
	return func() tea.Msg {
		pts, err := repo.History(context.Background(), r.UserID, r.Grade, r.SkillID, historyLimit)
		return historyLoadedMsg{Key: key, Points: pts, Err: err}
	}
}

func (s *ProgressScreen) View(width, height int) string {
	if s.errMsg != "" {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.Error).
			Render(fmt.Sprintf("\n\nError: %s", s.errMsg))
	}
	if !s.loaded {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).
			Render("\n\n  Loading progress...")
	}
	if len(s.rows) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No progress yet. Start practicing!")
	}

	var b strings.Builder
	b.WriteString("\n")
	barWidth := min(width-8, 70)

	for i, r := range s.rows {
		prefix := "  "
		if i == s.selected {
			prefix = "▸ "
		}
		label := fmt.Sprintf("%s%-14s %-6s %3d answered",
			prefix, gradeName(r.Grade), r.SkillID, r.TotalAnswered)
		line := components.ScoreBar(label, r.CurrentScore, barWidth).View()
		if i == s.selected {
			line = lipgloss.NewStyle().Bold(true).Render(line)
		}
		b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, line))
		b.WriteString("\n")

		if s.expanded[i] {
			pts, ok := s.history[rowKey(r)]
			var detail string
			switch {
			case !ok:
				detail = "    Loading history..."
			case len(pts) == 0:
				detail = "    No history recorded"
			default:
				detail = fmt.Sprintf("    %s  last %d answers", Sparkline(pts), len(pts))
			}
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center,
				lipgloss.NewStyle().Foreground(theme.Secondary).Render(detail)))
			b.WriteString("\n")
		}
	}
	return b.String()
}

func gradeName(tag string) string {
	if g, err := bank.ParseGrade(tag); err == nil {
		return g.DisplayName()
	}
	return tag
}

var sparkLevels = []rune("▁▂▃▄▅▆▇█")

// Sparkline draws scores on a fixed 0..100 scale, one rune per point.
func Sparkline(pts []store.ScorePoint) string {
	out := make([]rune, len(pts))
	top := len(sparkLevels) - 1
	for i, p := range pts {
		lvl := min(max(p.Score*top/100, 0), top)
		out[i] = sparkLevels[lvl]
	}
	return string(out)
}
