package skills

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/practice"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// PremiumBadge marks premium skills. Premium skills are not locked.
const PremiumBadge = "PREMIUM"

// SkillsScreen lists the skills of one grade.
type SkillsScreen struct {
	grade  bank.Grade
	skills []catalog.Skill
	menu   components.Menu
}

var _ screen.Screen = (*SkillsScreen)(nil)
var _ screen.KeyHintProvider = (*SkillsScreen)(nil)

// New creates the skill picker for grade g.
func New(cat *catalog.Catalog, g bank.Grade, deps practice.Deps) *SkillsScreen {
	var skills []catalog.Skill
	if cat != nil {
		skills = cat.ByGrade(g)
	}

	items := make([]components.MenuItem, 0, len(skills))
	for _, sk := range skills {
		item := components.MenuItem{
			Label: sk.ID + "  " + sk.Label,
			Action: func() tea.Cmd {
				sel := session.Selection{Grade: g, Skill: sk, UserID: deps.UserID}
				return func() tea.Msg {
					return router.PushScreenMsg{Screen: practice.New(sel, deps)}
				}
			},
		}
		if sk.Premium {
			item.Badge = PremiumBadge
		}
		items = append(items, item)
	}

	return &SkillsScreen{grade: g, skills: skills, menu: components.NewMenu(items)}
}

func (s *SkillsScreen) Init() tea.Cmd {
	return nil
}

func (s *SkillsScreen) Title() string {
	return s.grade.DisplayName()
}

func (s *SkillsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Practice"},
		{Key: "Esc", Description: "Back"},
	}
}

func (s *SkillsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *SkillsScreen) View(width, height int) string {
	if len(s.skills) == 0 {
		return lipgloss.NewStyle().
			Width(width).Align(lipgloss.Center).Foreground(theme.TextDim).Italic(true).
			Render("\n\n  No skills for this grade yet.")
	}

	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(layout.Centered("Pick a skill to practice", width, theme.TextDim))
	b.WriteString("\n\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}
