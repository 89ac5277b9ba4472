// Package grades is the grade picker, the first step of choosing what to
// practice.
package grades

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/practice"
	"github.com/abhisek/mathdrill/internal/screens/skills"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// GradesScreen lists every grade that has skills.
type GradesScreen struct {
	menu components.Menu
}

var _ screen.Screen = (*GradesScreen)(nil)

// New creates the grade picker.
func New(cat *catalog.Catalog, deps practice.Deps) *GradesScreen {
	var items []components.MenuItem
	if cat != nil {
		for _, g := range cat.Grades() {
			items = append(items, components.MenuItem{
				Label: g.DisplayName(),
				Action: func() tea.Cmd {
					return func() tea.Msg {
						return router.PushScreenMsg{Screen: skills.New(cat, g, deps)}
					}
				},
			})
		}
	}
	return &GradesScreen{menu: components.NewMenu(items)}
}

func (s *GradesScreen) Init() tea.Cmd {
	return nil
}

func (s *GradesScreen) Title() string {
	return "Choose a Grade"
}

func (s *GradesScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	s.menu, cmd = s.menu.Update(msg)
	return s, cmd
}

func (s *GradesScreen) View(width, height int) string {
	if len(s.menu.Items) == 0 {
		return layout.Centered("\n\nNo grades available.", width, theme.TextDim)
	}
	var b strings.Builder
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Center, s.menu.View()))
	return b.String()
}
