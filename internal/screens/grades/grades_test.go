package grades

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screens/practice"
	"github.com/abhisek/mathdrill/internal/screens/skills"
)

func TestGradesScreen_ListsCatalogGrades(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	s := New(cat, practice.Deps{})
	view := ansi.Strip(s.View(80, 40))
	assert.Contains(t, view, "Pre-K")
	assert.Contains(t, view, "Kindergarten")
	assert.Contains(t, view, "Grade 3")
}

func TestGradesScreen_EnterPushesSkills(t *testing.T) {
	cat, err := catalog.Default()
	require.NoError(t, err)

	s := New(cat, practice.Deps{})
	s.Update(tea.KeyPressMsg{Code: tea.KeyDown})
	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)

	msg, ok := cmd().(router.PushScreenMsg)
	require.True(t, ok)
	sk, ok := msg.Screen.(*skills.SkillsScreen)
	require.True(t, ok)
	assert.Equal(t, cat.Grades()[1].DisplayName(), sk.Title())
}

func TestGradesScreen_NilCatalog(t *testing.T) {
	s := New(nil, practice.Deps{})
	assert.Contains(t, ansi.Strip(s.View(80, 24)), "No grades available.")
}
