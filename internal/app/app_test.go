package app

import (
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

type stub struct {
	title  string
	back   bool
	closed int
	keys   []string
}

func (s *stub) Init() tea.Cmd { return nil }
func (s *stub) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if k, ok := msg.(tea.KeyPressMsg); ok {
		s.keys = append(s.keys, k.String())
	}
	return s, nil
}
func (s *stub) View(int, int) string { return "body of " + s.title }
func (s *stub) Title() string        { return s.title }
func (s *stub) HandlesBack() bool    { return s.back }
func (s *stub) Close()               { s.closed++ }
func (s *stub) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{{Key: "Enter", Description: "Go " + s.title}}
}

var esc = tea.KeyPressMsg{Code: tea.KeyEscape}

func TestEscPopsWhenScreenDoesNotHandleBack(t *testing.T) {
	root, top := &stub{title: "root"}, &stub{title: "top"}
	m := newAppModel(Options{Root: root})
	m.router.Push(top)

	_, cmd := m.Update(esc)
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
	assert.Empty(t, top.keys)
}

func TestEscForwardedToBackHandler(t *testing.T) {
	root, top := &stub{title: "root"}, &stub{title: "top", back: true}
	m := newAppModel(Options{Root: root})
	m.router.Push(top)

	_, cmd := m.Update(esc)
	assert.Nil(t, cmd)
	assert.Equal(t, []string{"esc"}, top.keys)
}

func TestEscAtRootIgnored(t *testing.T) {
	root := &stub{title: "root"}
	m := newAppModel(Options{Root: root})
	_, cmd := m.Update(esc)
	assert.Nil(t, cmd)
	assert.Empty(t, root.keys)
}

func TestCtrlCClosesStack(t *testing.T) {
	root, top := &stub{title: "root"}, &stub{title: "top"}
	m := newAppModel(Options{Root: root})
	m.router.Push(top)

	_, cmd := m.Update(tea.KeyPressMsg{Code: 'c', Mod: tea.ModCtrl})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Equal(t, 1, root.closed)
	assert.Equal(t, 1, top.closed)
}

func TestViewUsesScreenHints(t *testing.T) {
	m := newAppModel(Options{Root: &stub{title: "Home"}, User: "kid"})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})

	out := ansi.Strip(updated.(AppModel).render())
	assert.Contains(t, out, "body of Home")
	assert.Contains(t, out, "Go Home")
	assert.Contains(t, out, "kid")
}

func TestViewTooSmall(t *testing.T) {
	m := newAppModel(Options{Root: &stub{title: "Home"}})
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 20, Height: 5})
	assert.NotContains(t, ansi.Strip(updated.(AppModel).render()), "body of Home")
}

func TestInitPushesStartScreen(t *testing.T) {
	root, start := &stub{title: "root"}, &stub{title: "start"}
	m := newAppModel(Options{Root: root, Start: start})

	cmd := m.Init()
	require.NotNil(t, cmd)
	m.Update(cmd())
	assert.Same(t, start, m.router.Active())
	assert.Equal(t, 2, m.router.Depth())
}
