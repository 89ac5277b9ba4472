package app

import (
	"fmt"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

// Options configures the TUI.
type Options struct {
	Root screen.Screen

	// Start, when set, is pushed over Root at launch so Esc returns to Root.
	Start screen.Screen

	User   string
	Logger *zap.Logger
}

// AppModel is the root Bubble Tea model.
type AppModel struct {
	router *router.Router
	start  screen.Screen
	user   string
	log    *zap.Logger
	width  int
	height int
}

func newAppModel(opts Options) AppModel {
	log := opts.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return AppModel{
		router: router.New(opts.Root),
		start:  opts.Start,
		user:   opts.User,
		log:    log,
	}
}

func (m AppModel) Init() tea.Cmd {
	var cmds []tea.Cmd
	if active := m.router.Active(); active != nil {
		cmds = append(cmds, active.Init())
	}
	if m.start != nil {
		start := m.start
		cmds = append(cmds, func() tea.Msg { return router.PushScreenMsg{Screen: start} })
	}
	return tea.Batch(cmds...)
}

func (m AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyPressMsg:
		switch msg.String() {
		case "ctrl+c":
			m.router.Close()
			return m, tea.Quit
		case "esc":
			if !handlesBack(m.router.Active()) {
				if m.router.Depth() > 1 {
					return m, func() tea.Msg { return router.PopScreenMsg{} }
				}
				return m, nil
			}
		}
	}

	cmd := m.router.Update(msg)
	return m, cmd
}

func handlesBack(s screen.Screen) bool {
	b, ok := s.(screen.BackHandler)
	return ok && b.HandlesBack()
}

func (m AppModel) footerHints() []layout.KeyHint {
	if p, ok := m.router.Active().(screen.KeyHintProvider); ok {
		return append(p.KeyHints(), layout.KeyHint{Key: "Ctrl+C", Description: "Quit"})
	}
	if m.router.Depth() > 1 {
		return []layout.KeyHint{
			{Key: "Esc", Description: "Back"},
			{Key: "Ctrl+C", Description: "Quit"},
		}
	}
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Navigate"},
		{Key: "Enter", Description: "Select"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (m AppModel) View() tea.View {
	v := tea.NewView(m.render())
	v.AltScreen = true
	return v
}

func (m AppModel) render() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if layout.IsTooSmall(m.width, m.height) {
		return layout.RenderMinSizeMessage(m.width, m.height)
	}

	title := ""
	if active := m.router.Active(); active != nil {
		title = active.Title()
	}

	header := layout.RenderHeader(title, m.user, m.width)
	footer := layout.RenderFooter(m.footerHints(), m.width)

	contentHeight := max(m.height-lipgloss.Height(header)-lipgloss.Height(footer), 0)
	content := m.router.View(m.width, contentHeight)

	return layout.RenderFrame(header, content, footer, m.width, m.height)
}

// Run starts the Bubble Tea program and blocks until it exits. Every screen
// still on the stack is closed before Run returns.
func Run(opts Options) error {
	m := newAppModel(opts)
	defer m.router.Close()

	if _, err := tea.NewProgram(m).Run(); err != nil {
		m.log.Error("tui exited", zap.Error(err))
		return fmt.Errorf("run tui: %w", err)
	}
	return nil
}
