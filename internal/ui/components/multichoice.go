package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// ChoiceMadeMsg reports the option picked in a MultiChoice.
type ChoiceMadeMsg struct {
	Index int
}

// MultiChoice is a multiple-choice selector. Arrow keys move the cursor;
// Enter or an option's number picks it.
type MultiChoice struct {
	Options  []string
	Selected int
	Locked   bool
}

// NewMultiChoice creates a new multiple-choice component.
func NewMultiChoice(options []string) MultiChoice {
	return MultiChoice{Options: options}
}

// Update handles keyboard navigation and selection. Nothing changes while
// the component is locked.
func (m MultiChoice) Update(msg tea.Msg) (MultiChoice, tea.Cmd) {
	if m.Locked || len(m.Options) == 0 {
		return m, nil
	}

	kmsg, ok := msg.(tea.KeyPressMsg)
	if !ok {
		return m, nil
	}

	switch key := kmsg.String(); key {
	case "up", "k":
		if m.Selected > 0 {
			m.Selected--
		}
	case "down", "j":
		if m.Selected < len(m.Options)-1 {
			m.Selected++
		}
	case "enter":
		return m, m.pick(m.Selected)
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			if i := int(key[0] - '1'); i < len(m.Options) {
				m.Selected = i
				return m, m.pick(i)
			}
		}
	}
	return m, nil
}

func (m MultiChoice) pick(i int) tea.Cmd {
	return func() tea.Msg { return ChoiceMadeMsg{Index: i} }
}

// View renders the options.
func (m MultiChoice) View() string {
	var b strings.Builder
	for i, opt := range m.Options {
		prefix := "  "
		if i == m.Selected && !m.Locked {
			prefix = "▸ "
		}
		line := fmt.Sprintf("%s%d) %s", prefix, i+1, opt)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		switch {
		case m.Locked && i == m.Selected:
			style = style.Foreground(theme.Accent).Bold(true)
		case m.Locked:
			style = style.Foreground(theme.TextDim)
		case i == m.Selected:
			style = style.Foreground(theme.Primary).Bold(true)
		}
		b.WriteString(style.Render(line) + "\n")
	}
	return b.String()
}
