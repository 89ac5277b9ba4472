package components

import (
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// ButtonState selects how an ArcadeButton is drawn.
type ButtonState int

const (
	ButtonNormal ButtonState = iota
	ButtonSelected
	ButtonDisabled
)

// ArcadeWidth returns the inner width shared by the sections of an arcade
// screen: the frame width minus the cabinet border and padding, clamped to
// [20, limit].
func ArcadeWidth(frameWidth, limit int) int {
	return min(max(frameWidth-6, 20), limit)
}

// CabinetFrame wraps content in a double-border cabinet frame, centered in
// the given area.
func CabinetFrame(content string, width, height int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.Primary).
		Width(width - 2).
		Height(height - 2).
		Align(lipgloss.Center, lipgloss.Center).
		Render(content)
}

// ArcadeCard wraps content in a rounded-border card cw columns wide.
func ArcadeCard(content string, cw int) string {
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Border).
		Width(cw).
		Align(lipgloss.Center).
		Padding(1, 2).
		Render(content)
}

// ArcadeButton renders a fixed-width menu button.
func ArcadeButton(label string, state ButtonState, width int) string {
	style := lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Border(lipgloss.RoundedBorder()).
		Padding(0, 1)

	switch state {
	case ButtonSelected:
		return style.
			Bold(true).
			Foreground(theme.BgDark).
			Background(theme.ArcadeYellow).
			BorderForeground(theme.ArcadeYellow).
			Render("▸ " + label)
	case ButtonDisabled:
		return style.Foreground(theme.TextDim).BorderForeground(theme.Border).Render(label)
	default:
		return style.Foreground(theme.Text).BorderForeground(theme.Border).Render(label)
	}
}
