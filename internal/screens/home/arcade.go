package home

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/screens/welcome"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

// contentWidth returns the inner width shared by every section so the boxes
// line up.
func contentWidth(frameWidth int, compact bool) int {
	limit := 60
	if !compact {
		limit = lipgloss.Width(welcome.BannerArt) + 2
	}
	return components.ArcadeWidth(frameWidth, limit)
}

func renderTitle(cw int, compact bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.ArcadeYellow).
		Bold(true)

	title := welcome.BannerArt
	if compact {
		title = welcome.BannerCompact
	}
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(style.Render(title))
}

// renderStatsBar renders the dashboard stats in a double-bordered box.
func renderStatsBar(s Stats, cw int, compact bool) string {
	practicedStyle := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Bold(true)
	masteredStyle := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Bold(true)
	bestStyle := lipgloss.NewStyle().Foreground(theme.ScoreColor(s.Best)).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(theme.TextDim)

	var stats string
	switch {
	case s.Practiced == 0:
		stats = dimStyle.Render("No skills practiced yet")
	case compact:
		stats = fmt.Sprintf("%s %s %s",
			practicedStyle.Render(fmt.Sprintf("✎%d", s.Practiced)),
			masteredStyle.Render(fmt.Sprintf("★%d", s.Mastered)),
			bestStyle.Render(fmt.Sprintf("▲%d", s.Best)),
		)
	default:
		stats = fmt.Sprintf("%s  %s  %s",
			practicedStyle.Render(fmt.Sprintf("✎ %d PRACTICED", s.Practiced)),
			masteredStyle.Render(fmt.Sprintf("★ %d MASTERED", s.Mastered)),
			bestStyle.Render(fmt.Sprintf("▲ BEST %d", s.Best)),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(theme.ArcadeCyan).
		Width(cw - 2).
		Align(lipgloss.Center).
		Padding(0, 1).
		Render(stats)
}

// buttonWidth is the fixed width of menu buttons.
const buttonWidth = 22

// renderArcadeMenu renders each menu item as a bordered button.
func renderArcadeMenu(items []string, selected int, cw int, disabled map[int]bool) string {
	var buttons []string
	for i, label := range items {
		state := components.ButtonNormal
		switch {
		case disabled[i]:
			state = components.ButtonDisabled
		case i == selected:
			state = components.ButtonSelected
		}
		buttons = append(buttons, components.ArcadeButton(label, state, buttonWidth))
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(buttons, "\n"))
}

// renderArcadeMenuCompact renders the menu as plain lines for terminals too
// short for bordered buttons.
func renderArcadeMenuCompact(items []string, selected int, cw int, disabled map[int]bool) string {
	var lines []string
	for i, label := range items {
		var line string
		switch {
		case disabled[i]:
			line = lipgloss.NewStyle().Foreground(theme.TextDim).Render("   " + label)
		case i == selected:
			line = lipgloss.NewStyle().
				Foreground(theme.BgDark).
				Background(theme.ArcadeYellow).
				Bold(true).
				Render(" ▸ " + label + " ")
		default:
			line = lipgloss.NewStyle().Foreground(theme.Text).Render("   " + label)
		}
		lines = append(lines, line)
	}

	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(strings.Join(lines, "\n"))
}

func renderMascotBox(variant MascotVariant, cw int) string {
	return lipgloss.NewStyle().
		Width(cw).
		Align(lipgloss.Center).
		Render(RenderMascot(variant))
}
