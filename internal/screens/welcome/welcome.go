// Package welcome is the launch splash: the mascot, then the banner, then a
// prompt to continue.
package welcome

import (
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/ui/theme"
)

const (
	tickInterval = 100 * time.Millisecond
	sparkleAt    = 400 * time.Millisecond
	bannerAt     = 1200 * time.Millisecond
	totalDur     = 3 * time.Second
)

// Tagline is shown under the banner.
const Tagline = "Practice makes progress!"

const mascotArt = `  ╭───────────╮
  │  ┌─────┐  │
  │  │ ◉ ◉ │  │
  │  │  ▽  │  │
  │  ├─────┤  │
  │  │ ±×÷ │  │
  │  └─────┘  │
  ╰───────────╯`

var sparkleFrames = []string{"★", "✦", "✧"}

type tickMsg time.Time

// WelcomeScreen plays the splash and then replaces itself with the screen
// built by next. Any key skips ahead.
type WelcomeScreen struct {
	next         func() screen.Screen
	elapsed      time.Duration
	tickCount    int
	transitioned bool
}

var _ screen.Screen = (*WelcomeScreen)(nil)

// New creates the splash. next is called once, on the first key press.
func New(next func() screen.Screen) *WelcomeScreen {
	return &WelcomeScreen{next: next}
}

func (w *WelcomeScreen) Title() string {
	return ""
}

func (w *WelcomeScreen) Init() tea.Cmd {
	return tick()
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (w *WelcomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg.(type) {
	case tickMsg:
		if w.transitioned {
			return w, nil
		}
		w.elapsed = min(w.elapsed+tickInterval, totalDur)
		w.tickCount++
		return w, tick()

	case tea.KeyPressMsg:
		return w, w.transition()
	}
	return w, nil
}

func (w *WelcomeScreen) transition() tea.Cmd {
	if w.transitioned {
		return nil
	}
	w.transitioned = true
	s := w.next()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: s}
	}
}

func (w *WelcomeScreen) View(width, height int) string {
	rendered := lipgloss.NewStyle().Foreground(theme.Primary).Render(mascotArt)

	if w.elapsed >= sparkleAt {
		sparkle := sparkleFrames[w.tickCount%len(sparkleFrames)]
		a := lipgloss.NewStyle().Foreground(theme.ArcadeYellow).Render(sparkle)
		b := lipgloss.NewStyle().Foreground(theme.ArcadeCyan).Render(sparkle)

		lines := strings.Split(rendered, "\n")
		for i, l := range lines {
			switch i {
			case 0, 7:
				lines[i] = a + "  " + l + "  " + b
			case 3:
				lines[i] = b + "  " + l + "  " + a
			default:
				lines[i] = "   " + l + "   "
			}
		}
		rendered = strings.Join(lines, "\n")
	}

	sections := []string{rendered}
	if w.elapsed >= bannerAt {
		sections = append(sections,
			"",
			RenderBanner(width),
			"",
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Render(Tagline),
			"",
			lipgloss.NewStyle().Foreground(theme.TextDim).Italic(true).Render("press any key to continue"),
		)
	}

	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center,
		strings.Join(sections, "\n"))
}
