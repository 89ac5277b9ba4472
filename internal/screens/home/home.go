package home

import (
	"context"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/score"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/grades"
	"github.com/abhisek/mathdrill/internal/screens/practice"
	"github.com/abhisek/mathdrill/internal/screens/progress"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/abhisek/mathdrill/internal/ui/components"
)

// rustyAfter is how long a practiced skill may sit untouched before the
// mascot nags.
const rustyAfter = 7 * 24 * time.Hour

// Options are the collaborators of the home screen.
type Options struct {
	Catalog  *catalog.Catalog
	Practice practice.Deps
	// Progress feeds the stats bar and the progress screen. Nil disables
	// both.
	Progress store.ProgressRepo
	Now      func() time.Time
}

// Stats summarizes the learner's saved progress.
type Stats struct {
	Practiced int // skills with at least one answer
	Mastered  int // skills at or above the celebration threshold
	Best      int
	Rusty     int // practiced skills not touched within rustyAfter
	Recent    bool
}

// HomeScreen is the arcade-style main menu.
type HomeScreen struct {
	menu       components.Menu
	menuLabels []string
	disabled   map[int]bool
	stats      Stats
	mascot     MascotVariant

	progress store.ProgressRepo
	userID   string
	now      func() time.Time
	log      *zap.Logger
}

// statsLoadedMsg carries stats reloaded after returning to the home screen.
type statsLoadedMsg Stats

var (
	_ screen.Screen  = (*HomeScreen)(nil)
	_ screen.Resumer = (*HomeScreen)(nil)
)

// New creates the home screen and loads the stats for the practice user.
func New(opts Options) *HomeScreen {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := opts.Practice.Logger
	if log == nil {
		log = zap.NewNop()
	}

	menuLabels := []string{"PRACTICE", "MY PROGRESS", "EXIT"}
	items := []components.MenuItem{
		{Label: menuLabels[0], Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: grades.New(opts.Catalog, opts.Practice)}
			}
		}},
		{Label: menuLabels[1], Disabled: opts.Progress == nil, Action: func() tea.Cmd {
			return func() tea.Msg {
				return router.PushScreenMsg{Screen: progress.New(opts.Progress, opts.Practice.UserID)}
			}
		}},
		{Label: menuLabels[2], Action: func() tea.Cmd {
			return tea.Quit
		}},
	}

	disabled := make(map[int]bool)
	for i, it := range items {
		if it.Disabled {
			disabled[i] = true
		}
	}

	h := &HomeScreen{
		menu:       components.NewMenu(items),
		menuLabels: menuLabels,
		disabled:   disabled,
		progress:   opts.Progress,
		userID:     opts.Practice.UserID,
		now:        opts.Now,
		log:        log,
	}
	h.setStats(h.loadStats())
	return h
}

// Resume reloads the stats so a finished session shows up right away.
func (h *HomeScreen) Resume() tea.Cmd {
	if h.progress == nil {
		return nil
	}
	return func() tea.Msg {
		return statsLoadedMsg(h.loadStats())
	}
}

func (h *HomeScreen) loadStats() Stats {
	if h.progress == nil {
		return Stats{}
	}
	rows, err := h.progress.List(context.Background(), store.ProgressQuery{UserID: h.userID})
	if err != nil {
		h.log.Warn("load progress for home screen", zap.Error(err))
	}
	return ComputeStats(rows, h.now())
}

func (h *HomeScreen) setStats(s Stats) {
	h.stats = s
	h.mascot = mascotFor(s)
}

// ComputeStats folds progress rows into the home stats.
func ComputeStats(rows []store.ProgressRecord, now time.Time) Stats {
	var s Stats
	for _, r := range rows {
		if r.TotalAnswered == 0 {
			continue
		}
		s.Practiced++
		s.Best = max(s.Best, r.CurrentScore)
		if r.CurrentScore >= score.CelebrationThreshold {
			s.Mastered++
			if now.Sub(r.UpdatedAt) < 24*time.Hour {
				s.Recent = true
			}
		}
		if now.Sub(r.UpdatedAt) > rustyAfter {
			s.Rusty++
		}
	}
	return s
}

func mascotFor(s Stats) MascotVariant {
	switch {
	case s.Recent:
		return MascotCelebrating
	case s.Rusty >= 3:
		return MascotAlert
	default:
		return MascotIdle
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	if msg, ok := msg.(statsLoadedMsg); ok {
		h.setStats(Stats(msg))
		return h, nil
	}
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	// height is the content area; add back the header and footer to
	// estimate the terminal.
	termHeight := height + 8
	compact := termHeight < 32 || width < 100

	cw := contentWidth(width, compact)

	sections := []string{renderTitle(cw, compact)}
	if !compact {
		sections = append(sections, renderMascotBox(h.mascot, cw))
	}
	sections = append(sections, renderStatsBar(h.stats, cw, compact))
	if termHeight < 26 {
		sections = append(sections, renderArcadeMenuCompact(h.menuLabels, h.menu.Selected, cw, h.disabled))
	} else {
		sections = append(sections, renderArcadeMenu(h.menuLabels, h.menu.Selected, cw, h.disabled))
	}

	return components.CabinetFrame(strings.Join(sections, "\n\n"), width, height)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
