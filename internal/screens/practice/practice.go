package practice

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/mathdrill/internal/engine"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/schedule"
	"github.com/abhisek/mathdrill/internal/screen"
	"github.com/abhisek/mathdrill/internal/screens/summary"
	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/ui/components"
	"github.com/abhisek/mathdrill/internal/ui/layout"
)

const inputPlaceholder = "Type your answer..."

// PracticeScreen runs one practice session for a grade and skill.
type PracticeScreen struct {
	ctl     *sess.Controller
	queue   *schedule.Queue
	engines *engine.Registry

	input   components.TextInput
	choices []engine.Choice
	mc      components.MultiChoice

	// shownCursor and shownAnswered identify the question the widgets were
	// built for.
	shownCursor   int
	shownAnswered int

	last            *sess.Outcome
	showQuitConfirm bool
	closed          bool
}

var (
	_ screen.Screen          = (*PracticeScreen)(nil)
	_ screen.KeyHintProvider = (*PracticeScreen)(nil)
	_ screen.BackHandler     = (*PracticeScreen)(nil)
	_ screen.Closer          = (*PracticeScreen)(nil)
)

// New starts a session for sel.
func New(sel sess.Selection, deps Deps) *PracticeScreen {
	if sel.UserID == "" {
		sel.UserID = deps.UserID
	}
	engines := deps.Engines
	if engines == nil {
		engines = engine.Default()
	}

	q := schedule.NewQueue()
	ctl := sess.New(sess.Options{
		Source:    deps.Source,
		Sink:      deps.Sink,
		Scheduler: q,
		Logger:    deps.Logger,
		Config:    deps.Config,
	})
	ctl.ResetForSelection(sel)

	s := &PracticeScreen{ctl: ctl, queue: q, engines: engines}
	s.resetWidgets()
	return s
}

// Controller exposes the session controller.
func (s *PracticeScreen) Controller() *sess.Controller {
	return s.ctl
}

func (s *PracticeScreen) Init() tea.Cmd {
	return tea.Batch(s.input.Init(), tickCmd())
}

func (s *PracticeScreen) Title() string {
	sel := s.ctl.Selection()
	if sel.Skill.Label == "" {
		return sel.Grade.DisplayName()
	}
	return sel.Grade.DisplayName() + " · " + sel.Skill.Label
}

func (s *PracticeScreen) HandlesBack() bool {
	return true
}

// Close ends the session and waits for its pending progress writes, so the
// store can be closed right after the screen is.
func (s *PracticeScreen) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.ctl.End()
	s.ctl.Wait()
}

func (s *PracticeScreen) KeyHints() []layout.KeyHint {
	switch {
	case s.showQuitConfirm:
		return []layout.KeyHint{
			{Key: "Y", Description: "End session"},
			{Key: "N", Description: "Keep going"},
		}
	case s.ctl.Len() == 0:
		return []layout.KeyHint{{Key: "Esc", Description: "Back"}}
	case len(s.choices) > 0:
		return []layout.KeyHint{
			{Key: "↑↓", Description: "Choose"},
			{Key: "1-9/Enter", Description: "Answer"},
			{Key: "Esc", Description: "Finish"},
		}
	}
	return []layout.KeyHint{
		{Key: "Enter", Description: "Submit"},
		{Key: "Esc", Description: "Finish"},
	}
}

func (s *PracticeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	switch msg := msg.(type) {
	case timerTickMsg:
		if s.closed {
			return s, nil
		}
		s.ctl.Tick()
		return s, tickCmd()

	case schedule.FiredMsg:
		s.queue.Fire(msg)
		return s, s.syncWidgets()

	case components.ChoiceMadeMsg:
		if msg.Index < 0 || msg.Index >= len(s.choices) {
			return s, nil
		}
		return s.record(s.ctl.OnEngineAnswer(s.choices[msg.Index].Value))

	case tea.KeyPressMsg:
		return s.handleKey(msg)
	}

	if s.acceptsText() {
		var cmd tea.Cmd
		s.input, cmd = s.input.Update(msg)
		return s, cmd
	}
	return s, nil
}

func (s *PracticeScreen) handleKey(msg tea.KeyPressMsg) (screen.Screen, tea.Cmd) {
	key := msg.String()

	if s.showQuitConfirm {
		switch key {
		case "y", "Y":
			s.showQuitConfirm = false
			return s, s.finish()
		case "n", "N", "esc":
			s.showQuitConfirm = false
		}
		return s, nil
	}

	if key == "esc" {
		if s.ctl.Len() == 0 || s.ctl.State().AnsweredCount == 0 {
			return s, func() tea.Msg { return router.PopScreenMsg{} }
		}
		s.showQuitConfirm = true
		return s, nil
	}

	if s.ctl.Len() == 0 || s.ctl.Phase() != sess.PhaseIdle {
		return s, nil
	}

	if len(s.choices) > 0 {
		var cmd tea.Cmd
		s.mc, cmd = s.mc.Update(msg)
		return s, cmd
	}

	if key == "enter" {
		return s.record(s.ctl.SubmitPending())
	}

	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	s.ctl.SetPendingAnswer(s.input.Value())
	return s, cmd
}

// record shows the outcome of a submission and schedules its follow-ups.
func (s *PracticeScreen) record(out sess.Outcome, ok bool) (screen.Screen, tea.Cmd) {
	if !ok {
		return s, nil
	}
	s.last = &out
	s.input.Submit(out.Correct)
	s.mc.Locked = true
	return s, s.queue.Drain()
}

// finish ends the session and replaces this screen with its summary.
func (s *PracticeScreen) finish() tea.Cmd {
	s.Close()
	sum := s.ctl.Summary()
	return func() tea.Msg {
		return router.ReplaceScreenMsg{Screen: summary.New(sum)}
	}
}

func (s *PracticeScreen) acceptsText() bool {
	return !s.showQuitConfirm && len(s.choices) == 0 &&
		s.ctl.Len() > 0 && s.ctl.Phase() == sess.PhaseIdle
}

// syncWidgets rebuilds the answer widgets once the controller has moved to
// another question, and forwards newly scheduled tasks.
func (s *PracticeScreen) syncWidgets() tea.Cmd {
	st := s.ctl.State()
	var cmd tea.Cmd
	if s.ctl.Phase() == sess.PhaseIdle && (st.Cursor != s.shownCursor || st.AnsweredCount != s.shownAnswered) {
		s.resetWidgets()
		cmd = s.input.Init()
	}
	return tea.Batch(cmd, s.queue.Drain())
}

func (s *PracticeScreen) resetWidgets() {
	st := s.ctl.State()
	s.shownCursor, s.shownAnswered = st.Cursor, st.AnsweredCount
	s.last = nil
	s.input = components.NewTextInput(inputPlaceholder, 24)
	s.choices = nil
	s.mc = components.MultiChoice{}

	q, ok := s.ctl.Current()
	if !ok {
		return
	}
	s.choices = s.engines.Choices(q.Engine, q.Data)
	labels := make([]string, len(s.choices))
	for i, c := range s.choices {
		labels[i] = c.Label
	}
	s.mc = components.NewMultiChoice(labels)
}

// tickCmd returns a 1-second tick command.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return timerTickMsg(t)
	})
}
