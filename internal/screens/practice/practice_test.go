package practice

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/progress"
	"github.com/abhisek/mathdrill/internal/router"
	"github.com/abhisek/mathdrill/internal/schedule"
	"github.com/abhisek/mathdrill/internal/screens/summary"
	sess "github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
	"github.com/abhisek/mathdrill/internal/ui/components"
)

type endCounter struct {
	mu   sync.Mutex
	ends int
}

func (c *endCounter) RecordProgress(context.Context, sess.ProgressEvent) error { return nil }
func (c *endCounter) RecordSessionStart(context.Context, sess.SessionStart) error {
	return nil
}

func (c *endCounter) RecordSessionEnd(context.Context, sess.Summary) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.ends++
	return nil
}

func (c *endCounter) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ends
}

const bankID = "t.json"

func testDeps(sink sess.ProgressSink) Deps {
	return Deps{
		Source: bank.Table{bankID: {
			{ID: "q1", SkillCode: "T", Prompt: "What is 3 + 4?", Difficulty: 1, Engine: "fact",
				Data: json.RawMessage(`{"expression":"3 + 4"}`), Answer: "7"},
			{ID: "q2", SkillCode: "T", Prompt: "Pick 5 + 5", Difficulty: 1, Engine: "fact",
				Data: json.RawMessage(`{"expression":"5 + 5","options":[9,10,11]}`), Answer: "10"},
		}},
		Sink:   sink,
		Config: sess.Config{FeedbackDelay: time.Millisecond, CelebrationDuration: time.Millisecond},
		UserID: "kid",
	}
}

func testSelection(bankName string) sess.Selection {
	return sess.Selection{
		Grade: bank.Grade1,
		Skill: catalog.Skill{ID: "T.1", Label: "Tens", Bank: bankName, SkillCode: "T"},
	}
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// fire runs the scheduled-task command and feeds every FiredMsg back.
func fire(t *testing.T, s *PracticeScreen, cmd tea.Cmd) {
	t.Helper()
	require.NotNil(t, cmd)
	switch msg := cmd().(type) {
	case schedule.FiredMsg:
		s.Update(msg)
	case tea.BatchMsg:
		for _, c := range msg {
			if c != nil {
				if fm, ok := c().(schedule.FiredMsg); ok {
					s.Update(fm)
				}
			}
		}
	default:
		t.Fatalf("unexpected message %T", msg)
	}
}

func TestPracticeScreen_EmptyBank(t *testing.T) {
	s := New(testSelection("missing.json"), testDeps(nil))
	assert.Contains(t, ansi.Strip(s.View(100, 30)), EmptyMessage)

	// Keys other than esc do nothing.
	_, cmd := s.Update(key("enter"))
	assert.Nil(t, cmd)

	_, cmd = s.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestPracticeScreen_TypedAnswer(t *testing.T) {
	s := New(testSelection(bankID), testDeps(nil))
	assert.Equal(t, "Grade 1 · Tens", s.Title())

	view := ansi.Strip(s.View(120, 30))
	assert.Contains(t, view, "What is 3 + 4?")
	assert.Contains(t, view, "Question 1/2")

	s.Update(key("7"))
	assert.Equal(t, "7", s.Controller().State().PendingAnswer)

	_, cmd := s.Update(key("enter"))
	st := s.Controller().State()
	assert.Equal(t, sess.FeedbackCorrect, st.Feedback)
	assert.Equal(t, 1, st.AnsweredCount)
	assert.Positive(t, st.Score)
	assert.Contains(t, ansi.Strip(s.View(120, 30)), "Correct!")

	// Input is locked while feedback shows.
	s.Update(key("9"))
	assert.Equal(t, "7", s.Controller().State().PendingAnswer)

	fire(t, s, cmd)
	assert.Equal(t, sess.PhaseIdle, s.Controller().Phase())
	assert.Equal(t, 1, s.Controller().State().Cursor)
	assert.Empty(t, s.input.Value())
	assert.Len(t, s.choices, 3)
}

func TestPracticeScreen_WrongShowsAnswer(t *testing.T) {
	s := New(testSelection(bankID), testDeps(nil))
	s.Update(key("5"))
	s.Update(key("enter"))

	view := ansi.Strip(s.View(120, 30))
	assert.Contains(t, view, "Not quite")
	assert.Contains(t, view, "Correct answer: 7")
	assert.Equal(t, 0, s.Controller().State().Streak)
}

func TestPracticeScreen_ChoiceAnswer(t *testing.T) {
	s := New(testSelection(bankID), testDeps(nil))
	s.Update(key("7"))
	_, cmd := s.Update(key("enter"))
	fire(t, s, cmd)
	require.Len(t, s.choices, 3)

	_, cmd = s.Update(key("2"))
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, components.ChoiceMadeMsg{Index: 1}, msg)

	s.Update(msg)
	st := s.Controller().State()
	assert.Equal(t, sess.FeedbackCorrect, st.Feedback)
	assert.Equal(t, 2, st.Streak)
	assert.True(t, s.mc.Locked)
}

func TestPracticeScreen_TimerTick(t *testing.T) {
	s := New(testSelection(bankID), testDeps(nil))
	before := s.Controller().State().TimeRemaining
	require.Equal(t, 300, before)

	_, cmd := s.Update(timerTickMsg(time.Now()))
	assert.NotNil(t, cmd)
	assert.Equal(t, before-1, s.Controller().State().TimeRemaining)
	assert.Contains(t, ansi.Strip(s.View(120, 30)), "4:59")

	s.Close()
	_, cmd = s.Update(timerTickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestPracticeScreen_QuitConfirm(t *testing.T) {
	sink := &endCounter{}
	s := New(testSelection(bankID), testDeps(sink))
	assert.True(t, s.HandlesBack())

	s.Update(key("7"))
	s.Update(key("enter"))

	_, cmd := s.Update(key("esc"))
	assert.Nil(t, cmd)
	assert.Contains(t, ansi.Strip(s.View(100, 30)), "Finish this session?")

	s.Update(key("n"))
	assert.NotContains(t, ansi.Strip(s.View(100, 30)), "Finish this session?")

	s.Update(key("esc"))
	_, cmd = s.Update(key("y"))
	require.NotNil(t, cmd)
	msg, ok := cmd().(router.ReplaceScreenMsg)
	require.True(t, ok)
	require.IsType(t, &summary.SummaryScreen{}, msg.Screen)

	s.Close()
	s.Controller().Wait()
	assert.Equal(t, 1, sink.count())
}

func TestPracticeScreen_EscBeforeAnswering(t *testing.T) {
	s := New(testSelection(bankID), testDeps(nil))
	_, cmd := s.Update(key("esc"))
	require.NotNil(t, cmd)
	assert.IsType(t, router.PopScreenMsg{}, cmd())
}

func TestPracticeScreen_KeyHints(t *testing.T) {
	s := New(testSelection(bankID), testDeps(nil))
	assert.Equal(t, "Submit", s.KeyHints()[0].Description)

	s.Update(key("7"))
	_, cmd := s.Update(key("enter"))
	fire(t, s, cmd)
	assert.Equal(t, "Choose", s.KeyHints()[0].Description)
}

func TestPracticeScreen_CloseFlushesStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "drill.db")
	st, err := store.Open(path)
	require.NoError(t, err)

	deps := testDeps(progress.NewStore(st))
	s := New(testSelection(bankID), deps)
	s.Update(key("7"))
	s.Update(key("enter"))
	s.Close()
	require.NoError(t, st.Close())

	st, err = store.Open(path)
	require.NoError(t, err)
	defer st.Close()

	ctx := context.Background()
	rows, err := st.ProgressRepo().List(ctx, store.ProgressQuery{UserID: "kid"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].TotalAnswered)

	events, err := st.EventRepo().RecentSessions(ctx, "kid", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	var ended bool
	for _, ev := range events {
		if ev.Action == store.SessionEnd {
			ended = true
			assert.Equal(t, 1, ev.Answered)
		}
	}
	assert.True(t, ended, "session end event missing")
}
