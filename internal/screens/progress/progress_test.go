package progress

import (
	"context"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/store"
)

type fakeRepo struct {
	rows    []store.ProgressRecord
	history []store.ScorePoint
	calls   int
}

func (f *fakeRepo) Record(context.Context, store.ProgressData) error { return nil }

func (f *fakeRepo) List(_ context.Context, q store.ProgressQuery) ([]store.ProgressRecord, error) {
	var out []store.ProgressRecord
	for _, r := range f.rows {
		if q.UserID == "" || r.UserID == q.UserID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (f *fakeRepo) History(context.Context, string, string, string, int) ([]store.ScorePoint, error) {
	f.calls++
	return f.history, nil
}

func load(t *testing.T, s *ProgressScreen) {
	t.Helper()
	cmd := s.Init()
	require.NotNil(t, cmd)
	s.Update(cmd())
}

func TestProgressScreen_ListsRows(t *testing.T) {
	repo := &fakeRepo{rows: []store.ProgressRecord{
		{UserID: "kid", Grade: "3", SkillID: "G.1", CurrentScore: 72, TotalAnswered: 20},
		{UserID: "other", Grade: "6", SkillID: "P.1", CurrentScore: 10, TotalAnswered: 2},
	}}
	s := New(repo, "kid")
	load(t, s)

	view := ansi.Strip(s.View(100, 30))
	assert.Contains(t, view, "Grade 3")
	assert.Contains(t, view, "G.1")
	assert.Contains(t, view, "72%")
	assert.NotContains(t, view, "P.1")
}

func TestProgressScreen_Empty(t *testing.T) {
	s := New(&fakeRepo{}, "kid")
	load(t, s)
	assert.Contains(t, ansi.Strip(s.View(80, 24)), "No progress yet")
}

func TestProgressScreen_NilRepo(t *testing.T) {
	s := New(nil, "kid")
	load(t, s)
	assert.Contains(t, ansi.Strip(s.View(80, 24)), "No progress yet")
}

func TestProgressScreen_ExpandLoadsHistoryOnce(t *testing.T) {
	repo := &fakeRepo{
		rows:    []store.ProgressRecord{{UserID: "kid", Grade: "3", SkillID: "G.1", CurrentScore: 50}},
		history: []store.ScorePoint{{Score: 0}, {Score: 50}, {Score: 100}},
	}
	s := New(repo, "kid")
	load(t, s)

	_, cmd := s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	require.NotNil(t, cmd)
	s.Update(cmd())
	assert.Contains(t, ansi.Strip(s.View(100, 30)), "▁▄█")

	s.Update(tea.KeyPressMsg{Code: tea.KeyEnter}) // collapse
	_, cmd = s.Update(tea.KeyPressMsg{Code: tea.KeyEnter})
	assert.Nil(t, cmd, "history is cached")
	assert.Equal(t, 1, repo.calls)
}

func TestSparkline(t *testing.T) {
	pts := []store.ScorePoint{{Score: 0}, {Score: 14}, {Score: 100}, {Score: 150}}
	assert.Equal(t, "▁▁██", Sparkline(pts))
}
