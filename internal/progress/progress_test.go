package progress

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

func testEvent() session.ProgressEvent {
	return session.ProgressEvent{
		UserID:        "kid",
		Grade:         bank.Grade3,
		SkillID:       "G.1",
		Score:         14,
		AnsweredCount: 3,
		SessionID:     "sess-1",
		QuestionID:    "g3-G1-2",
		Correct:       true,
		At:            time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC),
	}
}

func openStore(t *testing.T) *store.Store {
	t.Helper()
	st, err := store.Open("file:" + t.Name() + "?mode=memory&cache=shared")
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestStore_RecordProgress(t *testing.T) {
	st := openStore(t)
	sink := NewStore(st)
	ctx := context.Background()

	require.NoError(t, sink.RecordProgress(ctx, testEvent()))

	rows, err := st.ProgressRepo().List(ctx, store.ProgressQuery{UserID: "kid"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].Grade)
	assert.Equal(t, 14, rows[0].CurrentScore)
	assert.Equal(t, 3, rows[0].TotalAnswered)

	hist, err := st.ProgressRepo().History(ctx, "kid", "3", "G.1", 0)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, "g3-G1-2", hist[0].QuestionID)
}

func TestStore_SessionEvents(t *testing.T) {
	st := openStore(t)
	sink := NewStore(st)
	ctx := context.Background()

	require.NoError(t, sink.RecordSessionStart(ctx, session.SessionStart{
		SessionID: "sess-1", UserID: "kid", Grade: bank.Grade3, SkillID: "G.1", Questions: 3,
	}))
	require.NoError(t, sink.RecordSessionEnd(ctx, session.Summary{
		SessionID: "sess-1", UserID: "kid", Grade: bank.Grade3, SkillID: "G.1",
		Answered: 4, Correct: 3, FinalScore: 11, BestStreak: 2, Duration: 75 * time.Second,
	}))

	events, err := st.EventRepo().RecentSessions(ctx, "kid", 0)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, store.SessionEnd, events[0].Action)
	assert.Equal(t, 75, events[0].DurationSecs)
	assert.Equal(t, 11, events[0].FinalScore)
	assert.Equal(t, 3, events[1].Questions)
}

func TestHTTP_PostsEvent(t *testing.T) {
	var got map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, ProgressPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTP(srv.URL+"/", srv.Client())
	assert.Equal(t, srv.URL+ProgressPath, sink.URL())
	require.NoError(t, sink.RecordProgress(context.Background(), testEvent()))

	assert.Equal(t, "kid", got["userId"])
	assert.Equal(t, "3", got["grade"])
	assert.Equal(t, "G.1", got["skillId"])
	assert.Equal(t, float64(14), got["score"])
	assert.Equal(t, float64(3), got["answeredCount"])
}

func TestHTTP_ErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "database unavailable", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	err := NewHTTP(srv.URL, srv.Client()).RecordProgress(context.Background(), testEvent())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "503")
	assert.Contains(t, err.Error(), "database unavailable")
}

func TestHTTP_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		select {
		case <-r.Context().Done():
		case <-release:
		}
	}))
	defer srv.Close()
	defer close(release)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	err := NewHTTP(srv.URL, nil).RecordProgress(ctx, testEvent())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type failingSink struct{ err error }

func (f failingSink) RecordProgress(context.Context, session.ProgressEvent) error { return f.err }

type countingSink struct {
	Nop
	progress, starts, ends int
}

func (c *countingSink) RecordProgress(context.Context, session.ProgressEvent) error {
	c.progress++
	return nil
}

func (c *countingSink) RecordSessionStart(context.Context, session.SessionStart) error {
	c.starts++
	return nil
}

func (c *countingSink) RecordSessionEnd(context.Context, session.Summary) error {
	c.ends++
	return nil
}

func TestMulti(t *testing.T) {
	errA := errors.New("a down")
	counter := &countingSink{}
	m := Multi{failingSink{err: errA}, counter, Nop{}}
	ctx := context.Background()

	err := m.RecordProgress(ctx, testEvent())
	assert.ErrorIs(t, err, errA)
	assert.Equal(t, 1, counter.progress, "later sinks still receive the event")

	require.NoError(t, m.RecordSessionStart(ctx, session.SessionStart{}))
	require.NoError(t, m.RecordSessionEnd(ctx, session.Summary{}))
	assert.Equal(t, 1, counter.starts)
	assert.Equal(t, 1, counter.ends)
}

func TestNop(t *testing.T) {
	var s Sink = Nop{}
	assert.NoError(t, s.RecordProgress(context.Background(), testEvent()))
}

func TestControllerWithStoreSink(t *testing.T) {
	st := openStore(t)
	tbl := bank.Table{"b.json": {{ID: "q1", Difficulty: 1, Engine: "fact", Answer: "7"}}}

	ctl := session.New(session.Options{Source: tbl, Sink: NewStore(st)})
	ctl.ResetForSelection(session.Selection{Grade: bank.Grade1, UserID: "kid"})
	ctl.ResetForSelection(session.Selection{
		Grade:  bank.Grade1,
		UserID: "kid",
		Skill:  catalog.Skill{ID: "C.1", Bank: "b.json"},
	})
	_, ok := ctl.Submit("7")
	require.True(t, ok)
	ctl.End()
	ctl.Wait()

	rows, err := st.ProgressRepo().List(context.Background(), store.ProgressQuery{UserID: "kid"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, 4, rows[0].CurrentScore)

	events, err := st.EventRepo().RecentSessions(context.Background(), "kid", 0)
	require.NoError(t, err)
	assert.Len(t, events, 4)
}
