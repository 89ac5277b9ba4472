// Package progress delivers session progress events to local and remote
// stores.
package progress

import (
	"context"
	"errors"

	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// Sink is a progress sink that also records session boundaries.
type Sink interface {
	session.ProgressSink
	session.SessionRecorder
}

// Nop discards everything.
type Nop struct{}

var _ Sink = Nop{}

func (Nop) RecordProgress(context.Context, session.ProgressEvent) error    { return nil }
func (Nop) RecordSessionStart(context.Context, session.SessionStart) error { return nil }
func (Nop) RecordSessionEnd(context.Context, session.Summary) error        { return nil }

// Multi fans events out to every sink and joins their errors.
type Multi []session.ProgressSink

var _ Sink = Multi(nil)

func (m Multi) RecordProgress(ctx context.Context, ev session.ProgressEvent) error {
	var errs []error
	for _, s := range m {
		if err := s.RecordProgress(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (m Multi) RecordSessionStart(ctx context.Context, ev session.SessionStart) error {
	var errs []error
	for _, s := range m {
		if rec, ok := s.(session.SessionRecorder); ok {
			if err := rec.RecordSessionStart(ctx, ev); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (m Multi) RecordSessionEnd(ctx context.Context, sum session.Summary) error {
	var errs []error
	for _, s := range m {
		if rec, ok := s.(session.SessionRecorder); ok {
			if err := rec.RecordSessionEnd(ctx, sum); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

// Store writes events to the local database.
type Store struct {
	progress store.ProgressRepo
	events   store.EventRepo
}

var _ Sink = (*Store)(nil)

// NewStore returns a sink backed by st.
func NewStore(st *store.Store) *Store {
	return &Store{progress: st.ProgressRepo(), events: st.EventRepo()}
}

func (s *Store) RecordProgress(ctx context.Context, ev session.ProgressEvent) error {
	return s.progress.Record(ctx, store.ProgressData{
		UserID:        ev.UserID,
		Grade:         string(ev.Grade),
		SkillID:       ev.SkillID,
		Score:         ev.Score,
		AnsweredCount: ev.AnsweredCount,
		SessionID:     ev.SessionID,
		QuestionID:    ev.QuestionID,
		Correct:       ev.Correct,
		At:            ev.At,
	})
}

func (s *Store) RecordSessionStart(ctx context.Context, ev session.SessionStart) error {
	return s.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID: ev.SessionID,
		Action:    store.SessionStart,
		UserID:    ev.UserID,
		Grade:     string(ev.Grade),
		SkillID:   ev.SkillID,
		Questions: ev.Questions,
		At:        ev.At,
	})
}

func (s *Store) RecordSessionEnd(ctx context.Context, sum session.Summary) error {
	return s.events.AppendSessionEvent(ctx, store.SessionEventData{
		SessionID:    sum.SessionID,
		Action:       store.SessionEnd,
		UserID:       sum.UserID,
		Grade:        string(sum.Grade),
		SkillID:      sum.SkillID,
		Answered:     sum.Answered,
		Correct:      sum.Correct,
		FinalScore:   sum.FinalScore,
		BestStreak:   sum.BestStreak,
		DurationSecs: int(sum.Duration.Seconds()),
	})
}
