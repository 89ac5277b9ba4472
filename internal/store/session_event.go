package store

import (
	"context"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// eventRepo implements EventRepo with ent's SQL builder.
type eventRepo struct {
	s *Store
}

func (r *eventRepo) AppendSessionEvent(ctx context.Context, data SessionEventData) error {
	if data.Action != SessionStart && data.Action != SessionEnd {
		return fmt.Errorf("invalid session action %q", data.Action)
	}
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	at := data.At
	if at.IsZero() {
		at = time.Now()
	}

	query, args := r.s.builder().Insert("session_events").
		Columns("sequence", "session_id", "action", "user_id", "grade", "skill_id",
			"questions", "answered", "correct", "final_score", "best_streak", "duration_secs", "recorded_at").
		Values(seqNum, data.SessionID, data.Action, data.UserID, data.Grade, data.SkillID,
			data.Questions, data.Answered, data.Correct, data.FinalScore, data.BestStreak, data.DurationSecs, at.UnixMilli()).
		Query()
	if err := r.s.drv.Exec(ctx, query, args, nil); err != nil {
		return fmt.Errorf("save session event: %w", err)
	}
	return nil
}

func (r *eventRepo) RecentSessions(ctx context.Context, userID string, limit int) ([]SessionEventRecord, error) {
	sel := r.s.builder().
		Select("sequence", "session_id", "action", "user_id", "grade", "skill_id",
			"questions", "answered", "correct", "final_score", "best_streak", "duration_secs", "recorded_at").
		From(entsql.Table("session_events")).
		OrderBy(entsql.Desc("sequence"))
	if userID != "" {
		sel = sel.Where(entsql.EQ("user_id", userID))
	}
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query session events: %w", err)
	}
	defer rows.Close()

	var out []SessionEventRecord
	for rows.Next() {
		var e SessionEventRecord
		var recorded int64
		if err := rows.Scan(&e.Sequence, &e.SessionID, &e.Action, &e.UserID, &e.Grade, &e.SkillID,
			&e.Questions, &e.Answered, &e.Correct, &e.FinalScore, &e.BestStreak, &e.DurationSecs, &recorded); err != nil {
			return nil, fmt.Errorf("scan session event: %w", err)
		}
		e.At = time.UnixMilli(recorded)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate session events: %w", err)
	}
	return out, nil
}
