package store

import (
	"context"
	"fmt"
	"slices"
	"time"

	entsql "entgo.io/ent/dialect/sql"
)

// progressRepo implements ProgressRepo with ent's SQL builder.
type progressRepo struct {
	s *Store
}

func (r *progressRepo) Record(ctx context.Context, data ProgressData) error {
	seqNum, err := r.s.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}
	at := data.At
	if at.IsZero() {
		at = time.Now()
	}

	upsert, upsertArgs := r.s.builder().Insert("progress").
		Columns("user_id", "grade", "skill_id", "current_score", "total_answered", "updated_at").
		Values(data.UserID, data.Grade, data.SkillID, data.Score, data.AnsweredCount, at.UnixMilli()).
		OnConflict(
			entsql.ConflictColumns("user_id", "grade", "skill_id"),
			entsql.ResolveWithNewValues(),
			// Deliveries race; an older answer landing late must not roll
			// the row back.
			entsql.UpdateWhere(entsql.ExprP("excluded.updated_at >= progress.updated_at")),
		).
		Query()

	history, historyArgs := r.s.builder().Insert("score_history").
		Columns("sequence", "user_id", "grade", "skill_id", "session_id", "question_id",
			"score", "answered_count", "correct", "recorded_at").
		Values(seqNum, data.UserID, data.Grade, data.SkillID, data.SessionID, data.QuestionID,
			data.Score, data.AnsweredCount, data.Correct, at.UnixMilli()).
		Query()

	tx, err := r.s.drv.Tx(ctx)
	if err != nil {
		return fmt.Errorf("begin progress tx: %w", err)
	}
	if err := tx.Exec(ctx, upsert, upsertArgs, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("upsert progress: %w", err)
	}
	if err := tx.Exec(ctx, history, historyArgs, nil); err != nil {
		tx.Rollback()
		return fmt.Errorf("append score history: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit progress: %w", err)
	}
	return nil
}

func (r *progressRepo) List(ctx context.Context, q ProgressQuery) ([]ProgressRecord, error) {
	sel := r.s.builder().
		Select("user_id", "grade", "skill_id", "current_score", "total_answered", "updated_at").
		From(entsql.Table("progress"))

	var preds []*entsql.Predicate
	if q.UserID != "" {
		preds = append(preds, entsql.EQ("user_id", q.UserID))
	}
	if q.Grade != "" {
		preds = append(preds, entsql.EQ("grade", q.Grade))
	}
	if q.SkillID != "" {
		preds = append(preds, entsql.EQ("skill_id", q.SkillID))
	}
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	query, args := sel.OrderBy(entsql.Desc("updated_at"), "user_id", "grade", "skill_id").Query()

	var rows entsql.Rows
	if err := r.s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query progress: %w", err)
	}
	defer rows.Close()

	var out []ProgressRecord
	for rows.Next() {
		var rec ProgressRecord
		var updated int64
		if err := rows.Scan(&rec.UserID, &rec.Grade, &rec.SkillID, &rec.CurrentScore, &rec.TotalAnswered, &updated); err != nil {
			return nil, fmt.Errorf("scan progress: %w", err)
		}
		rec.UpdatedAt = time.UnixMilli(updated)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate progress: %w", err)
	}
	return out, nil
}

func (r *progressRepo) History(ctx context.Context, userID, grade, skillID string, limit int) ([]ScorePoint, error) {
	sel := r.s.builder().
		Select("sequence", "session_id", "question_id", "score", "answered_count", "correct", "recorded_at").
		From(entsql.Table("score_history")).
		Where(entsql.And(
			entsql.EQ("user_id", userID),
			entsql.EQ("grade", grade),
			entsql.EQ("skill_id", skillID),
		)).
		OrderBy(entsql.Desc("sequence"))
	if limit > 0 {
		sel = sel.Limit(limit)
	}
	query, args := sel.Query()

	var rows entsql.Rows
	if err := r.s.drv.Query(ctx, query, args, &rows); err != nil {
		return nil, fmt.Errorf("query score history: %w", err)
	}
	defer rows.Close()

	var out []ScorePoint
	for rows.Next() {
		var p ScorePoint
		var recorded int64
		if err := rows.Scan(&p.Sequence, &p.SessionID, &p.QuestionID, &p.Score, &p.AnsweredCount, &p.Correct, &recorded); err != nil {
			return nil, fmt.Errorf("scan score history: %w", err)
		}
		p.RecordedAt = time.UnixMilli(recorded)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate score history: %w", err)
	}
	// Newest rows were selected so the limit keeps the tail; report them
	// oldest first.
	slices.Reverse(out)
	return out, nil
}
