package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/catalog"
	"github.com/abhisek/mathdrill/internal/score"
	"github.com/abhisek/mathdrill/internal/session"
	"github.com/abhisek/mathdrill/internal/store"
)

// maxBody caps request bodies.
const maxBody = 64 << 10

type progressResponse struct {
	Progress []store.ProgressRecord `json:"progress"`
}

type historyResponse struct {
	UserID  string             `json:"userId"`
	Grade   string             `json:"grade"`
	SkillID string             `json:"skillId"`
	History []store.ScorePoint `json:"history"`
}

type catalogGrade struct {
	Grade  bank.Grade      `json:"grade"`
	Name   string          `json:"name"`
	Skills []catalog.Skill `json:"skills"`
}

func validateEvent(ev session.ProgressEvent) error {
	var errs []error
	if ev.UserID == "" {
		errs = append(errs, errors.New("userId is required"))
	}
	if _, err := bank.ParseGrade(string(ev.Grade)); err != nil {
		errs = append(errs, err)
	}
	if ev.SkillID == "" {
		errs = append(errs, errors.New("skillId is required"))
	}
	if ev.Score < score.Min || ev.Score > score.Max {
		errs = append(errs, fmt.Errorf("score %d out of range [%d, %d]", ev.Score, score.Min, score.Max))
	}
	if ev.AnsweredCount < 0 {
		errs = append(errs, errors.New("answeredCount must not be negative"))
	}
	return errors.Join(errs...)
}

func (s *Server) recordProgress(w http.ResponseWriter, r *http.Request) {
	var ev session.ProgressEvent
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody))
	if err := dec.Decode(&ev); err != nil {
		respondError(w, http.StatusBadRequest, fmt.Errorf("decode progress: %w", err))
		return
	}
	if err := validateEvent(ev); err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}

	err := s.progress.Record(r.Context(), store.ProgressData{
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
	if err != nil {
		s.log.Error("record progress failed",
			zap.String("user_id", ev.UserID),
			zap.String("skill_id", ev.SkillID),
			zap.Error(err))
		respondError(w, http.StatusInternalServerError, errors.New("could not save progress"))
		return
	}
	s.metrics.recorded(string(ev.Grade), ev.Correct, ev.Score)

	respondJSON(w, http.StatusOK, store.ProgressRecord{
		UserID:        ev.UserID,
		Grade:         string(ev.Grade),
		SkillID:       ev.SkillID,
		CurrentScore:  ev.Score,
		TotalAnswered: ev.AnsweredCount,
		UpdatedAt:     ev.At,
	})
}

func (s *Server) listProgress(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	rows, err := s.progress.List(r.Context(), store.ProgressQuery{
		UserID:  q.Get("userId"),
		Grade:   q.Get("grade"),
		SkillID: q.Get("skillId"),
	})
	if err != nil {
		s.log.Error("list progress failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, errors.New("could not load progress"))
		return
	}
	if rows == nil {
		rows = []store.ProgressRecord{}
	}
	respondJSON(w, http.StatusOK, progressResponse{Progress: rows})
}

func (s *Server) skillHistory(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("userId")
	if userID == "" {
		respondError(w, http.StatusBadRequest, errors.New("userId is required"))
		return
	}
	grade, skillID := chi.URLParam(r, "grade"), chi.URLParam(r, "skillID")
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}

	hist, err := s.progress.History(r.Context(), userID, grade, skillID, limit)
	if err != nil {
		s.log.Error("load history failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, errors.New("could not load history"))
		return
	}
	if hist == nil {
		hist = []store.ScorePoint{}
	}
	respondJSON(w, http.StatusOK, historyResponse{UserID: userID, Grade: grade, SkillID: skillID, History: hist})
}

func (s *Server) recentSessions(w http.ResponseWriter, r *http.Request) {
	if s.events == nil {
		respondJSON(w, http.StatusOK, []store.SessionEventRecord{})
		return
	}
	limit, err := queryInt(r, "limit")
	if err != nil {
		respondError(w, http.StatusBadRequest, err)
		return
	}
	if limit == 0 {
		limit = 50
	}
	events, err := s.events.RecentSessions(r.Context(), r.URL.Query().Get("userId"), limit)
	if err != nil {
		s.log.Error("load sessions failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, errors.New("could not load sessions"))
		return
	}
	if events == nil {
		events = []store.SessionEventRecord{}
	}
	respondJSON(w, http.StatusOK, events)
}

func (s *Server) listCatalog(w http.ResponseWriter, r *http.Request) {
	out := []catalogGrade{}
	if s.catalog != nil {
		for _, g := range s.catalog.Grades() {
			out = append(out, catalogGrade{Grade: g, Name: g.DisplayName(), Skills: s.catalog.ByGrade(g)})
		}
	}
	respondJSON(w, http.StatusOK, out)
}

func (s *Server) gradeCatalog(w http.ResponseWriter, r *http.Request) {
	g, err := bank.ParseGrade(chi.URLParam(r, "grade"))
	if err != nil {
		respondError(w, http.StatusNotFound, err)
		return
	}
	var skills []catalog.Skill
	if s.catalog != nil {
		skills = s.catalog.ByGrade(g)
	}
	if skills == nil {
		skills = []catalog.Skill{}
	}
	respondJSON(w, http.StatusOK, catalogGrade{Grade: g, Name: g.DisplayName(), Skills: skills})
}

func queryInt(r *http.Request, key string) (int, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid %s %q", key, raw)
	}
	return n, nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, err error) {
	respondJSON(w, status, map[string]string{"error": err.Error()})
}
