package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/mathdrill/internal/answer"
	"github.com/abhisek/mathdrill/internal/bank"
	"github.com/abhisek/mathdrill/internal/schedule"
	"github.com/abhisek/mathdrill/internal/score"
)

// DefaultSinkTimeout bounds a single progress delivery.
const DefaultSinkTimeout = 5 * time.Second

// Options configures a Controller.
type Options struct {
	Source    bank.Source
	Sink      ProgressSink
	Scheduler schedule.Scheduler
	Logger    *zap.Logger
	Config    Config

	// SinkTimeout bounds each progress delivery. Zero means DefaultSinkTimeout.
	SinkTimeout time.Duration

	// Now is the wall clock used for event timestamps and durations.
	Now func() time.Time
}

// Controller owns one practice session: the filtered bank, the score and
// streak, the countdown, and the feedback/advance cycle. It is not safe for
// concurrent use; drive it from a single goroutine and a Scheduler that runs
// tasks on that goroutine.
type Controller struct {
	src     bank.Source
	sink    ProgressSink
	sched   schedule.Scheduler
	log     *zap.Logger
	cfg     Config
	timeout time.Duration
	now     func() time.Time

	sel       Selection
	sessionID string
	questions []bank.Question
	state     State
	phase     Phase
	started   time.Time
	ended     bool

	// gen invalidates tasks scheduled before the last reset.
	gen         uint64
	advance     schedule.Handle
	celebration schedule.Handle
	emitting    sync.WaitGroup
}

// New creates a controller with an empty selection. Call ResetForSelection
// to load questions.
func New(opts Options) *Controller {
	c := &Controller{
		src:     opts.Source,
		sink:    opts.Sink,
		sched:   opts.Scheduler,
		log:     opts.Logger,
		cfg:     opts.Config.withDefaults(),
		timeout: opts.SinkTimeout,
		now:     opts.Now,
		ended:   true,
	}
	if c.src == nil {
		c.src = bank.Table{}
	}
	if c.sched == nil {
		c.sched = schedule.NewManual()
	}
	if c.log == nil {
		c.log = zap.NewNop()
	}
	if c.timeout <= 0 {
		c.timeout = DefaultSinkTimeout
	}
	if c.now == nil {
		c.now = time.Now
	}
	c.state = newState(c.cfg)
	c.questions = []bank.Question{}
	return c
}

// ResetForSelection ends the current session and starts a new one for sel.
// Pending advances and celebrations from the previous session are cancelled.
// An unknown bank or a selector that matches nothing yields an empty session.
func (c *Controller) ResetForSelection(sel Selection) {
	c.End()

	schedule.Stop(c.advance)
	schedule.Stop(c.celebration)
	c.advance, c.celebration = nil, nil
	c.gen++

	c.sel = sel
	c.sessionID = uuid.NewString()
	c.state = newState(c.cfg)
	c.phase = PhaseIdle
	c.started = c.now()
	c.ended = false
	c.questions = c.load(sel)

	c.log.Info("session started",
		zap.String("session_id", c.sessionID),
		zap.String("user_id", sel.UserID),
		zap.String("grade", string(sel.Grade)),
		zap.String("skill_id", sel.Skill.ID),
		zap.String("bank", sel.Skill.Bank),
		zap.Stringer("selector", sel.Skill.Selector()),
		zap.Int("questions", len(c.questions)))

	if rec, ok := c.sink.(SessionRecorder); ok {
		ev := SessionStart{
			SessionID: c.sessionID,
			UserID:    sel.UserID,
			Grade:     sel.Grade,
			SkillID:   sel.Skill.ID,
			Questions: len(c.questions),
			At:        c.started,
		}
		c.emit("session start", func(ctx context.Context) error {
			return rec.RecordSessionStart(ctx, ev)
		})
	}
}

func (c *Controller) load(sel Selection) []bank.Question {
	qs, err := c.src.Load(sel.Skill.Bank)
	if err != nil {
		if errors.Is(err, bank.ErrNotFound) {
			c.log.Debug("bank not found", zap.String("bank", sel.Skill.Bank))
		} else {
			c.log.Warn("bank load failed", zap.String("bank", sel.Skill.Bank), zap.Error(err))
		}
		return []bank.Question{}
	}
	return bank.Filter(qs, sel.Skill.Selector())
}

// End emits the summary of the current session to a SessionRecorder sink.
// It is safe to call more than once; only the first call after a reset
// emits.
func (c *Controller) End() {
	if c.ended {
		return
	}
	c.ended = true
	sum := c.Summary()
	c.log.Info("session ended",
		zap.String("session_id", sum.SessionID),
		zap.Int("answered", sum.Answered),
		zap.Int("correct", sum.Correct),
		zap.Int("score", sum.FinalScore),
		zap.Duration("duration", sum.Duration))

	if rec, ok := c.sink.(SessionRecorder); ok {
		c.emit("session end", func(ctx context.Context) error {
			return rec.RecordSessionEnd(ctx, sum)
		})
	}
}

// Submit scores raw against the current question. It reports false and
// changes nothing when the controller is showing feedback or the bank is
// empty.
func (c *Controller) Submit(raw any) (Outcome, bool) {
	if c.phase != PhaseIdle || len(c.questions) == 0 {
		return Outcome{}, false
	}
	q := c.questions[c.state.Cursor]
	submitted := answer.Normalize(raw)
	correct := answer.Matches(submitted, q.Answer)

	if correct {
		c.state.Streak++
		c.state.Correct++
		c.state.Feedback = FeedbackCorrect
	} else {
		c.state.Streak = 0
		c.state.Feedback = FeedbackWrong
	}
	c.state.BestStreak = max(c.state.BestStreak, c.state.Streak)
	c.state.Score = score.Next(c.state.Score, q.Difficulty, correct, c.state.Streak)
	c.state.AnsweredCount++
	c.phase = PhaseAnswered

	out := Outcome{
		Question:  q,
		Submitted: submitted,
		Correct:   correct,
		Score:     c.state.Score,
		Streak:    c.state.Streak,
		Celebrate: correct && c.state.Score >= c.cfg.CelebrationThreshold,
	}

	c.log.Debug("answer submitted",
		zap.String("session_id", c.sessionID),
		zap.String("question_id", q.ID),
		zap.Bool("correct", correct),
		zap.Int("score", c.state.Score),
		zap.Int("streak", c.state.Streak))

	if c.sink != nil {
		ev := ProgressEvent{
			UserID:        c.sel.UserID,
			Grade:         c.sel.Grade,
			SkillID:       c.sel.Skill.ID,
			Score:         c.state.Score,
			AnsweredCount: c.state.AnsweredCount,
			SessionID:     c.sessionID,
			QuestionID:    q.ID,
			Correct:       correct,
			At:            c.now(),
		}
		c.emit("progress", func(ctx context.Context) error {
			return c.sink.RecordProgress(ctx, ev)
		})
	}

	gen := c.gen
	if out.Celebrate {
		schedule.Stop(c.celebration)
		c.state.Celebrating = true
		c.celebration = c.sched.After(c.cfg.CelebrationDuration, func() {
			if c.gen == gen {
				c.state.Celebrating = false
				c.celebration = nil
			}
		})
	}
	c.advance = c.sched.After(c.cfg.FeedbackDelay, func() {
		if c.gen == gen {
			c.next()
		}
	})
	return out, true
}

// SubmitPending submits the typed answer.
func (c *Controller) SubmitPending() (Outcome, bool) {
	return c.Submit(c.state.PendingAnswer)
}

// OnEngineAnswer submits a value reported by a click-to-answer engine. It is
// guarded exactly like Submit.
func (c *Controller) OnEngineAnswer(v any) (Outcome, bool) {
	return c.Submit(v)
}

// SetPendingAnswer records the typed answer. It is ignored while feedback is
// shown.
func (c *Controller) SetPendingAnswer(s string) {
	if c.phase != PhaseIdle {
		return
	}
	c.state.PendingAnswer = s
}

// Tick counts the timer down by one second, stopping at zero.
func (c *Controller) Tick() {
	if c.state.TimeRemaining > 0 {
		c.state.TimeRemaining--
	}
}

func (c *Controller) next() {
	c.advance = nil
	c.state.PendingAnswer = ""
	c.state.Feedback = FeedbackNone
	c.phase = PhaseIdle
	if n := len(c.questions); n > 0 {
		c.state.Cursor = (c.state.Cursor + 1) % n
	}
}

// emit runs fn on its own goroutine. The caller never waits on it.
func (c *Controller) emit(what string, fn func(ctx context.Context) error) {
	log := c.log.With(zap.String("session_id", c.sessionID))
	timeout := c.timeout
	c.emitting.Add(1)
	go func() {
		defer c.emitting.Done()
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := fn(ctx); err != nil {
			log.Warn("failed to record "+what, zap.Error(err))
		}
	}()
}

// Wait blocks until every event emitted so far has been delivered or has
// failed. Use it on shutdown so the last events are not lost.
func (c *Controller) Wait() {
	c.emitting.Wait()
}

// Current returns the question under the cursor. It reports false for an
// empty bank.
func (c *Controller) Current() (bank.Question, bool) {
	if len(c.questions) == 0 {
		return bank.Question{}, false
	}
	return c.questions[c.state.Cursor], true
}

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	return c.state
}

// Phase returns the state machine position.
func (c *Controller) Phase() Phase {
	return c.phase
}

// Len returns the size of the filtered bank.
func (c *Controller) Len() int {
	return len(c.questions)
}

// Selection returns the active selection.
func (c *Controller) Selection() Selection {
	return c.sel
}

// SessionID returns the id minted by the last reset.
func (c *Controller) SessionID() string {
	return c.sessionID
}

// Config returns the effective settings.
func (c *Controller) Config() Config {
	return c.cfg
}

// Summary reports the session so far.
func (c *Controller) Summary() Summary {
	var elapsed time.Duration
	if !c.started.IsZero() {
		elapsed = c.now().Sub(c.started)
	}
	return buildSummary(c.sel, c.sessionID, c.state, elapsed)
}
