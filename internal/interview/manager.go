// Package interview implements the coaching and practice session flows:
// step-by-step question generation, answer feedback, and the terminal
// overall evaluation of a practice run.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	cache "github.com/patrickmn/go-cache"
	slogctx "github.com/veqryn/slog-context"

	"github.com/prepdeck/interview-manager/internal/genai"
	"github.com/prepdeck/interview-manager/internal/parse"
	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

// Per-call generation parameters. Questions and the overall summary get
// more headroom than per-answer feedback.
const (
	questionMaxTokens   = 500
	questionTemperature = 0.7
	questionTimeout     = 90 * time.Second

	feedbackMaxTokens   = 300
	feedbackTemperature = 0.5
	feedbackTimeout     = 60 * time.Second

	overallMaxTokens   = 500
	overallTemperature = 0.7
	overallTimeout     = 120 * time.Second
)

// overallUnavailableMessage is stored when the terminal evaluation cannot
// be generated. Results never fails on provider trouble, it degrades.
const overallUnavailableMessage = "Overall feedback could not be generated at this time. " +
	"Review the individual feedback on each answer above."

// Manager drives session state transitions. All writes go through the
// repository's compare-and-swap Save; the in-process lock registry only
// serializes work on one session to avoid duplicate generation calls, the
// version check stays authoritative.
type Manager struct {
	sessions  Repository
	generator genai.Generator
	locks     *cache.Cache
}

// NewManager creates a Manager on top of a session repository and a text
// generator.
func NewManager(sessions Repository, generator genai.Generator) *Manager {
	return &Manager{
		sessions:  sessions,
		generator: generator,
		locks:     cache.New(30*time.Minute, 10*time.Minute),
	}
}

// lockSession returns the mutex for one session ID, creating it on first
// use. Entries expire so abandoned sessions do not pin memory.
func (m *Manager) lockSession(id string) *sync.Mutex {
	if mu, ok := m.locks.Get(id); ok {
		return mu.(*sync.Mutex)
	}
	mu := &sync.Mutex{}
	if err := m.locks.Add(id, mu, cache.DefaultExpiration); err != nil {
		// Lost the race to another goroutine, use its mutex.
		if existing, ok := m.locks.Get(id); ok {
			return existing.(*sync.Mutex)
		}
	}
	return mu
}

// Create starts a new session. The context position is required; the kind
// must be one of the known session kinds.
func (m *Manager) Create(ctx context.Context, kind Kind, c Context) (Session, error) {
	if !kind.Valid() {
		return Session{}, fmt.Errorf("%w: unknown session kind %q", serviceerr.ErrValidation, kind)
	}
	if strings.TrimSpace(c.Position) == "" {
		return Session{}, fmt.Errorf("%w: position is required", serviceerr.ErrValidation)
	}

	s := Session{
		ID:        uuid.NewString(),
		Kind:      kind,
		Context:   c,
		Status:    StatusInProgress,
		Version:   1,
		CreatedAt: time.Now().UTC(),
	}
	if err := m.sessions.Create(ctx, s); err != nil {
		return Session{}, fmt.Errorf("create session: %w", err)
	}

	slogctx.FromCtx(ctx).Info("Session created", "session_id", s.ID, "kind", s.Kind)
	return s, nil
}

// Get returns the current state of a session.
func (m *Manager) Get(ctx context.Context, id string) (Session, error) {
	return m.sessions.Load(ctx, id)
}

// GetStep returns the step at index, materializing it when index is the
// next unmaterialized position. Steps materialize strictly in order:
// asking past the frontier is out of sequence, asking at or beyond
// MaxSteps is out of range. Re-reading a materialized step returns the
// stored record unchanged and never contacts the generator.
func (m *Manager) GetStep(ctx context.Context, id string, index int) (StepRecord, error) {
	if index < 0 || index >= MaxSteps {
		return StepRecord{}, fmt.Errorf("%w: step %d", serviceerr.ErrIndexOutOfRange, index)
	}

	mu := m.lockSession(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return StepRecord{}, err
	}

	if index < len(s.Steps) {
		return s.Clone().Steps[index], nil
	}
	if index > len(s.Steps) {
		return StepRecord{}, fmt.Errorf("%w: step %d requested but only %d materialized",
			serviceerr.ErrOutOfSequence, index, len(s.Steps))
	}

	record, err := m.generateStep(ctx, s)
	if err != nil {
		return StepRecord{}, err
	}

	s.Steps = append(s.Steps, record)
	if s.Kind == KindCoach && len(s.Steps) == MaxSteps {
		s.Status = StatusCompleted
	}

	if err := m.sessions.Save(ctx, s); err != nil {
		if !errors.Is(err, serviceerr.ErrConflict) {
			return StepRecord{}, fmt.Errorf("save session: %w", err)
		}
		// Another writer advanced the session. Reload; if it already
		// materialized this step, hand that out, otherwise reapply once.
		s, err = m.sessions.Load(ctx, id)
		if err != nil {
			return StepRecord{}, err
		}
		if index < len(s.Steps) {
			return s.Clone().Steps[index], nil
		}
		if index > len(s.Steps) {
			return StepRecord{}, fmt.Errorf("%w: step %d requested but only %d materialized",
				serviceerr.ErrOutOfSequence, index, len(s.Steps))
		}
		s.Steps = append(s.Steps, record)
		if s.Kind == KindCoach && len(s.Steps) == MaxSteps {
			s.Status = StatusCompleted
		}
		if err := m.sessions.Save(ctx, s); err != nil {
			return StepRecord{}, fmt.Errorf("save session after conflict: %w", err)
		}
	}

	return record, nil
}

// generateStep asks the generator for one new question/ideal-answer pair.
// A question duplicating an earlier one triggers exactly one regeneration;
// if the retry fails or is still a duplicate the result is accepted anyway
// rather than looping.
func (m *Manager) generateStep(ctx context.Context, s Session) (StepRecord, error) {
	logger := slogctx.FromCtx(ctx)

	record, err := m.generateQuestion(ctx, s)
	if err != nil {
		return StepRecord{}, err
	}

	if containsQuestion(s.Questions(), record.Question) {
		logger.Warn("Generated a duplicate question, regenerating once",
			"session_id", s.ID, "step", len(s.Steps))
		retried, retryErr := m.generateQuestion(ctx, s)
		if retryErr != nil {
			logger.Warn("Regeneration failed, keeping duplicate question",
				"session_id", s.ID, "error", retryErr)
		} else {
			record = retried
		}
	}

	if len(record.Warnings) > 0 {
		logger.Warn("Question parsed with warnings",
			"session_id", s.ID, "warnings", record.Warnings)
	}
	return record, nil
}

func (m *Manager) generateQuestion(ctx context.Context, s Session) (StepRecord, error) {
	prompt := questionPrompt(s.Context, s.Questions())
	text, err := m.generator.Generate(ctx, prompt,
		genai.WithMaxTokens(questionMaxTokens),
		genai.WithTemperature(questionTemperature),
		genai.WithTimeout(questionTimeout),
	)
	if err != nil {
		return StepRecord{}, errors.Join(serviceerr.ErrGenerationUnavailable, err)
	}

	res, err := parse.ParseStep(text)
	if err != nil {
		return StepRecord{}, errors.Join(serviceerr.ErrGenerationUnavailable, err)
	}

	return StepRecord{
		Question:    res.Value.Question,
		IdealAnswer: res.Value.IdealAnswer,
		Warnings:    res.Warnings,
	}, nil
}

// normalizeQuestion folds case and whitespace so trivially reworded
// duplicates are caught.
func normalizeQuestion(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

func containsQuestion(questions []string, q string) bool {
	needle := normalizeQuestion(q)
	for _, existing := range questions {
		if normalizeQuestion(existing) == needle {
			return true
		}
	}
	return false
}

// SubmitAnswer records the user's answer to a materialized step of a
// practice session and generates feedback for it. Resubmitting an already
// answered step is a no-op returning the stored record; the generator is
// not called again.
func (m *Manager) SubmitAnswer(ctx context.Context, id string, index int, answer string) (StepRecord, error) {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return StepRecord{}, fmt.Errorf("%w: answer is required", serviceerr.ErrValidation)
	}
	if index < 0 || index >= MaxSteps {
		return StepRecord{}, fmt.Errorf("%w: step %d", serviceerr.ErrIndexOutOfRange, index)
	}

	mu := m.lockSession(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return StepRecord{}, err
	}
	if s.Kind != KindPractice {
		return StepRecord{}, fmt.Errorf("%w: answers are only accepted on practice sessions", serviceerr.ErrValidation)
	}
	if index >= len(s.Steps) {
		return StepRecord{}, fmt.Errorf("%w: step %d has no question yet", serviceerr.ErrOutOfSequence, index)
	}
	if s.Steps[index].Answered() {
		return s.Clone().Steps[index], nil
	}

	record, err := m.evaluateAnswer(ctx, s, index, answer)
	if err != nil {
		return StepRecord{}, err
	}

	s.Steps[index] = record
	if len(s.Steps) == MaxSteps && s.AllAnswered() {
		s.Status = StatusCompleted
	}

	if err := m.sessions.Save(ctx, s); err != nil {
		if !errors.Is(err, serviceerr.ErrConflict) {
			return StepRecord{}, fmt.Errorf("save session: %w", err)
		}
		s, err = m.sessions.Load(ctx, id)
		if err != nil {
			return StepRecord{}, err
		}
		if index >= len(s.Steps) {
			return StepRecord{}, fmt.Errorf("%w: step %d has no question yet", serviceerr.ErrOutOfSequence, index)
		}
		if s.Steps[index].Answered() {
			return s.Clone().Steps[index], nil
		}
		s.Steps[index] = record
		if len(s.Steps) == MaxSteps && s.AllAnswered() {
			s.Status = StatusCompleted
		}
		if err := m.sessions.Save(ctx, s); err != nil {
			return StepRecord{}, fmt.Errorf("save session after conflict: %w", err)
		}
	}

	return record, nil
}

func (m *Manager) evaluateAnswer(ctx context.Context, s Session, index int, answer string) (StepRecord, error) {
	step := s.Steps[index]

	prompt := feedbackPrompt(s.Context, step.Question, answer, step.IdealAnswer)
	text, err := m.generator.Generate(ctx, prompt,
		genai.WithMaxTokens(feedbackMaxTokens),
		genai.WithTemperature(feedbackTemperature),
		genai.WithTimeout(feedbackTimeout),
	)
	if err != nil {
		return StepRecord{}, errors.Join(serviceerr.ErrGenerationUnavailable, err)
	}

	res, err := parse.ParseFeedback(text)
	if err != nil {
		return StepRecord{}, errors.Join(serviceerr.ErrGenerationUnavailable, err)
	}
	if len(res.Warnings) > 0 {
		slogctx.FromCtx(ctx).Warn("Feedback parsed with warnings",
			"session_id", s.ID, "step", index, "warnings", res.Warnings)
	}

	step.UserAnswer = answer
	step.Feedback = res.Value
	step.Warnings = append(step.Warnings, res.Warnings...)
	return step, nil
}

// Results returns the overall evaluation of a completed practice session,
// generating and persisting it on first call. The evaluation is computed
// at most once per session; provider or parse trouble degrades the content
// instead of failing the call.
func (m *Manager) Results(ctx context.Context, id string) (OverallFeedback, error) {
	mu := m.lockSession(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.sessions.Load(ctx, id)
	if err != nil {
		return OverallFeedback{}, err
	}
	if s.Kind != KindPractice {
		return OverallFeedback{}, fmt.Errorf("%w: results exist only for practice sessions", serviceerr.ErrValidation)
	}
	if s.Status != StatusCompleted {
		return OverallFeedback{}, fmt.Errorf("%w: session is not completed yet", serviceerr.ErrValidation)
	}
	if s.Overall != nil {
		return *s.Clone().Overall, nil
	}

	overall := m.aggregateOverall(ctx, s)
	s.Overall = &overall

	if err := m.sessions.Save(ctx, s); err != nil {
		if !errors.Is(err, serviceerr.ErrConflict) {
			// The evaluation is computed; failing the read over a persistence
			// hiccup would waste it. Return it and let the next call retry
			// the save.
			slogctx.FromCtx(ctx).Error("Failed to persist overall feedback",
				"session_id", s.ID, "error", err)
			return overall, nil
		}
		s, err = m.sessions.Load(ctx, id)
		if err != nil {
			return OverallFeedback{}, err
		}
		if s.Overall != nil {
			return *s.Clone().Overall, nil
		}
		s.Overall = &overall
		if err := m.sessions.Save(ctx, s); err != nil {
			slogctx.FromCtx(ctx).Error("Failed to persist overall feedback after conflict",
				"session_id", s.ID, "error", err)
		}
	}

	return overall, nil
}

// aggregateOverall generates the terminal evaluation, degrading to
// placeholder content on any failure.
func (m *Manager) aggregateOverall(ctx context.Context, s Session) OverallFeedback {
	logger := slogctx.FromCtx(ctx)

	prompt := overallPrompt(s.Context, s.Steps)
	text, err := m.generator.Generate(ctx, prompt,
		genai.WithMaxTokens(overallMaxTokens),
		genai.WithTemperature(overallTemperature),
		genai.WithTimeout(overallTimeout),
	)
	if err != nil {
		logger.Error("Overall feedback generation failed, degrading",
			"session_id", s.ID, "error", err)
		return degradedOverall()
	}

	res, err := parse.ParseOverall(text)
	if err != nil {
		logger.Error("Overall feedback unparseable, degrading",
			"session_id", s.ID, "error", err)
		return degradedOverall()
	}
	if len(res.Warnings) > 0 {
		logger.Warn("Overall feedback parsed with warnings",
			"session_id", s.ID, "warnings", res.Warnings)
	}

	return OverallFeedback{
		HiringPercentage:    res.Value.HiringPercentage,
		AreasForImprovement: res.Value.AreasForImprovement,
		OverallMessage:      res.Value.OverallMessage,
	}
}

func degradedOverall() OverallFeedback {
	return OverallFeedback{
		HiringPercentage: parse.Placeholder,
		OverallMessage:   overallUnavailableMessage,
	}
}
