package interview

import (
	"slices"
	"time"
)

// Kind discriminates the two session flavors: coach sessions only display
// questions with ideal answers, practice sessions collect user answers and
// per-answer feedback.
type Kind string

const (
	KindCoach    Kind = "coach"
	KindPractice Kind = "practice"
)

// Valid reports whether k is a known session kind.
func (k Kind) Valid() bool {
	return k == KindCoach || k == KindPractice
}

// Status is the lifecycle state of a session. It is monotonic: a completed
// session never reverts to in-progress.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// MaxSteps caps the number of steps per session. Indices are stable once
// assigned; steps are appended strictly in order and never removed.
const MaxSteps = 5

// Context holds the immutable inputs supplied at session creation.
type Context struct {
	Position   string `json:"position"`
	Experience string `json:"experience"`
	Industry   string `json:"industry"`
}

// StepRecord is one question cycle. UserAnswer is set at most once by the
// first successful submission; Feedback is present exactly when UserAnswer
// is. Coach sessions never carry either.
type StepRecord struct {
	Question    string   `json:"question"`
	IdealAnswer string   `json:"ideal_answer"`
	UserAnswer  string   `json:"user_answer,omitempty"`
	Feedback    string   `json:"feedback,omitempty"`
	Warnings    []string `json:"warnings,omitempty"`
}

// Answered reports whether the step already has a submitted answer.
func (s StepRecord) Answered() bool {
	return s.UserAnswer != ""
}

// OverallFeedback is the terminal summary of a completed practice session.
// The hiring percentage is provider-supplied text, never computed locally.
type OverallFeedback struct {
	HiringPercentage    string   `json:"hiring_percentage"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	OverallMessage      string   `json:"overall_message"`
}

// Session is the unit of persisted state for one coaching or practice run.
// It serializes as a single self-contained document so one atomic write
// covers one logical transition. Version is the optimistic concurrency
// token checked by Repository.Save.
type Session struct {
	ID        string           `json:"id"`
	Kind      Kind             `json:"kind"`
	Context   Context          `json:"context"`
	Steps     []StepRecord     `json:"steps,omitempty"`
	Status    Status           `json:"status"`
	Overall   *OverallFeedback `json:"overall,omitempty"`
	Version   int64            `json:"version"`
	CreatedAt time.Time        `json:"created_at"`
}

// AllAnswered reports whether every materialized step has an answer.
func (s Session) AllAnswered() bool {
	for _, step := range s.Steps {
		if !step.Answered() {
			return false
		}
	}
	return len(s.Steps) > 0
}

// Questions returns the text of every materialized question, in order.
func (s Session) Questions() []string {
	qs := make([]string, len(s.Steps))
	for i, step := range s.Steps {
		qs[i] = step.Question
	}
	return qs
}

// Clone returns a deep copy. Repositories hand out clones so callers can
// never mutate stored state behind the version check.
func (s Session) Clone() Session {
	c := s
	c.Steps = make([]StepRecord, len(s.Steps))
	for i, step := range s.Steps {
		step.Warnings = slices.Clone(step.Warnings)
		c.Steps[i] = step
	}
	if s.Overall != nil {
		overall := *s.Overall
		overall.AreasForImprovement = slices.Clone(s.Overall.AreasForImprovement)
		c.Overall = &overall
	}
	return c
}
