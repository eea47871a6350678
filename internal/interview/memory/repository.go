// Package memory provides an in-memory session repository. It backs the
// default storage configuration and doubles as the test repository via its
// fault-injection options.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/prepdeck/interview-manager/internal/interview"
	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

// Repository stores sessions in a map guarded by one mutex. Save enforces
// the same compare-and-swap contract the durable backends do.
type Repository struct {
	mu       sync.Mutex
	sessions map[string]interview.Session

	createErr error
	loadErr   error
	saveErr   error
	conflicts int

	saveCalls int
}

var _ interview.Repository = (*Repository)(nil)

// Option configures a Repository, mostly for tests.
type Option func(*Repository)

// WithSession seeds the repository with a session.
func WithSession(s interview.Session) Option {
	return func(r *Repository) {
		r.sessions[s.ID] = s.Clone()
	}
}

// WithCreateError makes every Create fail with err.
func WithCreateError(err error) Option {
	return func(r *Repository) {
		r.createErr = err
	}
}

// WithLoadError makes every Load fail with err.
func WithLoadError(err error) Option {
	return func(r *Repository) {
		r.loadErr = err
	}
}

// WithSaveError makes every Save fail with err.
func WithSaveError(err error) Option {
	return func(r *Repository) {
		r.saveErr = err
	}
}

// WithConflicts makes the next n Save calls fail with ErrConflict before
// the compare-and-swap proceeds normally.
func WithConflicts(n int) Option {
	return func(r *Repository) {
		r.conflicts = n
	}
}

// NewRepository creates an in-memory repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{
		sessions: make(map[string]interview.Session),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create stores a new session, rejecting duplicate IDs.
func (r *Repository) Create(_ context.Context, s interview.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.createErr != nil {
		return r.createErr
	}
	if _, exists := r.sessions[s.ID]; exists {
		return fmt.Errorf("session %s already exists: %w", s.ID, serviceerr.ErrConflict)
	}
	r.sessions[s.ID] = s.Clone()
	return nil
}

// Load returns a deep copy of the stored session.
func (r *Repository) Load(_ context.Context, id string) (interview.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loadErr != nil {
		return interview.Session{}, r.loadErr
	}
	s, exists := r.sessions[id]
	if !exists {
		return interview.Session{}, fmt.Errorf("session %s: %w", id, serviceerr.ErrNotFound)
	}
	return s.Clone(), nil
}

// Save replaces the stored session when the caller's version matches,
// bumping the version. A mismatch returns ErrConflict.
func (r *Repository) Save(_ context.Context, s interview.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.saveCalls++
	if r.saveErr != nil {
		return r.saveErr
	}
	if r.conflicts > 0 {
		r.conflicts--
		return fmt.Errorf("injected conflict: %w", serviceerr.ErrConflict)
	}

	stored, exists := r.sessions[s.ID]
	if !exists {
		return fmt.Errorf("session %s: %w", s.ID, serviceerr.ErrNotFound)
	}
	if stored.Version != s.Version {
		return fmt.Errorf("session %s version %d does not match stored %d: %w",
			s.ID, s.Version, stored.Version, serviceerr.ErrConflict)
	}

	next := s.Clone()
	next.Version++
	r.sessions[s.ID] = next
	return nil
}

// SaveCalls reports how many times Save has been invoked.
func (r *Repository) SaveCalls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.saveCalls
}
