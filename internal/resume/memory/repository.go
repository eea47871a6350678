// Package memory provides an in-memory resume-result repository.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/prepdeck/interview-manager/internal/resume"
	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

type Repository struct {
	mu      sync.Mutex
	results []resume.Optimization

	storeErr error
}

var _ resume.Repository = (*Repository)(nil)

// Option configures a Repository, mostly for tests.
type Option func(*Repository)

// WithResult seeds the repository with a stored optimization.
func WithResult(o resume.Optimization) Option {
	return func(r *Repository) {
		r.results = append(r.results, cloneOptimization(o))
	}
}

// WithStoreError makes every Store fail with err.
func WithStoreError(err error) Option {
	return func(r *Repository) {
		r.storeErr = err
	}
}

// NewRepository creates an in-memory repository.
func NewRepository(opts ...Option) *Repository {
	r := &Repository{}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store appends an optimization result.
func (r *Repository) Store(_ context.Context, o resume.Optimization) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.storeErr != nil {
		return r.storeErr
	}
	r.results = append(r.results, cloneOptimization(o))
	return nil
}

// Latest returns the most recently stored result.
func (r *Repository) Latest(_ context.Context) (resume.Optimization, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if len(r.results) == 0 {
		return resume.Optimization{}, fmt.Errorf("no optimization results: %w", serviceerr.ErrNotFound)
	}
	return cloneOptimization(r.results[len(r.results)-1]), nil
}

func cloneOptimization(o resume.Optimization) resume.Optimization {
	o.OriginalImprovements = slices.Clone(o.OriginalImprovements)
	o.Warnings = slices.Clone(o.Warnings)
	return o
}
