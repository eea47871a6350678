// Package interviewvalkey persists sessions in Valkey as JSON documents.
// The compare-and-swap Save runs as a Lua script so the version check and
// the write are atomic.
package interviewvalkey

import (
	"context"
	"errors"

	"github.com/valkey-io/valkey-go"

	"github.com/prepdeck/interview-manager/internal/interview"
)

const objectTypeSession = "session"

var (
	ErrGetSession    = errors.New("getting session from store")
	ErrCreateSession = errors.New("creating session in store")
	ErrSaveSession   = errors.New("saving session into store")
)

type Repository struct {
	store *store
}

var _ interview.Repository = (*Repository)(nil)

func NewRepository(valkeyClient valkey.Client, prefix string) *Repository {
	return &Repository{
		store: newStore(valkeyClient, prefix),
	}
}

func (r *Repository) Create(ctx context.Context, s interview.Session) error {
	if err := r.store.SetNX(ctx, objectTypeSession, s.ID, s); err != nil {
		return errors.Join(ErrCreateSession, err)
	}

	return nil
}

func (r *Repository) Load(ctx context.Context, id string) (interview.Session, error) {
	var s interview.Session
	if err := r.store.Get(ctx, objectTypeSession, id, &s); err != nil {
		return interview.Session{}, errors.Join(ErrGetSession, err)
	}

	return s, nil
}

func (r *Repository) Save(ctx context.Context, s interview.Session) error {
	next := s
	next.Version = s.Version + 1
	if err := r.store.CompareAndSwap(ctx, objectTypeSession, s.ID, s.Version, next); err != nil {
		return errors.Join(ErrSaveSession, err)
	}

	return nil
}
