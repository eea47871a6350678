package interview

import "context"

// Repository persists sessions as whole documents keyed by session ID.
//
// Save is an atomic compare-and-swap on Session.Version: it stores the
// document and bumps the version only when the caller's version matches
// the stored one, returning serviceerr.ErrConflict otherwise. Create
// returns serviceerr.ErrConflict when the ID already exists; Load returns
// serviceerr.ErrNotFound for unknown IDs.
type Repository interface {
	Create(ctx context.Context, s Session) error
	Load(ctx context.Context, id string) (Session, error)
	Save(ctx context.Context, s Session) error
}
