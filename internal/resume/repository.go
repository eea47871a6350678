package resume

import "context"

// Repository persists optimization results. Latest returns
// serviceerr.ErrNotFound when nothing has been stored yet.
type Repository interface {
	Store(ctx context.Context, o Optimization) error
	Latest(ctx context.Context) (Optimization, error)
}
