// Package interviewsql persists sessions in PostgreSQL. Each session is one
// row holding the full document as JSONB next to a version column that
// backs the compare-and-swap Save.
package interviewsql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdeck/interview-manager/internal/interview"
	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

type Repository struct {
	db *pgxpool.Pool
}

var _ interview.Repository = (*Repository)(nil)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Create(ctx context.Context, s interview.Session) error {
	doc, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	if _, err := r.db.Exec(
		ctx, `INSERT INTO interview_sessions (id, kind, doc, version, created_at)
	VALUES ($1, $2, $3, $4, $5);`,
		s.ID, string(s.Kind), doc, s.Version, s.CreatedAt,
	); err != nil {
		if err, ok := handlePgError(err); ok {
			return err
		}

		return fmt.Errorf("inserting into interview_sessions: %w", err)
	}

	return nil
}

func (r *Repository) Load(ctx context.Context, id string) (interview.Session, error) {
	var (
		doc     []byte
		version int64
	)
	if err := r.db.QueryRow(
		ctx, `SELECT doc, version
	FROM interview_sessions
	WHERE id = $1;`,
		id,
	).Scan(&doc, &version); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return interview.Session{}, serviceerr.ErrNotFound
		}

		return interview.Session{}, fmt.Errorf("selecting from interview_sessions: %w", err)
	}

	var s interview.Session
	if err := json.Unmarshal(doc, &s); err != nil {
		return interview.Session{}, fmt.Errorf("decoding session: %w", err)
	}

	// The column is authoritative for concurrency control.
	s.Version = version

	return s, nil
}

func (r *Repository) Save(ctx context.Context, s interview.Session) error {
	next := s
	next.Version = s.Version + 1
	doc, err := json.Marshal(next)
	if err != nil {
		return fmt.Errorf("encoding session: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(
		ctx, `UPDATE interview_sessions
	SET doc = $2, version = version + 1
	WHERE id = $1
		AND version = $3;`,
		s.ID, doc, s.Version,
	)
	if err != nil {
		return fmt.Errorf("updating interview_sessions: %w", err)
	}

	if tag.RowsAffected() == 0 {
		// Either the row is gone or another writer bumped the version.
		var exists bool
		if err := tx.QueryRow(
			ctx, `SELECT EXISTS (SELECT 1 FROM interview_sessions WHERE id = $1);`,
			s.ID,
		).Scan(&exists); err != nil {
			return fmt.Errorf("checking interview_sessions existence: %w", err)
		}
		if !exists {
			return serviceerr.ErrNotFound
		}

		return serviceerr.ErrConflict
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing tx: %w", err)
	}

	return nil
}
