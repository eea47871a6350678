// Package resumesql persists resume-optimization results in PostgreSQL as
// JSONB documents.
package resumesql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/prepdeck/interview-manager/internal/resume"
	"github.com/prepdeck/interview-manager/internal/serviceerr"
)

type Repository struct {
	db *pgxpool.Pool
}

var _ resume.Repository = (*Repository)(nil)

func NewRepository(db *pgxpool.Pool) *Repository {
	return &Repository{
		db: db,
	}
}

func (r *Repository) Store(ctx context.Context, o resume.Optimization) error {
	doc, err := json.Marshal(o)
	if err != nil {
		return fmt.Errorf("encoding optimization result: %w", err)
	}

	if _, err := r.db.Exec(
		ctx, `INSERT INTO resume_results (id, doc, created_at)
	VALUES ($1, $2, $3);`,
		o.ID, doc, o.CreatedAt,
	); err != nil {
		return fmt.Errorf("inserting into resume_results: %w", err)
	}

	return nil
}

func (r *Repository) Latest(ctx context.Context) (resume.Optimization, error) {
	var doc []byte
	if err := r.db.QueryRow(
		ctx, `SELECT doc
	FROM resume_results
	ORDER BY created_at DESC
	LIMIT 1;`,
	).Scan(&doc); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return resume.Optimization{}, serviceerr.ErrNotFound
		}

		return resume.Optimization{}, fmt.Errorf("selecting from resume_results: %w", err)
	}

	var o resume.Optimization
	if err := json.Unmarshal(doc, &o); err != nil {
		return resume.Optimization{}, fmt.Errorf("decoding optimization result: %w", err)
	}

	return o, nil
}
