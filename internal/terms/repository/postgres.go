package repository

import (
	"context"
	"database/sql"
	"errors"

	"user-auth-service/internal/terms/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a terms repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetLatest returns the latest terms version, or nil when none is published.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetLatest(ctx context.Context) (*domain.Terms, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, version, content, is_latest, created_at, updated_at
		FROM terms
		WHERE is_latest`)
	var t domain.Terms
	err := row.Scan(&t.ID, &t.Version, &t.Content, &t.IsLatest, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &t, nil
}

// Publish inserts t as the latest version inside a transaction, clearing the
// flag on any previous latest row first.
func (r *PostgresRepository) Publish(ctx context.Context, t *domain.Terms) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `UPDATE terms SET is_latest = FALSE, updated_at = $1 WHERE is_latest`, t.UpdatedAt); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO terms (id, version, content, is_latest, created_at, updated_at)
		VALUES ($1, $2, $3, TRUE, $4, $5)`,
		t.ID, t.Version, t.Content, t.CreatedAt, t.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}
