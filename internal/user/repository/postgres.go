package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	apperrors "user-auth-service/internal/errors"
	"user-auth-service/internal/user/domain"
)

const userColumns = `id, username, email, phone, password_hash, avatar, role, status,
	last_login_at, agreed_to_terms, terms_accepted_at, terms_version, created_at, updated_at`

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a user repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the user for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return scanUser(row)
}

// GetByIdentifier returns the user whose username, email, or phone equals
// identifier, or nil if none matches.
func (r *PostgresRepository) GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1 OR email = $1 OR phone = $1`,
		identifier)
	return scanUser(row)
}

// Create persists the user. The user must have ID set; it is not assigned by
// this method. Empty email and phone are stored as NULL so the unique
// constraints only bind present values. Unique violations are mapped to
// per-field conflict errors.
func (r *PostgresRepository) Create(ctx context.Context, u *domain.User) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (`+userColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`,
		u.ID, u.Username, nullable(u.Email), nullable(u.Phone), u.PasswordHash, u.Avatar,
		string(u.Role), string(u.Status),
		u.LastLoginAt, u.AgreedToTerms, u.TermsAcceptedAt, u.TermsVersion,
		u.CreatedAt, u.UpdatedAt)
	if err != nil {
		return mapUniqueViolation(err)
	}
	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// UpdateLastLogin stamps the user's last successful login time. No-op if the user is missing.
func (r *PostgresRepository) UpdateLastLogin(ctx context.Context, userID string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE users SET last_login_at = $2, updated_at = $2 WHERE id = $1`,
		userID, at)
	return err
}

// SetTermsAccepted stamps acceptance of the given terms version. No-op if the user is missing.
func (r *PostgresRepository) SetTermsAccepted(ctx context.Context, userID, version string, at time.Time) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE users
		SET agreed_to_terms = TRUE, terms_accepted_at = $3, terms_version = $2, updated_at = $3
		WHERE id = $1`,
		userID, version, at)
	return err
}

func scanUser(row *sql.Row) (*domain.User, error) {
	var u domain.User
	var email, phone sql.NullString
	var role, status string
	err := row.Scan(&u.ID, &u.Username, &email, &phone, &u.PasswordHash, &u.Avatar,
		&role, &status,
		&u.LastLoginAt, &u.AgreedToTerms, &u.TermsAcceptedAt, &u.TermsVersion,
		&u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	u.Email = email.String
	u.Phone = phone.String
	u.Role = domain.Role(role)
	u.Status = domain.Status(status)
	return &u, nil
}

// mapUniqueViolation converts Postgres unique-violation errors (23505) into
// per-field conflict errors so registration can report which field collided.
func mapUniqueViolation(err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != "23505" {
		return err
	}
	switch pgErr.ConstraintName {
	case "users_username_key":
		return apperrors.Conflict("username", "username already taken")
	case "users_email_key":
		return apperrors.Conflict("email", "email already registered")
	case "users_phone_key":
		return apperrors.Conflict("phone", "phone already registered")
	}
	return apperrors.Conflict("", "user already exists")
}
