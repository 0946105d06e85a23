package repository

import (
	"context"
	"time"

	"user-auth-service/internal/user/domain"
)

// Repository defines persistence for users.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetByIdentifier returns the user whose username, email, or phone equals
	// identifier, or nil if none matches.
	GetByIdentifier(ctx context.Context, identifier string) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	// UpdateLastLogin stamps the user's last successful login time. No-op if the user is missing.
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
	// SetTermsAccepted stamps acceptance of the given terms version. No-op if the user is missing.
	SetTermsAccepted(ctx context.Context, userID, version string, at time.Time) error
}
