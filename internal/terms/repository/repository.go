package repository

import (
	"context"

	"user-auth-service/internal/terms/domain"
)

// Repository defines persistence for terms versions.
type Repository interface {
	// GetLatest returns the latest terms version, or nil when none is published.
	GetLatest(ctx context.Context) (*domain.Terms, error)
	// Publish inserts t as the latest version, clearing the flag on any
	// previous latest row.
	Publish(ctx context.Context, t *domain.Terms) error
}
