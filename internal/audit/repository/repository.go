package repository

import (
	"context"

	"user-auth-service/internal/audit/domain"
)

// Repository defines persistence for audit logs.
type Repository interface {
	Create(ctx context.Context, a *domain.AuditLog) error
	// List returns audit logs across all users, newest first, paginated by
	// limit and offset.
	List(ctx context.Context, limit, offset int32) ([]*domain.AuditLog, error)
	// ListByUser returns audit logs for the given user, newest first, paginated
	// by limit and offset.
	ListByUser(ctx context.Context, userID string, limit, offset int32) ([]*domain.AuditLog, error)
}
