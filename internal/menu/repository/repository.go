package repository

import (
	"context"

	"user-auth-service/internal/menu/domain"
)

// Repository defines persistence for menu entries.
type Repository interface {
	// ListVisible returns all visible menu entries ordered by order_num ascending.
	ListVisible(ctx context.Context) ([]*domain.Menu, error)
	Create(ctx context.Context, m *domain.Menu) error
}
