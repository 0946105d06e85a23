package repository

import (
	"context"
	"database/sql"

	"user-auth-service/internal/menu/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a menu repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// ListVisible returns all visible menu entries ordered by order_num ascending.
func (r *PostgresRepository) ListVisible(ctx context.Context) ([]*domain.Menu, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, parent_id, menu_name, path, icon, menu_type, order_num, component, is_show, created_at, updated_at
		FROM sys_menu
		WHERE is_show
		ORDER BY order_num ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Menu
	for rows.Next() {
		var m domain.Menu
		var parentID sql.NullString
		var menuType string
		if err := rows.Scan(&m.ID, &parentID, &m.Name, &m.Path, &m.Icon, &menuType,
			&m.OrderNum, &m.Component, &m.IsShow, &m.CreatedAt, &m.UpdatedAt); err != nil {
			return nil, err
		}
		m.ParentID = parentID.String
		m.Type = domain.MenuType(menuType)
		out = append(out, &m)
	}
	return out, rows.Err()
}

// Create persists the menu entry. The entry must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, m *domain.Menu) error {
	parentID := sql.NullString{String: m.ParentID, Valid: m.ParentID != ""}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sys_menu (id, parent_id, menu_name, path, icon, menu_type, order_num, component, is_show, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		m.ID, parentID, m.Name, m.Path, m.Icon, string(m.Type),
		m.OrderNum, m.Component, m.IsShow, m.CreatedAt, m.UpdatedAt)
	return err
}
