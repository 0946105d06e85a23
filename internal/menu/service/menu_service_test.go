package service

import (
	"context"
	"testing"

	"user-auth-service/internal/menu/domain"
)

type mockMenuRepo struct {
	menus []*domain.Menu
}

func (m *mockMenuRepo) ListVisible(ctx context.Context) ([]*domain.Menu, error) {
	return m.menus, nil
}

func (m *mockMenuRepo) Create(ctx context.Context, menu *domain.Menu) error {
	m.menus = append(m.menus, menu)
	return nil
}

func TestTree(t *testing.T) {
	// Repository returns entries ordered by order_num ascending.
	repo := &mockMenuRepo{menus: []*domain.Menu{
		{ID: "home", Name: "Home", Type: domain.MenuTypeMenu, OrderNum: 1},
		{ID: "system", Name: "System", Type: domain.MenuTypeCatalog, OrderNum: 2},
		{ID: "users", ParentID: "system", Name: "Users", Type: domain.MenuTypeMenu, OrderNum: 3},
		{ID: "roles", ParentID: "system", Name: "Roles", Type: domain.MenuTypeMenu, OrderNum: 4},
	}}
	svc := NewMenuService(repo)

	roots, err := svc.Tree(context.Background())
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(roots))
	}
	if roots[0].Name != "Home" || roots[1].Name != "System" {
		t.Errorf("root order = [%s, %s], want [Home, System]", roots[0].Name, roots[1].Name)
	}

	system := roots[1]
	if len(system.Children) != 2 {
		t.Fatalf("System has %d children, want 2", len(system.Children))
	}
	if system.Children[0].Name != "Users" || system.Children[1].Name != "Roles" {
		t.Errorf("children order = [%s, %s], want [Users, Roles]",
			system.Children[0].Name, system.Children[1].Name)
	}
}

func TestTree_OrphanBecomesRoot(t *testing.T) {
	repo := &mockMenuRepo{menus: []*domain.Menu{
		{ID: "child", ParentID: "hidden-parent", Name: "Child", Type: domain.MenuTypeMenu, OrderNum: 1},
	}}
	svc := NewMenuService(repo)

	roots, err := svc.Tree(context.Background())
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(roots) != 1 || roots[0].Name != "Child" {
		t.Fatalf("orphan entry should surface as a root, got %d roots", len(roots))
	}
}

func TestTree_Empty(t *testing.T) {
	svc := NewMenuService(&mockMenuRepo{})

	roots, err := svc.Tree(context.Background())
	if err != nil {
		t.Fatalf("Tree: %v", err)
	}
	if len(roots) != 0 {
		t.Fatalf("got %d roots, want 0", len(roots))
	}
}
