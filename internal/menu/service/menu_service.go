// Package service builds the navigation menu tree.
package service

import (
	"context"

	"user-auth-service/internal/menu/domain"
	menurepo "user-auth-service/internal/menu/repository"
)

// MenuService assembles visible menu entries into a tree.
type MenuService struct {
	menus menurepo.Repository
}

// NewMenuService returns a MenuService backed by the given repository.
func NewMenuService(menus menurepo.Repository) *MenuService {
	return &MenuService{menus: menus}
}

// Tree returns the visible menu entries as a tree of root nodes. Siblings
// keep the repository's order_num ascending order. An entry whose parent is
// missing or hidden is treated as a root.
func (s *MenuService) Tree(ctx context.Context) ([]*domain.Node, error) {
	menus, err := s.menus.ListVisible(ctx)
	if err != nil {
		return nil, err
	}
	return buildTree(menus), nil
}

func buildTree(menus []*domain.Menu) []*domain.Node {
	nodes := make(map[string]*domain.Node, len(menus))
	for _, m := range menus {
		nodes[m.ID] = &domain.Node{Menu: *m, Children: []*domain.Node{}}
	}

	roots := []*domain.Node{}
	for _, m := range menus {
		node := nodes[m.ID]
		if parent, ok := nodes[m.ParentID]; ok && m.ParentID != m.ID {
			parent.Children = append(parent.Children, node)
			continue
		}
		roots = append(roots, node)
	}
	return roots
}
