// Package handler exposes the navigation menu tree over HTTP.
package handler

import (
	"net/http"

	"user-auth-service/internal/httpx"
	"user-auth-service/internal/menu/domain"
	"user-auth-service/internal/menu/service"
)

// MenuHandlers serves the menu tree.
type MenuHandlers struct {
	Svc *service.MenuService
}

type menuView struct {
	ID        string     `json:"id"`
	ParentID  string     `json:"parentId,omitempty"`
	MenuName  string     `json:"menuName"`
	Path      string     `json:"path,omitempty"`
	Icon      string     `json:"icon,omitempty"`
	MenuType  string     `json:"menuType"`
	OrderNum  int        `json:"orderNum"`
	Component string     `json:"component,omitempty"`
	Children  []menuView `json:"children"`
}

func toMenuViews(nodes []*domain.Node) []menuView {
	out := make([]menuView, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, menuView{
			ID:        n.ID,
			ParentID:  n.ParentID,
			MenuName:  n.Name,
			Path:      n.Path,
			Icon:      n.Icon,
			MenuType:  string(n.Type),
			OrderNum:  n.OrderNum,
			Component: n.Component,
			Children:  toMenuViews(n.Children),
		})
	}
	return out
}

// List handles POST /api/menus/list. Public.
func (h *MenuHandlers) List(w http.ResponseWriter, r *http.Request) {
	nodes, err := h.Svc.Tree(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]any{"menus": toMenuViews(nodes)})
}
