package domain

import "time"

// MenuType distinguishes grouping nodes from navigable entries.
type MenuType string

const (
	MenuTypeCatalog MenuType = "CATALOG"
	MenuTypeMenu    MenuType = "MENU"
)

// Menu is one navigation entry. ParentID is empty for root entries.
type Menu struct {
	ID        string
	ParentID  string
	Name      string
	Path      string
	Icon      string
	Type      MenuType
	OrderNum  int
	Component string
	IsShow    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Node is a menu with its children, ordered by OrderNum ascending.
type Node struct {
	Menu
	Children []*Node `json:"children"`
}
