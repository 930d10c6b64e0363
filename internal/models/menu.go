package models

// MenuBadge is a small label rendered next to a menu entry.
type MenuBadge struct {
	Text    string `json:"text" yaml:"text"`
	Variant string `json:"variant" yaml:"variant"`
}

// MenuItem is a node of the navigation tree.
type MenuItem struct {
	ID                  string       `json:"id" yaml:"id"`
	Name                string       `json:"name" yaml:"name"`
	Href                string       `json:"href,omitempty" yaml:"href"`
	Icon                string       `json:"icon,omitempty" yaml:"icon"`
	Description         string       `json:"description,omitempty" yaml:"description"`
	RequiredRoles       []Role       `json:"required_roles,omitempty" yaml:"required_roles"`
	RequiredPermissions []Permission `json:"required_permissions,omitempty" yaml:"required_permissions"`
	Children            []MenuItem   `json:"children,omitempty" yaml:"children"`
	Badge               *MenuBadge   `json:"badge,omitempty" yaml:"badge"`
}
