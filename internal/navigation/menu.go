// Package navigation serves the dashboard menu trimmed to what the caller may open.
package navigation

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BradenHooton/dashgate/internal/models"
	"gopkg.in/yaml.v3"
)

//go:embed menu.yaml
var defaultMenu []byte

// Menu is an immutable menu tree
type Menu struct {
	items []models.MenuItem
}

// Load reads the menu at filename, or the embedded default when filename is empty
func Load(filename string) (*Menu, error) {
	if filename == "" {
		return Parse(defaultMenu)
	}

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu config: %w", err)
	}
	return Parse(data)
}

// Parse builds a Menu from YAML and checks every role, permission and ID
func Parse(data []byte) (*Menu, error) {
	var items []models.MenuItem
	if err := yaml.Unmarshal(data, &items); err != nil {
		return nil, fmt.Errorf("failed to parse menu config: %w", err)
	}

	if err := validate(items, make(map[string]bool)); err != nil {
		return nil, err
	}
	return &Menu{items: items}, nil
}

func validate(items []models.MenuItem, ids map[string]bool) error {
	for _, item := range items {
		if item.ID == "" {
			return fmt.Errorf("menu item %q has no id", item.Name)
		}
		if ids[item.ID] {
			return fmt.Errorf("duplicate menu item id %q", item.ID)
		}
		ids[item.ID] = true

		for _, r := range item.RequiredRoles {
			if !r.Valid() {
				return fmt.Errorf("menu item %q: unknown role %q", item.ID, r)
			}
		}
		for _, p := range item.RequiredPermissions {
			if !models.IsValidPermission(p) {
				return fmt.Errorf("menu item %q: unknown permission %q", item.ID, p)
			}
		}
		if err := validate(item.Children, ids); err != nil {
			return err
		}
	}
	return nil
}

// Items returns the full, unfiltered tree
func (m *Menu) Items() []models.MenuItem {
	return m.items
}

// For returns the tree visible to a role holding perms
func (m *Menu) For(role models.Role, perms []models.Permission) []models.MenuItem {
	return Filter(m.items, role, perms)
}

// Filter keeps items the caller may see. An item with no requirements is
// always visible; a parent left with no visible children is dropped.
func Filter(items []models.MenuItem, role models.Role, perms []models.Permission) []models.MenuItem {
	out := make([]models.MenuItem, 0, len(items))

	for _, item := range items {
		if !visible(item, role, perms) {
			continue
		}

		if item.Children != nil {
			item.Children = Filter(item.Children, role, perms)
			if len(item.Children) == 0 {
				continue
			}
		}
		out = append(out, item)
	}
	return out
}

func visible(item models.MenuItem, role models.Role, perms []models.Permission) bool {
	if len(item.RequiredRoles) > 0 && !models.HasAnyRole(role, item.RequiredRoles) {
		return false
	}
	return models.HasAnyPermission(perms, item.RequiredPermissions...)
}
