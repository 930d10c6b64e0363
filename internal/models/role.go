package models

import (
	"fmt"
	"strings"
)

// Role is the closed set of dashboard roles.
type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// AllRoles lists every valid role, lowest privilege first.
var AllRoles = []Role{RoleUser, RoleModerator, RoleAdmin}

// ParseRole converts a string into a Role, rejecting unknown values.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrBadRequest, s)
	}
	return r, nil
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Elevated reports whether the role carries privileges beyond a regular user.
func (r Role) Elevated() bool {
	return r == RoleModerator || r == RoleAdmin
}

func (r Role) String() string {
	return string(r)
}

// HasRole reports whether role is one of required.
// An empty required list never matches.
func HasRole(role Role, required ...Role) bool {
	for _, req := range required {
		if role == req {
			return true
		}
	}
	return false
}

// HasAnyRole is HasRole for a role list taken from configuration.
func HasAnyRole(role Role, roles []Role) bool {
	return HasRole(role, roles...)
}

// IsAdminRole is true only for admin.
func IsAdminRole(role Role) bool {
	return role == RoleAdmin
}

// IsModeratorRole is true for moderators and admins.
func IsModeratorRole(role Role) bool {
	return HasRole(role, RoleAdmin, RoleModerator)
}
