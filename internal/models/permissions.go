package models

// Permission is a named capability derived from a role.
type Permission string

// Permission constants define every permission the dashboard knows about
const (
	// User management
	PermUserCreate Permission = "user.create"
	PermUserRead   Permission = "user.read"
	PermUserUpdate Permission = "user.update"
	PermUserDelete Permission = "user.delete"

	// Administration
	PermAdminAccess  Permission = "admin.access"
	PermSystemManage Permission = "system.manage"

	// Reporting
	PermReportsView   Permission = "reports.view"
	PermAnalyticsView Permission = "analytics.view"

	// Self-service
	PermProfileRead   Permission = "profile.read"
	PermProfileUpdate Permission = "profile.update"
)

// AllPermissions is the whitelist of every valid permission
var AllPermissions = map[Permission]bool{
	PermUserCreate:    true,
	PermUserRead:      true,
	PermUserUpdate:    true,
	PermUserDelete:    true,
	PermAdminAccess:   true,
	PermSystemManage:  true,
	PermReportsView:   true,
	PermAnalyticsView: true,
	PermProfileRead:   true,
	PermProfileUpdate: true,
}

var (
	adminPermissions = []Permission{
		PermUserCreate, PermUserRead, PermUserUpdate, PermUserDelete,
		PermAdminAccess, PermSystemManage, PermReportsView, PermAnalyticsView,
	}
	moderatorPermissions = []Permission{
		PermUserRead, PermUserUpdate, PermReportsView, PermAnalyticsView,
	}
	userPermissions = []Permission{
		PermProfileRead, PermProfileUpdate,
	}
)

// IsValidPermission checks if a permission exists in the whitelist
func IsValidPermission(p Permission) bool {
	return AllPermissions[p]
}

// PermissionsForRole returns the fixed permission set for a role.
// Unknown roles fall back to the regular user set. The returned slice is a copy.
func PermissionsForRole(role Role) []Permission {
	var src []Permission
	switch role {
	case RoleAdmin:
		src = adminPermissions
	case RoleModerator:
		src = moderatorPermissions
	default:
		src = userPermissions
	}
	out := make([]Permission, len(src))
	copy(out, src)
	return out
}

// HasPermission checks whether role grants perm
func HasPermission(role Role, perm Permission) bool {
	return ContainsPermission(PermissionsForRole(role), perm)
}

// ContainsPermission checks if a permission set contains a required permission
func ContainsPermission(perms []Permission, required Permission) bool {
	for _, p := range perms {
		if p == required {
			return true
		}
	}
	return false
}

// HasAnyPermission is true when perms holds at least one of required.
// An empty required list is trivially satisfied.
func HasAnyPermission(perms []Permission, required ...Permission) bool {
	if len(required) == 0 {
		return true
	}
	for _, r := range required {
		if ContainsPermission(perms, r) {
			return true
		}
	}
	return false
}
