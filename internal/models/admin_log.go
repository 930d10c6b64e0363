package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Admin log actions
const (
	AdminActionCreateUser        = "create_user"
	AdminActionUpdateUserProfile = "update_user_profile"
	AdminActionUpdateUserRole    = "update_user_role"
	AdminActionSuspendUser       = "suspend_user"
	AdminActionUnsuspendUser     = "unsuspend_user"
	AdminActionBanUser           = "ban_user"
	AdminActionDeleteUser        = "delete_user"
	AdminActionDeleteUserProfile = "delete_user_profile"
	AdminActionExportUsers       = "export_users"
	AdminActionSystemSetup       = "system_setup"
	AdminActionSuspensionExpired = "suspension_expired"
)

// SystemActorID is recorded as admin_id for actions taken by scheduled jobs
// and maintenance commands rather than a signed-in admin.
const SystemActorID = "00000000-0000-0000-0000-000000000000"

// AdminLog is an append-only record of an administrative action.
type AdminLog struct {
	ID           string       `json:"id"`
	AdminID      string       `json:"admin_id"`
	Action       string       `json:"action"`
	TargetUserID *string      `json:"target_user_id,omitempty"`
	Details      AdminDetails `json:"details"`
	IPAddress    *string      `json:"ip_address,omitempty"`
	UserAgent    *string      `json:"user_agent,omitempty"`
	CreatedAt    time.Time    `json:"created_at"`
}

// AdminDetails holds free-form context for an admin log entry
type AdminDetails map[string]interface{}

// Scan implements sql.Scanner for JSONB
func (d *AdminDetails) Scan(value interface{}) error {
	if value == nil {
		*d = make(AdminDetails)
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("%w: unsupported details type %T", ErrBadRequest, value)
	}

	m := make(map[string]interface{})
	if err := json.Unmarshal(raw, &m); err != nil {
		return err
	}
	*d = AdminDetails(m)
	return nil
}

// Value implements driver.Valuer for JSONB. A nil map is stored as {}.
func (d AdminDetails) Value() (driver.Value, error) {
	if d == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(map[string]interface{}(d))
}

// ChangeSet records before/after values for an update.
type ChangeSet map[string]Change

// Change is a single field's old and new value.
type Change struct {
	From interface{} `json:"from"`
	To   interface{} `json:"to"`
}

// RequestMeta is the caller context attached to admin log entries.
type RequestMeta struct {
	IPAddress string
	UserAgent string
}
