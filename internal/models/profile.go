package models

import (
	"fmt"
	"time"
)

// Supported interface languages
const (
	LanguageEnglish = "en"
	LanguageThai    = "th"
)

// Profile holds the dashboard attributes of a user, one per user.
type Profile struct {
	ID                string     `json:"id"`
	UserID            string     `json:"user_id"`
	Email             string     `json:"email"`
	FullName          *string    `json:"full_name,omitempty"`
	AvatarURL         *string    `json:"avatar_url,omitempty"`
	Bio               *string    `json:"bio,omitempty"`
	Website           *string    `json:"website,omitempty"`
	Location          *string    `json:"location,omitempty"`
	Phone             *string    `json:"phone,omitempty"`
	DateOfBirth       *time.Time `json:"date_of_birth,omitempty"`
	PreferredLanguage string     `json:"preferred_language"`
	Role              Role       `json:"role"`
	Status            Status     `json:"status"`
	LastLoginAt       *time.Time `json:"last_login_at,omitempty"`
	LoginCount        int        `json:"login_count"`
	SuspendedUntil    *time.Time `json:"suspended_until,omitempty"`
	SuspensionReason  *string    `json:"suspension_reason,omitempty"`
	CreatedBy         *string    `json:"created_by,omitempty"`
	UpdatedBy         *string    `json:"updated_by,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// NewDefaultProfile builds the profile created on first sign-in.
func NewDefaultProfile(userID, email string, fullName *string) *Profile {
	return &Profile{
		UserID:            userID,
		Email:             email,
		FullName:          fullName,
		PreferredLanguage: LanguageEnglish,
		Role:              RoleUser,
		Status:            StatusActive,
		LoginCount:        0,
	}
}

// IsActive reports whether the account may use the dashboard.
func (p *Profile) IsActive() bool {
	return p != nil && p.Status == StatusActive
}

// IsAdmin is true only for active admins.
func (p *Profile) IsAdmin() bool {
	return p.IsActive() && p.Role == RoleAdmin
}

// DisplayName returns the full name, falling back to the email.
func (p *Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	return p.Email
}

// ProfileUpdate carries the personal fields a user may change on their own
// profile. Nil fields are left untouched.
type ProfileUpdate struct {
	FullName          *string
	AvatarURL         *string
	Bio               *string
	Website           *string
	Location          *string
	Phone             *string
	DateOfBirth       *time.Time
	PreferredLanguage *string
}

// IsEmpty reports whether no field is set.
func (u ProfileUpdate) IsEmpty() bool {
	return u.FullName == nil && u.AvatarURL == nil && u.Bio == nil && u.Website == nil &&
		u.Location == nil && u.Phone == nil && u.DateOfBirth == nil && u.PreferredLanguage == nil
}

// Apply copies the set fields onto p.
func (u ProfileUpdate) Apply(p *Profile) error {
	if u.PreferredLanguage != nil {
		switch *u.PreferredLanguage {
		case LanguageEnglish, LanguageThai:
			p.PreferredLanguage = *u.PreferredLanguage
		default:
			return fmt.Errorf("%w: unsupported language %q", ErrBadRequest, *u.PreferredLanguage)
		}
	}
	if u.FullName != nil {
		p.FullName = u.FullName
	}
	if u.AvatarURL != nil {
		p.AvatarURL = u.AvatarURL
	}
	if u.Bio != nil {
		p.Bio = u.Bio
	}
	if u.Website != nil {
		p.Website = u.Website
	}
	if u.Location != nil {
		p.Location = u.Location
	}
	if u.Phone != nil {
		p.Phone = u.Phone
	}
	if u.DateOfBirth != nil {
		p.DateOfBirth = u.DateOfBirth
	}
	return nil
}

// AdminProfileUpdate is the whitelisted set of fields an admin may change on
// another user's profile.
type AdminProfileUpdate struct {
	ProfileUpdate
	Role   *Role
	Status *Status
}

// IsEmpty reports whether no field is set.
func (u AdminProfileUpdate) IsEmpty() bool {
	return u.ProfileUpdate.IsEmpty() && u.Role == nil && u.Status == nil
}

// UpdatedFields lists the names of the set fields in a stable order.
func (u AdminProfileUpdate) UpdatedFields() []string {
	fields := make([]string, 0, 10)
	add := func(set bool, name string) {
		if set {
			fields = append(fields, name)
		}
	}
	add(u.FullName != nil, "full_name")
	add(u.Bio != nil, "bio")
	add(u.Website != nil, "website")
	add(u.Location != nil, "location")
	add(u.Phone != nil, "phone")
	add(u.DateOfBirth != nil, "date_of_birth")
	add(u.PreferredLanguage != nil, "preferred_language")
	add(u.Role != nil, "role")
	add(u.Status != nil, "status")
	return fields
}

// Page describes a paginated slice of a result set.
type Page struct {
	Page  int
	Limit int
}

// Normalize clamps page and limit into usable values.
func (p Page) Normalize(defaultLimit, maxLimit int) Page {
	if p.Page < 1 {
		p.Page = 1
	}
	if p.Limit <= 0 {
		p.Limit = defaultLimit
	}
	if p.Limit > maxLimit {
		p.Limit = maxLimit
	}
	return p
}

// Offset returns the row offset for the page.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}
