package models

import (
	"time"
)

// User is an authentication identity. Dashboard attributes live on Profile.
type User struct {
	ID                string
	Email             string
	FullName          *string // Sign-up metadata copied into the profile when it is created
	PasswordHash      string
	TokenKey          string // Per-user secret for composite token signing
	EmailConfirmed    bool
	PasswordChangedAt *time.Time // Last password change timestamp for token invalidation
	CreatedAt         time.Time
	UpdatedAt         time.Time
}
