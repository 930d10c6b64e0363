package models

import (
	"errors"
	"testing"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from     Status
		to       Status
		expected bool
	}{
		{StatusActive, StatusSuspended, true},
		{StatusActive, StatusBanned, true},
		{StatusActive, StatusPending, false},
		{StatusSuspended, StatusActive, true},
		{StatusSuspended, StatusSuspended, true},
		{StatusSuspended, StatusBanned, true},
		{StatusPending, StatusActive, true},
		{StatusPending, StatusSuspended, false},
		{StatusPending, StatusBanned, true},
		{StatusBanned, StatusActive, false},
		{StatusBanned, StatusSuspended, false},
		{StatusBanned, StatusBanned, false},
		{StatusBanned, StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := CanTransition(tt.from, tt.to); got != tt.expected {
				t.Errorf("CanTransition(%s, %s) = %v, want %v", tt.from, tt.to, got, tt.expected)
			}
		})
	}
}

func TestValidateTransition(t *testing.T) {
	if err := ValidateTransition(StatusBanned, StatusActive); !errors.Is(err, ErrInvalidTransition) {
		t.Errorf("expected ErrInvalidTransition, got %v", err)
	}
	if err := ValidateTransition(StatusActive, "archived"); !errors.Is(err, ErrBadRequest) {
		t.Errorf("expected ErrBadRequest for unknown status, got %v", err)
	}
	if err := ValidateTransition(StatusSuspended, StatusActive); err != nil {
		t.Errorf("expected nil, got %v", err)
	}
}

func TestValidateRoleForStatus(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		status  Status
		wantErr bool
	}{
		{"active admin", RoleAdmin, StatusActive, false},
		{"banned admin", RoleAdmin, StatusBanned, true},
		{"suspended moderator", RoleModerator, StatusSuspended, true},
		{"pending moderator", RoleModerator, StatusPending, true},
		{"banned user", RoleUser, StatusBanned, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoleForStatus(tt.role, tt.status)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRoleForStatus(%s, %s) = %v, wantErr %v", tt.role, tt.status, err, tt.wantErr)
			}
		})
	}
}

func TestStatusErr(t *testing.T) {
	tests := []struct {
		status Status
		want   error
	}{
		{StatusActive, nil},
		{StatusSuspended, ErrAccountSuspended},
		{StatusBanned, ErrAccountBanned},
		{StatusPending, ErrAccountPending},
	}
	for _, tt := range tests {
		if got := tt.status.Err(); got != tt.want {
			t.Errorf("%s.Err() = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	if s, err := ParseStatus("SUSPENDED"); err != nil || s != StatusSuspended {
		t.Errorf("ParseStatus(SUSPENDED) = %q, %v", s, err)
	}
	if _, err := ParseStatus("disabled"); err == nil {
		t.Error("ParseStatus should reject unknown statuses")
	}
}
