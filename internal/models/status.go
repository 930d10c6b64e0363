package models

import (
	"fmt"
	"strings"
)

// Status is the closed set of account states.
type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
	StatusBanned    Status = "banned"
	StatusPending   Status = "pending"
)

// ParseStatus converts a string into a Status, rejecting unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.Valid() {
		return "", fmt.Errorf("%w: unknown status %q", ErrBadRequest, s)
	}
	return st, nil
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusActive, StatusSuspended, StatusBanned, StatusPending:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// Err maps a non-active status to its account state error. Active returns nil.
func (s Status) Err() error {
	switch s {
	case StatusActive:
		return nil
	case StatusSuspended:
		return ErrAccountSuspended
	case StatusBanned:
		return ErrAccountBanned
	case StatusPending:
		return ErrAccountPending
	}
	return ErrForbidden
}

// statusTransitions lists the allowed target states for each source state.
// Banned has no outgoing edges.
var statusTransitions = map[Status]map[Status]bool{
	StatusPending:   {StatusActive: true, StatusBanned: true},
	StatusActive:    {StatusSuspended: true, StatusBanned: true},
	StatusSuspended: {StatusActive: true, StatusSuspended: true, StatusBanned: true},
	StatusBanned:    {},
}

// CanTransition reports whether moving from one status to another is allowed.
// Staying in the same state is allowed except where noted in the table.
func CanTransition(from, to Status) bool {
	if from == to && from != StatusBanned {
		return true
	}
	return statusTransitions[from][to]
}

// ValidateTransition returns ErrInvalidTransition when from→to is not allowed.
func ValidateTransition(from, to Status) error {
	if !from.Valid() || !to.Valid() {
		return fmt.Errorf("%w: unknown status", ErrBadRequest)
	}
	if !CanTransition(from, to) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, from, to)
	}
	return nil
}

// ValidateRoleForStatus enforces that only active accounts hold elevated roles.
func ValidateRoleForStatus(role Role, status Status) error {
	if role.Elevated() && status != StatusActive {
		return fmt.Errorf("%w: role %s requires an active account", ErrInvalidTransition, role)
	}
	return nil
}
