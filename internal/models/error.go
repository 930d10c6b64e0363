package models

import "errors"

// Sentinel errors for common failure conditions
var (
	ErrNotFound       = errors.New("resource not found")
	ErrConflict       = errors.New("resource already exists")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrForbidden      = errors.New("forbidden")
	ErrBadRequest     = errors.New("bad request")
	ErrInternalServer = errors.New("internal server error")
	ErrUnavailable    = errors.New("service unavailable")

	// Account state errors
	ErrAccountSuspended = errors.New("account is suspended")
	ErrAccountBanned    = errors.New("account is banned")
	ErrAccountPending   = errors.New("account is pending activation")

	// Administrative action errors
	ErrInvalidTransition = errors.New("invalid status or role transition")
	ErrSelfAction        = errors.New("cannot perform this action on your own account")
	ErrProtectedAdmin    = errors.New("cannot delete an admin account, change role first")
)

// IsPermanent reports whether err is a validation or authorization failure
// that will not succeed on retry.
func IsPermanent(err error) bool {
	return errors.Is(err, ErrBadRequest) ||
		errors.Is(err, ErrUnauthorized) ||
		errors.Is(err, ErrForbidden) ||
		errors.Is(err, ErrInvalidTransition) ||
		errors.Is(err, ErrNotFound) ||
		errors.Is(err, ErrConflict)
}
