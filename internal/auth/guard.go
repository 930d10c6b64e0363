package auth

import (
	"errors"
	"net/http"

	"github.com/BradenHooton/dashgate/internal/models"
	pkghttp "github.com/BradenHooton/dashgate/pkg/http"
	"github.com/BradenHooton/dashgate/pkg/logger"
)

// Decision reasons
const (
	ReasonAllowed                = "allowed"
	ReasonUnauthenticated        = "unauthenticated"
	ReasonAccountSuspended       = "account_suspended"
	ReasonAccountBanned          = "account_banned"
	ReasonAccountPending         = "account_pending"
	ReasonInsufficientRole       = "insufficient_role"
	ReasonInsufficientPermission = "insufficient_permission"
)

// Requirement is what a route demands of the caller. Roles and Permissions
// are each any-of; an empty list is no constraint.
type Requirement struct {
	Roles       []models.Role       `json:"roles,omitempty" yaml:"roles"`
	Permissions []models.Permission `json:"permissions,omitempty" yaml:"permissions"`
}

// Empty reports whether the requirement only asks for a signed-in caller
func (r Requirement) Empty() bool {
	return len(r.Roles) == 0 && len(r.Permissions) == 0
}

// Decision is the outcome of checking a session against a Requirement
type Decision struct {
	Allowed bool   `json:"allowed"`
	Reason  string `json:"reason"`
	Status  int    `json:"-"`
}

func allow() Decision {
	return Decision{Allowed: true, Reason: ReasonAllowed, Status: http.StatusOK}
}

func deny(status int, reason string) Decision {
	return Decision{Allowed: false, Reason: reason, Status: status}
}

// Decide evaluates s against req. Inactive accounts are refused before any
// role or permission check.
func Decide(s *Session, req Requirement) Decision {
	if s == nil || s.Profile == nil {
		return deny(http.StatusUnauthorized, ReasonUnauthenticated)
	}

	if err := s.Profile.Status.Err(); err != nil {
		return deny(http.StatusForbidden, statusReason(err))
	}

	if len(req.Roles) > 0 && !models.HasRole(s.Profile.Role, req.Roles...) {
		return deny(http.StatusForbidden, ReasonInsufficientRole)
	}

	if !models.HasAnyPermission(s.Permissions, req.Permissions...) {
		return deny(http.StatusForbidden, ReasonInsufficientPermission)
	}

	return allow()
}

// statusReason names the denial for an inactive account. Unknown states are
// treated as not yet activated.
func statusReason(err error) string {
	switch {
	case errors.Is(err, models.ErrAccountSuspended):
		return ReasonAccountSuspended
	case errors.Is(err, models.ErrAccountBanned):
		return ReasonAccountBanned
	default:
		return ReasonAccountPending
	}
}

// DecisionRecorder counts decisions, typically as Prometheus metrics
type DecisionRecorder interface {
	RecordDecision(allowed bool, reason string)
}

// Guard is the single authorization interceptor for protected routes
type Guard struct {
	recorder DecisionRecorder
	audit    *logger.AuditLogger
}

// NewGuard creates a Guard. Either dependency may be nil.
func NewGuard(recorder DecisionRecorder, audit *logger.AuditLogger) *Guard {
	return &Guard{recorder: recorder, audit: audit}
}

// Require returns middleware that admits only callers satisfying req
func (g *Guard) Require(req Requirement) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, _ := SessionFromContext(r.Context())
			d := Decide(session, req)

			g.observe(r, session, req, d)

			if !d.Allowed {
				writeDenied(w, d)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Authenticated admits any active account
func (g *Guard) Authenticated() func(next http.Handler) http.Handler {
	return g.Require(Requirement{})
}

// AdminOnly admits active admins
func (g *Guard) AdminOnly() func(next http.Handler) http.Handler {
	return g.Require(Requirement{Roles: []models.Role{models.RoleAdmin}})
}

// ModeratorOrAdmin admits active moderators and admins
func (g *Guard) ModeratorOrAdmin() func(next http.Handler) http.Handler {
	return g.Require(Requirement{Roles: []models.Role{models.RoleAdmin, models.RoleModerator}})
}

// WithPermission admits callers holding any of perms
func (g *Guard) WithPermission(perms ...models.Permission) func(next http.Handler) http.Handler {
	return g.Require(Requirement{Permissions: perms})
}

func (g *Guard) observe(r *http.Request, s *Session, req Requirement, d Decision) {
	if g == nil {
		return
	}
	if g.recorder != nil {
		g.recorder.RecordDecision(d.Allowed, d.Reason)
	}
	if g.audit == nil {
		return
	}

	event := logger.AccessEvent{
		Method:   r.Method,
		Path:     r.URL.Path,
		Allowed:  d.Allowed,
		Reason:   d.Reason,
		Required: requirementStrings(req),
	}
	if s != nil {
		event.UserID = s.UserID
		event.Role = s.Role().String()
	}
	g.audit.LogAccessDecision(r.Context(), event)
}

func requirementStrings(req Requirement) []string {
	out := make([]string, 0, len(req.Roles)+len(req.Permissions))
	for _, role := range req.Roles {
		out = append(out, "role:"+role.String())
	}
	for _, p := range req.Permissions {
		out = append(out, "perm:"+string(p))
	}
	return out
}

func writeDenied(w http.ResponseWriter, d Decision) {
	if d.Status == http.StatusUnauthorized {
		pkghttp.WriteErrorWithDetails(w, d.Status, pkghttp.CodeUnauthorized, "authentication required", d.Reason)
		return
	}

	message := "insufficient permissions"
	switch d.Reason {
	case ReasonAccountSuspended:
		message = "account is suspended"
	case ReasonAccountBanned:
		message = "account is banned"
	case ReasonAccountPending:
		message = "account is pending activation"
	}
	pkghttp.WriteErrorWithDetails(w, d.Status, pkghttp.CodeForbidden, message, d.Reason)
}
