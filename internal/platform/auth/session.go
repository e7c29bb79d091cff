package auth

import (
	"context"

	"github.com/google/uuid"
)

// Role is the clinic profile assigned to a user. Every authorization
// decision in the workflow is keyed on it.
type Role string

const (
	RoleDoctor    Role = "doctor"
	RoleSecretary Role = "secretary"
	RoleAdmin     Role = "admin"
	RoleSuperuser Role = "superuser"
)

// Valid reports whether r is one of the known clinic roles.
func (r Role) Valid() bool {
	switch r {
	case RoleDoctor, RoleSecretary, RoleAdmin, RoleSuperuser:
		return true
	}
	return false
}

// Elevated reports whether the role bypasses ownership checks.
// Administrators and superusers may act on any exam.
func (r Role) Elevated() bool {
	return r == RoleAdmin || r == RoleSuperuser
}

// Session identifies the acting user for one request. It is built by
// the auth middleware and passed explicitly into every core operation
// so authorization rules stay deterministic under test.
type Session struct {
	UserID uuid.UUID
	Name   string
	Role   Role
}

type contextKey string

const sessionKey contextKey = "session"

// WithSession returns a context carrying the session.
func WithSession(ctx context.Context, s Session) context.Context {
	return context.WithValue(ctx, sessionKey, s)
}

// SessionFromContext retrieves the session placed by the middleware.
// The zero Session (with a nil UserID) is returned when absent.
func SessionFromContext(ctx context.Context) Session {
	s, _ := ctx.Value(sessionKey).(Session)
	return s
}
