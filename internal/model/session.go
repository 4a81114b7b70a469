package model

import "time"

// Well-known roles.
const (
	RoleAdmin    = "admin"
	RoleManager  = "manager"
	RoleOperator = "operator"
)

// SessionUser is the subset of the user record kept with the session.
type SessionUser struct {
	ID    string `json:"_id" toml:"id"`
	Name  string `json:"name" toml:"name"`
	Email string `json:"email" toml:"email"`
	Role  string `json:"role" toml:"role"`
	Farm  string `json:"farm,omitempty" toml:"farm,omitempty"`
}

// Session is the logged-in user together with the bearer token issued by
// the backend.
type Session struct {
	Token    string      `json:"token" toml:"token"`
	User     SessionUser `json:"user" toml:"user"`
	IssuedAt time.Time   `json:"issuedAt,omitempty" toml:"issued_at,omitempty"`
}

// HasRole reports whether the session user holds one of roles. An empty
// roles list allows everyone; admins are allowed everywhere.
func (s *Session) HasRole(roles ...string) bool {
	if s == nil {
		return false
	}
	if len(roles) == 0 || s.User.Role == RoleAdmin {
		return true
	}
	for _, r := range roles {
		if s.User.Role == r {
			return true
		}
	}
	return false
}
