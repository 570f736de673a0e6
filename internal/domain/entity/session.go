package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Session is a caller identity already verified by the authentication middleware.
// Token is the raw session cookie, forwarded untouched to the auth service.
type Session struct {
	UserID uuid.UUID
	Roles  []string
	Token  string
}

func (s Session) HasRole(role string) bool {
	return slices.Contains(s.Roles, role)
}
