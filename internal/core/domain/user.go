package domain

import "time"

// Role tags an identity class. Only clients and nurses exist.
type Role string

const (
	RoleClient Role = "client"
	RoleNurse  Role = "nurse"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleNurse
}

// Identity models a registered principal held by the credential store.
type Identity struct {
	ID         string    `json:"id"`
	Login      string    `json:"login"`
	Name       string    `json:"name,omitempty"`
	SecretHash string    `json:"-"`
	Role       Role      `json:"role"`
	CreatedAt  time.Time `json:"created_at"`
}

// Principal is the authenticated identity carried by a verified token.
type Principal struct {
	ID   string
	Role Role
}
