package domain

import "time"

// Role differentiates ordinary accounts from administrators.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Token represents issued access token metadata.
type Token struct {
	Value     string
	AccountID string
	Role      Role
	ExpiresAt time.Time
}
