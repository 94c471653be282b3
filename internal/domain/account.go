package domain

import "time"

// Account is a registered principal. Users and admins share one email namespace
// and are distinguished by Role.
type Account struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the account holds the admin role.
func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// AccountSummary holds the public fields joined onto posts and claims.
type AccountSummary struct {
	ID       string
	Username string
	Email    string
}
