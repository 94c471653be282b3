package dto

import "github.com/foundit/lostfound-service/internal/domain"

// CredentialsRequest is the signup and login payload.
type CredentialsRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// AccountResponse is the public account shape returned on signup and login.
type AccountResponse struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	Username string      `json:"username"`
	Role     domain.Role `json:"role"`
}

// AuthResponse wraps the issued token.
type AuthResponse struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	User    AccountResponse `json:"user"`
}

// NewAccountResponse maps an account to its public shape.
func NewAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{ID: a.ID, Email: a.Email, Username: a.Username, Role: a.Role}
}

// MessageResponse is the body of endpoints that only acknowledge.
type MessageResponse struct {
	Message string `json:"message"`
}
