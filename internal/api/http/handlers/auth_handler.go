package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/foundit/lostfound-service/internal/api/dto"
	"github.com/foundit/lostfound-service/internal/service"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// AuthHandler exposes signup and login.
type AuthHandler struct {
	identity *service.IdentityService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(identity *service.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

// Signup handles POST /api/signup. The role follows from the email domain.
func (h *AuthHandler) Signup(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("Invalid email or password", nil)
	}

	reg, err := h.identity.Register(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	message := "User created"
	if reg.Account.IsAdmin() {
		message = "Admin created"
	}
	return c.Status(http.StatusCreated).JSON(dto.AuthResponse{
		Message: message,
		Token:   reg.Token.Value,
		User:    dto.NewAccountResponse(reg.Account),
	})
}

// Login handles POST /api/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.CredentialsRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewUnauthorized("Invalid credentials")
	}

	reg, err := h.identity.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	message := "Login successful"
	if reg.Account.IsAdmin() {
		message = "Admin login successful"
	}
	return c.JSON(dto.AuthResponse{
		Message: message,
		Token:   reg.Token.Value,
		User:    dto.NewAccountResponse(reg.Account),
	})
}
