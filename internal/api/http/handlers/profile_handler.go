package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foundit/lostfound-service/internal/api/dto"
	"github.com/foundit/lostfound-service/internal/auth"
	"github.com/foundit/lostfound-service/internal/service"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// ProfileHandler serves the caller's own profile and inbox.
type ProfileHandler struct {
	identity *service.IdentityService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(identity *service.IdentityService) *ProfileHandler {
	return &ProfileHandler{identity: identity}
}

// Profile GET /api/profile.
func (h *ProfileHandler) Profile(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Access token required")
	}
	profile, err := h.identity.Profile(c.UserContext(), principal.Account.ID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewProfileResponse(profile.Account, profile.Notifications))
}

// ClearNotifications POST /api/notifications/clear.
func (h *ProfileHandler) ClearNotifications(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Access token required")
	}
	if err := h.identity.ClearNotifications(c.UserContext(), principal.Account.ID); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Notifications cleared"})
}
