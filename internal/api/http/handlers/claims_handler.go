package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/foundit/lostfound-service/internal/api/dto"
	"github.com/foundit/lostfound-service/internal/auth"
	"github.com/foundit/lostfound-service/internal/service"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// ClaimsHandler exposes the claim lifecycle.
type ClaimsHandler struct {
	claims *service.ClaimService
}

// NewClaimsHandler constructs handler.
func NewClaimsHandler(claims *service.ClaimService) *ClaimsHandler {
	return &ClaimsHandler{claims: claims}
}

// CreateClaim POST /api/posts/:id/claim.
func (h *ClaimsHandler) CreateClaim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Access token required")
	}
	claim, err := h.claims.CreateClaim(c.UserContext(), c.Params("id"), principal.Account)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(dto.ClaimCreatedResponse{
		Message: "Claim submitted successfully",
		Claim:   dto.NewClaimResponse(claim),
	})
}

// ApproveClaim POST /api/claims/:id/approve.
func (h *ClaimsHandler) ApproveClaim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Access token required")
	}
	if _, err := h.claims.ApproveClaim(c.UserContext(), c.Params("id"), principal.Account); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Claim approved"})
}

// DenyClaim POST /api/claims/:id/deny.
func (h *ClaimsHandler) DenyClaim(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("Access token required")
	}
	if _, err := h.claims.DenyClaim(c.UserContext(), c.Params("id"), principal.Account); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Claim denied"})
}

// ListClaims GET /api/claims.
func (h *ClaimsHandler) ListClaims(c *fiber.Ctx) error {
	claims, err := h.claims.ListClaims(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClaimList(claims))
}

// Stats GET /api/claims/stats.
func (h *ClaimsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.claims.ClaimStats(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(dto.NewClaimStatsResponse(stats))
}
