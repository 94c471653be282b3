package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/foundit/lostfound-service/internal/domain"
	apperrors "github.com/foundit/lostfound-service/pkg/util/errorutil"
)

// RequireRole ensures the principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Access token required")
		}
		if _, exists := allowedSet[principal.Account.Role]; !exists {
			return apperrors.NewForbidden("Access denied")
		}
		return c.Next()
	}
}

// RequireAdmin is RequireRole(domain.RoleAdmin).
func RequireAdmin() fiber.Handler {
	return RequireRole(domain.RoleAdmin)
}
