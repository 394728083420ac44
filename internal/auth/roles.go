package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// CheckRole returns user when its role is one of allowed. An empty allowed
// list admits any role.
func CheckRole(user *domain.User, allowed ...domain.Role) (*domain.User, error) {
	if user == nil {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	if len(allowed) == 0 {
		return user, nil
	}
	for _, role := range allowed {
		if user.Role == role {
			return user, nil
		}
	}
	return nil, apperrors.NewForbidden("forbidden")
}

// RequireRole ensures the authenticated principal holds one of the allowed roles.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("authentication required")
		}
		if _, err := CheckRole(principal.User, allowed...); err != nil {
			return err
		}
		return c.Next()
	}
}
