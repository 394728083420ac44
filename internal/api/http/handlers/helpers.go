package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/api/dto"
	"github.com/Lynx-thelearner/BE-Wisata/internal/auth"
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("invalid "+name, map[string]any{name: c.Params(name)})
	}
	return id, nil
}

// bind parses the body into req and runs struct validation.
func bind(c *fiber.Ctx, req any) error {
	if err := c.BodyParser(req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	return dto.Validate(req)
}

func currentUser(c *fiber.Ctx) (*domain.User, error) {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return nil, apperrors.NewUnauthorized("authentication required")
	}
	return principal.User, nil
}
