package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/api/dto"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// AuthHandler exposes login and registration.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// Login handles POST /auth/login. Accepts form or JSON bodies.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	token, err := h.auth.Authenticate(c.UserContext(), req.Username, req.Password)
	if err != nil {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return err
	}
	return c.JSON(dto.NewTokenResponse(token))
}

// Register handles POST /auth/register and POST /user/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	user, err := h.auth.Register(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
