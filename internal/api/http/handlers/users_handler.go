package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/api/dto"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// UsersHandler exposes profile and admin account endpoints.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(userService *service.UserService) *UsersHandler {
	return &UsersHandler{users: userService}
}

// Profile handles GET /user/profile.
func (h *UsersHandler) Profile(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// UpdateMe handles PATCH /user/update-me.
func (h *UsersHandler) UpdateMe(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UpdateMeRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	updated, err := h.users.UpdateMe(c.UserContext(), user.ID, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(updated)})
}

// Create handles POST /user.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// List handles GET /user.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	users, err := h.users.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponses(users)})
}

// GetByID handles GET /user/id/:id.
func (h *UsersHandler) GetByID(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.GetByID(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetByEmail handles GET /user/email/:email.
func (h *UsersHandler) GetByEmail(c *fiber.Ctx) error {
	user, err := h.users.GetByEmail(c.UserContext(), c.Params("email"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// GetByUsername handles GET /user/username/:username.
func (h *UsersHandler) GetByUsername(c *fiber.Ctx) error {
	user, err := h.users.GetByUsername(c.UserContext(), c.Params("username"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Update handles PATCH /user/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateUserRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	user, err := h.users.Update(c.UserContext(), id, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}

// Delete handles DELETE /user/:id and returns the removed account.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	user, err := h.users.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserResponse(user)})
}
