package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/api/dto"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// LookupHandler serves CRUD for one reference table.
type LookupHandler struct {
	service *service.LookupService
}

// NewLookupHandler constructs handler.
func NewLookupHandler(lookupService *service.LookupService) *LookupHandler {
	return &LookupHandler{service: lookupService}
}

func (h *LookupHandler) List(c *fiber.Ctx) error {
	items, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLookupResponses(h.service.Kind(), items)})
}

func (h *LookupHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	item, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLookupResponse(h.service.Kind(), item)})
}

func (h *LookupHandler) Create(c *fiber.Ctx) error {
	var req dto.LookupRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.Create(c.UserContext(), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewLookupResponse(h.service.Kind(), item)})
}

func (h *LookupHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.LookupPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	item, err := h.service.Update(c.UserContext(), id, req.Name)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewLookupResponse(h.service.Kind(), item)})
}

func (h *LookupHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
