package handlers

import (
	"io"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/api/dto"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// WisataHandler serves the catalog endpoints.
type WisataHandler struct {
	service *service.WisataService
}

// NewWisataHandler constructs handler.
func NewWisataHandler(wisataService *service.WisataService) *WisataHandler {
	return &WisataHandler{service: wisataService}
}

// ListAll handles GET /wisata.
func (h *WisataHandler) ListAll(c *fiber.Ctx) error {
	items, err := h.service.ListAll(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWisataResponses(items, h.service.ImageURL)})
}

// ListPublished handles GET /wisata/published.
func (h *WisataHandler) ListPublished(c *fiber.Ctx) error {
	items, err := h.service.ListPublished(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWisataResponses(items, h.service.ImageURL)})
}

// Get handles GET /wisata/:id.
func (h *WisataHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	w, err := h.service.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWisataResponse(w, h.service.ImageURL)})
}

// Create handles POST /wisata.
func (h *WisataHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateWisataRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	w, err := h.service.Create(c.UserContext(), req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewWisataResponse(w, h.service.ImageURL)})
}

// Update handles PATCH /wisata/:id.
func (h *WisataHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UpdateWisataRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	w, err := h.service.Update(c.UserContext(), id, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWisataResponse(w, h.service.ImageURL)})
}

// Delete handles DELETE /wisata/:id.
func (h *WisataHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.UserContext(), id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// UploadImage handles POST /wisata/:id/images with multipart field "file".
func (h *WisataHandler) UploadImage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	header, err := c.FormFile("file")
	if err != nil {
		return apperrors.NewValidationError("file is required", map[string]any{"field": "file"})
	}
	file, err := header.Open()
	if err != nil {
		return apperrors.NewInternalError(err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return apperrors.NewInternalError(err)
	}

	img, err := h.service.UploadImage(c.UserContext(), id, service.ImageUpload{
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Filename:    header.Filename,
		Data:        data,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewWisataImageResponse(img, h.service.ImageURL)})
}

// DeleteImage handles DELETE /wisata/images/:id.
func (h *WisataHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	img, err := h.service.DeleteImage(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWisataImageResponse(img, h.service.ImageURL)})
}
