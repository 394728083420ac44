package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/Lynx-thelearner/BE-Wisata/internal/api/dto"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// ReviewHandler serves user ratings and editor reviews.
type ReviewHandler struct {
	service *service.ReviewService
}

// NewReviewHandler constructs handler.
func NewReviewHandler(reviewService *service.ReviewService) *ReviewHandler {
	return &ReviewHandler{service: reviewService}
}

// ListForWisata handles GET /review/wisata/:id.
func (h *ReviewHandler) ListForWisata(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	reviews, err := h.service.ListForWisata(c.UserContext(), id)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewWisataReviewsResponse(reviews)})
}

// CreateUserReview handles POST /review/user.
func (h *ReviewHandler) CreateUserReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.UserReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	review, err := h.service.CreateUserReview(c.UserContext(), user.ID, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewUserReviewResponse(review)})
}

// UpdateUserReview handles PATCH /review/user/:id.
func (h *ReviewHandler) UpdateUserReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.UserReviewPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	review, err := h.service.UpdateUserReview(c.UserContext(), user, id, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewUserReviewResponse(review)})
}

// DeleteUserReview handles DELETE /review/user/:id.
func (h *ReviewHandler) DeleteUserReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteUserReview(c.UserContext(), user, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// CreateEditorReview handles POST /review/editor.
func (h *ReviewHandler) CreateEditorReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	var req dto.EditorReviewRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	review, err := h.service.CreateEditorReview(c.UserContext(), user.ID, req.Input())
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewEditorReviewResponse(review)})
}

// UpdateEditorReview handles PATCH /review/editor/:id.
func (h *ReviewHandler) UpdateEditorReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	var req dto.EditorReviewPatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}
	review, err := h.service.UpdateEditorReview(c.UserContext(), user, id, req.Patch())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewEditorReviewResponse(review)})
}

// DeleteEditorReview handles DELETE /review/editor/:id.
func (h *ReviewHandler) DeleteEditorReview(c *fiber.Ctx) error {
	user, err := currentUser(c)
	if err != nil {
		return err
	}
	id, err := paramID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteEditorReview(c.UserContext(), user, id); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
