package dto

import (
	"time"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/service"
)

// UserReviewRequest payload for POST /review/user.
type UserReviewRequest struct {
	WisataID int64   `json:"id_wisata" validate:"required,gt=0"`
	Rating   int     `json:"rating" validate:"required,min=1,max=5"`
	Comment  *string `json:"comment"`
}

func (r UserReviewRequest) Input() service.UserReviewInput {
	return service.UserReviewInput{WisataID: r.WisataID, Rating: r.Rating, Comment: r.Comment}
}

// UserReviewPatchRequest payload for PATCH /review/user/:id.
type UserReviewPatchRequest struct {
	Rating  *int    `json:"rating" validate:"omitempty,min=1,max=5"`
	Comment *string `json:"comment"`
}

func (r UserReviewPatchRequest) Patch() service.UserReviewPatch {
	return service.UserReviewPatch{Rating: r.Rating, Comment: r.Comment}
}

// EditorReviewRequest payload for POST /review/editor.
type EditorReviewRequest struct {
	WisataID       int64                 `json:"id_wisata" validate:"required,gt=0"`
	Title          string                `json:"title" validate:"required"`
	Content        string                `json:"content" validate:"required"`
	Recommendation domain.Recommendation `json:"recommendation_level" validate:"required,oneof=recommended not_recommended neutral"`
}

func (r EditorReviewRequest) Input() service.EditorReviewInput {
	return service.EditorReviewInput{
		WisataID:       r.WisataID,
		Title:          r.Title,
		Content:        r.Content,
		Recommendation: r.Recommendation,
	}
}

// EditorReviewPatchRequest payload for PATCH /review/editor/:id.
type EditorReviewPatchRequest struct {
	Title          *string                `json:"title" validate:"omitempty,min=1"`
	Content        *string                `json:"content" validate:"omitempty,min=1"`
	Recommendation *domain.Recommendation `json:"recommendation_level" validate:"omitempty,oneof=recommended not_recommended neutral"`
}

func (r EditorReviewPatchRequest) Patch() domain.EditorReviewPatch {
	return domain.EditorReviewPatch{Title: r.Title, Content: r.Content, Recommendation: r.Recommendation}
}

type UserReviewResponse struct {
	ID        int64     `json:"id_review"`
	WisataID  int64     `json:"id_wisata"`
	UserID    int64     `json:"id_user"`
	Rating    int       `json:"rating"`
	Comment   *string   `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
}

func NewUserReviewResponse(r *domain.UserReview) UserReviewResponse {
	return UserReviewResponse{
		ID:        r.ID,
		WisataID:  r.WisataID,
		UserID:    r.UserID,
		Rating:    r.Rating,
		Comment:   r.Comment,
		CreatedAt: r.CreatedAt,
	}
}

type EditorReviewResponse struct {
	ID             int64                 `json:"id_review"`
	WisataID       int64                 `json:"id_wisata"`
	EditorID       int64                 `json:"id_editor"`
	Title          string                `json:"title"`
	Content        string                `json:"content"`
	Recommendation domain.Recommendation `json:"recommendation_level"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

func NewEditorReviewResponse(r *domain.EditorReview) EditorReviewResponse {
	return EditorReviewResponse{
		ID:             r.ID,
		WisataID:       r.WisataID,
		EditorID:       r.EditorID,
		Title:          r.Title,
		Content:        r.Content,
		Recommendation: r.Recommendation,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
	}
}

// WisataReviewsResponse groups both review kinds for one site.
type WisataReviewsResponse struct {
	WisataID      int64                  `json:"id_wisata"`
	AverageRating *float64               `json:"average_rating"`
	RatingCount   int                    `json:"rating_count"`
	UserReviews   []UserReviewResponse   `json:"user_reviews"`
	EditorReviews []EditorReviewResponse `json:"editor_reviews"`
}

func NewWisataReviewsResponse(r *service.WisataReviews) WisataReviewsResponse {
	resp := WisataReviewsResponse{
		WisataID:      r.WisataID,
		AverageRating: r.AverageRating,
		RatingCount:   len(r.UserReviews),
		UserReviews:   make([]UserReviewResponse, 0, len(r.UserReviews)),
		EditorReviews: make([]EditorReviewResponse, 0, len(r.EditorReviews)),
	}
	for i := range r.UserReviews {
		resp.UserReviews = append(resp.UserReviews, NewUserReviewResponse(&r.UserReviews[i]))
	}
	for i := range r.EditorReviews {
		resp.EditorReviews = append(resp.EditorReviews, NewEditorReviewResponse(&r.EditorReviews[i]))
	}
	return resp
}
