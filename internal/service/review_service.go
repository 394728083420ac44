package service

import (
	"context"
	"strings"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// UserReviewInput is the payload for a new rating.
type UserReviewInput struct {
	WisataID int64
	Rating   int
	Comment  *string
}

// UserReviewPatch lists the editable rating fields.
type UserReviewPatch struct {
	Rating  *int
	Comment *string
}

// EditorReviewInput is the payload for a new editor review.
type EditorReviewInput struct {
	WisataID       int64
	Title          string
	Content        string
	Recommendation domain.Recommendation
}

// WisataReviews groups everything written about one site.
type WisataReviews struct {
	WisataID      int64
	AverageRating *float64
	UserReviews   []domain.UserReview
	EditorReviews []domain.EditorReview
}

// ReviewService handles user ratings and editor reviews.
type ReviewService struct {
	userReviews   repository.UserReviewRepository
	editorReviews repository.EditorReviewRepository
	wisata        repository.WisataRepository
	tx            TxRunner
	dispatcher    events.Dispatcher
}

// ReviewDependencies bundles requirements for the review service.
type ReviewDependencies struct {
	UserReviewRepo   repository.UserReviewRepository
	EditorReviewRepo repository.EditorReviewRepository
	WisataRepo       repository.WisataRepository
	Tx               TxRunner
	Dispatcher       events.Dispatcher
}

// NewReviewService builds the service.
func NewReviewService(deps ReviewDependencies) *ReviewService {
	return &ReviewService{
		userReviews:   deps.UserReviewRepo,
		editorReviews: deps.EditorReviewRepo,
		wisata:        deps.WisataRepo,
		tx:            deps.Tx,
		dispatcher:    deps.Dispatcher,
	}
}

// CreateUserReview records a rating. A user may rate a site once.
func (s *ReviewService) CreateUserReview(ctx context.Context, userID int64, in UserReviewInput) (*domain.UserReview, error) {
	if err := validateRating(in.Rating); err != nil {
		return nil, err
	}

	review := &domain.UserReview{
		WisataID: in.WisataID,
		UserID:   userID,
		Rating:   in.Rating,
		Comment:  in.Comment,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.wisata.GetByID(ctx, in.WisataID); err != nil {
			return notFound(err, "wisata")
		}
		return s.userReviews.Create(ctx, review)
	})
	if err != nil {
		if apperrors.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("you have already reviewed this wisata, update your review instead",
				map[string]any{"id_wisata": in.WisataID})
		}
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.New(events.EventUserReviewCreated, review.WisataID, &userID,
		events.UserReviewPayload{ReviewID: review.ID, Rating: review.Rating}))
	return review, nil
}

// UpdateUserReview lets the author change rating or comment.
func (s *ReviewService) UpdateUserReview(ctx context.Context, actor *domain.User, id int64, patch UserReviewPatch) (*domain.UserReview, error) {
	if patch.Rating != nil {
		if err := validateRating(*patch.Rating); err != nil {
			return nil, err
		}
	}

	var review *domain.UserReview
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if review, err = s.userReviews.GetByID(ctx, id); err != nil {
			return notFound(err, "review")
		}
		if review.UserID != actor.ID {
			return apperrors.NewForbidden("forbidden")
		}
		if patch.Rating != nil {
			review.Rating = *patch.Rating
		}
		if patch.Comment != nil {
			review.Comment = patch.Comment
		}
		return s.userReviews.Update(ctx, review)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return review, nil
}

// DeleteUserReview is allowed for the author and admins.
func (s *ReviewService) DeleteUserReview(ctx context.Context, actor *domain.User, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		review, err := s.userReviews.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "review")
		}
		if review.UserID != actor.ID && actor.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("forbidden")
		}
		return notFound(s.userReviews.Delete(ctx, id), "review")
	})
}

// CreateEditorReview records an editor review. Editors may write any number.
func (s *ReviewService) CreateEditorReview(ctx context.Context, editorID int64, in EditorReviewInput) (*domain.EditorReview, error) {
	in.Title = strings.TrimSpace(in.Title)
	if err := required("title", in.Title); err != nil {
		return nil, err
	}
	if err := required("content", in.Content); err != nil {
		return nil, err
	}
	if !in.Recommendation.Valid() {
		return nil, apperrors.NewValidationError("invalid recommendation_level",
			map[string]any{"recommendation_level": in.Recommendation})
	}

	review := &domain.EditorReview{
		WisataID:       in.WisataID,
		EditorID:       editorID,
		Title:          in.Title,
		Content:        in.Content,
		Recommendation: in.Recommendation,
	}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.wisata.GetByID(ctx, in.WisataID); err != nil {
			return notFound(err, "wisata")
		}
		return s.editorReviews.Create(ctx, review)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.New(events.EventEditorReviewCreated, review.WisataID, &editorID, events.EditorReviewPayload{
		ReviewID:       review.ID,
		Title:          review.Title,
		Recommendation: string(review.Recommendation),
	}))
	return review, nil
}

// UpdateEditorReview is allowed for the author and admins.
func (s *ReviewService) UpdateEditorReview(ctx context.Context, actor *domain.User, id int64, patch domain.EditorReviewPatch) (*domain.EditorReview, error) {
	if patch.Title != nil {
		if err := required("title", *patch.Title); err != nil {
			return nil, err
		}
	}
	if patch.Content != nil {
		if err := required("content", *patch.Content); err != nil {
			return nil, err
		}
	}
	if patch.Recommendation != nil && !patch.Recommendation.Valid() {
		return nil, apperrors.NewValidationError("invalid recommendation_level",
			map[string]any{"recommendation_level": *patch.Recommendation})
	}

	var review *domain.EditorReview
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if review, err = s.editorReviews.GetByID(ctx, id); err != nil {
			return notFound(err, "review")
		}
		if review.EditorID != actor.ID && actor.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("forbidden")
		}
		if patch.Title != nil {
			review.Title = strings.TrimSpace(*patch.Title)
		}
		if patch.Content != nil {
			review.Content = *patch.Content
		}
		if patch.Recommendation != nil {
			review.Recommendation = *patch.Recommendation
		}
		return s.editorReviews.Update(ctx, review)
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return review, nil
}

// DeleteEditorReview is allowed for the author and admins.
func (s *ReviewService) DeleteEditorReview(ctx context.Context, actor *domain.User, id int64) error {
	return s.tx.WithinTx(ctx, func(ctx context.Context) error {
		review, err := s.editorReviews.GetByID(ctx, id)
		if err != nil {
			return notFound(err, "review")
		}
		if review.EditorID != actor.ID && actor.Role != domain.RoleAdmin {
			return apperrors.NewForbidden("forbidden")
		}
		return notFound(s.editorReviews.Delete(ctx, id), "review")
	})
}

// ListForWisata returns both review kinds and the mean user rating.
func (s *ReviewService) ListForWisata(ctx context.Context, wisataID int64) (*WisataReviews, error) {
	if _, err := s.wisata.GetByID(ctx, wisataID); err != nil {
		return nil, notFound(err, "wisata")
	}
	userReviews, err := s.userReviews.ListByWisata(ctx, wisataID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	editorReviews, err := s.editorReviews.ListByWisata(ctx, wisataID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	avg, err := s.userReviews.AverageRating(ctx, wisataID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return &WisataReviews{
		WisataID:      wisataID,
		AverageRating: avg,
		UserReviews:   userReviews,
		EditorReviews: editorReviews,
	}, nil
}

func (s *ReviewService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateRating(rating int) error {
	if rating < domain.MinRating || rating > domain.MaxRating {
		return apperrors.NewValidationError("rating must be between 1 and 5", map[string]any{"rating": rating})
	}
	return nil
}
