package domain

import "time"

// Recommendation is the verdict an editor attaches to a review.
type Recommendation string

const (
	RecommendationRecommended    Recommendation = "recommended"
	RecommendationNotRecommended Recommendation = "not_recommended"
	RecommendationNeutral        Recommendation = "neutral"
)

// Valid reports whether r is a known recommendation level.
func (r Recommendation) Valid() bool {
	switch r {
	case RecommendationRecommended, RecommendationNotRecommended, RecommendationNeutral:
		return true
	}
	return false
}

const (
	MinRating = 1
	MaxRating = 5
)

// UserReview is an end-user rating. One per (wisata, user).
type UserReview struct {
	ID        int64
	WisataID  int64
	UserID    int64
	Rating    int
	Comment   *string
	CreatedAt time.Time
}

// EditorReview is a narrative review written by an editor.
type EditorReview struct {
	ID             int64
	WisataID       int64
	EditorID       int64
	Title          string
	Content        string
	Recommendation Recommendation
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// EditorReviewPatch lists the editable editor review fields.
type EditorReviewPatch struct {
	Title          *string
	Content        *string
	Recommendation *Recommendation
}
