package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/persistence"
)

// UserReviewRepository persists end-user ratings.
type UserReviewRepository interface {
	Create(ctx context.Context, review *domain.UserReview) error
	Update(ctx context.Context, review *domain.UserReview) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.UserReview, error)
	ListByWisata(ctx context.Context, wisataID int64) ([]domain.UserReview, error)
	AverageRating(ctx context.Context, wisataID int64) (*float64, error)
}

// EditorReviewRepository persists editor-written reviews.
type EditorReviewRepository interface {
	Create(ctx context.Context, review *domain.EditorReview) error
	Update(ctx context.Context, review *domain.EditorReview) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.EditorReview, error)
	ListByWisata(ctx context.Context, wisataID int64) ([]domain.EditorReview, error)
}

type userReviewRepository struct {
	pool *pgxpool.Pool
}

type editorReviewRepository struct {
	pool *pgxpool.Pool
}

// NewUserReviewRepository returns a Postgres-backed implementation.
func NewUserReviewRepository(pool *pgxpool.Pool) UserReviewRepository {
	return &userReviewRepository{pool: pool}
}

// NewEditorReviewRepository returns a Postgres-backed implementation.
func NewEditorReviewRepository(pool *pgxpool.Pool) EditorReviewRepository {
	return &editorReviewRepository{pool: pool}
}

func (r *userReviewRepository) Create(ctx context.Context, review *domain.UserReview) error {
	const query = `
        INSERT INTO user_reviews (id_wisata, id_user, rating, comment)
        VALUES ($1, $2, $3, $4)
        RETURNING id_review, created_at`

	return persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		review.WisataID,
		review.UserID,
		review.Rating,
		review.Comment,
	).Scan(&review.ID, &review.CreatedAt)
}

func (r *userReviewRepository) Update(ctx context.Context, review *domain.UserReview) error {
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx,
		`UPDATE user_reviews SET rating=$1, comment=$2 WHERE id_review=$3`,
		review.Rating, review.Comment, review.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userReviewRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM user_reviews WHERE id_review=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *userReviewRepository) GetByID(ctx context.Context, id int64) (*domain.UserReview, error) {
	const query = `SELECT id_review, id_wisata, id_user, rating, comment, created_at FROM user_reviews WHERE id_review=$1`
	var review domain.UserReview
	if err := scanUserReview(persistence.Conn(ctx, r.pool).QueryRow(ctx, query, id), &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *userReviewRepository) ListByWisata(ctx context.Context, wisataID int64) ([]domain.UserReview, error) {
	const query = `
        SELECT id_review, id_wisata, id_user, rating, comment, created_at
        FROM user_reviews
        WHERE id_wisata=$1
        ORDER BY created_at DESC, id_review DESC`

	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, wisataID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.UserReview
	for rows.Next() {
		var review domain.UserReview
		if err := scanUserReview(rows, &review); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

// AverageRating returns nil when the site has no ratings.
func (r *userReviewRepository) AverageRating(ctx context.Context, wisataID int64) (*float64, error) {
	var avg *float64
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT AVG(rating)::float8 FROM user_reviews WHERE id_wisata=$1`, wisataID,
	).Scan(&avg)
	return avg, err
}

func scanUserReview(row pgx.Row, review *domain.UserReview) error {
	var rating int16
	if err := row.Scan(
		&review.ID,
		&review.WisataID,
		&review.UserID,
		&rating,
		&review.Comment,
		&review.CreatedAt,
	); err != nil {
		return err
	}
	review.Rating = int(rating)
	return nil
}

func (r *editorReviewRepository) Create(ctx context.Context, review *domain.EditorReview) error {
	const query = `
        INSERT INTO editor_reviews (id_wisata, id_editor, title, content, recommendation_level)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id_review, created_at, updated_at`

	return persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		review.WisataID,
		review.EditorID,
		review.Title,
		review.Content,
		string(review.Recommendation),
	).Scan(&review.ID, &review.CreatedAt, &review.UpdatedAt)
}

func (r *editorReviewRepository) Update(ctx context.Context, review *domain.EditorReview) error {
	const query = `
        UPDATE editor_reviews SET title=$1, content=$2, recommendation_level=$3, updated_at=NOW()
        WHERE id_review=$4
        RETURNING updated_at`

	return persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		review.Title,
		review.Content,
		string(review.Recommendation),
		review.ID,
	).Scan(&review.UpdatedAt)
}

func (r *editorReviewRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM editor_reviews WHERE id_review=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *editorReviewRepository) GetByID(ctx context.Context, id int64) (*domain.EditorReview, error) {
	const query = `
        SELECT id_review, id_wisata, id_editor, title, content, recommendation_level, created_at, updated_at
        FROM editor_reviews WHERE id_review=$1`
	var review domain.EditorReview
	if err := scanEditorReview(persistence.Conn(ctx, r.pool).QueryRow(ctx, query, id), &review); err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *editorReviewRepository) ListByWisata(ctx context.Context, wisataID int64) ([]domain.EditorReview, error) {
	const query = `
        SELECT id_review, id_wisata, id_editor, title, content, recommendation_level, created_at, updated_at
        FROM editor_reviews
        WHERE id_wisata=$1
        ORDER BY created_at DESC, id_review DESC`

	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, wisataID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.EditorReview
	for rows.Next() {
		var review domain.EditorReview
		if err := scanEditorReview(rows, &review); err != nil {
			return nil, err
		}
		result = append(result, review)
	}
	return result, rows.Err()
}

func scanEditorReview(row pgx.Row, review *domain.EditorReview) error {
	var level string
	if err := row.Scan(
		&review.ID,
		&review.WisataID,
		&review.EditorID,
		&review.Title,
		&review.Content,
		&level,
		&review.CreatedAt,
		&review.UpdatedAt,
	); err != nil {
		return err
	}
	review.Recommendation = domain.Recommendation(level)
	return nil
}
