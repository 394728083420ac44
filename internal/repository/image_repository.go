package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/persistence"
)

// ImageRepository persists wisata images. The primary flag is guarded by
// the unique_primary_per_wisata partial index.
type ImageRepository interface {
	Create(ctx context.Context, img *domain.WisataImage) error
	GetByID(ctx context.Context, id int64) (*domain.WisataImage, error)
	ListByWisata(ctx context.Context, wisataIDs []int64) (map[int64][]domain.WisataImage, error)
	HasImages(ctx context.Context, wisataID int64) (bool, error)
	LowestRemaining(ctx context.Context, wisataID int64) (*domain.WisataImage, error)
	SetPrimary(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
}

type imageRepository struct {
	pool *pgxpool.Pool
}

// NewImageRepository returns a Postgres-backed implementation.
func NewImageRepository(pool *pgxpool.Pool) ImageRepository {
	return &imageRepository{pool: pool}
}

func (r *imageRepository) Create(ctx context.Context, img *domain.WisataImage) error {
	const query = `
        INSERT INTO wisata_images (id_wisata, image_url, is_primary)
        VALUES ($1, $2, $3)
        RETURNING id_image`

	return persistence.Conn(ctx, r.pool).QueryRow(ctx, query, img.WisataID, img.Path, img.IsPrimary).Scan(&img.ID)
}

func (r *imageRepository) GetByID(ctx context.Context, id int64) (*domain.WisataImage, error) {
	const query = `SELECT id_image, id_wisata, image_url, is_primary FROM wisata_images WHERE id_image=$1`
	var img domain.WisataImage
	if err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(
		&img.ID, &img.WisataID, &img.Path, &img.IsPrimary,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepository) ListByWisata(ctx context.Context, wisataIDs []int64) (map[int64][]domain.WisataImage, error) {
	result := make(map[int64][]domain.WisataImage, len(wisataIDs))
	if len(wisataIDs) == 0 {
		return result, nil
	}

	const query = `
        SELECT id_image, id_wisata, image_url, is_primary
        FROM wisata_images
        WHERE id_wisata = ANY($1)
        ORDER BY id_wisata, id_image`

	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, wisataIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var img domain.WisataImage
		if err := rows.Scan(&img.ID, &img.WisataID, &img.Path, &img.IsPrimary); err != nil {
			return nil, err
		}
		result[img.WisataID] = append(result[img.WisataID], img)
	}
	return result, rows.Err()
}

func (r *imageRepository) HasImages(ctx context.Context, wisataID int64) (bool, error) {
	var exists bool
	err := persistence.Conn(ctx, r.pool).QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM wisata_images WHERE id_wisata=$1)`, wisataID,
	).Scan(&exists)
	return exists, err
}

// LowestRemaining returns the image with the smallest id for the site, or
// pgx.ErrNoRows when the site has none left.
func (r *imageRepository) LowestRemaining(ctx context.Context, wisataID int64) (*domain.WisataImage, error) {
	const query = `
        SELECT id_image, id_wisata, image_url, is_primary
        FROM wisata_images
        WHERE id_wisata=$1
        ORDER BY id_image
        LIMIT 1`
	var img domain.WisataImage
	if err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, wisataID).Scan(
		&img.ID, &img.WisataID, &img.Path, &img.IsPrimary,
	); err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepository) SetPrimary(ctx context.Context, id int64) error {
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `UPDATE wisata_images SET is_primary=TRUE WHERE id_image=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *imageRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM wisata_images WHERE id_image=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
