package handlers

import (
	"context"
	"sort"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
)

type memWisata struct {
	nextID  int64
	rows    map[int64]domain.Wisata
	tags    *memLookups
	tagJoin map[int64][]int64
}

func newMemWisata(tags *memLookups) *memWisata {
	return &memWisata{rows: map[int64]domain.Wisata{}, tags: tags, tagJoin: map[int64][]int64{}}
}

func (m *memWisata) Create(_ context.Context, w *domain.Wisata) error {
	m.nextID++
	w.ID = m.nextID
	w.CreatedAt = time.Now()
	w.UpdatedAt = w.CreatedAt
	m.rows[w.ID] = *w
	return nil
}

func (m *memWisata) Update(_ context.Context, w *domain.Wisata) error {
	if _, ok := m.rows[w.ID]; !ok {
		return pgx.ErrNoRows
	}
	w.UpdatedAt = time.Now()
	m.rows[w.ID] = *w
	return nil
}

func (m *memWisata) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	delete(m.tagJoin, id)
	return nil
}

func (m *memWisata) GetByID(_ context.Context, id int64) (*domain.Wisata, error) {
	w, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &w, nil
}

func (m *memWisata) GetForUpdate(ctx context.Context, id int64) (*domain.Wisata, error) {
	return m.GetByID(ctx, id)
}

func (m *memWisata) List(_ context.Context, filter repository.WisataFilter) ([]domain.Wisata, error) {
	out := []domain.Wisata{}
	for _, w := range m.rows {
		if filter.Status == nil || w.Status == *filter.Status {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *memWisata) ReplaceTags(_ context.Context, wisataID int64, ids []int64) error {
	var kept []int64
	for _, id := range ids {
		if _, ok := m.tags.items[id]; ok {
			kept = append(kept, id)
		}
	}
	m.tagJoin[wisataID] = kept
	return nil
}

func (m *memWisata) ReplaceFacilities(context.Context, int64, []int64) error { return nil }

func (m *memWisata) TagNames(_ context.Context, ids []int64) (map[int64][]string, error) {
	out := map[int64][]string{}
	for _, id := range ids {
		for _, tagID := range m.tagJoin[id] {
			out[id] = append(out[id], m.tags.items[tagID].Name)
		}
	}
	return out, nil
}

func (m *memWisata) FacilityNames(context.Context, []int64) (map[int64][]string, error) {
	return map[int64][]string{}, nil
}

type memImages struct {
	nextID int64
	rows   map[int64]domain.WisataImage
}

func newMemImages() *memImages {
	return &memImages{rows: map[int64]domain.WisataImage{}}
}

func (m *memImages) Create(_ context.Context, img *domain.WisataImage) error {
	if img.IsPrimary {
		for _, other := range m.rows {
			if other.WisataID == img.WisataID && other.IsPrimary {
				return &pgconn.PgError{Code: "23505"}
			}
		}
	}
	m.nextID++
	img.ID = m.nextID
	m.rows[img.ID] = *img
	return nil
}

func (m *memImages) GetByID(_ context.Context, id int64) (*domain.WisataImage, error) {
	img, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &img, nil
}

func (m *memImages) ListByWisata(_ context.Context, ids []int64) (map[int64][]domain.WisataImage, error) {
	out := map[int64][]domain.WisataImage{}
	for _, id := range ids {
		for imgID := int64(1); imgID <= m.nextID; imgID++ {
			if img, ok := m.rows[imgID]; ok && img.WisataID == id {
				out[id] = append(out[id], img)
			}
		}
	}
	return out, nil
}

func (m *memImages) HasImages(_ context.Context, wisataID int64) (bool, error) {
	for _, img := range m.rows {
		if img.WisataID == wisataID {
			return true, nil
		}
	}
	return false, nil
}

func (m *memImages) LowestRemaining(_ context.Context, wisataID int64) (*domain.WisataImage, error) {
	for id := int64(1); id <= m.nextID; id++ {
		if img, ok := m.rows[id]; ok && img.WisataID == wisataID {
			return &img, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memImages) SetPrimary(_ context.Context, id int64) error {
	img, ok := m.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	img.IsPrimary = true
	m.rows[id] = img
	return nil
}

func (m *memImages) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

type memBlobs map[string][]byte

func (b memBlobs) Save(_ context.Context, key string, data []byte) error {
	b[key] = data
	return nil
}

func (b memBlobs) Remove(_ context.Context, key string) error {
	delete(b, key)
	return nil
}

func (b memBlobs) RemoveNamespace(context.Context, string) error { return nil }

func (b memBlobs) URL(key string) string { return "/static/" + key }

type noCache struct{}

func (noCache) Get(context.Context) ([]domain.Wisata, bool) { return nil, false }
func (noCache) Version(context.Context) int64               { return -1 }
func (noCache) Set(context.Context, []domain.Wisata, int64) {}
func (noCache) Invalidate(context.Context) error            { return nil }

type memUserReviews struct {
	nextID int64
	rows   map[int64]domain.UserReview
}

func (m *memUserReviews) Create(_ context.Context, r *domain.UserReview) error {
	for _, other := range m.rows {
		if other.WisataID == r.WisataID && other.UserID == r.UserID {
			return &pgconn.PgError{Code: "23505"}
		}
	}
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	m.rows[r.ID] = *r
	return nil
}

func (m *memUserReviews) Update(_ context.Context, r *domain.UserReview) error {
	if _, ok := m.rows[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memUserReviews) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

func (m *memUserReviews) GetByID(_ context.Context, id int64) (*domain.UserReview, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &r, nil
}

func (m *memUserReviews) ListByWisata(_ context.Context, wisataID int64) ([]domain.UserReview, error) {
	var out []domain.UserReview
	for _, r := range m.rows {
		if r.WisataID == wisataID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *memUserReviews) AverageRating(_ context.Context, wisataID int64) (*float64, error) {
	var sum, n int
	for _, r := range m.rows {
		if r.WisataID == wisataID {
			sum += r.Rating
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(n)
	return &avg, nil
}

type memEditorReviews struct {
	nextID int64
	rows   map[int64]domain.EditorReview
}

func (m *memEditorReviews) Create(_ context.Context, r *domain.EditorReview) error {
	m.nextID++
	r.ID = m.nextID
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	m.rows[r.ID] = *r
	return nil
}

func (m *memEditorReviews) Update(_ context.Context, r *domain.EditorReview) error {
	if _, ok := m.rows[r.ID]; !ok {
		return pgx.ErrNoRows
	}
	m.rows[r.ID] = *r
	return nil
}

func (m *memEditorReviews) Delete(_ context.Context, id int64) error {
	if _, ok := m.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

func (m *memEditorReviews) GetByID(_ context.Context, id int64) (*domain.EditorReview, error) {
	r, ok := m.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &r, nil
}

func (m *memEditorReviews) ListByWisata(_ context.Context, wisataID int64) ([]domain.EditorReview, error) {
	var out []domain.EditorReview
	for _, r := range m.rows {
		if r.WisataID == wisataID {
			out = append(out, r)
		}
	}
	return out, nil
}
