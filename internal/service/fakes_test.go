package service

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
)

type passthroughTx struct{}

func (passthroughTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

// --- users ---

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int64
	rows   map[int64]domain.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{rows: map[int64]domain.User{}}
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.rows {
		if existing.Username == u.Username || existing.Email == u.Email {
			return uniqueViolation("users_username_key")
		}
	}
	r.nextID++
	u.ID = r.nextID
	r.rows[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[u.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.rows[u.ID] = *u
	return nil
}

func (r *fakeUserRepo) Delete(_ context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.ID == id })
}

func (r *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Username == username })
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	return r.find(func(u domain.User) bool { return u.Email == email })
}

func (r *fakeUserRepo) List(_ context.Context) ([]domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []domain.User
	for _, u := range r.rows {
		out = append(out, u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *fakeUserRepo) find(match func(domain.User) bool) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.rows {
		if match(u) {
			copied := u
			return &copied, nil
		}
	}
	return nil, pgx.ErrNoRows
}

// --- lookups ---

type fakeLookupRepo struct {
	kind       domain.LookupKind
	nextID     int64
	rows       map[int64]string
	referenced map[int64]bool
}

func newFakeLookupRepo(kind domain.LookupKind, names ...string) *fakeLookupRepo {
	r := &fakeLookupRepo{kind: kind, rows: map[int64]string{}, referenced: map[int64]bool{}}
	for _, name := range names {
		r.nextID++
		r.rows[r.nextID] = name
	}
	return r
}

func (r *fakeLookupRepo) Kind() domain.LookupKind { return r.kind }

func (r *fakeLookupRepo) Create(_ context.Context, item *domain.Lookup) error {
	for _, name := range r.rows {
		if name == item.Name {
			return uniqueViolation("name_key")
		}
	}
	r.nextID++
	item.ID = r.nextID
	r.rows[item.ID] = item.Name
	return nil
}

func (r *fakeLookupRepo) Update(_ context.Context, item *domain.Lookup) error {
	if _, ok := r.rows[item.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.rows[item.ID] = item.Name
	return nil
}

func (r *fakeLookupRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	if r.referenced[id] {
		return &pgconn.PgError{Code: "23503", ConstraintName: "wisata_category_id_fkey"}
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeLookupRepo) GetByID(_ context.Context, id int64) (*domain.Lookup, error) {
	name, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &domain.Lookup{ID: id, Name: name}, nil
}

func (r *fakeLookupRepo) GetByName(_ context.Context, name string) (*domain.Lookup, error) {
	for id, n := range r.rows {
		if n == name {
			return &domain.Lookup{ID: id, Name: n}, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeLookupRepo) List(_ context.Context) ([]domain.Lookup, error) {
	var out []domain.Lookup
	for id, name := range r.rows {
		out = append(out, domain.Lookup{ID: id, Name: name})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// --- wisata + images ---

type fakeWisataRepo struct {
	nextID     int64
	rows       map[int64]domain.Wisata
	tags       *fakeLookupRepo
	facilities *fakeLookupRepo
	tagJoin    map[int64][]int64
	facJoin    map[int64][]int64
	images     *fakeImageRepo
	now        time.Time
	// onList runs inside List, standing in for a write that lands while
	// the listing is being read.
	onList func()
}

func newFakeWisataRepo(tags, facilities *fakeLookupRepo, images *fakeImageRepo) *fakeWisataRepo {
	return &fakeWisataRepo{
		rows:       map[int64]domain.Wisata{},
		tags:       tags,
		facilities: facilities,
		tagJoin:    map[int64][]int64{},
		facJoin:    map[int64][]int64{},
		images:     images,
		now:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (r *fakeWisataRepo) tick() time.Time {
	r.now = r.now.Add(time.Minute)
	return r.now
}

func (r *fakeWisataRepo) Create(_ context.Context, w *domain.Wisata) error {
	r.nextID++
	w.ID = r.nextID
	w.CreatedAt = r.tick()
	w.UpdatedAt = w.CreatedAt
	stored := *w
	stored.Tags, stored.Facilities, stored.Images = nil, nil, nil
	r.rows[w.ID] = stored
	return nil
}

func (r *fakeWisataRepo) Update(_ context.Context, w *domain.Wisata) error {
	if _, ok := r.rows[w.ID]; !ok {
		return pgx.ErrNoRows
	}
	w.UpdatedAt = r.tick()
	stored := *w
	stored.Tags, stored.Facilities, stored.Images = nil, nil, nil
	r.rows[w.ID] = stored
	return nil
}

func (r *fakeWisataRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	delete(r.tagJoin, id)
	delete(r.facJoin, id)
	r.images.deleteForWisata(id)
	return nil
}

func (r *fakeWisataRepo) GetByID(_ context.Context, id int64) (*domain.Wisata, error) {
	w, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &w, nil
}

func (r *fakeWisataRepo) GetForUpdate(ctx context.Context, id int64) (*domain.Wisata, error) {
	return r.GetByID(ctx, id)
}

func (r *fakeWisataRepo) List(_ context.Context, filter repository.WisataFilter) ([]domain.Wisata, error) {
	if r.onList != nil {
		r.onList()
	}
	var out []domain.Wisata
	for _, w := range r.rows {
		if filter.Status != nil && w.Status != *filter.Status {
			continue
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool {
		if filter.Descending {
			return out[i].ID > out[j].ID
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (r *fakeWisataRepo) ReplaceTags(_ context.Context, wisataID int64, ids []int64) error {
	r.tagJoin[wisataID] = existing(r.tags, ids)
	return nil
}

func (r *fakeWisataRepo) ReplaceFacilities(_ context.Context, wisataID int64, ids []int64) error {
	r.facJoin[wisataID] = existing(r.facilities, ids)
	return nil
}

func existing(lookup *fakeLookupRepo, ids []int64) []int64 {
	seen := map[int64]bool{}
	var out []int64
	for _, id := range ids {
		if _, ok := lookup.rows[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *fakeWisataRepo) TagNames(_ context.Context, ids []int64) (map[int64][]string, error) {
	return names(r.tagJoin, r.tags, ids), nil
}

func (r *fakeWisataRepo) FacilityNames(_ context.Context, ids []int64) (map[int64][]string, error) {
	return names(r.facJoin, r.facilities, ids), nil
}

func names(join map[int64][]int64, lookup *fakeLookupRepo, ids []int64) map[int64][]string {
	out := map[int64][]string{}
	for _, id := range ids {
		for _, ref := range join[id] {
			out[id] = append(out[id], lookup.rows[ref])
		}
	}
	return out
}

type fakeImageRepo struct {
	nextID int64
	rows   map[int64]domain.WisataImage
	// forcePrimaryConflict makes the next primary insert fail as if another
	// request had already claimed the primary slot.
	forcePrimaryConflict bool
}

func newFakeImageRepo() *fakeImageRepo {
	return &fakeImageRepo{rows: map[int64]domain.WisataImage{}}
}

func (r *fakeImageRepo) Create(_ context.Context, img *domain.WisataImage) error {
	if img.IsPrimary {
		if r.forcePrimaryConflict {
			r.forcePrimaryConflict = false
			return uniqueViolation("unique_primary_per_wisata")
		}
		for _, existing := range r.rows {
			if existing.WisataID == img.WisataID && existing.IsPrimary {
				return uniqueViolation("unique_primary_per_wisata")
			}
		}
	}
	r.nextID++
	img.ID = r.nextID
	r.rows[img.ID] = *img
	return nil
}

func (r *fakeImageRepo) GetByID(_ context.Context, id int64) (*domain.WisataImage, error) {
	img, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &img, nil
}

func (r *fakeImageRepo) ListByWisata(_ context.Context, ids []int64) (map[int64][]domain.WisataImage, error) {
	want := map[int64]bool{}
	for _, id := range ids {
		want[id] = true
	}
	out := map[int64][]domain.WisataImage{}
	for _, img := range r.sorted() {
		if want[img.WisataID] {
			out[img.WisataID] = append(out[img.WisataID], img)
		}
	}
	return out, nil
}

func (r *fakeImageRepo) HasImages(_ context.Context, wisataID int64) (bool, error) {
	for _, img := range r.rows {
		if img.WisataID == wisataID {
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeImageRepo) LowestRemaining(_ context.Context, wisataID int64) (*domain.WisataImage, error) {
	for _, img := range r.sorted() {
		if img.WisataID == wisataID {
			return &img, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeImageRepo) SetPrimary(_ context.Context, id int64) error {
	img, ok := r.rows[id]
	if !ok {
		return pgx.ErrNoRows
	}
	for _, other := range r.rows {
		if other.WisataID == img.WisataID && other.IsPrimary && other.ID != id {
			return uniqueViolation("unique_primary_per_wisata")
		}
	}
	img.IsPrimary = true
	r.rows[id] = img
	return nil
}

func (r *fakeImageRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeImageRepo) deleteForWisata(wisataID int64) {
	for id, img := range r.rows {
		if img.WisataID == wisataID {
			delete(r.rows, id)
		}
	}
}

func (r *fakeImageRepo) sorted() []domain.WisataImage {
	out := make([]domain.WisataImage, 0, len(r.rows))
	for _, img := range r.rows {
		out = append(out, img)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// --- reviews ---

type fakeUserReviewRepo struct {
	nextID int64
	rows   map[int64]domain.UserReview
}

func newFakeUserReviewRepo() *fakeUserReviewRepo {
	return &fakeUserReviewRepo{rows: map[int64]domain.UserReview{}}
}

func (r *fakeUserReviewRepo) Create(_ context.Context, review *domain.UserReview) error {
	for _, existing := range r.rows {
		if existing.WisataID == review.WisataID && existing.UserID == review.UserID {
			return uniqueViolation("user_reviews_wisata_user_key")
		}
	}
	r.nextID++
	review.ID = r.nextID
	review.CreatedAt = time.Now()
	r.rows[review.ID] = *review
	return nil
}

func (r *fakeUserReviewRepo) Update(_ context.Context, review *domain.UserReview) error {
	if _, ok := r.rows[review.ID]; !ok {
		return pgx.ErrNoRows
	}
	r.rows[review.ID] = *review
	return nil
}

func (r *fakeUserReviewRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeUserReviewRepo) GetByID(_ context.Context, id int64) (*domain.UserReview, error) {
	review, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &review, nil
}

func (r *fakeUserReviewRepo) ListByWisata(_ context.Context, wisataID int64) ([]domain.UserReview, error) {
	var out []domain.UserReview
	for _, review := range r.rows {
		if review.WisataID == wisataID {
			out = append(out, review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *fakeUserReviewRepo) AverageRating(_ context.Context, wisataID int64) (*float64, error) {
	var sum, n int
	for _, review := range r.rows {
		if review.WisataID == wisataID {
			sum += review.Rating
			n++
		}
	}
	if n == 0 {
		return nil, nil
	}
	avg := float64(sum) / float64(n)
	return &avg, nil
}

type fakeEditorReviewRepo struct {
	nextID int64
	rows   map[int64]domain.EditorReview
}

func newFakeEditorReviewRepo() *fakeEditorReviewRepo {
	return &fakeEditorReviewRepo{rows: map[int64]domain.EditorReview{}}
}

func (r *fakeEditorReviewRepo) Create(_ context.Context, review *domain.EditorReview) error {
	r.nextID++
	review.ID = r.nextID
	review.CreatedAt = time.Now()
	review.UpdatedAt = review.CreatedAt
	r.rows[review.ID] = *review
	return nil
}

func (r *fakeEditorReviewRepo) Update(_ context.Context, review *domain.EditorReview) error {
	if _, ok := r.rows[review.ID]; !ok {
		return pgx.ErrNoRows
	}
	review.UpdatedAt = time.Now()
	r.rows[review.ID] = *review
	return nil
}

func (r *fakeEditorReviewRepo) Delete(_ context.Context, id int64) error {
	if _, ok := r.rows[id]; !ok {
		return pgx.ErrNoRows
	}
	delete(r.rows, id)
	return nil
}

func (r *fakeEditorReviewRepo) GetByID(_ context.Context, id int64) (*domain.EditorReview, error) {
	review, ok := r.rows[id]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	return &review, nil
}

func (r *fakeEditorReviewRepo) ListByWisata(_ context.Context, wisataID int64) ([]domain.EditorReview, error) {
	var out []domain.EditorReview
	for _, review := range r.rows {
		if review.WisataID == wisataID {
			out = append(out, review)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

// --- blobs, cache, events ---

type fakeBlobStore struct {
	blobs      map[string][]byte
	failPurge  bool
	failRemove bool
	purged     []string
}

func newFakeBlobStore() *fakeBlobStore {
	return &fakeBlobStore{blobs: map[string][]byte{}}
}

func (s *fakeBlobStore) Save(_ context.Context, key string, data []byte) error {
	s.blobs[key] = data
	return nil
}

func (s *fakeBlobStore) Remove(_ context.Context, key string) error {
	if s.failRemove {
		return errBlob
	}
	delete(s.blobs, key)
	return nil
}

func (s *fakeBlobStore) RemoveNamespace(_ context.Context, namespace string) error {
	s.purged = append(s.purged, namespace)
	if s.failPurge {
		return errBlob
	}
	for key := range s.blobs {
		if strings.HasPrefix(key, namespace+"/") {
			delete(s.blobs, key)
		}
	}
	return nil
}

func (s *fakeBlobStore) URL(key string) string {
	return "/static/" + key
}

type blobError struct{}

func (blobError) Error() string { return "disk unavailable" }

var errBlob error = blobError{}

type fakePublishedCache struct {
	items       []domain.Wisata
	ok          bool
	invalidated int
}

func (c *fakePublishedCache) Get(context.Context) ([]domain.Wisata, bool) { return c.items, c.ok }

func (c *fakePublishedCache) Version(context.Context) int64 { return int64(c.invalidated) }

func (c *fakePublishedCache) Set(_ context.Context, items []domain.Wisata, version int64) {
	if version != int64(c.invalidated) {
		return
	}
	c.items, c.ok = items, true
}

func (c *fakePublishedCache) Invalidate(context.Context) error {
	c.items, c.ok = nil, false
	c.invalidated++
	return nil
}

type recordingDispatcher struct {
	published []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.published = append(d.published, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	out := make([]events.EventType, len(d.published))
	for i, e := range d.published {
		out[i] = e.Type
	}
	return out
}
