package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/Lynx-thelearner/BE-Wisata/internal/cache"
	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
	"github.com/Lynx-thelearner/BE-Wisata/internal/media"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
	"github.com/Lynx-thelearner/BE-Wisata/internal/storage"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// CreateWisataInput describes a new site.
type CreateWisataInput struct {
	Fields      domain.WisataFields
	CategoryID  int64
	TagIDs      []int64
	FacilityIDs []int64
}

// ImageUpload is one uploaded file.
type ImageUpload struct {
	ContentType string
	Filename    string
	Data        []byte
}

// WisataService coordinates the wisata aggregate: site row, tag and
// facility membership, and the image collection.
type WisataService struct {
	wisata     repository.WisataRepository
	images     repository.ImageRepository
	categories repository.LookupRepository
	blobs      storage.BlobStore
	published  cache.PublishedCache
	tx         TxRunner
	dispatcher events.Dispatcher
	logger     *zap.Logger
	maxUpload  int
}

// WisataDependencies bundles requirements for the wisata service.
type WisataDependencies struct {
	WisataRepo     repository.WisataRepository
	ImageRepo      repository.ImageRepository
	CategoryRepo   repository.LookupRepository
	Blobs          storage.BlobStore
	PublishedCache cache.PublishedCache
	Tx             TxRunner
	Dispatcher     events.Dispatcher
	Logger         *zap.Logger
	MaxUploadBytes int
}

// NewWisataService builds the service.
func NewWisataService(deps WisataDependencies) *WisataService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WisataService{
		wisata:     deps.WisataRepo,
		images:     deps.ImageRepo,
		categories: deps.CategoryRepo,
		blobs:      deps.Blobs,
		published:  deps.PublishedCache,
		tx:         deps.Tx,
		dispatcher: deps.Dispatcher,
		logger:     logger,
		maxUpload:  deps.MaxUploadBytes,
	}
}

// Create inserts the site and its associations. Unknown tag and facility
// ids are ignored.
func (s *WisataService) Create(ctx context.Context, in CreateWisataInput) (*domain.Wisata, error) {
	if err := validateFields(in.Fields); err != nil {
		return nil, err
	}
	status := in.Fields.Status
	if status == "" {
		status = domain.WisataStatusDraft
	}

	w := &domain.Wisata{
		Name:        strings.TrimSpace(in.Fields.Name),
		Description: in.Fields.Description,
		Location:    in.Fields.Location,
		TicketPrice: in.Fields.TicketPrice,
		OpenTime:    in.Fields.OpenTime,
		CloseTime:   in.Fields.CloseTime,
		Status:      status,
		CategoryID:  in.CategoryID,
	}

	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureCategory(ctx, in.CategoryID); err != nil {
			return err
		}
		if err := s.wisata.Create(ctx, w); err != nil {
			return err
		}
		if len(in.TagIDs) > 0 {
			if err := s.wisata.ReplaceTags(ctx, w.ID, in.TagIDs); err != nil {
				return err
			}
		}
		if len(in.FacilityIDs) > 0 {
			return s.wisata.ReplaceFacilities(ctx, w.ID, in.FacilityIDs)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.New(events.EventWisataCreated, w.ID, nil, events.WisataChangedPayload{Name: w.Name, Status: string(w.Status)}))
	return s.Get(ctx, w.ID)
}

// Update applies the present patch fields. TagIDs/FacilityIDs, when set,
// replace the association exactly.
func (s *WisataService) Update(ctx context.Context, id int64, patch domain.WisataPatch) (*domain.Wisata, error) {
	if patch.Name != nil {
		if err := required("nama_wisata", *patch.Name); err != nil {
			return nil, err
		}
		trimmed := strings.TrimSpace(*patch.Name)
		patch.Name = &trimmed
	}
	if patch.Status != nil && !patch.Status.Valid() {
		return nil, apperrors.NewValidationError("invalid status", map[string]any{"status": *patch.Status})
	}
	if err := validatePrice(patch.TicketPrice); err != nil {
		return nil, err
	}

	var w *domain.Wisata
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if w, err = s.wisata.GetForUpdate(ctx, id); err != nil {
			return notFound(err, "wisata")
		}
		if patch.CategoryID != nil && *patch.CategoryID != w.CategoryID {
			if err := s.ensureCategory(ctx, *patch.CategoryID); err != nil {
				return err
			}
		}
		patch.Apply(w)
		if err := s.wisata.Update(ctx, w); err != nil {
			return err
		}
		if patch.TagIDs != nil {
			if err := s.wisata.ReplaceTags(ctx, id, *patch.TagIDs); err != nil {
				return err
			}
		}
		if patch.FacilityIDs != nil {
			return s.wisata.ReplaceFacilities(ctx, id, *patch.FacilityIDs)
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.New(events.EventWisataUpdated, id, nil, events.WisataChangedPayload{Name: w.Name, Status: string(w.Status)}))
	return s.Get(ctx, id)
}

// Delete removes the site, cascading to images and joins, then purges its
// blob namespace. A failed purge is logged only.
func (s *WisataService) Delete(ctx context.Context, id int64) error {
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.wisata.Delete(ctx, id); err != nil {
			return notFound(err, "wisata")
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := s.blobs.RemoveNamespace(ctx, storage.WisataNamespace(id)); err != nil {
		s.logger.Warn("purge wisata images failed", zap.Int64("wisata_id", id), zap.Error(err))
	}
	s.publish(ctx, events.New(events.EventWisataDeleted, id, nil, nil))
	return nil
}

// ListAll returns every site, ascending by id.
func (s *WisataService) ListAll(ctx context.Context) ([]domain.Wisata, error) {
	return s.list(ctx, repository.WisataFilter{})
}

// ListPublished returns published sites, newest id first.
func (s *WisataService) ListPublished(ctx context.Context) ([]domain.Wisata, error) {
	if items, ok := s.published.Get(ctx); ok {
		return items, nil
	}
	version := s.published.Version(ctx)
	status := domain.WisataStatusPublished
	items, err := s.list(ctx, repository.WisataFilter{Status: &status, Descending: true})
	if err != nil {
		return nil, err
	}
	s.published.Set(ctx, items, version)
	return items, nil
}

func (s *WisataService) list(ctx context.Context, filter repository.WisataFilter) ([]domain.Wisata, error) {
	items, err := s.wisata.List(ctx, filter)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if err := s.hydrate(ctx, items); err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

// Get returns the hydrated aggregate.
func (s *WisataService) Get(ctx context.Context, id int64) (*domain.Wisata, error) {
	w, err := s.wisata.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "wisata")
	}
	items := []domain.Wisata{*w}
	if err := s.hydrate(ctx, items); err != nil {
		return nil, apperrors.MapError(err)
	}
	return &items[0], nil
}

// UploadImage stores the file and records it. The first image of a site
// becomes primary.
func (s *WisataService) UploadImage(ctx context.Context, wisataID int64, upload ImageUpload) (*domain.WisataImage, error) {
	if _, err := s.wisata.GetByID(ctx, wisataID); err != nil {
		return nil, notFound(err, "wisata")
	}
	if !media.Allowed(upload.ContentType) {
		return nil, apperrors.NewValidationError("unsupported file type", map[string]any{
			"content_type": upload.ContentType,
			"allowed":      []string{"image/jpeg", "image/png", "image/gif", "image/webp"},
		})
	}
	if len(upload.Data) == 0 {
		return nil, apperrors.NewValidationError("file is empty", nil)
	}
	if s.maxUpload > 0 && len(upload.Data) > s.maxUpload {
		return nil, apperrors.NewValidationError("file too large", map[string]any{"max_bytes": s.maxUpload})
	}
	if _, err := media.Decode(upload.ContentType, upload.Data); err != nil {
		return nil, apperrors.NewValidationError("file is not a valid image", map[string]any{"content_type": upload.ContentType})
	}

	key := storage.ImageKey(wisataID, upload.Filename)
	if err := s.blobs.Save(ctx, key, upload.Data); err != nil {
		return nil, apperrors.NewInternalError(err)
	}

	img, err := s.insertImage(ctx, wisataID, key, true)
	if apperrors.IsUniqueViolation(err) {
		// another upload won the primary slot
		img, err = s.insertImage(ctx, wisataID, key, false)
	}
	if err != nil {
		s.removeBlob(ctx, key)
		return nil, notFound(err, "wisata")
	}

	s.publish(ctx, events.New(events.EventImageUploaded, wisataID, nil, events.ImagePayload{
		ImageID:   img.ID,
		Path:      img.Path,
		IsPrimary: img.IsPrimary,
	}))
	return img, nil
}

func (s *WisataService) insertImage(ctx context.Context, wisataID int64, key string, allowPrimary bool) (*domain.WisataImage, error) {
	img := &domain.WisataImage{WisataID: wisataID, Path: key}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := s.wisata.GetForUpdate(ctx, wisataID); err != nil {
			return err
		}
		if allowPrimary {
			has, err := s.images.HasImages(ctx, wisataID)
			if err != nil {
				return err
			}
			img.IsPrimary = !has
		}
		return s.images.Create(ctx, img)
	})
	if err != nil {
		return nil, err
	}
	return img, nil
}

// DeleteImage removes one image. When it was primary, the remaining image
// with the lowest id is promoted in the same transaction.
func (s *WisataService) DeleteImage(ctx context.Context, imageID int64) (*domain.WisataImage, error) {
	var (
		img      *domain.WisataImage
		promoted *int64
	)
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if img, err = s.images.GetByID(ctx, imageID); err != nil {
			return notFound(err, "image")
		}
		if _, err := s.wisata.GetForUpdate(ctx, img.WisataID); err != nil {
			return notFound(err, "wisata")
		}
		// the row goes first so the partial unique index never sees two primaries
		if err := s.images.Delete(ctx, imageID); err != nil {
			return notFound(err, "image")
		}
		if !img.IsPrimary {
			return nil
		}
		next, err := s.images.LowestRemaining(ctx, img.WisataID)
		if err != nil {
			if isNoRows(err) {
				return nil
			}
			return err
		}
		if err := s.images.SetPrimary(ctx, next.ID); err != nil {
			return err
		}
		promoted = &next.ID
		return nil
	})
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	s.removeBlob(ctx, img.Path)
	s.publish(ctx, events.New(events.EventImageDeleted, img.WisataID, nil, events.ImagePayload{
		ImageID:    img.ID,
		Path:       img.Path,
		IsPrimary:  img.IsPrimary,
		PromotedID: promoted,
	}))
	return img, nil
}

// ImageURL maps a storage key to its public URL.
func (s *WisataService) ImageURL(path string) string {
	return s.blobs.URL(path)
}

func (s *WisataService) hydrate(ctx context.Context, items []domain.Wisata) error {
	if len(items) == 0 {
		return nil
	}
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}

	tags, err := s.wisata.TagNames(ctx, ids)
	if err != nil {
		return err
	}
	facilities, err := s.wisata.FacilityNames(ctx, ids)
	if err != nil {
		return err
	}
	images, err := s.images.ListByWisata(ctx, ids)
	if err != nil {
		return err
	}

	for i := range items {
		id := items[i].ID
		items[i].Tags = nonNil(tags[id])
		items[i].Facilities = nonNil(facilities[id])
		items[i].Images = images[id]
		if items[i].Images == nil {
			items[i].Images = []domain.WisataImage{}
		}
	}
	return nil
}

func (s *WisataService) ensureCategory(ctx context.Context, id int64) error {
	if _, err := s.categories.GetByID(ctx, id); err != nil {
		return notFound(err, "category")
	}
	return nil
}

func (s *WisataService) removeBlob(ctx context.Context, key string) {
	if err := s.blobs.Remove(ctx, key); err != nil {
		s.logger.Warn("remove image blob failed", zap.String("path", key), zap.Error(err))
	}
}

func (s *WisataService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func validateFields(f domain.WisataFields) error {
	if err := required("nama_wisata", f.Name); err != nil {
		return err
	}
	if f.Status != "" && !f.Status.Valid() {
		return apperrors.NewValidationError("invalid status", map[string]any{"status": f.Status})
	}
	return validatePrice(&f.TicketPrice)
}

func validatePrice(price *domain.NullPrice) error {
	if price == nil || !price.Valid {
		return nil
	}
	if price.Decimal.IsNegative() {
		return apperrors.NewValidationError("ticket_price must not be negative", nil)
	}
	if price.Decimal.GreaterThanOrEqual(domain.MaxTicketPrice) {
		return apperrors.NewValidationError("ticket_price exceeds NUMERIC(10,2)", nil)
	}
	return nil
}

func nonNil(names []string) []string {
	if names == nil {
		return []string{}
	}
	return names
}
