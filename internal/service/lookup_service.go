package service

import (
	"context"
	"strings"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/events"
	"github.com/Lynx-thelearner/BE-Wisata/internal/repository"
	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// LookupService manages one reference table (categories, tags or facilities).
// Renames and deletes are published because tag and facility names are
// embedded in wisata listings.
type LookupService struct {
	repo       repository.LookupRepository
	tx         TxRunner
	dispatcher events.Dispatcher
}

// NewLookupService builds the service for repo's kind. dispatcher may be nil.
func NewLookupService(repo repository.LookupRepository, tx TxRunner, dispatcher events.Dispatcher) *LookupService {
	return &LookupService{repo: repo, tx: tx, dispatcher: dispatcher}
}

func (s *LookupService) Kind() domain.LookupKind {
	return s.repo.Kind()
}

func (s *LookupService) List(ctx context.Context) ([]domain.Lookup, error) {
	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return items, nil
}

func (s *LookupService) Get(ctx context.Context, id int64) (*domain.Lookup, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, notFound(err, string(s.Kind()))
	}
	return item, nil
}

func (s *LookupService) Create(ctx context.Context, name string) (*domain.Lookup, error) {
	name = strings.TrimSpace(name)
	if err := required("name", name); err != nil {
		return nil, err
	}

	item := &domain.Lookup{Name: name}
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		if err := s.ensureNameFree(ctx, 0, name); err != nil {
			return err
		}
		return s.repo.Create(ctx, item)
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}
	return item, nil
}

// Update renames the entry. A nil name leaves it untouched.
func (s *LookupService) Update(ctx context.Context, id int64, name *string) (*domain.Lookup, error) {
	var item *domain.Lookup
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if item, err = s.repo.GetByID(ctx, id); err != nil {
			return notFound(err, string(s.Kind()))
		}
		if name == nil {
			return nil
		}
		trimmed := strings.TrimSpace(*name)
		if err := required("name", trimmed); err != nil {
			return err
		}
		if err := s.ensureNameFree(ctx, id, trimmed); err != nil {
			return err
		}
		item.Name = trimmed
		return s.repo.Update(ctx, item)
	})
	if err != nil {
		return nil, s.mapWriteError(err)
	}
	if name != nil {
		s.publish(ctx, events.EventLookupUpdated, item)
	}
	return item, nil
}

// Delete removes the entry. A category still used by a wisata is a conflict.
// Tags and facilities are detached from every wisata that used them.
func (s *LookupService) Delete(ctx context.Context, id int64) error {
	var item *domain.Lookup
	err := s.tx.WithinTx(ctx, func(ctx context.Context) error {
		var err error
		if item, err = s.repo.GetByID(ctx, id); err != nil {
			return notFound(err, string(s.Kind()))
		}
		if err := s.repo.Delete(ctx, id); err != nil {
			return notFound(err, string(s.Kind()))
		}
		return nil
	})
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeConflict) {
			return apperrors.NewConflict(string(s.Kind())+" is still referenced by wisata", map[string]any{"id": id})
		}
		return err
	}
	s.publish(ctx, events.EventLookupDeleted, item)
	return nil
}

func (s *LookupService) publish(ctx context.Context, eventType events.EventType, item *domain.Lookup) {
	if s.dispatcher == nil {
		return
	}
	_ = s.dispatcher.Publish(ctx, events.New(eventType, 0, nil, events.LookupPayload{
		Kind: string(s.Kind()),
		ID:   item.ID,
		Name: item.Name,
	}))
}

func (s *LookupService) ensureNameFree(ctx context.Context, selfID int64, name string) error {
	existing, err := s.repo.GetByName(ctx, name)
	switch {
	case err == nil && existing.ID != selfID:
		return apperrors.NewConflict(string(s.Kind())+" already exists", map[string]any{"name": name})
	case err != nil && !isNoRows(err):
		return err
	}
	return nil
}

func (s *LookupService) mapWriteError(err error) error {
	if apperrors.IsUniqueViolation(err) {
		return apperrors.NewConflict(string(s.Kind())+" already exists", nil)
	}
	return apperrors.MapError(err)
}
