package http

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
)

type stubUsers map[int64]*domain.User

func (s stubUsers) GetByID(_ context.Context, id int64) (*domain.User, error) {
	if u, ok := s[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}
