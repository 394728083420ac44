package service

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5"

	apperrors "github.com/Lynx-thelearner/BE-Wisata/pkg/util/errorutil"
)

// TxRunner runs fn inside one database transaction, committing on nil and
// rolling back otherwise.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// notFound converts a missing row into a NotFound error for resource and
// passes other errors through the taxonomy mapping.
func notFound(err error, resource string) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, nil)
	}
	return apperrors.MapError(err)
}

func isNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

func required(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return apperrors.NewValidationError(field+" is required", map[string]any{"field": field})
	}
	return nil
}
