package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/persistence"
)

// LookupRepository persists one of the id+name reference tables
// (categories, tags, facilities).
type LookupRepository interface {
	Kind() domain.LookupKind
	Create(ctx context.Context, item *domain.Lookup) error
	Update(ctx context.Context, item *domain.Lookup) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Lookup, error)
	GetByName(ctx context.Context, name string) (*domain.Lookup, error)
	List(ctx context.Context) ([]domain.Lookup, error)
}

type lookupTable struct {
	table    string
	idColumn string
}

var lookupTables = map[domain.LookupKind]lookupTable{
	domain.LookupCategory: {table: "categories", idColumn: "id_category"},
	domain.LookupTag:      {table: "tag", idColumn: "id_tag"},
	domain.LookupFacility: {table: "facilities", idColumn: "id_facility"},
}

type lookupRepository struct {
	pool  *pgxpool.Pool
	kind  domain.LookupKind
	table lookupTable
}

// NewLookupRepository builds the repository for kind. It panics on an
// unknown kind since that is a wiring error.
func NewLookupRepository(pool *pgxpool.Pool, kind domain.LookupKind) LookupRepository {
	table, ok := lookupTables[kind]
	if !ok {
		panic(fmt.Sprintf("unknown lookup kind %q", kind))
	}
	return &lookupRepository{pool: pool, kind: kind, table: table}
}

func (r *lookupRepository) Kind() domain.LookupKind {
	return r.kind
}

func (r *lookupRepository) Create(ctx context.Context, item *domain.Lookup) error {
	query := fmt.Sprintf(`INSERT INTO %s (name) VALUES ($1) RETURNING %s`, r.table.table, r.table.idColumn)
	return persistence.Conn(ctx, r.pool).QueryRow(ctx, query, item.Name).Scan(&item.ID)
}

func (r *lookupRepository) Update(ctx context.Context, item *domain.Lookup) error {
	query := fmt.Sprintf(`UPDATE %s SET name=$1 WHERE %s=$2`, r.table.table, r.table.idColumn)
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, item.Name, item.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *lookupRepository) Delete(ctx context.Context, id int64) error {
	query := fmt.Sprintf(`DELETE FROM %s WHERE %s=$1`, r.table.table, r.table.idColumn)
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *lookupRepository) GetByID(ctx context.Context, id int64) (*domain.Lookup, error) {
	query := fmt.Sprintf(`SELECT %s, name FROM %s WHERE %s=$1`, r.table.idColumn, r.table.table, r.table.idColumn)
	var item domain.Lookup
	if err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, id).Scan(&item.ID, &item.Name); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *lookupRepository) GetByName(ctx context.Context, name string) (*domain.Lookup, error) {
	query := fmt.Sprintf(`SELECT %s, name FROM %s WHERE name=$1`, r.table.idColumn, r.table.table)
	var item domain.Lookup
	if err := persistence.Conn(ctx, r.pool).QueryRow(ctx, query, name).Scan(&item.ID, &item.Name); err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *lookupRepository) List(ctx context.Context) ([]domain.Lookup, error) {
	query := fmt.Sprintf(`SELECT %s, name FROM %s ORDER BY %s`, r.table.idColumn, r.table.table, r.table.idColumn)
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Lookup
	for rows.Next() {
		var item domain.Lookup
		if err := rows.Scan(&item.ID, &item.Name); err != nil {
			return nil, err
		}
		result = append(result, item)
	}
	return result, rows.Err()
}
