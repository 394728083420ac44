package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Lynx-thelearner/BE-Wisata/internal/domain"
	"github.com/Lynx-thelearner/BE-Wisata/internal/persistence"
)

// WisataFilter narrows list queries.
type WisataFilter struct {
	Status     *domain.WisataStatus
	Descending bool
}

// WisataRepository persists the site row and its tag/facility joins.
type WisataRepository interface {
	Create(ctx context.Context, w *domain.Wisata) error
	Update(ctx context.Context, w *domain.Wisata) error
	Delete(ctx context.Context, id int64) error
	GetByID(ctx context.Context, id int64) (*domain.Wisata, error)
	GetForUpdate(ctx context.Context, id int64) (*domain.Wisata, error)
	List(ctx context.Context, filter WisataFilter) ([]domain.Wisata, error)
	ReplaceTags(ctx context.Context, wisataID int64, tagIDs []int64) error
	ReplaceFacilities(ctx context.Context, wisataID int64, facilityIDs []int64) error
	TagNames(ctx context.Context, wisataIDs []int64) (map[int64][]string, error)
	FacilityNames(ctx context.Context, wisataIDs []int64) (map[int64][]string, error)
}

type wisataRepository struct {
	pool *pgxpool.Pool
}

// NewWisataRepository returns a Postgres-backed implementation.
func NewWisataRepository(pool *pgxpool.Pool) WisataRepository {
	return &wisataRepository{pool: pool}
}

const wisataColumns = `id_wisata, nama_wisata, deskripsi, lokasi, ticket_price, open_time, close_time,
        status, category_id, created_at, updated_at`

func (r *wisataRepository) Create(ctx context.Context, w *domain.Wisata) error {
	const query = `
        INSERT INTO wisata (nama_wisata, deskripsi, lokasi, ticket_price, open_time, close_time, status, category_id)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING id_wisata, created_at, updated_at`

	return persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		w.Name,
		w.Description,
		w.Location,
		w.TicketPrice,
		w.OpenTime,
		w.CloseTime,
		string(w.Status),
		w.CategoryID,
	).Scan(&w.ID, &w.CreatedAt, &w.UpdatedAt)
}

func (r *wisataRepository) Update(ctx context.Context, w *domain.Wisata) error {
	const query = `
        UPDATE wisata SET nama_wisata=$1, deskripsi=$2, lokasi=$3, ticket_price=$4, open_time=$5,
            close_time=$6, status=$7, category_id=$8, updated_at=NOW()
        WHERE id_wisata=$9
        RETURNING updated_at`

	return persistence.Conn(ctx, r.pool).QueryRow(ctx, query,
		w.Name,
		w.Description,
		w.Location,
		w.TicketPrice,
		w.OpenTime,
		w.CloseTime,
		string(w.Status),
		w.CategoryID,
		w.ID,
	).Scan(&w.UpdatedAt)
}

func (r *wisataRepository) Delete(ctx context.Context, id int64) error {
	cmd, err := persistence.Conn(ctx, r.pool).Exec(ctx, `DELETE FROM wisata WHERE id_wisata=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *wisataRepository) GetByID(ctx context.Context, id int64) (*domain.Wisata, error) {
	query := `SELECT ` + wisataColumns + ` FROM wisata WHERE id_wisata=$1`
	var w domain.Wisata
	if err := scanWisata(persistence.Conn(ctx, r.pool).QueryRow(ctx, query, id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

// GetForUpdate locks the row for the rest of the surrounding transaction.
func (r *wisataRepository) GetForUpdate(ctx context.Context, id int64) (*domain.Wisata, error) {
	query := `SELECT ` + wisataColumns + ` FROM wisata WHERE id_wisata=$1 FOR UPDATE`
	var w domain.Wisata
	if err := scanWisata(persistence.Conn(ctx, r.pool).QueryRow(ctx, query, id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *wisataRepository) List(ctx context.Context, filter WisataFilter) ([]domain.Wisata, error) {
	query := `SELECT ` + wisataColumns + ` FROM wisata`
	var args []any
	if filter.Status != nil {
		query += ` WHERE status=$1`
		args = append(args, string(*filter.Status))
	}
	if filter.Descending {
		query += ` ORDER BY id_wisata DESC`
	} else {
		query += ` ORDER BY id_wisata ASC`
	}

	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.Wisata
	for rows.Next() {
		var w domain.Wisata
		if err := scanWisata(rows, &w); err != nil {
			return nil, err
		}
		result = append(result, w)
	}
	return result, rows.Err()
}

// ReplaceTags sets the tag membership to the existing subset of tagIDs.
func (r *wisataRepository) ReplaceTags(ctx context.Context, wisataID int64, tagIDs []int64) error {
	return r.replaceJoin(ctx, wisataID, tagIDs,
		`DELETE FROM wisata_tag WHERE id_wisata=$1`,
		`INSERT INTO wisata_tag (id_wisata, id_tag)
        SELECT $1, id_tag FROM tag WHERE id_tag = ANY($2)
        ON CONFLICT DO NOTHING`)
}

// ReplaceFacilities sets the facility membership to the existing subset of facilityIDs.
func (r *wisataRepository) ReplaceFacilities(ctx context.Context, wisataID int64, facilityIDs []int64) error {
	return r.replaceJoin(ctx, wisataID, facilityIDs,
		`DELETE FROM wisata_facilities WHERE id_wisata=$1`,
		`INSERT INTO wisata_facilities (id_wisata, id_facility)
        SELECT $1, id_facility FROM facilities WHERE id_facility = ANY($2)
        ON CONFLICT DO NOTHING`)
}

func (r *wisataRepository) replaceJoin(ctx context.Context, wisataID int64, ids []int64, deleteQuery, insertQuery string) error {
	conn := persistence.Conn(ctx, r.pool)
	if _, err := conn.Exec(ctx, deleteQuery, wisataID); err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	_, err := conn.Exec(ctx, insertQuery, wisataID, ids)
	return err
}

func (r *wisataRepository) TagNames(ctx context.Context, wisataIDs []int64) (map[int64][]string, error) {
	const query = `
        SELECT wt.id_wisata, t.name
        FROM wisata_tag wt
        JOIN tag t ON t.id_tag = wt.id_tag
        WHERE wt.id_wisata = ANY($1)
        ORDER BY wt.id_wisata, t.id_tag`
	return r.namesByWisata(ctx, query, wisataIDs)
}

func (r *wisataRepository) FacilityNames(ctx context.Context, wisataIDs []int64) (map[int64][]string, error) {
	const query = `
        SELECT wf.id_wisata, f.name
        FROM wisata_facilities wf
        JOIN facilities f ON f.id_facility = wf.id_facility
        WHERE wf.id_wisata = ANY($1)
        ORDER BY wf.id_wisata, f.id_facility`
	return r.namesByWisata(ctx, query, wisataIDs)
}

func (r *wisataRepository) namesByWisata(ctx context.Context, query string, wisataIDs []int64) (map[int64][]string, error) {
	result := make(map[int64][]string, len(wisataIDs))
	if len(wisataIDs) == 0 {
		return result, nil
	}
	rows, err := persistence.Conn(ctx, r.pool).Query(ctx, query, wisataIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			id   int64
			name string
		)
		if err := rows.Scan(&id, &name); err != nil {
			return nil, err
		}
		result[id] = append(result[id], name)
	}
	return result, rows.Err()
}

func scanWisata(row pgx.Row, w *domain.Wisata) error {
	var status string
	if err := row.Scan(
		&w.ID,
		&w.Name,
		&w.Description,
		&w.Location,
		&w.TicketPrice,
		&w.OpenTime,
		&w.CloseTime,
		&status,
		&w.CategoryID,
		&w.CreatedAt,
		&w.UpdatedAt,
	); err != nil {
		return err
	}
	w.Status = domain.WisataStatus(status)
	return nil
}
