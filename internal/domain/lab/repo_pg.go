package lab

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/citotrack/citotrack/internal/platform/db"
)

type queryable interface {
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
	Exec(ctx context.Context, sql string, args ...interface{}) (pgconn.CommandTag, error)
}

type labRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &labRepoPG{pool: pool}
}

func (r *labRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const labCols = `id, name, contact_person, contact_phone, results_link, sla_days, created_at, updated_at`

func (r *labRepoPG) scanLab(row pgx.Row) (*Lab, error) {
	var l Lab
	err := row.Scan(&l.ID, &l.Name, &l.ContactPerson, &l.ContactPhone, &l.ResultsLink, &l.SLADays, &l.CreatedAt, &l.UpdatedAt)
	return &l, err
}

func (r *labRepoPG) Create(ctx context.Context, l *Lab) error {
	l.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO labs (id, name, contact_person, contact_phone, results_link, sla_days)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		l.ID, l.Name, l.ContactPerson, l.ContactPhone, l.ResultsLink, l.SLADays)
	return err
}

func (r *labRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Lab, error) {
	return r.scanLab(r.conn(ctx).QueryRow(ctx, `SELECT `+labCols+` FROM labs WHERE id = $1`, id))
}

func (r *labRepoPG) Update(ctx context.Context, l *Lab) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE labs SET name=$2, contact_person=$3, contact_phone=$4, results_link=$5, sla_days=$6, updated_at=NOW()
		WHERE id = $1`,
		l.ID, l.Name, l.ContactPerson, l.ContactPhone, l.ResultsLink, l.SLADays)
	return err
}

func (r *labRepoPG) List(ctx context.Context, limit, offset int) ([]*Lab, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM labs`).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+labCols+` FROM labs ORDER BY name ASC LIMIT $1 OFFSET $2`, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	var items []*Lab
	for rows.Next() {
		l, err := r.scanLab(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, l)
	}
	return items, total, nil
}
