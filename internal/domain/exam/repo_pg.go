package exam

import (
	"context"
	"errors"
	"fmt"

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

type examRepoPG struct{ pool *pgxpool.Pool }

func NewRepoPG(pool *pgxpool.Pool) Repository {
	return &examRepoPG{pool: pool}
}

func (r *examRepoPG) conn(ctx context.Context) queryable {
	if tx := db.TxFromContext(ctx); tx != nil {
		return tx
	}
	return r.pool
}

const examCols = `id, patient_id, doctor_id, lab_id,
	collection_date, flask_number, cytology_requested, dna_hpv_requested, biopsy_requested, initial_notes,
	status,
	sample_collected_at, lab_collected_at, result_released_at, opinion_issued_at, patient_notified_at, commercial_notified_at,
	contact_method, cytology_result, dna_hpv_result, biopsy_result, opinion_notes, return_type, next_consultation_date,
	created_at, updated_at`

func (r *examRepoPG) scanExam(row pgx.Row) (*Exam, error) {
	var e Exam
	err := row.Scan(&e.ID, &e.PatientID, &e.DoctorID, &e.LabID,
		&e.CollectionDate, &e.FlaskNumber, &e.CytologyRequested, &e.DNAHPVRequested, &e.BiopsyRequested, &e.InitialNotes,
		&e.Status,
		&e.SampleCollectedAt, &e.LabCollectedAt, &e.ResultReleasedAt, &e.OpinionIssuedAt, &e.PatientNotifiedAt, &e.CommercialNotifiedAt,
		&e.ContactMethod, &e.CytologyResult, &e.DNAHPVResult, &e.BiopsyResult, &e.OpinionNotes, &e.ReturnType, &e.NextConsultationDate,
		&e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	return &e, err
}

func (r *examRepoPG) Create(ctx context.Context, e *Exam) error {
	e.ID = uuid.New()
	_, err := r.conn(ctx).Exec(ctx, `
		INSERT INTO exams (id, patient_id, doctor_id, lab_id,
			collection_date, flask_number, cytology_requested, dna_hpv_requested, biopsy_requested, initial_notes,
			status, sample_collected_at)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		e.ID, e.PatientID, e.DoctorID, e.LabID,
		e.CollectionDate, e.FlaskNumber, e.CytologyRequested, e.DNAHPVRequested, e.BiopsyRequested, e.InitialNotes,
		e.Status, e.SampleCollectedAt)
	return err
}

func (r *examRepoPG) GetByID(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return r.scanExam(r.conn(ctx).QueryRow(ctx, `SELECT `+examCols+` FROM exams WHERE id = $1`, id))
}

func (r *examRepoPG) GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return r.scanExam(r.conn(ctx).QueryRow(ctx, `SELECT `+examCols+` FROM exams WHERE id = $1 FOR UPDATE`, id))
}

func (r *examRepoPG) Update(ctx context.Context, e *Exam) error {
	_, err := r.conn(ctx).Exec(ctx, `
		UPDATE exams SET status=$2,
			sample_collected_at=$3, lab_collected_at=$4, result_released_at=$5,
			opinion_issued_at=$6, patient_notified_at=$7, commercial_notified_at=$8,
			contact_method=$9, cytology_result=$10, dna_hpv_result=$11, biopsy_result=$12,
			opinion_notes=$13, return_type=$14, next_consultation_date=$15,
			updated_at=NOW()
		WHERE id = $1`,
		e.ID, e.Status,
		e.SampleCollectedAt, e.LabCollectedAt, e.ResultReleasedAt,
		e.OpinionIssuedAt, e.PatientNotifiedAt, e.CommercialNotifiedAt,
		e.ContactMethod, e.CytologyResult, e.DNAHPVResult, e.BiopsyResult,
		e.OpinionNotes, e.ReturnType, e.NextConsultationDate)
	return err
}

func (r *examRepoPG) ListActive(ctx context.Context, f ActiveFilter, limit, offset int) ([]*Exam, int, error) {
	where := `WHERE status <> $1`
	args := []interface{}{StatusCommercialNotified}
	if f.DoctorID != nil {
		args = append(args, *f.DoctorID)
		where += fmt.Sprintf(` AND doctor_id = $%d`, len(args))
	}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(` AND status = $%d`, len(args))
	}
	if f.Search != "" {
		args = append(args, f.Search)
		where += fmt.Sprintf(` AND flask_number ILIKE '%%' || $%d || '%%'`, len(args))
	}

	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM exams `+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	listSQL := fmt.Sprintf(`SELECT `+examCols+` FROM exams `+where+
		` ORDER BY updated_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	rows, err := r.conn(ctx).Query(ctx, listSQL, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *examRepoPG) ListConcluded(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	var total int
	if err := r.conn(ctx).QueryRow(ctx, `SELECT COUNT(*) FROM exams WHERE status = $1`, StatusCommercialNotified).Scan(&total); err != nil {
		return nil, 0, err
	}
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+examCols+` FROM exams WHERE status = $1 ORDER BY commercial_notified_at DESC NULLS LAST LIMIT $2 OFFSET $3`,
		StatusCommercialNotified, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()
	return r.collect(rows, total)
}

func (r *examRepoPG) ListAll(ctx context.Context) ([]*Exam, error) {
	rows, err := r.conn(ctx).Query(ctx, `SELECT `+examCols+` FROM exams ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	items, _, err := r.collect(rows, 0)
	return items, err
}

func (r *examRepoPG) collect(rows pgx.Rows, total int) ([]*Exam, int, error) {
	var items []*Exam
	for rows.Next() {
		e, err := r.scanExam(rows)
		if err != nil {
			return nil, 0, err
		}
		items = append(items, e)
	}
	return items, total, rows.Err()
}
