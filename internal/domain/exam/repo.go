package exam

import (
	"context"

	"github.com/google/uuid"
)

// ActiveFilter narrows the active-exam list. DoctorID scopes the list
// to one physician's exams (applied automatically for doctor
// sessions); Status filters on one workflow status; Search matches the
// flask number.
type ActiveFilter struct {
	DoctorID *uuid.UUID
	Status   string
	Search   string
}

type Repository interface {
	Create(ctx context.Context, e *Exam) error
	GetByID(ctx context.Context, id uuid.UUID) (*Exam, error)
	// GetByIDForUpdate locks the row for the rest of the enclosing
	// transaction, serializing workflow mutations per exam.
	GetByIDForUpdate(ctx context.Context, id uuid.UUID) (*Exam, error)
	Update(ctx context.Context, e *Exam) error
	ListActive(ctx context.Context, f ActiveFilter, limit, offset int) ([]*Exam, int, error)
	ListConcluded(ctx context.Context, limit, offset int) ([]*Exam, int, error)
	// ListAll feeds the dashboard metrics engine, which works over the
	// full in-memory set.
	ListAll(ctx context.Context) ([]*Exam, error)
}
