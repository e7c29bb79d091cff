package auditlog

import (
	"context"

	"github.com/google/uuid"
)

// Repository appends and reads trail entries. There is no update or
// delete on purpose.
type Repository interface {
	Append(ctx context.Context, e *Entry) error
	ListByExam(ctx context.Context, examID uuid.UUID) ([]*Entry, error)
}
