package auditlog

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Kind tags what an entry documents. Older rows predate the tag and
// carry an empty kind; readers fall back to parsing the action text.
type Kind string

const (
	KindExamCreated   Kind = "exam_created"
	KindStatusChange  Kind = "status_change"
	KindOpinionSaved  Kind = "opinion_saved"
	KindOpinionEdited Kind = "opinion_edited"
)

// Entry is one immutable record of a change on an exam. Entries are
// never updated or deleted; ordering by CreatedAt is the canonical
// history.
type Entry struct {
	ID            uuid.UUID       `json:"id"`
	ExamID        uuid.UUID       `json:"exam_id"`
	UserID        *uuid.UUID      `json:"user_id,omitempty"`
	UserName      string          `json:"user_name"`
	Kind          Kind            `json:"kind"`
	FromStatus    *string         `json:"from_status,omitempty"`
	ToStatus      *string         `json:"to_status,omitempty"`
	Action        string          `json:"action"`
	OldValues     json.RawMessage `json:"old_values,omitempty"`
	NewValues     json.RawMessage `json:"new_values,omitempty"`
	Justification *string         `json:"justification,omitempty"`
	StageNote     *string         `json:"stage_note,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
