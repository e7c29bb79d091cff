package patient

import (
	"time"

	"github.com/google/uuid"
)

// Patient is a reference entity: exams point at it, the dashboard shows
// its name, and the notification link uses its phone.
type Patient struct {
	ID        uuid.UUID  `json:"id"`
	FullName  string     `json:"full_name"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Phone     *string    `json:"phone,omitempty"`
	Email     *string    `json:"email,omitempty"`
	DoctorID  *uuid.UUID `json:"doctor_id,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}
