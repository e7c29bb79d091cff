package lab

import (
	"time"

	"github.com/google/uuid"
)

// Lab is the processing laboratory a specimen is sent to. SLADays is
// the contracted maximum processing time; labs without one configured
// are never evaluated for turnaround breaches.
type Lab struct {
	ID            uuid.UUID `json:"id"`
	Name          string    `json:"name"`
	ContactPerson *string   `json:"contact_person,omitempty"`
	ContactPhone  *string   `json:"contact_phone,omitempty"`
	ResultsLink   *string   `json:"results_link,omitempty"`
	SLADays       *int      `json:"sla_days,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
