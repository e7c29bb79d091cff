package exam

import (
	"time"

	"github.com/google/uuid"
)

// Workflow statuses, in progression order. The sixth only exists for
// exams whose return type is set and not immediate; see status.go.
const (
	StatusSampleCollected    = "Sample Collected"
	StatusLabCollected       = "Collected by Lab"
	StatusResultReleased     = "Result Released"
	StatusOpinionIssued      = "Medical Opinion Issued"
	StatusPatientNotified    = "Patient Notified"
	StatusCommercialNotified = "Next Consultation Communicated to Commercial"
)

// Cytology interpretations follow the Bethesda reporting categories.
var CytologyResults = []string{
	"Normal", "Inconclusive", "ASC-US", "ASC-H", "LSIL", "HSIL", "AGC", "Carcinoma",
}

var DNAHPVResults = []string{"NotPerformed", "Negative", "Positive"}

var BiopsyResults = []string{"Normal", "Abnormal", "NotPerformed"}

var ContactMethods = []string{"WhatsApp", "Phone", "Email"}

// Exam is one specimen's tracked workflow record. Reference ids and
// intake fields are immutable after registration; everything else
// changes only through the state machine or the opinion operations.
// Stage timestamps are never cleared, even on reversion.
type Exam struct {
	ID        uuid.UUID `json:"id"`
	PatientID uuid.UUID `json:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id"`
	LabID     uuid.UUID `json:"lab_id"`

	CollectionDate    time.Time `json:"collection_date"`
	FlaskNumber       string    `json:"flask_number"`
	CytologyRequested bool      `json:"cytology_requested"`
	DNAHPVRequested   bool      `json:"dna_hpv_requested"`
	BiopsyRequested   bool      `json:"biopsy_requested"`
	InitialNotes      *string   `json:"initial_notes,omitempty"`

	Status string `json:"status"`

	SampleCollectedAt    *time.Time `json:"sample_collected_at,omitempty"`
	LabCollectedAt       *time.Time `json:"lab_collected_at,omitempty"`
	ResultReleasedAt     *time.Time `json:"result_released_at,omitempty"`
	OpinionIssuedAt      *time.Time `json:"opinion_issued_at,omitempty"`
	PatientNotifiedAt    *time.Time `json:"patient_notified_at,omitempty"`
	CommercialNotifiedAt *time.Time `json:"commercial_notified_at,omitempty"`

	ContactMethod        *string    `json:"contact_method,omitempty"`
	CytologyResult       *string    `json:"cytology_result,omitempty"`
	DNAHPVResult         *string    `json:"dna_hpv_result,omitempty"`
	BiopsyResult         *string    `json:"biopsy_result,omitempty"`
	OpinionNotes         *string    `json:"opinion_notes,omitempty"`
	ReturnType           *string    `json:"return_type,omitempty"`
	NextConsultationDate *time.Time `json:"next_consultation_date,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// stampStage records the moment the exam entered status. Existing
// stamps are kept; re-entering a stage after a reversion does not
// rewrite history.
func (e *Exam) stampStage(status string, t time.Time) {
	set := func(field **time.Time) {
		if *field == nil {
			*field = &t
		}
	}
	switch status {
	case StatusSampleCollected:
		set(&e.SampleCollectedAt)
	case StatusLabCollected:
		set(&e.LabCollectedAt)
	case StatusResultReleased:
		set(&e.ResultReleasedAt)
	case StatusOpinionIssued:
		set(&e.OpinionIssuedAt)
	case StatusPatientNotified:
		set(&e.PatientNotifiedAt)
	case StatusCommercialNotified:
		set(&e.CommercialNotifiedAt)
	}
}

// StageTimestamps maps each status to its stamp, for trail
// verification. Unset stages carry a zero time.
func (e *Exam) StageTimestamps() map[string]time.Time {
	deref := func(t *time.Time) time.Time {
		if t == nil {
			return time.Time{}
		}
		return *t
	}
	return map[string]time.Time{
		StatusSampleCollected:    deref(e.SampleCollectedAt),
		StatusLabCollected:       deref(e.LabCollectedAt),
		StatusResultReleased:     deref(e.ResultReleasedAt),
		StatusOpinionIssued:      deref(e.OpinionIssuedAt),
		StatusPatientNotified:    deref(e.PatientNotifiedAt),
		StatusCommercialNotified: deref(e.CommercialNotifiedAt),
	}
}
