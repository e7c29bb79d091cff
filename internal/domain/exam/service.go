package exam

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/citotrack/citotrack/internal/domain/auditlog"
	"github.com/citotrack/citotrack/internal/domain/lab"
	"github.com/citotrack/citotrack/internal/domain/patient"
	"github.com/citotrack/citotrack/internal/domain/user"
	"github.com/citotrack/citotrack/internal/platform/auth"
	"github.com/citotrack/citotrack/internal/platform/whatsapp"
	"github.com/citotrack/citotrack/pkg/dateutil"
)

// TxRunner executes fn inside one transaction; every repository call
// made with fn's context joins it. The server wires db.WithTx here so
// a workflow mutation and its audit entry commit or roll back as one.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

type Service struct {
	exams    Repository
	audit    auditlog.Repository
	patients patient.Repository
	users    user.Repository
	labs     lab.Repository

	runTx      TxRunner
	clinicName string
	log        zerolog.Logger
	now        func() time.Time
}

func NewService(exams Repository, audit auditlog.Repository, patients patient.Repository, users user.Repository,
	labs lab.Repository, runTx TxRunner, clinicName string, logger zerolog.Logger) *Service {
	return &Service{
		exams:      exams,
		audit:      audit,
		patients:   patients,
		users:      users,
		labs:       labs,
		runTx:      runTx,
		clinicName: clinicName,
		log:        logger,
		now:        time.Now,
	}
}

// appendAudit writes a trail entry inside the current transaction. A
// failure here rolls back the data write too, but is additionally
// logged as its own event: a lost audit entry would be an untracked
// state change.
func (s *Service) appendAudit(ctx context.Context, e *auditlog.Entry) error {
	if err := s.audit.Append(ctx, e); err != nil {
		s.log.Error().Err(err).
			Str("exam_id", e.ExamID.String()).
			Str("kind", string(e.Kind)).
			Msg("audit write failed, rolling back data write")
		return fmt.Errorf("append audit entry: %w", err)
	}
	return nil
}

// -- Registration --

type RegisterInput struct {
	PatientID         uuid.UUID `json:"patient_id"`
	DoctorID          uuid.UUID `json:"doctor_id"`
	LabID             uuid.UUID `json:"lab_id"`
	CollectionDate    string    `json:"collection_date"`
	FlaskNumber       string    `json:"flask_number"`
	CytologyRequested bool      `json:"cytology_requested"`
	DNAHPVRequested   bool      `json:"dna_hpv_requested"`
	BiopsyRequested   bool      `json:"biopsy_requested"`
	InitialNotes      *string   `json:"initial_notes,omitempty"`
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// Register creates an exam at the intake status with its creation
// audit entry, in one transaction.
func (s *Service) Register(ctx context.Context, sess auth.Session, in RegisterInput) (*Exam, error) {
	if in.PatientID == uuid.Nil || in.DoctorID == uuid.Nil || in.LabID == uuid.Nil {
		return nil, fmt.Errorf("%w: patient, doctor and lab are required", ErrValidationFailed)
	}
	if strings.TrimSpace(in.FlaskNumber) == "" {
		return nil, fmt.Errorf("%w: flask number is required", ErrValidationFailed)
	}
	if !in.CytologyRequested && !in.DNAHPVRequested && !in.BiopsyRequested {
		return nil, fmt.Errorf("%w: at least one test must be requested", ErrValidationFailed)
	}
	collection, err := dateutil.ParseDay(in.CollectionDate)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid collection date", ErrValidationFailed)
	}

	now := s.now()
	e := &Exam{
		PatientID:         in.PatientID,
		DoctorID:          in.DoctorID,
		LabID:             in.LabID,
		CollectionDate:    collection,
		FlaskNumber:       strings.TrimSpace(in.FlaskNumber),
		CytologyRequested: in.CytologyRequested,
		DNAHPVRequested:   in.DNAHPVRequested,
		BiopsyRequested:   in.BiopsyRequested,
		InitialNotes:      in.InitialNotes,
		Status:            StatusSampleCollected,
		SampleCollectedAt: &now,
	}

	err = s.runTx(ctx, func(ctx context.Context) error {
		if err := s.exams.Create(ctx, e); err != nil {
			return fmt.Errorf("create exam: %w", err)
		}
		action := fmt.Sprintf("Exam created - Flask: %s | Cytology: %s | DNA-HPV: %s | Biopsy: %s",
			e.FlaskNumber, yesNo(e.CytologyRequested), yesNo(e.DNAHPVRequested), yesNo(e.BiopsyRequested))
		return s.appendAudit(ctx, &auditlog.Entry{
			ExamID:   e.ID,
			UserID:   &sess.UserID,
			UserName: sess.Name,
			Kind:     auditlog.KindExamCreated,
			Action:   action,
		})
	})
	if err != nil {
		return nil, err
	}
	return e, nil
}

// -- Workflow transitions --

// OpinionFields is the physician's interpretation set, carried by
// opinion saves/edits and by an advance into Medical Opinion Issued.
type OpinionFields struct {
	CytologyResult *string `json:"cytology_result,omitempty"`
	DNAHPVResult   *string `json:"dna_hpv_result,omitempty"`
	BiopsyResult   *string `json:"biopsy_result,omitempty"`
	OpinionNotes   *string `json:"opinion_notes,omitempty"`
	ReturnType     *string `json:"return_type,omitempty"`
}

type AdvanceInput struct {
	StageNote     string         `json:"stage_note,omitempty"`
	Opinion       *OpinionFields `json:"opinion,omitempty"`
	ContactMethod *string        `json:"contact_method,omitempty"`
}

func (s *Service) applyOpinion(e *Exam, f OpinionFields) {
	e.CytologyResult = f.CytologyResult
	e.DNAHPVResult = f.DNAHPVResult
	e.BiopsyResult = f.BiopsyResult
	e.OpinionNotes = f.OpinionNotes
	e.ReturnType = f.ReturnType

	// The projected date is derived state: it must track the return
	// type, including a change to one that projects nothing.
	e.NextConsultationDate = nil
	if f.ReturnType != nil {
		if d, ok := dateutil.ProjectReturn(e.CollectionDate, *f.ReturnType); ok {
			e.NextConsultationDate = &d
		}
	}
}

// Advance moves the exam to the next status in its effective list.
// Side effects by target: opinion fields persist with Medical Opinion
// Issued; contact method records with Patient Notified; an immediate
// return type cascades Patient Notified straight into the final
// status, stamping both stages in one operation.
func (s *Service) Advance(ctx context.Context, sess auth.Session, examID uuid.UUID, in AdvanceInput) (*Exam, error) {
	var out *Exam
	err := s.runTx(ctx, func(ctx context.Context) error {
		e, err := s.exams.GetByIDForUpdate(ctx, examID)
		if err != nil {
			return err
		}
		target, ok := NextStatus(e)
		if !ok {
			return fmt.Errorf("%w: no next status from %q", ErrTransitionDenied, e.Status)
		}
		if !roleAllowed(sess, e, target) {
			return fmt.Errorf("%w: role %s may not set %q", ErrTransitionDenied, sess.Role, target)
		}

		now := s.now()
		old := e.Status
		e.Status = target
		e.stampStage(target, now)

		if target == StatusOpinionIssued && in.Opinion != nil {
			s.applyOpinion(e, *in.Opinion)
		}
		cascaded := false
		if target == StatusPatientNotified {
			if in.ContactMethod != nil {
				e.ContactMethod = in.ContactMethod
			}
			if e.ReturnType != nil && *e.ReturnType == dateutil.ReturnImmediate {
				// No separate commercial step for immediate returns.
				e.Status = StatusCommercialNotified
				e.stampStage(StatusCommercialNotified, now)
				cascaded = true
			}
		}

		if err := s.exams.Update(ctx, e); err != nil {
			return fmt.Errorf("update exam: %w", err)
		}

		action := fmt.Sprintf("Status changed: %s → %s", old, target)
		var note *string
		if n := strings.TrimSpace(in.StageNote); n != "" {
			note = &n
			action += " - Note: " + n
		}
		if err := s.appendAudit(ctx, &auditlog.Entry{
			ExamID:     e.ID,
			UserID:     &sess.UserID,
			UserName:   sess.Name,
			Kind:       auditlog.KindStatusChange,
			FromStatus: &old,
			ToStatus:   &target,
			Action:     action,
			StageNote:  note,
		}); err != nil {
			return err
		}
		if cascaded {
			// The collapsed stage still gets its own entry, so every
			// stamped stage has a documenting record and an actor.
			from := StatusPatientNotified
			to := StatusCommercialNotified
			if err := s.appendAudit(ctx, &auditlog.Entry{
				ExamID:     e.ID,
				UserID:     &sess.UserID,
				UserName:   sess.Name,
				Kind:       auditlog.KindStatusChange,
				FromStatus: &from,
				ToStatus:   &to,
				Action:     fmt.Sprintf("Status changed: %s → %s", from, to),
			}); err != nil {
				return err
			}
		}
		out = e
		return nil
	})
	return out, err
}

// Revert moves the exam back to an earlier status. Justification is
// mandatory; stage timestamps are never cleared, so history survives
// the reversion.
func (s *Service) Revert(ctx context.Context, sess auth.Session, examID uuid.UUID, target, justification string) (*Exam, error) {
	justification = strings.TrimSpace(justification)
	if justification == "" {
		return nil, ErrJustificationRequired
	}

	var out *Exam
	err := s.runTx(ctx, func(ctx context.Context) error {
		e, err := s.exams.GetByIDForUpdate(ctx, examID)
		if err != nil {
			return err
		}
		cur := statusIndex(statusOrder, e.Status)
		tgt := statusIndex(statusOrder, target)
		if tgt < 0 || cur < 0 || tgt >= cur {
			return fmt.Errorf("%w: %q is not an earlier status than %q", ErrTransitionDenied, target, e.Status)
		}
		if !roleAllowed(sess, e, target) {
			return fmt.Errorf("%w: role %s may not set %q", ErrTransitionDenied, sess.Role, target)
		}

		old := e.Status
		e.Status = target
		if err := s.exams.Update(ctx, e); err != nil {
			return fmt.Errorf("update exam: %w", err)
		}

		if err := s.appendAudit(ctx, &auditlog.Entry{
			ExamID:        e.ID,
			UserID:        &sess.UserID,
			UserName:      sess.Name,
			Kind:          auditlog.KindStatusChange,
			FromStatus:    &old,
			ToStatus:      &target,
			Action:        fmt.Sprintf("Status changed: %s → %s", old, target),
			Justification: &justification,
		}); err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// -- Opinion save / edit --

// SaveOpinion records the physician's interpretation while the result
// is released but the opinion stage has not been advanced yet. It does
// not change status; the caller advances separately.
func (s *Service) SaveOpinion(ctx context.Context, sess auth.Session, examID uuid.UUID, f OpinionFields) (*Exam, error) {
	var out *Exam
	err := s.runTx(ctx, func(ctx context.Context) error {
		e, err := s.exams.GetByIDForUpdate(ctx, examID)
		if err != nil {
			return err
		}
		if e.Status != StatusResultReleased {
			return fmt.Errorf("%w: opinion can only be saved at %q", ErrTransitionDenied, StatusResultReleased)
		}
		if !canEditOpinion(sess, e) {
			return fmt.Errorf("%w: not the assigned physician", ErrTransitionDenied)
		}

		s.applyOpinion(e, f)
		if err := s.exams.Update(ctx, e); err != nil {
			return fmt.Errorf("update exam: %w", err)
		}

		snapshot, _ := json.Marshal(f)
		if err := s.appendAudit(ctx, &auditlog.Entry{
			ExamID:    e.ID,
			UserID:    &sess.UserID,
			UserName:  sess.Name,
			Kind:      auditlog.KindOpinionSaved,
			Action:    "Medical opinion saved",
			NewValues: snapshot,
		}); err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// EditOpinion changes an opinion after issuance. Justification is
// mandatory regardless of what changed; exams with at least one edit
// are flagged in history views.
func (s *Service) EditOpinion(ctx context.Context, sess auth.Session, examID uuid.UUID, f OpinionFields, justification string) (*Exam, error) {
	justification = strings.TrimSpace(justification)
	if justification == "" {
		return nil, fmt.Errorf("%w: justification is required to edit an issued opinion", ErrValidationFailed)
	}

	var out *Exam
	err := s.runTx(ctx, func(ctx context.Context) error {
		e, err := s.exams.GetByIDForUpdate(ctx, examID)
		if err != nil {
			return err
		}
		if !AtOrPast(e, StatusOpinionIssued) {
			return fmt.Errorf("%w: opinion has not been issued yet", ErrTransitionDenied)
		}
		if !canEditOpinion(sess, e) {
			return fmt.Errorf("%w: not the assigned physician", ErrTransitionDenied)
		}

		oldSnapshot, _ := json.Marshal(OpinionFields{
			CytologyResult: e.CytologyResult,
			DNAHPVResult:   e.DNAHPVResult,
			BiopsyResult:   e.BiopsyResult,
			OpinionNotes:   e.OpinionNotes,
			ReturnType:     e.ReturnType,
		})
		s.applyOpinion(e, f)
		if err := s.exams.Update(ctx, e); err != nil {
			return fmt.Errorf("update exam: %w", err)
		}

		newSnapshot, _ := json.Marshal(f)
		if err := s.appendAudit(ctx, &auditlog.Entry{
			ExamID:        e.ID,
			UserID:        &sess.UserID,
			UserName:      sess.Name,
			Kind:          auditlog.KindOpinionEdited,
			Action:        "Medical opinion edited",
			OldValues:     oldSnapshot,
			NewValues:     newSnapshot,
			Justification: &justification,
		}); err != nil {
			return err
		}
		out = e
		return nil
	})
	return out, err
}

// -- Reads --

func (s *Service) GetExam(ctx context.Context, id uuid.UUID) (*Exam, error) {
	return s.exams.GetByID(ctx, id)
}

// ListActive returns exams still in flight. Doctor sessions only see
// their own exams.
func (s *Service) ListActive(ctx context.Context, sess auth.Session, f ActiveFilter, limit, offset int) ([]*Exam, int, error) {
	if sess.Role == auth.RoleDoctor {
		f.DoctorID = &sess.UserID
	}
	return s.exams.ListActive(ctx, f, limit, offset)
}

func (s *Service) ListConcluded(ctx context.Context, limit, offset int) ([]*Exam, int, error) {
	return s.exams.ListConcluded(ctx, limit, offset)
}

// TimelineStage is one row of the per-exam timeline view.
type TimelineStage struct {
	Status      string     `json:"status"`
	ReachedAt   *time.Time `json:"reached_at,omitempty"`
	Responsible string     `json:"responsible"`
	Observation string     `json:"observation,omitempty"`
	Current     bool       `json:"current"`
}

// Timeline reconstructs who moved the exam through each stage and any
// note they left, from the audit trail.
func (s *Service) Timeline(ctx context.Context, examID uuid.UUID) ([]TimelineStage, error) {
	e, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}

	stamps := e.StageTimestamps()
	var stages []TimelineStage
	for _, status := range EffectiveStatuses(e) {
		st := TimelineStage{
			Status:      status,
			Responsible: auditlog.ResponsibleUser(entries, status, status == StatusSampleCollected),
			Observation: auditlog.StageObservation(entries, status, status == StatusSampleCollected),
			Current:     status == e.Status,
		}
		if ts, ok := stamps[status]; ok && !ts.IsZero() {
			t := ts
			st.ReachedAt = &t
		}
		stages = append(stages, st)
	}
	return stages, nil
}

// Trail is the raw audit history plus the compliance flags derived
// from it.
type Trail struct {
	Entries            []*auditlog.Entry `json:"entries"`
	OpinionEdited      bool              `json:"opinion_edited"`
	EditJustifications []string          `json:"edit_justifications,omitempty"`
	MissingStages      []string          `json:"missing_stages,omitempty"`
}

// AuditTrail returns the exam's full history. MissingStages is the
// trail-integrity check: stages whose timestamp is set but which no
// entry documents.
func (s *Service) AuditTrail(ctx context.Context, examID uuid.UUID) (*Trail, error) {
	e, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return nil, err
	}
	entries, err := s.audit.ListByExam(ctx, examID)
	if err != nil {
		return nil, err
	}
	missing := auditlog.VerifyTrail(e.StageTimestamps(), StatusSampleCollected, entries)
	if len(missing) > 0 {
		s.log.Error().
			Str("exam_id", examID.String()).
			Strs("missing_stages", missing).
			Msg("audit trail does not cover every stamped stage")
	}
	return &Trail{
		Entries:            entries,
		OpinionEdited:      auditlog.OpinionEdited(entries),
		EditJustifications: auditlog.EditJustifications(entries),
		MissingStages:      missing,
	}, nil
}

// NotificationLink composes the patient WhatsApp message and deep link
// for the acting user to open on their own device.
func (s *Service) NotificationLink(ctx context.Context, sess auth.Session, examID uuid.UUID) (string, error) {
	e, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return "", err
	}
	p, err := s.patients.GetByID(ctx, e.PatientID)
	if err != nil {
		return "", fmt.Errorf("%w: patient", ErrNotFound)
	}
	if p.Phone == nil || *p.Phone == "" {
		return "", fmt.Errorf("%w: patient has no phone on file", ErrValidationFailed)
	}
	doctor, err := s.users.GetByID(ctx, e.DoctorID)
	if err != nil {
		return "", fmt.Errorf("%w: doctor", ErrNotFound)
	}

	msg := whatsapp.ComposeResultNotice(whatsapp.ResultNotice{
		PatientName:   p.FullName,
		SecretaryName: sess.Name,
		DoctorName:    doctor.Name,
		ClinicName:    s.clinicName,
	})
	return whatsapp.Link(*p.Phone, msg)
}

// LabFollowUpLink builds a wa.me link nudging the lab about a specimen
// past its agreed turnaround, for use from SLA-breach rows.
func (s *Service) LabFollowUpLink(ctx context.Context, examID uuid.UUID) (string, error) {
	e, err := s.exams.GetByID(ctx, examID)
	if err != nil {
		return "", err
	}
	if e.LabCollectedAt == nil {
		return "", fmt.Errorf("%w: the lab has not collected this exam yet", ErrValidationFailed)
	}
	l, err := s.labs.GetByID(ctx, e.LabID)
	if err != nil {
		return "", fmt.Errorf("%w: lab", ErrNotFound)
	}
	if l.ContactPhone == nil || *l.ContactPhone == "" {
		return "", fmt.Errorf("%w: lab has no contact phone on file", ErrValidationFailed)
	}
	if l.SLADays == nil {
		return "", fmt.Errorf("%w: lab has no agreed turnaround on file", ErrValidationFailed)
	}
	p, err := s.patients.GetByID(ctx, e.PatientID)
	if err != nil {
		return "", fmt.Errorf("%w: patient", ErrNotFound)
	}

	msg := whatsapp.ComposeLabFollowUp(s.clinicName, p.FullName, e.FlaskNumber,
		dateutil.FormatBR(*e.LabCollectedAt), *l.SLADays)
	return whatsapp.Link(*l.ContactPhone, msg)
}
