package auditlog

import (
	"strings"
	"time"
)

// SystemActor is the attribution used when no entry matches a stage.
const SystemActor = "System"

const noteMarker = " - Note: "

// matchStage finds the entry documenting how an exam reached status.
// Structured fields are checked first; rows written before the kind
// column existed are matched on the action text.
func matchStage(entries []*Entry, status string, isFirst bool) *Entry {
	for _, e := range entries {
		switch {
		case e.Kind == KindStatusChange && e.ToStatus != nil && *e.ToStatus == status:
			return e
		case isFirst && e.Kind == KindExamCreated:
			return e
		case e.Kind == "" && strings.Contains(e.Action, "→ "+status):
			return e
		case isFirst && e.Kind == "" && strings.Contains(e.Action, "created"):
			return e
		}
	}
	return nil
}

// ResponsibleUser returns the display name of whoever moved the exam
// into status, or SystemActor when the trail has no matching entry.
// isFirst marks the intake status, which is documented by the creation
// entry rather than a transition.
func ResponsibleUser(entries []*Entry, status string, isFirst bool) string {
	e := matchStage(entries, status, isFirst)
	if e == nil || e.UserName == "" {
		return SystemActor
	}
	return e.UserName
}

// StageObservation returns the free-text note recorded with the entry
// that put the exam into status. The structured field wins; the text
// suffix and the justification are fallbacks for older rows.
func StageObservation(entries []*Entry, status string, isFirst bool) string {
	e := matchStage(entries, status, isFirst)
	if e == nil {
		return ""
	}
	if e.StageNote != nil && *e.StageNote != "" {
		return *e.StageNote
	}
	if i := strings.Index(e.Action, noteMarker); i >= 0 {
		return e.Action[i+len(noteMarker):]
	}
	if e.Justification != nil {
		return *e.Justification
	}
	return ""
}

// OpinionEdited reports whether the trail contains at least one
// opinion edit. Exams flagged this way must surface every edit's
// justification in history views.
func OpinionEdited(entries []*Entry) bool {
	for _, e := range entries {
		if e.Kind == KindOpinionEdited {
			return true
		}
		if e.Kind == "" && strings.Contains(e.Action, "opinion edited") {
			return true
		}
	}
	return false
}

// EditJustifications collects the justification of every opinion edit
// in trail order.
func EditJustifications(entries []*Entry) []string {
	var out []string
	for _, e := range entries {
		if e.Kind == KindOpinionEdited && e.Justification != nil {
			out = append(out, *e.Justification)
		}
	}
	return out
}

// VerifyTrail cross-checks stage timestamps against the trail and
// returns the statuses whose timestamp is set but which no entry
// documents. A non-empty result means a data write once succeeded
// while its audit write was lost, and the trail needs repair.
func VerifyTrail(stamps map[string]time.Time, firstStatus string, entries []*Entry) []string {
	var missing []string
	for status, ts := range stamps {
		if ts.IsZero() {
			continue
		}
		if matchStage(entries, status, status == firstStatus) == nil {
			missing = append(missing, status)
		}
	}
	return missing
}
