// Package dashboard derives scheduling and turnaround metrics from the
// current exam set. Everything here is a pure function over in-memory
// data with an explicit reference time, so every threshold is
// deterministic under test.
package dashboard

import (
	"sort"
	"time"

	"github.com/citotrack/citotrack/internal/domain/exam"
	"github.com/citotrack/citotrack/internal/domain/lab"
	"github.com/citotrack/citotrack/pkg/dateutil"
)

// WaitingTooLongDays is the number of whole days after result release
// at which an exam is flagged as waiting too long for its opinion.
const WaitingTooLongDays = 3

// DueSoonWindowDays bounds the "return due soon" highlight: projected
// consultation dates between today and today+30, inclusive.
const DueSoonWindowDays = 30

// DaysWaiting counts whole days since the result was released, never
// negative. Both endpoints are normalized to midnight so a result
// released late yesterday still counts one full day. Falls back to the
// record's update time when the release stamp is absent.
func DaysWaiting(e *exam.Exam, now time.Time) int {
	base := e.UpdatedAt
	if e.ResultReleasedAt != nil {
		base = *e.ResultReleasedAt
	}
	d := dateutil.DaysBetween(base, now)
	if d < 0 {
		return 0
	}
	return d
}

// WaitingTooLong flags exams whose opinion has been pending at or past
// the threshold.
func WaitingTooLong(e *exam.Exam, now time.Time) bool {
	return DaysWaiting(e, now) >= WaitingTooLongDays
}

// DaysInLab counts whole days since the lab collected the specimen.
func DaysInLab(e *exam.Exam, now time.Time) int {
	if e.LabCollectedAt == nil {
		return 0
	}
	return dateutil.DaysBetween(*e.LabCollectedAt, now)
}

// SLAStatus evaluates one exam against its lab's turnaround promise.
// qualified is false when the exam has no lab-collection stamp, is
// still at intake, or the lab has no SLA configured; unqualified exams
// are excluded from breach lists, not zero-scored.
func SLAStatus(e *exam.Exam, l *lab.Lab, now time.Time) (breach bool, daysOver int, qualified bool) {
	if e.LabCollectedAt == nil || e.Status == exam.StatusSampleCollected || l == nil || l.SLADays == nil {
		return false, 0, false
	}
	days := DaysInLab(e, now)
	over := days - *l.SLADays
	if over < 0 {
		over = 0
	}
	return days > *l.SLADays, over, true
}

// ReturnDueSoon reports whether a projected consultation date falls
// inside the due-soon window. It is a highlight, not a filter.
func ReturnDueSoon(date time.Time, now time.Time) bool {
	today := dateutil.MidnightUTC(now)
	day := dateutil.MidnightUTC(date)
	return !day.Before(today) && !day.After(today.AddDate(0, 0, DueSoonWindowDays))
}

// AwaitingOpinion lists exams sitting at Result Released, most recent
// release first.
func AwaitingOpinion(exams []*exam.Exam) []*exam.Exam {
	var out []*exam.Exam
	for _, e := range exams {
		if e.Status == exam.StatusResultReleased {
			out = append(out, e)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return releaseTime(out[i]).After(releaseTime(out[j]))
	})
	return out
}

func releaseTime(e *exam.Exam) time.Time {
	if e.ResultReleasedAt != nil {
		return *e.ResultReleasedAt
	}
	return e.UpdatedAt
}

// ReturnSchedule lists exams at Medical Opinion Issued with a non
// immediate return type and a projected date, soonest first.
func ReturnSchedule(exams []*exam.Exam) []*exam.Exam {
	var out []*exam.Exam
	for _, e := range exams {
		if e.Status != exam.StatusOpinionIssued {
			continue
		}
		if e.ReturnType == nil || *e.ReturnType == "" || *e.ReturnType == dateutil.ReturnImmediate {
			continue
		}
		if e.NextConsultationDate == nil {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].NextConsultationDate.Before(*out[j].NextConsultationDate)
	})
	return out
}

// SLABreach pairs a breaching exam with how far past the lab's promise
// it is.
type SLABreach struct {
	Exam     *exam.Exam `json:"exam"`
	DaysOver int        `json:"days_over"`
}

// SLABreaches lists qualifying exams past their lab's SLA, worst
// first.
func SLABreaches(exams []*exam.Exam, labs map[string]*lab.Lab, now time.Time) []SLABreach {
	var out []SLABreach
	for _, e := range exams {
		breach, over, qualified := SLAStatus(e, labs[e.LabID.String()], now)
		if qualified && breach {
			out = append(out, SLABreach{Exam: e, DaysOver: over})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DaysOver > out[j].DaysOver
	})
	return out
}

// StatusCounts tallies active exams per workflow status for the
// dashboard cards.
func StatusCounts(exams []*exam.Exam) map[string]int {
	counts := make(map[string]int)
	for _, e := range exams {
		counts[e.Status]++
	}
	return counts
}
