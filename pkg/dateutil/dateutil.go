// Package dateutil provides timezone-safe date formatting and
// return-interval projection for exam scheduling.
//
// Calendar dates stored without a time component are anchored at 12:00
// UTC before any formatting or arithmetic. Rendering a bare date in a
// local timezone west of UTC shifts it to the previous day; the noon
// anchor keeps the calendar day stable in every timezone the practice
// operates in.
package dateutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// DayFormat is the canonical persistence format for bare dates.
	DayFormat = "2006-01-02"
	// displayFormat is the pt-BR on-screen date format.
	displayFormat = "02/01/2006"
)

// Return-type tokens understood by the projection functions. They match
// the values persisted on the exam record.
const (
	ReturnImmediate = "Immediate"
	ReturnSixMonths = "6m"
	ReturnOneYear   = "1a"
	ReturnTwoYears  = "2a"
	ReturnOther     = "Other"
)

// Messages shown when no calendar date can be projected.
const (
	ImmediateReturnMessage = "IMMEDIATE RETURN REQUIRED"
	PerGuidanceMessage     = "Per medical guidance"
)

// NoonUTC returns the same calendar day as t, anchored at 12:00 UTC.
func NoonUTC(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

// ParseDay parses a stored date value. Bare YYYY-MM-DD values are
// anchored at noon UTC; values carrying a time component are parsed as
// RFC 3339 and left as-is.
func ParseDay(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, fmt.Errorf("empty date value")
	}
	if !strings.Contains(value, "T") {
		t, err := time.Parse(DayFormat, value)
		if err != nil {
			return time.Time{}, fmt.Errorf("parse date %q: %w", value, err)
		}
		return NoonUTC(t), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}

// FormatDay renders t as YYYY-MM-DD for persistence.
func FormatDay(t time.Time) string {
	return t.Format(DayFormat)
}

// FormatBR renders a date as dd/MM/yyyy. Zero dates render as "N/A".
func FormatBR(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return NoonUTC(t).Format(displayFormat)
}

// FormatDateTimeBR renders a full timestamp as "dd/MM/yyyy às HH:mm".
func FormatDateTimeBR(t time.Time) string {
	if t.IsZero() {
		return "N/A"
	}
	return t.Format("02/01/2006 às 15:04")
}

// ReturnMonths maps a return-type token to the number of calendar
// months to add to the collection date. The second result is false for
// tokens that do not project a date (Immediate, Other, unrecognized).
func ReturnMonths(returnType string) (int, bool) {
	switch returnType {
	case ReturnSixMonths:
		return 6, true
	case ReturnOneYear:
		return 12, true
	case ReturnTwoYears:
		return 24, true
	default:
		return 0, false
	}
}

// ProjectReturn computes the next-consultation date from the collection
// date and the return-type token. The base date is anchored at noon UTC
// and the interval is added with calendar-month semantics: the result
// is "the same day N months later". When the target month is shorter
// than the base day the date rolls forward into the following month
// (2024-01-31 + 1 month = 2024-03-02), matching time.AddDate
// normalization.
//
// The boolean result is false when the return type projects no date;
// both presentation helpers below derive from this single computation
// so the human string and the persisted value can never disagree.
func ProjectReturn(collection time.Time, returnType string) (time.Time, bool) {
	months, ok := ReturnMonths(returnType)
	if !ok || collection.IsZero() {
		return time.Time{}, false
	}
	return NoonUTC(collection).AddDate(0, months, 0), true
}

// ProjectReturnHuman returns the on-screen guidance text for the next
// consultation: an approximation of the projected date, the fixed
// urgent-return message for immediate returns, or the medical-guidance
// fallback when no date can be computed.
func ProjectReturnHuman(collection time.Time, returnType string) string {
	if returnType == "" || collection.IsZero() {
		return ""
	}
	if returnType == ReturnImmediate {
		return ImmediateReturnMessage
	}
	target, ok := ProjectReturn(collection, returnType)
	if !ok {
		return PerGuidanceMessage
	}
	return "Approximately: " + FormatBR(target)
}

// ProjectReturnDB returns the projected date as YYYY-MM-DD for
// persistence, or "" when the return type projects no date.
func ProjectReturnDB(collection time.Time, returnType string) string {
	target, ok := ProjectReturn(collection, returnType)
	if !ok {
		return ""
	}
	return FormatDay(target)
}

// MidnightUTC truncates t to 00:00 UTC of its calendar day. Day-count
// metrics normalize both endpoints to midnight before subtracting so a
// partial day never undercounts.
func MidnightUTC(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the number of whole calendar days from a to b,
// both normalized to midnight UTC. Negative when b precedes a.
func DaysBetween(a, b time.Time) int {
	return int(MidnightUTC(b).Sub(MidnightUTC(a)) / (24 * time.Hour))
}
