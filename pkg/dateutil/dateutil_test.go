package dateutil

import (
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestParseDay_BareDate(t *testing.T) {
	got, err := ParseDay("2024-03-15")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 12 || got.Location() != time.UTC {
		t.Errorf("expected noon UTC anchor, got %v", got)
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 15 {
		t.Errorf("wrong calendar day: %v", got)
	}
}

func TestParseDay_Timestamp(t *testing.T) {
	got, err := ParseDay("2024-03-15T08:30:00Z")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Hour() != 8 || got.Minute() != 30 {
		t.Errorf("timestamp should parse as-is, got %v", got)
	}
}

func TestParseDay_Empty(t *testing.T) {
	if _, err := ParseDay(""); err == nil {
		t.Error("expected error for empty value")
	}
}

func TestFormatBR(t *testing.T) {
	if got := FormatBR(day(2024, time.January, 5)); got != "05/01/2024" {
		t.Errorf("expected 05/01/2024, got %q", got)
	}
	if got := FormatBR(time.Time{}); got != "N/A" {
		t.Errorf("expected N/A for zero date, got %q", got)
	}
}

func TestFormatBR_NoOffByOne(t *testing.T) {
	// A bare date rendered in a timezone west of UTC must not shift to
	// the previous day.
	parsed, err := ParseDay("2024-07-01")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := FormatBR(parsed); got != "01/07/2024" {
		t.Errorf("expected 01/07/2024, got %q", got)
	}
}

func TestFormatDateTimeBR(t *testing.T) {
	ts := time.Date(2024, time.June, 2, 14, 45, 0, 0, time.UTC)
	if got := FormatDateTimeBR(ts); got != "02/06/2024 às 14:45" {
		t.Errorf("unexpected format: %q", got)
	}
}

func TestProjectReturn_Intervals(t *testing.T) {
	base := day(2024, time.March, 10)
	cases := []struct {
		returnType string
		want       time.Time
	}{
		{ReturnSixMonths, day(2024, time.September, 10)},
		{ReturnOneYear, day(2025, time.March, 10)},
		{ReturnTwoYears, day(2026, time.March, 10)},
	}
	for _, tc := range cases {
		got, ok := ProjectReturn(base, tc.returnType)
		if !ok {
			t.Fatalf("%s: expected a projected date", tc.returnType)
		}
		if !got.Equal(tc.want) {
			t.Errorf("%s: expected %v, got %v", tc.returnType, tc.want, got)
		}
	}
}

func TestProjectReturn_Day31Overflow(t *testing.T) {
	// Calendar-month addition rolls forward when the target month is
	// shorter: Jan 31 + 1 month lands on Mar 2 in a leap year. The
	// projection must produce a valid date, never an error.
	base := day(2024, time.January, 31)
	got, ok := ProjectReturn(base.AddDate(0, 0, 0), ReturnSixMonths)
	if !ok {
		t.Fatal("expected a projected date")
	}
	if got.Month() != time.July || got.Day() != 31 {
		t.Errorf("Jan 31 + 6 months should be Jul 31, got %v", got)
	}

	// Aug 31 + 6 months: February has no day 31, rolls into March.
	base = day(2023, time.August, 31)
	got, ok = ProjectReturn(base, ReturnSixMonths)
	if !ok {
		t.Fatal("expected a projected date")
	}
	if got.Year() != 2024 || got.Month() != time.March || got.Day() != 2 {
		t.Errorf("Aug 31 2023 + 6 months should roll to 2024-03-02, got %v", got)
	}
}

func TestProjectReturn_LeapYear(t *testing.T) {
	base := day(2024, time.February, 29)
	got, ok := ProjectReturn(base, ReturnOneYear)
	if !ok {
		t.Fatal("expected a projected date")
	}
	if got.Year() != 2025 || got.Month() != time.March || got.Day() != 1 {
		t.Errorf("Feb 29 + 12 months should roll to 2025-03-01, got %v", got)
	}
}

func TestProjectReturn_NoDate(t *testing.T) {
	base := day(2024, time.March, 10)
	for _, rt := range []string{ReturnImmediate, ReturnOther, "weekly", ""} {
		if _, ok := ProjectReturn(base, rt); ok {
			t.Errorf("%q: expected no projected date", rt)
		}
	}
}

func TestProjectReturnHuman(t *testing.T) {
	base := day(2024, time.March, 10)
	if got := ProjectReturnHuman(base, ReturnImmediate); got != ImmediateReturnMessage {
		t.Errorf("expected urgent message, got %q", got)
	}
	if got := ProjectReturnHuman(base, ReturnOther); got != PerGuidanceMessage {
		t.Errorf("expected guidance fallback, got %q", got)
	}
	if got := ProjectReturnHuman(base, ReturnSixMonths); got != "Approximately: 10/09/2024" {
		t.Errorf("unexpected human projection: %q", got)
	}
	if got := ProjectReturnHuman(time.Time{}, ReturnSixMonths); got != "" {
		t.Errorf("expected empty for zero base, got %q", got)
	}
}

func TestProjectionModesAgree(t *testing.T) {
	// The human string and the DB value must come from the same
	// computed date for every input.
	bases := []time.Time{
		day(2024, time.January, 31),
		day(2024, time.February, 29),
		day(2023, time.August, 31),
		day(2024, time.June, 15),
	}
	for _, base := range bases {
		for _, rt := range []string{ReturnSixMonths, ReturnOneYear, ReturnTwoYears} {
			target, ok := ProjectReturn(base, rt)
			if !ok {
				t.Fatalf("%v %s: expected projection", base, rt)
			}
			if got := ProjectReturnDB(base, rt); got != FormatDay(target) {
				t.Errorf("%v %s: DB value %q disagrees with %v", base, rt, got, target)
			}
			if got := ProjectReturnHuman(base, rt); got != "Approximately: "+FormatBR(target) {
				t.Errorf("%v %s: human value %q disagrees with %v", base, rt, got, target)
			}
		}
	}
}

func TestDaysBetween(t *testing.T) {
	a := time.Date(2024, time.March, 10, 23, 50, 0, 0, time.UTC)
	b := time.Date(2024, time.March, 13, 0, 5, 0, 0, time.UTC)
	if got := DaysBetween(a, b); got != 3 {
		t.Errorf("expected 3 whole days, got %d", got)
	}
	if got := DaysBetween(b, a); got != -3 {
		t.Errorf("expected -3, got %d", got)
	}
	if got := DaysBetween(a, a); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}
