package daycount_test

import (
	"math"
	"testing"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/daycount"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestYearFraction(t *testing.T) {
	t.Parallel()

	cases := []struct {
		conv       daycount.Convention
		start, end time.Time
		want       float64
	}{
		{daycount.Act360, date(2024, 1, 15), date(2024, 4, 15), 91.0 / 360},
		{daycount.Act365F, date(2024, 1, 15), date(2024, 4, 15), 91.0 / 365},
		{daycount.ActActISDA, date(2023, 12, 1), date(2024, 2, 1), 31.0/365 + 31.0/366},
		{daycount.Thirty360, date(2024, 1, 31), date(2024, 3, 31), 60.0 / 360},
		{daycount.ThirtyE360, date(2024, 1, 30), date(2024, 3, 31), 60.0 / 360},
		{daycount.Business252, date(2024, 3, 4), date(2024, 3, 11), 5.0 / 252},
	}
	for _, tc := range cases {
		got := tc.conv.YearFraction(tc.start, tc.end, calendar.WeekendsOnly())
		if math.Abs(got-tc.want) > 1e-12 {
			t.Fatalf("%s mismatch: got %.12f want %.12f", tc.conv, got, tc.want)
		}
	}
}

func TestParse(t *testing.T) {
	t.Parallel()

	for in, want := range map[string]daycount.Convention{
		"act/360":      daycount.Act360,
		"A365F":        daycount.Act365F,
		"ACT/ACT":      daycount.ActActISDA,
		"30U/360":      daycount.Thirty360,
		"BUSINESS/252": daycount.Business252,
	} {
		got, err := daycount.Parse(in)
		if err != nil || got != want {
			t.Fatalf("Parse(%q) mismatch: got %s err %v", in, got, err)
		}
	}
	if _, err := daycount.Parse("NL/365"); err == nil {
		t.Fatalf("expected error for unknown convention")
	}
}
