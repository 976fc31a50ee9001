package calendar_test

import (
	"strings"
	"testing"
	"time"

	"github.com/meenmo/mcurve/calendar"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAdjustConventions(t *testing.T) {
	t.Parallel()

	cal := calendar.New(calendar.USD, date(2024, 7, 4))
	sat := date(2024, 8, 31)
	cases := []struct {
		conv calendar.BusinessDayConvention
		in   time.Time
		want time.Time
	}{
		{calendar.Following, sat, date(2024, 9, 2)},
		{calendar.ModifiedFollowing, sat, date(2024, 8, 30)},
		{calendar.Preceding, date(2024, 6, 1), date(2024, 5, 31)},
		{calendar.ModifiedPreceding, date(2024, 6, 1), date(2024, 6, 3)},
		{calendar.Following, date(2024, 7, 4), date(2024, 7, 5)},
		{calendar.NoAdjustment, sat, sat},
	}
	for _, tc := range cases {
		if got := calendar.Adjust(cal, tc.in, tc.conv); !got.Equal(tc.want) {
			t.Fatalf("Adjust(%s, %s) mismatch: got %s want %s", tc.in.Format(time.DateOnly), tc.conv,
				got.Format(time.DateOnly), tc.want.Format(time.DateOnly))
		}
	}
}

func TestAddBusinessDaysAndAdjustedDate(t *testing.T) {
	t.Parallel()

	cal := calendar.WeekendsOnly()
	fri := date(2024, 3, 8)
	if got := calendar.AddBusinessDays(cal, fri, 1); !got.Equal(date(2024, 3, 11)) {
		t.Fatalf("AddBusinessDays +1 mismatch: got %s", got.Format(time.DateOnly))
	}
	if got := calendar.AddBusinessDays(cal, date(2024, 3, 11), -1); !got.Equal(fri) {
		t.Fatalf("AddBusinessDays -1 mismatch: got %s", got.Format(time.DateOnly))
	}
	if got := calendar.AdjustedDate(cal, date(2024, 3, 9), 0); !got.Equal(date(2024, 3, 11)) {
		t.Fatalf("AdjustedDate 0 mismatch: got %s", got.Format(time.DateOnly))
	}
	if got := calendar.AdjustedDate(cal, date(2024, 3, 10), -1); !got.Equal(date(2024, 3, 7)) {
		t.Fatalf("AdjustedDate -1 mismatch: got %s", got.Format(time.DateOnly))
	}
}

func TestEndOfMonth(t *testing.T) {
	t.Parallel()

	cal := calendar.WeekendsOnly()
	if got := calendar.LastBusinessDayOfMonth(cal, date(2024, 8, 10)); !got.Equal(date(2024, 8, 30)) {
		t.Fatalf("LastBusinessDayOfMonth mismatch: got %s", got.Format(time.DateOnly))
	}
	if !calendar.IsEndOfMonth(cal, date(2024, 4, 30)) || calendar.IsEndOfMonth(cal, date(2024, 4, 29)) {
		t.Fatalf("IsEndOfMonth mismatch")
	}
}

func TestAdjustedScheduleEOM(t *testing.T) {
	t.Parallel()

	cal := calendar.WeekendsOnly()
	got, err := calendar.AdjustedSchedule(date(2024, 1, 31), date(2024, 5, 31), calendar.MustParseTenor("1M"), cal, calendar.ModifiedFollowing, true)
	if err != nil {
		t.Fatalf("AdjustedSchedule error: %v", err)
	}
	want := []time.Time{date(2024, 2, 29), date(2024, 3, 29), date(2024, 4, 30), date(2024, 5, 31)}
	if len(got) != len(want) {
		t.Fatalf("schedule length mismatch: got %d", len(got))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Fatalf("date %d mismatch: got %s want %s", i, got[i].Format(time.DateOnly), want[i].Format(time.DateOnly))
		}
	}

	if _, err := calendar.AdjustedSchedule(date(2024, 1, 31), date(2024, 1, 31), calendar.MustParseTenor("1M"), cal, calendar.Following, false); err == nil {
		t.Fatalf("expected error for empty schedule")
	}
}

func TestParseTenor(t *testing.T) {
	t.Parallel()

	cases := map[string]calendar.Tenor{
		"ON":  {N: 1, Unit: calendar.Day},
		"1w":  {N: 1, Unit: calendar.Week},
		"3M":  {N: 3, Unit: calendar.Month},
		"10Y": {N: 10, Unit: calendar.Year},
	}
	for in, want := range cases {
		got, err := calendar.ParseTenor(in)
		if err != nil || got != want {
			t.Fatalf("ParseTenor(%q) mismatch: got %v err %v", in, got, err)
		}
	}
	for _, bad := range []string{"", "3Q", "XM"} {
		if _, err := calendar.ParseTenor(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
	if m, ok := calendar.MustParseTenor("2Y").Months(); !ok || m != 24 {
		t.Fatalf("Months mismatch: got %d %v", m, ok)
	}
	if got := calendar.MustParseTenor("1M").AddTo(date(2024, 1, 31)); !got.Equal(date(2024, 2, 29)) {
		t.Fatalf("AddTo mismatch: got %s", got.Format(time.DateOnly))
	}
}

func TestLoadHolidays(t *testing.T) {
	t.Parallel()

	cals, err := calendar.LoadHolidays(strings.NewReader(`
calendars:
  USD: ["2024-07-04", "2024-12-25"]
`))
	if err != nil {
		t.Fatalf("LoadHolidays error: %v", err)
	}
	usd, ok := cals[calendar.USD]
	if !ok {
		t.Fatalf("missing USD calendar")
	}
	if usd.IsBusinessDay(date(2024, 7, 4)) || !usd.IsBusinessDay(date(2024, 7, 5)) {
		t.Fatalf("holiday set mismatch")
	}
	if hs := usd.Holidays(); len(hs) != 2 || !hs[0].Equal(date(2024, 7, 4)) {
		t.Fatalf("Holidays mismatch: %v", hs)
	}
	if _, err := calendar.LoadHolidays(strings.NewReader("calendars:\n  USD: [\"July 4\"]\n")); err == nil {
		t.Fatalf("expected error for malformed date")
	}
}
