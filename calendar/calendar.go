package calendar

import (
	"time"

	"github.com/meenmo/mcurve/utils"
)

// CalendarID identifies a holiday calendar.
type CalendarID string

const (
	TARGET   CalendarID = "TARGET"
	JPN      CalendarID = "JPN"
	USD      CalendarID = "USD"
	GBP      CalendarID = "GBP"
	KRW      CalendarID = "KRW"
	INR      CalendarID = "INR"
	Weekends CalendarID = "WEEKENDS"
)

// Calendar decides which dates are good business days.
type Calendar interface {
	Name() string
	IsBusinessDay(t time.Time) bool
}

// HolidayCalendar treats Saturdays, Sundays and an explicit holiday set as non-business days.
// It is immutable after New.
type HolidayCalendar struct {
	id       CalendarID
	holidays map[string]struct{}
}

// New builds a calendar from a list of holidays. Only the date part of each holiday is used.
func New(id CalendarID, holidays ...time.Time) *HolidayCalendar {
	set := make(map[string]struct{}, len(holidays))
	for _, h := range holidays {
		set[h.Format(time.DateOnly)] = struct{}{}
	}
	return &HolidayCalendar{id: id, holidays: set}
}

// WeekendsOnly returns a calendar without holidays.
func WeekendsOnly() *HolidayCalendar {
	return New(Weekends)
}

func (c *HolidayCalendar) Name() string {
	return string(c.id)
}

// ID returns the calendar identifier.
func (c *HolidayCalendar) ID() CalendarID {
	return c.id
}

// IsBusinessDay checks weekends and the holiday set.
func (c *HolidayCalendar) IsBusinessDay(t time.Time) bool {
	if t.Weekday() == time.Saturday || t.Weekday() == time.Sunday {
		return false
	}
	_, ok := c.holidays[t.Format(time.DateOnly)]
	return !ok
}

// Holidays returns the holiday dates in ascending order.
func (c *HolidayCalendar) Holidays() []time.Time {
	out := make([]time.Time, 0, len(c.holidays))
	for k := range c.holidays {
		t, err := time.Parse(time.DateOnly, k)
		if err != nil {
			continue
		}
		out = append(out, t)
	}
	utils.SortDates(out)
	return out
}

// BusinessDayConvention rolls a non-business day onto a business day.
type BusinessDayConvention string

const (
	Following         BusinessDayConvention = "FOLLOWING"
	ModifiedFollowing BusinessDayConvention = "MODIFIED_FOLLOWING"
	Preceding         BusinessDayConvention = "PRECEDING"
	ModifiedPreceding BusinessDayConvention = "MODIFIED_PRECEDING"
	NoAdjustment      BusinessDayConvention = "NONE"
)

// Adjust applies conv to t. Unknown conventions behave like ModifiedFollowing.
func Adjust(cal Calendar, t time.Time, conv BusinessDayConvention) time.Time {
	switch conv {
	case NoAdjustment:
		return t
	case Following:
		return AdjustFollowing(cal, t)
	case Preceding:
		return adjustPreceding(cal, t)
	case ModifiedPreceding:
		adj := adjustPreceding(cal, t)
		if adj.Month() != t.Month() {
			return AdjustFollowing(cal, t)
		}
		return adj
	default:
		adj := AdjustFollowing(cal, t)
		if adj.Month() != t.Month() {
			return adjustPreceding(cal, t)
		}
		return adj
	}
}

// AdjustFollowing applies a simple Following convention (no month preservation).
func AdjustFollowing(cal Calendar, t time.Time) time.Time {
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, 1)
	}
	return t
}

func adjustPreceding(cal Calendar, t time.Time) time.Time {
	for !cal.IsBusinessDay(t) {
		t = t.AddDate(0, 0, -1)
	}
	return t
}

// AddBusinessDays advances n business days (n can be negative).
func AddBusinessDays(cal Calendar, t time.Time, n int) time.Time {
	step := 1
	if n < 0 {
		step = -1
	}
	for n != 0 {
		t = t.AddDate(0, 0, step)
		if cal.IsBusinessDay(t) {
			n -= step
		}
	}
	return t
}

// AdjustedDate rolls t onto a business day in the direction of offset and then moves offset
// business days. A zero offset returns the first business day on or after t.
func AdjustedDate(cal Calendar, t time.Time, offset int) time.Time {
	if offset < 0 {
		return AddBusinessDays(cal, adjustPreceding(cal, t), offset)
	}
	return AddBusinessDays(cal, AdjustFollowing(cal, t), offset)
}

// LastBusinessDayOfMonth returns the last business day of the month containing t.
func LastBusinessDayOfMonth(cal Calendar, t time.Time) time.Time {
	nextMonth := time.Date(t.Year(), t.Month()+1, 1, 0, 0, 0, 0, t.Location())
	return AddBusinessDays(cal, nextMonth, -1)
}

// IsEndOfMonth checks if t is the last business day of its month.
func IsEndOfMonth(cal Calendar, t time.Time) bool {
	return sameDate(t, LastBusinessDayOfMonth(cal, t))
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
