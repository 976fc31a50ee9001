// Package daycount converts date pairs to year fractions.
package daycount

import (
	"fmt"
	"strings"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/utils"
)

// Convention names a day count basis.
type Convention string

const (
	Act360      Convention = "ACT/360"
	Act365F     Convention = "ACT/365F"
	Act365      Convention = "ACT/365"
	ActActISDA  Convention = "ACT/ACT ISDA"
	Thirty360   Convention = "30/360"
	ThirtyE360  Convention = "30E/360"
	Business252 Convention = "BUS/252"
)

// Parse resolves common spellings of a convention name.
func Parse(name string) (Convention, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "ACT/360", "A360", "ACTUAL/360":
		return Act360, nil
	case "ACT/365F", "ACT/365 FIXED", "A365F", "ACTUAL/365":
		return Act365F, nil
	case "ACT/365":
		return Act365, nil
	case "ACT/ACT", "ACT/ACT ISDA", "ACTUAL/ACTUAL ISDA":
		return ActActISDA, nil
	case "30/360", "30U/360", "30/360 US":
		return Thirty360, nil
	case "30E/360", "EUROBOND BASIS":
		return ThirtyE360, nil
	case "BUS/252", "BUSINESS/252":
		return Business252, nil
	default:
		return "", fmt.Errorf("daycount: unknown convention %q", name)
	}
}

// YearFraction computes the accrual between start and end. The calendar is only consulted by
// BUS/252 and may be nil otherwise.
func (c Convention) YearFraction(start, end time.Time, cal calendar.Calendar) float64 {
	switch c {
	case Act360:
		return utils.Days(start, end) / 360.0
	case Act365F, Act365:
		return utils.Days(start, end) / 365.0
	case ActActISDA:
		return actActISDA(start, end)
	case Thirty360:
		return thirty360(start, end, false)
	case ThirtyE360:
		return thirty360(start, end, true)
	case Business252:
		return business252(start, end, cal)
	default:
		return utils.Days(start, end) / 365.0
	}
}

func actActISDA(start, end time.Time) float64 {
	if end.Before(start) {
		return -actActISDA(end, start)
	}
	start, end = utils.DateOf(start), utils.DateOf(end)
	if start.Year() == end.Year() {
		return utils.Days(start, end) / daysInYear(start.Year())
	}
	firstYearEnd := time.Date(start.Year()+1, 1, 1, 0, 0, 0, 0, time.UTC)
	lastYearStart := time.Date(end.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
	yf := utils.Days(start, firstYearEnd) / daysInYear(start.Year())
	yf += float64(end.Year() - start.Year() - 1)
	yf += utils.Days(lastYearStart, end) / daysInYear(end.Year())
	return yf
}

func daysInYear(y int) float64 {
	if time.Date(y, 12, 31, 0, 0, 0, 0, time.UTC).YearDay() == 366 {
		return 366
	}
	return 365
}

// thirty360 implements 30/360 US bond basis, or 30E/360 (Eurobond basis) when european is set.
func thirty360(start, end time.Time, european bool) float64 {
	d1 := start.Day()
	d2 := end.Day()
	if european {
		if d1 > 30 {
			d1 = 30
		}
		if d2 > 30 {
			d2 = 30
		}
	} else {
		if d1 == 31 {
			d1 = 30
		}
		if d2 == 31 && d1 == 30 {
			d2 = 30
		}
	}
	y1, m1 := start.Year(), int(start.Month())
	y2, m2 := end.Year(), int(end.Month())
	return float64(360*(y2-y1)+30*(m2-m1)+(d2-d1)) / 360.0
}

// business252 counts business days in [start, end).
func business252(start, end time.Time, cal calendar.Calendar) float64 {
	if cal == nil {
		cal = calendar.WeekendsOnly()
	}
	sign := 1.0
	if end.Before(start) {
		start, end = end, start
		sign = -1
	}
	n := 0
	for d := utils.DateOf(start); d.Before(utils.DateOf(end)); d = d.AddDate(0, 0, 1) {
		if cal.IsBusinessDay(d) {
			n++
		}
	}
	return sign * float64(n) / 252.0
}
