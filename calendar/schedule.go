package calendar

import (
	"fmt"
	"time"
)

// AdjustedSchedule returns the adjusted period end dates of a schedule rolling forward from start
// by period. The first date is start+period and the last is end; a short final stub is kept when
// end does not fall on the regular grid. With eom set and start on the last business day of its
// month, every month-based date is moved to the last business day of its month.
//
// Regular dates are computed from start (start + k*period) to avoid drift from repeated rolls.
func AdjustedSchedule(start, end time.Time, period Tenor, cal Calendar, conv BusinessDayConvention, eom bool) ([]time.Time, error) {
	if !end.After(start) {
		return nil, fmt.Errorf("AdjustedSchedule: end %s not after start %s", end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	if period.N <= 0 {
		return nil, fmt.Errorf("AdjustedSchedule: non-positive period %s", period)
	}

	_, monthly := period.Months()
	rollEOM := eom && monthly && IsEndOfMonth(cal, start)

	unadjusted := make([]time.Time, 0, 16)
	for k := 1; ; k++ {
		d := period.Times(k).AddTo(start)
		if !d.Before(end) {
			break
		}
		unadjusted = append(unadjusted, d)
	}
	unadjusted = append(unadjusted, end)

	dates := make([]time.Time, 0, len(unadjusted))
	for i, d := range unadjusted {
		var adj time.Time
		if rollEOM && i < len(unadjusted)-1 {
			adj = LastBusinessDayOfMonth(cal, d)
		} else {
			adj = Adjust(cal, d, conv)
		}
		// Adjustment can collapse a short stub onto the previous date.
		if n := len(dates); n > 0 && !adj.After(dates[n-1]) {
			dates[n-1] = adj
			continue
		}
		dates = append(dates, adj)
	}
	return dates, nil
}
