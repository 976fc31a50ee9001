// Package coupon defines arithmetic-average overnight coupons and resolves them against
// historical fixings into fixed or partially fixed cash flows.
package coupon

import (
	"fmt"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/market"
)

// FixingPeriod is the daily observation schedule of an overnight coupon. Dates holds n+1
// boundaries for n sub-periods; sub-period i is fixed on Dates[i] and its value is published on
// PublicationDates[i].
type FixingPeriod struct {
	dates       []time.Time
	factors     []float64
	publication []time.Time
}

func newFixingPeriod(index market.OvernightIndex, start, end time.Time, cal calendar.Calendar) FixingPeriod {
	fp := FixingPeriod{dates: []time.Time{start}}
	for cur := start; cur.Before(end); {
		next := calendar.AdjustedDate(cal, cur, 1)
		fp.dates = append(fp.dates, next)
		fp.factors = append(fp.factors, index.DayCount.YearFraction(cur, next, cal))
		fp.publication = append(fp.publication, calendar.AddBusinessDays(cal, cur, index.PublicationLag))
		cur = next
	}
	return fp
}

// Len returns the number of sub-periods.
func (f FixingPeriod) Len() int {
	return len(f.factors)
}

func (f FixingPeriod) Dates() []time.Time {
	return append([]time.Time(nil), f.dates...)
}

func (f FixingPeriod) AccrualFactors() []float64 {
	return append([]float64(nil), f.factors...)
}

func (f FixingPeriod) PublicationDates() []time.Time {
	return append([]time.Time(nil), f.publication...)
}

// ArithmeticAverageONDefinition is a coupon paying the accrual-weighted sum of daily overnight
// fixings over its period plus a spread. It is immutable after construction.
type ArithmeticAverageONDefinition struct {
	index               market.OvernightIndex
	accrualStart        time.Time
	accrualEnd          time.Time
	paymentDate         time.Time
	paymentYearFraction float64
	notional            float64
	spread              float64
	fixing              FixingPeriod
}

// NewArithmeticAverageON builds a coupon fixing from start to end. The payment date is end moved
// by PublicationLag-1+paymentLag business days.
func NewArithmeticAverageON(index market.OvernightIndex, start, end time.Time, notional float64, paymentLag int, spread float64, cal calendar.Calendar) (*ArithmeticAverageONDefinition, error) {
	if cal == nil {
		return nil, fmt.Errorf("NewArithmeticAverageON: %s: nil calendar", index)
	}
	if !end.After(start) {
		return nil, fmt.Errorf("NewArithmeticAverageON: %s: end %s not after start %s",
			index, end.Format(time.DateOnly), start.Format(time.DateOnly))
	}
	return &ArithmeticAverageONDefinition{
		index:               index,
		accrualStart:        start,
		accrualEnd:          end,
		paymentDate:         calendar.AdjustedDate(cal, end, index.PublicationLag-1+paymentLag),
		paymentYearFraction: index.DayCount.YearFraction(start, end, cal),
		notional:            notional,
		spread:              spread,
		fixing:              newFixingPeriod(index, start, end, cal),
	}, nil
}

// ArithmeticAverageONFromTenor builds a coupon fixing from start over tenor. The end date is
// adjusted with conv, or rolled to the month end when eom is set and start is a month end.
func ArithmeticAverageONFromTenor(index market.OvernightIndex, start time.Time, tenor calendar.Tenor, notional float64, paymentLag int, spread float64,
	conv calendar.BusinessDayConvention, eom bool, cal calendar.Calendar) (*ArithmeticAverageONDefinition, error) {
	if cal == nil {
		return nil, fmt.Errorf("ArithmeticAverageONFromTenor: %s: nil calendar", index)
	}
	end := tenor.AddTo(start)
	if _, monthly := tenor.Months(); eom && monthly && calendar.IsEndOfMonth(cal, start) {
		end = calendar.LastBusinessDayOfMonth(cal, end)
	} else {
		end = calendar.Adjust(cal, end, conv)
	}
	return NewArithmeticAverageON(index, start, end, notional, paymentLag, spread, cal)
}

func (d *ArithmeticAverageONDefinition) Index() market.OvernightIndex { return d.index }
func (d *ArithmeticAverageONDefinition) Currency() market.Currency    { return d.index.Currency }
func (d *ArithmeticAverageONDefinition) AccrualStart() time.Time      { return d.accrualStart }
func (d *ArithmeticAverageONDefinition) AccrualEnd() time.Time        { return d.accrualEnd }
func (d *ArithmeticAverageONDefinition) PaymentDate() time.Time       { return d.paymentDate }
func (d *ArithmeticAverageONDefinition) PaymentYearFraction() float64 { return d.paymentYearFraction }
func (d *ArithmeticAverageONDefinition) Notional() float64            { return d.notional }
func (d *ArithmeticAverageONDefinition) Spread() float64              { return d.spread }
func (d *ArithmeticAverageONDefinition) FixingPeriod() FixingPeriod   { return d.fixing }
