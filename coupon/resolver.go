package coupon

import (
	"fmt"
	"time"

	"github.com/meenmo/mcurve/failure"
	"github.com/meenmo/mcurve/timeseries"
	"github.com/meenmo/mcurve/utils"
)

// DefaultLookbackDays is how far back a missing fixing is carried forward from.
const DefaultLookbackDays = 7

// State is how much of a coupon is known at a valuation date.
type State int

const (
	AllProjected State = iota
	PartiallyFixed
	AllFixed
)

func (s State) String() string {
	switch s {
	case AllProjected:
		return "AllProjected"
	case PartiallyFixed:
		return "PartiallyFixed"
	case AllFixed:
		return "AllFixed"
	default:
		return "Unknown"
	}
}

// FixingError names the fixing that could not be found.
type FixingError struct {
	Index  string
	Date   time.Time
	Latest time.Time
	Err    error
}

func (e *FixingError) Error() string {
	if e.Latest.IsZero() {
		return fmt.Sprintf("%s fixing on %s: %v", e.Index, e.Date.Format(time.DateOnly), e.Err)
	}
	return fmt.Sprintf("%s fixing on %s (last available %s): %v",
		e.Index, e.Date.Format(time.DateOnly), e.Latest.Format(time.DateOnly), e.Err)
}

func (e *FixingError) Unwrap() error {
	return e.Err
}

// Resolver turns coupon definitions into derivatives at a valuation time.
//
// LookbackDays bounds the calendar days searched backwards for a fixing missing inside the
// series. Zero means DefaultLookbackDays and a negative value disables the search.
type Resolver struct {
	LookbackDays int
}

func (r *Resolver) lookback() int {
	switch {
	case r == nil || r.LookbackDays == 0:
		return DefaultLookbackDays
	case r.LookbackDays < 0:
		return 0
	default:
		return r.LookbackDays
	}
}

// Project reduces def as if no fixing were known.
func (r *Resolver) Project(def *ArithmeticAverageONDefinition, valuation time.Time) *ArithmeticAverageON {
	return def.remaining(valuation, 0, 0)
}

// Resolve reduces def at valuation, using series for every sub-period published before the
// valuation date. It returns a *Fixed once every sub-period is known and an
// *ArithmeticAverageON otherwise.
func (r *Resolver) Resolve(def *ArithmeticAverageONDefinition, valuation time.Time, series timeseries.Series) (Derivative, error) {
	d, _, err := r.resolve(def, valuation, series)
	return d, err
}

// State reports how many sub-periods of def are fixed at valuation.
func (r *Resolver) State(def *ArithmeticAverageONDefinition, valuation time.Time, series timeseries.Series) (State, error) {
	_, fixed, err := r.resolve(def, valuation, series)
	if err != nil {
		return AllProjected, err
	}
	switch fixed {
	case 0:
		return AllProjected, nil
	case def.fixing.Len():
		return AllFixed, nil
	default:
		return PartiallyFixed, nil
	}
}

func (r *Resolver) resolve(def *ArithmeticAverageONDefinition, valuation time.Time, series timeseries.Series) (Derivative, int, error) {
	valDate := utils.DateOf(valuation)
	if valDate.After(utils.DateOf(def.paymentDate)) {
		return nil, 0, fmt.Errorf("coupon.Resolve: %s: %w: valuation %s, payment %s", def.index, failure.ErrStaleValuation,
			valDate.Format(time.DateOnly), def.paymentDate.Format(time.DateOnly))
	}

	fp := def.fixing
	n := fp.Len()
	if n == 0 || valDate.Before(utils.DateOf(fp.publication[0])) {
		return r.Project(def, valuation), 0, nil
	}

	// Without a series nothing has fixed, the same as a series ending before the first date.
	if series == nil {
		return nil, 0, &FixingError{Index: def.index.Name, Date: fp.dates[0], Err: failure.ErrFixingSeriesExhausted}
	}

	fixed := 0
	accrued := 0.0
	for fixed < n && valDate.After(utils.DateOf(fp.publication[fixed])) {
		rate, err := r.fixing(def, series, fp.dates[fixed])
		if err != nil {
			return nil, 0, err
		}
		accrued += fp.factors[fixed] * rate
		fixed++
	}

	// A fixing published by the valuation date for the current sub-period counts as known.
	if fixed < n && !utils.DateOf(fp.dates[fixed]).After(valDate) {
		if rate, ok := series.ValueOn(fp.dates[fixed]); ok {
			accrued += fp.factors[fixed] * rate
			fixed++
		}
	}

	if fixed == n {
		return &Fixed{
			Ccy:                 def.index.Currency,
			PaymentDate:         def.paymentDate,
			Payment:             utils.TimeBetween(valuation, def.paymentDate),
			PaymentYearFraction: def.paymentYearFraction,
			Notional:            def.notional,
			Rate:                accrued/def.paymentYearFraction + def.spread,
		}, fixed, nil
	}
	return def.remaining(valuation, fixed, accrued), fixed, nil
}

// fixing looks up the value fixed on date, carrying forward from up to lookback days earlier when
// date lies inside the series.
func (r *Resolver) fixing(def *ArithmeticAverageONDefinition, series timeseries.Series, date time.Time) (float64, error) {
	if v, ok := series.ValueOn(date); ok {
		return v, nil
	}
	latest, ok := series.LatestDate()
	if !ok || utils.DateOf(date).After(utils.DateOf(latest)) {
		return 0, &FixingError{Index: def.index.Name, Date: date, Latest: latest, Err: failure.ErrFixingSeriesExhausted}
	}
	for k := 1; k <= r.lookback(); k++ {
		if v, ok := series.ValueOn(date.AddDate(0, 0, -k)); ok {
			return v, nil
		}
	}
	return 0, &FixingError{Index: def.index.Name, Date: date, Latest: latest, Err: failure.ErrMissingFixing}
}

func (d *ArithmeticAverageONDefinition) remaining(valuation time.Time, fixed int, accrued float64) *ArithmeticAverageON {
	fp := d.fixing
	n := fp.Len()
	return &ArithmeticAverageON{
		Index:               d.index,
		PaymentDate:         d.paymentDate,
		Payment:             utils.TimeBetween(valuation, d.paymentDate),
		PaymentYearFraction: d.paymentYearFraction,
		Notional:            d.notional,
		StartTimes:          utils.TimesBetween(valuation, fp.dates[fixed:n]),
		AccrualFactors:      append([]float64(nil), fp.factors[fixed:]...),
		EndTime:             utils.TimeBetween(valuation, fp.dates[n]),
		AccruedRate:         accrued,
		Spread:              d.spread,
	}
}
