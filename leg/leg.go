// Package leg assembles arithmetic-average overnight legs from a payment schedule.
package leg

import (
	"fmt"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/coupon"
	"github.com/meenmo/mcurve/market"
	"github.com/meenmo/mcurve/timeseries"
	"github.com/meenmo/mcurve/utils"
)

// Params describes an overnight leg. Notional is unsigned; Payer makes it negative.
type Params struct {
	Settlement    time.Time
	End           time.Time
	Notional      float64
	Payer         bool
	Index         market.OvernightIndex
	PaymentLag    int
	Calendar      calendar.Calendar
	Convention    calendar.BusinessDayConvention
	PaymentPeriod calendar.Tenor
	EOM           bool
	Spread        float64
}

// Annuity is a fixed-length, ordered sequence of coupons.
type Annuity struct {
	payer   bool
	coupons []*coupon.ArithmeticAverageONDefinition
}

// Build rolls a schedule forward from p.Settlement by p.PaymentPeriod, keeping a short final
// stub, and creates one coupon per period.
func Build(p Params) (*Annuity, error) {
	if p.Calendar == nil {
		return nil, fmt.Errorf("leg.Build: %s: nil calendar", p.Index)
	}
	ends, err := calendar.AdjustedSchedule(p.Settlement, p.End, p.PaymentPeriod, p.Calendar, p.Convention, p.EOM)
	if err != nil {
		return nil, fmt.Errorf("leg.Build: %s: %w", p.Index, err)
	}

	notional := p.Notional
	if p.Payer {
		notional = -notional
	}
	a := &Annuity{payer: p.Payer, coupons: make([]*coupon.ArithmeticAverageONDefinition, 0, len(ends))}
	start := p.Settlement
	for i, end := range ends {
		cpn, err := coupon.NewArithmeticAverageON(p.Index, start, end, notional, p.PaymentLag, p.Spread, p.Calendar)
		if err != nil {
			return nil, fmt.Errorf("leg.Build: coupon %d: %w", i, err)
		}
		a.coupons = append(a.coupons, cpn)
		start = end
	}
	return a, nil
}

// Coupons returns the coupons in payment order.
func (a *Annuity) Coupons() []*coupon.ArithmeticAverageONDefinition {
	return append([]*coupon.ArithmeticAverageONDefinition(nil), a.coupons...)
}

func (a *Annuity) Len() int {
	return len(a.coupons)
}

func (a *Annuity) Payer() bool {
	return a.payer
}

// Resolve reduces every coupon not yet paid at valuation. It stops at the first coupon that
// cannot be resolved.
func (a *Annuity) Resolve(r *coupon.Resolver, valuation time.Time, series timeseries.Series) ([]coupon.Derivative, error) {
	valDate := utils.DateOf(valuation)
	out := make([]coupon.Derivative, 0, len(a.coupons))
	for i, cpn := range a.coupons {
		if valDate.After(utils.DateOf(cpn.PaymentDate())) {
			continue
		}
		d, err := r.Resolve(cpn, valuation, series)
		if err != nil {
			return nil, fmt.Errorf("Annuity.Resolve: coupon %d: %w", i, err)
		}
		out = append(out, d)
	}
	return out, nil
}
