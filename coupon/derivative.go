package coupon

import (
	"time"

	"github.com/meenmo/mcurve/market"
)

// Derivative is a coupon reduced to a valuation time. The set of implementations is closed:
// *Fixed and *ArithmeticAverageON.
type Derivative interface {
	Currency() market.Currency
	PaymentTime() float64
	isDerivative()
}

// Fixed is a cash flow whose rate is known. Times are ACT/365 years from the valuation time.
type Fixed struct {
	Ccy                 market.Currency
	PaymentDate         time.Time
	Payment             float64
	PaymentYearFraction float64
	Notional            float64
	Rate                float64
}

func (c *Fixed) Currency() market.Currency { return c.Ccy }
func (c *Fixed) PaymentTime() float64      { return c.Payment }
func (*Fixed) isDerivative()               {}

// Amount is the undiscounted payment.
func (c *Fixed) Amount() float64 {
	return c.Notional * c.PaymentYearFraction * c.Rate
}

// ArithmeticAverageON is an overnight coupon whose remaining sub-periods are still to be projected.
//
// StartTimes[i] is the start of remaining sub-period i, which ends at StartTimes[i+1] or, for the
// last one, at EndTime. AccruedRate is the accrual-weighted sum of the fixings already known; it is
// added to the projected part at pricing time.
type ArithmeticAverageON struct {
	Index               market.OvernightIndex
	PaymentDate         time.Time
	Payment             float64
	PaymentYearFraction float64
	Notional            float64
	StartTimes          []float64
	AccrualFactors      []float64
	EndTime             float64
	AccruedRate         float64
	Spread              float64
}

func (c *ArithmeticAverageON) Currency() market.Currency { return c.Index.Currency }
func (c *ArithmeticAverageON) PaymentTime() float64      { return c.Payment }
func (*ArithmeticAverageON) isDerivative()               {}

// PeriodTimes returns the boundaries of the remaining sub-periods, StartTimes followed by EndTime.
func (c *ArithmeticAverageON) PeriodTimes() []float64 {
	out := make([]float64, 0, len(c.StartTimes)+1)
	out = append(out, c.StartTimes...)
	return append(out, c.EndTime)
}
