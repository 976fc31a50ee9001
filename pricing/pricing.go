// Package pricing values resolved coupons against a multicurve bundle.
package pricing

import (
	"errors"
	"fmt"

	"github.com/meenmo/mcurve/coupon"
	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/multicurve"
	"gonum.org/v1/gonum/mat"
)

// ErrMissingCurve means the bundle has no curve for a currency or index a coupon needs.
var ErrMissingCurve = errors.New("pricing: missing curve")

// OneBasisPoint scales quote sensitivities.
const OneBasisPoint = 1e-4

func discountCurve(d coupon.Derivative, b *multicurve.Bundle) (curve.Curve, error) {
	c, ok := b.DiscountCurve(d.Currency())
	if !ok {
		return nil, fmt.Errorf("%w: discounting %s", ErrMissingCurve, d.Currency())
	}
	return c, nil
}

func forwardCurve(d *coupon.ArithmeticAverageON, b *multicurve.Bundle) (curve.Curve, error) {
	c, ok := b.OvernightCurve(d.Index)
	if !ok {
		return nil, fmt.Errorf("%w: forward %s", ErrMissingCurve, d.Index)
	}
	return c, nil
}

// projectedRate is the accrual-weighted sum of forward rates over the remaining sub-periods.
func projectedRate(d *coupon.ArithmeticAverageON, fwd curve.Curve) float64 {
	times := d.PeriodTimes()
	sum := 0.0
	for i := 0; i+1 < len(times); i++ {
		sum += fwd.DiscountFactor(times[i])/fwd.DiscountFactor(times[i+1]) - 1
	}
	return sum
}

// undiscounted returns the payment amount of d before discounting.
func undiscounted(d coupon.Derivative, b *multicurve.Bundle) (float64, error) {
	switch d := d.(type) {
	case *coupon.Fixed:
		return d.Amount(), nil
	case *coupon.ArithmeticAverageON:
		fwd, err := forwardCurve(d, b)
		if err != nil {
			return 0, err
		}
		return d.Notional * (d.AccruedRate + projectedRate(d, fwd) + d.Spread*d.PaymentYearFraction), nil
	default:
		return 0, fmt.Errorf("pricing: unsupported derivative %T", d)
	}
}

// PresentValue discounts the payment of d on the discount curve of its currency.
func PresentValue(d coupon.Derivative, b *multicurve.Bundle) (float64, error) {
	amount, err := undiscounted(d, b)
	if err != nil {
		return 0, err
	}
	dc, err := discountCurve(d, b)
	if err != nil {
		return 0, err
	}
	return amount * dc.DiscountFactor(d.PaymentTime()), nil
}

// LegPresentValue sums PresentValue over ds.
func LegPresentValue(ds []coupon.Derivative, b *multicurve.Bundle) (float64, error) {
	total := 0.0
	for i, d := range ds {
		pv, err := PresentValue(d, b)
		if err != nil {
			return 0, fmt.Errorf("LegPresentValue: coupon %d: %w", i, err)
		}
		total += pv
	}
	return total, nil
}

// QuoteSensitivities returns, per curve built in b, the change in present value for a one basis
// point move in each of its quotes. Curves taken from dependent bundles have no rows and are left
// out.
func QuoteSensitivities(d coupon.Derivative, b *multicurve.Bundle) (map[string][]float64, error) {
	dc, err := discountCurve(d, b)
	if err != nil {
		return nil, err
	}
	amount, err := undiscounted(d, b)
	if err != nil {
		return nil, err
	}

	nodes := make(map[string][]float64)
	accumulate := func(c curve.Curve, s []float64, scale float64) {
		acc, ok := nodes[c.Name()]
		if !ok {
			acc = make([]float64, c.NodeCount())
			nodes[c.Name()] = acc
		}
		for i, v := range s {
			acc[i] += scale * v
		}
	}

	tp := d.PaymentTime()
	accumulate(dc, dc.DiscountFactorSensitivity(tp), amount)

	if on, ok := d.(*coupon.ArithmeticAverageON); ok {
		fwd, err := forwardCurve(on, b)
		if err != nil {
			return nil, err
		}
		scale := on.Notional * dc.DiscountFactor(tp)
		times := on.PeriodTimes()
		for i := 0; i+1 < len(times); i++ {
			p0, p1 := fwd.DiscountFactor(times[i]), fwd.DiscountFactor(times[i+1])
			accumulate(fwd, fwd.DiscountFactorSensitivity(times[i]), scale/p1)
			accumulate(fwd, fwd.DiscountFactorSensitivity(times[i+1]), -scale*p0/(p1*p1))
		}
	}

	out := make(map[string][]float64, len(nodes))
	for name, s := range nodes {
		unit, ok := b.Unit(name)
		if !ok {
			continue
		}
		var q mat.VecDense
		q.MulVec(unit.Jacobian.T(), mat.NewVecDense(len(s), s))
		row := make([]float64, q.Len())
		for i := range row {
			row[i] = q.AtVec(i) * OneBasisPoint
		}
		out[name] = row
	}
	return out, nil
}
