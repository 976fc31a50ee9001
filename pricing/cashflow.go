package pricing

import (
	"fmt"
	"time"

	"github.com/meenmo/mcurve/coupon"
	"github.com/meenmo/mcurve/market"
	"github.com/meenmo/mcurve/multicurve"
	"github.com/shopspring/decimal"
)

// Cashflow is one row of a cash-flow report. Amounts are rounded to cents.
type Cashflow struct {
	PaymentDate    time.Time
	PaymentTime    float64
	Currency       market.Currency
	Kind           string
	Rate           float64
	Amount         decimal.Decimal
	DiscountFactor float64
	PresentValue   decimal.Decimal
}

// Cashflows reports the payment, rate and discounted value of every derivative in ds.
func Cashflows(ds []coupon.Derivative, b *multicurve.Bundle) ([]Cashflow, error) {
	out := make([]Cashflow, 0, len(ds))
	for i, d := range ds {
		amount, err := undiscounted(d, b)
		if err != nil {
			return nil, fmt.Errorf("Cashflows: coupon %d: %w", i, err)
		}
		dc, err := discountCurve(d, b)
		if err != nil {
			return nil, fmt.Errorf("Cashflows: coupon %d: %w", i, err)
		}
		df := dc.DiscountFactor(d.PaymentTime())

		row := Cashflow{
			PaymentTime:    d.PaymentTime(),
			Currency:       d.Currency(),
			Amount:         decimal.NewFromFloat(amount).Round(2),
			DiscountFactor: df,
			PresentValue:   decimal.NewFromFloat(amount * df).Round(2),
		}
		switch d := d.(type) {
		case *coupon.Fixed:
			row.PaymentDate = d.PaymentDate
			row.Kind = "FIXED"
			row.Rate = d.Rate
		case *coupon.ArithmeticAverageON:
			row.PaymentDate = d.PaymentDate
			row.Kind = "ON-AVERAGE " + d.Index.Name
			if d.Notional != 0 && d.PaymentYearFraction != 0 {
				row.Rate = amount / d.Notional / d.PaymentYearFraction
			}
		}
		out = append(out, row)
	}
	return out, nil
}

// Total sums the present values of rows.
func Total(rows []Cashflow) decimal.Decimal {
	total := decimal.Zero
	for _, r := range rows {
		total = total.Add(r.PresentValue)
	}
	return total
}
