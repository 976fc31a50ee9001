package pricing_test

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/coupon"
	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/market"
	"github.com/meenmo/mcurve/marketdata"
	"github.com/meenmo/mcurve/multicurve"
	"github.com/meenmo/mcurve/pricing"
	"github.com/meenmo/mcurve/timeseries"
)

var valuation = time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)

var (
	disc1M  = marketdata.ID("TICKER", "USDOIS1M")
	disc10Y = marketdata.ID("TICKER", "USDOIS10Y")
	fwd1M   = marketdata.ID("TICKER", "SOFR1M")
	fwd10Y  = marketdata.ID("TICKER", "SOFR10Y")
)

func flatQuotes(disc, fwd float64) marketdata.Snapshot {
	return marketdata.Snapshot{disc1M: disc, disc10Y: disc, fwd1M: fwd, fwd10Y: fwd}
}

func bundle(t *testing.T, quotes marketdata.Snapshot) *multicurve.Bundle {
	t.Helper()
	mk := func(name string, a, b marketdata.ExternalID) curve.Specification {
		sp, err := curve.NewSpecification(name, []curve.Node{
			curve.ContinuouslyCompoundedNode(calendar.MustParseTenor("1M"), a),
			curve.ContinuouslyCompoundedNode(calendar.MustParseTenor("10Y"), b),
		}, "Linear", "Flat", "Flat")
		if err != nil {
			t.Fatalf("NewSpecification error: %v", err)
		}
		return sp
	}
	specs := multicurve.MapSpecificationSource{
		"USD-OIS":  mk("USD-OIS", disc1M, disc10Y),
		"USD-SOFR": mk("USD-SOFR", fwd1M, fwd10Y),
	}
	asm := multicurve.NewAssembler(specs, marketdata.NewStaticProvider(quotes), nil, 0)
	b, err := asm.Assemble(context.Background(), valuation, multicurve.Configuration{Groups: []multicurve.Group{
		{Curves: []multicurve.CurveDefinition{
			{Name: "USD-OIS", Roles: []multicurve.Role{multicurve.Discounting{Currency: market.USD}}},
			{Name: "USD-SOFR", Roles: []multicurve.Role{multicurve.OvernightForward{Index: market.SOFR}}},
		}},
	}})
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	return b
}

func projected(t *testing.T) *coupon.ArithmeticAverageON {
	t.Helper()
	def, err := coupon.NewArithmeticAverageON(market.SOFR, time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 6, 4, 0, 0, 0, 0, time.UTC), 1e6, 2, 0.001, calendar.WeekendsOnly())
	if err != nil {
		t.Fatalf("NewArithmeticAverageON error: %v", err)
	}
	var r coupon.Resolver
	return r.Project(def, valuation)
}

func TestPresentValueFixed(t *testing.T) {
	t.Parallel()

	b := bundle(t, flatQuotes(0.04, 0.05))
	c := &coupon.Fixed{Ccy: market.USD, Payment: 0.5, PaymentYearFraction: 0.5, Notional: 1e6, Rate: 0.05}
	pv, err := pricing.PresentValue(c, b)
	if err != nil {
		t.Fatalf("PresentValue error: %v", err)
	}
	want := 1e6 * 0.5 * 0.05 * math.Exp(-0.04*0.5)
	if math.Abs(pv-want) > 1e-8 {
		t.Fatalf("PV mismatch: got %.10f want %.10f", pv, want)
	}
}

func TestPresentValueProjectedOnFlatCurve(t *testing.T) {
	t.Parallel()

	b := bundle(t, flatQuotes(0.04, 0.05))
	on := projected(t)
	pv, err := pricing.PresentValue(on, b)
	if err != nil {
		t.Fatalf("PresentValue error: %v", err)
	}

	times := on.PeriodTimes()
	sum := 0.0
	for i := 0; i+1 < len(times); i++ {
		sum += math.Exp(0.05*(times[i+1]-times[i])) - 1
	}
	want := 1e6 * (sum + 0.001*on.PaymentYearFraction) * math.Exp(-0.04*on.Payment)
	if math.Abs(pv-want) > 1e-6 {
		t.Fatalf("PV mismatch: got %.8f want %.8f", pv, want)
	}
}

func TestPresentValueMissingCurve(t *testing.T) {
	t.Parallel()

	b := bundle(t, flatQuotes(0.04, 0.05))
	c := &coupon.Fixed{Ccy: market.EUR, Payment: 1, PaymentYearFraction: 1, Notional: 1, Rate: 0.01}
	if _, err := pricing.PresentValue(c, b); !errors.Is(err, pricing.ErrMissingCurve) {
		t.Fatalf("expected ErrMissingCurve, got %v", err)
	}
	on := projected(t)
	on.Index = market.ESTR
	if _, err := pricing.PresentValue(on, b); !errors.Is(err, pricing.ErrMissingCurve) {
		t.Fatalf("expected ErrMissingCurve for forward curve, got %v", err)
	}
}

func TestQuoteSensitivitiesMatchBumpedQuotes(t *testing.T) {
	t.Parallel()

	base := flatQuotes(0.04, 0.05)
	b := bundle(t, base)
	on := projected(t)
	sens, err := pricing.QuoteSensitivities(on, b)
	if err != nil {
		t.Fatalf("QuoteSensitivities error: %v", err)
	}

	check := func(curveName string, idx int, id marketdata.ExternalID) {
		const h = 1e-6
		up := flatQuotes(0.04, 0.05)
		up[id] += h
		down := flatQuotes(0.04, 0.05)
		down[id] -= h
		pvUp, err := pricing.PresentValue(on, bundle(t, up))
		if err != nil {
			t.Fatalf("PresentValue error: %v", err)
		}
		pvDown, err := pricing.PresentValue(on, bundle(t, down))
		if err != nil {
			t.Fatalf("PresentValue error: %v", err)
		}
		want := (pvUp - pvDown) / (2 * h) * pricing.OneBasisPoint
		got := sens[curveName][idx]
		if math.Abs(got-want) > 1e-4 {
			t.Fatalf("%s[%d] sensitivity mismatch: got %g want %g", curveName, idx, got, want)
		}
	}
	check("USD-OIS", 0, disc1M)
	check("USD-OIS", 1, disc10Y)
	check("USD-SOFR", 0, fwd1M)
	check("USD-SOFR", 1, fwd10Y)
}

func TestLegPresentValueAndCashflows(t *testing.T) {
	t.Parallel()

	b := bundle(t, flatQuotes(0.04, 0.05))
	fixed := &coupon.Fixed{Ccy: market.USD, PaymentDate: valuation.AddDate(0, 6, 0), Payment: 0.5, PaymentYearFraction: 0.5, Notional: -1e6, Rate: 0.05}
	on := projected(t)
	ds := []coupon.Derivative{fixed, on}

	total, err := pricing.LegPresentValue(ds, b)
	if err != nil {
		t.Fatalf("LegPresentValue error: %v", err)
	}
	pvFixed, _ := pricing.PresentValue(fixed, b)
	pvOn, _ := pricing.PresentValue(on, b)
	if math.Abs(total-(pvFixed+pvOn)) > 1e-9 {
		t.Fatalf("LegPresentValue mismatch: got %g", total)
	}

	rows, err := pricing.Cashflows(ds, b)
	if err != nil {
		t.Fatalf("Cashflows error: %v", err)
	}
	if len(rows) != 2 || rows[0].Kind != "FIXED" || rows[1].Kind != "ON-AVERAGE SOFR" {
		t.Fatalf("rows mismatch: %+v", rows)
	}
	if got := rows[0].Amount.String(); got != "-25000" {
		t.Fatalf("fixed amount mismatch: got %s", got)
	}
	if !rows[1].PaymentDate.Equal(on.PaymentDate) {
		t.Fatalf("payment date mismatch")
	}
	if diff := pricing.Total(rows).InexactFloat64() - total; math.Abs(diff) > 0.011 {
		t.Fatalf("Total mismatch: diff %g", diff)
	}
}

func TestResolvedLegPricesEndToEnd(t *testing.T) {
	t.Parallel()

	def, err := coupon.NewArithmeticAverageON(market.SOFR, time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 3, 26, 0, 0, 0, 0, time.UTC), 1e6, 0, 0, calendar.WeekendsOnly())
	if err != nil {
		t.Fatalf("NewArithmeticAverageON error: %v", err)
	}
	fixings := make(map[time.Time]float64)
	for d := time.Date(2024, 2, 26, 0, 0, 0, 0, time.UTC); d.Before(valuation); d = d.AddDate(0, 0, 1) {
		fixings[d] = 0.0531
	}
	var r coupon.Resolver
	d, err := r.Resolve(def, valuation, timeseries.NewMapSeries(fixings))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	on, ok := d.(*coupon.ArithmeticAverageON)
	if !ok || on.AccruedRate <= 0 {
		t.Fatalf("expected partially fixed coupon, got %T", d)
	}
	if _, err := pricing.PresentValue(d, bundle(t, flatQuotes(0.04, 0.05))); err != nil {
		t.Fatalf("PresentValue error: %v", err)
	}
}
