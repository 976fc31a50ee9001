package leg_test

import (
	"testing"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/coupon"
	"github.com/meenmo/mcurve/leg"
	"github.com/meenmo/mcurve/market"
	"github.com/meenmo/mcurve/timeseries"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func quarterlyPayer() leg.Params {
	return leg.Params{
		Settlement:    date(2024, 1, 15),
		End:           date(2024, 7, 15),
		Notional:      1_000_000,
		Payer:         true,
		Index:         market.SOFR,
		PaymentLag:    0,
		Calendar:      calendar.WeekendsOnly(),
		Convention:    calendar.ModifiedFollowing,
		PaymentPeriod: calendar.MustParseTenor("3M"),
		EOM:           false,
	}
}

func TestBuildQuarterlyPayerLeg(t *testing.T) {
	t.Parallel()

	a, err := leg.Build(quarterlyPayer())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if a.Len() != 2 || !a.Payer() {
		t.Fatalf("expected 2 payer coupons, got %d (payer %v)", a.Len(), a.Payer())
	}
	cpns := a.Coupons()
	for i, c := range cpns {
		if c.Notional() != -1_000_000 {
			t.Fatalf("coupon %d notional mismatch: got %g", i, c.Notional())
		}
	}
	if !cpns[0].AccrualStart().Equal(date(2024, 1, 15)) {
		t.Fatalf("first start mismatch: got %s", cpns[0].AccrualStart().Format(time.DateOnly))
	}
	if !cpns[0].AccrualEnd().Equal(cpns[1].AccrualStart()) {
		t.Fatalf("coupons not contiguous: %s vs %s",
			cpns[0].AccrualEnd().Format(time.DateOnly), cpns[1].AccrualStart().Format(time.DateOnly))
	}
	if !cpns[0].AccrualEnd().Equal(date(2024, 4, 15)) {
		t.Fatalf("first end mismatch: got %s", cpns[0].AccrualEnd().Format(time.DateOnly))
	}
	if !cpns[1].AccrualEnd().Equal(date(2024, 7, 15)) {
		t.Fatalf("last end mismatch: got %s", cpns[1].AccrualEnd().Format(time.DateOnly))
	}

	cpns[0] = nil
	if a.Coupons()[0] == nil {
		t.Fatalf("Coupons exposed internal slice")
	}
}

func TestBuildShortFinalStub(t *testing.T) {
	t.Parallel()

	p := quarterlyPayer()
	p.End = date(2024, 8, 15)
	p.Payer = false
	a, err := leg.Build(p)
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	if a.Len() != 3 {
		t.Fatalf("expected 3 coupons, got %d", a.Len())
	}
	last := a.Coupons()[2]
	if !last.AccrualStart().Equal(date(2024, 7, 15)) || !last.AccrualEnd().Equal(date(2024, 8, 15)) {
		t.Fatalf("stub mismatch: %s to %s", last.AccrualStart().Format(time.DateOnly), last.AccrualEnd().Format(time.DateOnly))
	}
	if last.Notional() != 1_000_000 {
		t.Fatalf("receiver notional mismatch: got %g", last.Notional())
	}
}

func TestAnnuityResolveSkipsPaidCoupons(t *testing.T) {
	t.Parallel()

	a, err := leg.Build(quarterlyPayer())
	if err != nil {
		t.Fatalf("Build error: %v", err)
	}
	ds, err := a.Resolve(&coupon.Resolver{}, date(2024, 5, 1), timeseries.NewMapSeries(nil))
	if err == nil {
		t.Fatalf("expected exhausted series error, got %d derivatives", len(ds))
	}

	fixings := make(map[time.Time]float64)
	for d := date(2024, 4, 15); d.Before(date(2024, 5, 1)); d = d.AddDate(0, 0, 1) {
		fixings[d] = 0.053
	}
	ds, err = a.Resolve(&coupon.Resolver{}, date(2024, 5, 1), timeseries.NewMapSeries(fixings))
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if len(ds) != 1 {
		t.Fatalf("expected 1 unpaid coupon, got %d", len(ds))
	}
	if _, ok := ds[0].(*coupon.ArithmeticAverageON); !ok {
		t.Fatalf("expected *ArithmeticAverageON, got %T", ds[0])
	}
}

func TestBuildRejectsBadInputs(t *testing.T) {
	t.Parallel()

	p := quarterlyPayer()
	p.Calendar = nil
	if _, err := leg.Build(p); err == nil {
		t.Fatalf("expected error for nil calendar")
	}
	p = quarterlyPayer()
	p.End = p.Settlement
	if _, err := leg.Build(p); err == nil {
		t.Fatalf("expected error for empty schedule")
	}
}
