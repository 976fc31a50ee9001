package multicurve_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/failure"
	"github.com/meenmo/mcurve/market"
	"github.com/meenmo/mcurve/marketdata"
	"github.com/meenmo/mcurve/multicurve"
)

var valuation = time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)

func ticker(s string) marketdata.ExternalID {
	return marketdata.ID("TICKER", s)
}

func spec(t *testing.T, name string, tenors ...string) curve.Specification {
	t.Helper()
	nodes := make([]curve.Node, len(tenors))
	for i, s := range tenors {
		nodes[i] = curve.ContinuouslyCompoundedNode(calendar.MustParseTenor(s), ticker(name+s))
	}
	sp, err := curve.NewSpecification(name, nodes, "Linear", "", "")
	if err != nil {
		t.Fatalf("NewSpecification error: %v", err)
	}
	return sp
}

func quotesFor(specs ...curve.Specification) marketdata.Snapshot {
	out := make(marketdata.Snapshot)
	for _, sp := range specs {
		for i, id := range sp.IDs() {
			out[id] = 0.03 + 0.001*float64(i)
		}
	}
	return out
}

type failingProvider struct{}

func (failingProvider) Fetch(context.Context, time.Time, []marketdata.ExternalID) (marketdata.Snapshot, error) {
	return nil, errors.New("feed down")
}

func TestAssembleReportsEveryFailureWithoutBundle(t *testing.T) {
	t.Parallel()

	usd := spec(t, "USD-SOFR", "1M", "1Y")
	eur := spec(t, "EUR-ESTR", "1M", "1Y")
	specs := multicurve.MapSpecificationSource{"USD-SOFR": usd, "EUR-ESTR": eur}
	// Only EUR quotes are available.
	asm := multicurve.NewAssembler(specs, marketdata.NewStaticProvider(quotesFor(eur)), nil, 0)

	cfg := multicurve.Configuration{Name: "two-groups", Groups: []multicurve.Group{
		{Curves: []multicurve.CurveDefinition{{Name: "USD-SOFR", Roles: []multicurve.Role{multicurve.Discounting{Currency: market.USD}}}}},
		{Curves: []multicurve.CurveDefinition{{Name: "EUR-ESTR", Roles: []multicurve.Role{multicurve.Discounting{Currency: market.EUR}}}}},
	}}
	b, err := asm.Assemble(context.Background(), valuation, cfg)
	if b != nil {
		t.Fatalf("expected no bundle on failure")
	}
	var agg *failure.Aggregated
	if !errors.As(err, &agg) {
		t.Fatalf("expected *failure.Aggregated, got %T (%v)", err, err)
	}
	if agg.Len() != 1 {
		t.Fatalf("expected exactly 1 failure, got %d: %v", agg.Len(), agg)
	}
	if !errors.Is(err, failure.ErrMissingMarketData) {
		t.Fatalf("expected ErrMissingMarketData, got %v", err)
	}
	var ce *multicurve.CurveError
	if !errors.As(agg.Failures()[0], &ce) || ce.Curve != "USD-SOFR" {
		t.Fatalf("CurveError mismatch: %v", agg.Failures()[0])
	}
}

func TestAssembleOffsetsFollowDeclaredOrder(t *testing.T) {
	t.Parallel()

	a := spec(t, "A", "1M", "6M", "1Y")
	b := spec(t, "B", "1Y", "2Y")
	c := spec(t, "C", "3M", "5Y", "10Y", "30Y")
	specs := multicurve.MapSpecificationSource{"A": a, "B": b, "C": c}
	asm := multicurve.NewAssembler(specs, marketdata.NewStaticProvider(quotesFor(a, b, c)), nil, 2)

	cfg := multicurve.Configuration{Groups: []multicurve.Group{
		{Curves: []multicurve.CurveDefinition{{Name: "C"}, {Name: "A"}}},
		{Curves: []multicurve.CurveDefinition{{Name: "B"}}},
	}}
	bundle, err := asm.Assemble(context.Background(), valuation, cfg)
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}

	want := []struct {
		name          string
		offset, count int
	}{{"C", 0, 4}, {"A", 4, 3}, {"B", 7, 2}}
	names := bundle.CurveNames()
	for i, w := range want {
		if names[i] != w.name {
			t.Fatalf("curve %d mismatch: got %s want %s", i, names[i], w.name)
		}
		blk, ok := bundle.BuildingBlock().Block(w.name)
		if !ok || blk.Offset != w.offset || blk.Count != w.count {
			t.Fatalf("block %s mismatch: got %+v", w.name, blk)
		}
		unit, ok := bundle.Unit(w.name)
		if !ok {
			t.Fatalf("missing unit for %s", w.name)
		}
		rows, cols := unit.Jacobian.Dims()
		if rows != w.count || cols != w.count || unit.Jacobian.At(0, 0) != 1 {
			t.Fatalf("unit Jacobian %s mismatch: %dx%d", w.name, rows, cols)
		}
	}

	full := bundle.FullJacobian()
	rows, cols := full.Dims()
	if rows != 9 || cols != 9 {
		t.Fatalf("full Jacobian dims mismatch: %dx%d", rows, cols)
	}
	for i := 0; i < 9; i++ {
		for j := 0; j < 9; j++ {
			want := 0.0
			if i == j {
				want = 1
			}
			if full.At(i, j) != want {
				t.Fatalf("full Jacobian (%d,%d) mismatch: got %g", i, j, full.At(i, j))
			}
		}
	}
}

func TestAssembleRolesAndDependencies(t *testing.T) {
	t.Parallel()

	ois := spec(t, "USD-OIS", "1M", "1Y")
	sofr := spec(t, "USD-SOFR-FWD", "1M", "1Y")
	specs := multicurve.MapSpecificationSource{"USD-OIS": ois, "USD-SOFR-FWD": sofr}
	asm := multicurve.NewAssembler(specs, marketdata.NewStaticProvider(quotesFor(ois, sofr)), nil, 0)

	base, err := asm.Assemble(context.Background(), valuation, multicurve.Configuration{Groups: []multicurve.Group{
		{Curves: []multicurve.CurveDefinition{{Name: "USD-OIS", Roles: []multicurve.Role{
			multicurve.Discounting{Currency: market.USD},
			multicurve.OvernightForward{Index: market.FEDFUNDS},
		}}}},
	}})
	if err != nil {
		t.Fatalf("Assemble base error: %v", err)
	}
	if _, ok := base.DiscountCurve(market.USD); !ok {
		t.Fatalf("missing USD discount curve")
	}
	if c, ok := base.OvernightCurve(market.FEDFUNDS); !ok || c.Name() != "USD-OIS" {
		t.Fatalf("FEDFUNDS curve mismatch")
	}

	dep, err := asm.Assemble(context.Background(), valuation, multicurve.Configuration{Groups: []multicurve.Group{
		{Curves: []multicurve.CurveDefinition{{Name: "USD-SOFR-FWD", Roles: []multicurve.Role{
			multicurve.OvernightForward{Index: market.SOFR},
		}}}},
	}}, base)
	if err != nil {
		t.Fatalf("Assemble dependent error: %v", err)
	}
	if c, ok := dep.DiscountCurve(market.USD); !ok || c.Name() != "USD-OIS" {
		t.Fatalf("dependent bundle lost the USD discount curve")
	}
	if c, ok := dep.OvernightCurve(market.SOFR); !ok || c.Name() != "USD-SOFR-FWD" {
		t.Fatalf("SOFR curve mismatch")
	}
	if names := dep.CurveNames(); len(names) != 1 || names[0] != "USD-SOFR-FWD" {
		t.Fatalf("exogenous curves must not get rows: %v", names)
	}
	if _, ok := dep.Unit("USD-OIS"); ok {
		t.Fatalf("exogenous curve has a unit")
	}
	if rs := dep.Roles("USD-SOFR-FWD"); len(rs) != 1 || rs[0].String() != "forward SOFR" {
		t.Fatalf("roles mismatch: %v", rs)
	}
}

func TestAssembleCollectsSpecificationAndDuplicateFailures(t *testing.T) {
	t.Parallel()

	a := spec(t, "A", "1M", "1Y")
	asm := multicurve.NewAssembler(multicurve.MapSpecificationSource{"A": a}, marketdata.NewStaticProvider(quotesFor(a)), nil, 0)
	cfg := multicurve.Configuration{Groups: []multicurve.Group{
		{Curves: []multicurve.CurveDefinition{{Name: "A"}, {Name: "MISSING"}, {Name: "A"}}},
	}}
	_, err := asm.Assemble(context.Background(), valuation, cfg)
	var agg *failure.Aggregated
	if !errors.As(err, &agg) || agg.Len() != 2 {
		t.Fatalf("expected 2 failures, got %v", err)
	}
	if !errors.Is(err, failure.ErrMissingCurveSpecification) || !errors.Is(err, multicurve.ErrDuplicateCurve) {
		t.Fatalf("failure kinds mismatch: %v", err)
	}
}

func TestAssembleProviderError(t *testing.T) {
	t.Parallel()

	a := spec(t, "A", "1M")
	asm := multicurve.NewAssembler(multicurve.MapSpecificationSource{"A": a}, failingProvider{}, nil, 1)
	_, err := asm.Assemble(context.Background(), valuation, multicurve.Configuration{Groups: []multicurve.Group{
		{Curves: []multicurve.CurveDefinition{{Name: "A"}}},
	}})
	if !errors.Is(err, failure.ErrMissingMarketData) {
		t.Fatalf("expected ErrMissingMarketData, got %v", err)
	}
}

func TestEmptyConfiguration(t *testing.T) {
	t.Parallel()

	asm := multicurve.NewAssembler(multicurve.MapSpecificationSource{}, marketdata.NewStaticProvider(nil), nil, 0)
	b, err := asm.Assemble(context.Background(), valuation, multicurve.Configuration{})
	if err != nil {
		t.Fatalf("Assemble error: %v", err)
	}
	if b.FullJacobian() != nil || len(b.CurveNames()) != 0 {
		t.Fatalf("expected empty bundle")
	}
}
