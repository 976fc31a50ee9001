package multicurve

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/failure"
	"github.com/meenmo/mcurve/logging"
	"github.com/meenmo/mcurve/marketdata"
	"golang.org/x/sync/errgroup"
)

// ErrDuplicateCurve means a configuration names the same curve twice.
var ErrDuplicateCurve = errors.New("duplicate curve in configuration")

// CurveError names the curve a failure belongs to.
type CurveError struct {
	Curve string
	Err   error
}

func (e *CurveError) Error() string {
	return fmt.Sprintf("curve %s: %v", e.Curve, e.Err)
}

func (e *CurveError) Unwrap() error {
	return e.Err
}

// Assembler builds bundles from a specification source and a quote provider.
type Assembler struct {
	specs       SpecificationSource
	quotes      marketdata.Provider
	logger      *slog.Logger
	concurrency int
}

// NewAssembler returns an assembler. A nil logger discards; concurrency <= 0 fetches every curve
// at once.
func NewAssembler(specs SpecificationSource, quotes marketdata.Provider, logger *slog.Logger, concurrency int) *Assembler {
	if logger == nil {
		logger = logging.Discard()
	}
	return &Assembler{
		specs:       specs,
		quotes:      quotes,
		logger:      logger,
		concurrency: concurrency,
	}
}

type fetched struct {
	spec   curve.Specification
	quotes marketdata.Snapshot
	err    error
}

// Assemble builds every curve of cfg and returns them as a bundle on top of the curves of deps.
//
// Specifications and quotes are fetched concurrently; curves are then built in declared order and
// receive consecutive Jacobian rows. Every failure is collected, and if there is at least one the
// result is a *failure.Aggregated and no bundle.
func (a *Assembler) Assemble(ctx context.Context, valuationTime time.Time, cfg Configuration, deps ...*Bundle) (*Bundle, error) {
	defs := cfg.definitions()
	results := make([]fetched, len(defs))

	g, gctx := errgroup.WithContext(ctx)
	if a.concurrency > 0 {
		g.SetLimit(a.concurrency)
	}
	for i, def := range defs {
		g.Go(func() error {
			results[i] = a.fetch(gctx, valuationTime, def.Name)
			return nil
		})
	}
	_ = g.Wait()

	b := newBundle()
	for _, dep := range deps {
		if dep != nil {
			b.merge(dep)
		}
	}

	var errs []error
	seen := make(map[string]struct{}, len(defs))
	offset := 0
	for i, def := range defs {
		if _, dup := seen[def.Name]; dup {
			errs = append(errs, &CurveError{Curve: def.Name, Err: ErrDuplicateCurve})
			continue
		}
		seen[def.Name] = struct{}{}

		r := results[i]
		if r.err != nil {
			errs = append(errs, &CurveError{Curve: def.Name, Err: r.err})
			continue
		}
		c, err := curve.Build(valuationTime, r.spec, r.quotes)
		if err != nil {
			errs = append(errs, &CurveError{Curve: def.Name, Err: err})
			continue
		}
		b.add(def, c, offset)
		a.logger.Debug("curve built", "configuration", cfg.Name, "curve", def.Name, "nodes", c.NodeCount(), "offset", offset)
		offset += c.NodeCount()
	}

	if err := failure.Aggregate(errs...); err != nil {
		a.logger.Warn("bundle assembly failed", "configuration", cfg.Name, "failures", len(errs))
		return nil, err
	}
	a.logger.Info("bundle assembled", "configuration", cfg.Name, "curves", len(defs), "rows", offset)
	return b, nil
}

func (a *Assembler) fetch(ctx context.Context, valuationTime time.Time, name string) fetched {
	spec, err := a.specs.Specification(ctx, name)
	if err != nil {
		return fetched{err: err}
	}
	quotes, err := a.quotes.Fetch(ctx, valuationTime, spec.IDs())
	if err != nil {
		return fetched{err: fmt.Errorf("%w: %w", failure.ErrMissingMarketData, err)}
	}
	return fetched{spec: spec, quotes: quotes}
}
