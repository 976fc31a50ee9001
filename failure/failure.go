// Package failure holds the error kinds shared by curve construction and coupon resolution.
//
// Leaf operations return one of the sentinels below wrapped in a detail type that names the
// offending node, curve or fixing date. Use errors.Is to classify and errors.As to inspect.
package failure

import (
	"errors"
	"strconv"
	"strings"

	"go.uber.org/multierr"
)

var (
	// ErrMissingMarketData means a curve node has no quote in the market data snapshot.
	ErrMissingMarketData = errors.New("missing market data")
	// ErrHeterogeneousCurveNodes means the nodes of a curve are not all of the same kind.
	ErrHeterogeneousCurveNodes = errors.New("heterogeneous curve nodes")
	// ErrUnsupportedNodeType means a node kind has no curve representation.
	ErrUnsupportedNodeType = errors.New("unsupported curve node type")
	// ErrNonIncreasingNodes means node maturities are not strictly increasing.
	ErrNonIncreasingNodes = errors.New("curve node maturities not strictly increasing")
	// ErrMissingCurveSpecification means no specification could be resolved for a curve name.
	ErrMissingCurveSpecification = errors.New("missing curve specification")
	// ErrMissingFixing means a historical fixing is absent inside the range of the series.
	ErrMissingFixing = errors.New("missing fixing")
	// ErrFixingSeriesExhausted means a fixing was requested past the last date of the series.
	ErrFixingSeriesExhausted = errors.New("fixing series exhausted")
	// ErrStaleValuation means the valuation date is after the payment date of the instrument.
	ErrStaleValuation = errors.New("valuation date after payment date")
)

// Aggregated collects one or more failures found in a single pass.
type Aggregated struct {
	err error
}

// Aggregate combines errs, dropping nils. It returns nil when nothing failed.
func Aggregate(errs ...error) error {
	combined := multierr.Combine(errs...)
	if combined == nil {
		return nil
	}
	return &Aggregated{err: combined}
}

// Failures returns the individual failures in the order they were recorded.
func (a *Aggregated) Failures() []error {
	return multierr.Errors(a.err)
}

// Len reports the number of failures.
func (a *Aggregated) Len() int {
	return len(a.Failures())
}

func (a *Aggregated) Error() string {
	fs := a.Failures()
	msgs := make([]string, len(fs))
	for i, f := range fs {
		msgs[i] = f.Error()
	}
	if len(msgs) == 1 {
		return "1 failure: " + msgs[0]
	}
	return strconv.Itoa(len(msgs)) + " failures: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the failures to errors.Is and errors.As.
func (a *Aggregated) Unwrap() []error {
	return a.Failures()
}
