package curve

import (
	"fmt"
	"time"

	"github.com/meenmo/mcurve/failure"
	"github.com/meenmo/mcurve/interpolation"
	"github.com/meenmo/mcurve/marketdata"
	"github.com/meenmo/mcurve/utils"
)

// NodeError names the node that stopped a curve from being built.
type NodeError struct {
	Curve string
	Index int
	Node  Node
	Err   error
}

func (e *NodeError) Error() string {
	return fmt.Sprintf("curve %s node %d (%s): %v", e.Curve, e.Index, e.Node, e.Err)
}

func (e *NodeError) Unwrap() error {
	return e.Err
}

// Build interpolates the quotes of spec's nodes against their time to maturity.
//
// The first node fixes the node kind of the whole curve and every later node must have the same
// kind. Continuously compounded nodes give a YieldCurve, periodically compounded nodes a
// PeriodicYieldCurve and discount factor nodes a DiscountFactorCurve.
// Node maturities are measured ACT/365 from valuationTime and must be strictly increasing.
func Build(valuationTime time.Time, spec Specification, quotes marketdata.Snapshot) (Curve, error) {
	if len(spec.nodes) == 0 {
		return nil, fmt.Errorf("curve.Build: %w: %q", failure.ErrMissingCurveSpecification, spec.name)
	}

	first := spec.nodes[0].Kind
	ttm := make([]float64, len(spec.nodes))
	values := make([]float64, len(spec.nodes))
	for i, node := range spec.nodes {
		nodeErr := func(err error) error {
			return &NodeError{Curve: spec.name, Index: i, Node: node, Err: err}
		}
		if !node.Kind.known() {
			return nil, nodeErr(failure.ErrUnsupportedNodeType)
		}
		if i > 0 && node.Kind != first {
			return nil, nodeErr(fmt.Errorf("%w: expected %s, found %s", failure.ErrHeterogeneousCurveNodes, first, node.Kind))
		}

		ttm[i] = utils.TimeBetween(valuationTime, node.Tenor.AddTo(valuationTime))
		if i > 0 && ttm[i] <= ttm[i-1] {
			return nil, nodeErr(failure.ErrNonIncreasingNodes)
		}

		v, ok := quotes.Get(node.ID)
		if !ok {
			return nil, nodeErr(failure.ErrMissingMarketData)
		}
		values[i] = v
	}

	combined, err := interpolation.New(spec.interpolator, spec.left, spec.right)
	if err != nil {
		return nil, fmt.Errorf("curve.Build: %s: %w", spec.name, err)
	}
	ic, err := combined.Fit(ttm, values)
	if err != nil {
		return nil, fmt.Errorf("curve.Build: %s: %w", spec.name, err)
	}

	b := base{name: spec.name, ic: ic}
	switch {
	case first == PeriodicallyCompoundedRate && spec.nodes[0].PeriodsPerYear > 0:
		return &PeriodicYieldCurve{base: b, periodsPerYear: spec.nodes[0].PeriodsPerYear}, nil
	case first.yield():
		return &YieldCurve{base: b}, nil
	default:
		return &DiscountFactorCurve{base: b}, nil
	}
}
