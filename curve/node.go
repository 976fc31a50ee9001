// Package curve turns a curve specification and a quote snapshot into an interpolated discount
// curve.
package curve

import (
	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/marketdata"
)

// NodeKind says how the quote of a node is read.
type NodeKind int

const (
	ContinuouslyCompoundedRate NodeKind = iota + 1
	DiscountFactor
	PeriodicallyCompoundedRate
)

func (k NodeKind) String() string {
	switch k {
	case ContinuouslyCompoundedRate:
		return "ContinuouslyCompoundedRate"
	case DiscountFactor:
		return "DiscountFactor"
	case PeriodicallyCompoundedRate:
		return "PeriodicallyCompoundedRate"
	default:
		return "Unknown"
	}
}

func (k NodeKind) known() bool {
	return k >= ContinuouslyCompoundedRate && k <= PeriodicallyCompoundedRate
}

// yield reports whether the node quotes a zero rate rather than a discount factor.
func (k NodeKind) yield() bool {
	return k == ContinuouslyCompoundedRate || k == PeriodicallyCompoundedRate
}

// Node is one point of a curve specification: a resolved maturity and the identifier of its quote.
type Node struct {
	Kind  NodeKind
	Tenor calendar.Tenor
	ID    marketdata.ExternalID
	// PeriodsPerYear is the compounding frequency of periodically compounded nodes.
	PeriodsPerYear int
}

func ContinuouslyCompoundedNode(tenor calendar.Tenor, id marketdata.ExternalID) Node {
	return Node{Kind: ContinuouslyCompoundedRate, Tenor: tenor, ID: id}
}

func DiscountFactorNode(tenor calendar.Tenor, id marketdata.ExternalID) Node {
	return Node{Kind: DiscountFactor, Tenor: tenor, ID: id}
}

func PeriodicallyCompoundedNode(tenor calendar.Tenor, id marketdata.ExternalID, periodsPerYear int) Node {
	return Node{Kind: PeriodicallyCompoundedRate, Tenor: tenor, ID: id, PeriodsPerYear: periodsPerYear}
}

func (n Node) String() string {
	return n.Kind.String() + "[" + n.Tenor.String() + ", " + n.ID.String() + "]"
}
