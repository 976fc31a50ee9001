package curve

import (
	"fmt"

	"github.com/meenmo/mcurve/marketdata"
)

// Specification is a named, ordered list of nodes with the interpolation to apply between them.
// It is immutable; accessors return copies.
type Specification struct {
	name         string
	nodes        []Node
	interpolator string
	left, right  string
}

// NewSpecification validates and copies its inputs. Empty extrapolator names mean flat.
func NewSpecification(name string, nodes []Node, interpolator, leftExtrapolator, rightExtrapolator string) (Specification, error) {
	if name == "" {
		return Specification{}, fmt.Errorf("NewSpecification: empty curve name")
	}
	if len(nodes) == 0 {
		return Specification{}, fmt.Errorf("NewSpecification: curve %s has no nodes", name)
	}
	if interpolator == "" {
		return Specification{}, fmt.Errorf("NewSpecification: curve %s has no interpolator", name)
	}
	return Specification{
		name:         name,
		nodes:        append([]Node(nil), nodes...),
		interpolator: interpolator,
		left:         leftExtrapolator,
		right:        rightExtrapolator,
	}, nil
}

func (s Specification) Name() string {
	return s.name
}

// Nodes returns the nodes in declared order.
func (s Specification) Nodes() []Node {
	return append([]Node(nil), s.nodes...)
}

func (s Specification) NodeCount() int {
	return len(s.nodes)
}

func (s Specification) Interpolator() string {
	return s.interpolator
}

func (s Specification) LeftExtrapolator() string {
	return s.left
}

func (s Specification) RightExtrapolator() string {
	return s.right
}

// IDs returns the quote identifiers of the nodes in declared order.
func (s Specification) IDs() []marketdata.ExternalID {
	ids := make([]marketdata.ExternalID, len(s.nodes))
	for i, n := range s.nodes {
		ids[i] = n.ID
	}
	return ids
}
