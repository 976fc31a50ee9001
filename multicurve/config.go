// Package multicurve assembles built curves into a bundle keyed by currency and index, together
// with the building blocks that map curve nodes to rows of the bundle Jacobian.
package multicurve

import (
	"context"
	"fmt"

	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/failure"
	"github.com/meenmo/mcurve/market"
)

// Role is a use a curve is put to in a bundle. Implementations: Discounting, IborForward and
// OvernightForward.
type Role interface {
	fmt.Stringer
	isRole()
}

// Discounting marks the discount curve of a currency.
type Discounting struct {
	Currency market.Currency
}

// IborForward marks the projection curve of a term index.
type IborForward struct {
	Index market.IborIndex
}

// OvernightForward marks the projection curve of an overnight index.
type OvernightForward struct {
	Index market.OvernightIndex
}

func (r Discounting) String() string      { return "discounting " + string(r.Currency) }
func (r IborForward) String() string      { return "forward " + r.Index.Name }
func (r OvernightForward) String() string { return "forward " + r.Index.Name }

func (Discounting) isRole()      {}
func (IborForward) isRole()      {}
func (OvernightForward) isRole() {}

// CurveDefinition names a curve and the roles it plays.
type CurveDefinition struct {
	Name  string
	Roles []Role
}

// Group is a set of curves built together.
type Group struct {
	Curves []CurveDefinition
}

// Configuration is an ordered list of groups. The order of groups and of curves within a group
// fixes the order of Jacobian rows.
type Configuration struct {
	Name   string
	Groups []Group
}

func (c Configuration) definitions() []CurveDefinition {
	var out []CurveDefinition
	for _, g := range c.Groups {
		out = append(out, g.Curves...)
	}
	return out
}

// SpecificationSource resolves curve names to specifications.
type SpecificationSource interface {
	Specification(ctx context.Context, name string) (curve.Specification, error)
}

// MapSpecificationSource serves specifications held in memory.
type MapSpecificationSource map[string]curve.Specification

func (m MapSpecificationSource) Specification(_ context.Context, name string) (curve.Specification, error) {
	spec, ok := m[name]
	if !ok {
		return curve.Specification{}, fmt.Errorf("%w: %s", failure.ErrMissingCurveSpecification, name)
	}
	return spec, nil
}
