package curve

import (
	"math"

	"github.com/meenmo/mcurve/interpolation"
)

// Curve is a built discount curve. Times are ACT/365 year fractions from the valuation time.
type Curve interface {
	Name() string
	DiscountFactor(t float64) float64
	// ZeroRate is the continuously compounded zero rate to t.
	ZeroRate(t float64) float64
	// DiscountFactorSensitivity returns dDF(t)/dv for every node value v, in node order.
	DiscountFactorSensitivity(t float64) []float64
	NodeTimes() []float64
	NodeValues() []float64
	NodeCount() int
}

type base struct {
	name string
	ic   *interpolation.Curve
}

func (b base) Name() string          { return b.name }
func (b base) NodeTimes() []float64  { return b.ic.X() }
func (b base) NodeValues() []float64 { return b.ic.Y() }
func (b base) NodeCount() int        { return b.ic.Size() }

// Interpolator returns the interpolator/extrapolator names used between nodes.
func (b base) Interpolator() string { return b.ic.Interpolator() }

// YieldCurve interpolates continuously compounded zero rates.
type YieldCurve struct {
	base
}

func (c *YieldCurve) ZeroRate(t float64) float64 {
	return c.ic.Value(t)
}

func (c *YieldCurve) DiscountFactor(t float64) float64 {
	return math.Exp(-c.ic.Value(t) * t)
}

func (c *YieldCurve) DiscountFactorSensitivity(t float64) []float64 {
	df := c.DiscountFactor(t)
	s := c.ic.NodeSensitivity(t)
	for i := range s {
		s[i] *= -t * df
	}
	return s
}

// PeriodicYieldCurve interpolates zero rates compounded PeriodsPerYear times a year.
type PeriodicYieldCurve struct {
	base
	periodsPerYear int
}

func (c *PeriodicYieldCurve) PeriodsPerYear() int {
	return c.periodsPerYear
}

func (c *PeriodicYieldCurve) ZeroRate(t float64) float64 {
	m := float64(c.periodsPerYear)
	return m * math.Log1p(c.ic.Value(t)/m)
}

func (c *PeriodicYieldCurve) DiscountFactor(t float64) float64 {
	m := float64(c.periodsPerYear)
	return math.Pow(1+c.ic.Value(t)/m, -m*t)
}

func (c *PeriodicYieldCurve) DiscountFactorSensitivity(t float64) []float64 {
	m := float64(c.periodsPerYear)
	r := c.ic.Value(t)
	df := math.Pow(1+r/m, -m*t)
	s := c.ic.NodeSensitivity(t)
	for i := range s {
		s[i] *= -t * df / (1 + r/m)
	}
	return s
}

// DiscountFactorCurve interpolates discount factors directly.
type DiscountFactorCurve struct {
	base
}

func (c *DiscountFactorCurve) DiscountFactor(t float64) float64 {
	return c.ic.Value(t)
}

// ZeroRate at t <= 0 returns the rate to the first node.
func (c *DiscountFactorCurve) ZeroRate(t float64) float64 {
	if t <= 0 {
		xs := c.ic.X()
		t = xs[0]
		if t <= 0 {
			return 0
		}
	}
	return -math.Log(c.ic.Value(t)) / t
}

func (c *DiscountFactorCurve) DiscountFactorSensitivity(t float64) []float64 {
	return c.ic.NodeSensitivity(t)
}
