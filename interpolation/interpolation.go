// Package interpolation builds one-dimensional curves from control points using a named
// interpolator and a pair of named extrapolators, and reports the sensitivity of interpolated
// values to each control point value.
package interpolation

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// Interpolator names.
const (
	Linear             = "Linear"
	LogLinear          = "LogLinear"
	NaturalCubicSpline = "NaturalCubicSpline"
	Step               = "Step"
)

// Extrapolator names.
const (
	FlatExtrapolator      = "FlatExtrapolator"
	LinearExtrapolator    = "LinearExtrapolator"
	LogLinearExtrapolator = "LogLinearExtrapolator"
)

var (
	ErrUnknownInterpolator = errors.New("interpolation: unknown interpolator")
	ErrUnknownExtrapolator = errors.New("interpolation: unknown extrapolator")
	ErrInvalidPoints       = errors.New("interpolation: invalid control points")
)

// Combined is an interpolator together with its left and right extrapolators.
type Combined struct {
	interpolator string
	left, right  string
	newKernel    func() kernel
	leftEx       extrapolator
	rightEx      extrapolator
}

// New resolves interpolator and extrapolator names. Extrapolator names may omit the
// "Extrapolator" suffix; an empty extrapolator name means flat.
func New(interpolator, leftExtrapolator, rightExtrapolator string) (*Combined, error) {
	nk, name, err := kernelFor(interpolator)
	if err != nil {
		return nil, err
	}
	left, leftName, err := extrapolatorFor(leftExtrapolator)
	if err != nil {
		return nil, err
	}
	right, rightName, err := extrapolatorFor(rightExtrapolator)
	if err != nil {
		return nil, err
	}
	return &Combined{
		interpolator: name,
		left:         leftName,
		right:        rightName,
		newKernel:    nk,
		leftEx:       left,
		rightEx:      right,
	}, nil
}

// Name returns "interpolator/left/right".
func (c *Combined) Name() string {
	return c.interpolator + "/" + c.left + "/" + c.right
}

// Fit builds a curve through (xs[i], ys[i]). xs must be strictly increasing.
func (c *Combined) Fit(xs, ys []float64) (*Curve, error) {
	if len(xs) == 0 || len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d abscissae, %d values", ErrInvalidPoints, len(xs), len(ys))
	}
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			return nil, fmt.Errorf("%w: NaN at point %d", ErrInvalidPoints, i)
		}
		if i > 0 && xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("%w: abscissa %d (%g) not above %g", ErrInvalidPoints, i, xs[i], xs[i-1])
		}
	}
	crv := &Curve{
		combined: c,
		xs:       append([]float64(nil), xs...),
		ys:       append([]float64(nil), ys...),
	}
	if len(xs) > 1 {
		k := c.newKernel()
		if err := k.fit(crv.xs, crv.ys); err != nil {
			return nil, fmt.Errorf("interpolation: fit %s: %w", c.interpolator, err)
		}
		crv.k = k
	}
	return crv, nil
}

// Curve is an immutable fitted curve.
type Curve struct {
	combined *Combined
	xs, ys   []float64
	k        kernel
}

// Size returns the number of control points.
func (c *Curve) Size() int {
	return len(c.xs)
}

// X returns a copy of the control point abscissae.
func (c *Curve) X() []float64 {
	return append([]float64(nil), c.xs...)
}

// Y returns a copy of the control point values.
func (c *Curve) Y() []float64 {
	return append([]float64(nil), c.ys...)
}

// Interpolator returns the combined interpolator name.
func (c *Curve) Interpolator() string {
	return c.combined.Name()
}

// Value evaluates the curve at x.
func (c *Curve) Value(x float64) float64 {
	n := len(c.xs)
	if n == 1 {
		return c.ys[0]
	}
	switch {
	case x < c.xs[0]:
		return c.combined.leftEx.value(c, x, true)
	case x > c.xs[n-1]:
		return c.combined.rightEx.value(c, x, false)
	default:
		return c.k.value(x)
	}
}

// NodeSensitivity returns d Value(x) / d ys[i] for every control point.
func (c *Curve) NodeSensitivity(x float64) []float64 {
	n := len(c.xs)
	if n == 1 {
		return []float64{1}
	}
	if x >= c.xs[0] && x <= c.xs[n-1] {
		if s := c.k.sensitivity(x); s != nil {
			return s
		}
	} else if x < c.xs[0] && c.combined.leftEx.flat() {
		s := make([]float64, n)
		s[0] = 1
		return s
	} else if x > c.xs[n-1] && c.combined.rightEx.flat() {
		s := make([]float64, n)
		s[n-1] = 1
		return s
	}
	return c.bumpSensitivity(x)
}

// bumpSensitivity refits the curve with each value bumped in turn.
func (c *Curve) bumpSensitivity(x float64) []float64 {
	base := c.Value(x)
	out := make([]float64, len(c.ys))
	ys := make([]float64, len(c.ys))
	for i := range c.ys {
		copy(ys, c.ys)
		eps := 1e-7 * math.Max(1, math.Abs(ys[i]))
		ys[i] += eps
		bumped, err := c.combined.Fit(c.xs, ys)
		if err != nil {
			out[i] = math.NaN()
			continue
		}
		out[i] = (bumped.Value(x) - base) / eps
	}
	return out
}

// slopeAt returns the one-sided derivative of the interpolant at a boundary node.
func (c *Curve) slopeAt(left bool) float64 {
	n := len(c.xs)
	if left {
		h := (c.xs[1] - c.xs[0]) * 1e-4
		return (c.k.value(c.xs[0]+h) - c.ys[0]) / h
	}
	h := (c.xs[n-1] - c.xs[n-2]) * 1e-4
	return (c.ys[n-1] - c.k.value(c.xs[n-1]-h)) / h
}

func normalize(name string) string {
	return strings.ToLower(strings.ReplaceAll(strings.TrimSpace(name), " ", ""))
}
