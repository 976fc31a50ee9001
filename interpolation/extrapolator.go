package interpolation

import (
	"fmt"
	"math"
)

// extrapolator evaluates a fitted curve outside its control points.
type extrapolator interface {
	value(c *Curve, x float64, left bool) float64
	flat() bool
}

func extrapolatorFor(name string) (extrapolator, string, error) {
	switch normalize(name) {
	case "", "flat", "flatextrapolator":
		return flatExtrapolator{}, FlatExtrapolator, nil
	case "linear", "linearextrapolator":
		return linearExtrapolator{}, LinearExtrapolator, nil
	case "loglinear", "loglinearextrapolator", "exponential", "exponentialextrapolator":
		return logLinearExtrapolator{}, LogLinearExtrapolator, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownExtrapolator, name)
	}
}

type flatExtrapolator struct{}

func (flatExtrapolator) value(c *Curve, _ float64, left bool) float64 {
	if left {
		return c.ys[0]
	}
	return c.ys[len(c.ys)-1]
}

func (flatExtrapolator) flat() bool { return true }

// linearExtrapolator extends the curve along its slope at the boundary node.
type linearExtrapolator struct{}

func (linearExtrapolator) value(c *Curve, x float64, left bool) float64 {
	x0, y0 := edge(c, left)
	return y0 + c.slopeAt(left)*(x-x0)
}

func (linearExtrapolator) flat() bool { return false }

// logLinearExtrapolator extends ln(value) linearly, keeping values positive.
type logLinearExtrapolator struct{}

func (logLinearExtrapolator) value(c *Curve, x float64, left bool) float64 {
	x0, y0 := edge(c, left)
	if y0 <= 0 {
		return math.NaN()
	}
	return y0 * math.Exp(c.slopeAt(left)/y0*(x-x0))
}

func (logLinearExtrapolator) flat() bool { return false }

func edge(c *Curve, left bool) (float64, float64) {
	if left {
		return c.xs[0], c.ys[0]
	}
	n := len(c.xs)
	return c.xs[n-1], c.ys[n-1]
}
