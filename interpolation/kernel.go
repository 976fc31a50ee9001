package interpolation

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// kernel interpolates inside [xs[0], xs[n-1]]. sensitivity may return nil to request a
// bump-and-refit estimate.
type kernel interface {
	fit(xs, ys []float64) error
	value(x float64) float64
	sensitivity(x float64) []float64
}

func kernelFor(name string) (func() kernel, string, error) {
	switch normalize(name) {
	case "linear":
		return func() kernel { return &linearKernel{} }, Linear, nil
	case "loglinear", "exponential":
		return func() kernel { return &logLinearKernel{} }, LogLinear, nil
	case "naturalcubicspline", "naturalcubic", "cubicspline":
		return func() kernel { return &cubicKernel{} }, NaturalCubicSpline, nil
	case "step", "stepupper":
		return func() kernel { return &stepKernel{} }, Step, nil
	default:
		return nil, "", fmt.Errorf("%w: %q", ErrUnknownInterpolator, name)
	}
}

// segment returns i such that xs[i] <= x <= xs[i+1], clamped to the first and last segment.
func segment(xs []float64, x float64) int {
	i := sort.SearchFloat64s(xs, x) - 1
	if i < 0 {
		return 0
	}
	if i > len(xs)-2 {
		return len(xs) - 2
	}
	return i
}

type linearKernel struct {
	xs, ys []float64
	pl     interp.PiecewiseLinear
}

func (k *linearKernel) fit(xs, ys []float64) error {
	k.xs, k.ys = xs, ys
	return k.pl.Fit(xs, ys)
}

func (k *linearKernel) value(x float64) float64 {
	return k.pl.Predict(x)
}

func (k *linearKernel) sensitivity(x float64) []float64 {
	out := make([]float64, len(k.xs))
	i := segment(k.xs, x)
	w := (x - k.xs[i]) / (k.xs[i+1] - k.xs[i])
	out[i] = 1 - w
	out[i+1] = w
	return out
}

// logLinearKernel interpolates ln(y) linearly; all values must be positive.
type logLinearKernel struct {
	xs, ys []float64
	pl     interp.PiecewiseLinear
}

func (k *logLinearKernel) fit(xs, ys []float64) error {
	logs := make([]float64, len(ys))
	for i, y := range ys {
		if y <= 0 {
			return fmt.Errorf("%w: log-linear value %d is %g", ErrInvalidPoints, i, y)
		}
		logs[i] = math.Log(y)
	}
	k.xs, k.ys = xs, ys
	return k.pl.Fit(xs, logs)
}

func (k *logLinearKernel) value(x float64) float64 {
	return math.Exp(k.pl.Predict(x))
}

func (k *logLinearKernel) sensitivity(x float64) []float64 {
	out := make([]float64, len(k.xs))
	i := segment(k.xs, x)
	w := (x - k.xs[i]) / (k.xs[i+1] - k.xs[i])
	v := k.value(x)
	out[i] = v * (1 - w) / k.ys[i]
	out[i+1] = v * w / k.ys[i+1]
	return out
}

// cubicKernel is a natural cubic spline; with two points it degenerates to a straight line.
type cubicKernel struct {
	nc   interp.NaturalCubic
	line *linearKernel
}

func (k *cubicKernel) fit(xs, ys []float64) error {
	if len(xs) < 3 {
		k.line = &linearKernel{}
		return k.line.fit(xs, ys)
	}
	return k.nc.Fit(xs, ys)
}

func (k *cubicKernel) value(x float64) float64 {
	if k.line != nil {
		return k.line.value(x)
	}
	return k.nc.Predict(x)
}

func (k *cubicKernel) sensitivity(x float64) []float64 {
	if k.line != nil {
		return k.line.sensitivity(x)
	}
	return nil
}

// stepKernel is left-continuous: on (xs[i-1], xs[i]] it takes ys[i].
type stepKernel struct {
	xs []float64
	pc interp.PiecewiseConstant
}

func (k *stepKernel) fit(xs, ys []float64) error {
	k.xs = xs
	return k.pc.Fit(xs, ys)
}

func (k *stepKernel) value(x float64) float64 {
	return k.pc.Predict(x)
}

func (k *stepKernel) sensitivity(x float64) []float64 {
	out := make([]float64, len(k.xs))
	i := sort.SearchFloat64s(k.xs, x)
	if i >= len(k.xs) {
		i = len(k.xs) - 1
	}
	out[i] = 1
	return out
}
