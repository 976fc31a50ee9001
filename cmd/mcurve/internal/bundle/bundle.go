// Package bundle implements `mcurve bundle`: build a multicurve bundle from JSON curve
// definitions and market quotes and print its curves and building blocks.
package bundle

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/meenmo/mcurve/cmd/mcurve/internal/request"
	"github.com/meenmo/mcurve/config"
	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/failure"
	"github.com/meenmo/mcurve/logging"
	"github.com/meenmo/mcurve/multicurve"
)

// Input is request.Market; see there for the schema.
type Input = request.Market

// CurveOutput describes one built curve.
type CurveOutput struct {
	Name       string    `json:"name"`
	Type       string    `json:"type"`
	Roles      []string  `json:"roles"`
	Offset     int       `json:"offset"`
	Count      int       `json:"count"`
	NodeTimes  []float64 `json:"node_times"`
	NodeValues []float64 `json:"node_values"`
	ZeroRates  []float64 `json:"zero_rates"`
}

type Output struct {
	ValuationDate string        `json:"valuation_date,omitempty"`
	Curves        []CurveOutput `json:"curves,omitempty"`
	JacobianSize  int           `json:"jacobian_size"`
	Error         string        `json:"error,omitempty"`
	Failures      []string      `json:"failures,omitempty"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("bundle", flag.ContinueOnError)
	fs.SetOutput(stderr)
	inputPath := fs.String("input", "", "JSON input path (optional; if set, ignores stdin)")
	configPath := fs.String("config", "", "YAML config path (optional)")
	help := fs.Bool("h", false, "Show help")
	fs.BoolVar(help, "help", false, "Show help")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		usage(stderr)
		return 0
	}

	path := strings.TrimSpace(*inputPath)
	if path == "" && request.Interactive(stdin) {
		usage(stderr)
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return writeError(stdout, err)
	}
	if err := cfg.Validate(); err != nil {
		return writeError(stdout, err)
	}
	logger := logging.New(cfg.Log.Level, cfg.Log.Format, stderr)

	inputBytes, err := request.Read(stdin, path)
	if err != nil {
		return writeError(stdout, fmt.Errorf("failed to read input: %w", err))
	}
	var input Input
	if err := request.Decode(inputBytes, &input); err != nil {
		return writeError(stdout, fmt.Errorf("failed to parse JSON input: %w", err))
	}

	valuation, b, err := input.Assemble(context.Background(), cfg, logger)
	if err != nil {
		return writeError(stdout, err)
	}

	output := describe(valuation, b)
	logger.Info("bundle built", "curves", len(output.Curves), "jacobian_size", output.JacobianSize)
	if err := request.Write(stdout, output); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func describe(valuation time.Time, b *multicurve.Bundle) Output {
	out := Output{
		ValuationDate: valuation.Format(time.DateOnly),
		JacobianSize:  b.BuildingBlock().Size(),
	}
	for _, name := range b.CurveNames() {
		c, _ := b.Curve(name)
		co := CurveOutput{
			Name:       name,
			Type:       curveType(c),
			NodeTimes:  c.NodeTimes(),
			NodeValues: c.NodeValues(),
		}
		for _, r := range b.Roles(name) {
			co.Roles = append(co.Roles, r.String())
		}
		if blk, ok := b.BuildingBlock().Block(name); ok {
			co.Offset = blk.Offset
			co.Count = blk.Count
		}
		for _, t := range co.NodeTimes {
			co.ZeroRates = append(co.ZeroRates, c.ZeroRate(t))
		}
		out.Curves = append(out.Curves, co)
	}
	return out
}

func curveType(c curve.Curve) string {
	switch c := c.(type) {
	case *curve.YieldCurve:
		return "yield"
	case *curve.PeriodicYieldCurve:
		return fmt.Sprintf("periodic-yield/%d", c.PeriodsPerYear())
	case *curve.DiscountFactorCurve:
		return "discount-factor"
	default:
		return "unknown"
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mcurve bundle [-config config.yaml] < input.json")
	fmt.Fprintln(w, "  mcurve bundle [-config config.yaml] -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read curve definitions and quotes as JSON, build the bundle, output JSON to stdout.")
}

func writeError(stdout io.Writer, err error) int {
	output := Output{Error: err.Error()}
	var agg *failure.Aggregated
	if errors.As(err, &agg) {
		for _, f := range agg.Failures() {
			output.Failures = append(output.Failures, f.Error())
		}
	}
	_ = request.Write(stdout, output)
	return 1
}
