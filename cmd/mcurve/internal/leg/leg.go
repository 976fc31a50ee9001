// Package leg implements `mcurve leg`: build an arithmetic-average overnight leg, resolve its
// coupons against historical fixings and, when curves are supplied, price it.
package leg

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/cmd/mcurve/internal/request"
	"github.com/meenmo/mcurve/config"
	"github.com/meenmo/mcurve/coupon"
	"github.com/meenmo/mcurve/failure"
	oisleg "github.com/meenmo/mcurve/leg"
	"github.com/meenmo/mcurve/logging"
	"github.com/meenmo/mcurve/market"
	"github.com/meenmo/mcurve/multicurve"
	"github.com/meenmo/mcurve/pricing"
	"github.com/meenmo/mcurve/timeseries"
	"github.com/meenmo/mcurve/utils"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// LegInput describes the leg.
//
// Conventions:
// - dates are YYYY-MM-DD
// - spread is in bp (e.g., 10 means +10bp)
// - end may be replaced by tenor (e.g., "6M"), counted from settlement
type LegInput struct {
	Settlement    string  `json:"settlement"`
	End           string  `json:"end"`
	Tenor         string  `json:"tenor"`
	Notional      float64 `json:"notional"`
	Direction     string  `json:"direction"` // PAY or REC
	Index         string  `json:"index"`
	PaymentLag    int     `json:"payment_lag"`
	Calendar      string  `json:"calendar"` // defaults to the index calendar
	Convention    string  `json:"convention"`
	PaymentPeriod string  `json:"payment_period"`
	EOM           bool    `json:"eom"`
	SpreadBP      float64 `json:"spread_bp"`
}

// Input is the market section plus the leg and, optionally, inline fixings of the leg index.
// Without inline fixings the fixings file or Redis from the config is used.
type Input struct {
	request.Market
	Leg     LegInput           `json:"leg"`
	Fixings map[string]float64 `json:"fixings,omitempty"`
}

type CouponOutput struct {
	Kind             string  `json:"kind"`
	PaymentDate      string  `json:"payment_date"`
	PaymentTime      float64 `json:"payment_time"`
	Notional         float64 `json:"notional"`
	Rate             float64 `json:"rate,omitempty"`
	AccruedRate      float64 `json:"accrued_rate,omitempty"`
	RemainingPeriods int     `json:"remaining_periods,omitempty"`
}

type CashflowOutput struct {
	PaymentDate    string          `json:"payment_date"`
	Kind           string          `json:"kind"`
	Rate           float64         `json:"rate"`
	Amount         decimal.Decimal `json:"amount"`
	DiscountFactor float64         `json:"discount_factor"`
	PresentValue   decimal.Decimal `json:"present_value"`
}

type Output struct {
	ValuationDate string               `json:"valuation_date,omitempty"`
	Coupons       []CouponOutput       `json:"coupons,omitempty"`
	Cashflows     []CashflowOutput     `json:"cashflows,omitempty"`
	TotalPV       *decimal.Decimal     `json:"total_pv,omitempty"`
	PV01          map[string][]float64 `json:"pv01,omitempty"`
	Error         string               `json:"error,omitempty"`
	Failures      []string             `json:"failures,omitempty"`
}

func Run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("leg", flag.ContinueOnError)
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

	output, err := calculate(context.Background(), input, cfg, logger)
	if err != nil {
		return writeError(stdout, err)
	}
	if err := request.Write(stdout, output); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func calculate(ctx context.Context, input Input, cfg *config.Config, logger *slog.Logger) (Output, error) {
	idx, err := market.OvernightIndexByName(input.Leg.Index)
	if err != nil {
		return Output{}, err
	}
	params, err := legParams(input.Leg, idx, cfg, logger)
	if err != nil {
		return Output{}, err
	}
	annuity, err := oisleg.Build(params)
	if err != nil {
		return Output{}, err
	}

	var (
		valuation time.Time
		bundle    *multicurve.Bundle
	)
	if len(input.Curves) > 0 {
		valuation, bundle, err = input.Assemble(ctx, cfg, logger)
		if err != nil {
			return Output{}, err
		}
	} else {
		valuation, err = utils.ParseDate(input.ValuationDate)
		if err != nil {
			return Output{}, fmt.Errorf("invalid valuation_date: %w", err)
		}
	}

	series, err := fixings(ctx, input, idx, cfg)
	if err != nil {
		return Output{}, err
	}
	resolver := &coupon.Resolver{LookbackDays: cfg.Fixings.LookbackDays}
	ds, err := annuity.Resolve(resolver, valuation, series)
	if err != nil {
		return Output{}, err
	}
	logger.Debug("leg resolved", "index", idx.Name, "coupons", annuity.Len(), "outstanding", len(ds))

	out := Output{ValuationDate: valuation.Format(time.DateOnly)}
	for _, d := range ds {
		out.Coupons = append(out.Coupons, describe(d))
	}
	if bundle == nil {
		return out, nil
	}

	rows, err := pricing.Cashflows(ds, bundle)
	if err != nil {
		return Output{}, err
	}
	for _, r := range rows {
		out.Cashflows = append(out.Cashflows, CashflowOutput{
			PaymentDate:    r.PaymentDate.Format(time.DateOnly),
			Kind:           r.Kind,
			Rate:           r.Rate,
			Amount:         r.Amount,
			DiscountFactor: r.DiscountFactor,
			PresentValue:   r.PresentValue,
		})
	}
	total := pricing.Total(rows)
	out.TotalPV = &total

	out.PV01 = make(map[string][]float64)
	for _, d := range ds {
		sens, err := pricing.QuoteSensitivities(d, bundle)
		if err != nil {
			return Output{}, err
		}
		for name, s := range sens {
			acc, ok := out.PV01[name]
			if !ok {
				acc = make([]float64, len(s))
				out.PV01[name] = acc
			}
			for i := range s {
				acc[i] += s[i]
			}
		}
	}
	return out, nil
}

func legParams(in LegInput, idx market.OvernightIndex, cfg *config.Config, logger *slog.Logger) (oisleg.Params, error) {
	settlement, err := utils.ParseDate(in.Settlement)
	if err != nil {
		return oisleg.Params{}, fmt.Errorf("invalid settlement: %w", err)
	}

	var end time.Time
	switch {
	case in.End != "":
		if end, err = utils.ParseDate(in.End); err != nil {
			return oisleg.Params{}, fmt.Errorf("invalid end: %w", err)
		}
	case in.Tenor != "":
		tenor, err := calendar.ParseTenor(in.Tenor)
		if err != nil {
			return oisleg.Params{}, err
		}
		end = tenor.AddTo(settlement)
	default:
		return oisleg.Params{}, fmt.Errorf("leg: one of end or tenor is required")
	}

	period := in.PaymentPeriod
	if period == "" {
		period = "1Y"
	}
	paymentPeriod, err := calendar.ParseTenor(period)
	if err != nil {
		return oisleg.Params{}, err
	}

	calID := in.Calendar
	if calID == "" {
		calID = string(idx.Calendar)
	}
	cal, err := request.Calendar(cfg, calID, logger)
	if err != nil {
		return oisleg.Params{}, err
	}

	conv := calendar.BusinessDayConvention(strings.ToUpper(strings.TrimSpace(in.Convention)))
	if conv == "" {
		conv = calendar.ModifiedFollowing
	}

	var payer bool
	switch strings.ToUpper(strings.TrimSpace(in.Direction)) {
	case "PAY", "PAYER":
		payer = true
	case "REC", "RECEIVER", "":
	default:
		return oisleg.Params{}, fmt.Errorf("leg: direction must be PAY or REC, got %q", in.Direction)
	}

	return oisleg.Params{
		Settlement:    settlement,
		End:           end,
		Notional:      in.Notional,
		Payer:         payer,
		Index:         idx,
		PaymentLag:    in.PaymentLag,
		Calendar:      cal,
		Convention:    conv,
		PaymentPeriod: paymentPeriod,
		EOM:           in.EOM,
		Spread:        in.SpreadBP * pricing.OneBasisPoint,
	}, nil
}

// fixings returns the series of idx from, in order of preference, the inline fixings, the
// configured fixings file or Redis. With none of them the series is empty.
func fixings(ctx context.Context, input Input, idx market.OvernightIndex, cfg *config.Config) (timeseries.Series, error) {
	if len(input.Fixings) > 0 {
		series, err := timeseries.ParseSeries(input.Fixings)
		if err != nil {
			return nil, fmt.Errorf("invalid fixings: %w", err)
		}
		return series, nil
	}
	if cfg.Fixings.File != "" {
		src, err := timeseries.LoadFixingsFile(cfg.Fixings.File)
		if err != nil {
			return nil, err
		}
		return src.Series(ctx, idx.Name)
	}
	if cfg.Redis.Addr != "" {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer client.Close()
		return timeseries.NewRedisSource(client, cfg.Redis.KeyPrefix).Series(ctx, idx.Name)
	}
	return timeseries.NewMapSeries(nil), nil
}

func describe(d coupon.Derivative) CouponOutput {
	switch d := d.(type) {
	case *coupon.Fixed:
		return CouponOutput{
			Kind:        "FIXED",
			PaymentDate: d.PaymentDate.Format(time.DateOnly),
			PaymentTime: d.Payment,
			Notional:    d.Notional,
			Rate:        d.Rate,
		}
	case *coupon.ArithmeticAverageON:
		return CouponOutput{
			Kind:             "ON-AVERAGE " + d.Index.Name,
			PaymentDate:      d.PaymentDate.Format(time.DateOnly),
			PaymentTime:      d.Payment,
			Notional:         d.Notional,
			AccruedRate:      d.AccruedRate,
			RemainingPeriods: len(d.StartTimes),
		}
	default:
		return CouponOutput{Kind: "unknown"}
	}
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintln(w, "  mcurve leg [-config config.yaml] < input.json")
	fmt.Fprintln(w, "  mcurve leg [-config config.yaml] -input /path/to/input.json")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Read an overnight leg as JSON, resolve its coupons against fixings and, when curves")
	fmt.Fprintln(w, "are given, price it. Output JSON to stdout.")
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
