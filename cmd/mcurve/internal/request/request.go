// Package request decodes the JSON curve and bundle sections shared by the mcurve commands and
// turns them into library inputs.
package request

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/config"
	"github.com/meenmo/mcurve/curve"
	"github.com/meenmo/mcurve/market"
	"github.com/meenmo/mcurve/marketdata"
	"github.com/meenmo/mcurve/multicurve"
	"github.com/meenmo/mcurve/utils"
)

// Node is one curve node. Type is "rate", "df" or "periodic".
type Node struct {
	Type           string `json:"type"`
	Tenor          string `json:"tenor"`
	ID             string `json:"id"`
	PeriodsPerYear int    `json:"periods_per_year,omitempty"`
}

// Curve is a curve specification.
type Curve struct {
	Name              string `json:"name"`
	Interpolator      string `json:"interpolator"`
	LeftExtrapolator  string `json:"left_extrapolator"`
	RightExtrapolator string `json:"right_extrapolator"`
	Nodes             []Node `json:"nodes"`
}

// CurveRoles names a curve of a group and what it is used for.
type CurveRoles struct {
	Name        string   `json:"name"`
	Discounting []string `json:"discounting,omitempty"`
	Ibor        []string `json:"ibor,omitempty"`
	Overnight   []string `json:"overnight,omitempty"`
}

// Market is the market section of every request.
//
//	{
//	  "valuation_date": "2024-03-15",
//	  "snapshot_file": "quotes.yaml",
//	  "quotes": {"TICKER~USDSOFR1M": 0.0531},
//	  "curves": [...],
//	  "groups": [[{"name": "USD-SOFR", "discounting": ["USD"], "overnight": ["SOFR"]}]]
//	}
type Market struct {
	ValuationDate string             `json:"valuation_date"`
	SnapshotFile  string             `json:"snapshot_file,omitempty"`
	Quotes        map[string]float64 `json:"quotes,omitempty"`
	Curves        []Curve            `json:"curves"`
	Groups        [][]CurveRoles     `json:"groups"`
}

// Read returns the bytes of path, or of stdin when path is empty.
func Read(stdin io.Reader, path string) ([]byte, error) {
	if path != "" {
		return os.ReadFile(path)
	}
	return io.ReadAll(stdin)
}

// Decode unmarshals JSON into v.
func Decode(data []byte, v any) error {
	return json.Unmarshal(data, v)
}

// Write marshals v as one JSON line.
func Write(w io.Writer, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(b))
	return err
}

// Specifications converts the curve section.
func (m Market) Specifications() (multicurve.MapSpecificationSource, error) {
	out := make(multicurve.MapSpecificationSource, len(m.Curves))
	for _, c := range m.Curves {
		nodes := make([]curve.Node, len(c.Nodes))
		for i, n := range c.Nodes {
			tenor, err := calendar.ParseTenor(n.Tenor)
			if err != nil {
				return nil, fmt.Errorf("curve %s node %d: %w", c.Name, i, err)
			}
			id, err := marketdata.ParseID(n.ID)
			if err != nil {
				return nil, fmt.Errorf("curve %s node %d: %w", c.Name, i, err)
			}
			switch strings.ToLower(n.Type) {
			case "rate", "continuous", "":
				nodes[i] = curve.ContinuouslyCompoundedNode(tenor, id)
			case "df", "discount_factor":
				nodes[i] = curve.DiscountFactorNode(tenor, id)
			case "periodic":
				nodes[i] = curve.PeriodicallyCompoundedNode(tenor, id, n.PeriodsPerYear)
			default:
				return nil, fmt.Errorf("curve %s node %d: unknown node type %q", c.Name, i, n.Type)
			}
		}
		spec, err := curve.NewSpecification(c.Name, nodes, c.Interpolator, c.LeftExtrapolator, c.RightExtrapolator)
		if err != nil {
			return nil, err
		}
		out[c.Name] = spec
	}
	return out, nil
}

// Configuration converts the group section.
func (m Market) Configuration(name string) (multicurve.Configuration, error) {
	cfg := multicurve.Configuration{Name: name}
	for _, g := range m.Groups {
		var group multicurve.Group
		for _, c := range g {
			def := multicurve.CurveDefinition{Name: c.Name}
			for _, ccy := range c.Discounting {
				def.Roles = append(def.Roles, multicurve.Discounting{Currency: market.Currency(strings.ToUpper(ccy))})
			}
			for _, s := range c.Ibor {
				idx, err := market.IborIndexByName(s)
				if err != nil {
					return cfg, fmt.Errorf("curve %s: %w", c.Name, err)
				}
				def.Roles = append(def.Roles, multicurve.IborForward{Index: idx})
			}
			for _, s := range c.Overnight {
				idx, err := market.OvernightIndexByName(s)
				if err != nil {
					return cfg, fmt.Errorf("curve %s: %w", c.Name, err)
				}
				def.Roles = append(def.Roles, multicurve.OvernightForward{Index: idx})
			}
			group.Curves = append(group.Curves, def)
		}
		cfg.Groups = append(cfg.Groups, group)
	}
	return cfg, nil
}

// Snapshot merges the snapshot file (from the request or, failing that, the config) with inline
// quotes, inline quotes winning. The valuation date comes from the request or the snapshot file.
func (m Market) Snapshot(cfg *config.Config) (time.Time, marketdata.Snapshot, error) {
	snap := make(marketdata.Snapshot)
	var valuation time.Time

	path := m.SnapshotFile
	if path == "" {
		path = cfg.MarketData.SnapshotFile
	}
	if path != "" {
		d, s, err := marketdata.LoadSnapshotFile(path)
		if err != nil {
			return time.Time{}, nil, err
		}
		valuation = d
		for k, v := range s {
			snap[k] = v
		}
	}
	for k, v := range m.Quotes {
		id, err := marketdata.ParseID(k)
		if err != nil {
			return time.Time{}, nil, err
		}
		snap[id] = v
	}

	if m.ValuationDate != "" {
		d, err := utils.ParseDate(m.ValuationDate)
		if err != nil {
			return time.Time{}, nil, fmt.Errorf("invalid valuation_date: %w", err)
		}
		valuation = d
	}
	if valuation.IsZero() {
		return time.Time{}, nil, fmt.Errorf("valuation_date is required")
	}
	return valuation, snap, nil
}

// Assemble builds the bundle described by m.
func (m Market) Assemble(ctx context.Context, cfg *config.Config, logger *slog.Logger) (time.Time, *multicurve.Bundle, error) {
	valuation, snap, err := m.Snapshot(cfg)
	if err != nil {
		return time.Time{}, nil, err
	}
	specs, err := m.Specifications()
	if err != nil {
		return time.Time{}, nil, err
	}
	conf, err := m.Configuration("request")
	if err != nil {
		return time.Time{}, nil, err
	}
	// One request per process: the cache only spares repeated ids within this Assemble.
	provider := marketdata.NewCachedProvider(marketdata.NewStaticProvider(snap), cfg.Assembler.QuoteCacheTTL)
	asm := multicurve.NewAssembler(specs, provider, logger, cfg.Assembler.Concurrency)
	b, err := asm.Assemble(ctx, valuation, conf)
	return valuation, b, err
}

// Calendar returns the holiday calendar id from the configured calendar file, or a weekends-only
// calendar named id when no holidays are known.
func Calendar(cfg *config.Config, id string, logger *slog.Logger) (calendar.Calendar, error) {
	cid := calendar.CalendarID(strings.ToUpper(strings.TrimSpace(id)))
	if cid == "" {
		cid = calendar.Weekends
	}
	if cfg.MarketData.CalendarFile != "" {
		cals, err := calendar.LoadHolidaysFile(cfg.MarketData.CalendarFile)
		if err != nil {
			return nil, err
		}
		if c, ok := cals[cid]; ok {
			return c, nil
		}
	}
	if cid != calendar.Weekends {
		logger.Warn("no holidays configured, using weekends only", "calendar", cid)
	}
	return calendar.New(cid), nil
}

// Interactive reports whether stdin is a terminal rather than a pipe or file.
func Interactive(stdin io.Reader) bool {
	f, ok := stdin.(*os.File)
	if !ok {
		return false
	}
	stat, err := f.Stat()
	return err == nil && (stat.Mode()&os.ModeCharDevice) != 0
}
