// Package market describes currencies and the floating benchmarks curves are built for.
package market

import (
	"fmt"
	"strings"

	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/daycount"
)

// Currency is an ISO 4217 code.
type Currency string

const (
	USD Currency = "USD"
	EUR Currency = "EUR"
	GBP Currency = "GBP"
	JPY Currency = "JPY"
	KRW Currency = "KRW"
)

// OvernightIndex is an overnight benchmark such as SOFR or ESTR.
//
// PublicationLag is the number of business days between a fixing date and the date its value is
// published: 0 for rates published the same day, 1 for next-day publication.
type OvernightIndex struct {
	Name           string
	Currency       Currency
	DayCount       daycount.Convention
	PublicationLag int
	Calendar       calendar.CalendarID
}

func (i OvernightIndex) String() string {
	return i.Name
}

// IborIndex is a term benchmark such as EURIBOR3M.
type IborIndex struct {
	Name       string
	Currency   Currency
	DayCount   daycount.Convention
	Tenor      calendar.Tenor
	SpotLag    int
	Calendar   calendar.CalendarID
	Convention calendar.BusinessDayConvention
	EOM        bool
}

func (i IborIndex) String() string {
	return i.Name
}

// OvernightIndexByName returns the preset overnight index with the given name.
func OvernightIndexByName(name string) (OvernightIndex, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case SOFR.Name:
		return SOFR, nil
	case FEDFUNDS.Name, "FEDFUND", "EFFR":
		return FEDFUNDS, nil
	case ESTR.Name, "€STR":
		return ESTR, nil
	case SONIA.Name:
		return SONIA, nil
	case TONAR.Name, "TONA":
		return TONAR, nil
	case KOFR.Name:
		return KOFR, nil
	default:
		return OvernightIndex{}, fmt.Errorf("market: unknown overnight index %q", name)
	}
}

// IborIndexByName returns the preset term index with the given name.
func IborIndexByName(name string) (IborIndex, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case EURIBOR3M.Name:
		return EURIBOR3M, nil
	case EURIBOR6M.Name:
		return EURIBOR6M, nil
	case TIBOR3M.Name:
		return TIBOR3M, nil
	case TIBOR6M.Name:
		return TIBOR6M, nil
	case CD91D.Name, "CD91":
		return CD91D, nil
	default:
		return IborIndex{}, fmt.Errorf("market: unknown ibor index %q", name)
	}
}
