package calendar

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meenmo/mcurve/utils"
)

// Unit is the period unit of a Tenor.
type Unit byte

const (
	Day   Unit = 'D'
	Week  Unit = 'W'
	Month Unit = 'M'
	Year  Unit = 'Y'
)

// Tenor is a period such as 1W, 3M or 10Y.
type Tenor struct {
	N    int
	Unit Unit
}

// ParseTenor converts strings like "1W", "3M", "10Y" or "ON" into a Tenor.
func ParseTenor(s string) (Tenor, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	switch s {
	case "ON", "O/N":
		return Tenor{N: 1, Unit: Day}, nil
	case "":
		return Tenor{}, fmt.Errorf("ParseTenor: empty tenor")
	}
	u := Unit(s[len(s)-1])
	switch u {
	case Day, Week, Month, Year:
	default:
		return Tenor{}, fmt.Errorf("ParseTenor: unknown unit in %q", s)
	}
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		return Tenor{}, fmt.Errorf("ParseTenor: %q: %w", s, err)
	}
	return Tenor{N: n, Unit: u}, nil
}

// MustParseTenor is ParseTenor for literals known to be valid.
func MustParseTenor(s string) Tenor {
	t, err := ParseTenor(s)
	if err != nil {
		panic(err)
	}
	return t
}

func (t Tenor) String() string {
	return strconv.Itoa(t.N) + string(t.Unit)
}

// IsZero reports whether the tenor has no length.
func (t Tenor) IsZero() bool {
	return t.N == 0
}

// Months returns the tenor length in months and whether the unit is month based.
func (t Tenor) Months() (int, bool) {
	switch t.Unit {
	case Month:
		return t.N, true
	case Year:
		return 12 * t.N, true
	default:
		return 0, false
	}
}

// Times returns the tenor scaled by k.
func (t Tenor) Times(k int) Tenor {
	return Tenor{N: t.N * k, Unit: t.Unit}
}

// AddTo moves d forward by the tenor. Month based tenors clip to the end of the target month.
func (t Tenor) AddTo(d time.Time) time.Time {
	switch t.Unit {
	case Day:
		return d.AddDate(0, 0, t.N)
	case Week:
		return d.AddDate(0, 0, 7*t.N)
	default:
		m, _ := t.Months()
		return utils.AddMonth(d, m)
	}
}
