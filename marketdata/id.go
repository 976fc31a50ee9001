// Package marketdata models market quotes keyed by external identifiers and the providers that
// supply them per valuation date.
package marketdata

import (
	"fmt"
	"strings"
)

// ExternalID identifies a quote in an external scheme, e.g. TICKER~USDSOFR3M.
type ExternalID struct {
	Scheme string
	Value  string
}

// ID builds an ExternalID.
func ID(scheme, value string) ExternalID {
	return ExternalID{Scheme: scheme, Value: value}
}

// ParseID parses the "scheme~value" form.
func ParseID(s string) (ExternalID, error) {
	scheme, value, ok := strings.Cut(strings.TrimSpace(s), "~")
	if !ok || scheme == "" || value == "" {
		return ExternalID{}, fmt.Errorf("marketdata: malformed identifier %q", s)
	}
	return ExternalID{Scheme: scheme, Value: value}, nil
}

func (id ExternalID) String() string {
	return id.Scheme + "~" + id.Value
}

// IsZero reports whether the identifier is empty.
func (id ExternalID) IsZero() bool {
	return id.Scheme == "" && id.Value == ""
}

// Snapshot maps identifiers to quoted values for one valuation date.
type Snapshot map[ExternalID]float64

// Get returns the quote for id.
func (s Snapshot) Get(id ExternalID) (float64, bool) {
	v, ok := s[id]
	return v, ok
}

// Subset returns the quotes for ids that are present in s.
func (s Snapshot) Subset(ids []ExternalID) Snapshot {
	out := make(Snapshot, len(ids))
	for _, id := range ids {
		if v, ok := s[id]; ok {
			out[id] = v
		}
	}
	return out
}
