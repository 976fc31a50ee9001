// Package timeseries holds historical fixing series keyed by date and the sources that load them.
package timeseries

import (
	"time"
)

// Series is a dated history of fixings.
type Series interface {
	// ValueOn returns the fixing for the calendar date of date.
	ValueOn(date time.Time) (float64, bool)
	// LatestDate returns the last date with a fixing; false for an empty series.
	LatestDate() (time.Time, bool)
}

// MapSeries is an immutable map-backed Series.
type MapSeries struct {
	values map[string]float64
	latest time.Time
}

// NewMapSeries copies fixings keyed by date. Only the date part of each key is used.
func NewMapSeries(fixings map[time.Time]float64) *MapSeries {
	s := &MapSeries{values: make(map[string]float64, len(fixings))}
	for d, v := range fixings {
		s.values[d.Format(time.DateOnly)] = v
		day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		if day.After(s.latest) {
			s.latest = day
		}
	}
	return s
}

func (s *MapSeries) ValueOn(date time.Time) (float64, bool) {
	if s == nil {
		return 0, false
	}
	v, ok := s.values[date.Format(time.DateOnly)]
	return v, ok
}

func (s *MapSeries) LatestDate() (time.Time, bool) {
	if s == nil || len(s.values) == 0 {
		return time.Time{}, false
	}
	return s.latest, true
}

// Len returns the number of fixings.
func (s *MapSeries) Len() int {
	if s == nil {
		return 0
	}
	return len(s.values)
}
