package calendar

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// holidayFile is the YAML layout of a holiday file:
//
//	calendars:
//	  USD: ["2024-01-01", "2024-01-15"]
//	  TARGET: ["2024-03-29"]
type holidayFile struct {
	Calendars map[string][]string `yaml:"calendars"`
}

// LoadHolidays decodes a YAML holiday file into calendars keyed by ID.
func LoadHolidays(r io.Reader) (map[CalendarID]*HolidayCalendar, error) {
	var f holidayFile
	if err := yaml.NewDecoder(r).Decode(&f); err != nil && err != io.EOF {
		return nil, fmt.Errorf("LoadHolidays: decode: %w", err)
	}
	out := make(map[CalendarID]*HolidayCalendar, len(f.Calendars))
	for name, days := range f.Calendars {
		hs := make([]time.Time, 0, len(days))
		for _, d := range days {
			t, err := time.Parse(time.DateOnly, d)
			if err != nil {
				return nil, fmt.Errorf("LoadHolidays: calendar %s: %w", name, err)
			}
			hs = append(hs, t)
		}
		out[CalendarID(name)] = New(CalendarID(name), hs...)
	}
	return out, nil
}

// LoadHolidaysFile is LoadHolidays over a file path.
func LoadHolidaysFile(path string) (map[CalendarID]*HolidayCalendar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("LoadHolidaysFile: %w", err)
	}
	defer f.Close()
	return LoadHolidays(f)
}
