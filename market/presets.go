package market

import (
	"github.com/meenmo/mcurve/calendar"
	"github.com/meenmo/mcurve/daycount"
)

// Overnight benchmarks.
var (
	SOFR = OvernightIndex{
		Name:           "SOFR",
		Currency:       USD,
		DayCount:       daycount.Act360,
		PublicationLag: 1,
		Calendar:       calendar.USD,
	}

	FEDFUNDS = OvernightIndex{
		Name:           "FEDFUNDS",
		Currency:       USD,
		DayCount:       daycount.Act360,
		PublicationLag: 1,
		Calendar:       calendar.USD,
	}

	ESTR = OvernightIndex{
		Name:           "ESTR",
		Currency:       EUR,
		DayCount:       daycount.Act360,
		PublicationLag: 1,
		Calendar:       calendar.TARGET,
	}

	SONIA = OvernightIndex{
		Name:           "SONIA",
		Currency:       GBP,
		DayCount:       daycount.Act365F,
		PublicationLag: 0,
		Calendar:       calendar.GBP,
	}

	TONAR = OvernightIndex{
		Name:           "TONAR",
		Currency:       JPY,
		DayCount:       daycount.Act365F,
		PublicationLag: 1,
		Calendar:       calendar.JPN,
	}

	KOFR = OvernightIndex{
		Name:           "KOFR",
		Currency:       KRW,
		DayCount:       daycount.Act365F,
		PublicationLag: 1,
		Calendar:       calendar.KRW,
	}
)

// Term benchmarks.
var (
	EURIBOR3M = IborIndex{
		Name:       "EURIBOR3M",
		Currency:   EUR,
		DayCount:   daycount.Act360,
		Tenor:      calendar.Tenor{N: 3, Unit: calendar.Month},
		SpotLag:    2,
		Calendar:   calendar.TARGET,
		Convention: calendar.ModifiedFollowing,
		EOM:        true,
	}

	EURIBOR6M = IborIndex{
		Name:       "EURIBOR6M",
		Currency:   EUR,
		DayCount:   daycount.Act360,
		Tenor:      calendar.Tenor{N: 6, Unit: calendar.Month},
		SpotLag:    2,
		Calendar:   calendar.TARGET,
		Convention: calendar.ModifiedFollowing,
		EOM:        true,
	}

	TIBOR3M = IborIndex{
		Name:       "TIBOR3M",
		Currency:   JPY,
		DayCount:   daycount.Act365F,
		Tenor:      calendar.Tenor{N: 3, Unit: calendar.Month},
		SpotLag:    2,
		Calendar:   calendar.JPN,
		Convention: calendar.ModifiedFollowing,
		EOM:        true,
	}

	TIBOR6M = IborIndex{
		Name:       "TIBOR6M",
		Currency:   JPY,
		DayCount:   daycount.Act365F,
		Tenor:      calendar.Tenor{N: 6, Unit: calendar.Month},
		SpotLag:    2,
		Calendar:   calendar.JPN,
		Convention: calendar.ModifiedFollowing,
		EOM:        true,
	}

	CD91D = IborIndex{
		Name:       "CD91D",
		Currency:   KRW,
		DayCount:   daycount.Act365F,
		Tenor:      calendar.Tenor{N: 3, Unit: calendar.Month},
		SpotLag:    1,
		Calendar:   calendar.KRW,
		Convention: calendar.ModifiedFollowing,
	}
)
