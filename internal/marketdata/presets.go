package marketdata

import "time"

// Preset maps a requested range key to its lookback window, sample
// interval, label format, and point budget.
type Preset struct {
	Key string

	// Lookback and Interval are provider request parameters.
	Lookback string
	Interval string

	// IntervalCandidates is the coarsening fallback chain attempted for
	// intraday resolution, starting with Interval itself.
	IntervalCandidates []string

	// DateLayout formats axis labels for this granularity.
	DateLayout string

	// MaxPoints is the tail-trim budget for aligned price series.
	MaxPoints int

	// ResampleStep coarsens intraday data before trimming. Zero for
	// non-intraday presets.
	ResampleStep time.Duration

	// ArbBucket and ArbBudget drive the arbitrage history resample: the
	// bucket width and how many trailing buckets are kept.
	ArbBucket time.Duration
	ArbBudget int

	// ArbWindow bounds how far back the arbitrage log is read.
	ArbWindow time.Duration
}

var presets = map[string]Preset{
	"hourly": {
		Key:                "hourly",
		Lookback:           "1d",
		Interval:           "60m",
		IntervalCandidates: []string{"60m", "90m", "1d"},
		DateLayout:         "15:04",
		MaxPoints:          24,
		ResampleStep:       time.Hour,
		ArbBucket:          15 * time.Minute,
		ArbBudget:          24,
		ArbWindow:          24 * time.Hour,
	},
	"daily": {
		Key:        "daily",
		Lookback:   "1mo",
		Interval:   "1d",
		DateLayout: "02 Jan",
		MaxPoints:  30,
		ArbBucket:  24 * time.Hour,
		ArbBudget:  3,
		ArbWindow:  30 * 24 * time.Hour,
	},
	"weekly": {
		Key:        "weekly",
		Lookback:   "6mo",
		Interval:   "1wk",
		DateLayout: "02 Jan",
		MaxPoints:  26,
		ArbBucket:  24 * time.Hour,
		ArbBudget:  7,
		ArbWindow:  180 * 24 * time.Hour,
	},
	"monthly": {
		Key:        "monthly",
		Lookback:   "1y",
		Interval:   "1wk",
		DateLayout: "Jan 06",
		MaxPoints:  52,
		ArbBucket:  24 * time.Hour,
		ArbBudget:  30,
		ArbWindow:  365 * 24 * time.Hour,
	},
}

var intradayIntervals = map[string]bool{
	"1m": true, "2m": true, "5m": true, "15m": true,
	"30m": true, "60m": true, "90m": true, "1h": true,
}

// PresetFor resolves a range key to its preset. "yearly" is an alias for
// the monthly preset; unrecognized keys fall back to daily.
func PresetFor(rangeKey string) Preset {
	if rangeKey == "yearly" {
		rangeKey = "monthly"
	}
	preset, ok := presets[rangeKey]
	if !ok {
		return presets["daily"]
	}
	return preset
}

// Intraday reports whether the preset's interval belongs to the fixed
// small-interval set.
func (p Preset) Intraday() bool {
	return intradayIntervals[p.Interval]
}
