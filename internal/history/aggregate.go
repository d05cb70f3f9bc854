package history

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"gram-gold-watch/internal/marketdata"
)

// troyOunceGrams converts an ounce price to a gram price.
const troyOunceGrams = 31.1035

// SeriesResolver is the resolution boundary consumed by the aggregator.
type SeriesResolver interface {
	ResolveAll(ctx context.Context, preset marketdata.Preset) map[marketdata.Instrument]marketdata.Series
}

// Aggregator aligns the tracked instrument series on a shared timeline and
// derives the gram-equivalent price series.
type Aggregator struct {
	resolver SeriesResolver
	logger   zerolog.Logger
	now      func() time.Time
}

// NewAggregator constructs a history aggregator.
func NewAggregator(resolver SeriesResolver, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		resolver: resolver,
		logger:   logger.With().Str("component", "history_aggregator").Logger(),
		now:      time.Now,
	}
}

// Aggregate builds the aligned history and per-instrument stats for a
// preset. Any failure resets the whole result to zero stats and an empty
// history: partial aggregates are never surfaced.
func (a *Aggregator) Aggregate(ctx context.Context, preset marketdata.Preset) (History, map[marketdata.Instrument]Stats) {
	hist, stats, err := a.aggregate(ctx, preset)
	if err != nil {
		a.logger.Warn().Err(err).Str("range", preset.Key).Msg("aggregation failed, serving zero result")
		return NewHistory(), ZeroStats()
	}
	return hist, stats
}

// ZeroStats is the all-zero instrument map used when aggregation fails.
func ZeroStats() map[marketdata.Instrument]Stats {
	out := make(map[marketdata.Instrument]Stats, len(marketdata.Instruments))
	for _, instrument := range marketdata.Instruments {
		out[instrument] = Stats{}
	}
	return out
}

func (a *Aggregator) aggregate(ctx context.Context, preset marketdata.Preset) (History, map[marketdata.Instrument]Stats, error) {
	resolved := a.resolver.ResolveAll(ctx, preset)

	times, columns, err := align(resolved)
	if err != nil {
		return History{}, nil, err
	}

	if preset.Intraday() && preset.ResampleStep > 0 && len(times) > 0 {
		times, columns = resample(times, columns, preset.ResampleStep, a.now().UTC())
	}

	times, columns = trimTail(times, columns, preset.MaxPoints)

	hist := NewHistory()
	for _, t := range times {
		hist.Dates = append(hist.Dates, t.Format(preset.DateLayout))
	}

	spot, hasSpot := columns[marketdata.Spot]
	fx, hasFx := columns[marketdata.FxRate]
	yield, hasYield := columns[marketdata.YieldIndex]

	if hasSpot {
		hist.SpotPrices = roundAll(spot, 2)
	}
	if hasFx {
		hist.FxPrices = roundAll(fx, 4)
	}
	if hasYield {
		hist.YieldPrices = roundAll(yield, 2)
	}
	if hasSpot && hasFx {
		gram := make([]float64, len(spot))
		for i := range spot {
			gram[i] = round(spot[i]*fx[i]/troyOunceGrams, 2)
		}
		hist.GramPrices = gram
	}

	stats := make(map[marketdata.Instrument]Stats, len(marketdata.Instruments))
	for _, instrument := range marketdata.Instruments {
		stats[instrument] = latestStats(columns[instrument])
	}

	// The finest intraday granularity is exempt: its resample step already
	// reaches the current moment.
	if !preset.Intraday() {
		arrays := [][]float64{hist.SpotPrices, hist.FxPrices, hist.YieldPrices, hist.GramPrices}
		hist.Dates, arrays = PadToNow(hist.Dates, arrays, preset.DateLayout, preset.MaxPoints, a.now())
		hist.SpotPrices, hist.FxPrices, hist.YieldPrices, hist.GramPrices = arrays[0], arrays[1], arrays[2], arrays[3]
	}

	return hist, stats, nil
}

// align builds a combined table indexed by the union of timestamps,
// forward-filling then backward-filling gaps. Instruments with entirely
// empty series are dropped from the table.
func align(resolved map[marketdata.Instrument]marketdata.Series) ([]time.Time, map[marketdata.Instrument][]float64, error) {
	var union []time.Time
	seen := make(map[int64]bool)
	for _, series := range resolved {
		for _, t := range series.Times {
			if !seen[t.Unix()] {
				seen[t.Unix()] = true
				union = append(union, t)
			}
		}
	}
	sort.Slice(union, func(i, j int) bool { return union[i].Before(union[j]) })

	columns := make(map[marketdata.Instrument][]float64)
	for instrument, series := range resolved {
		if series.Empty() {
			continue
		}
		if len(series.Times) != len(series.Values) {
			return nil, nil, fmt.Errorf("instrument %s: %d timestamps but %d values",
				instrument, len(series.Times), len(series.Values))
		}

		column := make([]float64, len(union))
		j := 0
		for i, t := range union {
			for j < len(series.Times) && !series.Times[j].After(t) {
				j++
			}
			if j > 0 {
				column[i] = series.Values[j-1]
			} else {
				column[i] = math.NaN()
			}
		}

		// Backward-fill the leading gap.
		first := math.NaN()
		for _, v := range column {
			if !math.IsNaN(v) {
				first = v
				break
			}
		}
		for i := range column {
			if math.IsNaN(column[i]) {
				column[i] = first
			} else {
				break
			}
		}

		columns[instrument] = column
	}

	return union, columns, nil
}

// resample coarsens the aligned table to fixed step buckets, taking the
// last value in each bucket and carrying values forward through empty
// buckets up to the current moment.
func resample(times []time.Time, columns map[marketdata.Instrument][]float64, step time.Duration, now time.Time) ([]time.Time, map[marketdata.Instrument][]float64) {
	first := times[0].Truncate(step)
	last := now.Truncate(step)
	if last.Before(first) {
		last = first
	}

	// Last source index landing in each bucket.
	buckets := make(map[time.Time]int)
	for i, t := range times {
		buckets[t.Truncate(step)] = i
	}

	var outTimes []time.Time
	indexes := make([]int, 0)
	carry := -1
	for t := first; !t.After(last); t = t.Add(step) {
		if idx, ok := buckets[t]; ok {
			carry = idx
		}
		if carry < 0 {
			continue
		}
		outTimes = append(outTimes, t)
		indexes = append(indexes, carry)
	}

	outColumns := make(map[marketdata.Instrument][]float64, len(columns))
	for instrument, column := range columns {
		resampled := make([]float64, len(indexes))
		for i, idx := range indexes {
			resampled[i] = column[idx]
		}
		outColumns[instrument] = resampled
	}

	return outTimes, outColumns
}

// trimTail keeps the most recent maxPoints samples.
func trimTail(times []time.Time, columns map[marketdata.Instrument][]float64, maxPoints int) ([]time.Time, map[marketdata.Instrument][]float64) {
	if maxPoints <= 0 || len(times) <= maxPoints {
		return times, columns
	}
	cut := len(times) - maxPoints
	times = times[cut:]
	for instrument, column := range columns {
		columns[instrument] = column[cut:]
	}
	return times, columns
}

func latestStats(column []float64) Stats {
	if len(column) == 0 {
		return Stats{}
	}
	current := column[len(column)-1]
	stats := Stats{Price: round(current, 2)}
	if len(column) >= 2 {
		prev := column[len(column)-2]
		if prev != 0 {
			stats.Change = round((current-prev)/prev*100, 2)
		}
	}
	return stats
}

func round(v float64, places int) float64 {
	factor := math.Pow10(places)
	return math.Round(v*factor) / factor
}

func roundAll(values []float64, places int) []float64 {
	out := make([]float64, len(values))
	for i, v := range values {
		out[i] = round(v, places)
	}
	return out
}
