package arblog

import (
	"sort"
	"time"

	"gram-gold-watch/internal/marketdata"
)

// Series is the resampled arbitrage history returned to callers. Both
// slices are always non-nil and index-aligned.
type Series struct {
	Dates  []string
	Values []float64
}

func emptySeries() Series {
	return Series{Dates: []string{}, Values: []float64{}}
}

// History resamples the persisted log to the preset's granularity: the
// last value within each bucket, trailing buckets only, bounded by the
// preset's point budget. An absent, empty, or unreadable store yields
// empty arrays so callers can fall back to a synthetic flat line.
func (l *Log) History(preset marketdata.Preset, now time.Time) Series {
	records, err := l.Records()
	if err != nil || len(records) == 0 {
		return emptySeries()
	}

	start := now.Add(-preset.ArbWindow)
	buckets := make(map[time.Time]float64)
	var first time.Time
	for _, record := range records {
		if record.Timestamp.Before(start) || record.Timestamp.After(now) {
			continue
		}
		bucket := bucketStart(record.Timestamp, preset.ArbBucket)
		buckets[bucket] = record.Spread.InexactFloat64()
		if first.IsZero() || bucket.Before(first) {
			first = bucket
		}
	}
	if len(buckets) == 0 {
		return emptySeries()
	}

	if preset.Intraday() {
		return denseSeries(buckets, first, now, preset)
	}
	return sparseSeries(buckets, preset)
}

// bucketStart truncates a timestamp to its bucket. Day-wide buckets start
// at local midnight, matching the log's local-time row timestamps; Truncate
// alone would shift day boundaries by the zone offset.
func bucketStart(t time.Time, width time.Duration) time.Time {
	if width == 24*time.Hour {
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
	}
	return t.Truncate(width)
}

// sparseSeries keeps only buckets that actually hold samples, most recent
// budget of them.
func sparseSeries(buckets map[time.Time]float64, preset marketdata.Preset) Series {
	times := make([]time.Time, 0, len(buckets))
	for t := range buckets {
		times = append(times, t)
	}
	sort.Slice(times, func(i, j int) bool { return times[i].Before(times[j]) })

	if preset.ArbBudget > 0 && len(times) > preset.ArbBudget {
		times = times[len(times)-preset.ArbBudget:]
	}

	out := emptySeries()
	for _, t := range times {
		out.Dates = append(out.Dates, t.Format(preset.DateLayout))
		out.Values = append(out.Values, buckets[t])
	}
	return out
}

// denseSeries walks every bucket between the first sample and now,
// carrying the last value forward, then tail-limits to the budget.
func denseSeries(buckets map[time.Time]float64, first, now time.Time, preset marketdata.Preset) Series {
	last := now.Truncate(preset.ArbBucket)
	if last.Before(first) {
		last = first
	}

	out := emptySeries()
	var carry float64
	carried := false
	for t := first; !t.After(last); t = t.Add(preset.ArbBucket) {
		if v, ok := buckets[t]; ok {
			carry = v
			carried = true
		}
		if !carried {
			continue
		}
		out.Dates = append(out.Dates, t.Format(preset.DateLayout))
		out.Values = append(out.Values, carry)
	}

	if preset.ArbBudget > 0 && len(out.Dates) > preset.ArbBudget {
		cut := len(out.Dates) - preset.ArbBudget
		out.Dates = out.Dates[cut:]
		out.Values = out.Values[cut:]
	}
	return out
}
