package marketdata

import (
	"context"

	"github.com/rs/zerolog"
)

// Resolver walks alias and interval fallback chains until each instrument
// yields a usable close-price series. Transport failures on a candidate are
// swallowed and the next candidate is tried; only exhausting every
// candidate leaves an instrument with an empty series.
type Resolver struct {
	fetcher SeriesFetcher
	logger  zerolog.Logger
}

// NewResolver constructs a resolver over the given provider client.
func NewResolver(fetcher SeriesFetcher, logger zerolog.Logger) *Resolver {
	return &Resolver{
		fetcher: fetcher,
		logger:  logger.With().Str("component", "series_resolver").Logger(),
	}
}

// ResolveAll resolves every tracked instrument under the preset. An
// instrument that cannot be resolved maps to an empty series, never an
// error: callers treat empty as "unknown", not zero.
func (r *Resolver) ResolveAll(ctx context.Context, preset Preset) map[Instrument]Series {
	if preset.Intraday() {
		return r.resolveIntraday(ctx, preset)
	}
	return r.resolveBatch(ctx, preset)
}

// resolveIntraday resolves symbol by symbol, cycling interval candidates
// (coarsening) before moving to the next symbol alias. The first
// alias+interval combination with a non-empty series wins.
func (r *Resolver) resolveIntraday(ctx context.Context, preset Preset) map[Instrument]Series {
	out := make(map[Instrument]Series, len(Instruments))

	intervals := preset.IntervalCandidates
	if len(intervals) == 0 {
		intervals = []string{preset.Interval}
	}

	for _, instrument := range Instruments {
		out[instrument] = r.resolveOne(ctx, instrument.Aliases(), intervals, preset.Lookback)
	}
	return out
}

func (r *Resolver) resolveOne(ctx context.Context, aliases, intervals []string, lookback string) Series {
	for _, alias := range aliases {
		for _, interval := range intervals {
			series, err := r.fetcher.FetchSeries(ctx, alias, interval, lookback)
			if err != nil {
				r.logger.Debug().Err(err).
					Str("symbol", alias).
					Str("interval", interval).
					Msg("candidate fetch failed, trying next")
				continue
			}
			if !series.Empty() {
				return series
			}
		}
	}
	return Series{}
}

// resolveBatch requests every instrument's primary alias in one call, then
// retries secondary aliases individually for instruments the batch missed.
func (r *Resolver) resolveBatch(ctx context.Context, preset Preset) map[Instrument]Series {
	out := make(map[Instrument]Series, len(Instruments))

	primaries := make([]string, 0, len(Instruments))
	for _, instrument := range Instruments {
		if aliases := instrument.Aliases(); len(aliases) > 0 {
			primaries = append(primaries, aliases[0])
		}
	}

	batch, err := r.fetcher.FetchBatch(ctx, primaries, preset.Interval, preset.Lookback)
	if err != nil {
		r.logger.Warn().Err(err).Msg("batch fetch failed, falling back to per-symbol resolution")
		batch = nil
	}

	for _, instrument := range Instruments {
		aliases := instrument.Aliases()
		if len(aliases) == 0 {
			out[instrument] = Series{}
			continue
		}

		if series, ok := batch[aliases[0]]; ok && !series.Empty() {
			out[instrument] = series
			continue
		}

		// Absent from the batch: retry the secondary aliases one by one.
		// When the batch itself failed the primary is retried too.
		candidates := aliases[1:]
		if batch == nil {
			candidates = aliases
		}
		out[instrument] = r.resolveOne(ctx, candidates, []string{preset.Interval}, preset.Lookback)
	}
	return out
}
