package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gram-gold-watch/internal/arblog"
	"gram-gold-watch/internal/history"
	"gram-gold-watch/internal/marketdata"
	"gram-gold-watch/internal/quote"
)

// Trading signals derived from the retail venue's own spread.
const (
	SignalHoldWideSpread  = "hold_wide_spread"
	SignalTradeAcceptable = "trade_acceptable"
)

// wideSpreadThresholdPct is the sole trading-signal heuristic.
var wideSpreadThresholdPct = decimal.RequireFromString("1.5")

// VenueQuote renders one venue's bid/ask for the response body.
type VenueQuote struct {
	Bid float64 `json:"bid"`
	Ask float64 `json:"ask"`
}

// Local is the per-request view of both local venues.
type Local struct {
	Retail    VenueQuote `json:"retail"`
	Reference VenueQuote `json:"reference"`
	Status    string     `json:"status"`
}

// Global carries the latest stats per instrument plus the full history.
type Global struct {
	Spot    history.Stats   `json:"spot"`
	Fx      history.Stats   `json:"fx"`
	Yield   history.Stats   `json:"yield"`
	History history.History `json:"history"`
}

// Analysis is the trading-signal block computed from the current snapshot.
type Analysis struct {
	Spread    float64 `json:"spread"`
	SpreadPct float64 `json:"spread_pct"`
	Signal    string  `json:"signal"`
}

// Metrics is the assembled response for one range request.
type Metrics struct {
	Local    Local    `json:"local"`
	Global   Global   `json:"global"`
	Analysis Analysis `json:"analysis"`
}

// Aggregator produces the aligned global history for a preset.
type Aggregator interface {
	Aggregate(ctx context.Context, preset marketdata.Preset) (history.History, map[marketdata.Instrument]history.Stats)
}

// ArbitrageLog persists live snapshots and serves the resampled log.
type ArbitrageLog interface {
	Record(snap quote.Snapshot) error
	History(preset marketdata.Preset, now time.Time) arblog.Series
}

// Service assembles metrics responses: quote fetch, best-effort log write,
// history aggregation, and arbitrage splicing.
type Service struct {
	fetcher    quote.SnapshotFetcher
	aggregator Aggregator
	log        ArbitrageLog
	logger     zerolog.Logger
	now        func() time.Time
}

// New constructs the metrics service.
func New(fetcher quote.SnapshotFetcher, aggregator Aggregator, log ArbitrageLog, logger zerolog.Logger) *Service {
	return &Service{
		fetcher:    fetcher,
		aggregator: aggregator,
		log:        log,
		logger:     logger.With().Str("component", "service").Logger(),
		now:        time.Now,
	}
}

// Metrics builds the full response for one range key. The snapshot fetch
// never fails (it degrades to the offline fallback), the log write is
// best-effort, and an empty aggregation yields zero stats with empty
// arrays rather than an error.
func (s *Service) Metrics(ctx context.Context, rangeKey string) Metrics {
	snap := s.fetcher.Fetch(ctx)
	if err := s.log.Record(snap); err != nil {
		s.logger.Warn().Err(err).Msg("arbitrage log write failed")
	}

	preset := marketdata.PresetFor(rangeKey)
	hist, stats := s.aggregator.Aggregate(ctx, preset)

	if len(hist.Dates) > 0 {
		s.spliceArbitrage(&hist, preset, snap)
	}

	return Metrics{
		Local:    localView(snap),
		Global:   globalView(hist, stats),
		Analysis: analyze(snap),
	}
}

// spliceArbitrage attaches the arbitrage axis to an aggregated history:
// the resampled log when it has data, otherwise a flat line at the current
// snapshot's margin across every price date.
func (s *Service) spliceArbitrage(hist *history.History, preset marketdata.Preset, snap quote.Snapshot) {
	arb := s.log.History(preset, s.now())
	budget := preset.ArbBudget
	if len(arb.Dates) > 0 {
		hist.ArbitrageDates = arb.Dates
		hist.ArbitragePrices = arb.Values
	} else {
		// The flat line spans the whole price axis, so it keeps the
		// price budget rather than the log's point budget.
		budget = preset.MaxPoints
		margin := snap.Reference.Ask.Sub(snap.Retail.Bid).Round(2).InexactFloat64()
		hist.ArbitrageDates = append([]string{}, hist.Dates...)
		hist.ArbitragePrices = make([]float64, len(hist.Dates))
		for i := range hist.ArbitragePrices {
			hist.ArbitragePrices[i] = margin
		}
	}

	// Intraday alignment patch: when the spliced series is shorter than
	// the price axis, repeat the last known margin across every date.
	// TODO: replace with a real timestamp join of the log buckets onto
	// the resampled price axis so intraday structure survives.
	if preset.Intraday() && len(hist.ArbitragePrices) > 0 && len(hist.ArbitragePrices) < len(hist.Dates) {
		last := hist.ArbitragePrices[len(hist.ArbitragePrices)-1]
		hist.ArbitrageDates = append([]string{}, hist.Dates...)
		hist.ArbitragePrices = make([]float64, len(hist.Dates))
		for i := range hist.ArbitragePrices {
			hist.ArbitragePrices[i] = last
		}
	}

	if !preset.Intraday() && len(hist.ArbitrageDates) > 0 {
		padded, columns := history.PadToNow(hist.ArbitrageDates, [][]float64{hist.ArbitragePrices}, preset.DateLayout, budget, s.now())
		hist.ArbitrageDates = padded
		hist.ArbitragePrices = columns[0]
	}
}

func localView(snap quote.Snapshot) Local {
	return Local{
		Retail: VenueQuote{
			Bid: snap.Retail.Bid.InexactFloat64(),
			Ask: snap.Retail.Ask.InexactFloat64(),
		},
		Reference: VenueQuote{
			Bid: snap.Reference.Bid.InexactFloat64(),
			Ask: snap.Reference.Ask.InexactFloat64(),
		},
		Status: snap.Status,
	}
}

func globalView(hist history.History, stats map[marketdata.Instrument]history.Stats) Global {
	return Global{
		Spot:    stats[marketdata.Spot],
		Fx:      stats[marketdata.FxRate],
		Yield:   stats[marketdata.YieldIndex],
		History: hist,
	}
}

// analyze derives the retail spread and trading signal from the current
// snapshot alone.
func analyze(snap quote.Snapshot) Analysis {
	spread := snap.Retail.Ask.Sub(snap.Retail.Bid)

	spreadPct := decimal.Zero
	if !snap.Retail.Bid.IsZero() {
		spreadPct = spread.Div(snap.Retail.Bid).Mul(decimal.NewFromInt(100))
	}

	signal := SignalTradeAcceptable
	if spreadPct.GreaterThan(wideSpreadThresholdPct) {
		signal = SignalHoldWideSpread
	}

	return Analysis{
		Spread:    spread.Round(2).InexactFloat64(),
		SpreadPct: spreadPct.Round(2).InexactFloat64(),
		Signal:    signal,
	}
}
