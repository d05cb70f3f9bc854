package sampler

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"gram-gold-watch/internal/alerting"
	"gram-gold-watch/internal/quote"
)

// Options tune the sampling loop.
type Options struct {
	Interval     time.Duration
	AlignToStart bool
	StartupDelay time.Duration
}

// Recorder persists live snapshots, applying its own rate limit.
type Recorder interface {
	Record(snap quote.Snapshot) error
}

// Sampler keeps the arbitrage log warm while the HTTP surface is idle and
// raises an alert when the margin exceeds the configured threshold.
type Sampler struct {
	opts     Options
	fetcher  quote.SnapshotFetcher
	recorder Recorder
	notifier alerting.Notifier

	thresholdPct decimal.Decimal
	logger       zerolog.Logger
	now          func() time.Time
}

// New constructs the sampler. A zero threshold or nil notifier disables
// alerting; sampling still runs.
func New(opts Options, fetcher quote.SnapshotFetcher, recorder Recorder, notifier alerting.Notifier, thresholdPct float64, logger zerolog.Logger) *Sampler {
	if opts.Interval <= 0 {
		panic("sampler interval must be positive")
	}

	threshold := decimal.Zero
	if thresholdPct > 0 {
		threshold = decimal.NewFromFloat(thresholdPct)
	}

	return &Sampler{
		opts:         opts,
		fetcher:      fetcher,
		recorder:     recorder,
		notifier:     notifier,
		thresholdPct: threshold,
		logger:       logger.With().Str("component", "sampler").Logger(),
		now:          time.Now,
	}
}

// Run blocks, sampling at each interval until ctx is cancelled.
func (s *Sampler) Run(ctx context.Context) error {
	if s.opts.StartupDelay > 0 {
		timer := time.NewTimer(s.opts.StartupDelay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	next := s.nextTick(s.now())
	for {
		delay := time.Until(next)
		if delay < 0 {
			next = s.nextTick(s.now())
			delay = time.Until(next)
		}

		timer := time.NewTimer(delay)
		s.logger.Debug().Time("next_tick", next).Msg("waiting for next sample")

		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
			timer.Stop()
		}

		s.Tick(ctx)
		next = next.Add(s.opts.Interval)
	}
}

// Tick performs one sample: fetch, record, and alert when warranted.
func (s *Sampler) Tick(ctx context.Context) {
	snap := s.fetcher.Fetch(ctx)
	if !snap.Live() {
		s.logger.Debug().Msg("skipping offline snapshot")
		return
	}

	if err := s.recorder.Record(snap); err != nil {
		s.logger.Error().Err(err).Msg("failed to record sample")
	}

	s.maybeAlert(ctx, snap)
}

func (s *Sampler) maybeAlert(ctx context.Context, snap quote.Snapshot) {
	if s.notifier == nil || s.thresholdPct.IsZero() || snap.Retail.Bid.IsZero() {
		return
	}

	margin := snap.Reference.Ask.Sub(snap.Retail.Bid)
	marginPct := margin.Div(snap.Retail.Bid).Mul(decimal.NewFromInt(100))
	if marginPct.Abs().LessThanOrEqual(s.thresholdPct) {
		return
	}

	note := alerting.Notification{
		Timestamp:    s.now(),
		RetailBid:    snap.Retail.Bid,
		RetailAsk:    snap.Retail.Ask,
		ReferenceBid: snap.Reference.Bid,
		ReferenceAsk: snap.Reference.Ask,
		Margin:       margin,
		MarginPct:    marginPct,
		ThresholdPct: s.thresholdPct,
	}
	if err := s.notifier.Notify(ctx, note); err != nil {
		s.logger.Error().Err(err).Msg("failed to dispatch alert")
	}
}

func (s *Sampler) nextTick(now time.Time) time.Time {
	if !s.opts.AlignToStart {
		return now.Add(s.opts.Interval)
	}
	tick := now.Truncate(s.opts.Interval)
	if !tick.After(now) {
		tick = tick.Add(s.opts.Interval)
	}
	return tick
}
