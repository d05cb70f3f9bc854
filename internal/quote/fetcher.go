package quote

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
)

// FetcherOptions parameterise the local venue scraper.
type FetcherOptions struct {
	RetailURL    string
	ReferenceURL string
	Timeout      time.Duration
	UserAgent    string
}

// SnapshotFetcher returns the current local snapshot, live or fallback.
type SnapshotFetcher interface {
	Fetch(ctx context.Context) Snapshot
}

// Fetcher scrapes the retail and reference venue pages.
type Fetcher struct {
	opts   FetcherOptions
	client *resty.Client
	logger zerolog.Logger
}

// NewFetcher constructs a local quote fetcher.
func NewFetcher(opts FetcherOptions, logger zerolog.Logger) *Fetcher {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 8 * time.Second
	}

	client := resty.New()
	client.SetTimeout(timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}
	client.SetHeader("Accept-Language", "tr-TR,tr;q=0.9,en;q=0.8")

	return &Fetcher{
		opts:   opts,
		client: client,
		logger: logger.With().Str("component", "quote_fetcher").Logger(),
	}
}

// Fetch reads both venues. A successful extraction overwrites that venue's
// zero defaults; an extraction miss leaves them at zero. Any hard failure
// (transport, timeout, non-2xx) on either read replaces the entire result
// with the fixed fallback pair and flips status to offline.
func (f *Fetcher) Fetch(ctx context.Context) Snapshot {
	snap := Snapshot{Status: StatusLive}

	if err := f.readVenue(ctx, f.opts.RetailURL, &snap.Retail); err != nil {
		f.logger.Warn().Err(err).Str("venue", "retail").Msg("venue read failed, serving fallback snapshot")
		return FallbackSnapshot()
	}

	if err := f.readVenue(ctx, f.opts.ReferenceURL, &snap.Reference); err != nil {
		f.logger.Warn().Err(err).Str("venue", "reference").Msg("venue read failed, serving fallback snapshot")
		return FallbackSnapshot()
	}

	return snap
}

func (f *Fetcher) readVenue(ctx context.Context, url string, out *Quote) error {
	if url == "" {
		return fmt.Errorf("venue url not configured")
	}

	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return fmt.Errorf("get venue page: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("venue page returned status %d", resp.StatusCode())
	}

	bid, ask, ok := ExtractBidAsk(string(resp.Body()))
	if !ok {
		// Field absence is not a hard error; the venue keeps its zeros.
		f.logger.Debug().Str("url", url).Msg("bid/ask fields not found in venue markup")
		return nil
	}

	out.Bid = bid
	out.Ask = ask
	return nil
}

var _ SnapshotFetcher = (*Fetcher)(nil)
