package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ClientOptions parameterise the chart API client.
type ClientOptions struct {
	BaseURL      string
	Timeout      time.Duration
	UserAgent    string
	RateLimitRPS float64
}

// Client fetches close-price series from a chart-style market data API.
type Client struct {
	opts    ClientOptions
	client  *resty.Client
	limiter *rate.Limiter
	logger  zerolog.Logger
	baseURL string
}

// NewClient constructs a market data client.
func NewClient(opts ClientOptions, logger zerolog.Logger) *Client {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	rps := opts.RateLimitRPS
	if rps <= 0 {
		rps = 4
	}

	client := resty.New()
	client.SetTimeout(timeout)
	if opts.UserAgent != "" {
		client.SetHeader("User-Agent", opts.UserAgent)
	}

	return &Client{
		opts:    opts,
		client:  client,
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
		logger:  logger.With().Str("component", "marketdata_client").Logger(),
		baseURL: strings.TrimRight(opts.BaseURL, "/"),
	}
}

type chartResponse struct {
	Chart struct {
		Result []chartResult `json:"result"`
		Error  *struct {
			Code string `json:"code"`
		} `json:"error"`
	} `json:"chart"`
}

type chartResult struct {
	Timestamp  []int64 `json:"timestamp"`
	Indicators struct {
		Quote []struct {
			Close []*float64 `json:"close"`
		} `json:"quote"`
	} `json:"indicators"`
}

type sparkResponse struct {
	Spark struct {
		Result []struct {
			Symbol   string        `json:"symbol"`
			Response []chartResult `json:"response"`
		} `json:"result"`
	} `json:"spark"`
}

// FetchSeries requests one symbol's close series. A symbol the provider
// does not know, or an unsupported interval, yields an empty series with a
// nil error.
func (c *Client) FetchSeries(ctx context.Context, symbol, interval, lookback string) (Series, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return Series{}, err
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s", c.baseURL, url.PathEscape(symbol))

	var payload chartResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"interval": interval,
			"range":    lookback,
		}).
		SetResult(&payload).
		Get(endpoint)
	if err != nil {
		return Series{}, fmt.Errorf("fetch series %s: %w", symbol, err)
	}

	if resp.StatusCode() == 404 {
		return Series{}, nil
	}
	if resp.IsError() {
		return Series{}, fmt.Errorf("chart api returned status %d for %s", resp.StatusCode(), symbol)
	}
	if payload.Chart.Error != nil {
		c.logger.Debug().Str("symbol", symbol).Str("code", payload.Chart.Error.Code).Msg("provider rejected symbol")
		return Series{}, nil
	}
	if len(payload.Chart.Result) == 0 {
		return Series{}, nil
	}

	return seriesFromResult(payload.Chart.Result[0]), nil
}

// FetchBatch requests several symbols in one call. Symbols absent from the
// response are simply missing from the returned map.
func (c *Client) FetchBatch(ctx context.Context, symbols []string, interval, lookback string) (map[string]Series, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	endpoint := c.baseURL + "/v7/finance/spark"

	var payload sparkResponse
	resp, err := c.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"symbols":  strings.Join(symbols, ","),
			"interval": interval,
			"range":    lookback,
		}).
		SetResult(&payload).
		Get(endpoint)
	if err != nil {
		return nil, fmt.Errorf("fetch batch: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("spark api returned status %d", resp.StatusCode())
	}

	out := make(map[string]Series, len(symbols))
	for _, result := range payload.Spark.Result {
		if len(result.Response) == 0 {
			continue
		}
		series := seriesFromResult(result.Response[0])
		if !series.Empty() {
			out[result.Symbol] = series
		}
	}
	return out, nil
}

// seriesFromResult pairs timestamps with close values, dropping missing
// entries so the series carries only real samples.
func seriesFromResult(result chartResult) Series {
	if len(result.Indicators.Quote) == 0 {
		return Series{}
	}

	closes := result.Indicators.Quote[0].Close
	var series Series
	for i, ts := range result.Timestamp {
		if i >= len(closes) || closes[i] == nil {
			continue
		}
		series.Times = append(series.Times, time.Unix(ts, 0).UTC())
		series.Values = append(series.Values, *closes[i])
	}
	return series
}

var _ SeriesFetcher = (*Client)(nil)
