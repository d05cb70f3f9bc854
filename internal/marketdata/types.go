package marketdata

import (
	"context"
	"time"
)

// Instrument enumerates the tracked instruments. Each carries a fixed
// ordered alias list; the first alias is the primary provider symbol.
type Instrument int

const (
	// Spot is the spot-metal (ounce gold) price in USD.
	Spot Instrument = iota
	// FxRate is the USD to local currency rate.
	FxRate
	// YieldIndex is the US 10Y treasury yield index.
	YieldIndex
)

// Instruments lists all tracked instruments in a stable order.
var Instruments = []Instrument{Spot, FxRate, YieldIndex}

func (i Instrument) String() string {
	switch i {
	case Spot:
		return "spot"
	case FxRate:
		return "fx"
	case YieldIndex:
		return "yield"
	default:
		return "unknown"
	}
}

// Aliases returns the ordered provider symbols for the instrument.
func (i Instrument) Aliases() []string {
	switch i {
	case Spot:
		return []string{"GC=F", "XAUUSD=X"}
	case FxRate:
		return []string{"TRY=X", "USDTRY=X"}
	case YieldIndex:
		return []string{"^TNX", "^TYX"}
	default:
		return nil
	}
}

// Series is an ordered close-price sequence. Timestamps are strictly
// increasing and carry no duplicates; a Series may be empty, which callers
// must treat as "unknown" rather than zero.
type Series struct {
	Times  []time.Time
	Values []float64
}

// Empty reports whether the series holds no samples.
func (s Series) Empty() bool {
	return len(s.Times) == 0
}

// Len returns the number of samples.
func (s Series) Len() int {
	return len(s.Times)
}

// SeriesFetcher is the provider boundary consumed by the resolver. Unknown
// symbols and unsupported intervals must surface as empty series, not
// errors; errors are reserved for transport-level failures.
type SeriesFetcher interface {
	FetchSeries(ctx context.Context, symbol, interval, lookback string) (Series, error)
	FetchBatch(ctx context.Context, symbols []string, interval, lookback string) (map[string]Series, error)
}
