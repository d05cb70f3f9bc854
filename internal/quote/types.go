package quote

import "github.com/shopspring/decimal"

// Snapshot statuses.
const (
	StatusLive    = "live"
	StatusOffline = "offline"
)

// Quote holds one venue's bid/ask in local currency per gram.
type Quote struct {
	Bid decimal.Decimal
	Ask decimal.Decimal
}

// Snapshot is a per-request view of both local venues. It is built fresh
// on every fetch and never mutated afterwards.
type Snapshot struct {
	Retail    Quote
	Reference Quote
	Status    string
}

// Live reports whether the snapshot carries real venue data.
func (s Snapshot) Live() bool {
	return s.Status == StatusLive
}

// FallbackSnapshot is returned whenever either venue read fails hard.
// Downstream spread math must never mix one live and one stale quote, so
// a single failure replaces the whole snapshot.
func FallbackSnapshot() Snapshot {
	return Snapshot{
		Retail: Quote{
			Bid: decimal.RequireFromString("2950.50"),
			Ask: decimal.RequireFromString("3080.00"),
		},
		Reference: Quote{
			Bid: decimal.RequireFromString("3000.00"),
			Ask: decimal.RequireFromString("3010.00"),
		},
		Status: StatusOffline,
	}
}
