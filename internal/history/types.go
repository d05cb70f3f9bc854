package history

// History holds the aligned, label-indexed price arrays for one request.
// Every non-empty value array has the same length as Dates.
type History struct {
	Dates           []string  `json:"dates"`
	SpotPrices      []float64 `json:"ons_prices"`
	FxPrices        []float64 `json:"usd_prices"`
	YieldPrices     []float64 `json:"us10y_prices"`
	GramPrices      []float64 `json:"gram_prices"`
	ArbitrageDates  []string  `json:"arbitrage_dates"`
	ArbitragePrices []float64 `json:"arbitrage_prices"`
}

// NewHistory returns a History whose arrays serialize as empty lists
// rather than null.
func NewHistory() History {
	return History{
		Dates:           []string{},
		SpotPrices:      []float64{},
		FxPrices:        []float64{},
		YieldPrices:     []float64{},
		GramPrices:      []float64{},
		ArbitrageDates:  []string{},
		ArbitragePrices: []float64{},
	}
}

// Stats carries an instrument's latest value and period-over-period
// percent change.
type Stats struct {
	Price  float64 `json:"price"`
	Change float64 `json:"change"`
}
