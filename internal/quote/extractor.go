package quote

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"
)

const (
	bidSelector = `span[data-socket-attr="bid"]`
	askSelector = `span[data-socket-attr="ask"]`
)

// ExtractBidAsk locates the bid and ask fields in a venue's markup and
// parses them. Partial results are never returned: if either field is
// missing or unparseable the boolean is false and both values are zero.
func ExtractBidAsk(markup string) (decimal.Decimal, decimal.Decimal, bool) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}

	bidSel := doc.Find(bidSelector).First()
	askSel := doc.Find(askSelector).First()
	if bidSel.Length() == 0 || askSel.Length() == 0 {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}

	bid, okBid := ParseNumber(bidSel.Text())
	ask, okAsk := ParseNumber(askSel.Text())
	if !okBid || !okAsk {
		return decimal.Decimal{}, decimal.Decimal{}, false
	}

	return bid, ask, true
}
