package quote

import (
	"strings"

	"github.com/shopspring/decimal"
)

// ParseNumber converts locale-formatted numeric text ("." thousands
// separator, "," decimal separator) into a decimal value. The boolean is
// false when the input is empty or does not parse.
func ParseNumber(text string) (decimal.Decimal, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return decimal.Decimal{}, false
	}

	normalized := strings.ReplaceAll(trimmed, ".", "")
	normalized = strings.ReplaceAll(normalized, ",", ".")

	value, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Decimal{}, false
	}
	return value, true
}
