package extraction

import (
	"strings"

	"github.com/shopspring/decimal"
)

// decimalFromString parses a decimal, tolerating comma decimal separators
// as they appear on Finnish receipts
func decimalFromString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, nil
	}
	s = strings.ReplaceAll(s, ",", ".")
	return decimal.NewFromString(s)
}
