package domain

import (
	"math/big"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/shopspring/decimal"
)

// FormatUSD renders an amount the way en-US renders USD currency:
// -$4.50, $2,500.00. Digits come from the decimal itself, so large totals
// keep every cent.
func FormatUSD(d decimal.Decimal) string {
	rounded := d.Round(2)

	whole, frac, found := strings.Cut(rounded.Abs().StringFixed(2), ".")
	if !found {
		frac = "00"
	}
	n, ok := new(big.Int).SetString(whole, 10)
	if !ok {
		n = new(big.Int)
	}

	s := "$" + humanize.BigComma(n) + "." + frac
	if rounded.IsNegative() {
		return "-" + s
	}
	return s
}
