package exporter

import (
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var groupedPrinter = message.NewPrinter(language.English)

// FormatRupiah renders an amount in short form: M for billions, Jt for
// millions, K for thousands, and a comma grouped integer below that.
//
//	FormatRupiah(decimal.NewFromInt(2_500_000)) == "Rp 2.50 Jt"
func FormatRupiah(amount decimal.Decimal) string {
	v := amount.InexactFloat64()
	switch {
	case v >= 1e9:
		return fmt.Sprintf("Rp %.2f M", v/1e9)
	case v >= 1e6:
		return fmt.Sprintf("Rp %.2f Jt", v/1e6)
	case v >= 1e3:
		return fmt.Sprintf("Rp %.2f K", v/1e3)
	default:
		return groupedPrinter.Sprintf("Rp %d", amount.Round(0).IntPart())
	}
}

// formatDecimal formats an amount with exactly 2 decimal places
func formatDecimal(d decimal.Decimal) string {
	return d.StringFixed(2)
}
