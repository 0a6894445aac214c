package finance

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var brPrinter = message.NewPrinter(language.BrazilianPortuguese)

// FormatBRL renders an amount the way Brazilian statements do, e.g. "R$ 1.234,50".
func FormatBRL(d decimal.Decimal) string {
	f, _ := d.Round(2).Float64()
	return brPrinter.Sprintf("R$ %v", number.Decimal(f, number.Scale(2)))
}
