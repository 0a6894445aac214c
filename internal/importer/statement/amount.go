package statement

import (
	"strings"

	"github.com/shopspring/decimal"
)

// parseAmount parses a signed amount as exported by Brazilian banks.
// With decimalComma, "R$ -1.234,56" is -1234.56; otherwise "-1234.56" and
// "-1,234.56" are.
func parseAmount(s string, decimalComma bool) (decimal.Decimal, error) {
	clean := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))
	clean = strings.ReplaceAll(clean, " ", "")

	if decimalComma {
		clean = strings.ReplaceAll(clean, ".", "")
		clean = strings.ReplaceAll(clean, ",", ".")
	} else {
		clean = strings.ReplaceAll(clean, ",", "")
	}

	d, err := decimal.NewFromString(clean)
	if err != nil {
		return decimal.Zero, err
	}

	return d.Round(2), nil
}
