// Package format renders amounts for reports.
package format

import (
	"strings"

	"github.com/iwvelando/feed-ration/pkg/constants"
	"github.com/shopspring/decimal"
)

// Currency returns a currency string with the rupee prefix and thousands separators (e.g., "-Rs 1,234.56").
func Currency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	formatted := formatPositive(d.Abs())
	if d.IsNegative() {
		return "-" + constants.CurrencySymbol + " " + formatted
	}
	return constants.CurrencySymbol + " " + formatted
}

// NumericCurrency returns a currency string without a currency symbol but with separators (e.g., "-1,234.56").
func NumericCurrency(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return sign + formatPositive(d.Abs())
}

// Amount returns value with two decimals and no separators, rounded half
// away from zero.
func Amount(value float64) string {
	return decimal.NewFromFloat(value).StringFixed(2)
}

func formatPositive(value decimal.Decimal) string {
	formatted := value.StringFixed(2)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
