// Package money holds the rounding and display rules for payslip amounts.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits every amount is kept at.
const Places = 2

// Round rounds d to cents, half away from zero.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(Places)
}

// FromFloat converts a wire amount to a decimal at its shortest
// representation, so 3409.56 stays 3409.56 rather than its binary expansion.
func FromFloat(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}

// Float converts a rounded amount back to its wire representation.
func Float(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// FormatCurrency renders an amount the German way: "1.234,50".
// The shortest decimal form of v is rounded half away from zero, so 0.125
// renders as "0,13". A nil amount renders as an empty string.
func FormatCurrency(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatDecimal(FromFloat(*v))
}

// FormatDecimal renders d with two decimals, "," as decimal separator and
// "." between thousands groups.
func FormatDecimal(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}

	fixed := d.StringFixed(Places)
	intPart, decPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.Grow(len(fixed) + len(intPart)/3 + 1)
	b.WriteString(sign)
	for i, c := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(c)
	}
	b.WriteByte(',')
	b.WriteString(decPart)
	return b.String()
}

// Sum adds wire amounts exactly.
func Sum(values ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(FromFloat(v))
	}
	return total
}
