// Package currency holds the rounding discipline shared by the ledger,
// the history engine and the cleanup utility. Every value that ends up in
// a balance or a transaction goes through RoundToCents first, so floating
// point drift can never accumulate beyond a cent per operation.
package currency

import (
	"strings"

	"github.com/shopspring/decimal"
)

// RoundToCents rounds a value to two decimal places, half away from zero.
func RoundToCents(v decimal.Decimal) decimal.Decimal {
	return v.Round(2)
}

// Add returns a+b rounded to the cent.
func Add(a, b decimal.Decimal) decimal.Decimal {
	return RoundToCents(a.Add(b))
}

// Sub returns a-b rounded to the cent.
func Sub(a, b decimal.Decimal) decimal.Decimal {
	return RoundToCents(a.Sub(b))
}

// Mul returns v scaled by factor, rounded to the cent.
func Mul(v, factor decimal.Decimal) decimal.Decimal {
	return RoundToCents(v.Mul(factor))
}

// FromFloat converts a float (e.g. a value parsed from JSON) into an
// exact-cent decimal.
func FromFloat(f float64) decimal.Decimal {
	return RoundToCents(decimal.NewFromFloat(f))
}

// Format renders a value with exactly two fractional digits and comma
// thousands separators, e.g. 1234567.8 -> "1,234,567.80".
func Format(v decimal.Decimal) string {
	s := RoundToCents(v).StringFixed(2)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, fracPart, _ := strings.Cut(s, ".")

	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(fracPart)
	return b.String()
}
