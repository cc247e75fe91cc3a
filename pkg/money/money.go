// Package money converts between integer centavos and the decimal strings
// exchanged with the PSP and shown to users.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ToValor renders cents as the PSP "valor" field, e.g. 1234 -> "12.34".
func ToValor(cents int64) string {
	return decimal.New(cents, -2).StringFixed(2)
}

// FromValor parses a PSP "valor" string into cents. More than two decimal
// places is rejected rather than rounded.
func FromValor(valor string) (int64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(valor))
	if err != nil {
		return 0, fmt.Errorf("parse valor %q: %w", valor, err)
	}
	cents := d.Shift(2)
	if !cents.Equal(cents.Truncate(0)) {
		return 0, fmt.Errorf("parse valor %q: more than two decimal places", valor)
	}
	return cents.IntPart(), nil
}

// FormatBRL renders cents as Brazilian currency, e.g. 123456 -> "R$ 1.234,56".
func FormatBRL(cents int64) string {
	s := decimal.New(cents, -2).Abs().StringFixed(2)
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}

	sign := ""
	if cents < 0 {
		sign = "-"
	}
	return sign + "R$ " + b.String() + "," + frac
}
