// Package textutils provides text normalization and value extraction helpers
// shared by the vendor parsers.
package textutils

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// MoneyRe matches a monetary amount, optionally prefixed with a euro sign.
// The negative lookahead of the original tooling is emulated by callers
// checking PercentRe first.
var MoneyRe = regexp.MustCompile(`€?\d[\d.,]*`)

// PercentRe matches a percentage such as "21%", "10,5 %" or "4.00%".
var PercentRe = regexp.MustCompile(`(\d{1,2}(?:[.,]\d{1,2})?)\s*%`)

// VATRowRe matches one row of a VAT breakdown table: rate, taxable base and
// VAT amount in that order, possibly spread over multiple lines.
var VATRowRe = regexp.MustCompile(`(\d{1,2}(?:[.,]\d{1,2})?)\s*%[\s\S]*?(\d[\d.,]*)[\s\S]*?(\d[\d.,]*)`)

var currencyCleaner = strings.NewReplacer("€", "", "EUR", "", " ", "", " ", "", "%", "")

// ParseAmount converts a raw amount string to a decimal. It tolerates euro
// signs, thousands separators and both decimal comma and decimal point:
// "1.234,56" -> 1234.56, "1,5" -> 1.5, "€12.00" -> 12.
// Returns nil when the string does not contain a parseable number.
func ParseAmount(raw string) *decimal.Decimal {
	s := currencyCleaner.Replace(strings.TrimSpace(raw))
	if s == "" {
		return nil
	}

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// European style: dot is thousands, comma is decimal
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}

// ParsePercent converts a percentage string to a decimal fraction:
// "21%" -> 0.21, "10,50" -> 0.105. Values already below 1 are taken as
// fractions. Returns nil when not parseable.
func ParsePercent(raw string) *decimal.Decimal {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(strings.ReplaceAll(s, " ", ""), ",", ".")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	if d.GreaterThan(decimal.NewFromInt(1)) {
		d = d.Div(decimal.NewFromInt(100))
	}
	d = d.Round(6)
	return &d
}

// HasDecimals reports whether a raw amount string carries an explicit
// decimal or thousands separator. Used to rank extraction candidates.
func HasDecimals(raw string) bool {
	return strings.ContainsAny(raw, ".,")
}
