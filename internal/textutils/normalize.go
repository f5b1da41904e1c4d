package textutils

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var (
	taxIDCleaner = regexp.MustCompile(`[^A-Za-z0-9]`)
	spaceRe      = regexp.MustCompile(`\s+`)

	// Spanish CIF/NIF/NIE shapes, optionally prefixed with "ES"
	vatESRe = regexp.MustCompile(`^(ES)?([A-HJNPQRSUVW]\d{7}[0-9A-J]|\d{8}[A-Z]|[XYZ]\d{7}[A-Z])$`)
	// Generic EU VAT identifier
	vatEURe = regexp.MustCompile(`^[A-Z]{2}[A-Z0-9\-.]{8,14}$`)
)

// NormalizeTaxID strips separators and upper-cases a CIF/NIF/VAT identifier.
func NormalizeTaxID(raw string) string {
	return strings.ToUpper(taxIDCleaner.ReplaceAllString(raw, ""))
}

// PlausibleTaxID reports whether the identifier looks like a Spanish
// CIF/NIF/NIE or a generic EU VAT number.
func PlausibleTaxID(raw string) bool {
	id := NormalizeTaxID(raw)
	if id == "" {
		return false
	}
	return vatESRe.MatchString(id) || vatEURe.MatchString(id)
}

// StripAccents removes diacritics and collapses whitespace, keeping only the
// characters relevant for keyword matching against OCR output.
func StripAccents(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(out, " "))
}
