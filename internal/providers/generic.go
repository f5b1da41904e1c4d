package providers

import (
	"regexp"

	"github.com/shopspring/decimal"

	"jvega/facturas-extract/internal/dateutils"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/textutils"
)

var (
	genericBaseLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)BASE\s+IMPONIBLE`),
		regexp.MustCompile(`(?i)IMPORTE\s+BASE`),
		regexp.MustCompile(`(?i)\bBI\b`),
		regexp.MustCompile(`(?i)NETO`),
		regexp.MustCompile(`(?i)SUBTOTAL`),
		regexp.MustCompile(`(?i)TOTAL\s+BASE\s+IMPONIBLE`),
	}
	genericVATLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)CUOTA\s*IVA`),
		regexp.MustCompile(`(?i)IMPORTE\s*IVA`),
		regexp.MustCompile(`(?i)\bIVA\b`),
		regexp.MustCompile(`(?i)TOTAL\s*IVA\b`),
		regexp.MustCompile(`(?i)TOTAL\s+IMPUESTO`),
	}
	genericTotalLabels = []*regexp.Regexp{
		regexp.MustCompile(`(?i)TOTAL\s*(?:FACTURA|A\s*PAGAR|EUR|€)?\b`),
		regexp.MustCompile(`(?i)\bTOTAL\b`),
		regexp.MustCompile(`(?i)TOTAL\s+DE\s+LA\s+FACTURA`),
	}
)

// GenericProvider is the catch-all parser registered last. It works from
// labels and the VAT breakdown table instead of vendor-specific layouts.
type GenericProvider struct{}

// Name identifies the provider.
func (p *GenericProvider) Name() string { return "GENERIC" }

// Detect always matches; the generic provider is the fallback.
func (p *GenericProvider) Detect(text string) bool { return true }

// Parse extracts amounts from the VAT table when one is present, otherwise
// from labelled lines, and derives whatever is missing arithmetically.
func (p *GenericProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	lines := nonEmptyLines(text)

	base, vat := sumVATTable(text)

	var rate *decimal.Decimal
	if m := textutils.PercentRe.FindStringSubmatch(text); m != nil {
		rate = textutils.ParsePercent(m[1])
	}

	if base == nil {
		base = findByLabel(lines, genericBaseLabels, scoreBase)
	}
	if vat == nil {
		vat = findByLabel(lines, genericVATLabels, scoreVAT(base))
	}
	total := findByLabel(lines, genericTotalLabels, scoreTotal(base, vat, rate))

	// An integer "IVA" of 4, 10 or 21 is almost certainly the rate picked up
	// from the wrong column.
	if vat != nil && isStandardRateInteger(*vat) {
		if rate == nil {
			r := vat.Div(decimal.NewFromInt(100)).Round(6)
			rate = &r
		}
		vat = nil
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		InvoiceNumber: fileutils.Stem(sourcePath),
		Date:          dateutils.ParseInvoiceDate(text),
		Base:          base,
		VATRate:       rate,
		VATAmount:     vat,
		Total:         total,
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}

// sumVATTable sums the base and VAT columns of a VAT breakdown table. Both
// sums are returned only when at least one full row parsed.
func sumVATTable(text string) (*decimal.Decimal, *decimal.Decimal) {
	var base, vat decimal.Decimal
	found := false
	for _, m := range textutils.VATRowRe.FindAllStringSubmatch(text, -1) {
		b := textutils.ParseAmount(m[2])
		c := textutils.ParseAmount(m[3])
		if b == nil || c == nil {
			continue
		}
		base = base.Add(*b)
		vat = vat.Add(*c)
		found = true
	}
	if !found {
		return nil, nil
	}
	base = base.Round(2)
	vat = vat.Round(2)
	return &base, &vat
}

func isStandardRateInteger(v decimal.Decimal) bool {
	if !v.Equal(v.Truncate(0)) {
		return false
	}
	n := v.IntPart()
	return n == 4 || n == 10 || n == 21
}

func scoreBase(c moneyCandidate) float64 {
	return cueScore(c)
}

// scoreVAT prefers amounts plausibly below the base times the highest
// Spanish rate.
func scoreVAT(base *decimal.Decimal) func(moneyCandidate) float64 {
	return func(c moneyCandidate) float64 {
		s := cueScore(c)
		if base != nil && c.value.LessThanOrEqual(base.Mul(decimal.NewFromFloat(0.35))) {
			s += 3
		}
		return s
	}
}

// scoreTotal prefers amounts close to the arithmetic target base*(1+rate)
// or base+vat.
func scoreTotal(base, vat, rate *decimal.Decimal) func(moneyCandidate) float64 {
	var target *decimal.Decimal
	switch {
	case base != nil && rate != nil:
		t := base.Mul(decimal.NewFromInt(1).Add(*rate))
		target = &t
	case base != nil && vat != nil:
		t := base.Add(*vat)
		target = &t
	}
	return func(c moneyCandidate) float64 {
		s := cueScore(c)
		if target != nil && target.IsPositive() {
			diff, _ := c.value.Sub(*target).Abs().Div(*target).Float64()
			closeness := 3 - diff*10
			if closeness > 0 {
				s += closeness
			}
		}
		return s
	}
}

func cueScore(c moneyCandidate) float64 {
	var s float64
	if c.hasEuro {
		s += 3
	}
	if c.hasDecimals {
		s += 1
	}
	return s
}
