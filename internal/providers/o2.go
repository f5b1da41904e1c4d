package providers

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"jvega/facturas-extract/internal/dateutils"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/textutils"
)

var (
	o2NumberRe = regexp.MustCompile(`FACTURA\s+N[ÚU]M\s*[:#]?\s*([A-Z0-9]+)`)
	o2BaseRe   = regexp.MustCompile(`BASE\s+IMPONIBLE\s*([0-9][0-9.,]*)\s*€`)
	o2VATRe    = regexp.MustCompile(`IVA\s*\(\s*21\.?00\s*%\s*\)\s*SOBRE\s*[0-9][0-9.,]*\s*€\s*([0-9][0-9.,]*)\s*€`)
	o2TotalRe  = regexp.MustCompile(`TOTAL\s+FACTURA\s*([0-9][0-9.,]*)\s*€`)
)

// O2Provider parses O2 (Telefónica de España) telecom invoices.
type O2Provider struct{}

func (p *O2Provider) Name() string { return "O2" }

func (p *O2Provider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "TELEFÓNICA DE ESPAÑA") ||
		strings.Contains(up, "FACTURA NÚM") ||
		strings.Contains(up, "O2")
}

func (p *O2Provider) Parse(text, sourcePath string) []models.InvoiceRecord {
	up := strings.ToUpper(text)

	number := firstSubmatch(o2NumberRe, up)
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}

	base := amountFrom(o2BaseRe, up)
	vat := amountFrom(o2VATRe, up)

	var rate *decimal.Decimal
	if base != nil && vat != nil {
		r := rate21
		rate = &r
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "TELEFÓNICA DE ESPAÑA, S.A.U.",
		TaxID:         textutils.NormalizeTaxID("A82018474"),
		Date:          dateutils.ParseInvoiceDate(text),
		InvoiceNumber: number,
		Base:          base,
		VATRate:       rate,
		VATAmount:     vat,
		Total:         amountFrom(o2TotalRe, up),
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
