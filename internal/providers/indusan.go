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
	indusanNumberRe = regexp.MustCompile(`FACTURA[\s\S]*?(\d{3,})`)
	indusanBaseRe   = regexp.MustCompile(`BASE\s+IMPONIBLE[\s\S]*?([0-9][0-9.,]*)`)
	indusanVATRe    = regexp.MustCompile(`IVA\s*%\s*21[\s\S]*?([0-9][0-9.,]*)`)
	indusanTotalRe  = regexp.MustCompile(`TOTAL\s+FACTURA[\s\S]*?([0-9][0-9.,]*)`)

	rate21 = decimal.NewFromFloat(0.21)
)

// IndusanProvider parses Industrias Reunidas Sanitarias invoices, always
// invoiced at the 21% rate.
type IndusanProvider struct{}

func (p *IndusanProvider) Name() string { return "INDUSAN" }

func (p *IndusanProvider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "INDUSTRIAS REUNIDAS SANITARIAS") ||
		strings.Contains(up, "INDUSAN")
}

func (p *IndusanProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	up := strings.ToUpper(text)

	number := firstSubmatch(indusanNumberRe, up)
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}

	base := amountFrom(indusanBaseRe, up)
	vat := amountFrom(indusanVATRe, up)
	total := amountFrom(indusanTotalRe, up)

	var rate *decimal.Decimal
	if base != nil && vat != nil {
		r := rate21
		rate = &r
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "INDUSTRIAS REUNIDAS SANITARIAS S.L.",
		TaxID:         textutils.NormalizeTaxID("B50040005"),
		Date:          dateutils.ParseInvoiceDate(text),
		InvoiceNumber: number,
		Base:          base,
		VATRate:       rate,
		VATAmount:     vat,
		Total:         total,
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
