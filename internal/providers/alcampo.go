package providers

import (
	"regexp"
	"strings"

	"jvega/facturas-extract/internal/dateutils"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/textutils"
)

var (
	// OCR renders "Factura Nº:" as "Factura N*:" or "Factura N%:".
	alcampoNumberRe = regexp.MustCompile(`FACTURA\s+N[\*%]?:\s*(\d{6,})`)
	alcampoBaseRe   = regexp.MustCompile(`TOTAL\s+BASE\s+IMPONIBLE\s*([0-9][0-9.,]*)`)
	alcampoVATRe    = regexp.MustCompile(`TOTAL\s+IMPUESTO\s*([0-9][0-9.,]*)`)
	alcampoTotalRe  = regexp.MustCompile(`TOTAL\s+FACTURA\s*([0-9][0-9.,]*)`)

	// Fallbacks from the line-item block when the footer did not survive OCR.
	alcampoBaseAltRe  = regexp.MustCompile(`BASE\s+IMP\.?\s*([0-9][0-9.,]*)\s*€`)
	alcampoVATAltRe   = regexp.MustCompile(`IMPUESTO\s*([0-9][0-9.,]*)\s*€`)
	alcampoTotalAltRe = regexp.MustCompile(`IMP\.\s*L[IÍ]QUIDO\.?\s*([0-9][0-9.,]*)\s*€`)
)

// AlcampoProvider parses Alcampo hypermarket invoices.
type AlcampoProvider struct{}

func (p *AlcampoProvider) Name() string { return "ALCAMPO" }

func (p *AlcampoProvider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "ALCAMPO S.A") ||
		strings.Contains(up, "FAT ALCAMPO") ||
		strings.Contains(up, "HIPERMERCADO UTEBO")
}

func (p *AlcampoProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	up := strings.ToUpper(text)

	number := firstSubmatch(alcampoNumberRe, up)
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}

	base := amountFrom(alcampoBaseRe, up)
	vat := amountFrom(alcampoVATRe, up)
	total := amountFrom(alcampoTotalRe, up)
	if base == nil {
		base = amountFrom(alcampoBaseAltRe, up)
	}
	if vat == nil {
		vat = amountFrom(alcampoVATAltRe, up)
	}
	if total == nil {
		total = amountFrom(alcampoTotalAltRe, up)
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "ALCAMPO S.A.",
		TaxID:         textutils.NormalizeTaxID("A28581882"),
		Date:          dateutils.ParseInvoiceDate(text),
		InvoiceNumber: number,
		Base:          base,
		VATAmount:     vat,
		Total:         total,
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
