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
	repsolNumberRe = regexp.MustCompile(`(?i)N[ºo]\s*Factura\s*[:#]?\s*([0-9/]+)`)
	repsolDateRe   = regexp.MustCompile(`(?i)Fecha\s*[:#]?\s*(\d{2}/\d{2}/\d{4})`)
	repsolBaseRe   = regexp.MustCompile(`(?i)Importe\s+del\s+producto\s*\(\s*Base\s+Imponible\s*\)\s*([\d.,]+)`)
	repsolVATRe    = regexp.MustCompile(`(?i)IVA\s*\d{1,2}[.,]\d{2}%\s*de\s*[\d.,]+\s*€\s*([\d.,]+)`)
	repsolTotalRe  = regexp.MustCompile(`(?i)TOTAL\s+FACTURA\s+EUROS[^\d]*([\d.,]+)\s*€`)
)

// RepsolProvider parses Repsol energy invoices.
type RepsolProvider struct{}

func (p *RepsolProvider) Name() string { return "REPSOL" }

func (p *RepsolProvider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "REPSOL SOLUCIONES ENERGETICAS") ||
		strings.Contains(up, "TOTAL FACTURA EUROS")
}

func (p *RepsolProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	number := firstSubmatch(repsolNumberRe, text)
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "REPSOL SOLUCIONES ENERGETICAS, S.A.",
		TaxID:         textutils.NormalizeTaxID("A80298839"),
		Date:          dateutils.ParseInvoiceDate(firstSubmatch(repsolDateRe, text)),
		InvoiceNumber: number,
		Base:          amountFrom(repsolBaseRe, text),
		VATAmount:     amountFrom(repsolVATRe, text),
		Total:         amountFrom(repsolTotalRe, text),
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
