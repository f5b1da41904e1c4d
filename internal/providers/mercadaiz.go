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
	mercadaizNumberRe = regexp.MustCompile(`FA\s*[-/]\s*(\d{3,})`)
	mercadaizBaseRe   = regexp.MustCompile(`BASE\s+IMPONIBLE\s*([0-9][0-9.,]*)`)
	mercadaizVATRe    = regexp.MustCompile(`TOTAL\s+I\.?V\.?A\.?\s*([0-9][0-9.,]*)`)
	mercadaizTotalRe  = regexp.MustCompile(`TOTAL\s+FACTURA\s*([0-9][0-9.,]*)`)
)

// MercadaizProvider parses fuel invoices from Gasóleos Mercadaiz.
type MercadaizProvider struct{}

func (p *MercadaizProvider) Name() string { return "MERCADAIZ" }

func (p *MercadaizProvider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "VIUDA DE LONDAIZ") ||
		strings.Contains(up, "GASOLEOS MERCADAIZ")
}

func (p *MercadaizProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	up := strings.ToUpper(text)

	number := firstSubmatch(mercadaizNumberRe, up)
	if number != "" {
		number = "FA-" + number
	} else {
		number = fileutils.Stem(sourcePath)
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "VIUDA DE LONDAIZ Y SOBRINOS DE L. MERCADER, S.A.",
		TaxID:         textutils.NormalizeTaxID("A20004008"),
		Date:          dateutils.ParseInvoiceDate(text),
		InvoiceNumber: number,
		Base:          amountFrom(mercadaizBaseRe, up),
		VATAmount:     amountFrom(mercadaizVATRe, up),
		Total:         amountFrom(mercadaizTotalRe, up),
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
