package providers

import (
	"regexp"
	"strings"

	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/textutils"
)

var (
	sorpresaNumberRe = regexp.MustCompile(`N\s*\*\s*FAC\s*[:#]?\s*(\d{3,12})`)
	// "TOTAL: 21%: <base> 21%: <iva> <total>" block at the receipt foot.
	sorpresaTotalsRe = regexp.MustCompile(`TOTAL\s*:\s*(\d{1,2}(?:[.,]\d{1,2})?)%\s*:\s*([0-9][0-9.,]*)\s*(\d{1,2}(?:[.,]\d{1,2})?)%\s*:\s*([0-9][0-9.,]*)\s*([0-9][0-9.,]*)`)
)

// SorpresaProvider parses Sorpresa Hogar shop receipts. These are undated
// thermal tickets, so the date stays empty.
type SorpresaProvider struct{}

func (p *SorpresaProvider) Name() string { return "SORPRESA" }

func (p *SorpresaProvider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "SORPRESA HOGAR") ||
		strings.Contains(up, "XIAOJIE WANG")
}

func (p *SorpresaProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	up := strings.ToUpper(text)

	number := firstSubmatch(sorpresaNumberRe, up)
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "SORPRESA HOGAR",
		TaxID:         textutils.NormalizeTaxID("X6526242S"),
		InvoiceNumber: number,
	}
	if m := sorpresaTotalsRe.FindStringSubmatch(up); m != nil {
		record.VATRate = textutils.ParsePercent(m[1])
		record.Base = textutils.ParseAmount(m[2])
		record.VATAmount = textutils.ParseAmount(m[4])
		record.Total = textutils.ParseAmount(m[5])
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
