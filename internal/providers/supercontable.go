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
	supercontableNumberRe = regexp.MustCompile(`FACTURA\s+(PO\d+/\d+)`)
	// Totals row: "<qty> <base> 21% <iva> <total> EUR".
	supercontableTotalsRe = regexp.MustCompile(`\b(\d{1,3}[\d.,]*)\s+(\d{1,3}[\d.,]*)\s+21\s*%\s+(\d{1,3}[\d.,]*)\s+(\d{1,3}[\d.,]*)\s*EUR`)
)

// SupercontableProvider parses Supercontable (RCR Proyectos de Software)
// subscription invoices.
type SupercontableProvider struct{}

func (p *SupercontableProvider) Name() string { return "SUPERCONTABLE" }

func (p *SupercontableProvider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "SUPERCONTABLE") ||
		strings.Contains(up, "RCR PROYECTOS DE SOFTWARE")
}

func (p *SupercontableProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	up := strings.ToUpper(text)

	number := firstSubmatch(supercontableNumberRe, up)
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "RCR PROYECTOS DE SOFTWARE, S.L.U.",
		Date:          dateutils.ParseInvoiceDate(text),
		InvoiceNumber: number,
	}
	if m := supercontableTotalsRe.FindStringSubmatch(up); m != nil {
		record.Base = textutils.ParseAmount(m[2])
		record.VATAmount = textutils.ParseAmount(m[3])
		record.Total = textutils.ParseAmount(m[4])
	}
	if record.Base != nil && record.VATAmount != nil {
		r := rate21
		record.VATRate = &r
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
