package providers

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"jvega/facturas-extract/internal/dateutils"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/textutils"
)

var (
	// "FACTURA Nº 000001743/50072024F"; OCR sometimes reads "Nº" as "N*2".
	itvNumberRe  = regexp.MustCompile(`FACTURA\s+N\*?\d*\s*([0-9]{6,}/[0-9A-Z]+)`)
	itvBaseRe    = regexp.MustCompile(`BASE\s+IMPONIBLE\s*[:\s]*([0-9][0-9.,]*)`)
	itvTotalRe   = regexp.MustCompile(`TOTAL\s+FACTURA\s*[:\s]*([0-9][0-9.,]*)`)
	itvTrafficRe = []*regexp.Regexp{
		regexp.MustCompile(`TASA\s+TR[ÁA]FICO\s*[:\s]*([0-9][0-9.,]*)`),
		regexp.MustCompile(`TASA\s+T[RÁA]FICO\s*[:\s]*([0-9][0-9.,]*)`),
	}
)

// ITVProvider parses vehicle-inspection invoices from Aragonesa de
// Servicios ITV. These carry a VAT-liable service line and an exempt
// traffic-authority fee, so parsing yields two records.
type ITVProvider struct{}

func (p *ITVProvider) Name() string { return "ARAGONESA DE SERVICIOS ITV" }

func (p *ITVProvider) Detect(text string) bool {
	up := strings.ToUpper(text)
	return strings.Contains(up, "ARAGONESA DE SERVICIOS ITV") ||
		strings.Contains(up, "SERVICIOS ITV, S.A.")
}

func (p *ITVProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	up := strings.ToUpper(text)

	number := firstSubmatch(itvNumberRe, up)
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}
	date := dateutils.ParseInvoiceDate(text)

	base := amountFrom(itvBaseRe, up)
	total := amountFrom(itvTotalRe, up)
	var fee *decimal.Decimal
	for _, re := range itvTrafficRe {
		if fee = amountFrom(re, up); fee != nil {
			break
		}
	}

	// The printed VAT column is unreliable; derive it from the other three.
	var vat *decimal.Decimal
	if base != nil && total != nil {
		v := *total
		v = v.Sub(*base)
		if fee != nil {
			v = v.Sub(*fee)
		}
		v = v.Round(2)
		if !v.IsNegative() {
			vat = &v
		}
	}

	var rate *decimal.Decimal
	if base != nil && vat != nil && base.IsPositive() {
		r := vat.Div(*base).Round(6)
		rate = &r
	}

	notes := "VARIOS IVAS"
	if total != nil {
		f, _ := total.Float64()
		notes = fmt.Sprintf("VARIOS IVAS + TOTAL %.2f", f)
	}

	service := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "ARAGONESA DE SERVICIOS ITV, S.A.",
		TaxID:         textutils.NormalizeTaxID("A18096511"),
		Date:          date,
		InvoiceNumber: number,
		Base:          base,
		VATRate:       rate,
		VATAmount:     vat,
		Notes:         notes,
	}
	if base != nil && vat != nil {
		t := base.Add(*vat).Round(2)
		service.Total = &t
	}

	feeRecord := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        "ARAGONESA DE SERVICIOS ITV, S.A.",
		TaxID:         textutils.NormalizeTaxID("A18096511"),
		Date:          date,
		InvoiceNumber: number,
		Base:          fee,
		Total:         fee,
		Notes:         notes,
	}
	if fee != nil {
		zero := decimal.Zero
		feeRecord.VATRate = &zero
		zeroAmt := decimal.Zero
		feeRecord.VATAmount = &zeroAmt
	}

	return []models.InvoiceRecord{service, feeRecord}
}
