package export

import (
	"os"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"

	"jvega/facturas-extract/internal/dateutils"
	"jvega/facturas-extract/internal/logging"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/parsererror"
)

// invoiceCSVRow maps one record to the CSV columns, mirroring the XLSX
// header row.
type invoiceCSVRow struct {
	Date          string `csv:"fecha_factura"`
	InvoiceNumber string `csv:"numero_factura"`
	Vendor        string `csv:"empresa"`
	TaxID         string `csv:"CIF"`
	Base          string `csv:"importe_base"`
	VATRate       string `csv:"%IVA"`
	VATAmount     string `csv:"IVA"`
	Total         string `csv:"importe_total"`
	Notes         string `csv:"Notas"`
}

// WriteCSV writes the records as CSV. Dates use dd/mm/yyyy, amounts two
// decimals, the rate stays a fraction.
func WriteCSV(records []models.InvoiceRecord, outputPath string) error {
	rows := make([]invoiceCSVRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, invoiceCSVRow{
			Date:          dateutils.FormatDate(r.Date),
			InvoiceNumber: r.InvoiceNumber,
			Vendor:        r.Vendor,
			TaxID:         r.TaxID,
			Base:          formatAmount(r.Base),
			VATRate:       formatRate(r.VATRate),
			VATAmount:     formatAmount(r.VATAmount),
			Total:         formatAmount(r.Total),
			Notes:         r.Notes,
		})
	}

	file, err := os.Create(outputPath)
	if err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}
	defer func() {
		if err := file.Close(); err != nil {
			log.WithError(err).Warn("Failed to close file")
		}
	}()

	if err := gocsv.MarshalFile(&rows, file); err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}

	log.Info("CSV written",
		logging.Field{Key: logging.FieldOutputFile, Value: outputPath},
		logging.Field{Key: logging.FieldCount, Value: len(rows)})
	return nil
}

func formatAmount(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.StringFixed(2)
}

func formatRate(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}
