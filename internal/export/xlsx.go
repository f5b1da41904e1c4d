// Package export writes the accumulated invoice records to a spreadsheet.
// XLSX is the default; an output path ending in .csv selects the CSV writer.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"jvega/facturas-extract/internal/logging"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/parsererror"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// DefaultSheetName is the worksheet the rows land on.
const DefaultSheetName = "Facturas"

// headers are the output columns, in the order consumers of the spreadsheet
// expect them.
var headers = []string{
	"fecha_factura",
	"numero_factura",
	"empresa",
	"CIF",
	"importe_base",
	"%IVA",
	"IVA",
	"importe_total",
	"Notas",
}

// Write sorts the records and writes them to outputPath, choosing the
// writer by extension.
func Write(records []models.InvoiceRecord, outputPath, sheetName string) error {
	models.SortRecords(records)
	if strings.EqualFold(filepath.Ext(outputPath), ".csv") {
		return WriteCSV(records, outputPath)
	}
	return WriteXLSX(records, outputPath, sheetName)
}

// WriteXLSX writes the records to one worksheet with typed cells: real
// dates (dd/mm/yyyy), euro-formatted amounts and a percent-formatted rate,
// so the sheet filters and sums without post-processing.
func WriteXLSX(records []models.InvoiceRecord, outputPath, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.WithError(err).Warn("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}
	if err := f.SetSheetRow(sheetName, "A1", &headers); err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}

	dateFmt := "dd/mm/yyyy"
	moneyFmt := `"€"#,##0.00`
	percentFmt := "0.00%"
	dateStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &dateFmt})
	if err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}
	percentStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &percentFmt})
	if err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}

	for i, r := range records {
		row := i + 2
		set := func(col string, v interface{}) {
			if err := f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), v); err != nil {
				log.WithError(err).Warn("Failed to set cell",
					logging.Field{Key: "cell", Value: fmt.Sprintf("%s%d", col, row)})
			}
		}

		if r.Date != nil {
			set("A", *r.Date)
		}
		set("B", r.InvoiceNumber)
		set("C", r.Vendor)
		set("D", r.TaxID)
		if r.Base != nil {
			set("E", r.Base.InexactFloat64())
		}
		if r.VATRate != nil {
			set("F", r.VATRate.InexactFloat64())
		}
		if r.VATAmount != nil {
			set("G", r.VATAmount.InexactFloat64())
		}
		if r.Total != nil {
			set("H", r.Total.InexactFloat64())
		}
		set("I", r.Notes)
	}

	if len(records) > 0 {
		last := len(records) + 1
		styleErrs := []error{
			f.SetCellStyle(sheetName, "A2", fmt.Sprintf("A%d", last), dateStyle),
			f.SetCellStyle(sheetName, "E2", fmt.Sprintf("E%d", last), moneyStyle),
			f.SetCellStyle(sheetName, "F2", fmt.Sprintf("F%d", last), percentStyle),
			f.SetCellStyle(sheetName, "G2", fmt.Sprintf("G%d", last), moneyStyle),
			f.SetCellStyle(sheetName, "H2", fmt.Sprintf("H%d", last), moneyStyle),
		}
		for _, err := range styleErrs {
			if err != nil {
				return &parsererror.ExportError{OutputPath: outputPath, Err: err}
			}
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 12)
	_ = f.SetColWidth(sheetName, "B", "B", 22)
	_ = f.SetColWidth(sheetName, "C", "C", 36)
	_ = f.SetColWidth(sheetName, "D", "D", 12)
	_ = f.SetColWidth(sheetName, "E", "H", 13)
	_ = f.SetColWidth(sheetName, "I", "I", 30)

	if err := f.SaveAs(outputPath); err != nil {
		return &parsererror.ExportError{OutputPath: outputPath, Err: err}
	}

	log.Info("Spreadsheet written",
		logging.Field{Key: logging.FieldOutputFile, Value: outputPath},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
	return nil
}
