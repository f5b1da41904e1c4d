package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"jvega/facturas-extract/internal/models"
)

func dec(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	return &t
}

func sampleRecords() []models.InvoiceRecord {
	return []models.InvoiceRecord{
		{
			SourceFile:    "/in/alcampo.pdf",
			Vendor:        "ALCAMPO S.A.",
			TaxID:         "A28581882",
			Date:          date(2025, 6, 21),
			InvoiceNumber: "B-2",
			Base:          dec("45.6"),
			VATRate:       dec("0.1"),
			VATAmount:     dec("4.56"),
			Total:         dec("50.16"),
			Method:        models.MethodText,
		},
		{
			SourceFile:    "/in/repsol.pdf",
			Vendor:        "REPSOL SOLUCIONES ENERGETICAS, S.A.",
			TaxID:         "A80298839",
			Date:          date(2025, 1, 5),
			InvoiceNumber: "A-1",
			Base:          dec("40"),
			VATRate:       dec("0.21"),
			VATAmount:     dec("8.4"),
			Total:         dec("48.4"),
			Method:        models.MethodOCR,
			Notes:         "OCR",
		},
		{
			SourceFile:    "/in/scan.pdf",
			InvoiceNumber: "Z-9",
			Method:        models.MethodNone,
			Notes:         "Sin texto",
		},
	}
}

func TestWriteXLSX(t *testing.T) {
	out := filepath.Join(t.TempDir(), "facturas_datos_extraidos.xlsx")

	require.NoError(t, Write(sampleRecords(), out, ""))

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(DefaultSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, headers, rows[0])

	// Sorted by date, dateless row last.
	numbers := make([]string, 0, 3)
	for _, row := range rows[1:] {
		require.True(t, len(row) >= 2)
		numbers = append(numbers, row[1])
	}
	assert.Equal(t, []string{"A-1", "B-2", "Z-9"}, numbers)

	dateCell, err := f.GetCellValue(DefaultSheetName, "A2")
	require.NoError(t, err)
	assert.Equal(t, "05/01/2025", dateCell)

	rawBase, err := f.GetCellValue(DefaultSheetName, "E3", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "45.6", rawBase)

	rawRate, err := f.GetCellValue(DefaultSheetName, "F2", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "0.21", rawRate)

	notes, err := f.GetCellValue(DefaultSheetName, "I4")
	require.NoError(t, err)
	assert.Equal(t, "Sin texto", notes)
}

func TestWriteCSV(t *testing.T) {
	out := filepath.Join(t.TempDir(), "facturas.csv")

	require.NoError(t, Write(sampleRecords(), out, ""))

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 4)

	assert.Equal(t,
		"fecha_factura,numero_factura,empresa,CIF,importe_base,%IVA,IVA,importe_total,Notas",
		lines[0])
	assert.Contains(t, lines[1], "05/01/2025")
	assert.Contains(t, lines[1], "A-1")
	assert.Contains(t, lines[1], "40.00")
	assert.Contains(t, lines[2], "21/06/2025")
	assert.Contains(t, lines[2], "45.60")
	assert.Contains(t, lines[3], "Sin texto")
}

func TestWriteXLSXToInvalidPath(t *testing.T) {
	err := WriteXLSX(sampleRecords(), filepath.Join(t.TempDir(), "missing", "deep", "out.xlsx"), "")
	assert.Error(t, err)
}
