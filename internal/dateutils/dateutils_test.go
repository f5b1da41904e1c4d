package dateutils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInvoiceDate_LabelledWins(t *testing.T) {
	text := "Pedido 01/01/2024\nFecha Factura: 15/03/2023\nVencimiento 30/04/2024"

	got := ParseInvoiceDate(text)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2023, 3, 15, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseInvoiceDate_MostRecentCandidate(t *testing.T) {
	text := "Albarán 02/01/2022 ... entrega 21/06/2025 ... ref 01-02-2023"

	got := ParseInvoiceDate(text)
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), *got)
}

func TestParseInvoiceDate_SpanishLongForm(t *testing.T) {
	got := ParseInvoiceDate("Utebo, a 21 de Junio de 2025")
	require.NotNil(t, got)
	assert.Equal(t, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), *got)

	got = ParseInvoiceDate("Madrid, a 3 de setiembre de 2024")
	require.NotNil(t, got)
	assert.Equal(t, time.September, got.Month())
}

func TestParseInvoiceDate_RejectsImplausible(t *testing.T) {
	assert.Nil(t, ParseInvoiceDate("fecha 32/01/2024"))
	assert.Nil(t, ParseInvoiceDate("fecha 15/13/2024"))
	assert.Nil(t, ParseInvoiceDate("fecha 01/01/1999"))
	assert.Nil(t, ParseInvoiceDate("sin fecha alguna"))
	// 31/02 does not exist
	assert.Nil(t, ParseInvoiceDate("fecha 31/02/2024"))
}

func TestFormatDate(t *testing.T) {
	d := time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "21/06/2025", FormatDate(&d))
	assert.Equal(t, "", FormatDate(nil))
}
