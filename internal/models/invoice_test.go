package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) *decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return &d
}

func TestAppendNote(t *testing.T) {
	r := InvoiceRecord{}
	r.AppendNote("Sin parser")
	assert.Equal(t, "Sin parser", r.Notes)
	r.AppendNote("OCR")
	assert.Equal(t, "Sin parser; OCR", r.Notes)
	r.AppendNote("")
	assert.Equal(t, "Sin parser; OCR", r.Notes)
}

func TestFillDerived_TotalFromBaseAndVAT(t *testing.T) {
	r := InvoiceRecord{Base: dec(t, "100"), VATAmount: dec(t, "21")}
	r.FillDerived()

	require.NotNil(t, r.Total)
	assert.True(t, r.Total.Equal(decimal.NewFromInt(121)))
	require.NotNil(t, r.VATRate)
	assert.True(t, r.VATRate.Equal(decimal.NewFromFloat(0.21)))
}

func TestFillDerived_RecomputesTotalBelowBase(t *testing.T) {
	// OCR noise sometimes yields a "total" that is actually a line amount
	r := InvoiceRecord{Base: dec(t, "200"), VATRate: dec(t, "0.10"), Total: dec(t, "20")}
	r.FillDerived()

	require.NotNil(t, r.Total)
	assert.True(t, r.Total.Equal(decimal.NewFromInt(220)), "got %s", r.Total)
}

func TestFillDerived_NoInputsNoChange(t *testing.T) {
	r := InvoiceRecord{}
	r.FillDerived()
	assert.Nil(t, r.Total)
	assert.Nil(t, r.VATRate)
	assert.False(t, r.HasAmounts())
}

func TestSortRecords(t *testing.T) {
	d1 := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	records := []InvoiceRecord{
		{InvoiceNumber: "C", Date: nil},
		{InvoiceNumber: "B", Date: &d2},
		{InvoiceNumber: "A", Date: &d1},
		{InvoiceNumber: "AA", Date: &d1},
	}

	SortRecords(records)

	assert.Equal(t, "A", records[0].InvoiceNumber)
	assert.Equal(t, "AA", records[1].InvoiceNumber)
	assert.Equal(t, "B", records[2].InvoiceNumber)
	assert.Equal(t, "C", records[3].InvoiceNumber)
}
