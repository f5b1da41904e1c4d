package providers

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jvega/facturas-extract/internal/store"
)

func requireDecimal(t *testing.T, want string, got *decimal.Decimal) {
	t.Helper()
	require.NotNil(t, got)
	expected, err := decimal.NewFromString(want)
	require.NoError(t, err)
	assert.True(t, expected.Equal(*got), "expected %s, got %s", want, got.String())
}

func TestRegistryDetectionOrder(t *testing.T) {
	registry := NewRegistry(nil)

	tests := []struct {
		name string
		text string
		want string
	}{
		{"alcampo", "ALCAMPO S.A. Hipermercado", "ALCAMPO"},
		{"indusan", "INDUSTRIAS REUNIDAS SANITARIAS S.L.", "INDUSAN"},
		{"itv", "ARAGONESA DE SERVICIOS ITV, S.A.", "ARAGONESA DE SERVICIOS ITV"},
		{"mercadaiz", "GASOLEOS MERCADAIZ", "MERCADAIZ"},
		{"repsol", "REPSOL SOLUCIONES ENERGETICAS, S.A.", "REPSOL"},
		{"sorpresa", "SORPRESA HOGAR", "SORPRESA"},
		{"supercontable", "www.supercontable.com", "SUPERCONTABLE"},
		{"fallback", "texto sin pistas de proveedor", "GENERIC"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := registry.Match(tt.text)
			require.NotNil(t, p)
			assert.Equal(t, tt.want, p.Name())
		})
	}
}

func TestRegistryCustomVendorBeforeGeneric(t *testing.T) {
	registry := NewRegistry([]store.VendorConfig{
		{Name: "Acme", Keywords: []string{"Acmé Suministros"}},
	})

	p := registry.Match("Factura de Acmé Suministros S.L.")
	require.NotNil(t, p)
	assert.Equal(t, "ACME", p.Name())
}

func TestRegistrySkipsInvalidCustomVendor(t *testing.T) {
	registry := NewRegistry([]store.VendorConfig{
		{Name: "Broken", Keywords: []string{"BROKEN"}, NumberPattern: "("},
	})

	p := registry.Match("factura de BROKEN")
	require.NotNil(t, p)
	assert.Equal(t, "GENERIC", p.Name())
}

func TestAlcampoParse(t *testing.T) {
	text := `ALCAMPO S.A.
Factura N*: 250500100877
Utebo, a 21 de Junio de 2025
TOTAL BASE IMPONIBLE 45,60
TOTAL IMPUESTO 4,56
TOTAL FACTURA 50,16`

	records := (&AlcampoProvider{}).Parse(text, "/in/alcampo.pdf")
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, "250500100877", r.InvoiceNumber)
	assert.Equal(t, "ALCAMPO S.A.", r.Vendor)
	assert.Equal(t, "A28581882", r.TaxID)
	require.NotNil(t, r.Date)
	assert.Equal(t, time.Date(2025, 6, 21, 0, 0, 0, 0, time.UTC), *r.Date)
	requireDecimal(t, "45.60", r.Base)
	requireDecimal(t, "4.56", r.VATAmount)
	requireDecimal(t, "50.16", r.Total)
	requireDecimal(t, "0.1", r.VATRate)
}

func TestITVParseTwoLines(t *testing.T) {
	text := `ARAGONESA DE SERVICIOS ITV, S.A.
FACTURA N* 000001743/50072024F
Fecha Factura: 15/07/2024
BASE IMPONIBLE: 33,06
TASA TRAFICO: 4,05
TOTAL FACTURA: 44,05`

	records := (&ITVProvider{}).Parse(text, "/in/itv.pdf")
	require.Len(t, records, 2)

	service, fee := records[0], records[1]

	assert.Equal(t, "000001743/50072024F", service.InvoiceNumber)
	requireDecimal(t, "33.06", service.Base)
	requireDecimal(t, "6.94", service.VATAmount)
	requireDecimal(t, "40.00", service.Total)
	assert.Equal(t, "VARIOS IVAS + TOTAL 44.05", service.Notes)

	requireDecimal(t, "4.05", fee.Base)
	requireDecimal(t, "0", fee.VATRate)
	requireDecimal(t, "0", fee.VATAmount)
	requireDecimal(t, "4.05", fee.Total)
	assert.Equal(t, service.Notes, fee.Notes)
	assert.Equal(t, service.InvoiceNumber, fee.InvoiceNumber)
}

func TestRepsolParse(t *testing.T) {
	text := `REPSOL SOLUCIONES ENERGETICAS, S.A.
Nº Factura: 123/456
Fecha: 12/05/2025
Importe del producto (Base Imponible) 40,00
IVA 21,00% de 40,00 € 8,40
TOTAL FACTURA EUROS 48,40 €`

	records := (&RepsolProvider{}).Parse(text, "/in/repsol.pdf")
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, "123/456", r.InvoiceNumber)
	require.NotNil(t, r.Date)
	assert.Equal(t, time.Date(2025, 5, 12, 0, 0, 0, 0, time.UTC), *r.Date)
	requireDecimal(t, "40.00", r.Base)
	requireDecimal(t, "8.40", r.VATAmount)
	requireDecimal(t, "48.40", r.Total)
	requireDecimal(t, "0.21", r.VATRate)
}

func TestSorpresaParse(t *testing.T) {
	text := `SORPRESA HOGAR
N * FAC : 12345
TOTAL: 21%: 10,00 21%: 2,10 12,10`

	records := (&SorpresaProvider{}).Parse(text, "/in/ticket.pdf")
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, "12345", r.InvoiceNumber)
	assert.Nil(t, r.Date)
	requireDecimal(t, "10.00", r.Base)
	requireDecimal(t, "0.21", r.VATRate)
	requireDecimal(t, "2.10", r.VATAmount)
	requireDecimal(t, "12.10", r.Total)
}

func TestSupercontableParse(t *testing.T) {
	text := `www.supercontable.com RCR PROYECTOS DE SOFTWARE
FACTURA PO12345/2025
1 100,00 21 % 21,00 121,00 EUR`

	records := (&SupercontableProvider{}).Parse(text, "/in/super.pdf")
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, "PO12345/2025", r.InvoiceNumber)
	requireDecimal(t, "100.00", r.Base)
	requireDecimal(t, "21.00", r.VATAmount)
	requireDecimal(t, "121.00", r.Total)
	requireDecimal(t, "0.21", r.VATRate)
}

func TestGenericParseVATTable(t *testing.T) {
	text := `FACTURA SIMPLIFICADA
21% 100,00 21,00
TOTAL 121,00 €`

	records := (&GenericProvider{}).Parse(text, "/in/ticket.pdf")
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, "ticket", r.InvoiceNumber)
	requireDecimal(t, "100.00", r.Base)
	requireDecimal(t, "21.00", r.VATAmount)
	requireDecimal(t, "0.21", r.VATRate)
	requireDecimal(t, "121.00", r.Total)
}

func TestGenericParseIntegerVATIsRate(t *testing.T) {
	text := `TOTAL 242,00
BASE IMPONIBLE 200,00
IVA 21`

	records := (&GenericProvider{}).Parse(text, "/in/factura.pdf")
	require.Len(t, records, 1)
	r := records[0]

	requireDecimal(t, "200.00", r.Base)
	requireDecimal(t, "0.21", r.VATRate)
	requireDecimal(t, "242.00", r.Total)
}

func TestGenericParseLabelledAmounts(t *testing.T) {
	text := `BASE IMPONIBLE 50,00 €
CUOTA IVA 10,50 €
TOTAL A PAGAR 60,50 €`

	records := (&GenericProvider{}).Parse(text, "/in/factura.pdf")
	require.Len(t, records, 1)
	r := records[0]

	requireDecimal(t, "50.00", r.Base)
	requireDecimal(t, "10.50", r.VATAmount)
	requireDecimal(t, "60.50", r.Total)
	requireDecimal(t, "0.21", r.VATRate)
}

func TestKeywordProviderDetectIgnoresAccents(t *testing.T) {
	p, err := NewKeywordProvider(store.VendorConfig{
		Name:     "Acme",
		Keywords: []string{"Acmé Suministros"},
	})
	require.NoError(t, err)

	assert.True(t, p.Detect("FACTURA ACME SUMINISTROS S.L."))
	assert.False(t, p.Detect("otra empresa"))
}

func TestKeywordProviderParse(t *testing.T) {
	p, err := NewKeywordProvider(store.VendorConfig{
		Name:          "Acme",
		TaxID:         "b12345678",
		Keywords:      []string{"ACME"},
		NumberPattern: `Factura\s+(AC-\d+)`,
	})
	require.NoError(t, err)

	text := `ACME SUMINISTROS
Factura AC-2025
Fecha Factura: 01/02/2025
BASE IMPONIBLE 50,00 €
CUOTA IVA 10,50 €
TOTAL 60,50 €`

	records := p.Parse(text, "/in/acme.pdf")
	require.Len(t, records, 1)
	r := records[0]

	assert.Equal(t, "ACME", r.Vendor)
	assert.Equal(t, "B12345678", r.TaxID)
	assert.Equal(t, "AC-2025", r.InvoiceNumber)
	require.NotNil(t, r.Date)
	assert.Equal(t, time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), *r.Date)
	requireDecimal(t, "50.00", r.Base)
	requireDecimal(t, "10.50", r.VATAmount)
	requireDecimal(t, "60.50", r.Total)
}

func TestNewKeywordProviderValidation(t *testing.T) {
	_, err := NewKeywordProvider(store.VendorConfig{Name: "NoKeywords"})
	assert.Error(t, err)

	_, err = NewKeywordProvider(store.VendorConfig{
		Name:          "BadPattern",
		Keywords:      []string{"X"},
		NumberPattern: "(",
	})
	assert.Error(t, err)

	_, err = NewKeywordProvider(store.VendorConfig{
		Name:          "NoGroup",
		Keywords:      []string{"X"},
		NumberPattern: `FACTURA \d+`,
	})
	assert.Error(t, err)
}
