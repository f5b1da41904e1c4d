package textutils

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"european thousands", "1.234,56", "1234.56"},
		{"decimal comma", "1,5", "1.5"},
		{"euro prefix", "€12.00", "12"},
		{"plain integer", "42", "42"},
		{"eur suffix", "99,90 EUR", "99.9"},
		{"nbsp and spaces", "1 234,00", "1234"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.in)
			require.NotNil(t, got)
			want, err := decimal.NewFromString(tt.want)
			require.NoError(t, err)
			assert.True(t, got.Equal(want), "got %s want %s", got, want)
		})
	}
}

func TestParseAmount_Invalid(t *testing.T) {
	assert.Nil(t, ParseAmount(""))
	assert.Nil(t, ParseAmount("   "))
	assert.Nil(t, ParseAmount("abc"))
}

func TestParsePercent(t *testing.T) {
	got := ParsePercent("21%")
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromFloat(0.21)))

	got = ParsePercent("10,50")
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromFloat(0.105)))

	// Already a fraction
	got = ParsePercent("0.04")
	require.NotNil(t, got)
	assert.True(t, got.Equal(decimal.NewFromFloat(0.04)))

	assert.Nil(t, ParsePercent("n/a"))
}

func TestNormalizeTaxID(t *testing.T) {
	assert.Equal(t, "A80298839", NormalizeTaxID("a-80.298 839"))
	assert.Equal(t, "ESA80298839", NormalizeTaxID("es a80298839"))
}

func TestPlausibleTaxID(t *testing.T) {
	assert.True(t, PlausibleTaxID("A80298839"))   // CIF
	assert.True(t, PlausibleTaxID("12345678Z"))   // NIF
	assert.True(t, PlausibleTaxID("X6526242S"))   // NIE
	assert.True(t, PlausibleTaxID("ESA80298839")) // prefixed CIF
	assert.True(t, PlausibleTaxID("FR12345678901"))

	assert.False(t, PlausibleTaxID(""))
	assert.False(t, PlausibleTaxID("12345"))
	assert.False(t, PlausibleTaxID("not a tax id"))
}

func TestStripAccents(t *testing.T) {
	assert.Equal(t, "TELEFONICA DE ESPANA", StripAccents("TELEFÓNICA  DE ESPAÑA"))
	assert.Equal(t, "Junio", StripAccents("Junio"))
}

func TestVATRowRe(t *testing.T) {
	m := VATRowRe.FindStringSubmatch("21% 100,00 21,00")
	require.NotNil(t, m)
	assert.Equal(t, "21", m[1])
	assert.Equal(t, "100,00", m[2])
	assert.Equal(t, "21,00", m[3])
}
