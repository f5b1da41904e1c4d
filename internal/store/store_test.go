package store

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleVendorsYAML = `vendors:
  - name: FERRETERIA EBRO S.L.
    tax_id: B99001122
    keywords: [FERRETERIA EBRO, FERREBRO]
    number_pattern: 'FACTURA\s+([A-Z0-9/]+)'
  - name: ""
    keywords: [IGNORED]
  - name: SIN KEYWORDS
`

func TestLoadVendors_FromExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendors.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleVendorsYAML), 0644))

	vendors, err := NewVendorStore(path).LoadVendors()
	require.NoError(t, err)
	// entries without name or keywords are dropped
	require.Len(t, vendors, 1)
	assert.Equal(t, "FERRETERIA EBRO S.L.", vendors[0].Name)
	assert.Equal(t, "B99001122", vendors[0].TaxID)
	assert.Equal(t, []string{"FERRETERIA EBRO", "FERREBRO"}, vendors[0].Keywords)
	assert.NotEmpty(t, vendors[0].NumberPattern)
}

func TestLoadVendors_MissingFileIsNotAnError(t *testing.T) {
	vendors, err := NewVendorStore(filepath.Join(t.TempDir(), "absent.yaml")).LoadVendors()
	require.NoError(t, err)
	assert.Nil(t, vendors)
}

func TestLoadVendors_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "vendors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vendors: [not: valid"), 0644))

	_, err := NewVendorStore(path).LoadVendors()
	assert.Error(t, err)
}

func TestFindConfigFile_XDGLocation(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	appDir := filepath.Join(xdg, "facturas-extract")
	require.NoError(t, os.MkdirAll(appDir, 0750))
	path := filepath.Join(appDir, "vendors.yaml")
	require.NoError(t, os.WriteFile(path, []byte("vendors: []"), 0644))

	found, err := NewVendorStore("").FindConfigFile("vendors.yaml")
	require.NoError(t, err)
	assert.Equal(t, path, found)
}
