package root_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jvega/facturas-extract/cmd/root"
	"jvega/facturas-extract/internal/config"
)

var initOnce sync.Once

func setup() {
	initOnce.Do(root.Init)
}

func TestRootCommand_Metadata(t *testing.T) {
	setup()

	assert.Equal(t, "facturas-extract", root.Cmd.Use)
	assert.Contains(t, root.Cmd.Short, "PDF invoices")
	assert.NotNil(t, root.Cmd.Run)
	assert.NotNil(t, root.Cmd.PersistentPreRun)
}

func TestRootCommand_FlagDefaults(t *testing.T) {
	setup()

	pf := root.Cmd.PersistentFlags()

	inputFlag := pf.Lookup("input")
	require.NotNil(t, inputFlag)
	assert.Equal(t, "i", inputFlag.Shorthand)

	outputFlag := pf.Lookup("output")
	require.NotNil(t, outputFlag)
	assert.Equal(t, "o", outputFlag.Shorthand)

	ocrFlag := pf.Lookup("ocr")
	require.NotNil(t, ocrFlag)
	assert.Equal(t, "on", ocrFlag.DefValue)

	dpiFlag := pf.Lookup("dpi")
	require.NotNil(t, dpiFlag)
	assert.Equal(t, "150", dpiFlag.DefValue)

	throttleEvery := pf.Lookup("throttle-every")
	require.NotNil(t, throttleEvery)
	assert.Equal(t, "6", throttleEvery.DefValue)

	throttleMS := pf.Lookup("throttle-ms")
	require.NotNil(t, throttleMS)
	assert.Equal(t, "800", throttleMS.DefValue)

	timeoutFlag := pf.Lookup("child-timeout-s")
	require.NotNil(t, timeoutFlag)
	assert.Equal(t, "60", timeoutFlag.DefValue)
}

func TestChildTimeoutClampedToMinimum(t *testing.T) {
	setup()

	original := root.SharedFlags.ChildTimeoutS
	defer func() { root.SharedFlags.ChildTimeoutS = original }()

	root.SharedFlags.ChildTimeoutS = 5
	assert.Equal(t, time.Duration(config.MinChildTimeoutS)*time.Second, root.ChildTimeout())

	root.SharedFlags.ChildTimeoutS = 90
	assert.Equal(t, 90*time.Second, root.ChildTimeout())
}

func TestOCREnabledFlag(t *testing.T) {
	setup()

	original := root.SharedFlags.OCR
	defer func() { root.SharedFlags.OCR = original }()

	root.SharedFlags.OCR = "on"
	assert.True(t, root.OCREnabled())

	root.SharedFlags.OCR = "off"
	assert.False(t, root.OCREnabled())
}

func TestBuildRegistryEndsWithGeneric(t *testing.T) {
	setup()

	registry := root.BuildRegistry()
	providers := registry.Providers()
	require.NotEmpty(t, providers)
	assert.Equal(t, "GENERIC", providers[len(providers)-1].Name())
}
