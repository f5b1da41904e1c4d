package inspect_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"jvega/facturas-extract/cmd/inspect"
)

func TestInspectCommand_Metadata(t *testing.T) {
	assert.Equal(t, "inspect <pdf>", inspect.Cmd.Use)
	assert.NotNil(t, inspect.Cmd.Run)
	assert.NotNil(t, inspect.Cmd.Args)
}
