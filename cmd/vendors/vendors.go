// Package vendors lists the registered invoice providers.
package vendors

import (
	"fmt"

	"github.com/spf13/cobra"

	"jvega/facturas-extract/cmd/root"
)

// Cmd represents the vendors command.
var Cmd = &cobra.Command{
	Use:   "vendors",
	Short: "List the vendor parsers in detection order",
	Long: `List every registered provider, built-in and custom (vendors.yaml),
in the order they are tried against each invoice.`,
	Run: vendorsFunc,
}

func vendorsFunc(cmd *cobra.Command, args []string) {
	registry := root.BuildRegistry()
	for i, p := range registry.Providers() {
		fmt.Fprintf(cmd.OutOrStdout(), "%2d. %s\n", i+1, p.Name())
	}
}
