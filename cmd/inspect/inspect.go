// Package inspect dumps the extracted text of a single PDF, useful when
// writing a new vendor entry or debugging a misparsed invoice.
package inspect

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"jvega/facturas-extract/cmd/root"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/logging"
	"jvega/facturas-extract/internal/pdftext"
	"jvega/facturas-extract/internal/pipeline"
)

// Cmd represents the inspect command.
var Cmd = &cobra.Command{
	Use:   "inspect <pdf>",
	Short: "Show the extracted text and matched provider for one PDF",
	Args:  cobra.ExactArgs(1),
	Run:   inspectFunc,
}

func inspectFunc(cmd *cobra.Command, args []string) {
	path := args[0]
	if !fileutils.FileExists(path) {
		root.Log.Fatal("File does not exist",
			logging.Field{Key: logging.FieldFile, Value: path})
	}

	text, err := pdftext.NewLayerExtractor().ExtractText(path)
	if err != nil {
		root.Log.WithError(err).Warn("Text layer extraction failed")
		text = ""
	}

	method := "text"
	if len(text) < pipeline.MinTextLen {
		if !root.OCREnabled() {
			method = "none"
		} else {
			ctx, cancel := context.WithTimeout(cmd.Context(), root.ChildTimeout())
			defer cancel()
			text, err = root.NewOCREngine().ExtractText(ctx, path)
			if err != nil {
				root.Log.WithError(err).Fatal("OCR extraction failed")
			}
			method = "ocr"
		}
	}

	provider := root.BuildRegistry().Match(text)
	providerName := "(none)"
	if provider != nil {
		providerName = provider.Name()
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "file:     %s\n", path)
	fmt.Fprintf(out, "method:   %s\n", method)
	fmt.Fprintf(out, "provider: %s\n", providerName)
	fmt.Fprintf(out, "chars:    %d\n", len(text))
	fmt.Fprintln(out, "---")
	fmt.Fprintln(out, text)
}
