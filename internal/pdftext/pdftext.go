package pdftext

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"jvega/facturas-extract/internal/logging"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// LayerExtractor implements TextExtractor using the embedded text layer of
// the PDF. Scanned (image-only) PDFs yield little or no text here and are
// handed to the OCR fallback by the pipeline.
type LayerExtractor struct{}

// NewLayerExtractor creates a new LayerExtractor instance.
func NewLayerExtractor() *LayerExtractor {
	return &LayerExtractor{}
}

// ExtractText reads every page's plain text and joins the pages with
// newlines. Pages that fail to decode are skipped rather than failing the
// whole file; OCR noise handling downstream is tolerant of gaps.
func (e *LayerExtractor) ExtractText(pdfPath string) (string, error) {
	f, reader, err := pdf.Open(pdfPath)
	if err != nil {
		return "", fmt.Errorf("error opening PDF: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.WithError(cerr).Warn("Failed to close PDF file",
				logging.Field{Key: logging.FieldFile, Value: pdfPath})
		}
	}()

	var b strings.Builder
	numPages := reader.NumPage()
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, perr := page.GetPlainText(nil)
		if perr != nil {
			log.WithError(perr).Debug("Skipping undecodable page",
				logging.Field{Key: logging.FieldFile, Value: pdfPath},
				logging.Field{Key: logging.FieldPage, Value: i})
			continue
		}
		b.WriteString(text)
		b.WriteString("\n")
	}

	log.Debug("Extracted embedded text layer",
		logging.Field{Key: logging.FieldFile, Value: pdfPath},
		logging.Field{Key: logging.FieldPages, Value: numPages},
		logging.Field{Key: logging.FieldCount, Value: b.Len()})

	return b.String(), nil
}
