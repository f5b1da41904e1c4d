// Package parsererror defines the typed errors shared by the extraction
// pipeline and its parsers.
package parsererror

import "fmt"

// ExtractionError represents a failure while extracting text from a PDF.
type ExtractionError struct {
	FilePath string
	Stage    string // "text-layer", "rasterize", "ocr"
	Err      error
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for %s at stage %s: %v",
		e.FilePath, e.Stage, e.Err)
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// NoTextError indicates a PDF has no usable embedded text layer and OCR was
// not available to compensate.
type NoTextError struct {
	FilePath string
}

func (e *NoTextError) Error() string {
	return fmt.Sprintf("no usable text layer in %s and OCR is disabled", e.FilePath)
}

// OCRTimeoutError indicates the per-file deadline elapsed while extraction
// was still running.
type OCRTimeoutError struct {
	FilePath string
	Seconds  int
}

func (e *OCRTimeoutError) Error() string {
	return fmt.Sprintf("OCR timed out after %ds for %s", e.Seconds, e.FilePath)
}

// InvalidFormatError represents an input file that does not conform to the
// expected format.
type InvalidFormatError struct {
	FilePath       string
	ExpectedFormat string
	Msg            string
}

func (e *InvalidFormatError) Error() string {
	return fmt.Sprintf("invalid format in file '%s': %s. Expected: %s",
		e.FilePath, e.Msg, e.ExpectedFormat)
}

// ExportError represents a failure while writing the output spreadsheet.
type ExportError struct {
	OutputPath string
	Err        error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("failed to write output %s: %v", e.OutputPath, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
