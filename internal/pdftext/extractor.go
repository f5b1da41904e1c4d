// Package pdftext extracts the embedded text layer of a PDF without
// spawning external tools.
package pdftext

// TextExtractor defines the interface for extracting text from PDF files.
// This interface allows for dependency injection and makes the pipeline
// testable by providing different implementations for production and testing.
type TextExtractor interface {
	// ExtractText extracts text content from a PDF file at the given path.
	// Returns the extracted text as a string or an error if extraction fails.
	ExtractText(pdfPath string) (string, error)
}

// MockExtractor implements TextExtractor for testing purposes. It returns
// predefined data instead of reading real PDF files.
type MockExtractor struct {
	// Texts maps file paths to the text to return; Text is the fallback for
	// paths not present in the map.
	Texts map[string]string
	Text  string
	Err   error

	// Calls records every path passed to ExtractText.
	Calls []string
}

// ExtractText returns the predefined mock text or error.
func (e *MockExtractor) ExtractText(pdfPath string) (string, error) {
	e.Calls = append(e.Calls, pdfPath)
	if e.Err != nil {
		return "", e.Err
	}
	if e.Texts != nil {
		if text, ok := e.Texts[pdfPath]; ok {
			return text, nil
		}
	}
	return e.Text, nil
}
