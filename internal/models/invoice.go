// Package models defines the invoice record produced by the extraction
// pipeline and consumed by the spreadsheet writers.
package models

import (
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ExtractionMethod records how the text of a PDF was obtained.
type ExtractionMethod string

const (
	// MethodText means the embedded text layer was used.
	MethodText ExtractionMethod = "text"
	// MethodOCR means the pages were rasterized and OCR'd.
	MethodOCR ExtractionMethod = "ocr"
	// MethodNone means no text could be obtained at all.
	MethodNone ExtractionMethod = "none"
)

// InvoiceRecord is one output row. A single PDF usually produces one record,
// but vendor parsers may emit several (e.g. an invoice carrying a 0%-VAT
// administrative fee line next to the service line).
//
// Monetary fields are nil when the value could not be extracted. VATRate is
// a fraction (0.21 for 21%).
type InvoiceRecord struct {
	SourceFile    string
	Vendor        string
	TaxID         string
	Date          *time.Time
	InvoiceNumber string
	Base          *decimal.Decimal
	VATRate       *decimal.Decimal
	VATAmount     *decimal.Decimal
	Total         *decimal.Decimal
	Method        ExtractionMethod
	Notes         string
}

// AppendNote adds a note fragment, separating it from existing notes with
// "; " the way the original tool annotated OCR rows.
func (r *InvoiceRecord) AppendNote(note string) {
	if note == "" {
		return
	}
	if r.Notes == "" {
		r.Notes = note
		return
	}
	r.Notes = r.Notes + "; " + note
}

// HasAmounts reports whether at least one monetary field was extracted.
func (r *InvoiceRecord) HasAmounts() bool {
	return r.Base != nil || r.VATAmount != nil || r.Total != nil
}

// FillDerived back-fills the amounts that follow arithmetically from the
// ones already present:
//   - Total = Base + VATAmount when the total is missing,
//   - VATRate = VATAmount / Base when the rate is missing,
//   - a Total below Base is recomputed from Base and rate or VAT amount.
func (r *InvoiceRecord) FillDerived() {
	if r.Total == nil && r.Base != nil && r.VATAmount != nil {
		t := r.Base.Add(*r.VATAmount).Round(2)
		r.Total = &t
	}
	if r.VATRate == nil && r.Base != nil && r.VATAmount != nil && r.Base.IsPositive() {
		rate := r.VATAmount.Div(*r.Base).Round(6)
		r.VATRate = &rate
	}
	if r.Total != nil && r.Base != nil && r.Total.LessThan(*r.Base) {
		switch {
		case r.VATRate != nil:
			t := r.Base.Mul(decimal.NewFromInt(1).Add(*r.VATRate)).Round(2)
			r.Total = &t
		case r.VATAmount != nil:
			t := r.Base.Add(*r.VATAmount).Round(2)
			r.Total = &t
		}
	}
}

// SortRecords orders records by date then invoice number, matching the order
// of the output spreadsheet. Records without a date sort last.
func SortRecords(records []InvoiceRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		a, b := records[i], records[j]
		switch {
		case a.Date == nil && b.Date == nil:
			return strings.Compare(a.InvoiceNumber, b.InvoiceNumber) < 0
		case a.Date == nil:
			return false
		case b.Date == nil:
			return true
		case a.Date.Equal(*b.Date):
			return strings.Compare(a.InvoiceNumber, b.InvoiceNumber) < 0
		default:
			return a.Date.Before(*b.Date)
		}
	})
}
