// Package dateutils provides the date parsing used when extracting invoice
// dates from raw PDF text.
package dateutils

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date format constants used throughout the application
const (
	DateLayoutISO     = "2006-01-02"
	DateLayoutSlash   = "02/01/2006"
	DateLayoutDash    = "02-01-2006"
	DateLayoutDisplay = "02/01/2006"
)

// MinPlausibleYear guards against OCR noise producing ancient dates; anything
// older is discarded as a candidate.
const MinPlausibleYear = 2018

// monthsES maps upper-case Spanish month names to their month number.
var monthsES = map[string]time.Month{
	"ENERO":      time.January,
	"FEBRERO":    time.February,
	"MARZO":      time.March,
	"ABRIL":      time.April,
	"MAYO":       time.May,
	"JUNIO":      time.June,
	"JULIO":      time.July,
	"AGOSTO":     time.August,
	"SEPTIEMBRE": time.September,
	"SETIEMBRE":  time.September,
	"OCTUBRE":    time.October,
	"NOVIEMBRE":  time.November,
	"DICIEMBRE":  time.December,
}

var (
	labelledDateRe = regexp.MustCompile(`(?i)Fecha\s+Factura\s*[:#]?\s*(\d{1,2}/\d{1,2}/\d{4})`)
	slashDateRe    = regexp.MustCompile(`\d{1,2}/\d{1,2}/\d{4}`)
	dashDateRe     = regexp.MustCompile(`\d{1,2}-\d{1,2}-\d{4}`)
	longDateRe     = regexp.MustCompile(`(?i)(\d{1,2})\s+de\s+([A-Za-zÁÉÍÓÚáéíóú]+)\s+de\s+(\d{4})`)
	accentRe       = strings.NewReplacer("Á", "A", "É", "E", "Í", "I", "Ó", "O", "Ú", "U",
		"á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u")
)

// ParseInvoiceDate scans raw invoice text for the invoice date.
//
// Priority order:
//  1. a labelled "Fecha Factura: dd/mm/yyyy" match,
//  2. the most recent plausible dd/mm/yyyy or dd-mm-yyyy occurrence,
//  3. the Spanish long form "21 de Junio de 2025".
//
// Returns nil when no plausible date is found.
func ParseInvoiceDate(text string) *time.Time {
	if m := labelledDateRe.FindStringSubmatch(text); m != nil {
		if t, err := parseNumeric(m[1], "/"); err == nil {
			return &t
		}
	}

	var candidates []time.Time
	for _, raw := range slashDateRe.FindAllString(text, -1) {
		if t, err := parseNumeric(raw, "/"); err == nil {
			candidates = append(candidates, t)
		}
	}
	for _, raw := range dashDateRe.FindAllString(text, -1) {
		if t, err := parseNumeric(raw, "-"); err == nil {
			candidates = append(candidates, t)
		}
	}
	if len(candidates) > 0 {
		best := candidates[0]
		for _, c := range candidates[1:] {
			if c.After(best) {
				best = c
			}
		}
		return &best
	}

	if m := longDateRe.FindStringSubmatch(text); m != nil {
		day, _ := strconv.Atoi(m[1])
		month, ok := monthsES[accentRe.Replace(strings.ToUpper(m[2]))]
		year, _ := strconv.Atoi(m[3])
		if ok && year >= MinPlausibleYear && day >= 1 && day <= 31 {
			t := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
			return &t
		}
	}

	return nil
}

// parseNumeric parses dd<sep>mm<sep>yyyy, rejecting impossible months and
// implausible years.
func parseNumeric(raw, sep string) (time.Time, error) {
	parts := strings.Split(raw, sep)
	if len(parts) != 3 {
		return time.Time{}, fmt.Errorf("unexpected date shape: %s", raw)
	}
	day, err := strconv.Atoi(parts[0])
	if err != nil {
		return time.Time{}, err
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return time.Time{}, err
	}
	year, err := strconv.Atoi(parts[2])
	if err != nil {
		return time.Time{}, err
	}
	if month < 1 || month > 12 || day < 1 || day > 31 || year < MinPlausibleYear {
		return time.Time{}, fmt.Errorf("implausible date: %s", raw)
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid day-of-month: %s", raw)
	}
	return t, nil
}

// FormatDate formats a date for spreadsheet display. A nil date formats as
// the empty string.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateLayoutDisplay)
}
