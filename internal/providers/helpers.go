package providers

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"jvega/facturas-extract/internal/textutils"
)

// moneyCandidate is one amount found near a label, with the cues used to
// rank it against the other candidates in the window.
type moneyCandidate struct {
	value       decimal.Decimal
	hasEuro     bool
	hasDecimals bool
}

// labelWindow is how many lines below a label are searched for its value.
// OCR output often pushes the amount one or more lines down.
const labelWindow = 4

// moneyCandidates extracts all amounts from a line, skipping percentages.
func moneyCandidates(line string) []moneyCandidate {
	hasEuro := strings.Contains(line, "€")
	var out []moneyCandidate
	for _, loc := range textutils.MoneyRe.FindAllStringIndex(line, -1) {
		raw := line[loc[0]:loc[1]]
		rest := strings.TrimLeft(line[loc[1]:], " ")
		if strings.HasPrefix(rest, "%") {
			continue
		}
		v := textutils.ParseAmount(raw)
		if v == nil {
			continue
		}
		out = append(out, moneyCandidate{
			value:       *v,
			hasEuro:     hasEuro,
			hasDecimals: textutils.HasDecimals(raw),
		})
	}
	return out
}

// findByLabel scans lines for any of the label patterns and returns the best
// ranked amount from the matching line and the lines just below it. score
// ranks candidates for the role being extracted; higher wins.
func findByLabel(lines []string, patterns []*regexp.Regexp, score func(moneyCandidate) float64) *decimal.Decimal {
	for _, pat := range patterns {
		for i, line := range lines {
			if !pat.MatchString(line) {
				continue
			}
			end := i + 1 + labelWindow
			if end > len(lines) {
				end = len(lines)
			}
			var best *moneyCandidate
			var bestScore float64
			for _, w := range lines[i:end] {
				for _, c := range moneyCandidates(w) {
					s := score(c)
					if best == nil || s > bestScore {
						cc := c
						best = &cc
						bestScore = s
					}
				}
			}
			if best != nil {
				v := best.value
				return &v
			}
		}
	}
	return nil
}

// firstSubmatch returns the first capture group of the pattern, or "".
func firstSubmatch(re *regexp.Regexp, text string) string {
	if m := re.FindStringSubmatch(text); m != nil {
		return m[1]
	}
	return ""
}

// amountFrom applies a pattern whose first capture group is an amount.
func amountFrom(re *regexp.Regexp, text string) *decimal.Decimal {
	if m := firstSubmatch(re, text); m != "" {
		return textutils.ParseAmount(m)
	}
	return nil
}

// nonEmptyLines splits text into trimmed, non-empty lines.
func nonEmptyLines(text string) []string {
	var lines []string
	for _, ln := range strings.Split(text, "\n") {
		ln = strings.TrimSpace(ln)
		if ln != "" {
			lines = append(lines, ln)
		}
	}
	return lines
}
