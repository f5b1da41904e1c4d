package providers

import (
	"fmt"
	"regexp"
	"strings"

	"jvega/facturas-extract/internal/dateutils"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/store"
	"jvega/facturas-extract/internal/textutils"
)

// KeywordProvider is a vendor configured at runtime from vendors.yaml.
// Detection is keyword-based and parsing reuses the generic label helpers,
// so adding a well-behaved vendor needs no code change.
type KeywordProvider struct {
	name     string
	taxID    string
	keywords []string
	numberRe *regexp.Regexp
}

// NewKeywordProvider builds a provider from a vendor entry. The number
// pattern, when set, must be a valid regexp with one capture group.
func NewKeywordProvider(cfg store.VendorConfig) (*KeywordProvider, error) {
	p := &KeywordProvider{
		name:  strings.ToUpper(strings.TrimSpace(cfg.Name)),
		taxID: textutils.NormalizeTaxID(cfg.TaxID),
	}
	for _, kw := range cfg.Keywords {
		kw = strings.ToUpper(textutils.StripAccents(strings.TrimSpace(kw)))
		if kw != "" {
			p.keywords = append(p.keywords, kw)
		}
	}
	if len(p.keywords) == 0 {
		return nil, fmt.Errorf("vendor %q has no usable keywords", cfg.Name)
	}
	if cfg.NumberPattern != "" {
		re, err := regexp.Compile("(?i)" + cfg.NumberPattern)
		if err != nil {
			return nil, fmt.Errorf("vendor %q number_pattern: %w", cfg.Name, err)
		}
		if re.NumSubexp() < 1 {
			return nil, fmt.Errorf("vendor %q number_pattern needs a capture group", cfg.Name)
		}
		p.numberRe = re
	}
	return p, nil
}

func (p *KeywordProvider) Name() string { return p.name }

func (p *KeywordProvider) Detect(text string) bool {
	up := strings.ToUpper(textutils.StripAccents(text))
	for _, kw := range p.keywords {
		if strings.Contains(up, kw) {
			return true
		}
	}
	return false
}

func (p *KeywordProvider) Parse(text, sourcePath string) []models.InvoiceRecord {
	lines := nonEmptyLines(text)

	number := ""
	if p.numberRe != nil {
		number = firstSubmatch(p.numberRe, text)
	}
	if number == "" {
		number = fileutils.Stem(sourcePath)
	}

	base := findByLabel(lines, genericBaseLabels, scoreBase)
	vat := findByLabel(lines, genericVATLabels, scoreVAT(base))
	total := findByLabel(lines, genericTotalLabels, scoreTotal(base, vat, nil))

	record := models.InvoiceRecord{
		SourceFile:    sourcePath,
		Vendor:        p.name,
		TaxID:         p.taxID,
		Date:          dateutils.ParseInvoiceDate(text),
		InvoiceNumber: number,
		Base:          base,
		VATAmount:     vat,
		Total:         total,
	}
	record.FillDerived()
	return []models.InvoiceRecord{record}
}
