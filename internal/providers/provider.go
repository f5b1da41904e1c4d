// Package providers contains the per-vendor invoice parsers and the ordered
// registry that routes extracted text to the right one.
package providers

import (
	"jvega/facturas-extract/internal/logging"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/store"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// Provider parses invoices of one vendor.
//
// Detect is called with the raw extracted text; the first provider in
// registry order that detects the text parses it. Parse never fails: fields
// it cannot find stay nil and the pipeline records what it got.
type Provider interface {
	// Name identifies the provider, e.g. "REPSOL".
	Name() string
	// Detect reports whether the text looks like this vendor's invoice.
	Detect(text string) bool
	// Parse extracts one or more records from the text. sourcePath is the
	// originating PDF, used for the fallback invoice number.
	Parse(text, sourcePath string) []models.InvoiceRecord
}

// Registry holds providers in detection order: vendor-specific parsers
// first, configured custom vendors next, the generic parser last.
type Registry struct {
	providers []Provider
}

// NewRegistry builds the default registry, inserting any custom vendors
// ahead of the generic catch-all.
func NewRegistry(custom []store.VendorConfig) *Registry {
	providers := []Provider{
		&AlcampoProvider{},
		&IndusanProvider{},
		&ITVProvider{},
		&MercadaizProvider{},
		&O2Provider{},
		&RepsolProvider{},
		&SorpresaProvider{},
		&SupercontableProvider{},
	}
	for _, cfg := range custom {
		kw, err := NewKeywordProvider(cfg)
		if err != nil {
			log.WithError(err).Warn("Skipping invalid custom vendor",
				logging.Field{Key: logging.FieldProvider, Value: cfg.Name})
			continue
		}
		providers = append(providers, kw)
	}
	providers = append(providers, &GenericProvider{})
	return &Registry{providers: providers}
}

// Providers returns the registered providers in detection order.
func (r *Registry) Providers() []Provider {
	return r.providers
}

// Match returns the first provider that detects the text. The generic
// provider detects everything, so Match only returns nil for an empty
// registry.
func (r *Registry) Match(text string) Provider {
	for _, p := range r.providers {
		if p.Detect(text) {
			return p
		}
	}
	return nil
}
