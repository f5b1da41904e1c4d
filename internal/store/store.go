// Package store loads the optional custom vendor definitions that extend the
// built-in provider registry.
package store

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"jvega/facturas-extract/internal/logging"
)

var log = logging.GetLogger()

// SetLogger allows setting a configured logger for this package.
func SetLogger(logger logging.Logger) {
	if logger != nil {
		log = logger
	}
}

// VendorConfig describes one custom vendor in vendors.yaml.
type VendorConfig struct {
	// Name is the vendor name written to the empresa column.
	Name string `yaml:"name"`
	// TaxID is the vendor's CIF/NIF, normalized on load.
	TaxID string `yaml:"tax_id"`
	// Keywords are upper-cased substrings; any match in the (accent-stripped)
	// invoice text selects this vendor.
	Keywords []string `yaml:"keywords"`
	// NumberPattern is an optional regex whose first capture group is the
	// invoice number.
	NumberPattern string `yaml:"number_pattern"`
}

// VendorsFile is the on-disk shape of vendors.yaml.
type VendorsFile struct {
	Vendors []VendorConfig `yaml:"vendors"`
}

// VendorStore locates and parses vendors.yaml.
type VendorStore struct {
	// File overrides the search path when non-empty.
	File string
}

// NewVendorStore creates a store; file may be empty to use the standard
// search locations.
func NewVendorStore(file string) *VendorStore {
	return &VendorStore{File: file}
}

// FindConfigFile looks for a configuration file in standard locations:
// the working directory, ./config/, $XDG_CONFIG_HOME/facturas-extract/ and
// ~/.config/facturas-extract/.
func (s *VendorStore) FindConfigFile(filename string) (string, error) {
	if filepath.IsAbs(filename) {
		if _, err := os.Stat(filename); err == nil {
			return filename, nil
		}
		return "", os.ErrNotExist
	}

	locations := []string{
		filename,
		filepath.Join("config", filename),
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		locations = append(locations, filepath.Join(xdg, "facturas-extract", filename))
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		locations = append(locations, filepath.Join(homeDir, ".config", "facturas-extract", filename))
	}

	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location, nil
		}
	}

	return "", os.ErrNotExist
}

// LoadVendors reads the custom vendor definitions. A missing file is not an
// error; the built-in providers simply run without extensions.
func (s *VendorStore) LoadVendors() ([]VendorConfig, error) {
	filename := s.File
	if filename == "" {
		filename = "vendors.yaml"
	}

	filePath, err := s.FindConfigFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			log.Debug("No custom vendors file found",
				logging.Field{Key: logging.FieldFile, Value: filename})
			return nil, nil
		}
		return nil, fmt.Errorf("error resolving vendors file: %w", err)
	}

	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("error reading vendors file: %w", err)
	}

	var vendorsFile VendorsFile
	if err := yaml.Unmarshal(data, &vendorsFile); err != nil {
		return nil, fmt.Errorf("error parsing vendors file: %w", err)
	}

	var valid []VendorConfig
	for _, v := range vendorsFile.Vendors {
		if v.Name == "" || len(v.Keywords) == 0 {
			log.Warn("Skipping vendor entry without name or keywords",
				logging.Field{Key: logging.FieldFile, Value: filePath})
			continue
		}
		valid = append(valid, v)
	}

	log.Debug("Loaded custom vendors",
		logging.Field{Key: logging.FieldFile, Value: filePath},
		logging.Field{Key: logging.FieldCount, Value: len(valid)})

	return valid, nil
}
