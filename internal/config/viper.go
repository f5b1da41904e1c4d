// Package config provides Viper-based hierarchical configuration management.
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Default values for the extraction knobs. CLI flags, environment variables
// and the optional config file all resolve on top of these.
const (
	DefaultOutputName    = "facturas_datos_extraidos.xlsx"
	DefaultDPI           = 150
	DefaultSleepMS       = 0
	DefaultThrottleEvery = 6
	DefaultThrottleMS    = 800
	DefaultChildTimeoutS = 60

	// MinDPI and MinChildTimeoutS are the lower bounds the pipeline clamps to.
	MinDPI           = 72
	MinChildTimeoutS = 30
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	OCR struct {
		Enabled       bool   `mapstructure:"enabled" yaml:"enabled"`
		DPI           int    `mapstructure:"dpi" yaml:"dpi"`
		Language      string `mapstructure:"language" yaml:"language"`
		PSM           int    `mapstructure:"psm" yaml:"psm"`
		PopplerPath   string `mapstructure:"poppler_path" yaml:"poppler_path"`
		TesseractPath string `mapstructure:"tesseract_path" yaml:"tesseract_path"`
		SleepMS       int    `mapstructure:"sleep_ms" yaml:"sleep_ms"`
		ChildTimeoutS int    `mapstructure:"child_timeout_s" yaml:"child_timeout_s"`
	} `mapstructure:"ocr" yaml:"ocr"`

	Throttle struct {
		Every int `mapstructure:"every" yaml:"every"`
		MS    int `mapstructure:"ms" yaml:"ms"`
	} `mapstructure:"throttle" yaml:"throttle"`

	Export struct {
		SheetName  string `mapstructure:"sheet_name" yaml:"sheet_name"`
		OutputName string `mapstructure:"output_name" yaml:"output_name"`
	} `mapstructure:"export" yaml:"export"`

	Vendors struct {
		File string `mapstructure:"file" yaml:"file"`
	} `mapstructure:"vendors" yaml:"vendors"`
}

// InitializeConfig initializes Viper configuration with hierarchical loading:
// defaults, then an optional config file, then FACTURAS_* environment
// variables. CLI flags override on top of the result.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("facturas-extract")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.facturas-extract")
	v.AddConfigPath(".")

	v.SetEnvPrefix("FACTURAS")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// Log the error but don't fail - continue with defaults and env vars
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("ocr.enabled", true)
	v.SetDefault("ocr.dpi", DefaultDPI)
	v.SetDefault("ocr.language", "spa+eng")
	v.SetDefault("ocr.psm", 6)
	v.SetDefault("ocr.poppler_path", "")
	v.SetDefault("ocr.tesseract_path", "")
	v.SetDefault("ocr.sleep_ms", DefaultSleepMS)
	v.SetDefault("ocr.child_timeout_s", DefaultChildTimeoutS)

	v.SetDefault("throttle.every", DefaultThrottleEvery)
	v.SetDefault("throttle.ms", DefaultThrottleMS)

	v.SetDefault("export.sheet_name", "Facturas")
	v.SetDefault("export.output_name", DefaultOutputName)

	v.SetDefault("vendors.file", "")
}

// validateConfig validates the configuration values
func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if config.OCR.DPI < 1 {
		return fmt.Errorf("ocr.dpi must be positive, got: %d", config.OCR.DPI)
	}

	if config.OCR.SleepMS < 0 {
		return fmt.Errorf("ocr.sleep_ms must not be negative, got: %d", config.OCR.SleepMS)
	}

	if config.Throttle.Every < 0 || config.Throttle.MS < 0 {
		return fmt.Errorf("throttle values must not be negative, got: every=%d ms=%d",
			config.Throttle.Every, config.Throttle.MS)
	}

	return nil
}

// ConfigureLoggingFromConfig configures logging based on the Config struct
func ConfigureLoggingFromConfig(config *Config) *logrus.Logger {
	logger := logrus.New()

	logLevel, err := logrus.ParseLevel(strings.ToLower(config.Log.Level))
	if err != nil {
		logger.Warnf("Invalid log level '%s', using 'info'", config.Log.Level)
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	if strings.ToLower(config.Log.Format) == "json" {
		logger.SetFormatter(&logrus.JSONFormatter{})
	} else {
		logger.SetFormatter(&logrus.TextFormatter{
			FullTimestamp: true,
		})
	}

	return logger
}
