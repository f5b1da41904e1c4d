// Package root contains the root command for the application.
package root

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"jvega/facturas-extract/internal/config"
	"jvega/facturas-extract/internal/export"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/logging"
	"jvega/facturas-extract/internal/ocr"
	"jvega/facturas-extract/internal/pdftext"
	"jvega/facturas-extract/internal/pipeline"
	"jvega/facturas-extract/internal/providers"
	"jvega/facturas-extract/internal/store"
)

// CommonFlags holds the persistent flags shared by the root command and the
// subcommands.
type CommonFlags struct {
	Input         string
	Output        string
	OCR           string
	DPI           int
	PopplerPath   string
	TesseractPath string
	LogLevel      string
	SleepMS       int
	ThrottleEvery int
	ThrottleMS    int
	ChildTimeoutS int
}

var (
	// Log is the shared logger instance for commands.
	Log = logging.GetLogger()

	// SharedFlags are the persistent flags, resolved on top of the config
	// file and FACTURAS_* environment variables.
	SharedFlags = CommonFlags{}

	cfg = &config.Config{}

	// Cmd is the root command.
	Cmd = &cobra.Command{
		Use:   "facturas-extract",
		Short: "Extract structured data from a folder of PDF invoices into a spreadsheet.",
		Long: `facturas-extract scans a folder of PDF invoices, extracts the invoice
fields (date, number, vendor, CIF, taxable base, VAT and total) with
per-vendor parsers, falls back to OCR for scanned documents, and writes
everything to one spreadsheet.`,
		Run: runRoot,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadEnv()
			configureLogging()
		},
	}
)

// Init resolves the configuration and registers the persistent flags with
// config-derived defaults. Called once from main before Execute.
func Init() {
	loaded, err := config.InitializeConfig()
	if err != nil {
		Log.WithError(err).Fatal("Invalid configuration")
	}
	cfg = loaded

	defaultOCR := "off"
	if cfg.OCR.Enabled {
		defaultOCR = "on"
	}

	pf := Cmd.PersistentFlags()
	pf.StringVarP(&SharedFlags.Input, "input", "i", "", "Folder with the PDF invoices (required)")
	pf.StringVarP(&SharedFlags.Output, "output", "o", "", "Output spreadsheet (default: <input>/"+cfg.Export.OutputName+"; a .csv extension selects CSV)")
	pf.StringVar(&SharedFlags.OCR, "ocr", defaultOCR, "OCR fallback for PDFs without a text layer (on/off)")
	pf.IntVar(&SharedFlags.DPI, "dpi", cfg.OCR.DPI, "Rasterization DPI for OCR")
	pf.StringVar(&SharedFlags.PopplerPath, "poppler", cfg.OCR.PopplerPath, "Directory holding the Poppler binaries if not on PATH")
	pf.StringVar(&SharedFlags.TesseractPath, "tesseract", cfg.OCR.TesseractPath, "Full path to tesseract if not on PATH")
	pf.StringVar(&SharedFlags.LogLevel, "log", strings.ToUpper(cfg.Log.Level), "Log level (DEBUG, INFO, WARNING, ERROR)")
	pf.IntVar(&SharedFlags.SleepMS, "sleep-ms", cfg.OCR.SleepMS, "Pause in ms between OCR pages")
	pf.IntVar(&SharedFlags.ThrottleEvery, "throttle-every", cfg.Throttle.Every, "Pause after every N PDFs (0 disables)")
	pf.IntVar(&SharedFlags.ThrottleMS, "throttle-ms", cfg.Throttle.MS, "Pause duration in ms when throttle-every fires")
	pf.IntVar(&SharedFlags.ChildTimeoutS, "child-timeout-s", cfg.OCR.ChildTimeoutS, "Per-PDF processing deadline in seconds")
}

// configureLogging applies the --log flag and fans the configured logger out
// to every package that logs.
func configureLogging() {
	levelStr := strings.ToLower(SharedFlags.LogLevel)
	if levelStr == "warning" {
		levelStr = "warn"
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logging.SetAllLogLevels(level)
	logging.SetDefaultLogger(logging.NewLogrusAdapter(level.String(), cfg.Log.Format))

	Log = logging.GetLogger()
	pdftext.SetLogger(Log)
	providers.SetLogger(Log)
	store.SetLogger(Log)
	export.SetLogger(Log)
}

// BuildRegistry loads the optional custom vendors and assembles the provider
// registry used by the root and inspect commands.
func BuildRegistry() *providers.Registry {
	vendorStore := store.NewVendorStore(cfg.Vendors.File)
	custom, err := vendorStore.LoadVendors()
	if err != nil {
		Log.WithError(err).Warn("Failed to load custom vendors, continuing with built-in providers")
	}
	return providers.NewRegistry(custom)
}

// NewOCREngine assembles the OCR engine from the resolved flags.
func NewOCREngine() *ocr.Engine {
	return ocr.NewEngine(ocr.Config{
		PopplerPath:   SharedFlags.PopplerPath,
		TesseractPath: SharedFlags.TesseractPath,
		Language:      cfg.OCR.Language,
		DPI:           SharedFlags.DPI,
		PSM:           cfg.OCR.PSM,
		SleepMS:       SharedFlags.SleepMS,
	}, Log)
}

// OCREnabled reports whether the --ocr flag is on.
func OCREnabled() bool {
	return strings.EqualFold(SharedFlags.OCR, "on")
}

// ChildTimeout returns the per-file deadline, clamped to the minimum.
func ChildTimeout() time.Duration {
	seconds := SharedFlags.ChildTimeoutS
	if seconds < config.MinChildTimeoutS {
		seconds = config.MinChildTimeoutS
	}
	return time.Duration(seconds) * time.Second
}

func runRoot(cmd *cobra.Command, args []string) {
	if SharedFlags.Input == "" {
		Log.Fatal("--input is required")
	}
	if !fileutils.DirectoryExists(SharedFlags.Input) {
		Log.Fatal("Input folder does not exist or is not a directory",
			logging.Field{Key: logging.FieldInputDir, Value: SharedFlags.Input})
	}

	output := SharedFlags.Output
	if output == "" {
		output = filepath.Join(SharedFlags.Input, cfg.Export.OutputName)
	}

	processor := pipeline.NewProcessor(
		pdftext.NewLayerExtractor(),
		NewOCREngine(),
		BuildRegistry(),
		pipeline.Options{
			OCREnabled:    OCREnabled(),
			ChildTimeout:  ChildTimeout(),
			ThrottleEvery: SharedFlags.ThrottleEvery,
			ThrottleDelay: time.Duration(SharedFlags.ThrottleMS) * time.Millisecond,
		},
		Log,
	)

	records, err := processor.Process(cmd.Context(), SharedFlags.Input)
	if err != nil {
		Log.WithError(err).Fatal("Processing failed")
	}

	if err := export.Write(records, output, cfg.Export.SheetName); err != nil {
		Log.WithError(err).Fatal("Failed to write spreadsheet")
	}

	Log.Info("Extraction completed",
		logging.Field{Key: logging.FieldOutputFile, Value: output},
		logging.Field{Key: logging.FieldCount, Value: len(records)})
}
