package ocr

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"jvega/facturas-extract/internal/logging"
	"jvega/facturas-extract/internal/parsererror"
)

// Config holds the knobs for the OCR subprocesses.
type Config struct {
	// PopplerPath is a directory holding pdfinfo/pdftoppm when they are not
	// on PATH; empty means resolve from PATH.
	PopplerPath string
	// TesseractPath is the full path to the tesseract binary; empty means
	// resolve "tesseract" from PATH.
	TesseractPath string

	Language string // default "spa+eng"
	DPI      int    // rasterization DPI, default 150, floor 72
	PSM      int    // tesseract page segmentation mode, default 6

	// SleepMS is the pause between pages, the courtesy delay that keeps a
	// long batch from saturating the machine.
	SleepMS int
}

// Engine drives pdfinfo, pdftoppm and tesseract for one PDF at a time.
type Engine struct {
	cfg    Config
	runner Runner
	log    logging.Logger
	sleep  func(time.Duration)
}

var pagesRe = regexp.MustCompile(`(?m)^Pages:\s+(\d+)`)

// NewEngine creates an Engine, applying defaults and clamps to cfg.
func NewEngine(cfg Config, logger logging.Logger) *Engine {
	if logger == nil {
		logger = logging.GetLogger()
	}
	if cfg.Language == "" {
		cfg.Language = "spa+eng"
	}
	if cfg.DPI < 72 {
		cfg.DPI = 72
	}
	if cfg.PSM <= 0 {
		cfg.PSM = 6
	}
	return &Engine{
		cfg:    cfg,
		runner: execRunner{log: logger},
		log:    logger,
		sleep:  time.Sleep,
	}
}

// SetRunner replaces the subprocess runner. Tests use this to stub the
// external binaries.
func (e *Engine) SetRunner(r Runner) {
	if r != nil {
		e.runner = r
	}
}

// SetSleep replaces the inter-page sleep function. Tests use this to avoid
// real delays.
func (e *Engine) SetSleep(fn func(time.Duration)) {
	if fn != nil {
		e.sleep = fn
	}
}

func (e *Engine) popplerBin(name string) string {
	if e.cfg.PopplerPath == "" {
		return name
	}
	return filepath.Join(e.cfg.PopplerPath, name)
}

func (e *Engine) tesseractBin() string {
	if e.cfg.TesseractPath == "" {
		return "tesseract"
	}
	return e.cfg.TesseractPath
}

// PageCount asks pdfinfo for the page count of a PDF.
func (e *Engine) PageCount(ctx context.Context, pdfPath string) (int, error) {
	out, _, err := e.runner.Run(ctx, e.popplerBin("pdfinfo"), pdfPath)
	if err != nil {
		return 0, &parsererror.ExtractionError{FilePath: pdfPath, Stage: "rasterize", Err: err}
	}
	m := pagesRe.FindSubmatch(out)
	if m == nil {
		return 0, &parsererror.ExtractionError{
			FilePath: pdfPath,
			Stage:    "rasterize",
			Err:      fmt.Errorf("pdfinfo output has no Pages line"),
		}
	}
	pages, err := strconv.Atoi(string(m[1]))
	if err != nil || pages < 1 {
		return 0, &parsererror.ExtractionError{
			FilePath: pdfPath,
			Stage:    "rasterize",
			Err:      fmt.Errorf("implausible page count %q", m[1]),
		}
	}
	return pages, nil
}

// ExtractText OCRs a whole PDF: one pdftoppm render plus one tesseract run
// per page, pausing SleepMS between pages. Page texts are joined with
// newlines. A page that fails to render or recognize fails the file; the
// pipeline records the error and moves on.
func (e *Engine) ExtractText(ctx context.Context, pdfPath string) (string, error) {
	pages, err := e.PageCount(ctx, pdfPath)
	if err != nil {
		return "", err
	}

	e.log.Info("Running OCR",
		logging.Field{Key: logging.FieldFile, Value: pdfPath},
		logging.Field{Key: logging.FieldPages, Value: pages},
		logging.Field{Key: "dpi", Value: e.cfg.DPI})

	var b strings.Builder
	for page := 1; page <= pages; page++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		text, err := e.ocrPage(ctx, pdfPath, page)
		if err != nil {
			return "", err
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(text)

		if e.cfg.SleepMS > 0 && page < pages {
			e.sleep(time.Duration(e.cfg.SleepMS) * time.Millisecond)
		}
	}

	return b.String(), nil
}

// ocrPage renders a single page to JPEG in a temp dir and runs tesseract on
// it. Rendering one page at a time keeps memory bounded on large scans.
func (e *Engine) ocrPage(ctx context.Context, pdfPath string, page int) (string, error) {
	tmpDir, err := os.MkdirTemp("", "facturas-ocr-*")
	if err != nil {
		return "", &parsererror.ExtractionError{FilePath: pdfPath, Stage: "rasterize", Err: err}
	}
	defer func() {
		if rerr := os.RemoveAll(tmpDir); rerr != nil {
			e.log.WithError(rerr).Warn("Failed to remove OCR temp dir")
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	pageArg := strconv.Itoa(page)
	// pdftoppm -f N -l N -r <dpi> -jpeg <in.pdf> <tmp/page>
	_, _, err = e.runner.Run(ctx, e.popplerBin("pdftoppm"),
		"-f", pageArg, "-l", pageArg,
		"-r", strconv.Itoa(e.cfg.DPI),
		"-jpeg", pdfPath, prefix)
	if err != nil {
		return "", &parsererror.ExtractionError{FilePath: pdfPath, Stage: "rasterize", Err: err}
	}

	matches, _ := filepath.Glob(prefix + "-*.jpg")
	sort.Strings(matches)
	if len(matches) == 0 {
		return "", &parsererror.ExtractionError{
			FilePath: pdfPath,
			Stage:    "rasterize",
			Err:      fmt.Errorf("pdftoppm produced no image for page %d", page),
		}
	}

	// tesseract <img> stdout -l <lang> --psm <psm>
	out, _, err := e.runner.Run(ctx, e.tesseractBin(),
		matches[0], "stdout",
		"-l", e.cfg.Language,
		"--psm", strconv.Itoa(e.cfg.PSM))
	if err != nil {
		return "", &parsererror.ExtractionError{FilePath: pdfPath, Stage: "ocr", Err: err}
	}

	return string(out), nil
}
