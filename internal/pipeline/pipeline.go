// Package pipeline orchestrates the per-file extraction flow: text layer
// first, OCR fallback, provider matching, and the pacing knobs that keep a
// long run from saturating the machine.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"jvega/facturas-extract/internal/config"
	"jvega/facturas-extract/internal/fileutils"
	"jvega/facturas-extract/internal/logging"
	"jvega/facturas-extract/internal/models"
	"jvega/facturas-extract/internal/pdftext"
	"jvega/facturas-extract/internal/providers"
)

// MinTextLen is the threshold below which the embedded text layer is
// considered unusable and OCR kicks in. Scanned PDFs typically yield a few
// bytes of furniture text, never this much.
const MinTextLen = 80

// OCRExtractor produces text from a PDF by rasterizing and recognizing it.
// Satisfied by *ocr.Engine.
type OCRExtractor interface {
	ExtractText(ctx context.Context, pdfPath string) (string, error)
}

// Options carries the pacing and fallback knobs for a run.
type Options struct {
	// OCREnabled gates the OCR fallback. When false, files without a text
	// layer are recorded as "Sin texto" and no subprocess runs.
	OCREnabled bool
	// ChildTimeout bounds each file's whole extraction. Values below the
	// configured minimum are clamped up.
	ChildTimeout time.Duration
	// ThrottleEvery and ThrottleDelay pause the run after every N files.
	// Either being zero disables throttling.
	ThrottleEvery int
	ThrottleDelay time.Duration
}

// Processor runs the extraction pipeline over a folder of PDFs.
type Processor struct {
	text     pdftext.TextExtractor
	ocr      OCRExtractor
	registry *providers.Registry
	opts     Options
	log      logging.Logger
	sleep    func(time.Duration)
}

// NewProcessor builds a Processor. ocrExtractor may be nil when OCR is
// disabled. Callers are expected to clamp ChildTimeout to the configured
// minimum; a zero value falls back to the default.
func NewProcessor(text pdftext.TextExtractor, ocrExtractor OCRExtractor, registry *providers.Registry, opts Options, logger logging.Logger) *Processor {
	if opts.ChildTimeout <= 0 {
		opts.ChildTimeout = time.Duration(config.DefaultChildTimeoutS) * time.Second
	}
	if logger == nil {
		logger = logging.GetLogger()
	}
	return &Processor{
		text:     text,
		ocr:      ocrExtractor,
		registry: registry,
		opts:     opts,
		log:      logger,
		sleep:    time.Sleep,
	}
}

// SetSleep replaces the pause function, for tests.
func (p *Processor) SetSleep(fn func(time.Duration)) {
	if fn != nil {
		p.sleep = fn
	}
}

// Process extracts records from every PDF under inputDir. The input folder
// not existing or holding no PDFs is an error; per-file failures are
// recorded in the file's row and never abort the run.
func (p *Processor) Process(ctx context.Context, inputDir string) ([]models.InvoiceRecord, error) {
	files, err := fileutils.ListPDFFiles(inputDir)
	if err != nil {
		return nil, fmt.Errorf("listing PDFs in %s: %w", inputDir, err)
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no PDF files found in %s", inputDir)
	}

	p.log.Info("Processing PDF files",
		logging.Field{Key: logging.FieldCount, Value: len(files)},
		logging.Field{Key: logging.FieldInputDir, Value: inputDir})

	var records []models.InvoiceRecord
	for i, file := range files {
		records = append(records, p.processFile(ctx, file)...)

		if p.opts.ThrottleEvery > 0 && p.opts.ThrottleDelay > 0 && (i+1)%p.opts.ThrottleEvery == 0 {
			p.log.Debug("Throttling between files",
				logging.Field{Key: logging.FieldDuration, Value: p.opts.ThrottleDelay.Milliseconds()})
			p.sleep(p.opts.ThrottleDelay)
		}
	}
	return records, nil
}

// processFile bounds one file's extraction with the child timeout. On
// deadline the file gets a timeout row and the caller moves on; the context
// passed to the OCR subprocesses dies with the deadline, killing any hung
// child.
func (p *Processor) processFile(ctx context.Context, path string) []models.InvoiceRecord {
	fileCtx, cancel := context.WithTimeout(ctx, p.opts.ChildTimeout)
	defer cancel()

	done := make(chan []models.InvoiceRecord, 1)
	go func() {
		done <- p.extractAndParse(fileCtx, path)
	}()

	select {
	case records := <-done:
		return records
	case <-fileCtx.Done():
		seconds := int(p.opts.ChildTimeout.Seconds())
		p.log.Warn("File processing timed out",
			logging.Field{Key: logging.FieldFile, Value: path},
			logging.Field{Key: logging.FieldDuration, Value: seconds})
		return []models.InvoiceRecord{{
			SourceFile:    path,
			InvoiceNumber: filepath.Base(path),
			Method:        models.MethodNone,
			Notes:         fmt.Sprintf("Timeout %ds", seconds),
		}}
	}
}

func (p *Processor) extractAndParse(ctx context.Context, path string) []models.InvoiceRecord {
	text, err := p.text.ExtractText(path)
	if err != nil {
		p.log.WithError(err).Debug("Text layer extraction failed",
			logging.Field{Key: logging.FieldFile, Value: path})
		text = ""
	}

	method := models.MethodText
	if len(text) < MinTextLen {
		if !p.opts.OCREnabled || p.ocr == nil {
			p.log.Info("No usable text layer and OCR is disabled",
				logging.Field{Key: logging.FieldFile, Value: path})
			return []models.InvoiceRecord{{
				SourceFile:    path,
				InvoiceNumber: fileutils.Stem(path),
				Method:        models.MethodNone,
				Notes:         "Sin texto",
			}}
		}

		p.log.Debug("Falling back to OCR",
			logging.Field{Key: logging.FieldFile, Value: path})
		text, err = p.ocr.ExtractText(ctx, path)
		if err != nil {
			p.log.WithError(err).Warn("OCR extraction failed",
				logging.Field{Key: logging.FieldFile, Value: path})
			text = ""
		}
		method = models.MethodOCR
	}

	provider := p.registry.Match(text)
	if provider == nil {
		return []models.InvoiceRecord{{
			SourceFile:    path,
			InvoiceNumber: fileutils.Stem(path),
			Method:        models.MethodNone,
			Notes:         "Sin parser",
		}}
	}

	p.log.Debug("Provider matched",
		logging.Field{Key: logging.FieldFile, Value: path},
		logging.Field{Key: logging.FieldProvider, Value: provider.Name()},
		logging.Field{Key: logging.FieldMethod, Value: string(method)})

	records := provider.Parse(text, path)
	if len(records) == 0 {
		return []models.InvoiceRecord{{
			SourceFile:    path,
			InvoiceNumber: fileutils.Stem(path),
			Method:        models.MethodNone,
			Notes:         "Sin parser",
		}}
	}
	for i := range records {
		records[i].SourceFile = path
		records[i].Method = method
		if method == models.MethodOCR {
			records[i].AppendNote("OCR")
		}
	}
	return records
}
