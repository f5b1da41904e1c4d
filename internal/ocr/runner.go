// Package ocr rasterizes PDF pages with Poppler and recognizes them with
// Tesseract, both invoked as subprocesses bounded by the caller's context.
package ocr

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"jvega/facturas-extract/internal/logging"
)

// Runner lets tests stub the external commands.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

type execRunner struct {
	log logging.Logger
}

func (r execRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	start := time.Now()

	cmd := exec.CommandContext(ctx, name, args...)
	var out, errb bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &errb

	err := cmd.Run()
	dur := time.Since(start)

	if err != nil {
		r.log.WithError(err).Error("exec failed",
			logging.Field{Key: logging.FieldCommand, Value: name},
			logging.Field{Key: "args", Value: strings.Join(args, " ")},
			logging.Field{Key: logging.FieldDuration, Value: dur.Milliseconds()},
			logging.Field{Key: "stderr", Value: truncate(errb.String(), 8<<10)})
	} else {
		r.log.Debug("exec ok",
			logging.Field{Key: logging.FieldCommand, Value: name},
			logging.Field{Key: logging.FieldDuration, Value: dur.Milliseconds()},
			logging.Field{Key: "stdout_bytes", Value: out.Len()})
	}

	return out.Bytes(), errb.Bytes(), err
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "...(truncated)"
}
