package cli

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/supplychain/pkg/errors"
)

// Log formats accepted by --log-format.
const (
	formatText = "text"
	formatJSON = "json"
)

// newLogger creates a logger writing to w. Text output carries short
// timestamps ("14:32:01.45"); JSON output is one object per line.
func newLogger(w io.Writer, level log.Level, format string) *log.Logger {
	opts := log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	}
	if format == formatJSON {
		opts.Formatter = log.JSONFormatter
		opts.TimeFormat = time.RFC3339
	}
	return log.NewWithOptions(w, opts)
}

func (c *CLI) applyLogFormat() error {
	switch c.logFormat {
	case "", formatText:
		c.Logger.SetFormatter(log.TextFormatter)
	case formatJSON:
		c.Logger.SetFormatter(log.JSONFormatter)
		c.Logger.SetTimeFormat(time.RFC3339)
	default:
		return errors.New(errors.ErrCodeInvalidInput, "unknown log format %q (want text or json)", c.logFormat)
	}
	return nil
}

// progress logs the completion of a step with its elapsed time.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg with the elapsed time, e.g. "Rendered 3 files (1.234s)".
func (p *progress) done(msg string, keyvals ...any) {
	p.logger.Info(msg, append(keyvals, "elapsed", time.Since(p.start).Round(time.Millisecond))...)
}
