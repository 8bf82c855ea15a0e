package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/markdown"
)

var _ siteaudit.ReportWriter = (*JSONWriter)(nil)

// JSONWriter writes reports as indented JSON.
type JSONWriter struct{}

// WriteReport implements siteaudit.ReportWriter.
func (JSONWriter) WriteReport(w io.Writer, report *siteaudit.AuditReport) error {
	return writeJSON(w, report)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}

// newReportWriter returns the writer for an output format.
func newReportWriter(format string) (siteaudit.ReportWriter, error) {
	switch format {
	case "", "json":
		return JSONWriter{}, nil
	case "markdown":
		return markdown.NewReportWriter(), nil
	default:
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "unknown format %q", format)
	}
}

// writeReport renders report to path, or to stdout when path is empty.
func writeReport(stdout io.Writer, path string, rw siteaudit.ReportWriter, report *siteaudit.AuditReport) (err error) {
	if path == "" {
		return rw.WriteReport(stdout, report)
	}

	f, err := os.Create(path) //nolint:gosec // user-provided output path
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return rw.WriteReport(f, report)
}
