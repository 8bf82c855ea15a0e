package mock

import (
	"io"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.ReportWriter = (*ReportWriter)(nil)

// ReportWriter is a mock implementation of siteaudit.ReportWriter.
type ReportWriter struct {
	WriteReportFn func(w io.Writer, report *siteaudit.AuditReport) error
}

func (rw *ReportWriter) WriteReport(w io.Writer, report *siteaudit.AuditReport) error {
	return rw.WriteReportFn(w, report)
}
