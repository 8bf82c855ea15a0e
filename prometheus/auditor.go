package prometheus

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

// Ensure MetricsAuditor implements siteaudit.Auditor.
var _ siteaudit.Auditor = (*MetricsAuditor)(nil)

// MetricsAuditor wraps an Auditor and records audit outcomes and sizes.
type MetricsAuditor struct {
	next    siteaudit.Auditor
	metrics *Metrics
}

// NewMetricsAuditor creates a new MetricsAuditor.
func NewMetricsAuditor(next siteaudit.Auditor, metrics *Metrics) *MetricsAuditor {
	return &MetricsAuditor{next: next, metrics: metrics}
}

// Audit delegates to the wrapped auditor and records the result.
func (a *MetricsAuditor) Audit(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) (*siteaudit.AuditReport, error) {
	report, err := a.next.Audit(ctx, seedURL, opts)
	if err != nil {
		a.metrics.audits.WithLabelValues("error").Inc()
		return nil, err
	}
	a.metrics.audits.WithLabelValues("ok").Inc()
	if report.SEO != nil {
		a.metrics.auditPages.Observe(float64(report.SEO.TotalPagesCrawled))
		a.metrics.auditIssues.WithLabelValues("errors").Observe(float64(report.SEO.TotalErrors))
		a.metrics.auditIssues.WithLabelValues("warnings").Observe(float64(report.SEO.TotalWarnings))
	}
	return report, nil
}
