package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/siteaudit"
)

// Ensure LoggingAuditor implements siteaudit.Auditor.
var _ siteaudit.Auditor = (*LoggingAuditor)(nil)

// LoggingAuditor wraps an Auditor with logging.
type LoggingAuditor struct {
	next   siteaudit.Auditor
	logger *slog.Logger
}

// NewLoggingAuditor creates a new LoggingAuditor.
func NewLoggingAuditor(next siteaudit.Auditor, logger *slog.Logger) *LoggingAuditor {
	return &LoggingAuditor{next: next, logger: logger}
}

// Audit delegates to the wrapped auditor and logs a summary of the result.
func (a *LoggingAuditor) Audit(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) (report *siteaudit.AuditReport, err error) {
	defer func(begin time.Time) {
		var pages, errs, warnings int
		if report != nil && report.SEO != nil {
			pages = report.SEO.TotalPagesCrawled
			errs = report.SEO.TotalErrors
			warnings = report.SEO.TotalWarnings
		}
		level := slog.LevelInfo
		if err != nil {
			level = slog.LevelError
		}
		a.logger.Log(ctx, level, "audit",
			"url", seedURL,
			"limit", opts.Limit(),
			"pages", pages,
			"errors", errs,
			"warnings", warnings,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return a.next.Audit(ctx, seedURL, opts)
}

// Ensure LoggingAuditService implements siteaudit.AuditService.
var _ siteaudit.AuditService = (*LoggingAuditService)(nil)

// LoggingAuditService wraps an AuditService with debug logging.
type LoggingAuditService struct {
	next   siteaudit.AuditService
	logger *slog.Logger
}

// NewLoggingAuditService creates a new LoggingAuditService.
func NewLoggingAuditService(next siteaudit.AuditService, logger *slog.Logger) *LoggingAuditService {
	return &LoggingAuditService{next: next, logger: logger}
}

func (s *LoggingAuditService) CreateAudit(ctx context.Context, audit *siteaudit.Audit) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("create audit",
			"id", audit.ID,
			"url", audit.URL,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.CreateAudit(ctx, audit)
}

func (s *LoggingAuditService) FindAuditByID(ctx context.Context, id string) (audit *siteaudit.Audit, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find audit",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAuditByID(ctx, id)
}

func (s *LoggingAuditService) FindAudits(ctx context.Context, filter siteaudit.AuditFilter) (audits []*siteaudit.Audit, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("find audits",
			"count", len(audits),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.FindAudits(ctx, filter)
}

func (s *LoggingAuditService) DeleteAudit(ctx context.Context, id string) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("delete audit",
			"id", id,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.DeleteAudit(ctx, id)
}
