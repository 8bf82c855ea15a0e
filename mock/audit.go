package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.Crawler = (*Crawler)(nil)

// Crawler is a mock implementation of siteaudit.Crawler.
type Crawler struct {
	CrawlFn func(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) ([]*siteaudit.Page, error)
}

func (c *Crawler) Crawl(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) ([]*siteaudit.Page, error) {
	return c.CrawlFn(ctx, seedURL, opts)
}

var _ siteaudit.Auditor = (*Auditor)(nil)

// Auditor is a mock implementation of siteaudit.Auditor.
type Auditor struct {
	AuditFn func(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) (*siteaudit.AuditReport, error)
}

func (a *Auditor) Audit(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) (*siteaudit.AuditReport, error) {
	return a.AuditFn(ctx, seedURL, opts)
}

var _ siteaudit.AuditService = (*AuditService)(nil)

// AuditService is a mock implementation of siteaudit.AuditService.
type AuditService struct {
	CreateAuditFn   func(ctx context.Context, audit *siteaudit.Audit) error
	FindAuditByIDFn func(ctx context.Context, id string) (*siteaudit.Audit, error)
	FindAuditsFn    func(ctx context.Context, filter siteaudit.AuditFilter) ([]*siteaudit.Audit, error)
	DeleteAuditFn   func(ctx context.Context, id string) error
}

func (s *AuditService) CreateAudit(ctx context.Context, audit *siteaudit.Audit) error {
	return s.CreateAuditFn(ctx, audit)
}

func (s *AuditService) FindAuditByID(ctx context.Context, id string) (*siteaudit.Audit, error) {
	return s.FindAuditByIDFn(ctx, id)
}

func (s *AuditService) FindAudits(ctx context.Context, filter siteaudit.AuditFilter) ([]*siteaudit.Audit, error) {
	return s.FindAuditsFn(ctx, filter)
}

func (s *AuditService) DeleteAudit(ctx context.Context, id string) error {
	return s.DeleteAuditFn(ctx, id)
}
