package siteaudit

import (
	"context"
	"io"
	"time"
)

// Website identifies the audited site and when it was crawled.
type Website struct {
	URL       string    `json:"url"`
	CrawlDate time.Time `json:"crawlDate"`
}

// AuditReport is the complete result of auditing a website.
type AuditReport struct {
	Website          Website          `json:"website"`
	SEO              *SEOReport       `json:"auditReport"`
	SocialMediaLinks SocialMediaLinks `json:"socialMediaLinks"`
	AboutUs          string           `json:"aboutUs"`
	ContactUs        ContactUs        `json:"contactUs"`
}

// Auditor runs a complete website audit.
type Auditor interface {
	// Audit crawls seedURL and analyzes the collected pages.
	// A seed that cannot be fetched yields a report with zero pages.
	// Returns EINVALID for a malformed seed URL or crawl options.
	Audit(ctx context.Context, seedURL string, opts CrawlOptions) (*AuditReport, error)
}

// Audit is a stored audit report.
type Audit struct {
	ID  string `json:"id"`
	URL string `json:"url"`

	// ReportHash fingerprints the report content, ignoring the crawl date.
	// Equal hashes for the same URL mean nothing changed between audits.
	ReportHash string `json:"reportHash"`

	PagesCrawled  int `json:"pagesCrawled"`
	TotalErrors   int `json:"totalErrors"`
	TotalWarnings int `json:"totalWarnings"`

	// Report is nil when the audit was loaded without its body.
	Report *AuditReport `json:"report,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
}

// Validate returns an error if the audit contains invalid fields.
func (a *Audit) Validate() error {
	if a.URL == "" {
		return Errorf(EINVALID, "audit URL required")
	}
	if a.Report == nil || a.Report.SEO == nil {
		return Errorf(EINVALID, "audit report required")
	}
	return nil
}

// AuditService represents a service for managing stored audits.
type AuditService interface {
	// CreateAudit stores a new audit. ID, ReportHash, summary counts and
	// CreatedAt are set from the report.
	CreateAudit(ctx context.Context, audit *Audit) error

	// FindAuditByID retrieves an audit with its report.
	// Returns ENOTFOUND if audit does not exist.
	FindAuditByID(ctx context.Context, id string) (*Audit, error)

	// FindAudits retrieves audits matching the filter, newest first.
	// Reports are not loaded.
	FindAudits(ctx context.Context, filter AuditFilter) ([]*Audit, error)

	// DeleteAudit permanently removes an audit.
	// Returns ENOTFOUND if audit does not exist.
	DeleteAudit(ctx context.Context, id string) error
}

// AuditFilter represents a filter for FindAudits.
type AuditFilter struct {
	ID  *string `json:"id"`
	URL *string `json:"url"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ReportWriter renders an audit report.
type ReportWriter interface {
	WriteReport(w io.Writer, report *AuditReport) error
}
