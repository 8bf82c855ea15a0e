package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/siteaudit"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ siteaudit.AuditService = (*AuditService)(nil)

// AuditService implements siteaudit.AuditService using SQLite.
// Reports are stored as JSON.
type AuditService struct {
	db *DB
}

// NewAuditService creates a new AuditService.
func NewAuditService(db *DB) *AuditService {
	return &AuditService{db: db}
}

// CreateAudit stores a new audit.
func (s *AuditService) CreateAudit(ctx context.Context, audit *siteaudit.Audit) error {
	if err := audit.Validate(); err != nil {
		return err
	}

	report, err := json.Marshal(audit.Report)
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	hash, err := ReportHash(audit.Report)
	if err != nil {
		return err
	}

	audit.ID = uuid.New().String()
	audit.ReportHash = hash
	audit.PagesCrawled = audit.Report.SEO.TotalPagesCrawled
	audit.TotalErrors = audit.Report.SEO.TotalErrors
	audit.TotalWarnings = audit.Report.SEO.TotalWarnings
	audit.CreatedAt = time.Now().UTC()

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audits (id, url, report, report_hash, pages_crawled, total_errors, total_warnings, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, audit.ID, audit.URL, string(report), audit.ReportHash,
		audit.PagesCrawled, audit.TotalErrors, audit.TotalWarnings,
		audit.CreatedAt.Format(time.RFC3339))

	return err
}

// FindAuditByID retrieves an audit by ID, including its report.
func (s *AuditService) FindAuditByID(ctx context.Context, id string) (*siteaudit.Audit, error) {
	var audit siteaudit.Audit
	var report, createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, url, report, report_hash, pages_crawled, total_errors, total_warnings, created_at
		FROM audits
		WHERE id = ?
	`, id).Scan(&audit.ID, &audit.URL, &report, &audit.ReportHash,
		&audit.PagesCrawled, &audit.TotalErrors, &audit.TotalWarnings, &createdAt)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, siteaudit.Errorf(siteaudit.ENOTFOUND, "audit not found")
	}
	if err != nil {
		return nil, err
	}

	audit.CreatedAt, err = parseCreatedAt(createdAt)
	if err != nil {
		return nil, err
	}

	audit.Report = &siteaudit.AuditReport{}
	if err := json.Unmarshal([]byte(report), audit.Report); err != nil {
		return nil, fmt.Errorf("failed to decode report: %w", err)
	}

	return &audit, nil
}

// FindAudits retrieves audits matching the filter, newest first.
// Reports are not loaded.
func (s *AuditService) FindAudits(ctx context.Context, filter siteaudit.AuditFilter) ([]*siteaudit.Audit, error) {
	var query strings.Builder
	var args []any

	query.WriteString(`SELECT id, url, report_hash, pages_crawled, total_errors, total_warnings, created_at FROM audits WHERE 1=1`)

	if filter.ID != nil {
		query.WriteString(" AND id = ?")
		args = append(args, *filter.ID)
	}
	if filter.URL != nil {
		query.WriteString(" AND url = ?")
		args = append(args, *filter.URL)
	}

	// rowid breaks ties between audits created within the same second.
	query.WriteString(" ORDER BY created_at DESC, rowid DESC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	audits := make([]*siteaudit.Audit, 0)
	for rows.Next() {
		var audit siteaudit.Audit
		var createdAt string

		if err := rows.Scan(&audit.ID, &audit.URL, &audit.ReportHash,
			&audit.PagesCrawled, &audit.TotalErrors, &audit.TotalWarnings, &createdAt); err != nil {
			return nil, err
		}

		audit.CreatedAt, err = parseCreatedAt(createdAt)
		if err != nil {
			return nil, err
		}

		audits = append(audits, &audit)
	}

	return audits, rows.Err()
}

// DeleteAudit permanently removes an audit.
func (s *AuditService) DeleteAudit(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM audits WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return siteaudit.Errorf(siteaudit.ENOTFOUND, "audit not found")
	}

	return nil
}

// ReportHash fingerprints a report for change detection. The crawl date is
// excluded, so two audits of an unchanged site hash the same.
func ReportHash(report *siteaudit.AuditReport) (string, error) {
	r := *report
	r.Website.CrawlDate = time.Time{}
	data, err := json.Marshal(&r)
	if err != nil {
		return "", fmt.Errorf("failed to encode report: %w", err)
	}
	return fmt.Sprintf("%x", xxhash.Sum64(data)), nil
}

// parseCreatedAt parses the RFC3339 created_at column.
func parseCreatedAt(value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	return t, nil
}

// appendPagination appends LIMIT and OFFSET clauses for positive values.
// SQLite only accepts OFFSET after a LIMIT, so an offset alone is paired
// with LIMIT -1.
func appendPagination(query *strings.Builder, args *[]any, limit, offset int) {
	switch {
	case limit > 0:
		query.WriteString(" LIMIT ?")
		*args = append(*args, limit)
	case offset > 0:
		query.WriteString(" LIMIT -1")
	}
	if offset > 0 {
		query.WriteString(" OFFSET ?")
		*args = append(*args, offset)
	}
}
