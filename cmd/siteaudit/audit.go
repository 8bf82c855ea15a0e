package main

import (
	"fmt"
	"maps"
	"strings"

	"github.com/fwojciec/siteaudit"
)

// Run executes the audit command.
func (c *AuditCmd) Run(deps *Dependencies) error {
	opts, err := c.crawlOptions(deps.Config)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	rw, err := newReportWriter(c.Format)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
		return err
	}

	report, err := deps.Auditor.Audit(deps.Ctx, c.URL, opts)
	if err != nil {
		if deps.Archive != nil {
			_ = deps.Archive.Abort()
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", auditErrorMessage(err))
		return err
	}

	if deps.Archive != nil {
		if err := deps.Archive.Commit(); err != nil {
			fmt.Fprintf(deps.Stderr, "error: failed to archive pages: %s\n", err)
			return err
		}
		fmt.Fprintf(deps.Stderr, "Archived pages to %s\n", deps.Archive.Dir())
	}

	if c.Save {
		if err := c.save(deps, report); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", siteaudit.ErrorMessage(err))
			return err
		}
	}

	if err := writeReport(deps.Stdout, c.Output, rw, report); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", err)
		return err
	}
	return nil
}

// crawlOptions merges the command's flags over the configuration file.
// Flag headers replace configured headers of the same name; flag blacklist
// patterns are added to the configured ones.
func (c *AuditCmd) crawlOptions(cfg *Config) (siteaudit.CrawlOptions, error) {
	headers := make(map[string]string, len(cfg.Headers)+len(c.Header))
	maps.Copy(headers, cfg.Headers)
	for _, h := range c.Header {
		k, v, ok := strings.Cut(h, "=")
		k = strings.TrimSpace(k)
		if !ok || k == "" {
			return siteaudit.CrawlOptions{}, siteaudit.Errorf(siteaudit.EINVALID, "invalid header %q, expected K=V", h)
		}
		headers[k] = strings.TrimSpace(v)
	}

	limit := c.Limit
	if limit == 0 {
		limit = cfg.PageLimit
	}

	var blacklist []string
	blacklist = append(blacklist, cfg.Blacklist...)
	blacklist = append(blacklist, c.Blacklist...)

	return siteaudit.CrawlOptions{
		Headers:    headers,
		Blacklist:  blacklist,
		PageLimit:  limit,
		UseSitemap: c.Sitemap,
	}, nil
}

// ApplyFlags overrides the crawler settings in cfg with the flags that
// were set.
func (c *AuditCmd) ApplyFlags(cfg *Config) {
	if c.Concurrency > 0 {
		cfg.Concurrency = c.Concurrency
	}
	if c.Rate > 0 {
		cfg.RateLimit = c.Rate
	}
	if c.RateBurst > 0 {
		cfg.RateBurst = c.RateBurst
	}
}

// save stores the report and tells the user whether it differs from the
// previous saved audit of the same URL.
func (c *AuditCmd) save(deps *Dependencies, report *siteaudit.AuditReport) error {
	url := c.URL
	previous, err := deps.Audits.FindAudits(deps.Ctx, siteaudit.AuditFilter{URL: &url, Limit: 1})
	if err != nil {
		return err
	}

	audit := &siteaudit.Audit{URL: c.URL, Report: report}
	if err := deps.Audits.CreateAudit(deps.Ctx, audit); err != nil {
		return err
	}

	switch {
	case len(previous) == 0:
		fmt.Fprintf(deps.Stderr, "Saved audit %s (first audit of %s)\n", audit.ID, c.URL)
	case previous[0].ReportHash == audit.ReportHash:
		fmt.Fprintf(deps.Stderr, "Saved audit %s (unchanged since %s)\n", audit.ID, previous[0].ID)
	default:
		fmt.Fprintf(deps.Stderr, "Saved audit %s (changed since %s)\n", audit.ID, previous[0].ID)
	}
	return nil
}

// auditErrorMessage returns the full error for internal failures and the
// user-facing message otherwise.
func auditErrorMessage(err error) string {
	if siteaudit.ErrorCode(err) == siteaudit.EINTERNAL {
		return err.Error()
	}
	return siteaudit.ErrorMessage(err)
}
