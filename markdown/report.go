// Package markdown renders audit reports as Markdown documents using
// nao1215/markdown.
package markdown

import (
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fwojciec/siteaudit"
	"github.com/nao1215/markdown"
)

// Ensure ReportWriter implements siteaudit.ReportWriter.
var _ siteaudit.ReportWriter = (*ReportWriter)(nil)

// ReportWriter writes an AuditReport as Markdown.
type ReportWriter struct{}

// NewReportWriter creates a new ReportWriter.
func NewReportWriter() *ReportWriter {
	return &ReportWriter{}
}

// WriteReport writes report to w.
func (rw *ReportWriter) WriteReport(w io.Writer, report *siteaudit.AuditReport) error {
	md := markdown.NewMarkdown(w)

	md.H1("Site Audit Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Website", report.Website.URL},
			{"Crawl Date", report.Website.CrawlDate.UTC().Format("2006-01-02 15:04:05 MST")},
		},
	})
	md.PlainText("")

	seo := report.SEO
	if seo == nil {
		seo = siteaudit.NewSEOReport(0)
	}
	writeSummary(md, seo)
	writeIssues(md, "Errors", siteaudit.ErrorCategories, seo.Errors)
	writeIssues(md, "Warnings", siteaudit.WarningCategories, seo.Warnings)
	writeSocial(md, report.SocialMediaLinks)
	writeContact(md, report)

	return md.Build()
}

func writeSummary(md *markdown.Markdown, seo *siteaudit.SEOReport) {
	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Value"},
		Rows: [][]string{
			{"Pages crawled", strconv.Itoa(seo.TotalPagesCrawled)},
			{"Errors", strconv.Itoa(seo.TotalErrors)},
			{"Warnings", strconv.Itoa(seo.TotalWarnings)},
		},
	})
	md.PlainText("")

	switch {
	case seo.TotalPagesCrawled == 0:
		md.Warning("No pages could be crawled.")
	case seo.TotalErrors > 0:
		md.Cautionf("%d error(s) found across %d page(s).", seo.TotalErrors, seo.TotalPagesCrawled)
	case seo.TotalWarnings > 0:
		md.Notef("%d warning(s) found across %d page(s).", seo.TotalWarnings, seo.TotalPagesCrawled)
	default:
		md.Tip("No issues found.")
	}
	md.PlainText("")
}

// writeIssues writes a count table for categories followed by the
// offending pages of every non-zero category.
func writeIssues(md *markdown.Markdown, title string, categories []siteaudit.Category, issues map[string]*siteaudit.Issue) {
	md.H2(title)
	md.PlainText("")

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		count := 0
		if issue, ok := issues[c.Key]; ok {
			count = issue.Count
		}
		rows = append(rows, []string{c.Description, strconv.Itoa(count)})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Issue", "Count"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, c := range categories {
		issue, ok := issues[c.Key]
		if !ok || issue.Count == 0 {
			continue
		}
		md.H3(c.Description)
		md.PlainText("")
		items := make([]string, 0, len(issue.Details))
		for _, d := range issue.Details {
			items = append(items, detailText(d))
		}
		md.BulletList(items...)
		md.PlainText("")
	}
}

func detailText(d siteaudit.IssueDetail) string {
	if d.Duplicates != nil {
		return strings.Join(d.Duplicates, ", ")
	}
	return d.URL
}

func writeSocial(md *markdown.Markdown, links siteaudit.SocialMediaLinks) {
	md.H2("Social Media")
	md.PlainText("")

	if len(links) == 0 {
		md.PlainText("No social media links found.")
		md.PlainText("")
		return
	}

	names := make([]string, 0, len(links))
	for name := range links {
		names = append(names, name)
	}
	sort.Strings(names)

	rows := make([][]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, []string{name, links[name]})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Platform", "URL"},
		Rows:   rows,
	})
	md.PlainText("")
}

func writeContact(md *markdown.Markdown, report *siteaudit.AuditReport) {
	md.H2("About")
	md.PlainText("")
	if report.AboutUs == "" {
		md.PlainText("No about page found.")
	} else {
		md.PlainText(report.AboutUs)
	}
	md.PlainText("")

	md.H2("Contact")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Channel", "Value"},
		Rows: [][]string{
			{"Email", orDash(report.ContactUs.Email)},
			{"Phone", orDash(report.ContactUs.Phone)},
		},
	})
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
