package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// Compile-time interface verification.
var _ siteaudit.SEOAnalyzer = (*SEOAnalyzer)(nil)

// SEOAnalyzer runs the per-page and cross-page SEO checks.
//
// Per page it flags 5XX and 4XX responses, a missing title, a missing meta
// description, pages without any followable anchor, an H1 identical to the
// title and a missing H1. Across pages it groups identical titles. The other
// report categories are always present but never populated.
type SEOAnalyzer struct{}

// NewSEOAnalyzer creates a new SEOAnalyzer.
func NewSEOAnalyzer() *SEOAnalyzer {
	return &SEOAnalyzer{}
}

// Analyze returns the SEO report for pages.
func (a *SEOAnalyzer) Analyze(pages []*siteaudit.Page) *siteaudit.SEOReport {
	report := siteaudit.NewSEOReport(len(pages))
	errs, warns := report.Errors, report.Warnings
	titles := newTitleIndex()

	for _, page := range pages {
		doc := parseDocument(page.Content)
		title := firstText(doc, "title")
		h1 := firstText(doc, "h1")
		description := metaDescription(doc)

		if title != "" {
			titles.add(title, page.URL)
		}

		if page.StatusCode >= 500 {
			errs[siteaudit.CategoryServerErrors].Flag(page.URL)
		}
		if page.StatusCode >= 400 && page.StatusCode < 500 {
			errs[siteaudit.CategoryClientErrors].Flag(page.URL)
		}
		if title == "" {
			errs[siteaudit.CategoryMissingTitleTags].Flag(page.URL)
		}
		if description == "" {
			errs[siteaudit.CategoryDuplicateMetaDescriptions].Flag(page.URL)
		}
		if !hasFollowableAnchor(doc) {
			errs[siteaudit.CategoryBrokenInternalLinks].Flag(page.URL)
		}
		if title != "" && title == h1 {
			warns[siteaudit.CategoryDuplicateH1AndTitleTags].Flag(page.URL)
		}
		if h1 == "" {
			warns[siteaudit.CategoryMissingH1Heading].Flag(page.URL)
		}
	}

	dup := errs[siteaudit.CategoryDuplicateTitleTags]
	for _, urls := range titles.duplicates() {
		dup.Count += len(urls)
		dup.Details = append(dup.Details, siteaudit.IssueDetail{Duplicates: urls})
	}

	report.Recount()
	return report
}

// metaDescription returns the trimmed content of the first description meta tag.
func metaDescription(doc *goquery.Document) string {
	var content string
	doc.Find("meta[name]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if !strings.EqualFold(strings.TrimSpace(sel.AttrOr("name", "")), "description") {
			return true
		}
		content = strings.TrimSpace(sel.AttrOr("content", ""))
		return false
	})
	return content
}

// hasFollowableAnchor reports whether doc has an anchor whose href is
// neither empty nor a mailto: or tel: link.
func hasFollowableAnchor(doc *goquery.Document) bool {
	found := false
	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href != "" && !isMailOrPhoneLink(href) {
			found = true
			return false
		}
		return true
	})
	return found
}

// titleIndex groups page URLs by title, remembering first-seen title order.
type titleIndex struct {
	order []string
	urls  map[string][]string
}

func newTitleIndex() *titleIndex {
	return &titleIndex{urls: make(map[string][]string)}
}

func (t *titleIndex) add(title, url string) {
	if _, ok := t.urls[title]; !ok {
		t.order = append(t.order, title)
	}
	t.urls[title] = append(t.urls[title], url)
}

// duplicates returns the URL groups of titles shared by two or more pages.
func (t *titleIndex) duplicates() [][]string {
	var groups [][]string
	for _, title := range t.order {
		if urls := t.urls[title]; len(urls) > 1 {
			groups = append(groups, urls)
		}
	}
	return groups
}
