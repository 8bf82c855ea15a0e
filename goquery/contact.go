package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// AboutSnippetLength is the number of characters kept for the about snippet.
const AboutSnippetLength = 500

// Compile-time interface verification.
var _ siteaudit.ContactExtractor = (*ContactExtractor)(nil)

// ContactExtractor finds the about snippet and contact details of a site
// using keyword heuristics.
//
// A page is an about page if its URL path contains "/about" or its text
// contains "about us", and a contact page if its path contains "/contact" or
// its text contains "contact". Matching is case-insensitive. The text match
// for "contact" is broad and will pick up unrelated pages.
type ContactExtractor struct{}

// NewContactExtractor creates a new ContactExtractor.
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{}
}

// ExtractContactInfo scans all pages in order. Each matching page overwrites
// what earlier pages produced, including with empty values.
func (e *ContactExtractor) ExtractContactInfo(pages []*siteaudit.Page) siteaudit.ContactInfo {
	var info siteaudit.ContactInfo
	for _, page := range pages {
		doc := parseDocument(page.Content)
		text := documentText(doc)
		lowerText := strings.ToLower(text)
		path := strings.ToLower(urlPath(page.URL))

		if strings.Contains(path, "/about") || strings.Contains(lowerText, "about us") {
			info.AboutUs = truncateRunes(text, AboutSnippetLength)
		}

		if strings.Contains(path, "/contact") || strings.Contains(lowerText, "contact") {
			info.ContactUs = siteaudit.ContactUs{
				Email: firstHref(doc, "mailto:"),
				Phone: firstHref(doc, "tel:"),
			}
		}
	}
	return info
}

// firstHref returns the first href starting with scheme, with the scheme and
// any query string removed.
func firstHref(doc *goquery.Document, scheme string) string {
	href, ok := doc.Find(`a[href^="` + scheme + `"]`).First().Attr("href")
	if !ok {
		return ""
	}
	value := strings.TrimPrefix(href, scheme)
	if idx := strings.Index(value, "?"); idx != -1 {
		value = value[:idx]
	}
	return strings.TrimSpace(value)
}

func urlPath(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	return u.Path
}
