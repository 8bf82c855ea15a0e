// Package goquery implements HTML analysis for siteaudit using goquery:
// link extraction, the SEO checks, and social and contact detection.
package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// Compile-time interface verification.
var _ siteaudit.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor extracts anchors from HTML pages.
type LinkExtractor struct{}

// NewLinkExtractor creates a new LinkExtractor.
func NewLinkExtractor() *LinkExtractor {
	return &LinkExtractor{}
}

// ExtractLinks returns every anchor with a non-empty href in document order.
// Each href is resolved against pageURL and classified as internal when the
// resolved host equals the page host. Markup that cannot be parsed yields
// no links.
func (e *LinkExtractor) ExtractLinks(html string, pageURL string) ([]siteaudit.Link, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, siteaudit.Errorf(siteaudit.EINVALID, "invalid page URL: %v", err)
	}

	doc := parseDocument(html)

	var links []siteaudit.Link
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" {
			return
		}

		resolved := resolveURL(base, href)
		if resolved == "" {
			return
		}

		links = append(links, siteaudit.Link{
			URL:      resolved,
			Href:     href,
			Text:     collapseWhitespace(sel.Text()),
			Internal: isSameHost(base, resolved),
		})
	})

	return links, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
// Fragments are stripped from the resolved URL for deduplication purposes.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	resolved.RawFragment = ""
	return resolved.String()
}

// isSameHost checks if the resolved URL has the same hostname as the base URL.
// This uses exact matching - subdomains are considered different hosts.
func isSameHost(base *url.URL, resolved string) bool {
	u, err := url.Parse(resolved)
	if err != nil {
		return false
	}
	return u.Hostname() != "" && u.Hostname() == base.Hostname()
}

// isMailOrPhoneLink reports whether href is a mailto: or tel: link.
func isMailOrPhoneLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "mailto:") || strings.HasPrefix(href, "tel:")
}
