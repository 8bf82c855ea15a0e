package goquery

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/siteaudit"
)

// Compile-time interface verification.
var _ siteaudit.SocialExtractor = (*SocialExtractor)(nil)

// SocialExtractor finds social media profile links by substring matching
// anchor hrefs against a platform table. A link to an unrelated host whose
// URL happens to contain a platform domain is matched too.
type SocialExtractor struct {
	// Platforms overrides siteaudit.SocialPlatforms when non-nil.
	Platforms []siteaudit.SocialPlatform
}

// NewSocialExtractor creates a SocialExtractor using siteaudit.SocialPlatforms.
func NewSocialExtractor() *SocialExtractor {
	return &SocialExtractor{}
}

// ExtractSocialLinks scans every anchor on every page. When several links
// match the same platform, the last one scanned wins.
func (e *SocialExtractor) ExtractSocialLinks(pages []*siteaudit.Page) siteaudit.SocialMediaLinks {
	platforms := e.Platforms
	if platforms == nil {
		platforms = siteaudit.SocialPlatforms
	}

	links := make(siteaudit.SocialMediaLinks)
	for _, page := range pages {
		doc := parseDocument(page.Content)
		doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
			href := sel.AttrOr("href", "")
			if href == "" {
				return
			}
			for _, p := range platforms {
				if strings.Contains(href, p.Domain) {
					links[p.Name] = href
				}
			}
		})
	}
	return links
}
