package mock

import (
	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.LinkExtractor = (*LinkExtractor)(nil)

// LinkExtractor is a mock implementation of siteaudit.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, pageURL string) ([]siteaudit.Link, error)
}

func (e *LinkExtractor) ExtractLinks(html string, pageURL string) ([]siteaudit.Link, error) {
	return e.ExtractLinksFn(html, pageURL)
}

var _ siteaudit.SEOAnalyzer = (*SEOAnalyzer)(nil)

// SEOAnalyzer is a mock implementation of siteaudit.SEOAnalyzer.
type SEOAnalyzer struct {
	AnalyzeFn func(pages []*siteaudit.Page) *siteaudit.SEOReport
}

func (a *SEOAnalyzer) Analyze(pages []*siteaudit.Page) *siteaudit.SEOReport {
	return a.AnalyzeFn(pages)
}

var _ siteaudit.SocialExtractor = (*SocialExtractor)(nil)

// SocialExtractor is a mock implementation of siteaudit.SocialExtractor.
type SocialExtractor struct {
	ExtractSocialLinksFn func(pages []*siteaudit.Page) siteaudit.SocialMediaLinks
}

func (e *SocialExtractor) ExtractSocialLinks(pages []*siteaudit.Page) siteaudit.SocialMediaLinks {
	return e.ExtractSocialLinksFn(pages)
}

var _ siteaudit.ContactExtractor = (*ContactExtractor)(nil)

// ContactExtractor is a mock implementation of siteaudit.ContactExtractor.
type ContactExtractor struct {
	ExtractContactInfoFn func(pages []*siteaudit.Page) siteaudit.ContactInfo
}

func (e *ContactExtractor) ExtractContactInfo(pages []*siteaudit.Page) siteaudit.ContactInfo {
	return e.ExtractContactInfoFn(pages)
}
