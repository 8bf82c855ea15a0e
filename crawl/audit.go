package crawl

import (
	"context"
	"fmt"
	"time"

	"github.com/fwojciec/siteaudit"
)

// Compile-time interface verification.
var _ siteaudit.Auditor = (*Auditor)(nil)

// Auditor sequences a crawl with the SEO, social and contact passes and
// assembles the results into an AuditReport.
type Auditor struct {
	Crawler siteaudit.Crawler
	SEO     siteaudit.SEOAnalyzer
	Social  siteaudit.SocialExtractor
	Contact siteaudit.ContactExtractor

	// Now returns the crawl date. Defaults to time.Now.
	Now func() time.Time
}

// Audit crawls seedURL and analyzes the collected pages. The analysis passes
// always run, so a site whose seed could not be fetched still gets a report
// with zero pages.
func (a *Auditor) Audit(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) (*siteaudit.AuditReport, error) {
	crawlDate := a.now().UTC()

	pages, err := a.Crawler.Crawl(ctx, seedURL, opts)
	if err != nil {
		return nil, fmt.Errorf("crawl: %w", err)
	}

	seo := a.SEO.Analyze(pages)
	social := a.Social.ExtractSocialLinks(pages)
	contact := a.Contact.ExtractContactInfo(pages)

	return &siteaudit.AuditReport{
		Website: siteaudit.Website{
			URL:       seedURL,
			CrawlDate: crawlDate,
		},
		SEO:              seo,
		SocialMediaLinks: social,
		AboutUs:          contact.AboutUs,
		ContactUs:        contact.ContactUs,
	}, nil
}

func (a *Auditor) now() time.Time {
	if a.Now == nil {
		return time.Now()
	}
	return a.Now()
}
