package crawl_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/crawl"
	"github.com/fwojciec/siteaudit/goquery"
	sahttp "github.com/fwojciec/siteaudit/http"
	"github.com/fwojciec/siteaudit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuditor_Audit(t *testing.T) {
	t.Parallel()

	fixed := time.Date(2024, 3, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))

	t.Run("assembles report from analysis passes", func(t *testing.T) {
		t.Parallel()

		pages := []*siteaudit.Page{{URL: seed, Content: "<html></html>", StatusCode: 200}}
		seo := siteaudit.NewSEOReport(1)
		a := &crawl.Auditor{
			Crawler: &mock.Crawler{
				CrawlFn: func(_ context.Context, seedURL string, opts siteaudit.CrawlOptions) ([]*siteaudit.Page, error) {
					assert.Equal(t, seed, seedURL)
					assert.Equal(t, 5, opts.PageLimit)
					return pages, nil
				},
			},
			SEO: &mock.SEOAnalyzer{
				AnalyzeFn: func(got []*siteaudit.Page) *siteaudit.SEOReport {
					assert.Equal(t, pages, got)
					return seo
				},
			},
			Social: &mock.SocialExtractor{
				ExtractSocialLinksFn: func(_ []*siteaudit.Page) siteaudit.SocialMediaLinks {
					return siteaudit.SocialMediaLinks{"Twitter": "https://twitter.com/x"}
				},
			},
			Contact: &mock.ContactExtractor{
				ExtractContactInfoFn: func(_ []*siteaudit.Page) siteaudit.ContactInfo {
					return siteaudit.ContactInfo{
						AboutUs:   "About us",
						ContactUs: siteaudit.ContactUs{Email: "hi@example.com"},
					}
				},
			},
			Now: func() time.Time { return fixed },
		}

		report, err := a.Audit(context.Background(), seed, siteaudit.CrawlOptions{PageLimit: 5})

		require.NoError(t, err)
		assert.Equal(t, seed, report.Website.URL)
		assert.Equal(t, fixed.UTC(), report.Website.CrawlDate)
		assert.Equal(t, time.UTC, report.Website.CrawlDate.Location())
		assert.Same(t, seo, report.SEO)
		assert.Equal(t, siteaudit.SocialMediaLinks{"Twitter": "https://twitter.com/x"}, report.SocialMediaLinks)
		assert.Equal(t, "About us", report.AboutUs)
		assert.Equal(t, "hi@example.com", report.ContactUs.Email)
	})

	t.Run("wraps crawl errors", func(t *testing.T) {
		t.Parallel()

		a := &crawl.Auditor{
			Crawler: &mock.Crawler{
				CrawlFn: func(_ context.Context, _ string, _ siteaudit.CrawlOptions) ([]*siteaudit.Page, error) {
					return nil, siteaudit.Errorf(siteaudit.EINVALID, "seed URL required")
				},
			},
		}

		_, err := a.Audit(context.Background(), "", siteaudit.CrawlOptions{})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "crawl:")
		assert.Equal(t, siteaudit.EINVALID, siteaudit.ErrorCode(err))
	})

	t.Run("propagates cancellation", func(t *testing.T) {
		t.Parallel()

		a := &crawl.Auditor{
			Crawler: &mock.Crawler{
				CrawlFn: func(ctx context.Context, _ string, _ siteaudit.CrawlOptions) ([]*siteaudit.Page, error) {
					return nil, context.Canceled
				},
			},
		}

		_, err := a.Audit(context.Background(), seed, siteaudit.CrawlOptions{})

		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestAuditor_Audit_EndToEnd(t *testing.T) {
	t.Parallel()

	site := map[string]struct {
		status int
		body   string
	}{
		"/": {200, `<html><head><title>Home</title><meta name="description" content="Home page"></head>
<body><h1>Welcome</h1>
<a href="/about">About</a>
<a href="/contact">Contact</a>
<a href="https://facebook.com/acme">Facebook</a>
</body></html>`},
		"/about": {200, `<html><head><title>About</title></head>
<body><h1>About Us</h1>
<p>We build things.</p>
<a href="/">Home</a>
</body></html>`},
		"/contact": {200, `<html><head><title>Reach us</title></head>
<body><h1>Get in touch</h1>
<a href="mailto:info@x.com">Email</a>
<a href="tel:+15550100">Call</a>
</body></html>`},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		page, ok := site[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(page.status)
		_, _ = w.Write([]byte(page.body))
	}))
	defer srv.Close()

	fetcher := sahttp.NewFetcher(sahttp.WithTimeout(5 * time.Second))
	defer fetcher.Close()

	a := &crawl.Auditor{
		Crawler: &crawl.Crawler{
			Fetcher:     fetcher,
			Links:       goquery.NewLinkExtractor(),
			Concurrency: 2,
		},
		SEO:     goquery.NewSEOAnalyzer(),
		Social:  goquery.NewSocialExtractor(),
		Contact: goquery.NewContactExtractor(),
	}

	report, err := a.Audit(context.Background(), srv.URL, siteaudit.CrawlOptions{PageLimit: 10})

	require.NoError(t, err)
	assert.Equal(t, 3, report.SEO.TotalPagesCrawled)
	assert.Equal(t, siteaudit.ContactUs{Email: "info@x.com", Phone: "+15550100"}, report.ContactUs)
	assert.NotEmpty(t, report.AboutUs)
	assert.Contains(t, report.AboutUs, "About Us")
	assert.Equal(t, "https://facebook.com/acme", report.SocialMediaLinks["Facebook"])

	missing := report.SEO.Errors[siteaudit.CategoryDuplicateMetaDescriptions]
	assert.Equal(t, 2, missing.Count, "about and contact pages lack a meta description")
	assert.Equal(t, 0, report.SEO.Errors[siteaudit.CategoryServerErrors].Count)
}

func TestAuditor_Audit_EmptyServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/down" {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Home</title></head><body><h1>Home</h1><a href="/down">Down</a></body></html>`))
	}))
	defer srv.Close()

	fetcher := sahttp.NewFetcher(sahttp.WithTimeout(5 * time.Second))
	defer fetcher.Close()

	a := &crawl.Auditor{
		Crawler: &crawl.Crawler{
			Fetcher: fetcher,
			Links:   goquery.NewLinkExtractor(),
		},
		SEO:     goquery.NewSEOAnalyzer(),
		Social:  goquery.NewSocialExtractor(),
		Contact: goquery.NewContactExtractor(),
	}

	report, err := a.Audit(context.Background(), srv.URL, siteaudit.CrawlOptions{PageLimit: 10})

	require.NoError(t, err)
	assert.Equal(t, 2, report.SEO.TotalPagesCrawled)
	serverErrors := report.SEO.Errors[siteaudit.CategoryServerErrors]
	assert.Equal(t, 1, serverErrors.Count)
	require.Len(t, serverErrors.Details, 1)
	assert.Equal(t, srv.URL+"/down", serverErrors.Details[0].URL)
}
