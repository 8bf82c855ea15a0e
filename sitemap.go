package siteaudit

import "context"

// SitemapService discovers URLs from a site's sitemap.
type SitemapService interface {
	// DiscoverURLs returns the page URLs listed in the sitemap at the root of
	// baseURL's host. Nested sitemap indexes are followed.
	// Returns an empty slice (not nil) if the site has no sitemap.
	DiscoverURLs(ctx context.Context, baseURL string) ([]string, error)
}
