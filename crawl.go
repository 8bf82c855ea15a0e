package siteaudit

import (
	"context"
	"net/url"
	"regexp"
)

// DefaultPageLimit bounds a crawl when CrawlOptions.PageLimit is zero.
const DefaultPageLimit = 100

// CrawlOptions configures a single crawl.
type CrawlOptions struct {
	// Headers are sent with every page request.
	Headers map[string]string `json:"headers,omitempty"`

	// Blacklist holds regular expressions matched against absolute link URLs.
	// Matching links are never enqueued.
	Blacklist []string `json:"blacklist,omitempty"`

	// PageLimit bounds the number of collected pages. Zero means DefaultPageLimit.
	PageLimit int `json:"pageLimit,omitempty"`

	// UseSitemap seeds the frontier with the site's /sitemap.xml entries
	// after the seed URL.
	UseSitemap bool `json:"useSitemap,omitempty"`
}

// Limit returns the effective page limit.
func (o CrawlOptions) Limit() int {
	if o.PageLimit == 0 {
		return DefaultPageLimit
	}
	return o.PageLimit
}

// Validate returns an error if the options contain invalid fields.
func (o CrawlOptions) Validate() error {
	if o.PageLimit < 0 {
		return Errorf(EINVALID, "page limit must not be negative")
	}
	_, err := CompileBlacklist(o.Blacklist)
	return err
}

// Blacklist is a compiled set of URL exclusion patterns.
type Blacklist []*regexp.Regexp

// CompileBlacklist compiles patterns into a Blacklist.
// Returns EINVALID if any pattern is not a valid regular expression.
func CompileBlacklist(patterns []string) (Blacklist, error) {
	b := make(Blacklist, 0, len(patterns))
	for _, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, Errorf(EINVALID, "invalid blacklist pattern %q: %v", p, err)
		}
		b = append(b, re)
	}
	return b, nil
}

// Match reports whether url matches any pattern.
func (b Blacklist) Match(url string) bool {
	for _, re := range b {
		if re.MatchString(url) {
			return true
		}
	}
	return false
}

// ParseSeedURL parses rawURL and checks that it is usable as a crawl seed.
// Returns EINVALID unless rawURL is an absolute http or https URL with a host.
func ParseSeedURL(rawURL string) (*url.URL, error) {
	if rawURL == "" {
		return nil, Errorf(EINVALID, "seed URL required")
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, Errorf(EINVALID, "invalid seed URL %q: %v", rawURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "seed URL %q must be absolute http or https", rawURL)
	}
	if u.Hostname() == "" {
		return nil, Errorf(EINVALID, "seed URL %q has no host", rawURL)
	}
	return u, nil
}

// Crawler collects the pages of a site reachable from a seed URL.
type Crawler interface {
	// Crawl traverses the site breadth-first from seedURL and returns the
	// collected pages in discovery order.
	// Returns EINVALID for a malformed seed URL or blacklist pattern.
	Crawl(ctx context.Context, seedURL string, opts CrawlOptions) ([]*Page, error)
}
