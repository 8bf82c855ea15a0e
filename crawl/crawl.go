// Package crawl provides website crawling and audit orchestration.
// It coordinates fetching, link discovery and the analysis passes that turn
// a set of pages into an audit report.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/fwojciec/siteaudit"
	"golang.org/x/sync/errgroup"
)

// Compile-time interface verification.
var _ siteaudit.Crawler = (*Crawler)(nil)

// Crawler collects the pages of a site breadth-first from a seed URL,
// staying on the seed's hostname.
//
// With Concurrency above one, up to that many fetches run at once. Pages are
// still processed in the order their URLs were discovered, so the result is
// the same as a sequential crawl of the same site.
type Crawler struct {
	Fetcher     siteaudit.Fetcher
	Links       siteaudit.LinkExtractor
	Sitemaps    siteaudit.SitemapService
	RateLimiter siteaudit.DomainLimiter
	Concurrency int

	// NewFrontier creates the queue for one crawl, sized for capacity URLs.
	// Defaults to an in-memory Frontier.
	NewFrontier func(capacity uint) siteaudit.URLFrontier

	// RetryDelays are waited between attempts of a failed fetch.
	// Nil means a failed URL is dropped after one attempt.
	RetryDelays []time.Duration

	Progress ProgressFunc
	Logger   *slog.Logger
}

// ProgressEvent reports progress during a crawl operation.
type ProgressEvent struct {
	Type       ProgressType
	Completed  int
	Total      int
	URL        string
	StatusCode int
	Bytes      int
	Error      error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressStarted ProgressType = iota
	ProgressCompleted
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// crawlState is owned by a single Crawl call.
type crawlState struct {
	host      string
	blacklist siteaudit.Blacklist
	frontier  siteaudit.URLFrontier
	collected []*siteaudit.Page
	limit     int
}

// fetchResult holds the outcome of fetching a single URL.
type fetchResult struct {
	seq  int
	url  string
	resp *siteaudit.Response
	err  error
}

// Crawl traverses the site from seedURL and returns the collected pages in
// discovery order. Fetch failures are logged and the URL is skipped; only an
// invalid seed or options, or a canceled context, produce an error.
func (c *Crawler) Crawl(ctx context.Context, seedURL string, opts siteaudit.CrawlOptions) ([]*siteaudit.Page, error) {
	seed, err := siteaudit.ParseSeedURL(seedURL)
	if err != nil {
		return nil, err
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	blacklist, err := siteaudit.CompileBlacklist(opts.Blacklist)
	if err != nil {
		return nil, err
	}

	limit := opts.Limit()
	state := &crawlState{
		host:      seed.Hostname(),
		blacklist: blacklist,
		frontier:  c.newFrontier(frontierCapacity(limit)),
		limit:     limit,
	}
	state.frontier.Push(seed.String())

	if opts.UseSitemap && c.Sitemaps != nil {
		c.enqueueSitemap(ctx, state, seed.String())
	}

	c.notify(ProgressEvent{Type: ProgressStarted, Total: limit})

	if err := c.run(ctx, state, opts.Headers); err != nil {
		return nil, err
	}

	c.notify(ProgressEvent{
		Type:      ProgressFinished,
		Completed: len(state.collected),
		Total:     limit,
	})

	return state.collected, nil
}

// run drives the fetch loop until the frontier drains or the page limit is
// reached. URLs are dispatched in frontier order and their results handled
// in the same order, whatever order the fetches complete in.
func (c *Crawler) run(ctx context.Context, state *crawlState, headers map[string]string) error {
	concurrency := max(c.Concurrency, 1)
	results := make(chan fetchResult, concurrency)

	var g errgroup.Group
	defer func() { _ = g.Wait() }()

	pending := make(map[int]fetchResult)
	var dispatched, handled int

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		// Outstanding fetches are counted against the limit as if they will
		// all succeed, so the collected pages never exceed it.
		for dispatched-handled < concurrency && len(state.collected)+dispatched-handled < state.limit {
			u, ok := state.frontier.Pop()
			if !ok {
				break
			}
			seq := dispatched
			dispatched++
			g.Go(func() error {
				resp, err := c.fetch(ctx, u, headers)
				results <- fetchResult{seq: seq, url: u, resp: resp, err: err}
				return nil
			})
		}

		if dispatched == handled {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case r := <-results:
			pending[r.seq] = r
		}

		for {
			r, ok := pending[handled]
			if !ok {
				break
			}
			delete(pending, handled)
			handled++
			c.handle(state, r)
		}
	}
}

// handle records a fetched page and enqueues its candidate links.
func (c *Crawler) handle(state *crawlState, r fetchResult) {
	if r.err != nil {
		c.logger().Warn("fetch failed", "url", r.url, "err", r.err)
		c.notify(ProgressEvent{
			Type:      ProgressFailed,
			Completed: len(state.collected),
			Total:     state.limit,
			URL:       r.url,
			Error:     r.err,
		})
		return
	}

	page := &siteaudit.Page{
		URL:        r.url,
		Content:    r.resp.Body,
		StatusCode: r.resp.StatusCode,
	}
	state.collected = append(state.collected, page)
	c.notify(ProgressEvent{
		Type:       ProgressCompleted,
		Completed:  len(state.collected),
		Total:      state.limit,
		URL:        r.url,
		StatusCode: page.StatusCode,
		Bytes:      len(page.Content),
	})

	links, err := c.Links.ExtractLinks(page.Content, page.URL)
	if err != nil {
		c.logger().Warn("link extraction failed", "url", page.URL, "err", err)
		return
	}
	for _, link := range links {
		if !isCandidate(link.Href) {
			continue
		}
		state.enqueue(link.URL)
	}
}

// enqueue pushes rawURL onto the frontier if it is on the seed host and not
// blacklisted. Already seen URLs are rejected by the frontier itself.
func (s *crawlState) enqueue(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil || u.Hostname() != s.host {
		return false
	}
	if s.blacklist.Match(rawURL) {
		return false
	}
	return s.frontier.Push(rawURL)
}

// enqueueSitemap adds the site's sitemap URLs behind the seed.
// A missing or broken sitemap is logged and otherwise ignored.
func (c *Crawler) enqueueSitemap(ctx context.Context, state *crawlState, seedURL string) {
	urls, err := c.Sitemaps.DiscoverURLs(ctx, seedURL)
	if err != nil {
		c.logger().Warn("sitemap discovery failed", "url", seedURL, "err", err)
		return
	}
	for _, u := range urls {
		state.enqueue(u)
	}
}

// fetch retrieves a single URL, waiting on the rate limiter before each attempt.
func (c *Crawler) fetch(ctx context.Context, rawURL string, headers map[string]string) (*siteaudit.Response, error) {
	fetchFn := func(ctx context.Context, rawURL string) (*siteaudit.Response, error) {
		if c.RateLimiter != nil {
			if err := c.RateLimiter.Wait(ctx, hostOf(rawURL)); err != nil {
				return nil, err
			}
		}
		return c.Fetcher.Fetch(ctx, rawURL, headers)
	}
	return FetchWithRetryDelays(ctx, rawURL, fetchFn, c.logger(), c.RetryDelays)
}

func (c *Crawler) newFrontier(capacity uint) siteaudit.URLFrontier {
	if c.NewFrontier == nil {
		return NewFrontier(capacity, 0.01)
	}
	return c.NewFrontier(capacity)
}

func (c *Crawler) notify(event ProgressEvent) {
	if c.Progress != nil {
		c.Progress(event)
	}
}

func (c *Crawler) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

// isCandidate reports whether an href may be followed: only root-relative
// paths are, and mail links never are.
func isCandidate(href string) bool {
	return strings.HasPrefix(href, "/") && !strings.Contains(href, "mailto:")
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Hostname()
}

// maxFrontierCapacity caps the up-front sizing of the dedup set. The page
// limit is only an upper bound, so larger crawls grow the set as they go.
const maxFrontierCapacity = 1 << 16

// frontierCapacity sizes the dedup set for a crawl of limit pages, allowing
// for many more discovered links than fetched pages.
func frontierCapacity(limit int) uint {
	if limit > maxFrontierCapacity/50 {
		return maxFrontierCapacity
	}
	return uint(max(limit*50, 1000))
}
