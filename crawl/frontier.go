package crawl

import (
	"net/url"
	"strings"
	"sync"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/bloom"
)

// Compile-time interface verification.
var _ siteaudit.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL frontier with insertion-time deduplication.
// A URL is rejected if it was ever pushed before, whether it is still queued
// or already popped. It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu    sync.Mutex
	seen  *bloom.Set
	queue []string
}

// NewFrontier creates a new Frontier sized for n expected URLs
// with the given false positive rate for the Bloom pre-check.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen: bloom.NewSet(n, fpRate),
	}
}

// Push appends a URL to the tail of the queue.
// Returns false if the URL has already been seen.
// URLs are normalized before deduplication, see NormalizeURL.
func (f *Frontier) Push(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	u := NormalizeURL(rawURL)
	if !f.seen.Add(u) {
		return false
	}
	f.queue = append(f.queue, u)
	return true
}

// Pop returns the URL at the head of the queue.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	u := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	return u, true
}

// Len returns the number of URLs in the queue.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// Seen returns true if the URL has been processed or queued.
func (f *Frontier) Seen(rawURL string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.seen.Contains(NormalizeURL(rawURL))
}

// NormalizeURL returns the form of rawURL used for deduplication: the
// fragment is dropped and an empty path becomes "/", so that
// https://example.com, https://example.com/ and https://example.com/#top
// are the same page.
func NormalizeURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		if idx := strings.Index(rawURL, "#"); idx != -1 {
			return rawURL[:idx]
		}
		return rawURL
	}
	u.Fragment = ""
	u.RawFragment = ""
	if u.Path == "" && u.Opaque == "" && u.Host != "" {
		u.Path = "/"
	}
	return u.String()
}
