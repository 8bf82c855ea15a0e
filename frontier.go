package siteaudit

import "context"

// URLFrontier manages a crawl queue with deduplication.
type URLFrontier interface {
	// Push appends a URL to the tail of the queue.
	// Returns false if the URL has already been queued or visited.
	Push(url string) bool

	// Pop removes and returns the URL at the head of the queue.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// Len returns the number of URLs in the queue.
	Len() int

	// Seen returns true if the URL has been processed or queued.
	Seen(url string) bool
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
