package siteaudit

import "context"

// Response is the body and status code returned for a fetched URL.
type Response struct {
	Body       string
	StatusCode int
}

// Fetcher retrieves page content from URLs.
type Fetcher interface {
	// Fetch retrieves the body of url, sending the given request headers.
	// Any HTTP status is a successful fetch; failures to obtain a response
	// are returned as *NetworkError.
	Fetch(ctx context.Context, url string, headers map[string]string) (*Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
