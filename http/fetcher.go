// Package http provides HTTP-based implementations of siteaudit.Fetcher and
// siteaudit.SitemapService. Pages are fetched as static HTML; JavaScript is
// never executed.
package http

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"time"

	"github.com/fwojciec/siteaudit"
	"golang.org/x/net/html/charset"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
const DefaultFetchTimeout = 10 * time.Second

// DefaultUserAgent identifies the crawler to audited sites.
const DefaultUserAgent = "siteaudit/1.0 (+https://github.com/fwojciec/siteaudit)"

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// Ensure Fetcher implements siteaudit.Fetcher at compile time.
var _ siteaudit.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML pages using HTTP GET requests.
//
// Every response status is returned as a successful fetch so that error
// pages can be reported. A transport failure, a body that cannot be read,
// or a successful response that is not HTML is returned as a
// *siteaudit.NetworkError.
type Fetcher struct {
	client      *http.Client
	timeout     time.Duration
	userAgent   string
	maxBodySize int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithUserAgent sets the User-Agent header. A User-Agent passed in the
// per-request headers takes precedence.
func WithUserAgent(ua string) Option {
	return func(f *Fetcher) {
		f.userAgent = ua
	}
}

// WithMaxBodySize limits the number of body bytes read per response.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		userAgent:   DefaultUserAgent,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	f.client = &http.Client{
		Timeout: f.timeout,
	}

	return f
}

// Fetch retrieves the page at url, sending headers with the request.
// The body is decoded to UTF-8 using the charset declared by the response.
func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*siteaudit.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &siteaudit.NetworkError{URL: url, Err: err}
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml;q=0.9,*/*;q=0.8")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &siteaudit.NetworkError{URL: url, Err: err}
	}
	defer resp.Body.Close()

	contentType := resp.Header.Get("Content-Type")
	if resp.StatusCode < http.StatusBadRequest && !isHTML(contentType) {
		return nil, &siteaudit.NetworkError{URL: url, Err: fmt.Errorf("unsupported content type %q", contentType)}
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &siteaudit.NetworkError{URL: url, Err: fmt.Errorf("reading body: %w", err)}
	}
	body, err := decodeBody(raw, contentType)
	if err != nil {
		return nil, &siteaudit.NetworkError{URL: url, Err: fmt.Errorf("decoding body: %w", err)}
	}

	return &siteaudit.Response{
		Body:       body,
		StatusCode: resp.StatusCode,
	}, nil
}

// decodeBody converts raw to UTF-8. An empty body decodes to "".
func decodeBody(raw []byte, contentType string) (string, error) {
	if len(raw) == 0 {
		return "", nil
	}
	r, err := charset.NewReader(bytes.NewReader(raw), contentType)
	if err != nil {
		return "", err
	}
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}
	return string(body), nil
}

// Close releases resources. For HTTP fetcher this is a no-op since
// http.Client doesn't require explicit cleanup.
func (f *Fetcher) Close() error {
	return nil
}

// isHTML reports whether contentType is an HTML media type.
// A missing content type is accepted.
func isHTML(contentType string) bool {
	if contentType == "" {
		return true
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return false
	}
	return mediaType == "text/html" || mediaType == "application/xhtml+xml"
}
