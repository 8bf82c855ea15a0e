package mock

import (
	"context"

	"github.com/fwojciec/siteaudit"
)

var _ siteaudit.Fetcher = (*Fetcher)(nil)

// Fetcher is a mock implementation of siteaudit.Fetcher.
type Fetcher struct {
	FetchFn func(ctx context.Context, url string, headers map[string]string) (*siteaudit.Response, error)
	CloseFn func() error
}

func (f *Fetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*siteaudit.Response, error) {
	return f.FetchFn(ctx, url, headers)
}

func (f *Fetcher) Close() error {
	return f.CloseFn()
}
