package fs

import (
	"context"
	"log/slog"

	"github.com/fwojciec/siteaudit"
)

// Ensure ArchivingFetcher implements siteaudit.Fetcher at compile time.
var _ siteaudit.Fetcher = (*ArchivingFetcher)(nil)

// ArchivingFetcher saves every successfully fetched page to an Archive.
// A page that cannot be saved is logged and still returned.
type ArchivingFetcher struct {
	next    siteaudit.Fetcher
	archive *Archive
	logger  *slog.Logger
}

// NewArchivingFetcher wraps next so its responses are saved to archive.
func NewArchivingFetcher(next siteaudit.Fetcher, archive *Archive, logger *slog.Logger) *ArchivingFetcher {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &ArchivingFetcher{next: next, archive: archive, logger: logger}
}

func (f *ArchivingFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (*siteaudit.Response, error) {
	resp, err := f.next.Fetch(ctx, url, headers)
	if err != nil {
		return nil, err
	}

	page := &siteaudit.Page{URL: url, Content: resp.Body, StatusCode: resp.StatusCode}
	if err := f.archive.Save(page); err != nil {
		f.logger.Warn("archive page", "url", url, "err", err)
	}
	return resp, nil
}

func (f *ArchivingFetcher) Close() error {
	return f.next.Close()
}
