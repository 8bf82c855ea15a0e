package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/fwojciec/siteaudit/fs"
	"github.com/fwojciec/siteaudit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArchivingFetcher(t *testing.T) {
	t.Parallel()

	t.Run("saves fetched pages", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		archive := newTestArchive(t, base)
		next := &mock.Fetcher{
			FetchFn: func(context.Context, string, map[string]string) (*siteaudit.Response, error) {
				return &siteaudit.Response{Body: "<p>hi</p>", StatusCode: 404}, nil
			},
		}
		f := fs.NewArchivingFetcher(next, archive, nil)

		resp, err := f.Fetch(context.Background(), "https://example.com/missing", nil)

		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
		data, err := os.ReadFile(filepath.Join(base, "pages.tmp", "example.com", "missing.html"))
		require.NoError(t, err)
		assert.Equal(t, "<p>hi</p>", string(data))
	})

	t.Run("does not save failed fetches", func(t *testing.T) {
		t.Parallel()

		base := t.TempDir()
		archive := newTestArchive(t, base)
		next := &mock.Fetcher{
			FetchFn: func(context.Context, string, map[string]string) (*siteaudit.Response, error) {
				return nil, &siteaudit.NetworkError{URL: "https://example.com/", Err: assert.AnError}
			},
		}
		f := fs.NewArchivingFetcher(next, archive, nil)

		_, err := f.Fetch(context.Background(), "https://example.com/", nil)

		require.Error(t, err)
		_, err = os.Stat(filepath.Join(base, "pages.tmp"))
		assert.True(t, os.IsNotExist(err))
	})

	t.Run("close delegates", func(t *testing.T) {
		t.Parallel()

		closed := false
		next := &mock.Fetcher{CloseFn: func() error { closed = true; return nil }}
		f := fs.NewArchivingFetcher(next, newTestArchive(t, t.TempDir()), nil)

		require.NoError(t, f.Close())
		assert.True(t, closed)
	})
}
