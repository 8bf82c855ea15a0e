package crawl_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/fwojciec/siteaudit/crawl"
	"github.com/stretchr/testify/assert"
)

func TestFrontier_Push_rejects_duplicate_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	// First push should succeed
	ok := f.Push("https://example.com/page1")
	assert.True(t, ok, "first push should succeed")

	// Second push of same URL should be rejected
	ok = f.Push("https://example.com/page1")
	assert.False(t, ok, "duplicate URL should be rejected")
}

func TestFrontier_Push_rejects_popped_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push("https://example.com/page1")
	f.Pop()

	assert.False(t, f.Push("https://example.com/page1"), "popped URL should not be queued again")
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Push_normalizes_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.True(t, f.Push("https://example.com"))
	assert.False(t, f.Push("https://example.com/"), "empty path and root path are the same page")
	assert.False(t, f.Push("https://example.com/#top"), "fragment should be ignored")

	assert.True(t, f.Push("https://example.com/about#team"))
	assert.False(t, f.Push("https://example.com/about"))

	u, ok := f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/", u)

	u, ok = f.Pop()
	assert.True(t, ok)
	assert.Equal(t, "https://example.com/about", u)
}

func TestFrontier_Pop_returns_URLs_in_insertion_order(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	f.Push("https://example.com/c")
	f.Push("https://example.com/a")
	f.Push("https://example.com/b")

	for _, want := range []string{
		"https://example.com/c",
		"https://example.com/a",
		"https://example.com/b",
	} {
		u, ok := f.Pop()
		assert.True(t, ok)
		assert.Equal(t, want, u)
	}

	// Queue should now be empty
	_, ok := f.Pop()
	assert.False(t, ok, "pop on empty frontier should return false")
}

func TestFrontier_Len_tracks_queue_size(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.Equal(t, 0, f.Len(), "new frontier should be empty")

	f.Push("https://example.com/a")
	assert.Equal(t, 1, f.Len())

	f.Push("https://example.com/b")
	assert.Equal(t, 2, f.Len())

	f.Pop()
	assert.Equal(t, 1, f.Len())

	f.Pop()
	assert.Equal(t, 0, f.Len())
}

func TestFrontier_Seen_tracks_all_pushed_URLs(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(1000, 0.01)

	assert.False(t, f.Seen("https://example.com/page"), "unseen URL should return false")

	f.Push("https://example.com/page")

	assert.True(t, f.Seen("https://example.com/page"), "pushed URL should be seen")
	assert.True(t, f.Seen("https://example.com/page#section"), "fragment should be ignored")

	// Pop the URL - it should still be seen
	f.Pop()
	assert.True(t, f.Seen("https://example.com/page"), "popped URL should still be seen")
}

func TestFrontier_concurrent_access(t *testing.T) {
	t.Parallel()

	f := crawl.NewFrontier(10000, 0.01)

	const numGoroutines = 10
	const numOpsPerGoroutine = 100

	var wg sync.WaitGroup
	wg.Add(numGoroutines * 2) // pushers + poppers

	// Start pushers
	for i := 0; i < numGoroutines; i++ {
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Push(fmt.Sprintf("https://example.com/%d/%d", id, j))
			}
		}(i)
	}

	// Start poppers
	for i := 0; i < numGoroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < numOpsPerGoroutine; j++ {
				f.Pop()
				f.Len()
			}
		}()
	}

	wg.Wait()

	// All pushed URLs should be seen
	for i := 0; i < numGoroutines; i++ {
		for j := 0; j < numOpsPerGoroutine; j++ {
			url := fmt.Sprintf("https://example.com/%d/%d", i, j)
			assert.True(t, f.Seen(url), "pushed URL %s should be seen", url)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"adds root path", "https://example.com", "https://example.com/"},
		{"drops fragment", "https://example.com/a#b", "https://example.com/a"},
		{"keeps query", "https://example.com/a?x=1", "https://example.com/a?x=1"},
		{"keeps trailing slash", "https://example.com/a/", "https://example.com/a/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, crawl.NormalizeURL(tt.in))
		})
	}
}
