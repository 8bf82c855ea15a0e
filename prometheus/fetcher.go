package prometheus

import (
	"context"
	"time"

	"github.com/fwojciec/siteaudit"
)

// Ensure MetricsFetcher implements siteaudit.Fetcher.
var _ siteaudit.Fetcher = (*MetricsFetcher)(nil)

// MetricsFetcher wraps a Fetcher and records fetch counts and latency.
type MetricsFetcher struct {
	next    siteaudit.Fetcher
	metrics *Metrics
}

// NewMetricsFetcher creates a new MetricsFetcher.
func NewMetricsFetcher(next siteaudit.Fetcher, metrics *Metrics) *MetricsFetcher {
	return &MetricsFetcher{next: next, metrics: metrics}
}

// Fetch delegates to the wrapped fetcher and records the outcome.
func (f *MetricsFetcher) Fetch(ctx context.Context, url string, headers map[string]string) (resp *siteaudit.Response, err error) {
	defer func(begin time.Time) {
		f.metrics.fetchDuration.Observe(time.Since(begin).Seconds())
		f.metrics.fetches.WithLabelValues(statusClass(resp, err)).Inc()
	}(time.Now())
	return f.next.Fetch(ctx, url, headers)
}

// Close delegates to the wrapped fetcher.
func (f *MetricsFetcher) Close() error {
	return f.next.Close()
}

func statusClass(resp *siteaudit.Response, err error) string {
	if err != nil || resp == nil {
		return "error"
	}
	switch {
	case resp.StatusCode >= 500:
		return "5xx"
	case resp.StatusCode >= 400:
		return "4xx"
	case resp.StatusCode >= 300:
		return "3xx"
	default:
		return "2xx"
	}
}
