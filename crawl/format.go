package crawl

import (
	"fmt"
)

// TruncateURL shortens a URL for display, keeping the end which is more informative.
func TruncateURL(url string, maxLen int) string {
	if maxLen <= 0 {
		return ""
	}
	if maxLen < 4 {
		// Too short for "..." prefix, just return dots
		return url[:min(len(url), maxLen)]
	}
	if len(url) <= maxLen {
		return url
	}
	return "..." + url[len(url)-maxLen+3:]
}

// FormatBytes formats bytes in human-readable form.
func FormatBytes(bytes int) string {
	const (
		KB = 1024
		MB = KB * 1024
	)
	switch {
	case bytes >= MB:
		return fmt.Sprintf("%.1f MB", float64(bytes)/float64(MB))
	case bytes >= KB:
		return fmt.Sprintf("%.1f KB", float64(bytes)/float64(KB))
	default:
		return fmt.Sprintf("%d B", bytes)
	}
}

// FormatProgress renders a progress event as a single status line, or ""
// for events that have nothing to show.
func FormatProgress(event ProgressEvent) string {
	switch event.Type {
	case ProgressStarted:
		return fmt.Sprintf("crawling up to %d pages", event.Total)
	case ProgressCompleted:
		return fmt.Sprintf("[%d/%d] %d %s (%s)", event.Completed, event.Total, event.StatusCode, TruncateURL(event.URL, 60), FormatBytes(event.Bytes))
	case ProgressFailed:
		return fmt.Sprintf("[%d/%d] failed %s: %v", event.Completed, event.Total, TruncateURL(event.URL, 60), event.Error)
	case ProgressFinished:
		return fmt.Sprintf("crawled %d pages", event.Completed)
	default:
		return ""
	}
}
