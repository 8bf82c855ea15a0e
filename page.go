package siteaudit

// Page represents a fetched page of the audited site.
type Page struct {
	URL        string `json:"url"`
	Content    string `json:"content"` // Raw HTML
	StatusCode int    `json:"statusCode"`
}

// Link is an anchor discovered on a page.
type Link struct {
	// URL is the absolute form of Href resolved against the page URL.
	URL string

	// Href is the raw attribute value as written in the markup.
	Href string

	Text string

	// Internal reports whether URL has the same hostname as the page.
	Internal bool
}

// LinkExtractor pulls anchors out of page markup.
type LinkExtractor interface {
	// ExtractLinks returns the anchors in html in document order.
	// Hrefs that cannot be resolved against pageURL are skipped.
	ExtractLinks(html string, pageURL string) ([]Link, error)
}
