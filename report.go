package siteaudit

import (
	"bytes"
	"encoding/json"
)

// Error categories of an SEOReport.
const (
	CategoryAMPIssues                 = "ampIssues"
	CategoryServerErrors              = "serverErrors"
	CategoryClientErrors              = "clientErrors"
	CategoryMissingTitleTags          = "missingTitleTags"
	CategoryDuplicateTitleTags        = "duplicateTitleTags"
	CategoryDuplicateContent          = "duplicateContent"
	CategoryBrokenInternalLinks       = "brokenInternalLinks"
	CategoryUncrawlablePages          = "uncrawlablePages"
	CategoryDNSIssues                 = "dnsIssues"
	CategoryURLFormatIssues           = "urlFormatIssues"
	CategoryBrokenInternalImages      = "brokenInternalImages"
	CategoryDuplicateMetaDescriptions = "duplicateMetaDescriptions"
)

// Warning categories of an SEOReport.
const (
	CategoryDuplicateH1AndTitleTags = "duplicateH1AndTitleTags"
	CategoryTooMuchTextInTitleTags  = "tooMuchTextInTitleTags"
	CategoryMissingH1Heading        = "missingH1Heading"
	CategoryMissingAltAttributes    = "missingAltAttributes"
	CategorySlowPageLoad            = "slowPageLoad"
)

// Category names an issue category and its human readable description.
type Category struct {
	Key         string
	Description string
}

// ErrorCategories lists every error category in report order.
var ErrorCategories = []Category{
	{CategoryAMPIssues, "AMP-related issues"},
	{CategoryServerErrors, "Pages returned 5XX status codes"},
	{CategoryClientErrors, "Pages returned 4XX status codes"},
	{CategoryMissingTitleTags, "Pages missing title tags"},
	{CategoryDuplicateTitleTags, "Pages with duplicate title tags"},
	{CategoryDuplicateContent, "Pages with duplicate content"},
	{CategoryBrokenInternalLinks, "Broken internal links"},
	{CategoryUncrawlablePages, "Pages that couldn't be crawled"},
	{CategoryDNSIssues, "DNS resolution issues"},
	{CategoryURLFormatIssues, "Incorrect URL formats"},
	{CategoryBrokenInternalImages, "Broken internal images"},
	{CategoryDuplicateMetaDescriptions, "Pages with duplicate meta descriptions"},
}

// WarningCategories lists every warning category in report order.
var WarningCategories = []Category{
	{CategoryDuplicateH1AndTitleTags, "Pages with duplicate H1 and title tags"},
	{CategoryTooMuchTextInTitleTags, "Pages with too much text within the title tags"},
	{CategoryMissingH1Heading, "Pages missing an H1 heading"},
	{CategoryMissingAltAttributes, "Images missing alt attributes"},
	{CategorySlowPageLoad, "Pages with slow load times"},
}

// SEOReport is the result of analyzing a set of pages.
type SEOReport struct {
	TotalPagesCrawled int               `json:"totalPagesCrawled"`
	TotalErrors       int               `json:"totalErrors"`
	TotalWarnings     int               `json:"totalWarnings"`
	Errors            map[string]*Issue `json:"errors"`
	Warnings          map[string]*Issue `json:"warnings"`
}

// NewSEOReport returns a report for pageCount pages with every category
// present at zero count.
func NewSEOReport(pageCount int) *SEOReport {
	r := &SEOReport{
		TotalPagesCrawled: pageCount,
		Errors:            make(map[string]*Issue, len(ErrorCategories)),
		Warnings:          make(map[string]*Issue, len(WarningCategories)),
	}
	for _, c := range ErrorCategories {
		r.Errors[c.Key] = &Issue{Description: c.Description, Details: []IssueDetail{}}
	}
	for _, c := range WarningCategories {
		r.Warnings[c.Key] = &Issue{Description: c.Description, Details: []IssueDetail{}}
	}
	return r
}

// Recount sets TotalErrors and TotalWarnings to the sum of their category counts.
func (r *SEOReport) Recount() {
	r.TotalErrors = 0
	for _, issue := range r.Errors {
		r.TotalErrors += issue.Count
	}
	r.TotalWarnings = 0
	for _, issue := range r.Warnings {
		r.TotalWarnings += issue.Count
	}
}

// Issue is a single report category.
type Issue struct {
	Description string        `json:"description"`
	Count       int           `json:"count"`
	Details     []IssueDetail `json:"details"`
}

// Flag records url as an offending page.
func (i *Issue) Flag(url string) {
	i.Count++
	i.Details = append(i.Details, IssueDetail{URL: url})
}

// IssueDetail identifies an offending page or, when Duplicates is set,
// a group of pages sharing the same value.
//
// It serializes as a JSON string for a single URL and as
// {"duplicates": [...]} for a group.
type IssueDetail struct {
	URL        string
	Duplicates []string
}

// MarshalJSON implements json.Marshaler.
func (d IssueDetail) MarshalJSON() ([]byte, error) {
	if d.Duplicates != nil {
		return json.Marshal(struct {
			Duplicates []string `json:"duplicates"`
		}{d.Duplicates})
	}
	return json.Marshal(d.URL)
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *IssueDetail) UnmarshalJSON(data []byte) error {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		var group struct {
			Duplicates []string `json:"duplicates"`
		}
		if err := json.Unmarshal(data, &group); err != nil {
			return err
		}
		*d = IssueDetail{Duplicates: group.Duplicates}
		if d.Duplicates == nil {
			d.Duplicates = []string{}
		}
		return nil
	}
	var url string
	if err := json.Unmarshal(data, &url); err != nil {
		return err
	}
	*d = IssueDetail{URL: url}
	return nil
}

// SEOAnalyzer applies the SEO checks to a page set.
type SEOAnalyzer interface {
	// Analyze returns a report for pages. It performs no I/O and returns
	// the same report for the same page sequence.
	Analyze(pages []*Page) *SEOReport
}

// SocialPlatform maps a domain substring to a platform name.
type SocialPlatform struct {
	Domain string
	Name   string
}

// SocialPlatforms is the table of recognized social media platforms.
// Links are matched by substring containment of Domain.
var SocialPlatforms = []SocialPlatform{
	{"facebook.com", "Facebook"},
	{"twitter.com", "Twitter"},
	{"linkedin.com", "LinkedIn"},
	{"instagram.com", "Instagram"},
	{"youtube.com", "YouTube"},
}

// SocialMediaLinks maps a platform name to a profile URL.
type SocialMediaLinks map[string]string

// SocialExtractor finds social media links in a page set.
type SocialExtractor interface {
	ExtractSocialLinks(pages []*Page) SocialMediaLinks
}

// ContactUs holds the contact details found on a site.
type ContactUs struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ContactInfo holds the about snippet and contact details found on a site.
type ContactInfo struct {
	AboutUs   string
	ContactUs ContactUs
}

// ContactExtractor finds about and contact details in a page set.
type ContactExtractor interface {
	ExtractContactInfo(pages []*Page) ContactInfo
}
