// Package siteaudit provides a website audit engine. It crawls a site from a
// seed URL within the seed's hostname, runs a fixed battery of SEO checks over
// the collected pages, and extracts social media links and contact details
// into a single AuditReport.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., goquery/, sqlite/, gin/).
package siteaudit
