// Package bloom provides URL deduplication for the crawl frontier.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// Filter wraps a Bloom filter for URL deduplication.
type Filter struct {
	f *bloom.BloomFilter
}

// NewFilter creates a new Bloom filter sized for n expected items
// with the given false positive rate.
func NewFilter(n uint, fpRate float64) *Filter {
	return &Filter{
		f: bloom.NewWithEstimates(n, fpRate),
	}
}

// Add adds a URL to the filter.
func (f *Filter) Add(url string) {
	f.f.AddString(url)
}

// Test returns true if the URL might be in the filter.
// False positives are possible; false negatives are not.
func (f *Filter) Test(url string) bool {
	return f.f.TestString(url)
}

// Set is an exact URL set. Membership checks go through a Bloom filter
// first, so URLs that were never added are usually rejected without a map
// lookup. Unlike Filter, Set never reports false positives.
//
// The filter costs a few bits per URL and a hash on every lookup. Whether
// that beats a plain map depends on the mix of seen and unseen URLs;
// BenchmarkSet_Contains measures both against a map.
type Set struct {
	filter *Filter
	items  map[string]struct{}
}

// NewSet creates a Set whose filter is sized for n expected URLs. The set
// itself grows as needed, so n only affects the false positive rate of the
// pre-check once it is exceeded.
func NewSet(n uint, fpRate float64) *Set {
	return &Set{
		filter: NewFilter(n, fpRate),
		items:  make(map[string]struct{}),
	}
}

// Add adds a URL to the set. Returns false if it was already present.
func (s *Set) Add(url string) bool {
	if s.Contains(url) {
		return false
	}
	s.filter.Add(url)
	s.items[url] = struct{}{}
	return true
}

// Contains reports whether the URL is in the set.
func (s *Set) Contains(url string) bool {
	if !s.filter.Test(url) {
		return false
	}
	_, ok := s.items[url]
	return ok
}

// Len returns the number of URLs in the set.
func (s *Set) Len() int {
	return len(s.items)
}
