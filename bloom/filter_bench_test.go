package bloom_test

import (
	"fmt"
	"testing"

	"github.com/fwojciec/siteaudit/bloom"
)

// BenchmarkSet_Contains measures lookups on a set of 10k crawled URLs,
// against a plain map holding the same URLs.
func BenchmarkSet_Contains(b *testing.B) {
	const n = 10000

	set := bloom.NewSet(n, 0.01)
	plain := make(map[string]struct{}, n)
	added := make([]string, n)
	unseen := make([]string, n)
	for i := range n {
		added[i] = fmt.Sprintf("https://example.com/docs/section-%d/page-%d", i%100, i)
		unseen[i] = fmt.Sprintf("https://example.com/blog/2024/05/post-%d", i)
		set.Add(added[i])
		plain[added[i]] = struct{}{}
	}

	b.Run("set/unseen", func(b *testing.B) {
		for i := range b.N {
			set.Contains(unseen[i%n])
		}
	})
	b.Run("map/unseen", func(b *testing.B) {
		for i := range b.N {
			_ = plain[unseen[i%n]]
		}
	})
	b.Run("set/seen", func(b *testing.B) {
		for i := range b.N {
			set.Contains(added[i%n])
		}
	})
	b.Run("map/seen", func(b *testing.B) {
		for i := range b.N {
			_ = plain[added[i%n]]
		}
	})
}
