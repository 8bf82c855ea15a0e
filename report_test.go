package siteaudit_test

import (
	"encoding/json"
	"testing"

	"github.com/fwojciec/siteaudit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSEOReport(t *testing.T) {
	t.Parallel()

	t.Run("contains every category at zero", func(t *testing.T) {
		t.Parallel()

		r := siteaudit.NewSEOReport(0)

		require.Len(t, r.Errors, 12)
		require.Len(t, r.Warnings, 5)
		for _, c := range siteaudit.ErrorCategories {
			issue, ok := r.Errors[c.Key]
			require.True(t, ok, "missing error category %s", c.Key)
			assert.Equal(t, c.Description, issue.Description)
			assert.Zero(t, issue.Count)
			assert.Empty(t, issue.Details)
		}
		for _, c := range siteaudit.WarningCategories {
			issue, ok := r.Warnings[c.Key]
			require.True(t, ok, "missing warning category %s", c.Key)
			assert.Equal(t, c.Description, issue.Description)
		}
	})

	t.Run("serializes empty details as arrays", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(siteaudit.NewSEOReport(3))
		require.NoError(t, err)

		assert.Contains(t, string(data), `"totalPagesCrawled":3`)
		assert.Contains(t, string(data), `"serverErrors":{"description":"Pages returned 5XX status codes","count":0,"details":[]}`)
		assert.NotContains(t, string(data), "null")
	})
}

func TestSEOReport_Recount(t *testing.T) {
	t.Parallel()

	r := siteaudit.NewSEOReport(2)
	r.Errors[siteaudit.CategoryServerErrors].Flag("https://example.com/a")
	r.Errors[siteaudit.CategoryMissingTitleTags].Flag("https://example.com/a")
	r.Errors[siteaudit.CategoryMissingTitleTags].Flag("https://example.com/b")
	r.Warnings[siteaudit.CategoryMissingH1Heading].Flag("https://example.com/b")

	r.TotalErrors = 99
	r.Recount()

	assert.Equal(t, 3, r.TotalErrors)
	assert.Equal(t, 1, r.TotalWarnings)
}

func TestIssueDetail_JSON(t *testing.T) {
	t.Parallel()

	t.Run("single URL is a string", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(siteaudit.IssueDetail{URL: "https://example.com/a"})
		require.NoError(t, err)
		assert.JSONEq(t, `"https://example.com/a"`, string(data))
	})

	t.Run("duplicate group is an object", func(t *testing.T) {
		t.Parallel()

		data, err := json.Marshal(siteaudit.IssueDetail{Duplicates: []string{"https://example.com/a", "https://example.com/b"}})
		require.NoError(t, err)
		assert.JSONEq(t, `{"duplicates":["https://example.com/a","https://example.com/b"]}`, string(data))
	})

	t.Run("decodes mixed details", func(t *testing.T) {
		t.Parallel()

		var details []siteaudit.IssueDetail
		err := json.Unmarshal([]byte(`["https://example.com/a", {"duplicates": ["https://example.com/b", "https://example.com/c"]}]`), &details)
		require.NoError(t, err)

		require.Len(t, details, 2)
		assert.Equal(t, "https://example.com/a", details[0].URL)
		assert.Nil(t, details[0].Duplicates)
		assert.Equal(t, []string{"https://example.com/b", "https://example.com/c"}, details[1].Duplicates)
	})
}
