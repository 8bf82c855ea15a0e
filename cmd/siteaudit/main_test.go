package main_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fwojciec/siteaudit"
	main "github.com/fwojciec/siteaudit/cmd/siteaudit"
	"github.com/fwojciec/siteaudit/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockServer records the address ListenAndServe was called with.
type mockServer struct {
	addr string
}

func (s *mockServer) ListenAndServe(_ context.Context, addr string) error {
	s.addr = addr
	return nil
}

func newTestMain(t *testing.T) *main.Main {
	t.Helper()

	m := main.NewMain()
	dir := t.TempDir()
	m.DBPath = filepath.Join(dir, "test.db")
	m.ConfigPath = filepath.Join(dir, "config.yaml")
	return m
}

func TestMain_Run_Audit(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	var got siteaudit.CrawlOptions
	m.Auditor = &mock.Auditor{
		AuditFn: func(_ context.Context, seedURL string, opts siteaudit.CrawlOptions) (*siteaudit.AuditReport, error) {
			got = opts
			return newTestReport(seedURL), nil
		},
	}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"audit", "https://example.com", "--limit", "7"}, stdout, stderr)

	require.NoError(t, err)
	assert.Equal(t, 7, got.PageLimit)

	var report siteaudit.AuditReport
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &report))
	assert.Equal(t, "https://example.com", report.Website.URL)
}

func TestMain_Run_Serve(t *testing.T) {
	t.Parallel()

	m := newTestMain(t)
	srv := &mockServer{}
	m.Server = srv
	m.Audits = &mock.AuditService{}

	stdout := &bytes.Buffer{}
	stderr := &bytes.Buffer{}
	err := m.Run(context.Background(), []string{"serve", "--addr", "127.0.0.1:9090"}, stdout, stderr)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:9090", srv.addr)
	assert.Contains(t, stderr.String(), "Listening on 127.0.0.1:9090")
}

// TestMain_Run_SaveAndList runs the commands against a real database and a
// local site.
func TestMain_Run_SaveAndList(t *testing.T) {
	t.Parallel()

	site := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(`<html><head><title>Home</title></head><body><h1>Welcome</h1>
<p>Contact us at hello@example.com</p></body></html>`))
	}))
	defer site.Close()

	dir := t.TempDir()
	run := func(args ...string) (string, string, error) {
		m := main.NewMain()
		m.DBPath = filepath.Join(dir, "history.db")
		m.ConfigPath = filepath.Join(dir, "config.yaml")
		stdout := &bytes.Buffer{}
		stderr := &bytes.Buffer{}
		err := m.Run(context.Background(), args, stdout, stderr)
		return stdout.String(), stderr.String(), err
	}

	archiveDir := filepath.Join(dir, "pages")
	_, stderr, err := run("audit", site.URL, "--save", "--limit", "1", "--archive", archiveDir)
	require.NoError(t, err)
	assert.Contains(t, stderr, "first audit of "+site.URL)
	assert.Contains(t, stderr, "Archived pages to "+archiveDir)

	host := strings.TrimPrefix(site.URL, "http://")
	page, err := os.ReadFile(filepath.Join(archiveDir, host, "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "Welcome")

	_, stderr, err = run("audit", site.URL, "--save", "--limit", "1")
	require.NoError(t, err)
	assert.Contains(t, stderr, "unchanged since")

	stdout, _, err := run("list", "--url", site.URL)
	require.NoError(t, err)
	assert.Contains(t, stdout, site.URL)
	assert.Contains(t, stdout, "pages=1")
}
