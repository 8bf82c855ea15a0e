// Package fs provides file-based storage for crawled pages.
package fs

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/siteaudit"
)

// Archive stores the raw HTML of crawled pages with atomic update
// semantics. Pages are saved to a temporary directory, then moved into
// place on Commit.
type Archive struct {
	baseDir string
	name    string

	mu    sync.Mutex
	paths map[string]string // relative path -> URL saved there
}

// NewArchive creates a new Archive.
// baseDir is the parent directory, name is the output directory name.
// Files are saved to baseDir/name.tmp and moved to baseDir/name on Commit.
// A temporary directory left behind by an interrupted run is removed.
func NewArchive(baseDir, name string) (*Archive, error) {
	a := &Archive{
		baseDir: baseDir,
		name:    name,
		paths:   make(map[string]string),
	}
	if err := os.RemoveAll(a.tempDir()); err != nil {
		return nil, fmt.Errorf("clearing %s: %w", a.tempDir(), err)
	}
	return a, nil
}

func (a *Archive) tempDir() string {
	return filepath.Join(a.baseDir, a.name+".tmp")
}

// Dir returns the directory the archive is committed to.
func (a *Archive) Dir() string {
	return filepath.Join(a.baseDir, a.name)
}

// Save writes the page body under a path derived from its URL. When two
// URLs map to the same path, the later one gets a name suffixed with a hash
// of its URL.
func (a *Archive) Save(page *siteaudit.Page) error {
	relPath, err := URLToPath(page.URL)
	if err != nil {
		return err
	}
	relPath = a.claim(relPath, page.URL)

	fullPath := filepath.Join(a.tempDir(), relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return err
	}
	return os.WriteFile(fullPath, []byte(page.Content), 0o644)
}

// claim reserves relPath for rawURL, or a hashed variant of it if another
// URL already holds it.
func (a *Archive) claim(relPath, rawURL string) string {
	a.mu.Lock()
	defer a.mu.Unlock()

	if owner, ok := a.paths[relPath]; ok && owner != rawURL {
		ext := filepath.Ext(relPath)
		relPath = fmt.Sprintf("%s-%08x%s", strings.TrimSuffix(relPath, ext), uint32(xxhash.Sum64String(rawURL)), ext)
	}
	a.paths[relPath] = rawURL
	return relPath
}

// Commit replaces any previous archive with the saved pages.
func (a *Archive) Commit() error {
	if err := os.MkdirAll(a.tempDir(), 0o755); err != nil {
		return err
	}
	if err := os.RemoveAll(a.Dir()); err != nil {
		return err
	}
	return os.Rename(a.tempDir(), a.Dir())
}

// Abort discards the saved pages.
func (a *Archive) Abort() error {
	return os.RemoveAll(a.tempDir())
}

// URLToPath converts a page URL to a relative file path.
// Example: https://example.com/blog/post → example.com/blog/post.html
//
// A query string is folded into the file name as a short hash, so
// /search?q=a and /search?q=b are stored separately.
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	if u.Host == "" {
		return "", siteaudit.Errorf(siteaudit.EINVALID, "URL %q has no host", rawURL)
	}

	path := strings.TrimPrefix(u.Path, "/")
	switch {
	case path == "":
		path = "index"
	case strings.HasSuffix(path, "/"):
		path += "index"
	}
	path = strings.TrimSuffix(path, ".html")

	if u.RawQuery != "" {
		path = fmt.Sprintf("%s-%08x", path, uint32(xxhash.Sum64String(u.RawQuery)))
	}

	rel := filepath.Join(u.Host, filepath.FromSlash(path)+".html")
	if !filepath.IsLocal(rel) {
		return "", siteaudit.Errorf(siteaudit.EINVALID, "URL %q escapes the archive", rawURL)
	}
	return rel, nil
}
