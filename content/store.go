// ABOUTME: Document stores that serve call-flow markdown by path
// ABOUTME: Supports embedded defaults, a local directory, or a static HTTP host
package content

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"
)

//go:embed defaults/*.md defaults/manifest.yaml
var defaultDocs embed.FS

// ErrDocumentNotFound is returned when a store has no document at a path.
var ErrDocumentNotFound = errors.New("document not found")

// ErrDocumentTooLarge is returned when a remote document exceeds
// MaxDocumentSize.
var ErrDocumentTooLarge = errors.New("document too large")

// MaxDocumentSize caps how many bytes HTTPStore reads for one document.
var MaxDocumentSize int64 = 4 << 20

// Store fetches a markdown document by its manifest path.
type Store interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// FSStore serves documents from an fs.FS.
type FSStore struct {
	fsys fs.FS
}

func NewFSStore(fsys fs.FS) *FSStore {
	return &FSStore{fsys: fsys}
}

// DefaultStore serves the documents compiled into the binary.
func DefaultStore() *FSStore {
	sub, err := fs.Sub(defaultDocs, "defaults")
	if err != nil {
		panic(fmt.Sprintf("embedded defaults missing: %v", err))
	}
	return NewFSStore(sub)
}

// NewDirStore serves documents from a directory on disk.
func NewDirStore(dir string) *FSStore {
	return NewFSStore(os.DirFS(dir))
}

func (s *FSStore) Fetch(ctx context.Context, p string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	data, err := fs.ReadFile(s.fsys, path.Clean(strings.TrimPrefix(p, "/")))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%s: %w", p, ErrDocumentNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	return string(data), nil
}

// HTTPStore fetches documents from a static file host.
type HTTPStore struct {
	base   *url.URL
	client *http.Client
}

// NewHTTPStore creates a store rooted at baseURL. A nil client gets a
// client with a ten second timeout.
func NewHTTPStore(baseURL string, client *http.Client) (*HTTPStore, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse document URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("document URL must be http or https: %s", baseURL)
	}
	if !strings.HasSuffix(u.Path, "/") {
		u.Path += "/"
	}
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPStore{base: u, client: client}, nil
}

func (s *HTTPStore) Fetch(ctx context.Context, p string) (string, error) {
	target := s.base.ResolveReference(&url.URL{Path: strings.TrimPrefix(p, "/")})

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %s: %w", p, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return "", fmt.Errorf("%s: %w", p, ErrDocumentNotFound)
	case resp.StatusCode != http.StatusOK:
		return "", fmt.Errorf("failed to fetch %s: status %d", p, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", p, err)
	}
	if int64(len(body)) > MaxDocumentSize {
		return "", fmt.Errorf("%s: %w (limit %d bytes)", p, ErrDocumentTooLarge, MaxDocumentSize)
	}
	return string(body), nil
}

// OpenStore picks a store for location: empty means embedded defaults, an
// http(s) URL means HTTPStore, anything else is a directory.
func OpenStore(location string) (Store, error) {
	switch {
	case location == "":
		return DefaultStore(), nil
	case strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://"):
		return NewHTTPStore(location, nil)
	}
	info, err := os.Stat(location)
	if err != nil {
		return nil, fmt.Errorf("failed to open document directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("document location is not a directory: %s", location)
	}
	return NewDirStore(location), nil
}
