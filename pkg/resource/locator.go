package resource

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Locator retrieves external resources (stylesheets, images) by URI. The
// engine never touches the network or filesystem directly; everything goes
// through a Locator so callers control retrieval policy.
type Locator interface {
	// GetStream opens the resource at uri. The caller closes the stream.
	GetStream(uri string) (io.ReadCloser, error)
}

// FileLocator resolves URIs against a base: relative references become file
// paths under the base directory, while http(s) URIs are fetched over the
// network.
type FileLocator struct {
	base   string
	client *http.Client
}

// NewFileLocator creates a Locator resolving relative URIs against base,
// which may be a directory path or an http(s) URL.
func NewFileLocator(base string) *FileLocator {
	return &FileLocator{
		base:   base,
		client: &http.Client{Timeout: 30 * time.Second},
	}
}

// GetStream opens uri, resolving it against the locator's base first.
func (l *FileLocator) GetStream(uri string) (io.ReadCloser, error) {
	resolved, err := l.resolve(uri)
	if err != nil {
		return nil, err
	}
	if isNetworkURI(resolved) {
		resp, err := l.client.Get(resolved)
		if err != nil {
			return nil, fmt.Errorf("fetching %s: %w", resolved, err)
		}
		if resp.StatusCode != http.StatusOK {
			resp.Body.Close()
			return nil, fmt.Errorf("fetching %s: status %s", resolved, resp.Status)
		}
		return resp.Body, nil
	}
	f, err := os.Open(strings.TrimPrefix(resolved, "file://"))
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", resolved, err)
	}
	return f, nil
}

func (l *FileLocator) resolve(uri string) (string, error) {
	if isNetworkURI(uri) || filepath.IsAbs(uri) {
		return uri, nil
	}
	if isNetworkURI(l.base) {
		base, err := url.Parse(l.base)
		if err != nil {
			return "", fmt.Errorf("bad base URL %q: %w", l.base, err)
		}
		ref, err := url.Parse(uri)
		if err != nil {
			return "", fmt.Errorf("bad URI %q: %w", uri, err)
		}
		return base.ResolveReference(ref).String(), nil
	}
	if l.base == "" {
		return uri, nil
	}
	return filepath.Join(l.base, filepath.FromSlash(uri)), nil
}

func isNetworkURI(uri string) bool {
	return strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://")
}

// GetText retrieves a whole resource as a string, for stylesheet links.
func GetText(l Locator, uri string) (string, error) {
	rc, err := l.GetStream(uri)
	if err != nil {
		return "", err
	}
	defer rc.Close()
	body, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", uri, err)
	}
	return string(body), nil
}
