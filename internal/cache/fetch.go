package cache

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"
)

// Fetcher retrieves the raw bytes behind a boundary source URL.
type Fetcher interface {
	Fetch(ctx context.Context, src string) ([]byte, error)
}

// SourceFetcher reads http(s) URLs over the network and anything else from disk.
type SourceFetcher struct {
	httpClient *http.Client
}

// NewSourceFetcher creates a fetcher. A zero timeout leaves deadlines to the caller's context.
func NewSourceFetcher(timeout time.Duration) *SourceFetcher {
	return &SourceFetcher{httpClient: &http.Client{Timeout: timeout}}
}

func (f *SourceFetcher) Fetch(ctx context.Context, src string) ([]byte, error) {
	if path, ok := localPath(src); ok {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, &FetchError{URL: src, Err: err}
		}
		return data, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, &FetchError{URL: src, Err: err}
	}
	req.Header.Set("Accept", "application/geo+json, application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, &FetchError{URL: src, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil, &FetchError{
			URL:        src,
			StatusCode: resp.StatusCode,
			Err:        fmt.Errorf("unexpected status %s", resp.Status),
		}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &FetchError{URL: src, Err: fmt.Errorf("reading body: %w", err)}
	}
	return data, nil
}

// localPath returns the filesystem path for sources without an http(s) scheme.
func localPath(src string) (string, bool) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" {
		return src, true
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return "", false
	case "file":
		return u.Path, true
	}
	// single-letter schemes are Windows drive letters
	if len(u.Scheme) == 1 {
		return src, true
	}
	return "", false
}
