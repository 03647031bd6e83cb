package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/pfrederiksen/ctx-theatre/internal/logger"
)

const (
	UserAgent = "ctx-theatre/1.0 (github.com/pfrederiksen/ctx-theatre)"
	Timeout   = 10 * time.Second
)

// Fetcher retrieves the body of a URL as text.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// HTTPFetcher fetches feed and production pages over HTTP
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
}

// New creates an HTTPFetcher with a fixed timeout. Zero values select the
// package defaults.
func New(timeout time.Duration, userAgent string) *HTTPFetcher {
	if timeout <= 0 {
		timeout = Timeout
	}
	if userAgent == "" {
		userAgent = UserAgent
	}
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
	}
}

// Fetch GETs url and returns the response body
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("unexpected status code %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response body: %w", err)
	}
	return string(body), nil
}

// FallbackFetcher wraps a Fetcher and serves a local snapshot file when the
// wrapped fetch fails. Without a snapshot path the fetch error is returned.
type FallbackFetcher struct {
	fetcher Fetcher
	path    string
	log     *logger.Logger
	metrics *logger.Metrics
}

// WithFallback returns a FallbackFetcher reading path on failure.
func WithFallback(f Fetcher, path string, log *logger.Logger, metrics *logger.Metrics) *FallbackFetcher {
	if log == nil {
		log = logger.Default()
	}
	if metrics == nil {
		metrics = logger.DefaultMetrics()
	}
	return &FallbackFetcher{fetcher: f, path: path, log: log, metrics: metrics}
}

// Fetch tries the network first and the snapshot file second.
func (f *FallbackFetcher) Fetch(ctx context.Context, url string) (string, error) {
	body, err := f.fetcher.Fetch(ctx, url)
	if err == nil {
		return body, nil
	}

	f.log.Warn("could not fetch, checking local fallback", logger.Fields{
		"url":      url,
		"fallback": f.path,
		"error":    err.Error(),
	})

	if f.path == "" {
		return "", err
	}

	data, readErr := os.ReadFile(f.path)
	if readErr != nil {
		return "", fmt.Errorf("%w (fallback %s: %v)", err, f.path, readErr)
	}

	f.metrics.IncrCounter("fetch.fallback")
	f.log.Info("falling back to local file", logger.Fields{"url": url, "path": f.path})
	return string(data), nil
}
