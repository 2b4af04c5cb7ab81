package crawl

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

const (
	// DefaultFetchTimeout bounds a single page request.
	DefaultFetchTimeout = 30 * time.Second

	defaultUserAgent = "docpilot/1.0 (+https://github.com/sanare-ai/docpilot)"
)

// Fetcher retrieves the raw body of a URL.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// HTTPFetcher fetches pages over HTTP with a bounded timeout and an
// optional request-rate limiter shared across all calls.
type HTTPFetcher struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	logger    *slog.Logger
}

var _ Fetcher = (*HTTPFetcher)(nil)

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher) error

// WithFetchTimeout sets the per-request timeout.
// Default is DefaultFetchTimeout.
func WithFetchTimeout(timeout time.Duration) FetcherOption {
	return func(f *HTTPFetcher) error {
		if timeout <= 0 {
			timeout = DefaultFetchTimeout
		}
		f.client.Timeout = timeout
		return nil
	}
}

// WithRequestInterval spaces requests at least interval apart.
// A zero or negative interval disables rate limiting.
func WithRequestInterval(interval time.Duration) FetcherOption {
	return func(f *HTTPFetcher) error {
		if interval <= 0 {
			f.limiter = nil
			return nil
		}
		f.limiter = rate.NewLimiter(rate.Every(interval), 1)
		return nil
	}
}

// WithUserAgent overrides the User-Agent header sent with each request.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) error {
		if ua != "" {
			f.userAgent = ua
		}
		return nil
	}
}

// WithFetcherLogger sets a custom logger.
// Default is slog.Default().
func WithFetcherLogger(logger *slog.Logger) FetcherOption {
	return func(f *HTTPFetcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		f.logger = logger.With("component", "fetcher")
		return nil
	}
}

// NewHTTPFetcher creates a fetcher with the default timeout and no
// rate limiting.
func NewHTTPFetcher(opts ...FetcherOption) (*HTTPFetcher, error) {
	f := &HTTPFetcher{
		client:    &http.Client{Timeout: DefaultFetchTimeout},
		userAgent: defaultUserAgent,
		logger:    slog.Default().With("component", "fetcher"),
	}

	for _, opt := range opts {
		if err := opt(f); err != nil {
			return nil, err
		}
	}

	return f, nil
}

// Fetch retrieves the body of pageURL. Non-2xx responses are errors.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) ([]byte, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("building request for %s: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	start := time.Now()
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: %s returned status %d", ErrFetchFailed, pageURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", pageURL, err)
	}

	f.logger.Debug("fetched page", "url", pageURL, "bytes", len(body), "elapsed", time.Since(start))
	return body, nil
}
