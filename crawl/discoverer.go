package crawl

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"net/url"

	"github.com/PuerkitoBio/goquery"
)

// DefaultMaxPages bounds discovery when no explicit limit is given.
const DefaultMaxPages = 50

// Discoverer walks a documentation site breadth-first and returns the
// ordered list of page URLs to onboard.
type Discoverer struct {
	fetcher  Fetcher
	maxPages int
	logger   *slog.Logger
}

// DiscovererOption configures a Discoverer.
type DiscovererOption func(*Discoverer) error

// WithMaxPages bounds the number of pages discovery may return.
// Default is DefaultMaxPages.
func WithMaxPages(n int) DiscovererOption {
	return func(d *Discoverer) error {
		if n < 1 {
			n = DefaultMaxPages
		}
		d.maxPages = n
		return nil
	}
}

// WithDiscovererLogger sets a custom logger.
// Default is slog.Default().
func WithDiscovererLogger(logger *slog.Logger) DiscovererOption {
	return func(d *Discoverer) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger.With("component", "discoverer")
		return nil
	}
}

// NewDiscoverer creates a discoverer over the given fetcher.
func NewDiscoverer(fetcher Fetcher, opts ...DiscovererOption) (*Discoverer, error) {
	if fetcher == nil {
		return nil, ErrFetcherRequired
	}

	d := &Discoverer{
		fetcher:  fetcher,
		maxPages: DefaultMaxPages,
		logger:   slog.Default().With("component", "discoverer"),
	}

	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}

	return d, nil
}

// Discover crawls breadth-first from rootURL and returns up to maxPages
// distinct URLs, root first. maxPages < 1 falls back to the configured
// default. Link order within a page determines traversal order, so the
// result is deterministic for a fixed site. A page that fails to fetch
// contributes no outgoing links but stays in the result; only an
// unusable root URL fails the whole discovery.
func (d *Discoverer) Discover(ctx context.Context, rootURL string, maxPages int) ([]string, error) {
	if maxPages < 1 {
		maxPages = d.maxPages
	}

	root, err := url.Parse(rootURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidRootURL, rootURL, err)
	}
	if root.Host == "" || (root.Scheme != "http" && root.Scheme != "https") {
		return nil, fmt.Errorf("%w: %q", ErrInvalidRootURL, rootURL)
	}

	start := stripFragment(root)
	seen := map[string]bool{start: true}
	queue := []string{start}
	pages := make([]string, 0, maxPages)

	for len(queue) > 0 && len(pages) < maxPages {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		current := queue[0]
		queue = queue[1:]
		pages = append(pages, current)
		if len(pages) == maxPages {
			break
		}

		body, err := d.fetcher.Fetch(ctx, current)
		if err != nil {
			d.logger.Warn("page fetch failed during discovery", "url", current, "err", err)
			continue
		}

		for _, link := range d.outlinks(root, current, body) {
			if !seen[link] {
				seen[link] = true
				queue = append(queue, link)
			}
		}
	}

	d.logger.Info("discovery finished", "root", start, "pages_found", len(pages))
	return pages, nil
}

// outlinks parses body and returns the admissible links of one page,
// resolved against pageURL and fragment-stripped, in document order.
func (d *Discoverer) outlinks(root *url.URL, pageURL string, body []byte) []string {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		d.logger.Warn("page parse failed during discovery", "url", pageURL, "err", err)
		return nil
	}

	base, err := url.Parse(pageURL)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		if !ok || skipHref(href) {
			return
		}

		resolved, err := base.Parse(href)
		if err != nil {
			return
		}
		if !admissible(root, resolved) {
			return
		}
		links = append(links, stripFragment(resolved))
	})

	return links
}
