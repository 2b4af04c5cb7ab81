package crawl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves a fixed page graph from memory.
type fakeFetcher struct {
	pages map[string]string
	calls []string
}

func (f *fakeFetcher) Fetch(_ context.Context, pageURL string) ([]byte, error) {
	f.calls = append(f.calls, pageURL)
	body, ok := f.pages[pageURL]
	if !ok {
		return nil, fmt.Errorf("%w: %s returned status 404", ErrFetchFailed, pageURL)
	}
	return []byte(body), nil
}

func page(links ...string) string {
	out := "<html><body>"
	for _, l := range links {
		out += fmt.Sprintf(`<a href=%q>link</a>`, l)
	}
	return out + "</body></html>"
}

func TestDiscover_BreadthFirstOrder(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://docs.example.com/":  page("/a", "/b"),
		"https://docs.example.com/a": page("/c", "/b"),
		"https://docs.example.com/b": page("/d"),
		"https://docs.example.com/c": page(),
		"https://docs.example.com/d": page("/a"),
	}}

	d, err := NewDiscoverer(f, WithMaxPages(10))
	require.NoError(t, err)

	pages, err := d.Discover(context.Background(), "https://docs.example.com/", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://docs.example.com/",
		"https://docs.example.com/a",
		"https://docs.example.com/b",
		"https://docs.example.com/c",
		"https://docs.example.com/d",
	}, pages)
}

func TestDiscover_MaxPagesCap(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://docs.example.com/":  page("/a", "/b", "/c"),
		"https://docs.example.com/a": page("/d", "/e"),
	}}

	d, err := NewDiscoverer(f, WithMaxPages(3))
	require.NoError(t, err)

	pages, err := d.Discover(context.Background(), "https://docs.example.com/", 0)
	require.NoError(t, err)

	require.Len(t, pages, 3)
	assert.Equal(t, "https://docs.example.com/", pages[0])
	// The final page is appended without being fetched.
	assert.NotContains(t, f.calls, pages[2])
}

func TestDiscover_FetchFailureYieldsNoOutlinks(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://docs.example.com/":  page("/broken", "/b"),
		"https://docs.example.com/b": page(),
		// /broken is absent: fetch fails, its links are never seen.
	}}

	d, err := NewDiscoverer(f, WithMaxPages(10))
	require.NoError(t, err)

	pages, err := d.Discover(context.Background(), "https://docs.example.com/", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://docs.example.com/",
		"https://docs.example.com/broken",
		"https://docs.example.com/b",
	}, pages)
}

func TestDiscover_FiltersAndFragments(t *testing.T) {
	f := &fakeFetcher{pages: map[string]string{
		"https://docs.example.com/": page(
			"/guide#install",          // fragment stripped
			"/guide#usage",            // duplicate once stripped
			"https://other.host/page", // foreign host
			"/theme/app.css",          // asset extension
			"/login",                  // auth path
			"/api/v1/users",           // internal API
			"mailto:help@example.com", // non-navigational
			"#top",                    // fragment only
		),
		"https://docs.example.com/guide": page(),
	}}

	d, err := NewDiscoverer(f, WithMaxPages(10))
	require.NoError(t, err)

	pages, err := d.Discover(context.Background(), "https://docs.example.com/", 0)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"https://docs.example.com/",
		"https://docs.example.com/guide",
	}, pages)
}

func TestDiscover_InvalidRoot(t *testing.T) {
	d, err := NewDiscoverer(&fakeFetcher{})
	require.NoError(t, err)

	for _, root := range []string{"", "not a url", "ftp://example.com/docs", "/relative/only"} {
		_, err := d.Discover(context.Background(), root, 0)
		assert.ErrorIs(t, err, ErrInvalidRootURL, "root=%q", root)
	}
}

func TestNewDiscoverer_RequiresFetcher(t *testing.T) {
	_, err := NewDiscoverer(nil)
	assert.ErrorIs(t, err, ErrFetcherRequired)
}

func TestHTTPFetcher_Fetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ok":
			fmt.Fprint(w, "<html>hello</html>")
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher()
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), srv.URL+"/ok")
	require.NoError(t, err)
	assert.Equal(t, "<html>hello</html>", string(body))

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestHTTPFetcher_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "ok")
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher()
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = f.Fetch(ctx, srv.URL)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAdmissible(t *testing.T) {
	root, err := url.Parse("https://docs.example.com/")
	require.NoError(t, err)

	tests := []struct {
		link string
		want bool
	}{
		{"https://docs.example.com/guide", true},
		{"https://docs.example.com/guide/install.html", true},
		{"https://cdn.example.com/guide", false},
		{"https://docs.example.com/logo.svg", false},
		{"https://docs.example.com/fonts/inter.woff2", false},
		{"https://docs.example.com/manual.pdf", false},
		{"https://docs.example.com/auth/callback", false},
		{"https://docs.example.com/_next/data/page.json", false},
		{"https://docs.example.com/__internal", false},
		{"https://docs.example.com/static/page", false},
	}
	for _, tc := range tests {
		u, err := url.Parse(tc.link)
		require.NoError(t, err)
		assert.Equal(t, tc.want, admissible(root, u), tc.link)
	}
}

func TestDiscover_CancelledContext(t *testing.T) {
	d, err := NewDiscoverer(&fakeFetcher{pages: map[string]string{
		"https://docs.example.com/": page("/a"),
	}})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = d.Discover(ctx, "https://docs.example.com/", 0)
	assert.True(t, errors.Is(err, context.Canceled))
}
