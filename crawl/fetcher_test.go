package crawl

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetcherSendsUserAgent(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
		w.Write([]byte("ok"))
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(WithUserAgent("acme-docs-bot/2.0"))
	require.NoError(t, err)

	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(body))
	assert.Equal(t, "acme-docs-bot/2.0", got)
}

func TestFetcherEmptyUserAgentKeepsDefault(t *testing.T) {
	var got string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get("User-Agent")
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher(WithUserAgent(""))
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, defaultUserAgent, got)
}

func TestFetcherNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	f, err := NewHTTPFetcher()
	require.NoError(t, err)

	_, err = f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrFetchFailed))
}

func TestFetcherRequestInterval(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f, err := NewHTTPFetcher(WithRequestInterval(80 * time.Millisecond))
	require.NoError(t, err)

	start := time.Now()
	for i := 0; i < 3; i++ {
		_, err := f.Fetch(context.Background(), srv.URL)
		require.NoError(t, err)
	}

	// The first token is available immediately, the next two each wait
	// one interval.
	assert.GreaterOrEqual(t, time.Since(start), 160*time.Millisecond)
}

func TestFetcherRequestIntervalHonorsContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	f, err := NewHTTPFetcher(WithRequestInterval(time.Hour))
	require.NoError(t, err)

	// First fetch spends the burst token.
	_, err = f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = f.Fetch(ctx, srv.URL)
	require.Error(t, err)
}

func TestFetcherZeroIntervalDisablesLimiter(t *testing.T) {
	f, err := NewHTTPFetcher(
		WithRequestInterval(time.Second),
		WithRequestInterval(0),
	)
	require.NoError(t, err)
	assert.Nil(t, f.limiter)
}
