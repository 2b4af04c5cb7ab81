package onboarding

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanare-ai/docpilot/core"
	"github.com/sanare-ai/docpilot/ingestion"
	"github.com/sanare-ai/docpilot/storage"
	"github.com/sanare-ai/docpilot/storage/badger"
)

type fakeDiscoverer struct {
	pages []string
	err   error
}

func (f *fakeDiscoverer) Discover(_ context.Context, _ string, _ int) ([]string, error) {
	return f.pages, f.err
}

type fakeIngester struct {
	chunksPerPage map[string]int
	failPages     map[string]error
	calls         []string
}

func (f *fakeIngester) IngestURL(_ context.Context, tenantID, pageURL string) (*ingestion.IngestResult, error) {
	f.calls = append(f.calls, pageURL)
	if err, ok := f.failPages[pageURL]; ok {
		return nil, err
	}
	return &ingestion.IngestResult{
		TenantID:       tenantID,
		SourceURL:      pageURL,
		ChunksIngested: f.chunksPerPage[pageURL],
	}, nil
}

func newTestOrchestrator(t *testing.T, d Discoverer, p PageIngester) (*Orchestrator, storage.JobRepository, func()) {
	t.Helper()

	_, jobs, backend, err := badger.NewMemoryRepositories()
	require.NoError(t, err)

	o, err := NewOrchestrator(jobs, d, p, WithPageDelay(0))
	require.NoError(t, err)

	return o, jobs, func() { backend.Close() }
}

func seedJob(t *testing.T, jobs storage.JobRepository, id string) {
	t.Helper()
	err := jobs.AddJob(context.Background(), &core.OnboardingJob{
		Id:          id,
		TenantID:    "pharmacy-a",
		RootURL:     "https://docs.example.com/",
		ProductName: "Example Docs",
		Status:      core.JobStatusPending,
	})
	require.NoError(t, err)
}

func TestRun_HappyPath(t *testing.T) {
	d := &fakeDiscoverer{pages: []string{
		"https://docs.example.com/",
		"https://docs.example.com/a",
		"https://docs.example.com/b",
	}}
	ing := &fakeIngester{chunksPerPage: map[string]int{
		"https://docs.example.com/":  4,
		"https://docs.example.com/a": 2,
		"https://docs.example.com/b": 3,
	}}
	o, jobs, cleanup := newTestOrchestrator(t, d, ing)
	defer cleanup()

	seedJob(t, jobs, "job-1")
	require.NoError(t, o.Run(context.Background(), "job-1", 50))

	job, err := jobs.GetJob(context.Background(), "job-1")
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusCompleted, job.Status)
	assert.Equal(t, 3, job.PagesFound)
	assert.Equal(t, 3, job.PagesProcessed)
	assert.Equal(t, 9, job.ChunksTotal)
	assert.False(t, job.StartedAt.IsZero())
	assert.False(t, job.FinishedAt.IsZero())
	assert.Empty(t, job.ErrorMessage)
	assert.Equal(t, 100, job.Percent())
	assert.Equal(t, d.pages, ing.calls)
}

func TestRun_SinglePageFailureDoesNotAbortJob(t *testing.T) {
	d := &fakeDiscoverer{pages: []string{
		"https://docs.example.com/",
		"https://docs.example.com/broken",
		"https://docs.example.com/b",
	}}
	ing := &fakeIngester{
		chunksPerPage: map[string]int{
			"https://docs.example.com/":  4,
			"https://docs.example.com/b": 3,
		},
		failPages: map[string]error{
			"https://docs.example.com/broken": errors.New("fetch failed: status 500"),
		},
	}
	o, jobs, cleanup := newTestOrchestrator(t, d, ing)
	defer cleanup()

	seedJob(t, jobs, "job-2")
	require.NoError(t, o.Run(context.Background(), "job-2", 50))

	job, err := jobs.GetJob(context.Background(), "job-2")
	require.NoError(t, err)

	// The failed page counts as processed; only its chunks are missing.
	assert.Equal(t, core.JobStatusCompleted, job.Status)
	assert.Equal(t, 3, job.PagesProcessed)
	assert.Equal(t, 7, job.ChunksTotal)
	assert.Empty(t, job.ErrorMessage)
}

func TestRun_AllPagesFailStillCompletes(t *testing.T) {
	pages := []string{"https://docs.example.com/", "https://docs.example.com/a"}
	ing := &fakeIngester{failPages: map[string]error{
		pages[0]: errors.New("rate limited"),
		pages[1]: errors.New("rate limited"),
	}}
	o, jobs, cleanup := newTestOrchestrator(t, &fakeDiscoverer{pages: pages}, ing)
	defer cleanup()

	seedJob(t, jobs, "job-3")
	require.NoError(t, o.Run(context.Background(), "job-3", 50))

	job, err := jobs.GetJob(context.Background(), "job-3")
	require.NoError(t, err)

	assert.Equal(t, core.JobStatusCompleted, job.Status)
	assert.Equal(t, 2, job.PagesProcessed)
	assert.Zero(t, job.ChunksTotal)
}

func TestRun_DiscoveryFailureFailsJob(t *testing.T) {
	d := &fakeDiscoverer{err: errors.New("root unreachable")}
	ing := &fakeIngester{}
	o, jobs, cleanup := newTestOrchestrator(t, d, ing)
	defer cleanup()

	seedJob(t, jobs, "job-4")
	err := o.Run(context.Background(), "job-4", 50)
	require.Error(t, err)

	job, getErr := jobs.GetJob(context.Background(), "job-4")
	require.NoError(t, getErr)

	assert.Equal(t, core.JobStatusFailed, job.Status)
	assert.Zero(t, job.PagesFound)
	assert.Zero(t, job.PagesProcessed)
	assert.Equal(t, "root unreachable", job.ErrorMessage)
	assert.False(t, job.FinishedAt.IsZero())
	assert.Empty(t, ing.calls)
}

func TestRun_ErrorMessageTruncated(t *testing.T) {
	long := strings.Repeat("x", 2000)
	d := &fakeDiscoverer{err: errors.New(long)}
	o, jobs, cleanup := newTestOrchestrator(t, d, &fakeIngester{})
	defer cleanup()

	seedJob(t, jobs, "job-5")
	require.Error(t, o.Run(context.Background(), "job-5", 50))

	job, err := jobs.GetJob(context.Background(), "job-5")
	require.NoError(t, err)
	assert.Len(t, job.ErrorMessage, maxErrorLength)
}

func TestRun_RequiresPendingJob(t *testing.T) {
	d := &fakeDiscoverer{pages: []string{"https://docs.example.com/"}}
	o, jobs, cleanup := newTestOrchestrator(t, d, &fakeIngester{})
	defer cleanup()

	seedJob(t, jobs, "job-6")
	require.NoError(t, o.Run(context.Background(), "job-6", 50))

	// A terminal job cannot be started again.
	err := o.Run(context.Background(), "job-6", 50)
	assert.ErrorIs(t, err, ErrJobNotPending)
}

func TestRun_UnknownJob(t *testing.T) {
	o, _, cleanup := newTestOrchestrator(t, &fakeDiscoverer{}, &fakeIngester{})
	defer cleanup()

	err := o.Run(context.Background(), "missing", 50)
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestRunner_StartExecutesInBackground(t *testing.T) {
	d := &fakeDiscoverer{pages: []string{"https://docs.example.com/"}}
	ing := &fakeIngester{chunksPerPage: map[string]int{"https://docs.example.com/": 2}}
	o, jobs, cleanup := newTestOrchestrator(t, d, ing)
	defer cleanup()

	runner, err := NewRunner(o, WithPoolSize(1))
	require.NoError(t, err)
	defer runner.Release()

	seedJob(t, jobs, "job-7")
	require.NoError(t, runner.Start("job-7", 50))

	// Poll the job row the way an API caller would.
	require.Eventually(t, func() bool {
		job, err := jobs.GetJob(context.Background(), "job-7")
		return err == nil && job.Status.Terminal()
	}, 5*time.Second, 10*time.Millisecond)

	job, err := jobs.GetJob(context.Background(), "job-7")
	require.NoError(t, err)
	assert.Equal(t, core.JobStatusCompleted, job.Status)
	assert.Equal(t, 2, job.ChunksTotal)
}
