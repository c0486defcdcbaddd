package githubhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"sync"
	"testing"
	"time"

	"wordmeter/internal/errmsg"
	"wordmeter/internal/metrics"
	"wordmeter/internal/models"
	"wordmeter/internal/testhelpers"

	"github.com/gofiber/fiber/v3"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testSecret     = "test-secret"
	testRepository = "octo/words"
	webhookPath    = "/wordmeter/github/commits"
)

type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	diffs map[string]models.CommitDiff
	fail  map[string]error
}

func (f *fakeFetcher) FetchDiff(ctx context.Context, owner, repo, sha string) (models.CommitDiff, error) {
	f.mu.Lock()
	f.calls = append(f.calls, owner+"/"+repo+"@"+sha)
	f.mu.Unlock()

	if err, ok := f.fail[sha]; ok {
		return models.CommitDiff{}, err
	}

	return f.diffs[sha], nil
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

type fakeStore struct {
	mu      sync.Mutex
	records []models.CommitRecord
	puts    int
	fail    map[string]error
}

func (s *fakeStore) Put(ctx context.Context, record models.CommitRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.puts++
	if err, ok := s.fail[record.SHA]; ok {
		return err
	}

	s.records = append(s.records, record)
	return nil
}

func (s *fakeStore) saved() []models.CommitRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := append([]models.CommitRecord(nil), s.records...)
	sort.Slice(out, func(i, j int) bool { return out[i].SHA < out[j].SHA })
	return out
}

type fakePublisher struct {
	mu      sync.Mutex
	records []models.CommitRecord
}

func (p *fakePublisher) Publish(ctx context.Context, record models.CommitRecord) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.records = append(p.records, record)
	return nil
}

func strPtr(s string) *string { return &s }

func testDiffs() map[string]models.CommitDiff {
	return map[string]models.CommitDiff{
		"aaa111": {
			SHA:         "aaa111",
			CommittedAt: time.Date(2017, 7, 14, 2, 40, 0, 0, time.UTC),
			Files: []models.FileDiff{
				{Filename: "README.md", Patch: strPtr("@@ -1 +1 @@\n-hello world\n+hello there")},
				{Filename: "logo.png"},
			},
		},
		"bbb222": {
			SHA:         "bbb222",
			CommittedAt: time.Date(2017, 7, 14, 2, 41, 0, 0, time.UTC),
			Files: []models.FileDiff{
				{Filename: "main.go", Patch: strPtr("-foo bar\n+foo baz\n+qux quux")},
			},
		},
	}
}

type harness struct {
	app       *fiber.App
	fetcher   *fakeFetcher
	store     *fakeStore
	publisher *fakePublisher
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	h := &harness{
		fetcher:   &fakeFetcher{diffs: testDiffs(), fail: map[string]error{}},
		store:     &fakeStore{fail: map[string]error{}},
		publisher: &fakePublisher{},
	}

	pipeline := &Pipeline{
		Secret:    testSecret,
		Fetcher:   h.fetcher,
		Store:     h.store,
		Publisher: h.publisher,
		Log:       zerolog.Nop(),
	}

	h.app = fiber.New()
	Routes(h.app.Group("/wordmeter"), pipeline)

	return h
}

func pushBody(t *testing.T, ids ...string) []byte {
	t.Helper()

	commits := make([]map[string]string, 0, len(ids))
	for _, id := range ids {
		commits = append(commits, map[string]string{"id": id})
	}

	body, err := json.Marshal(map[string]any{
		"ref":        "refs/heads/main",
		"commits":    commits,
		"repository": map[string]string{"full_name": testRepository},
	})
	require.NoError(t, err)

	return body
}

// sign applies the same sha1 HMAC format GitHub sends in headers.
func sign(secret string, body []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(body)
	return fmt.Sprintf("sha1=%x", mac.Sum(nil))
}

func signedHeaders(body []byte) map[string]string {
	return map[string]string{
		"X-Hub-Signature":   sign(testSecret, body),
		"X-GitHub-Event":    "push",
		"X-GitHub-Delivery": "delivery-123",
	}
}

func TestPushSavesOneRecordPerCommit(t *testing.T) {
	h := newHarness(t)
	body := pushBody(t, "aaa111", "bbb222")

	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, signedHeaders(body))
	require.Equal(t, http.StatusOK, status, string(resp))

	var envelope struct {
		Message string `json:"message"`
		Data    any    `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp, &envelope))
	require.Equal(t, "Word counts saved for 2 commits", envelope.Message)
	require.Nil(t, envelope.Data)

	require.Equal(t, []models.CommitRecord{
		{Timestamp: "1500000000000", SHA: "aaa111", WordCount: models.WordCount{Added: 1, Deleted: 1}},
		{Timestamp: "1500000060000", SHA: "bbb222", WordCount: models.WordCount{Added: 3, Deleted: 1}},
	}, h.store.saved())

	require.ElementsMatch(t, []string{testRepository + "@aaa111", testRepository + "@bbb222"}, h.fetcher.calls)
	require.Len(t, h.publisher.records, 2)
}

func TestTamperedBodyIsRejectedWithoutSideEffects(t *testing.T) {
	h := newHarness(t)
	body := pushBody(t, "aaa111")
	headers := signedHeaders(body)

	tampered := pushBody(t, "aaa111", "bbb222")

	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, tampered, headers)
	testhelpers.ResponseErrorCheck(t, errmsg.GitHubSignatureInvalid, resp, status)

	require.Zero(t, h.fetcher.callCount())
	require.Zero(t, h.store.puts)
	require.Empty(t, h.publisher.records)
}

func TestMissingSignatureIsRejected(t *testing.T) {
	h := newHarness(t)
	body := pushBody(t, "aaa111")

	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, nil)
	testhelpers.ResponseErrorCheck(t, errmsg.GitHubSignatureInvalid, resp, status)
	require.Zero(t, h.fetcher.callCount())
}

func TestWrongSecretIsRejected(t *testing.T) {
	h := newHarness(t)
	body := pushBody(t, "aaa111")
	headers := signedHeaders(body)
	headers["X-Hub-Signature"] = sign("other-secret", body)

	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, headers)
	testhelpers.ResponseErrorCheck(t, errmsg.GitHubSignatureInvalid, resp, status)
}

func TestSignatureMustMatchExactly(t *testing.T) {
	pipeline := &Pipeline{Secret: testSecret, Log: zerolog.Nop()}
	body := pushBody(t, "aaa111")
	signature := sign(testSecret, body)

	require.NoError(t, pipeline.Authenticate(body, signature))

	for _, padded := range []string{" " + signature, signature + " ", signature + "\n", "\t" + signature} {
		require.Equal(t, errmsg.GitHubSignatureInvalid, pipeline.Authenticate(body, padded), "%q", padded)
	}
}

func TestFetchFailureSavesNothing(t *testing.T) {
	h := newHarness(t)
	h.fetcher.fail["bbb222"] = errors.New("github: 502 bad gateway")
	body := pushBody(t, "aaa111", "bbb222")
	failures := metrics.WebhookRequests.WithLabelValues("502")
	before := testutil.ToFloat64(failures)

	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, signedHeaders(body))
	testhelpers.ResponseErrorCheck(t, errmsg.GitHubFetchFailed, resp, status)

	require.Zero(t, h.store.puts)
	require.NotContains(t, string(resp), "bad gateway")
	require.Equal(t, before+1, testutil.ToFloat64(failures))
}

func TestStoreFailureAttemptsEveryWrite(t *testing.T) {
	h := newHarness(t)
	h.store.fail["aaa111"] = errors.New("mongo: write conflict")
	body := pushBody(t, "aaa111", "bbb222")

	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, signedHeaders(body))
	testhelpers.ResponseErrorCheck(t, errmsg.GitHubSaveFailed, resp, status)

	require.Equal(t, 2, h.store.puts)
	require.Len(t, h.store.saved(), 1)
	require.Empty(t, h.publisher.records)
}

func TestInvalidPayload(t *testing.T) {
	h := newHarness(t)

	for _, body := range [][]byte{
		[]byte("not json"),
		[]byte(`{"commits": [{"id": "aaa111"}], "repository": {}}`),
	} {
		resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, signedHeaders(body))
		testhelpers.ResponseErrorCheck(t, errmsg.GitHubInvalidPayload, resp, status)
	}

	require.Zero(t, h.fetcher.callCount())
}

func TestPushWithoutCommits(t *testing.T) {
	h := newHarness(t)
	body := pushBody(t)

	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, signedHeaders(body))
	require.Equal(t, http.StatusOK, status, string(resp))
	require.Contains(t, string(resp), "Word counts saved for 0 commits")
	require.Zero(t, h.fetcher.callCount())
}

func TestNonPushEvents(t *testing.T) {
	h := newHarness(t)
	body := []byte(`{"zen": "Keep it logically awesome."}`)

	headers := signedHeaders(body)
	headers["X-GitHub-Event"] = "ping"
	resp, status := testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, headers)
	require.Equal(t, http.StatusOK, status)
	require.Contains(t, string(resp), "pong")

	headers["X-GitHub-Event"] = "issues"
	_, status = testhelpers.RequestRunner(t, h.app, http.MethodPost, webhookPath, body, headers)
	require.Equal(t, http.StatusNoContent, status)

	require.Zero(t, h.fetcher.callCount())
}

func TestRunIsIdempotent(t *testing.T) {
	fetcher := &fakeFetcher{diffs: testDiffs()}
	pipeline := &Pipeline{
		Secret:  testSecret,
		Fetcher: fetcher,
		Store:   &fakeStore{},
		Log:     zerolog.Nop(),
	}
	body := pushBody(t, "bbb222", "aaa111")

	first, err := pipeline.Run(context.Background(), "d1", body, sign(testSecret, body))
	require.NoError(t, err)

	second, err := pipeline.Run(context.Background(), "d2", body, sign(testSecret, body))
	require.NoError(t, err)

	require.Equal(t, first, second)
	require.Equal(t, "bbb222", first[0].SHA)
}

func TestFetchFanOutIsBounded(t *testing.T) {
	var (
		mu       sync.Mutex
		inFlight int
		peak     int
	)

	fetcher := fetchFunc(func(ctx context.Context, owner, repo, sha string) (models.CommitDiff, error) {
		mu.Lock()
		inFlight++
		if inFlight > peak {
			peak = inFlight
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		inFlight--
		mu.Unlock()

		return models.CommitDiff{SHA: sha}, nil
	})

	pipeline := &Pipeline{
		Secret:               testSecret,
		Fetcher:              fetcher,
		Store:                &fakeStore{},
		Log:                  zerolog.Nop(),
		MaxConcurrentFetches: 2,
	}

	body := pushBody(t, "c1", "c2", "c3", "c4", "c5", "c6")
	records, err := pipeline.Run(context.Background(), "d", body, sign(testSecret, body))
	require.NoError(t, err)
	require.Len(t, records, 6)
	require.LessOrEqual(t, peak, 2)
}

type fetchFunc func(ctx context.Context, owner, repo, sha string) (models.CommitDiff, error)

func (f fetchFunc) FetchDiff(ctx context.Context, owner, repo, sha string) (models.CommitDiff, error) {
	return f(ctx, owner, repo, sha)
}
