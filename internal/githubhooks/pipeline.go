package githubhooks

import (
	"context"
	"crypto/hmac"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"wordmeter/internal/errmsg"
	"wordmeter/internal/events"
	"wordmeter/internal/github"
	"wordmeter/internal/metrics"
	"wordmeter/internal/models"
	"wordmeter/internal/wordcount"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const signaturePrefix = "sha1="

// defaultMaxConcurrentFetches bounds the diff fan-out when unset.
const defaultMaxConcurrentFetches = 8

// RecordSaver is the write side of the record store.
type RecordSaver interface {
	Put(ctx context.Context, record models.CommitRecord) error
}

// RecordPublisher announces saved records to live subscribers.
type RecordPublisher interface {
	Publish(ctx context.Context, record models.CommitRecord) error
}

// Pipeline turns a signed push delivery into saved word counts. Publisher
// and Events are optional.
type Pipeline struct {
	Secret    string
	Fetcher   github.Fetcher
	Store     RecordSaver
	Publisher RecordPublisher
	Events    *events.Emitter
	Log       zerolog.Logger

	MaxConcurrentFetches int
}

// Authenticate checks the X-Hub-Signature value against an HMAC-SHA1 of the
// raw body.
func (p *Pipeline) Authenticate(body []byte, signature string) error {
	if !verifySignature(p.Secret, signature, body) {
		return errmsg.GitHubSignatureInvalid
	}

	return nil
}

// Run authenticates the delivery and then processes it.
func (p *Pipeline) Run(ctx context.Context, deliveryID string, body []byte, signature string) ([]models.CommitRecord, error) {
	if err := p.Authenticate(body, signature); err != nil {
		return nil, err
	}

	return p.Process(ctx, deliveryID, body)
}

// Process fetches every pushed commit's diff, counts its words and saves one
// record per commit. Nothing is saved unless every fetch succeeds; saves are
// all attempted and a failed one fails the delivery without undoing the rest.
func (p *Pipeline) Process(ctx context.Context, deliveryID string, body []byte) ([]models.CommitRecord, error) {
	var push models.PushEvent
	if err := json.Unmarshal(body, &push); err != nil {
		p.Log.Warn().Err(err).Str("delivery", deliveryID).Msg("undecodable push payload")
		return nil, errmsg.GitHubInvalidPayload
	}

	owner, repo, err := push.OwnerRepo()
	if err != nil {
		p.Log.Warn().Err(err).Str("delivery", deliveryID).Msg("push payload without repository")
		return nil, errmsg.GitHubInvalidPayload
	}

	log := p.Log.With().
		Str("delivery", deliveryID).
		Str("repository", push.Repository.FullName).
		Logger()

	ids := push.CommitIDs()
	p.Events.PushReceived(deliveryID, push.Repository.FullName, push.Ref, len(ids))

	diffs, err := p.fetchDiffs(ctx, owner, repo, ids)
	if err != nil {
		log.Error().Err(err).Msg("failed to fetch commit diffs")
		return nil, errmsg.GitHubFetchFailed
	}

	records := wordcount.AggregateAll(diffs)

	if err := p.save(ctx, records); err != nil {
		log.Error().Err(err).Msg("failed to save word counts")
		return nil, errmsg.GitHubSaveFailed
	}

	for _, record := range records {
		metrics.ObserveRecord(record)
		p.Events.CommitCounted(deliveryID, push.Repository.FullName, record)

		if p.Publisher != nil {
			if err := p.Publisher.Publish(ctx, record); err != nil {
				log.Warn().Err(err).Str("sha", record.SHA).Msg("failed to publish word count")
			}
		}

		log.Info().
			Str("sha", record.SHA).
			Int("added", record.WordCount.Added).
			Int("deleted", record.WordCount.Deleted).
			Msg("word count saved")
	}

	return records, nil
}

// fetchDiffs fetches all diffs concurrently. The first failure cancels the
// fetches still in flight.
func (p *Pipeline) fetchDiffs(ctx context.Context, owner, repo string, ids []string) ([]models.CommitDiff, error) {
	limit := p.MaxConcurrentFetches
	if limit < 1 {
		limit = defaultMaxConcurrentFetches
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)

	diffs := make([]models.CommitDiff, len(ids))
	for i, sha := range ids {
		g.Go(func() error {
			diff, err := p.Fetcher.FetchDiff(gctx, owner, repo, sha)
			if err != nil {
				return fmt.Errorf("fetch %s: %w", sha, err)
			}

			diffs[i] = diff
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return diffs, nil
}

// save writes every record concurrently and reports the first failure.
func (p *Pipeline) save(ctx context.Context, records []models.CommitRecord) error {
	var g errgroup.Group
	for _, record := range records {
		g.Go(func() error {
			return p.Store.Put(ctx, record)
		})
	}

	return g.Wait()
}

// verifySignature compares a payload MAC against the expected secret-derived value.
func verifySignature(secret, signature string, payload []byte) bool {
	if !strings.HasPrefix(signature, signaturePrefix) {
		return false
	}

	expected := computeSignature(secret, payload)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// computeSignature renders the GitHub sha1= prefixed HMAC in hex form.
func computeSignature(secret string, payload []byte) string {
	mac := hmac.New(sha1.New, []byte(secret))
	mac.Write(payload)

	return signaturePrefix + hex.EncodeToString(mac.Sum(nil))
}
