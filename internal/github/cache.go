package github

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"wordmeter/internal/models"

	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
)

const cacheKeyPrefix = "wordmeter:diff:"

// Fetcher is anything that can produce a commit diff.
type Fetcher interface {
	FetchDiff(ctx context.Context, owner, repo, sha string) (models.CommitDiff, error)
}

// CachedFetcher keeps fetched diffs in Redis. A commit's diff never changes,
// so a hit is always valid; the TTL only bounds memory. Cache failures are
// logged and fall through to the wrapped fetcher.
type CachedFetcher struct {
	next Fetcher
	rdb  *redis.Client
	ttl  time.Duration
	log  zerolog.Logger
}

func NewCachedFetcher(next Fetcher, rdb *redis.Client, ttl time.Duration, log zerolog.Logger) *CachedFetcher {
	return &CachedFetcher{next: next, rdb: rdb, ttl: ttl, log: log}
}

func (f *CachedFetcher) FetchDiff(ctx context.Context, owner, repo, sha string) (models.CommitDiff, error) {
	key := cacheKey(owner, repo, sha)

	data, err := f.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var diff models.CommitDiff
		if err := json.Unmarshal(data, &diff); err == nil {
			return diff, nil
		}
		f.log.Warn().Str("key", key).Msg("discarding undecodable cached diff")
	case !errors.Is(err, redis.Nil):
		f.log.Warn().Err(err).Str("key", key).Msg("diff cache read failed")
	}

	diff, err := f.next.FetchDiff(ctx, owner, repo, sha)
	if err != nil {
		return models.CommitDiff{}, err
	}

	if encoded, err := json.Marshal(diff); err == nil {
		if err := f.rdb.Set(ctx, key, encoded, f.ttl).Err(); err != nil {
			f.log.Warn().Err(err).Str("key", key).Msg("diff cache write failed")
		}
	}

	return diff, nil
}

func cacheKey(owner, repo, sha string) string {
	return cacheKeyPrefix + owner + "/" + repo + ":" + sha
}
