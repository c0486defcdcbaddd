package gitcommits

import (
	"context"
	"crypto/subtle"
	"strconv"
	"strings"

	"wordmeter/internal/errmsg"
	"wordmeter/internal/metrics"
	"wordmeter/internal/models"

	"github.com/rs/zerolog"
)

// APIKeyHeader carries the read API credential.
const APIKeyHeader = "X-Authorization"

// RecordScanner is the read side of the record store.
type RecordScanner interface {
	Scan(ctx context.Context, limit int) ([]models.CommitRecord, error)
}

// Query serves stored word counts to callers holding the API key.
type Query struct {
	APIKey string
	Store  RecordScanner
	Log    zerolog.Logger
}

// Authenticate checks the supplied credential against the configured key.
func (q *Query) Authenticate(credential string) error {
	if credential == "" {
		return errmsg.APIKeyMissing
	}

	if subtle.ConstantTimeCompare([]byte(credential), []byte(q.APIKey)) != 1 {
		return errmsg.APIKeyInvalid
	}

	return nil
}

// Run authenticates and scans the store, bounded by rawLimit when it is a
// positive integer. Any other limit value means no bound.
func (q *Query) Run(ctx context.Context, credential, rawLimit string) ([]models.CommitRecord, error) {
	if err := q.Authenticate(credential); err != nil {
		metrics.QueryRequests.WithLabelValues("unauthorized").Inc()
		return nil, err
	}

	limit := ParseLimit(rawLimit)

	records, err := q.Store.Scan(ctx, limit)
	if err != nil {
		q.Log.Error().Err(err).Int("limit", limit).Msg("failed to scan commit records")
		metrics.QueryRequests.WithLabelValues("store_error").Inc()
		return nil, errmsg.InternalServerError
	}

	metrics.QueryRequests.WithLabelValues("ok").Inc()

	return records, nil
}

// ParseLimit returns the limit as a positive integer, or 0 when it is
// missing, not an integer, or not positive.
func ParseLimit(raw string) int {
	limit, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || limit <= 0 {
		return 0
	}

	return limit
}
