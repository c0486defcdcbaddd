// Package stream fans saved commit records out to live subscribers over
// Redis pub/sub, so every server instance sees every record.
package stream

import (
	"context"
	"encoding/json"
	"fmt"

	"wordmeter/internal/models"

	"github.com/go-redis/redis/v8"
)

// DefaultChannel is the pub/sub channel records are announced on.
const DefaultChannel = "wordmeter:commits"

type Broker struct {
	rdb     *redis.Client
	channel string
}

func NewBroker(rdb *redis.Client, channel string) *Broker {
	if channel == "" {
		channel = DefaultChannel
	}

	return &Broker{rdb: rdb, channel: channel}
}

// Publish announces a saved record.
func (b *Broker) Publish(ctx context.Context, record models.CommitRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return err
	}

	return b.rdb.Publish(ctx, b.channel, payload).Err()
}

// Subscribe calls fn for every record published until ctx is done or fn
// returns an error. ready, when non-nil, is closed once the subscription is
// live.
func (b *Broker) Subscribe(ctx context.Context, ready chan<- struct{}, fn func(models.CommitRecord) error) error {
	sub := b.rdb.Subscribe(ctx, b.channel)
	defer sub.Close()

	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("subscribe %s: %w", b.channel, err)
	}

	if ready != nil {
		close(ready)
	}

	messages := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-messages:
			if !ok {
				return nil
			}

			var record models.CommitRecord
			if err := json.Unmarshal([]byte(msg.Payload), &record); err != nil {
				continue
			}

			if err := fn(record); err != nil {
				return err
			}
		}
	}
}
