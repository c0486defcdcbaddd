package db

import (
	"context"
	"fmt"

	"wordmeter/internal/env"

	"github.com/go-redis/redis/v8"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names inside the configured database.
const (
	CommitsCollection = "commits"
	EventsCollection  = "events"
)

// DB bundles the long-lived store handles. They are safe for concurrent use
// and never reassigned after Connect.
type DB struct {
	Client  *mongo.Client
	Commits *mongo.Collection
	Events  *mongo.Collection

	RDB *redis.Client
}

// Connect opens and pings MongoDB and Redis.
func Connect(ctx context.Context, cfg env.Config) (*DB, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("connect mongodb: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
		DB:   cfg.RedisDB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	database := client.Database(cfg.MongoDatabase)

	return &DB{
		Client:  client,
		Commits: database.Collection(CommitsCollection),
		Events:  database.Collection(EventsCollection),
		RDB:     rdb,
	}, nil
}

// Close releases both connections.
func (d *DB) Close(ctx context.Context) error {
	redisErr := d.RDB.Close()
	if err := d.Client.Disconnect(ctx); err != nil {
		return err
	}

	return redisErr
}
