// Package events keeps an audit trail of webhook deliveries in MongoDB.
// Events are buffered and written in batches off the request path.
package events

import (
	"context"
	"sync"
	"time"

	"wordmeter/internal/models"

	"go.mongodb.org/mongo-driver/mongo"
)

type Config struct {
	Buffer     int
	BatchSize  int
	FlushEvery time.Duration
}

var (
	defaultConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 2 * time.Second,
	}
	fastConfig = Config{
		Buffer:     1000,
		BatchSize:  50,
		FlushEvery: 50 * time.Millisecond,
	}
)

type Emitter struct {
	buf chan models.Event
	cfg Config

	wg        sync.WaitGroup
	onceClose sync.Once

	InsertOne  func(context.Context, models.Event) error
	InsertMany func(context.Context, []models.Event) error
}

func NewEmitter(coll *mongo.Collection, deployment string) *Emitter {
	return NewEmitterWithConfig(coll, selectConfig(deployment))
}

func NewEmitterWithConfig(coll *mongo.Collection, cfg Config) *Emitter {
	e := newEmitter(cfg)

	e.InsertOne = func(ctx context.Context, evt models.Event) error {
		_, err := coll.InsertOne(ctx, evt)
		return err
	}

	e.InsertMany = func(ctx context.Context, evts []models.Event) error {
		docs := make([]interface{}, len(evts))
		for i, evt := range evts {
			docs[i] = evt
		}

		_, err := coll.InsertMany(ctx, docs)
		return err
	}

	e.start()

	return e
}

// NewEmitterWithSink writes through the given functions instead of a
// collection.
func NewEmitterWithSink(cfg Config, insertOne func(context.Context, models.Event) error, insertMany func(context.Context, []models.Event) error) *Emitter {
	e := newEmitter(cfg)
	e.InsertOne = insertOne
	e.InsertMany = insertMany
	e.start()

	return e
}

func newEmitter(cfg Config) *Emitter {
	return &Emitter{
		buf: make(chan models.Event, cfg.Buffer),
		cfg: cfg,
	}
}

func (e *Emitter) start() {
	e.wg.Add(1)
	go e.worker()
}

func selectConfig(deployment string) Config {
	switch deployment {
	case "test":
		return fastConfig
	default:
		return defaultConfig
	}
}

// Close flushes buffered events and stops the worker.
func (e *Emitter) Close() {
	if e == nil {
		return
	}

	e.onceClose.Do(func() {
		close(e.buf)
		e.wg.Wait()
	})
}

func (e *Emitter) worker() {
	defer e.wg.Done()

	batch := make([]models.Event, 0, e.cfg.BatchSize)
	timer := time.NewTimer(e.cfg.FlushEvery)

	defer timer.Stop()

	flush := func() {
		if len(batch) == 0 {
			timer.Reset(e.cfg.FlushEvery)
			return
		}

		ctx, cancel := context.WithTimeout(
			context.Background(),
			2*time.Second,
		)

		_ = e.InsertMany(ctx, batch)

		cancel()

		batch = batch[:0]
		timer.Reset(e.cfg.FlushEvery)
	}

	for {
		select {
		case evt, ok := <-e.buf:
			if !ok {
				flush()
				return
			}

			batch = append(batch, evt)

			if len(batch) >= e.cfg.BatchSize {
				flush()
			}
		case <-timer.C:
			flush()
		}
	}
}
