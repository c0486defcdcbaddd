package internal

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"wordmeter/internal/db"
	"wordmeter/internal/env"
	"wordmeter/internal/events"
	"wordmeter/internal/gitcommits"
	"wordmeter/internal/github"
	"wordmeter/internal/githubhooks"
	"wordmeter/internal/logger"
	"wordmeter/internal/metrics"
	"wordmeter/internal/stream"
	"wordmeter/internal/swagger"

	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"
)

// Deps are the collaborators the HTTP surface is built from.
type Deps struct {
	Config  env.Config
	Log     zerolog.Logger
	Fetcher github.Fetcher
	Store   interface {
		githubhooks.RecordSaver
		gitcommits.RecordScanner
	}
	Broker interface {
		githubhooks.RecordPublisher
		gitcommits.Subscriber
	}
	Events *events.Emitter
}

// Server is a fully wired service together with what must be released on
// shutdown.
type Server struct {
	App    *fiber.App
	Config env.Config
	Log    zerolog.Logger

	db     *db.DB
	events *events.Emitter
}

// SetupApp loads configuration, connects the stores and builds the app.
func SetupApp(deployment string, envRoot string, appVersion string) (*Server, error) {
	cfg, err := env.Load(envRoot, appVersion)
	if err != nil {
		return nil, err
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat).With().
		Str("deployment", strings.TrimSpace(deployment)).
		Logger()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	conn, err := db.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store := gitcommits.NewStore(conn.Commits)
	if err := store.EnsureIndexes(ctx); err != nil {
		return nil, fmt.Errorf("ensure commit indexes: %w", err)
	}

	client, err := github.NewClient(&http.Client{Timeout: 30 * time.Second}, cfg.GitHubAPIURL, cfg.GitHubToken)
	if err != nil {
		return nil, err
	}

	em := events.NewEmitter(conn.Events, strings.TrimSpace(deployment))

	app := NewApp(Deps{
		Config:  cfg,
		Log:     log,
		Fetcher: github.NewCachedFetcher(client, conn.RDB, cfg.DiffCacheTTL, log),
		Store:   store,
		Broker:  stream.NewBroker(conn.RDB, stream.DefaultChannel),
		Events:  em,
	})

	return &Server{
		App:    app,
		Config: cfg,
		Log:    log,
		db:     conn,
		events: em,
	}, nil
}

// NewApp registers every route on a fresh Fiber app.
func NewApp(deps Deps) *fiber.App {
	app := fiber.New()

	wordmeter := app.Group("/wordmeter")

	wordmeter.Get("/ping", func(c fiber.Ctx) error {
		return c.SendString("PONG")
	})

	wordmeter.Get("/version", func(c fiber.Ctx) error {
		return c.SendString("v" + deps.Config.Version)
	})

	wordmeter.Get("/metrics", metrics.Handler())

	githubhooks.Routes(wordmeter, &githubhooks.Pipeline{
		Secret:               deps.Config.WebhookSecret,
		Fetcher:              deps.Fetcher,
		Store:                deps.Store,
		Publisher:            deps.Broker,
		Events:               deps.Events,
		Log:                  deps.Log.With().Str("component", "webhook").Logger(),
		MaxConcurrentFetches: deps.Config.MaxConcurrentFetches,
	})

	gitcommits.Routes(wordmeter, &gitcommits.Query{
		APIKey: deps.Config.APIKey,
		Store:  deps.Store,
		Log:    deps.Log.With().Str("component", "query").Logger(),
	}, deps.Broker)

	swagger.Register(app, deps.Config.Version)

	return app
}

// Close flushes pending audit events and disconnects the stores.
func (s *Server) Close(ctx context.Context) error {
	s.events.Close()
	return s.db.Close(ctx)
}
