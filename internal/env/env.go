package env

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config is the process configuration. It is read once at startup and passed
// to every component that needs it.
type Config struct {
	Version string

	WebhookSecret string
	APIKey        string

	GitHubToken  string
	GitHubAPIURL string

	MongoURI      string
	MongoDatabase string

	RedisAddr string
	RedisDB   int

	DiffCacheTTL         time.Duration
	MaxConcurrentFetches int

	LogLevel  string
	LogFormat string

	Prefork bool
}

// Load reads <envRoot>/.env when present, then the process environment.
func Load(envRoot string, appVersion string) (Config, error) {
	if err := loadEnv(envRoot); err != nil {
		return Config{}, err
	}

	shared := strings.TrimSpace(os.Getenv("SECRET"))

	cfg := Config{
		Version: loadVersion(appVersion),

		WebhookSecret: getEnv("GITHUB_WEBHOOK_SECRET", shared),
		APIKey:        getEnv("API_KEY", shared),

		GitHubToken:  getEnv("GITHUB_TOKEN", ""),
		GitHubAPIURL: getEnv("GITHUB_API_URL", "https://api.github.com/"),

		MongoURI:      getEnv("MONGO_URI", "mongodb://127.0.0.1:27017"),
		MongoDatabase: getEnv("MONGO_DATABASE", "wordmeter"),

		RedisAddr: getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisDB:   getEnvAsInt("REDIS_DB", 0),

		DiffCacheTTL:         getEnvAsDuration("DIFF_CACHE_TTL", 24*time.Hour),
		MaxConcurrentFetches: getEnvAsInt("MAX_CONCURRENT_FETCHES", 8),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),
	}

	cfg.Prefork, _ = strconv.ParseBool(os.Getenv("PREFORK"))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the service cannot run with.
func (c Config) Validate() error {
	if c.WebhookSecret == "" {
		return errors.New("GITHUB_WEBHOOK_SECRET (or SECRET) is required")
	}

	if c.APIKey == "" {
		return errors.New("API_KEY (or SECRET) is required")
	}

	if c.MaxConcurrentFetches < 1 {
		return fmt.Errorf("invalid MAX_CONCURRENT_FETCHES: %d", c.MaxConcurrentFetches)
	}

	return nil
}

func loadEnv(envRoot string) error {
	if envRoot == "" {
		envRoot = repoRoot()
	}

	path := path.Join(envRoot, ".env")
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	if err := godotenv.Overload(path); err != nil {
		return fmt.Errorf("failed to load env file %s: %w", path, err)
	}

	return nil
}

func loadVersion(appVersion string) string {
	if appVersion != "" {
		return appVersion
	}

	data, err := os.ReadFile(filepath.Join(repoRoot(), "VERSION"))
	if err != nil {
		return "unknown"
	}

	if trimmed := strings.TrimSpace(string(data)); trimmed != "" {
		return trimmed
	}

	return "unknown"
}

func repoRoot() string {
	_, b, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(b), "../..")
}

func getEnv(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(strings.TrimSpace(os.Getenv(key)))
	if err != nil {
		return defaultValue
	}
	return value
}
