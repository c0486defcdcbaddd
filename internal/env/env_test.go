package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()

	for _, key := range []string{
		"SECRET", "GITHUB_WEBHOOK_SECRET", "API_KEY", "GITHUB_TOKEN", "GITHUB_API_URL",
		"MONGO_URI", "MONGO_DATABASE", "REDIS_ADDR", "REDIS_DB", "DIFF_CACHE_TTL",
		"MAX_CONCURRENT_FETCHES", "LOG_LEVEL", "LOG_FORMAT", "PREFORK",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadSharedSecretFillsBothCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("SECRET", "shared-secret")

	cfg, err := Load(t.TempDir(), "1.2.3")
	require.NoError(t, err)

	require.Equal(t, "1.2.3", cfg.Version)
	require.Equal(t, "shared-secret", cfg.WebhookSecret)
	require.Equal(t, "shared-secret", cfg.APIKey)
	require.Equal(t, 8, cfg.MaxConcurrentFetches)
	require.Equal(t, 24*time.Hour, cfg.DiffCacheTTL)
	require.Equal(t, "wordmeter", cfg.MongoDatabase)
}

func TestLoadSeparateCredentialsFromEnvFile(t *testing.T) {
	clearEnv(t)

	root := t.TempDir()
	contents := "GITHUB_WEBHOOK_SECRET=hook\nAPI_KEY=reader\nMAX_CONCURRENT_FETCHES=3\nPREFORK=true\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".env"), []byte(contents), 0o600))

	cfg, err := Load(root, "dev")
	require.NoError(t, err)

	require.Equal(t, "hook", cfg.WebhookSecret)
	require.Equal(t, "reader", cfg.APIKey)
	require.Equal(t, 3, cfg.MaxConcurrentFetches)
	require.True(t, cfg.Prefork)
}

func TestLoadRequiresSecrets(t *testing.T) {
	clearEnv(t)

	_, err := Load(t.TempDir(), "dev")
	require.Error(t, err)
}
