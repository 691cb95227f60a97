package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	t.Setenv("ENV_FILE", filepath.Join(t.TempDir(), "missing.env"))
}

func TestLoadDefaults(t *testing.T) {
	isolate(t)
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, RoomsSourceFixtures, cfg.RoomsSource)
	assert.Equal(t, IdempotencyMemory, cfg.IdempotencyBackend)
	assert.Equal(t, 2*time.Second, cfg.BookingConfirmDelay)
	assert.Equal(t, []time.Duration{time.Second, 5 * time.Second, 30 * time.Second}, cfg.RetryBackoff)
	assert.Equal(t, "USD", cfg.Currency)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.False(t, cfg.S3Enabled())
}

func TestLoadOverrides(t *testing.T) {
	isolate(t)
	t.Setenv("KAFKA_BROKERS", "a:9092, b:9092,")
	t.Setenv("BOOKING_CONFIRM_DELAY", "0s")
	t.Setenv("IDEMP_BACKEND", "REDIS")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("S3_ENDPOINT", "http://minio:9000")
	t.Setenv("S3_USE_SSL", "yes")
	t.Setenv("CURRENCY", "eur")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.KafkaBrokers)
	assert.Zero(t, cfg.BookingConfirmDelay)
	assert.Equal(t, IdempotencyRedis, cfg.IdempotencyBackend)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.True(t, cfg.S3UseSSL)
	assert.Equal(t, "http://minio:9000", cfg.S3PublicEndpoint)
	assert.True(t, cfg.S3Enabled())
	assert.Equal(t, "EUR", cfg.Currency)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string][2]string{
		"bad duration":      {"IDEMP_TTL", "soon"},
		"bad bool":          {"S3_USE_SSL", "maybe"},
		"bad backoff":       {"RETRY_BACKOFF", "1s,x"},
		"bad rooms source":  {"ROOMS_SOURCE", "csv"},
		"mongo without uri": {"ROOMS_SOURCE", "mongo"},
		"bad idempotency":   {"IDEMP_BACKEND", "disk"},
		"bad redis db":      {"REDIS_DB", "one"},
		"negative delay":    {"BOOKING_CONFIRM_DELAY", "-1s"},
	}
	for name, kv := range cases {
		t.Run(name, func(t *testing.T) {
			isolate(t)
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestLoadReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("HTTP_ADDR=:9999\nAPP_ENV=prod\n"), 0o600))
	t.Setenv("ENV_FILE", path)
	t.Setenv("APP_ENV", "staging")
	t.Cleanup(func() { _ = os.Unsetenv("HTTP_ADDR") })

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, ":9999", cfg.HTTPAddr)
	assert.Equal(t, "staging", cfg.Env, "process env wins over the file")
}
