package config_test

import (
	"testing"
	"time"

	"github.com/jevinjosh/event-management/config"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "http://localhost:5000/api", cfg.APIBaseURL)
	assert.Equal(t, config.BackendMemory, cfg.StoreBackend)
	assert.Equal(t, "default", cfg.StoreScope)
	assert.Equal(t, config.BackendGoChannel, cfg.PubSubBackend)
	assert.Equal(t, 48*time.Hour, cfg.SessionTTL)
	assert.Equal(t, time.Duration(0), cfg.HTTPTimeout)
	assert.Equal(t, logrus.InfoLevel, cfg.Level())
	assert.False(t, cfg.NeedsRedis())
}

func TestLoad_Env(t *testing.T) {
	t.Setenv("STORE_BACKEND", "redis")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("HTTP_TIMEOUT", "5s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, config.BackendRedis, cfg.StoreBackend)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, time.Hour, cfg.SessionTTL)
	assert.Equal(t, 5*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, logrus.DebugLevel, cfg.Level())
	assert.True(t, cfg.NeedsRedis())
}

func TestLoad_Invalid(t *testing.T) {
	testCases := []struct {
		name string
		env  map[string]string
	}{
		{name: "unknown store backend", env: map[string]string{"STORE_BACKEND": "sqlite"}},
		{name: "redis without address", env: map[string]string{"PUBSUB_BACKEND": "redis"}},
		{name: "postgres without url", env: map[string]string{"STORE_BACKEND": "postgres"}},
		{name: "relative api url", env: map[string]string{"API_BASE_URL": "/api"}},
		{name: "bad log level", env: map[string]string{"LOG_LEVEL": "loud"}},
		{name: "zero session ttl", env: map[string]string{"SESSION_TTL": "0s"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			for k, v := range tc.env {
				t.Setenv(k, v)
			}

			_, err := config.Load()
			assert.Error(t, err)
		})
	}
}
