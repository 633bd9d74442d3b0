package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 4, cfg.Assistant.ServingSize)
	assert.Equal(t, 500, cfg.Assistant.MaxMessageLength)
	assert.Equal(t, BackendMemory, cfg.State.Backend)
	assert.Equal(t, 100, cfg.RateLimit.Requests)
	assert.Equal(t, time.Hour, cfg.RateLimit.Window)
	assert.Equal(t, time.Second, cfg.DedupWindow)
	assert.Equal(t, []string{"*"}, cfg.CORS.AllowOrigins)
	assert.False(t, cfg.OpenRouter.Enabled)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ASSISTANT_SERVING_SIZE", "6")
	t.Setenv("APP_ASSISTANT_RANDOM_SEED", "7")
	t.Setenv("STATE_BACKEND", "Redis")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("RATE_LIMIT_WINDOW", "30s")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, 6, cfg.Assistant.ServingSize)
	assert.Equal(t, uint64(7), cfg.Assistant.RandomSeed)
	assert.Equal(t, BackendRedis, cfg.State.Backend)
	assert.Equal(t, "redis:6379", cfg.State.Redis.Addr)
	assert.Equal(t, 30*time.Second, cfg.RateLimit.Window)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsInvalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"unknown backend", map[string]string{"STATE_BACKEND": "postgres"}},
		{"openrouter without key", map[string]string{"OPENROUTER_ENABLED": "true", "OPENROUTER_API_KEY": ""}},
		{"zero serving size", map[string]string{"APP_ASSISTANT_SERVING_SIZE": "0"}},
		{"zero workers", map[string]string{"APP_QUEUE_WORKERS": "0"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := LoadConfig()
			assert.Error(t, err)
		})
	}
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", MaskAPIKey("short"))
	assert.Equal(t, "sk-o...cdef", MaskAPIKey("sk-or-1234567890abcdef"))
}
