package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "REDIS_ADDR", "REDIS_DB", "BANK_BACKEND", "PROVIDER_TIMEOUT", "FEED_TIMEOUT", "SESSION_TTL", "GEMINI_API_KEY"} {
		t.Setenv(key, "")
	}
	t.Setenv("PORT", "8080")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "0")
	t.Setenv("BANK_BACKEND", BackendRedis)

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "8080", cfg.Port)
	require.Equal(t, BackendRedis, cfg.BankBackend)
	require.Equal(t, 30*time.Second, cfg.ProviderTimeout)
	require.Equal(t, 10*time.Second, cfg.FeedTimeout)
	require.Equal(t, 24*time.Hour, cfg.SessionTTL)
	require.Empty(t, cfg.GeminiAPIKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("BANK_BACKEND", BackendMemory)
	t.Setenv("PROVIDER_TIMEOUT", "45s")
	t.Setenv("FEED_TIMEOUT", "2s")
	t.Setenv("SESSION_TTL", "1h")
	t.Setenv("GEMINI_MODEL", "gemini-2.5-pro")

	cfg, err := FromEnv()
	require.NoError(t, err)
	require.Equal(t, "9090", cfg.Port)
	require.Equal(t, 3, cfg.RedisDB)
	require.Equal(t, BackendMemory, cfg.BankBackend)
	require.Equal(t, 45*time.Second, cfg.ProviderTimeout)
	require.Equal(t, 2*time.Second, cfg.FeedTimeout)
	require.Equal(t, time.Hour, cfg.SessionTTL)
	require.Equal(t, "gemini-2.5-pro", cfg.GeminiModel)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	cases := map[string]string{
		"REDIS_DB":         "zero",
		"BANK_BACKEND":     "postgres",
		"PROVIDER_TIMEOUT": "soon",
		"FEED_TIMEOUT":     "-1s",
	}
	for key, value := range cases {
		t.Run(key, func(t *testing.T) {
			t.Setenv(key, value)
			_, err := FromEnv()
			require.Error(t, err)
		})
	}
}
