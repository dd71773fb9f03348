package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 3000, cfg.Digest.MaxTokensPerChunk)
	assert.Equal(t, 200, cfg.Digest.OverlapTokens)
	assert.Equal(t, 8, cfg.Digest.MaxChunks)
	assert.Equal(t, 6, cfg.Digest.MaxCues)
	assert.Equal(t, "xml", cfg.Digest.DefaultFormat)
	assert.Equal(t, 24*time.Hour, cfg.Digest.CacheTTL)
	assert.Equal(t, "https://api.groq.com", cfg.Groq.BaseURL)
	assert.Equal(t, 10, cfg.SummaryLimits().ActionItems)
	assert.Equal(t, "", cfg.Redis.Host)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DIGEST_MAX_CHUNKS", "3")
	t.Setenv("LIMITS_TOPICS", "2")
	t.Setenv("GROQ_API_KEY", "k")
	t.Setenv("SERVER_ALLOWED_ORIGINS", "http://a.test,http://b.test")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, 3, cfg.Digest.MaxChunks)
	assert.Equal(t, 2, cfg.SummaryLimits().Topics)
	assert.Equal(t, "k", cfg.Groq.APIKey)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.Server.AllowedOrigins)
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"zero chunk budget", "DIGEST_MAX_TOKENS_PER_CHUNK", "0"},
		{"unknown format", "DIGEST_DEFAULT_FORMAT", "pdf"},
		{"overlap not below budget", "DIGEST_OVERLAP_TOKENS", "3000"},
		{"zero limit", "LIMITS_ACTION_ITEMS", "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.val)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
