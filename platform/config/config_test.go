package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnvDefaults(t *testing.T) {
	for _, key := range []string{"STATE_BACKEND", "TRADE_TTL", "AUCTION_TTL", "HTTP_ADDR", "SOCKET_ADDR", "LOG_LEVEL"} {
		t.Setenv(key, "")
	}
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendMemory, cfg.StateBackend)
	assert.Equal(t, 5*time.Minute, cfg.TradeTTL)
	assert.Equal(t, 30*time.Second, cfg.AuctionTTL)
	assert.Equal(t, ":4101", cfg.HTTPAddr)
	assert.Equal(t, ":8000", cfg.SocketAddr)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("STATE_BACKEND", "redis")
	t.Setenv("TRADE_TTL", "90s")
	t.Setenv("JWT_SECRET", "hunter2")
	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, BackendRedis, cfg.StateBackend)
	assert.Equal(t, 90*time.Second, cfg.TradeTTL)
	assert.Equal(t, "hunter2", cfg.JWTSecret)
}

func TestFromEnvRejectsBadValues(t *testing.T) {
	t.Setenv("TRADE_TTL", "soon")
	_, err := FromEnv()
	assert.Error(t, err)

	t.Setenv("TRADE_TTL", "")
	t.Setenv("AUCTION_TTL", "-5s")
	_, err = FromEnv()
	assert.Error(t, err)

	t.Setenv("AUCTION_TTL", "")
	t.Setenv("STATE_BACKEND", "etcd")
	_, err = FromEnv()
	assert.Error(t, err)
}
