package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_MAX_OPEN_CONNS", "42")
	t.Setenv("MOCK_TELEGRAM", "true")

	var cfg Config
	cfg.Server.Port = "8080"

	require.NoError(t, applyEnvOverrides(&cfg))
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 42, cfg.Database.MaxOpenConns)
	assert.True(t, cfg.Telegram.Mock)
}

func TestApplyEnvOverridesRejectsBadValue(t *testing.T) {
	t.Setenv("DB_MAX_OPEN_CONNS", "lots")

	var cfg Config
	assert.Error(t, applyEnvOverrides(&cfg))
}
