package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/EthanCarson/Crazy-Rolls/internal/game"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "5175", cfg.Port)
	assert.Equal(t, 13, cfg.MaxTurns)
	assert.Equal(t, "sqlite", cfg.SaveStore)
	assert.Equal(t, game.PolicyReject, cfg.Policy())
	assert.Equal(t, 10*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 30*time.Minute, cfg.SessionIdle)
	assert.False(t, cfg.Production())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("MAX_TURNS", "5")
	t.Setenv("SCORING_POLICY", "zero")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("REQUEST_TIMEOUT", "250ms")
	t.Setenv("SESSION_IDLE", "5m")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, 5, cfg.MaxTurns)
	assert.Equal(t, game.PolicyZero, cfg.Policy())
	assert.True(t, cfg.Production())
	assert.Equal(t, 250*time.Millisecond, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Minute, cfg.SessionIdle)

	e := game.New(cfg.EngineOptions()...)
	assert.Equal(t, 5, e.MaxTurns())
}

func TestLoadRejectsBadValues(t *testing.T) {
	tests := map[string][2]string{
		"turns too high": {"MAX_TURNS", "14"},
		"turns zero":     {"MAX_TURNS", "0"},
		"turns not int":  {"MAX_TURNS", "many"},
		"policy":         {"SCORING_POLICY", "lenient"},
		"jwt days":       {"JWT_EXPIRES_DAYS", "0"},
		"save store":     {"SAVE_STORE", "redis"},
	}
	for name, kv := range tests {
		t.Run(name, func(t *testing.T) {
			t.Setenv(kv[0], kv[1])
			_, err := Load()
			assert.Error(t, err)
		})
	}
}
