package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func setBaseEnv(t *testing.T) {
	t.Helper()
	t.Setenv("APP_NAME", "SkillSync")
	t.Setenv("APP_ENV", "test")
	t.Setenv("HTTP_PORT", "8080")
	t.Setenv("DB_HOST", "localhost")
	t.Setenv("DB_NAME", "skillsync")
	t.Setenv("DB_USER", "postgres")
	t.Setenv("AUTH_TOKEN_SECRET", "secret")
}

func TestLoad_Defaults(t *testing.T) {
	setBaseEnv(t)

	cfg, err := loadFromEnv()
	require.NoError(t, err)

	require.Equal(t, "5432", cfg.Database.DBPort)
	require.Equal(t, "disable", cfg.Database.DBSSLMode)
	require.Equal(t, int32(10), cfg.Database.PoolMaxConns)
	require.Equal(t, 600*time.Second, cfg.Redis.TTL)
	require.Equal(t, time.Hour, cfg.Auth.TokenExpiresIn)
	require.True(t, cfg.Swap.StrictRoles)
	require.Equal(t, 100, cfg.Swap.CompletionXP)
	require.Equal(t, "skillsync.swaps", cfg.NATS.SubjectPrefix)
	require.False(t, cfg.IsDevelopment())
}

func TestLoad_MissingRequired(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("HTTP_PORT", "")
	t.Setenv("AUTH_TOKEN_SECRET", "")

	_, err := loadFromEnv()
	require.Error(t, err)
	require.True(t, errors.Is(err, errMissingRequiredEnv))
	require.Contains(t, err.Error(), "HTTP_PORT")
	require.Contains(t, err.Error(), "AUTH_TOKEN_SECRET")
}

func TestLoad_OIDCRequiresClientID(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("AUTH_TOKEN_SECRET", "")
	t.Setenv("OIDC_ISSUER_URL", "https://issuer.example")

	_, err := loadFromEnv()
	require.ErrorIs(t, err, errMissingRequiredEnv)
	require.Contains(t, err.Error(), "OIDC_CLIENT_ID")
}

func TestLoad_InvalidValues(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("SWAP_STRICT_ROLES", "maybe")
	t.Setenv("DB_CONNECT_TIMEOUT", "soon")

	_, err := loadFromEnv()
	require.ErrorIs(t, err, errInvalidEnv)
	require.Contains(t, err.Error(), "SWAP_STRICT_ROLES")
	require.Contains(t, err.Error(), "DB_CONNECT_TIMEOUT")
}

func TestLoad_Overrides(t *testing.T) {
	setBaseEnv(t)
	t.Setenv("APP_ENV", "development")
	t.Setenv("SWAP_STRICT_ROLES", "false")
	t.Setenv("SWAP_COMPLETION_XP", "25")
	t.Setenv("RATE_LIMIT_SWAP_CREATE_PER_MINUTE", "3")

	cfg, err := loadFromEnv()
	require.NoError(t, err)
	require.True(t, cfg.IsDevelopment())
	require.False(t, cfg.Swap.StrictRoles)
	require.Equal(t, 25, cfg.Swap.CompletionXP)
	require.Equal(t, 3, cfg.RateLimit.SwapCreatePerMinute)
}
