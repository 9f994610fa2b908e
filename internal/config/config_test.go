package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "shopapi.db", cfg.DBDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "shopapi", cfg.JWT.Issuer)
	assert.Equal(t, time.Hour, cfg.JWT.TTL)
	assert.Equal(t, "bcrypt", cfg.PasswordHasher)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.False(t, cfg.AllowSignupRole)
	assert.Equal(t, 10, cfg.AuthRateMax)
	assert.Equal(t, 10*time.Minute, cfg.AuthRateWindow)
	assert.True(t, cfg.DevSecret())
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DSN", ":memory:")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("JWT_TTL", "15m")
	t.Setenv("PASSWORD_BCRYPT_COST", "4")
	t.Setenv("AUTH_ALLOW_SIGNUP_ROLE", "true")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, ":memory:", cfg.DBDSN)
	assert.Equal(t, "s3cret", cfg.JWT.Secret)
	assert.Equal(t, 15*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, 4, cfg.BcryptCost)
	assert.True(t, cfg.AllowSignupRole)
	assert.False(t, cfg.DevSecret())
}

func TestLoadFileThenEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "shopapi.yaml")
	yaml := []byte("port: \"7000\"\njwt:\n  issuer: from-file\n  ttl: 30m\npassword:\n  hasher: argon2id\n")
	require.NoError(t, os.WriteFile(path, yaml, 0o600))
	t.Setenv("JWT_ISSUER", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "from-env", cfg.JWT.Issuer)
	assert.Equal(t, 30*time.Minute, cfg.JWT.TTL)
	assert.Equal(t, "argon2id", cfg.PasswordHasher)
}

func TestLoadRejectsUnknownValues(t *testing.T) {
	t.Setenv("DB_DRIVER", "oracle")
	_, err := Load("")
	require.Error(t, err)

	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("PASSWORD_HASHER", "md5")
	_, err = Load("")
	require.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}
