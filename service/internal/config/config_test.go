package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("GEMDUEL_JWT_SECRET", "s3cret")
	var cfg Config
	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, 12*time.Hour, cfg.TokenTTL)
	assert.Equal(t, time.Second, cfg.AIDelay)
	assert.Equal(t, 10*time.Minute, cfg.FinishedTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "1.0.0", cfg.ReplayVersion)
	assert.NoError(t, cfg.Validate())
}

func TestParseEnvOverrides(t *testing.T) {
	t.Setenv("GEMDUEL_HTTP_ADDR", "127.0.0.1:9000")
	t.Setenv("GEMDUEL_AI_DELAY", "250ms")
	t.Setenv("GEMDUEL_FINISHED_TTL", "30s")
	t.Setenv("GEMDUEL_REDIS_DB", "3")
	t.Setenv("GEMDUEL_SQLITE_PATH", "/tmp/gemduel.db")
	var cfg Config
	require.NoError(t, ParseEnv(&cfg))
	assert.Equal(t, "127.0.0.1:9000", cfg.HTTPAddr)
	assert.Equal(t, 250*time.Millisecond, cfg.AIDelay)
	assert.Equal(t, 30*time.Second, cfg.FinishedTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "/tmp/gemduel.db", cfg.SQLitePath)
}

func TestParseEnvBadDuration(t *testing.T) {
	t.Setenv("GEMDUEL_TOKEN_TTL", "forever")
	var cfg Config
	assert.Error(t, ParseEnv(&cfg))
}

func TestValidate(t *testing.T) {
	ok := Config{JWTSecret: "x", LogLevel: "debug"}
	assert.NoError(t, ok.Validate())

	noSecret := ok
	noSecret.JWTSecret = ""
	assert.ErrorContains(t, noSecret.Validate(), "GEMDUEL_JWT_SECRET")

	both := ok
	both.DatabaseURL = "postgres://localhost/gemduel"
	both.SQLitePath = "gemduel.db"
	assert.Error(t, both.Validate())

	badLevel := ok
	badLevel.LogLevel = "loud"
	assert.Error(t, badLevel.Validate())
}
