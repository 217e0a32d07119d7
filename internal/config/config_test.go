package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devflow/backend/internal/errs"
)

func TestLoadAppliesDefaults(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("DB_NAME", "")
	t.Setenv("PORT", "")
	t.Setenv("LOG_LEVEL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "mongodb://localhost:27017", cfg.MongoURI)
	assert.Equal(t, "devflow", cfg.DBName)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("MONGODB_URL", "mongodb://db:27017")
	t.Setenv("DB_NAME", "qa")
	t.Setenv("PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("APP_ENV", "development")
	t.Setenv("REDIS_URL", "redis://cache:6379")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "qa", cfg.DBName)
	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "redis://cache:6379", cfg.RedisURL)
}

func TestLoadRequiresMongoURL(t *testing.T) {
	t.Setenv("MONGODB_URL", "")

	_, err := Load()
	assert.ErrorIs(t, err, errs.ErrMissingConfig)
}
