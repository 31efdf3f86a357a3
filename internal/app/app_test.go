package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veeso/spazio-grigio-bot/internal/config"
)

func TestNewRejectsBadRedisURL(t *testing.T) {
	var cfg config.Config
	cfg.Redis.URL = "not-a-redis-url"

	_, err := New(&cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "watermark store")
}

func TestNewFailsCleanlyOnDirectoryError(t *testing.T) {
	// The redis client is already open at this point; the aborted
	// construction must release it.
	var cfg config.Config
	cfg.Redis.URL = "redis://127.0.0.1:6379/0"
	cfg.Database.Path = t.TempDir() // a directory cannot be a database file

	_, err := New(&cfg, zerolog.Nop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "subscriber directory")
}
