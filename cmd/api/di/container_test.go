package di

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"user-directory-service/internal/config"
	redisclient "user-directory-service/pkg/redis"
)

func sqliteConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadConfig(t.TempDir())
	require.NoError(t, err)
	cfg.DB.Driver = "sqlite"
	cfg.DB.SQLitePath = filepath.Join(t.TempDir(), "users.db")
	cfg.Redis.Enabled = false
	return cfg
}

func TestNewContainer_SeedsSQLite(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.App.SeedOnStartup = true

	c, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	n, err := c.UserUC.CountUsers(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(10), n)
	assert.Nil(t, c.RedisClient)
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.DB.Driver = "mysql"

	_, err := NewContainer(context.Background(), cfg, zaptest.NewLogger(t))
	assert.ErrorContains(t, err, "config validation failed")
}

func TestContainer_AbortKeepsCloseError(t *testing.T) {
	mr := miniredis.RunT(t)
	log := zaptest.NewLogger(t)
	rdb, err := redisclient.NewClient(redisclient.Config{Host: mr.Host(), Port: mr.Port()}, log)
	require.NoError(t, err)
	require.NoError(t, rdb.Close())

	c := &Container{Logger: log, RedisClient: rdb}
	seedErr := errors.New("failed to seed users: disk full")

	err = c.abort(seedErr)

	require.ErrorIs(t, err, seedErr)
	assert.ErrorContains(t, err, "failed to close Redis")
}
