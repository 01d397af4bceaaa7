package backend

import (
	"context"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jotter/internal/platform/config"
	"jotter/internal/storage"
)

func TestOpenMemory(t *testing.T) {
	cfg := config.Server{Storage: config.StorageConfig{Backend: config.StorageMemory}}
	b, err := Open(context.Background(), cfg, prometheus.NewRegistry(), slog.Default())
	require.NoError(t, err)
	assert.Equal(t, storage.KindMemory, b.Kind)
	assert.NoError(t, b.Health(context.Background()))
	assert.NoError(t, b.Close())
}

func TestOpenSQLite(t *testing.T) {
	cfg := config.Server{Storage: config.StorageConfig{
		Backend:    config.StorageSQLite,
		SQLitePath: filepath.Join(t.TempDir(), "b.db"),
	}}
	b, err := Open(context.Background(), cfg, prometheus.NewRegistry(), slog.Default())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, storage.KindSQLite, b.Kind)
	assert.NoError(t, b.Health(context.Background()))
}

func TestOpenUnknown(t *testing.T) {
	cfg := config.Server{Storage: config.StorageConfig{Backend: "tape"}}
	_, err := Open(context.Background(), cfg, prometheus.NewRegistry(), slog.Default())
	assert.Error(t, err)
}
