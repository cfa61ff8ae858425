package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoundTrip(t *testing.T) {
	cfg := Default("Test Biz")
	cfg.Storage.Backend = "postgres"
	cfg.Storage.DSN = "postgres://localhost/ledger?sslmode=disable"
	cfg.Tax.InterState = true

	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Save(path, cfg))

	got, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, cfg.Business.Name, got.Business.Name)
	assert.Equal(t, cfg.Business.EntityType, got.Business.EntityType)
	assert.Equal(t, "postgres", got.Storage.Backend)
	assert.Equal(t, cfg.Storage.DSN, got.Storage.DSN)
	assert.True(t, got.Tax.InterState)
}

func TestDefaults(t *testing.T) {
	cfg := Default("My Company")

	assert.Equal(t, "My Company", cfg.Business.Name)
	assert.Equal(t, "small_business", cfg.Business.EntityType)
	assert.Equal(t, "sqlite", cfg.Storage.Backend)
	assert.Equal(t, "ledger.db", cfg.Storage.Path)
	assert.False(t, cfg.Tax.InterState)
}

func TestLoadNotFound(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nonexistent.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestYAMLFormat(t *testing.T) {
	cfg := Default("Test Biz")
	path := filepath.Join(t.TempDir(), DefaultFileName)
	require.NoError(t, Save(path, cfg))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "business:")
	assert.Contains(t, string(data), "backend: sqlite")
}
