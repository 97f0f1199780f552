package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATA_API_URL", "https://api.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "data", cfg.DataDir)
	assert.Equal(t, BackendAPI, cfg.Backend)
	assert.Equal(t, 10, cfg.BatchSize)
	assert.Equal(t, "language-enforcer", cfg.AuthClientID)
}

func TestLoad_PostgresBackend(t *testing.T) {
	t.Setenv("BACKEND", BackendPostgres)
	t.Setenv("DATABASE_URL", "postgres://localhost/enforcer")
	t.Setenv("SESSION_BATCH_SIZE", "25")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, BackendPostgres, cfg.Backend)
	assert.Equal(t, 25, cfg.BatchSize)
}

func TestLoad_MissingBackendConfig(t *testing.T) {
	t.Setenv("BACKEND", BackendPostgres)
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_InvalidBatchSize(t *testing.T) {
	t.Setenv("DATA_API_URL", "https://api.example.com")

	for _, v := range []string{"0", "-3", "ten"} {
		t.Setenv("SESSION_BATCH_SIZE", v)
		_, err := Load()
		assert.Error(t, err, v)
	}
}

func TestLoad_UnknownBackend(t *testing.T) {
	t.Setenv("BACKEND", "ftp")

	_, err := Load()
	assert.Error(t, err)
}
