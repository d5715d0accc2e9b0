package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	t.Setenv("DB_URL", "postgres://localhost/fineart")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "krw", cfg.StoreCurrency)
	assert.Equal(t, 300*time.Millisecond, cfg.SearchDebounce)
	assert.Equal(t, 5*time.Minute, cfg.CatalogCacheTTL)
	assert.True(t, cfg.IsDevelopment())
	assert.False(t, cfg.GoogleEnabled())
}

func TestLoadEnv_MissingRequired(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("JWT_SECRET", "secret")

	_, err := LoadEnv()
	assert.Error(t, err)
}

func TestLoadSeed(t *testing.T) {
	t.Setenv("FINEART_PUBLIC_URL", "http://localhost:8080")
	t.Setenv("FINEART_SERVICE_KEY", "service")

	cfg, err := LoadSeed()
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, "service", cfg.ServiceKey)
}

func TestLoadSeed_RequiresBoth(t *testing.T) {
	t.Setenv("FINEART_PUBLIC_URL", "http://localhost:8080")
	t.Setenv("FINEART_SERVICE_KEY", "")

	_, err := LoadSeed()
	assert.Error(t, err)
}
