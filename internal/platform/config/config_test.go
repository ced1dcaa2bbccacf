package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("PGSQL_URL", "postgres://localhost/stitch")
	t.Setenv("JWT_SECRET", "secret")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 24*time.Hour, cfg.LedgerFutureGrace)
	assert.Equal(t, time.Minute, cfg.MappingCacheTTL)
	assert.Equal(t, 90*24*time.Hour, cfg.AccountDeactivationWindow)
	assert.Equal(t, "StitchAdmin", cfg.DATEVOrigin)
	assert.Equal(t, "file://migrations", cfg.MigrationsPath)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("MAPPING_CACHE_TTL", "5s")
	t.Setenv("LEDGER_FUTURE_GRACE", "not-a-duration")
	t.Setenv("DATEV_ORIGIN", "Stickerei Muster")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.MappingCacheTTL)
	assert.Equal(t, 24*time.Hour, cfg.LedgerFutureGrace)
	assert.Equal(t, "Stickerei Muster", cfg.DATEVOrigin)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
}
