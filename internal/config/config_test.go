package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.Equal(t, "./data/wattadvisor.db", cfg.DatabasePath)
	assert.Equal(t, "./configs/plans.yaml", cfg.PlanSeedPath)
	assert.Equal(t, "", cfg.ExplainerServiceURL)
	assert.Equal(t, 900.0, cfg.RegionalAvgKWh)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.False(t, cfg.DevMode)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("DEV_MODE", "true")
	t.Setenv("REGIONAL_AVG_KWH", "1200.5")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9000, cfg.Port)
	assert.True(t, cfg.DevMode)
	assert.Equal(t, 1200.5, cfg.RegionalAvgKWh)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_MalformedValuesFallBack(t *testing.T) {
	t.Setenv("PORT", "not-a-number")
	t.Setenv("DEV_MODE", "maybe")
	t.Setenv("REGIONAL_AVG_KWH", "lots")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8001, cfg.Port)
	assert.False(t, cfg.DevMode)
	assert.Equal(t, 900.0, cfg.RegionalAvgKWh)
}

func TestValidate(t *testing.T) {
	cfg := &Config{DatabasePath: "./data/test.db", RegionalAvgKWh: 900}
	assert.NoError(t, cfg.Validate())

	cfg.DatabasePath = ""
	assert.Error(t, cfg.Validate())

	cfg.DatabasePath = "./data/test.db"
	cfg.RegionalAvgKWh = -1
	assert.Error(t, cfg.Validate())
}
