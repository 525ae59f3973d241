package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	// Check defaults
	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "PCD_OA_LSOA_MSOA_LAD_AUG21_UK_LU.csv", cfg.Inputs.PostcodesPath)
	assert.Equal(t, "IMD_2019.csv", cfg.Inputs.DeprivationPath)
	assert.Equal(t, "pp-2024.csv", cfg.Inputs.SalesPath)
	assert.Equal(t, []string{"classified_property_dataset.csv"}, cfg.Outputs.Targets)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, 168*time.Hour, cfg.Redis.CacheTTL)
	assert.Equal(t, filepath.Join(os.TempDir(), "proptier"), cfg.Inputs.CacheDir)
	assert.Equal(t, 3, cfg.HTTP.MaxRetries)
	assert.Equal(t, 1.0, cfg.HTTP.RequestsPerSecond)
}

func TestLoadWithCustomValues(t *testing.T) {
	t.Setenv("ENV", "production")
	t.Setenv("PROPTIER_SALES", "/data/pp-2023.csv")
	t.Setenv("PROPTIER_OUTPUT", "out.csv, out.xlsx ,,postgres://u:p@localhost/db")
	t.Setenv("DB_MAX_CONNS", "8")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("REDIS_ENABLED", "true")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "/data/pp-2023.csv", cfg.Inputs.SalesPath)
	assert.Equal(t, []string{"out.csv", "out.xlsx", "postgres://u:p@localhost/db"}, cfg.Outputs.Targets)
	assert.Equal(t, 8, cfg.Database.MaxConns)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr())
}

func TestValidateInvalidEnv(t *testing.T) {
	t.Setenv("ENV", "invalid")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateInvalidLogFormat(t *testing.T) {
	t.Setenv("LOG_FORMAT", "xml")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateRateLimit(t *testing.T) {
	t.Setenv("HTTP_RATE_LIMIT", "0")

	_, err := Load()
	assert.Error(t, err)
}

func TestValidateMapPairing(t *testing.T) {
	t.Setenv("PROPTIER_SHAPES", "LSOA_2011_EW_BGC_V3.shp")

	_, err := Load()
	assert.Error(t, err, "shapes without map output must fail")
}

func TestValidateInputs(t *testing.T) {
	cfg := &Config{Inputs: InputConfig{PostcodesPath: "a.csv"}}

	err := cfg.ValidateInputs()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "deprivation, sales")

	cfg.Inputs.DeprivationPath = "b.csv"
	cfg.Inputs.SalesPath = "c.csv"
	assert.NoError(t, cfg.ValidateInputs())
}

func TestGetEnvAsDuration(t *testing.T) {
	t.Setenv("TEST_DURATION", "2h")
	assert.Equal(t, 2*time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))

	t.Setenv("TEST_DURATION", "bogus")
	assert.Equal(t, time.Hour, getEnvAsDuration("TEST_DURATION", "1h"))
}

func TestGetEnvAsInt(t *testing.T) {
	t.Setenv("TEST_INT", "100")
	assert.Equal(t, 100, getEnvAsInt("TEST_INT", 50))

	os.Unsetenv("TEST_INT_MISSING")
	assert.Equal(t, 50, getEnvAsInt("TEST_INT_MISSING", 50))
}

func TestGetEnvAsFloat(t *testing.T) {
	t.Setenv("TEST_FLOAT", "0.5")
	assert.Equal(t, 0.5, getEnvAsFloat("TEST_FLOAT", 2))

	t.Setenv("TEST_FLOAT", "fast")
	assert.Equal(t, 2.0, getEnvAsFloat("TEST_FLOAT", 2))
}

func TestGetEnvAsBool(t *testing.T) {
	t.Setenv("TEST_BOOL", "true")
	assert.True(t, getEnvAsBool("TEST_BOOL", false))

	t.Setenv("TEST_BOOL", "maybe")
	assert.False(t, getEnvAsBool("TEST_BOOL", false))
}
