package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWorkbook = "testdata/DF_SDG_12_3_1.xlsx"

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("FLI_WORKBOOK_PATH", testWorkbook)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, testWorkbook, cfg.WorkbookPath)
	assert.Equal(t, "AG_FLS_INDEX", cfg.IndexSheet)
	assert.Equal(t, "AG_FLS_PCT", cfg.PctSheet)
	assert.Equal(t, "AREA", cfg.AreaColumn)
	assert.Equal(t, "TIME_PERIOD", cfg.PeriodColumn)
	assert.Equal(t, "OBS_VALUE", cfg.ValueColumn)
	assert.Equal(t, 0.8, cfg.SimilarityThreshold)
	assert.Equal(t, 5, cfg.ForecastHorizon)
	assert.Equal(t, 1000, cfg.ResolverCacheSize)
	assert.Equal(t, time.Duration(0), cfg.RefreshInterval)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, 10*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_CustomEnv(t *testing.T) {
	t.Setenv("FLI_WORKBOOK_PATH", "data/custom.xlsx")
	t.Setenv("FLI_INDEX_SHEET", "INDEX")
	t.Setenv("FLI_PCT_SHEET", "PCT")
	t.Setenv("FLI_AREA_COLUMN", "Country")
	t.Setenv("FLI_PERIOD_COLUMN", "Year")
	t.Setenv("FLI_VALUE_COLUMN", "Value")
	t.Setenv("FLI_SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("FLI_FORECAST_HORIZON", "10")
	t.Setenv("FLI_RESOLVER_CACHE_SIZE", "250")
	t.Setenv("FLI_REFRESH_INTERVAL", "15m")
	t.Setenv("FLI_HTTP_ADDR", ":9090")
	t.Setenv("FLI_LOG_LEVEL", "debug")
	t.Setenv("FLI_LOG_FORMAT", "text")
	t.Setenv("FLI_SHUTDOWN_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "data/custom.xlsx", cfg.WorkbookPath)
	assert.Equal(t, "INDEX", cfg.IndexSheet)
	assert.Equal(t, "PCT", cfg.PctSheet)
	assert.Equal(t, "Country", cfg.AreaColumn)
	assert.Equal(t, "Year", cfg.PeriodColumn)
	assert.Equal(t, "Value", cfg.ValueColumn)
	assert.Equal(t, 0.9, cfg.SimilarityThreshold)
	assert.Equal(t, 10, cfg.ForecastHorizon)
	assert.Equal(t, 250, cfg.ResolverCacheSize)
	assert.Equal(t, 15*time.Minute, cfg.RefreshInterval)
	assert.Equal(t, ":9090", cfg.HTTPAddr)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, 30*time.Second, cfg.ShutdownTimeout)
}

func TestLoad_MissingWorkbook(t *testing.T) {
	// Set-but-empty satisfies envconfig's required tag, so validate() has
	// to reject the empty path itself.
	t.Setenv("FLI_WORKBOOK_PATH", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "FLI_WORKBOOK_PATH")
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"threshold zero", "FLI_SIMILARITY_THRESHOLD", "0"},
		{"threshold above one", "FLI_SIMILARITY_THRESHOLD", "1.5"},
		{"negative horizon", "FLI_FORECAST_HORIZON", "-1"},
		{"zero cache", "FLI_RESOLVER_CACHE_SIZE", "0"},
		{"negative refresh", "FLI_REFRESH_INTERVAL", "-5s"},
		{"zero shutdown timeout", "FLI_SHUTDOWN_TIMEOUT", "0s"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("FLI_WORKBOOK_PATH", testWorkbook)
			t.Setenv(tc.key, tc.value)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
