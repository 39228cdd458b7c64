package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func chTempDir(t *testing.T) {
	t.Helper()
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })
}

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	chTempDir(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Store.Driver)
	assert.Equal(t, "leadgen.db", cfg.Store.Path)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 8, cfg.Pipeline.Concurrency)

	assert.Equal(t, 100, cfg.Serper.RequestsPerMin)
	assert.Equal(t, 60, cfg.Serper.CacheTTLMinutes)
	assert.Equal(t, 60, cfg.FDIC.RequestsPerMin)
	assert.Equal(t, 24, cfg.FDIC.CacheTTLHours)
	assert.Equal(t, 30, cfg.SAMGov.RequestsPerMin)
	assert.Equal(t, 1, cfg.SAMGov.CacheTTLHours)
	assert.Equal(t, 50, cfg.Hunter.RequestsPerMin)
	assert.Equal(t, 60, cfg.Clearbit.RequestsPerMin)

	assert.True(t, cfg.Discovery.EnableBanking)
	assert.True(t, cfg.Discovery.EnableInsurance)
	assert.True(t, cfg.Discovery.EnableEnergy)
	assert.True(t, cfg.Discovery.EnableGovernment)
	assert.Equal(t, 50, cfg.Discovery.MaxResultsPerProducer)
	assert.Equal(t, int64(1_000_000_000), cfg.Discovery.BankAssetMinimum)

	assert.Equal(t, 100, cfg.Validation.MinEmployeeCount)
	assert.InDelta(t, 60, cfg.Validation.ReviewScore, 0.001)
	assert.Equal(t, "https://login.salesforce.com", cfg.Salesforce.LoginURL)
}

func TestLoadFromYAML(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: postgres
  database_url: postgres://localhost/leads
log:
  level: debug
  format: console
server:
  port: 9090
discovery:
  enable_energy: false
  max_results_per_producer: 10
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "postgres://localhost/leads", cfg.Store.DatabaseURL)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.False(t, cfg.Discovery.EnableEnergy)
	assert.Equal(t, 10, cfg.Discovery.MaxResultsPerProducer)
	// Defaults still apply for unset values
	assert.True(t, cfg.Discovery.EnableBanking)
	assert.Equal(t, 100, cfg.Serper.RequestsPerMin)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	chTempDir(t)

	yaml := `
store:
  driver: sqlite
log:
  level: debug
`
	dir, _ := os.Getwd()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("LEADGEN_STORE_DRIVER", "postgres")
	t.Setenv("LEADGEN_LOG_LEVEL", "warn")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "postgres", cfg.Store.Driver)
	assert.Equal(t, "warn", cfg.Log.Level)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	chTempDir(t)

	t.Setenv("LEADGEN_SERVER_PORT", "3000")
	t.Setenv("LEADGEN_SERPER_KEY", "test-key")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "test-key", cfg.Serper.Key)
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}

// validDefaults returns a Config with all defaults populated for validation tests.
func validDefaults() *Config {
	cfg := &Config{}
	cfg.Store.Driver = "sqlite"
	cfg.Store.Path = "leadgen.db"
	cfg.Pipeline.Concurrency = 8
	cfg.Validation.ReviewScore = 60
	cfg.Server.Port = 8080
	return cfg
}

func TestValidateRun(t *testing.T) {
	assert.NoError(t, validDefaults().Validate("run"))
}

func TestValidateStoreDriver(t *testing.T) {
	cfg := validDefaults()
	cfg.Store.Driver = "postgres"

	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.database_url is required")

	cfg.Store.DatabaseURL = "postgres://localhost/leads"
	assert.NoError(t, cfg.Validate("run"))

	cfg.Store.Driver = "mysql"
	err = cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "store.driver must be sqlite or postgres")
}

func TestValidateServePort(t *testing.T) {
	cfg := validDefaults()
	cfg.Server.Port = 0

	// Port only matters in serve mode.
	assert.NoError(t, cfg.Validate("run"))

	err := cfg.Validate("serve")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "server.port must be > 0")
}

func TestValidateConcurrencyBounds(t *testing.T) {
	cfg := validDefaults()

	cfg.Pipeline.Concurrency = 0
	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline.concurrency must be between 1 and 64")

	cfg.Pipeline.Concurrency = 65
	err = cfg.Validate("run")
	assert.Error(t, err)

	cfg.Pipeline.Concurrency = 64
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateSalesforceRequiresFullCredentials(t *testing.T) {
	cfg := validDefaults()
	cfg.Salesforce.ClientID = "client-id"

	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "salesforce requires client_id, username, and key_path together")

	cfg.Salesforce.Username = "user@example.com"
	cfg.Salesforce.KeyPath = "/etc/sf.key"
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateNotionRequiresReviewDB(t *testing.T) {
	cfg := validDefaults()
	cfg.Notion.Token = "ntn_token"

	err := cfg.Validate("run")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "notion.review_db is required")

	cfg.Notion.ReviewDB = "db-id"
	assert.NoError(t, cfg.Validate("run"))
}

func TestValidateUnknownMode(t *testing.T) {
	err := validDefaults().Validate("unknown")
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
}
