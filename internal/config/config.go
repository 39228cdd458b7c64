package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Store      StoreConfig      `yaml:"store" mapstructure:"store"`
	Serper     SerperConfig     `yaml:"serper" mapstructure:"serper"`
	FDIC       FDICConfig       `yaml:"fdic" mapstructure:"fdic"`
	SAMGov     SAMGovConfig     `yaml:"sam_gov" mapstructure:"sam_gov"`
	Hunter     HunterConfig     `yaml:"hunter" mapstructure:"hunter"`
	Clearbit   ClearbitConfig   `yaml:"clearbit" mapstructure:"clearbit"`
	Salesforce SalesforceConfig `yaml:"salesforce" mapstructure:"salesforce"`
	Notion     NotionConfig     `yaml:"notion" mapstructure:"notion"`
	Discovery  DiscoveryConfig  `yaml:"discovery" mapstructure:"discovery"`
	Validation ValidationConfig `yaml:"validation" mapstructure:"validation"`
	Pipeline   PipelineConfig   `yaml:"pipeline" mapstructure:"pipeline"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the database backend.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`     // sqlite file path
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// SerperConfig holds Serper.dev web search settings.
type SerperConfig struct {
	Key             string `yaml:"key" mapstructure:"key"`
	RequestsPerMin  int    `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	CacheTTLMinutes int    `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"`
}

// FDICConfig holds FDIC BankFind settings. The API needs no key.
type FDICConfig struct {
	RequestsPerMin int `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	CacheTTLHours  int `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// SAMGovConfig holds SAM.gov opportunity search settings.
type SAMGovConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	RequestsPerMin int    `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// HunterConfig holds Hunter.io contact discovery settings.
type HunterConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	RequestsPerMin int    `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// ClearbitConfig holds Clearbit enrichment settings.
type ClearbitConfig struct {
	Key            string `yaml:"key" mapstructure:"key"`
	RequestsPerMin int    `yaml:"requests_per_min" mapstructure:"requests_per_min"`
	CacheTTLHours  int    `yaml:"cache_ttl_hours" mapstructure:"cache_ttl_hours"`
}

// SalesforceConfig holds Salesforce JWT auth settings.
type SalesforceConfig struct {
	ClientID string `yaml:"client_id" mapstructure:"client_id"`
	Username string `yaml:"username" mapstructure:"username"`
	KeyPath  string `yaml:"key_path" mapstructure:"key_path"`
	LoginURL string `yaml:"login_url" mapstructure:"login_url"`
}

// NotionConfig holds Notion API credentials and the review database ID.
type NotionConfig struct {
	Token    string `yaml:"token" mapstructure:"token"`
	ReviewDB string `yaml:"review_db" mapstructure:"review_db"`
}

// DiscoveryConfig selects which industry producers run and how wide they go.
type DiscoveryConfig struct {
	EnableBanking    bool `yaml:"enable_banking" mapstructure:"enable_banking"`
	EnableInsurance  bool `yaml:"enable_insurance" mapstructure:"enable_insurance"`
	EnableEnergy     bool `yaml:"enable_energy" mapstructure:"enable_energy"`
	EnableGovernment bool `yaml:"enable_government" mapstructure:"enable_government"`

	MaxResultsPerProducer int `yaml:"max_results_per_producer" mapstructure:"max_results_per_producer"`

	// Banking-specific filters.
	BankAssetMinimum int64    `yaml:"bank_asset_minimum" mapstructure:"bank_asset_minimum"`
	BankStates       []string `yaml:"bank_states" mapstructure:"bank_states"`
}

// ValidationConfig configures lead qualification.
type ValidationConfig struct {
	MinEmployeeCount int     `yaml:"min_employee_count" mapstructure:"min_employee_count"`
	ReviewScore      float64 `yaml:"review_score" mapstructure:"review_score"`
}

// PipelineConfig configures pipeline execution.
type PipelineConfig struct {
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("LEADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "leadgen.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("pipeline.concurrency", 8)

	v.SetDefault("serper.requests_per_min", 100)
	v.SetDefault("serper.cache_ttl_minutes", 60)
	v.SetDefault("fdic.requests_per_min", 60)
	v.SetDefault("fdic.cache_ttl_hours", 24)
	v.SetDefault("sam_gov.requests_per_min", 30)
	v.SetDefault("sam_gov.cache_ttl_hours", 1)
	v.SetDefault("hunter.requests_per_min", 50)
	v.SetDefault("hunter.cache_ttl_hours", 24)
	v.SetDefault("clearbit.requests_per_min", 60)
	v.SetDefault("clearbit.cache_ttl_hours", 24)

	v.SetDefault("discovery.enable_banking", true)
	v.SetDefault("discovery.enable_insurance", true)
	v.SetDefault("discovery.enable_energy", true)
	v.SetDefault("discovery.enable_government", true)
	v.SetDefault("discovery.max_results_per_producer", 50)
	v.SetDefault("discovery.bank_asset_minimum", int64(1_000_000_000))

	v.SetDefault("validation.min_employee_count", 100)
	v.SetDefault("validation.review_score", 60)

	v.SetDefault("salesforce.login_url", "https://login.salesforce.com")
}

// Validate checks the configuration for a given command mode ("run" or
// "serve"). Missing API keys are not errors: sources without credentials
// degrade to empty results at runtime.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch c.Store.Driver {
	case "sqlite":
		if c.Store.Path == "" {
			problems = append(problems, "store.path is required for the sqlite driver")
		}
	case "postgres":
		if c.Store.DatabaseURL == "" {
			problems = append(problems, "store.database_url is required for the postgres driver")
		}
	default:
		problems = append(problems, "store.driver must be sqlite or postgres")
	}

	if c.Pipeline.Concurrency < 1 || c.Pipeline.Concurrency > 64 {
		problems = append(problems, "pipeline.concurrency must be between 1 and 64")
	}
	if c.Validation.ReviewScore < 0 || c.Validation.ReviewScore > 100 {
		problems = append(problems, "validation.review_score must be between 0 and 100")
	}

	// Salesforce JWT auth needs all three of client id, username, and key.
	sf := c.Salesforce
	if (sf.ClientID != "" || sf.Username != "" || sf.KeyPath != "") &&
		(sf.ClientID == "" || sf.Username == "" || sf.KeyPath == "") {
		problems = append(problems, "salesforce requires client_id, username, and key_path together")
	}
	if c.Notion.Token != "" && c.Notion.ReviewDB == "" {
		problems = append(problems, "notion.review_db is required when notion.token is set")
	}

	switch mode {
	case "run":
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.New("config: " + strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
