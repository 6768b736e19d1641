// Package config provides configuration loading and validation.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Aggregator AggregatorConfig `mapstructure:"aggregator"`
	Catalog    CatalogConfig    `mapstructure:"catalog"`
	PriceFeed  PriceFeedConfig  `mapstructure:"pricefeed"`
	Wallet     WalletConfig     `mapstructure:"wallet"`
	Engine     EngineConfig     `mapstructure:"engine"`
	Telemetry  TelemetryConfig  `mapstructure:"telemetry"`
}

// AppConfig holds general application settings.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

// AggregatorConfig holds routing-aggregator API configuration.
type AggregatorConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	Slippage          float64       `mapstructure:"slippage"`
}

// CatalogConfig holds token-list API configuration.
type CatalogConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	RequestTimeout    time.Duration `mapstructure:"request_timeout"`
	RequestsPerMinute int           `mapstructure:"requests_per_minute"`
	MaxResults        int           `mapstructure:"max_results"`
}

// PriceFeedConfig holds market-data stream configuration.
type PriceFeedConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	WebSocketURL   string        `mapstructure:"websocket_url"`
	InitialBackoff time.Duration `mapstructure:"initial_backoff"`
	MaxBackoff     time.Duration `mapstructure:"max_backoff"`
	StaleTimeout   time.Duration `mapstructure:"stale_timeout"`
}

// WalletConfig holds the user's chain-family addresses and the EVM
// signing configuration for route submission.
type WalletConfig struct {
	EVMAddress    string            `mapstructure:"evm_address"`
	SolanaAddress string            `mapstructure:"solana_address"`
	EVMPrivateKey string            `mapstructure:"evm_private_key"`
	RPCURLs       map[string]string `mapstructure:"rpc_urls"` // chain name -> RPC endpoint
}

// EngineConfig holds swap-session tuning.
type EngineConfig struct {
	DebounceInterval time.Duration `mapstructure:"debounce_interval"`
	QuoteTimeout     time.Duration `mapstructure:"quote_timeout"`
}

// TelemetryConfig holds observability configuration.
type TelemetryConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	OTLPEndpoint   string `mapstructure:"otlp_endpoint"`
	PrometheusPort int    `mapstructure:"prometheus_port"`
}

// Load loads configuration from file and environment variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
	}

	v.SetEnvPrefix("SWAP")
	v.AutomaticEnv()

	bindEnvVars(v)
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found is OK, use env vars
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

func bindEnvVars(v *viper.Viper) {
	// App
	v.BindEnv("app.name", "SWAP_APP_NAME", "SERVICE_NAME")
	v.BindEnv("app.environment", "SWAP_ENVIRONMENT", "ENVIRONMENT")
	v.BindEnv("app.log_level", "SWAP_LOG_LEVEL", "LOG_LEVEL")

	// Aggregator
	v.BindEnv("aggregator.base_url", "SWAP_AGGREGATOR_URL", "AGGREGATOR_URL")
	v.BindEnv("aggregator.api_key", "SWAP_AGGREGATOR_API_KEY", "AGGREGATOR_API_KEY")

	// Catalog
	v.BindEnv("catalog.base_url", "SWAP_CATALOG_URL", "CATALOG_URL")

	// Price feed
	v.BindEnv("pricefeed.websocket_url", "SWAP_PRICEFEED_WS_URL", "PRICEFEED_WS_URL")

	// Wallet
	v.BindEnv("wallet.evm_address", "SWAP_EVM_ADDRESS", "EVM_ADDRESS")
	v.BindEnv("wallet.solana_address", "SWAP_SOLANA_ADDRESS", "SOLANA_ADDRESS")
	v.BindEnv("wallet.evm_private_key", "SWAP_EVM_PRIVATE_KEY", "EVM_PRIVATE_KEY")

	// Telemetry
	v.BindEnv("telemetry.enabled", "SWAP_OTEL_ENABLED", "OTEL_ENABLED")
	v.BindEnv("telemetry.service_name", "SWAP_OTEL_SERVICE_NAME", "OTEL_SERVICE_NAME")
	v.BindEnv("telemetry.otlp_endpoint", "SWAP_OTEL_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT")
}

func setDefaults(v *viper.Viper) {
	// App defaults
	v.SetDefault("app.name", "swap-engine")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	// Aggregator defaults (LI.FI public API)
	v.SetDefault("aggregator.base_url", "https://li.quest")
	v.SetDefault("aggregator.request_timeout", "12s")
	v.SetDefault("aggregator.requests_per_minute", 60)
	v.SetDefault("aggregator.slippage", 0.005)

	// Catalog defaults
	v.SetDefault("catalog.base_url", "https://li.quest")
	v.SetDefault("catalog.request_timeout", "10s")
	v.SetDefault("catalog.requests_per_minute", 120)
	v.SetDefault("catalog.max_results", 20)

	// Price feed defaults
	v.SetDefault("pricefeed.enabled", false)
	v.SetDefault("pricefeed.initial_backoff", "1s")
	v.SetDefault("pricefeed.max_backoff", "30s")
	v.SetDefault("pricefeed.stale_timeout", "30s")

	// Engine defaults
	v.SetDefault("engine.debounce_interval", "300ms")
	v.SetDefault("engine.quote_timeout", "12s")

	// Telemetry defaults
	v.SetDefault("telemetry.enabled", false)
	v.SetDefault("telemetry.service_name", "swap-engine")
	v.SetDefault("telemetry.prometheus_port", 9090)
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Aggregator.BaseURL == "" {
		return fmt.Errorf("aggregator.base_url is required")
	}
	if c.Catalog.BaseURL == "" {
		return fmt.Errorf("catalog.base_url is required")
	}
	if c.Engine.DebounceInterval <= 0 {
		return fmt.Errorf("engine.debounce_interval must be positive")
	}
	if c.Engine.QuoteTimeout <= 0 {
		return fmt.Errorf("engine.quote_timeout must be positive")
	}
	if c.PriceFeed.Enabled && c.PriceFeed.WebSocketURL == "" {
		return fmt.Errorf("pricefeed.websocket_url is required when the feed is enabled")
	}
	return nil
}
