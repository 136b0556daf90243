package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/feral-file/ff-pool-snapshot/internal/domain"
)

const (
	PricingModeOnchain = "onchain"
	PricingModeHTTP    = "http"
)

// BaseConfig holds base configuration
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           int      `mapstructure:"port"`
	ReadTimeout    int      `mapstructure:"read_timeout"`  // in seconds
	WriteTimeout   int      `mapstructure:"write_timeout"` // in seconds
	IdleTimeout    int      `mapstructure:"idle_timeout"`  // in seconds
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EthereumConfig holds chain node configuration
type EthereumConfig struct {
	RPCURL               string        `mapstructure:"rpc_url"`
	ChainID              domain.Chain  `mapstructure:"chain_id"`
	AverageBlockTime     time.Duration `mapstructure:"average_block_time"`
	BlockHeadTTL         time.Duration `mapstructure:"block_head_ttl"`
	BlockHeadStaleWindow time.Duration `mapstructure:"block_head_stale_window"`
	BlockTimestampTTL    time.Duration `mapstructure:"block_timestamp_ttl"`
	RequestsPerSecond    float64       `mapstructure:"requests_per_second"`
	RequestBurst         int           `mapstructure:"request_burst"`
}

// SwapCacheConfig holds swap event cache configuration
type SwapCacheConfig struct {
	TTL            time.Duration `mapstructure:"ttl"`
	ChunkSize      uint64        `mapstructure:"chunk_size"`
	ChunkPause     time.Duration `mapstructure:"chunk_pause"`
	FallbackWindow uint64        `mapstructure:"fallback_window"`
}

// HistoryConfig holds market-cap history configuration
type HistoryConfig struct {
	Retention time.Duration `mapstructure:"retention"`
	MaxDiff   time.Duration `mapstructure:"max_diff"`
}

// RouteConfig is a swap route from a token to the stablecoin
type RouteConfig struct {
	Tokens      []string `mapstructure:"tokens"`
	Fees        []uint32 `mapstructure:"fees"`
	DecimalsIn  uint8    `mapstructure:"decimals_in"`
	DecimalsOut uint8    `mapstructure:"decimals_out"`
}

// PricingConfig holds price quoting configuration
type PricingConfig struct {
	Mode          string                 `mapstructure:"mode"` // onchain or http
	QuoterAddress string                 `mapstructure:"quoter_address"`
	HTTPURL       string                 `mapstructure:"http_url"`
	HTTPTimeout   time.Duration          `mapstructure:"http_timeout"`
	HTTPRetry     time.Duration          `mapstructure:"http_retry"` // total retry budget
	Routes        map[string]RouteConfig `mapstructure:"routes"`
}

// SnapshotConfig holds snapshot assembly configuration
type SnapshotConfig struct {
	NominalSupply  int64         `mapstructure:"nominal_supply"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	WorkerPoolSize int           `mapstructure:"worker_pool_size"`
}

// APIConfig holds configuration for API server
type APIConfig struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig    `mapstructure:"server"`
	Ethereum   EthereumConfig  `mapstructure:"ethereum"`
	SwapCache  SwapCacheConfig `mapstructure:"swap_cache"`
	History    HistoryConfig   `mapstructure:"history"`
	Pricing    PricingConfig   `mapstructure:"pricing"`
	Snapshot   SnapshotConfig  `mapstructure:"snapshot"`
}

// Validate checks the settings the service cannot start without
func (c *APIConfig) Validate() error {
	if c.Ethereum.RPCURL == "" {
		return errors.New("ethereum.rpc_url is required")
	}
	if !domain.IsValidChain(c.Ethereum.ChainID) {
		return fmt.Errorf("unsupported ethereum.chain_id %q", c.Ethereum.ChainID)
	}

	switch c.Pricing.Mode {
	case PricingModeOnchain:
		if c.Pricing.QuoterAddress == "" {
			return errors.New("pricing.quoter_address is required in onchain mode")
		}
	case PricingModeHTTP:
		if c.Pricing.HTTPURL == "" {
			return errors.New("pricing.http_url is required in http mode")
		}
	default:
		return fmt.Errorf("unknown pricing.mode %q", c.Pricing.Mode)
	}

	for symbol, route := range c.Pricing.Routes {
		if len(route.Tokens) < 2 || len(route.Fees) != len(route.Tokens)-1 {
			return fmt.Errorf("invalid route for %s", symbol)
		}
	}

	return nil
}

// LoadAPIConfig loads configuration for API server
func LoadAPIConfig(configFile string, envPath string) (*APIConfig, error) {
	v := configureViper("api", configFile, envPath)

	// Set defaults
	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 10)
	v.SetDefault("server.write_timeout", 40)
	v.SetDefault("server.idle_timeout", 120)
	v.SetDefault("ethereum.chain_id", string(domain.ChainBaseMainnet))
	v.SetDefault("ethereum.average_block_time", "2s")
	v.SetDefault("ethereum.block_head_ttl", "2s")
	v.SetDefault("ethereum.block_head_stale_window", "1m")
	v.SetDefault("ethereum.block_timestamp_ttl", "6h")
	v.SetDefault("ethereum.requests_per_second", 25)
	v.SetDefault("ethereum.request_burst", 10)
	v.SetDefault("swap_cache.ttl", "5m")
	v.SetDefault("swap_cache.chunk_size", 1000)
	v.SetDefault("swap_cache.chunk_pause", "100ms")
	v.SetDefault("swap_cache.fallback_window", 500)
	v.SetDefault("history.retention", "24h")
	v.SetDefault("history.max_diff", "5m")
	v.SetDefault("pricing.mode", PricingModeOnchain)
	v.SetDefault("pricing.quoter_address", "0x3d4e44Eb1374240CE5F1B871ab261CD16335B76a")
	v.SetDefault("pricing.http_timeout", "10s")
	v.SetDefault("pricing.http_retry", "15s")
	v.SetDefault("snapshot.nominal_supply", 1_000_000_000)
	v.SetDefault("snapshot.request_timeout", "30s")
	v.SetDefault("snapshot.worker_pool_size", 16)

	if err := v.ReadInConfig(); err != nil {
		var error viper.ConfigFileNotFoundError
		if errors.As(err, &error) {
			// Config file not found, use environment variables
		} else {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config APIConfig
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}

// configureViper returns a viper instance with the config file and environment variables set
func configureViper(service string, configFile string, envPath string) *viper.Viper {
	v := viper.New()

	// Load environment variables
	loadEnv(envPath, service)

	// Set config file
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		// Search for config.yaml in multiple locations:
		// 1. Current directory
		v.AddConfigPath(".")
		// 2. Service-specific directory (e.g., cmd/api/)
		v.AddConfigPath(fmt.Sprintf("cmd/%s/", service))
		// 3. Config directory
		v.AddConfigPath("config/")
	}

	// Set environment variables
	v.SetEnvPrefix("FF_SNAPSHOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Explicitly bind all environment variables
	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars explicitly binds all possible environment variables
// This is required for viper to map env vars to config struct fields when no config file exists
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		// Server
		"server.host",
		"server.port",
		"server.read_timeout",
		"server.write_timeout",
		"server.idle_timeout",
		"server.allowed_origins",
		// Ethereum
		"ethereum.rpc_url",
		"ethereum.chain_id",
		"ethereum.average_block_time",
		"ethereum.block_head_ttl",
		"ethereum.block_head_stale_window",
		"ethereum.block_timestamp_ttl",
		"ethereum.requests_per_second",
		"ethereum.request_burst",
		// Swap cache
		"swap_cache.ttl",
		"swap_cache.chunk_size",
		"swap_cache.chunk_pause",
		"swap_cache.fallback_window",
		// History
		"history.retention",
		"history.max_diff",
		// Pricing
		"pricing.mode",
		"pricing.quoter_address",
		"pricing.http_url",
		"pricing.http_timeout",
		"pricing.http_retry",
		// Snapshot
		"snapshot.nominal_supply",
		"snapshot.request_timeout",
		"snapshot.worker_pool_size",
	}

	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads environment variables from the config directory
func loadEnv(envPath string, service string) {
	// Always try shared base first, then local, then optional per-service local.
	envFiles := []string{".env", ".env.local"}
	if service != "" {
		envFiles = append(envFiles, ".env."+service+".local")
	}

	// Default to config directory
	if envPath == "" {
		envPath = "config/"
	}

	for _, envFile := range envFiles {
		candidate := filepath.Join(envPath, envFile)
		_ = godotenv.Overload(candidate) // Overload lets later files override earlier ones
	}
}

// ChdirRepoRoot changes the current working directory to the repository root
func ChdirRepoRoot() {
	cwd, _ := os.Getwd()
	for range 5 {
		if _, err := os.Stat(filepath.Join(cwd, "config")); err == nil {
			_ = os.Chdir(cwd)
			return
		}
		cwd = filepath.Dir(cwd)
	}
}
