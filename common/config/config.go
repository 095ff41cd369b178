package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all service configuration
type Config struct {
	Service  ServiceConfig
	Database DatabaseConfig
	Store    StoreConfig
	Cache    CacheConfig
	Redis    RedisConfig
	Walrus   WalrusConfig
	Pricing  PricingConfig
}

// ServiceConfig holds service-specific settings
type ServiceConfig struct {
	Name        string
	Port        int
	Environment string
	LogLevel    string
	LogFormat   string
}

// DatabaseConfig holds Postgres connection settings
type DatabaseConfig struct {
	Host        string
	Port        int
	Database    string
	User        string
	Password    string
	MaxConns    int
	MinConns    int
	MaxIdleTime time.Duration
	MaxLifetime time.Duration
}

// StoreConfig selects the metadata store backend
type StoreConfig struct {
	Backend string // "postgres" or "memory"
}

// CacheConfig holds settings for the exchange-rate cache slot
type CacheConfig struct {
	Backend string // "memory" or "redis"
	RateTTL time.Duration
}

// RedisConfig holds Redis connection settings
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// WalrusConfig holds remote blob-store endpoints
type WalrusConfig struct {
	PublisherURL  string
	AggregatorURL string
	RelayURL      string
	FullnodeURL   string
	ExplorerURL   string
	RateURL       string
	DefaultEpochs int
	HTTPTimeout   time.Duration
}

// PricingConfig holds heuristic per-MB-per-epoch rates in USD
type PricingConfig struct {
	BasicPerMB    float64
	StandardPerMB float64
	ProPerMB      float64
}

// Load loads configuration from environment variables
func Load(serviceName string) (*Config, error) {
	cfg := &Config{
		Service: ServiceConfig{
			Name:        serviceName,
			Port:        getEnvInt("PORT", 8080),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
			LogFormat:   getEnv("LOG_FORMAT", "text"),
		},
		Database: DatabaseConfig{
			Host:        getEnv("POSTGRES_HOST", "localhost"),
			Port:        getEnvInt("POSTGRES_PORT", 5432),
			Database:    getEnv("POSTGRES_DB", "suiclouds"),
			User:        getEnv("POSTGRES_USER", "suiclouds"),
			Password:    getEnv("POSTGRES_PASSWORD", "suiclouds"),
			MaxConns:    getEnvInt("POSTGRES_MAX_CONNS", 20),
			MinConns:    getEnvInt("POSTGRES_MIN_CONNS", 4),
			MaxIdleTime: getEnvDuration("POSTGRES_MAX_IDLE_TIME", 30*time.Minute),
			MaxLifetime: getEnvDuration("POSTGRES_MAX_LIFETIME", 1*time.Hour),
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "postgres"),
		},
		Cache: CacheConfig{
			Backend: getEnv("CACHE_BACKEND", "memory"),
			RateTTL: getEnvDuration("RATE_CACHE_TTL", 60*time.Second),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnvInt("REDIS_PORT", 6379),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Walrus: WalrusConfig{
			PublisherURL:  getEnv("WALRUS_PUBLISHER_URL", "https://publisher.walrus-testnet.walrus.space"),
			AggregatorURL: getEnv("WALRUS_AGGREGATOR_URL", "https://aggregator.walrus-testnet.walrus.space"),
			RelayURL:      getEnv("WALRUS_RELAY_URL", "https://relay.wal.app"),
			FullnodeURL:   getEnv("SUI_FULLNODE_URL", "https://fullnode.testnet.sui.io"),
			ExplorerURL:   getEnv("WALRUS_EXPLORER_URL", "https://walruscan.com/testnet/home"),
			RateURL:       getEnv("SUI_RATE_URL", "https://api.coingecko.com/api/v3/simple/price?ids=sui&vs_currencies=usd"),
			DefaultEpochs: getEnvInt("WALRUS_DEFAULT_EPOCHS", 1),
			HTTPTimeout:   getEnvDuration("WALRUS_HTTP_TIMEOUT", 30*time.Second),
		},
		Pricing: PricingConfig{
			BasicPerMB:    getEnvFloat("PRICE_BASIC_PER_MB", 0.01),
			StandardPerMB: getEnvFloat("PRICE_STANDARD_PER_MB", 0.02),
			ProPerMB:      getEnvFloat("PRICE_PRO_PER_MB", 0.05),
		},
	}

	return cfg, cfg.Validate()
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.Service.Port < 1 || c.Service.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Service.Port)
	}

	switch c.Store.Backend {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unknown store backend: %s", c.Store.Backend)
	}

	switch c.Cache.Backend {
	case "memory", "redis":
	default:
		return fmt.Errorf("unknown cache backend: %s", c.Cache.Backend)
	}

	if c.Store.Backend == "postgres" && c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("max_conns must be >= min_conns")
	}

	if c.Walrus.DefaultEpochs < 1 {
		return fmt.Errorf("default epochs must be >= 1")
	}

	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Database,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.Redis.Host, c.Redis.Port)
}

// Helper functions

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(strings.TrimSpace(value), 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}
