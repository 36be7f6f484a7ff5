package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"

	"pepuhub/pkg/errors"
)

type Config struct {
	App           AppConfig
	HTTP          HTTPConfig
	Postgres      PostgresConfig
	Redis         RedisConfig
	AI            AIConfig
	MarketData    MarketDataConfig
	Assistant     AssistantConfig
	Admin         AdminConfig
	ErrorTracking ErrorTrackingConfig
}

type AppConfig struct {
	Name     string `envconfig:"APP_NAME" default:"pepuhub"`
	Env      string `envconfig:"APP_ENV" default:"development"`
	Version  string `envconfig:"APP_VERSION" default:"dev"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

type HTTPConfig struct {
	Port int `envconfig:"HTTP_PORT" default:"8080"`
}

type PostgresConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" required:"true"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" required:"true"`
	Password string `envconfig:"POSTGRES_PASSWORD" required:"true"`
	Database string `envconfig:"POSTGRES_DB" required:"true"`
	SSLMode  string `envconfig:"POSTGRES_SSL_MODE" default:"disable"`
	MaxConns int    `envconfig:"POSTGRES_MAX_CONNS" default:"25"`
}

func (c PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

type RedisConfig struct {
	Enabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD"`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type AIConfig struct {
	OpenAIKey    string        `envconfig:"OPENAI_API_KEY"`
	Model        string        `envconfig:"OPENAI_MODEL" default:"gpt-4o-mini"`
	MaxTokens    int           `envconfig:"OPENAI_MAX_TOKENS" default:"1024"`
	Temperature  float64       `envconfig:"OPENAI_TEMPERATURE" default:"0.7"`
	Timeout      time.Duration `envconfig:"OPENAI_TIMEOUT" default:"30s"`
	ReqPerMinute float64       `envconfig:"OPENAI_REQ_PER_MINUTE" default:"60"`
}

type MarketDataConfig struct {
	BaseURL      string        `envconfig:"MARKET_DATA_BASE_URL" default:"https://api.geckoterminal.com/api/v2"`
	Network      string        `envconfig:"MARKET_DATA_NETWORK" default:"pepe-unchained"`
	Timeout      time.Duration `envconfig:"MARKET_DATA_TIMEOUT" default:"8s"`
	ReqPerMinute float64       `envconfig:"MARKET_DATA_REQ_PER_MINUTE" default:"30"`
}

type AssistantConfig struct {
	KnownTokensFile string        `envconfig:"KNOWN_TOKENS_FILE" default:"configs/known_tokens.json"`
	KnownTokensTTL  time.Duration `envconfig:"KNOWN_TOKENS_TTL" default:"5m"`
	PoolScanLimit   int           `envconfig:"POOL_SCAN_LIMIT" default:"200"`
}

type AdminConfig struct {
	// Comma-separated wallet addresses allowed to use the admin API
	AllowedWallets []string `envconfig:"ADMIN_ALLOWED_WALLETS"`
}

// Allowed reports whether the wallet address is on the admin allowlist.
func (c AdminConfig) Allowed(address string) bool {
	for _, w := range c.AllowedWallets {
		if strings.EqualFold(strings.TrimSpace(w), address) {
			return true
		}
	}
	return false
}

type ErrorTrackingConfig struct {
	Enabled     bool   `envconfig:"ERROR_TRACKING_ENABLED" default:"false"`
	SentryDSN   string `envconfig:"SENTRY_DSN"`
	Environment string `envconfig:"SENTRY_ENVIRONMENT" default:"production"`
}

// Load reads configuration from environment variables.
// A .env file is loaded first if present (development convenience).
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process env config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks cross-field constraints that envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.MarketData.Network == "" {
		return errors.NewValidationError("MARKET_DATA_NETWORK", "network identifier is required", c.MarketData.Network)
	}
	if c.ErrorTracking.Enabled && c.ErrorTracking.SentryDSN == "" {
		return errors.NewValidationError("SENTRY_DSN", "required when error tracking is enabled", "")
	}
	return nil
}
