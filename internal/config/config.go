package config

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"github.com/mmynk/shopfront/internal/models"
)

// Session backends.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Catalog sources.
const (
	SourceConfig = "config"
	SourceSQLite = "sqlite"
)

// Config represents the complete server configuration
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Auth    AuthConfig    `yaml:"auth"`
	Session SessionConfig `yaml:"session"`
	Catalog CatalogConfig `yaml:"catalog"`
	Seed    SeedConfig    `yaml:"seed"`
	Logging LoggingConfig `yaml:"logging"`
}

// ServerConfig holds listener configuration
type ServerConfig struct {
	HTTPAddr   string `yaml:"http_addr" env:"HTTP_ADDR"`
	StaticPath string `yaml:"static_path" env:"STATIC_PATH"`

	ShutdownTimeout    time.Duration `yaml:"-" env:"SHUTDOWN_TIMEOUT"`
	ShutdownTimeoutRaw string        `yaml:"shutdown_timeout" env:"-"`
}

// AuthConfig holds authentication configuration
type AuthConfig struct {
	// APIKeys is the allow-list for the X-API-KEY header.
	APIKeys []string `yaml:"api_keys" env:"API_KEYS" envSeparator:","`

	// JWTSecret signs login tokens. When empty a random secret is generated
	// at startup and tokens do not survive restarts.
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET"`

	BcryptCost int `yaml:"bcrypt_cost" env:"BCRYPT_COST"`

	TokenTTL    time.Duration `yaml:"-" env:"TOKEN_TTL"`
	TokenTTLRaw string        `yaml:"token_ttl" env:"-"`
}

// SessionConfig holds MCP session registry configuration
type SessionConfig struct {
	Backend     string `yaml:"backend" env:"SESSION_BACKEND"`
	RedisAddr   string `yaml:"redis_addr" env:"REDIS_ADDR"`
	RedisPrefix string `yaml:"redis_prefix" env:"REDIS_PREFIX"`
	MaxRequests int    `yaml:"max_requests" env:"SESSION_MAX_REQUESTS"`

	Timeout         time.Duration `yaml:"-" env:"SESSION_TIMEOUT"`
	Window          time.Duration `yaml:"-" env:"SESSION_WINDOW"`
	JanitorInterval time.Duration `yaml:"-" env:"SESSION_JANITOR_INTERVAL"`

	// Raw string values for YAML unmarshaling
	TimeoutRaw         string `yaml:"timeout" env:"-"`
	WindowRaw          string `yaml:"window" env:"-"`
	JanitorIntervalRaw string `yaml:"janitor_interval" env:"-"`
}

// CatalogConfig selects where the item catalog comes from
type CatalogConfig struct {
	Source string        `yaml:"source" env:"CATALOG_SOURCE"`
	Path   string        `yaml:"path" env:"CATALOG_DB_PATH"`
	Items  []models.Item `yaml:"items" env:"-"`
}

// SeedConfig holds orders loaded into the order store at startup
type SeedConfig struct {
	Orders []models.Order `yaml:"orders" env:"-"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level" env:"LOG_LEVEL"`
	Format string `yaml:"format" env:"LOG_FORMAT"`
}

// Load builds the configuration from defaults, the YAML file at path (skipped
// when path is empty) and the environment, then validates it.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		// Expand environment variables in the raw YAML content
		expandedData := expandEnvVars(string(data))

		if err := yaml.Unmarshal([]byte(expandedData), cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := parseDurations(cfg); err != nil {
		return nil, fmt.Errorf("parsing durations: %w", err)
	}

	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

var envVarPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		varName := envVarPattern.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all required configuration fields are present and valid.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Server.HTTPAddr == "" {
		return errors.New("server.http_addr is required")
	}

	if !hasKey(c.Auth.APIKeys) {
		return errors.New("auth.api_keys must contain at least one key")
	}
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}

	switch c.Session.Backend {
	case BackendMemory:
	case BackendRedis:
		if c.Session.RedisAddr == "" {
			return errors.New("session.redis_addr is required for the redis backend")
		}
	default:
		return fmt.Errorf("session.backend %q must be %q or %q", c.Session.Backend, BackendMemory, BackendRedis)
	}
	if c.Session.Timeout <= 0 {
		return errors.New("session.timeout must be positive")
	}
	if c.Session.Window <= 0 {
		return errors.New("session.window must be positive")
	}
	if c.Session.MaxRequests <= 0 {
		return errors.New("session.max_requests must be positive")
	}

	switch c.Catalog.Source {
	case SourceConfig:
		if len(c.Catalog.Items) == 0 {
			return errors.New("catalog.items must not be empty")
		}
	case SourceSQLite:
		if c.Catalog.Path == "" {
			return errors.New("catalog.path is required for the sqlite source")
		}
	default:
		return fmt.Errorf("catalog.source %q must be %q or %q", c.Catalog.Source, SourceConfig, SourceSQLite)
	}

	for i, o := range c.Seed.Orders {
		if o.ID == "" || o.Email == "" {
			return fmt.Errorf("seed.orders[%d] needs an id and an email", i)
		}
	}

	switch c.Logging.Format {
	case "text", "json":
	default:
		return fmt.Errorf("logging.format %q must be text or json", c.Logging.Format)
	}

	return nil
}

func hasKey(keys []string) bool {
	for _, k := range keys {
		if k != "" {
			return true
		}
	}
	return false
}

// parseDurations converts the raw duration strings into time.Duration values
func parseDurations(cfg *Config) error {
	fields := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.shutdown_timeout", cfg.Server.ShutdownTimeoutRaw, &cfg.Server.ShutdownTimeout},
		{"auth.token_ttl", cfg.Auth.TokenTTLRaw, &cfg.Auth.TokenTTL},
		{"session.timeout", cfg.Session.TimeoutRaw, &cfg.Session.Timeout},
		{"session.window", cfg.Session.WindowRaw, &cfg.Session.Window},
		{"session.janitor_interval", cfg.Session.JanitorIntervalRaw, &cfg.Session.JanitorInterval},
	}

	for _, f := range fields {
		if f.raw == "" {
			continue
		}
		d, err := time.ParseDuration(f.raw)
		if err != nil {
			return fmt.Errorf("parsing %s %q: %w", f.name, f.raw, err)
		}
		*f.dst = d
	}
	return nil
}
