package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config application-wide settings
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"db"`
	Redis     RedisConfig     `mapstructure:"redis"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Log       LogConfig       `mapstructure:"log"`
	Client    ClientConfig    `mapstructure:"client"`
	Web       WebConfig       `mapstructure:"web"`
}

// ServerConfig HTTP server
type ServerConfig struct {
	Port           int        `mapstructure:"port"`
	BaseURL        string     `mapstructure:"base_url"`
	BodyLimit      int64      `mapstructure:"body_limit"` // bytes
	CORS           CORSConfig `mapstructure:"cors"`
	TrustedProxies []string   `mapstructure:"trusted_proxies"` // X-Forwarded-For honored only from these; empty trusts none
}

// CORSConfig cross-origin settings
type CORSConfig struct {
	AllowOrigins []string `mapstructure:"allow_origins"`
}

const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// DatabaseConfig store selection and PostgreSQL connection
type DatabaseConfig struct {
	Driver          string `mapstructure:"driver"`
	URL             string `mapstructure:"url"`
	Seed            bool   `mapstructure:"seed"`
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	Name            string `mapstructure:"name"`
	User            string `mapstructure:"user"`
	Password        string `mapstructure:"password"`
	SSLMode         string `mapstructure:"sslmode"`
	Timezone        string `mapstructure:"timezone"`
	MaxOpenConns    int    `mapstructure:"max_open_conns"`
	MaxIdleConns    int    `mapstructure:"max_idle_conns"`
	ConnMaxLifetime int    `mapstructure:"conn_max_lifetime"`  // minutes
	ConnMaxIdleTime int    `mapstructure:"conn_max_idle_time"` // minutes
}

// DSN returns db.url when set, otherwise a key/value DSN built from the
// discrete fields.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode, c.Timezone,
	)
}

// RedisConfig optional Redis used for rate limiting
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// RateLimitConfig sliding window applied to mutations
type RateLimitConfig struct {
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// LogConfig logging
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ClientConfig HTTP client used by the web pages
type ClientConfig struct {
	APIBaseURL string        `mapstructure:"api_base_url"`
	CacheTTL   time.Duration `mapstructure:"cache_ttl"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// WebConfig server-rendered pages
type WebConfig struct {
	Enabled        bool          `mapstructure:"enabled"`
	SearchDebounce time.Duration `mapstructure:"search_debounce"`
}

// Load reads configuration. Precedence: env > config file > defaults.
func Load(path string) (*Config, error) {
	v := viper.New()

	// ── defaults ──
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.base_url", "http://localhost:8080")
	v.SetDefault("server.body_limit", 1<<20)
	v.SetDefault("server.cors.allow_origins", []string{"http://localhost:3000"})
	v.SetDefault("server.trusted_proxies", []string{"127.0.0.1", "::1"})

	v.SetDefault("db.driver", DriverPostgres)
	v.SetDefault("db.url", "")
	v.SetDefault("db.seed", false)
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.name", "padron")
	v.SetDefault("db.user", "postgres")
	v.SetDefault("db.password", "")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.timezone", "America/Lima")
	v.SetDefault("db.max_open_conns", 25)
	v.SetDefault("db.max_idle_conns", 10)
	v.SetDefault("db.conn_max_lifetime", 60)
	v.SetDefault("db.conn_max_idle_time", 30)

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("rate_limit.requests", 60)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("client.api_base_url", "")
	v.SetDefault("client.cache_ttl", "30s")
	v.SetDefault("client.timeout", "10s")

	v.SetDefault("web.enabled", true)
	v.SetDefault("web.search_debounce", "500ms")

	// ── config file ──
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	// ── environment ──
	v.SetEnvPrefix("PADRON")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if cfg.Client.APIBaseURL == "" {
		cfg.Client.APIBaseURL = strings.TrimRight(cfg.Server.BaseURL, "/") + "/api"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the settings the process cannot start without.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid config: server.port must be between 1 and 65535")
	}
	if c.Server.BodyLimit <= 0 {
		return fmt.Errorf("invalid config: server.body_limit must be positive")
	}
	for _, p := range c.Server.TrustedProxies {
		if net.ParseIP(p) == nil {
			if _, _, err := net.ParseCIDR(p); err != nil {
				return fmt.Errorf("invalid config: server.trusted_proxies entry %q is not an IP or CIDR", p)
			}
		}
	}
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" && c.Database.Host == "" {
			return fmt.Errorf("invalid config: db.url or db.host is required for the postgres driver")
		}
	case DriverMemory:
	default:
		return fmt.Errorf("invalid config: unknown db.driver %q", c.Database.Driver)
	}
	if c.RateLimit.Requests <= 0 || c.RateLimit.Window <= 0 {
		return fmt.Errorf("invalid config: rate_limit.requests and rate_limit.window must be positive")
	}
	return nil
}
