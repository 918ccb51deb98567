// Package config manages environment variables.
//
// It reads variables from the `.env` file (when present),
// loads them into structured Go types, and validates that
// required values are present so the admin service fails fast
// on bad or missing configuration.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so the app fails fast on bad/missing config.
//   - Provide sane defaults for optional config blocks (e.g. observability).
package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists, it gets loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the PLAYLEARN_ prefix. Nesting uses a double
	underscore so that single underscores can stay inside key names:

	  PLAYLEARN_SERVER__PORT          -> server.port
	  PLAYLEARN_SERVER__READ_TIMEOUT  -> server.read_timeout
	  PLAYLEARN_DATABASE__DRIVER      -> database.driver
*/

const envPrefix = "PLAYLEARN_"

// Drivers supported by the document store.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Config is the root configuration object for the application.
//
// Observability is a pointer because it is optional. If not provided,
// defaults are injected at load time.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Database      DatabaseConfig       `koanf:"database" validate:"required"`
	Redis         RedisConfig          `koanf:"redis"`
	Auth          AuthConfig           `koanf:"auth" validate:"required"`
	Integration   IntegrationConfig    `koanf:"integration"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
//
// Env doubles as the switch between the live user tree ("users") and
// the test user tree ("test_users").
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// ServerConfig groups settings for the HTTP server runtime.
// Timeouts are stored as seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`

	// RateLimit is the number of requests per second allowed per client IP.
	// Zero disables rate limiting.
	RateLimit float64 `koanf:"rate_limit" validate:"min=0"`
}

// DatabaseConfig selects and configures the document store backend.
//
// The postgres fields are only required when Driver is "postgres";
// SQLitePath is only required when Driver is "sqlite".
type DatabaseConfig struct {
	Driver string `koanf:"driver" validate:"required,oneof=postgres sqlite"`

	Host            string `koanf:"host" validate:"required_if=Driver postgres"`
	Port            int    `koanf:"port" validate:"required_if=Driver postgres"`
	User            string `koanf:"user" validate:"required_if=Driver postgres"`
	Password        string `koanf:"password" validate:"required_if=Driver postgres"`
	Name            string `koanf:"name" validate:"required_if=Driver postgres"`
	SSLMode         string `koanf:"ssl_mode" validate:"required_if=Driver postgres"`
	MaxOpenConns    int    `koanf:"max_open_conns"`
	MaxIdleConns    int    `koanf:"max_idle_conns"`
	ConnMaxLifetime int    `koanf:"conn_max_lifetime"`
	ConnMaxIdleTime int    `koanf:"conn_max_idle_time"`

	SQLitePath string `koanf:"sqlite_path" validate:"required_if=Driver sqlite"`

	// UsersRoot overrides the collection that holds app users.
	UsersRoot string `koanf:"users_root"`
}

// RedisConfig contains Redis connection details.
// Address is "host:port". An empty address disables the cache and
// background jobs.
type RedisConfig struct {
	Address  string `koanf:"address"`
	CacheTTL int    `koanf:"cache_ttl"` // seconds
}

// AuthConfig stores authentication-related secrets.
type AuthConfig struct {
	SecretKey string `koanf:"secret_key" validate:"required"`
}

// IntegrationConfig holds third-party API credentials.
type IntegrationConfig struct {
	ResendAPIKey  string `koanf:"resend_api_key"`
	EmailFrom     string `koanf:"email_from"`
	PushURL       string `koanf:"push_url"`
	PushAccessKey string `koanf:"push_access_token"`
	AdminPanelURL string `koanf:"admin_panel_url"`
}

// UsersRoot returns the collection holding app users.
func (c *Config) UsersRoot() string {
	if c.Database.UsersRoot != "" {
		return c.Database.UsersRoot
	}
	if c.IsLive() {
		return "users"
	}
	return "test_users"
}

// IsLive reports whether the service talks to the live user tree.
func (c *Config) IsLive() bool {
	switch c.Primary.Env {
	case "production", "live", "prod":
		return true
	}
	return false
}

// LoadConfig loads configuration from environment variables, unmarshals it into
// Config structs, validates it, applies defaults, and returns the resulting config.
func LoadConfig() (*Config, error) {
	k := koanf.New(".")

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		key := strings.ToLower(strings.TrimPrefix(s, envPrefix))
		return strings.ReplaceAll(key, "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal config: %w", err)
	}

	mainConfig.applyDefaults()

	if err := mainConfig.Validate(); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// applyDefaults fills optional values that have a sensible fallback.
func (c *Config) applyDefaults() {
	if c.Database.Driver == "" {
		c.Database.Driver = DriverPostgres
	}
	if c.Redis.CacheTTL == 0 {
		c.Redis.CacheTTL = 60
	}
	if c.Integration.PushURL == "" {
		c.Integration.PushURL = "https://exp.host/--/api/v2/push/send"
	}
	if c.Integration.EmailFrom == "" {
		c.Integration.EmailFrom = "PlayLearnKids <admin@playlearnkids.com>"
	}

	// If observability config wasn't provided, inject a default.
	if c.Observability == nil {
		c.Observability = DefaultObservabilityConfig()
	}

	// Service name is fixed; environment always follows primary.env so
	// logs and traces are split consistently.
	c.Observability.ServiceName = "playlearnkids-admin"
	c.Observability.Environment = c.Primary.Env
}

// Validate runs struct tag validation followed by the observability rules.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if c.Observability != nil {
		if err := c.Observability.Validate(); err != nil {
			return fmt.Errorf("invalid observability config: %w", err)
		}
	}

	return nil
}
