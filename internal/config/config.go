package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port string `yaml:"port" env:"SERVER_PORT"`
	Mode string `yaml:"mode" env:"SERVER_MODE"`
}

// DatabaseConfig holds PostgreSQL connection settings
type DatabaseConfig struct {
	Host            string `yaml:"host" env:"DB_HOST"`
	Port            string `yaml:"port" env:"DB_PORT"`
	User            string `yaml:"user" env:"DB_USER"`
	Password        string `yaml:"password" env:"DB_PASSWORD"`
	DBName          string `yaml:"dbname" env:"DB_NAME"`
	SSLMode         string `yaml:"sslmode" env:"DB_SSLMODE"`
	MaxIdleConns    int    `yaml:"max_idle_conns" env:"DB_MAX_IDLE_CONNS"`
	MaxOpenConns    int    `yaml:"max_open_conns" env:"DB_MAX_OPEN_CONNS"`
	ConnMaxLifetime string `yaml:"conn_max_lifetime" env:"DB_CONN_MAX_LIFETIME"`
}

// JWTConfig holds session token settings
type JWTConfig struct {
	Secret                 string `yaml:"secret" env:"JWT_SECRET"`
	AccessTokenExpiration  string `yaml:"access_token_expiration" env:"JWT_ACCESS_TOKEN_EXPIRATION"`
	RefreshTokenExpiration string `yaml:"refresh_token_expiration" env:"JWT_REFRESH_TOKEN_EXPIRATION"`
	Issuer                 string `yaml:"issuer" env:"JWT_ISSUER"`
}

// LoggingConfig holds logger settings. File is optional; when set, logs are
// also written to a rotated file.
type LoggingConfig struct {
	Level      string `yaml:"level" env:"LOG_LEVEL"`
	Format     string `yaml:"format" env:"LOG_FORMAT"`
	File       string `yaml:"file" env:"LOG_FILE"`
	MaxSizeMB  int    `yaml:"max_size_mb" env:"LOG_MAX_SIZE_MB"`
	MaxBackups int    `yaml:"max_backups" env:"LOG_MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"max_age_days" env:"LOG_MAX_AGE_DAYS"`
}

// StorageConfig selects the backend of the local list store
type StorageConfig struct {
	Driver        string `yaml:"driver" env:"STORAGE_DRIVER"`
	SQLitePath    string `yaml:"sqlite_path" env:"STORAGE_SQLITE_PATH"`
	RedisAddr     string `yaml:"redis_addr" env:"STORAGE_REDIS_ADDR"`
	RedisPassword string `yaml:"redis_password" env:"STORAGE_REDIS_PASSWORD"`
	RedisDB       int    `yaml:"redis_db" env:"STORAGE_REDIS_DB"`
}

// IntegrationsConfig holds the optional third-party endpoints. Every URL may be
// empty; features depending on it degrade to a placeholder.
type IntegrationsConfig struct {
	EventsFeedURL      string `yaml:"events_feed_url" env:"EVENTS_FEED_URL"`
	FacebookPageURL    string `yaml:"facebook_page_url" env:"FACEBOOK_PAGE_URL"`
	WidgetScriptURL    string `yaml:"widget_script_url" env:"WIDGET_SCRIPT_URL"`
	WidgetResourcesURL string `yaml:"widget_resources_url" env:"WIDGET_RESOURCES_URL"`
	WaitlistFormURL    string `yaml:"waitlist_form_url" env:"WAITLIST_FORM_URL"`
	ContactFormURL     string `yaml:"contact_form_url" env:"CONTACT_FORM_URL"`
	CalendarURL        string `yaml:"calendar_url" env:"CALENDAR_URL"`
	InboundWebhookURL  string `yaml:"inbound_webhook_url" env:"INBOUND_WEBHOOK_URL"`
	FeedTimeout        string `yaml:"feed_timeout" env:"FEED_TIMEOUT"`
	WebhookTimeout     string `yaml:"webhook_timeout" env:"WEBHOOK_TIMEOUT"`
}

// MembershipConfig holds membership policy switches
type MembershipConfig struct {
	AllowSelfElevation bool `yaml:"allow_self_elevation" env:"MEMBERSHIP_ALLOW_SELF_ELEVATION"`
}

// Config structure represents the application configuration
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	JWT          JWTConfig          `yaml:"jwt"`
	Logging      LoggingConfig      `yaml:"logging"`
	Storage      StorageConfig      `yaml:"storage"`
	Integrations IntegrationsConfig `yaml:"integrations"`
	Membership   MembershipConfig   `yaml:"membership"`
}

// LoadConfig loads configuration from a file and environment variables
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}
	setDefaults(config)

	if _, err := os.Stat(configPath); err == nil {
		file, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		if err := yaml.Unmarshal(file, config); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	// Unset variables leave the file/default values untouched
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("failed to load from environment: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// setDefaults sets default values for the configuration
func setDefaults(config *Config) {
	config.Server.Port = "8080"
	config.Server.Mode = "development"

	config.Database.Host = "localhost"
	config.Database.Port = "5432"
	config.Database.User = "postgres"
	config.Database.Password = "postgres"
	config.Database.DBName = "bizlink"
	config.Database.SSLMode = "disable"
	config.Database.MaxIdleConns = 5
	config.Database.MaxOpenConns = 20
	config.Database.ConnMaxLifetime = "1h"

	config.JWT.AccessTokenExpiration = "1h"
	config.JWT.RefreshTokenExpiration = "720h"
	config.JWT.Issuer = "bizlink.app"

	config.Logging.Level = "info"
	config.Logging.Format = "json"
	config.Logging.MaxSizeMB = 50
	config.Logging.MaxBackups = 5
	config.Logging.MaxAgeDays = 28

	config.Storage.Driver = "sqlite"
	config.Storage.SQLitePath = "data/bizlink.db"

	config.Integrations.FeedTimeout = "10s"
	config.Integrations.WebhookTimeout = "15s"
}

// validateConfig ensures that the configuration is valid
func validateConfig(config *Config) error {
	if config.Database.Host == "" {
		return errors.New("database host is required")
	}

	if config.JWT.Secret == "" {
		return errors.New("JWT secret is required")
	}

	if _, err := time.ParseDuration(config.JWT.AccessTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT access token expiration format: %w", err)
	}

	if _, err := time.ParseDuration(config.JWT.RefreshTokenExpiration); err != nil {
		return fmt.Errorf("invalid JWT refresh token expiration format: %w", err)
	}

	switch config.Storage.Driver {
	case "sqlite":
		if config.Storage.SQLitePath == "" {
			return errors.New("sqlite path is required for the sqlite storage driver")
		}
	case "redis":
		if config.Storage.RedisAddr == "" {
			return errors.New("redis address is required for the redis storage driver")
		}
	default:
		return fmt.Errorf("unknown storage driver %q", config.Storage.Driver)
	}

	if _, err := time.ParseDuration(config.Integrations.FeedTimeout); err != nil {
		return fmt.Errorf("invalid feed timeout: %w", err)
	}

	if _, err := time.ParseDuration(config.Integrations.WebhookTimeout); err != nil {
		return fmt.Errorf("invalid webhook timeout: %w", err)
	}

	if config.Membership.AllowSelfElevation && config.IsProduction() {
		return errors.New("self elevation to board cannot be enabled in production mode")
	}

	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.Mode, "production")
}

// GetPostgresConnectionString returns postgres connection string
func (c *Config) GetPostgresConnectionString() string {
	sslMode := c.Database.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(c.Database.User, c.Database.Password),
		Host:     net.JoinHostPort(c.Database.Host, c.Database.Port),
		Path:     "/" + c.Database.DBName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return dsn.String()
}
