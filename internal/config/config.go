package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the full service configuration, matching config/config.yaml.
type Config struct {
	Server   ServerConfig            `mapstructure:"server"`
	Postgres PostgresConfig          `mapstructure:"postgres"`
	Sync     SyncConfig              `mapstructure:"sync"`
	Vendors  map[string]VendorConfig `mapstructure:"vendors"`
}

// ServerConfig holds the HTTP surface settings.
type ServerConfig struct {
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug/release/test
}

// PostgresConfig holds the shared schema connection settings.
type PostgresConfig struct {
	DSN             string        `mapstructure:"dsn"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
}

// SyncConfig controls which vendors the sync endpoints will run.
type SyncConfig struct {
	EnabledVendors []string `mapstructure:"enabled_vendors"`
}

// VendorConfig is the per-vendor feed configuration. ExportURL points at the
// parsed-sales export published by that vendor's external scraper.
type VendorConfig struct {
	ExportURL  string `mapstructure:"export_url"`
	Timeout    int    `mapstructure:"timeout"`     // request timeout, seconds
	RetryCount int    `mapstructure:"retry_count"` // fetch retries before giving up
	AuthToken  string `mapstructure:"auth_token"`
	Proxy      string `mapstructure:"proxy"`
}

// LoadConfig reads config/config.yaml; secrets are overridden from the
// environment (.env is loaded first when present, never committed).
func LoadConfig() (*Config, error) {
	_ = godotenv.Load() // .env is optional

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./config")
	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	viper.SetTypeByDefaultValue(true)
	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	overrideFromEnv(&cfg)
	return &cfg, nil
}

// overrideFromEnv applies env overrides for secrets: POSTGRES_DSN plus
// <VENDOR>_AUTH_TOKEN / <VENDOR>_PROXY for every configured vendor.
func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		cfg.Postgres.DSN = v
	}
	for name, vc := range cfg.Vendors {
		prefix := strings.ToUpper(name)
		if v := os.Getenv(prefix + "_AUTH_TOKEN"); v != "" {
			vc.AuthToken = v
		}
		if v := os.Getenv(prefix + "_PROXY"); v != "" {
			vc.Proxy = v
		}
		cfg.Vendors[name] = vc
	}
}

// VendorEnabled reports whether a vendor is in sync.enabled_vendors. An empty
// list means every configured vendor is enabled.
func (c *Config) VendorEnabled(name string) bool {
	if len(c.Sync.EnabledVendors) == 0 {
		return true
	}
	for _, v := range c.Sync.EnabledVendors {
		if v == name {
			return true
		}
	}
	return false
}
