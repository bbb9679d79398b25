package config

import (
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	DriverPostgres = "postgres"
	DriverSqlite   = "sqlite"
)

// BaseConfig holds settings shared by every binary
type BaseConfig struct {
	Debug     bool   `mapstructure:"debug"`
	SentryDSN string `mapstructure:"sentry_dsn"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DatabaseConfig selects the storage backend. URL is used for postgres,
// SqlitePath for sqlite.
type DatabaseConfig struct {
	Driver     string `mapstructure:"driver"`
	URL        string `mapstructure:"url"`
	SqlitePath string `mapstructure:"sqlite_path"`
}

// AuthConfig configures bearer token verification. JWKSURL wins over JWTSecret.
// Token is the bearer token the stdio binary acts with. ResourceURL is the
// public url of this server; when set, protected resource metadata naming
// Issuer as the authorization server is published for OAuth clients.
type AuthConfig struct {
	JWKSURL         string `mapstructure:"jwks_url"`
	JWTSecret       string `mapstructure:"jwt_secret"`
	Audience        string `mapstructure:"audience"`
	Token           string `mapstructure:"token"`
	Issuer          string `mapstructure:"issuer"`
	ResourceURL     string `mapstructure:"resource_url"`
	ResourceDocsURL string `mapstructure:"resource_docs_url"`
}

// CloudflareConfig holds Cloudflare Images credentials for the upload proxy
type CloudflareConfig struct {
	AccountID       string `mapstructure:"account_id"`
	APIToken        string `mapstructure:"api_token"`
	DeliveryVariant string `mapstructure:"delivery_variant"`
}

// GatewayConfig describes the public payment gateway that serves gateway paths
type GatewayConfig struct {
	BaseURL string `mapstructure:"base_url"`
}

// Config is the full marketplace configuration
type Config struct {
	BaseConfig `mapstructure:",squash"`
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Auth       AuthConfig       `mapstructure:"auth"`
	Cloudflare CloudflareConfig `mapstructure:"cloudflare"`
	Gateway    GatewayConfig    `mapstructure:"gateway"`
}

// Load reads configuration from an optional YAML file, .env files under
// envPath and MARKETPLACE_* environment variables, in increasing precedence.
func Load(configFile string, envPath string) (*Config, error) {
	v := configureViper(configFile, envPath)

	v.SetDefault("debug", false)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", DriverSqlite)
	v.SetDefault("database.sqlite_path", "data/marketplace.db")
	v.SetDefault("cloudflare.delivery_variant", "public")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !isMissingFile(configFile, err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.URL == "" {
			return fmt.Errorf("database.url is required for the postgres driver")
		}
	case DriverSqlite:
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	if c.Auth.ResourceURL != "" && c.Auth.Issuer == "" {
		return fmt.Errorf("auth.issuer is required when auth.resource_url is set")
	}
	return nil
}

func configureViper(configFile string, envPath string) *viper.Viper {
	v := viper.New()

	loadEnv(envPath)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("config/")
	}

	v.SetEnvPrefix("MARKETPLACE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindAllEnvVars(v)
	return v
}

// bindAllEnvVars binds every key so env vars reach Unmarshal without a config file
func bindAllEnvVars(v *viper.Viper) {
	keys := []string{
		"debug",
		"sentry_dsn",
		"server.host",
		"server.port",
		"database.driver",
		"database.url",
		"database.sqlite_path",
		"auth.jwks_url",
		"auth.jwt_secret",
		"auth.audience",
		"auth.token",
		"auth.issuer",
		"auth.resource_url",
		"auth.resource_docs_url",
		"cloudflare.account_id",
		"cloudflare.api_token",
		"cloudflare.delivery_variant",
		"gateway.base_url",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}

// loadEnv loads .env then .env.local; later files override earlier ones.
func loadEnv(envPath string) {
	for _, envFile := range []string{".env", ".env.local"} {
		_ = godotenv.Overload(filepath.Join(envPath, envFile))
	}
}

// isMissingFile reports whether an explicitly named config file does not exist.
// viper only returns ConfigFileNotFoundError when it searched for the file.
func isMissingFile(configFile string, err error) bool {
	return configFile != "" && errors.Is(err, fs.ErrNotExist)
}
