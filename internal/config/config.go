// File: internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Identity provider variants selectable through AUTH_PROVIDER.
const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"
)

// Config holds all configuration for the application.
type Config struct {
	// Server Configuration
	GinMode       string        `mapstructure:"GIN_MODE"`
	ServerHost    string        `mapstructure:"SERVER_HOST"`
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	ServerTimeout time.Duration `mapstructure:"SERVER_TIMEOUT_SECONDS"`
	SiteDomain    string        `mapstructure:"SITE_DOMAIN"`

	// Database Configuration
	DBHost            string        `mapstructure:"DB_HOST"`
	DBPort            string        `mapstructure:"DB_PORT"`
	DBUser            string        `mapstructure:"DB_USER"`
	DBPassword        string        `mapstructure:"DB_PASSWORD"`
	DBName            string        `mapstructure:"DB_NAME"`
	DBSSLMode         string        `mapstructure:"DB_SSL_MODE"`
	DBTimezone        string        `mapstructure:"DB_TIMEZONE"`
	DBMaxIdleConns    int           `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBMaxOpenConns    int           `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBConnMaxLifetime time.Duration `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`
	DBAutoMigrate     bool          `mapstructure:"DB_AUTO_MIGRATE"`

	// Logging Configuration
	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`

	// Identity
	AuthProvider                  string        `mapstructure:"AUTH_PROVIDER"`
	FirebaseServiceAccountKeyPath string        `mapstructure:"FIREBASE_SERVICE_ACCOUNT_KEY_PATH"`
	FirebaseProjectID             string        `mapstructure:"FIREBASE_PROJECT_ID"`
	JWTSecretKey                  string        `mapstructure:"JWT_SECRET_KEY"`
	JWTAccessTokenExpiry          time.Duration `mapstructure:"JWT_ACCESS_TOKEN_EXPIRY_MINUTES"`

	// Payments
	StripeSecretKey string `mapstructure:"STRIPE_SECRET_KEY"`
	PaymentCurrency string `mapstructure:"PAYMENT_CURRENCY"`
	PremiumPrice    int64  `mapstructure:"PREMIUM_PRICE"`

	// Elasticsearch Configuration
	ElasticsearchURL string `mapstructure:"ELASTICSEARCH_URL"`

	// Cron Jobs
	MaintenanceJobSchedule string `mapstructure:"MAINTENANCE_JOB_SCHEDULE"`
	ReportRetentionDays    int    `mapstructure:"REPORT_RETENTION_DAYS"`
}

// Load attempts to load configuration from a .env file (if present) and environment variables.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("error loading .env file: %w", err)
		}
	}

	v := viper.New()

	v.SetDefault("GIN_MODE", "debug")
	v.SetDefault("SERVER_HOST", "0.0.0.0")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("SERVER_TIMEOUT_SECONDS", 30)
	v.SetDefault("SITE_DOMAIN", "http://localhost:5173")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", "5432")
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "password")
	v.SetDefault("DB_NAME", "life_lessons")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_TIMEZONE", "UTC")
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_MAX_OPEN_CONNS", 100)
	v.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 60)
	v.SetDefault("DB_AUTO_MIGRATE", true)

	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "console")

	v.SetDefault("AUTH_PROVIDER", AuthProviderFirebase)
	v.SetDefault("FIREBASE_PROJECT_ID", "")
	v.SetDefault("FIREBASE_SERVICE_ACCOUNT_KEY_PATH", "")
	v.SetDefault("JWT_SECRET_KEY", "")
	v.SetDefault("JWT_ACCESS_TOKEN_EXPIRY_MINUTES", 7*24*60)

	v.SetDefault("STRIPE_SECRET_KEY", "")
	v.SetDefault("PAYMENT_CURRENCY", "bdt")
	v.SetDefault("PREMIUM_PRICE", 1500)

	v.SetDefault("ELASTICSEARCH_URL", "")

	v.SetDefault("MAINTENANCE_JOB_SCHEDULE", "@daily")
	v.SetDefault("REPORT_RETENTION_DAYS", 90)

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling configuration: %w", err)
	}

	// Convert duration fields
	cfg.ServerTimeout = time.Duration(v.GetInt("SERVER_TIMEOUT_SECONDS")) * time.Second
	cfg.DBConnMaxLifetime = time.Duration(v.GetInt("DB_CONN_MAX_LIFETIME_MINUTES")) * time.Minute
	cfg.JWTAccessTokenExpiry = time.Duration(v.GetInt("JWT_ACCESS_TOKEN_EXPIRY_MINUTES")) * time.Minute

	cfg.AuthProvider = strings.ToLower(strings.TrimSpace(cfg.AuthProvider))
	cfg.SiteDomain = strings.TrimRight(cfg.SiteDomain, "/")

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.AuthProvider {
	case AuthProviderFirebase:
		if strings.TrimSpace(c.FirebaseServiceAccountKeyPath) == "" {
			return fmt.Errorf("FIREBASE_SERVICE_ACCOUNT_KEY_PATH is not set. This is required when AUTH_PROVIDER=firebase")
		}
		if _, err := os.Stat(c.FirebaseServiceAccountKeyPath); os.IsNotExist(err) {
			return fmt.Errorf("firebase service account key file specified in FIREBASE_SERVICE_ACCOUNT_KEY_PATH (%s) not found", c.FirebaseServiceAccountKeyPath)
		}
	case AuthProviderJWT:
		if strings.TrimSpace(c.JWTSecretKey) == "" {
			return fmt.Errorf("JWT_SECRET_KEY is not set. This is required when AUTH_PROVIDER=jwt")
		}
	default:
		return fmt.Errorf("unsupported AUTH_PROVIDER %q (expected %q or %q)", c.AuthProvider, AuthProviderFirebase, AuthProviderJWT)
	}
	if c.PremiumPrice <= 0 {
		return fmt.Errorf("PREMIUM_PRICE must be positive, got %d", c.PremiumPrice)
	}
	return nil
}

// DSN returns the PostgreSQL connection string built from the individual DB_* settings.
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode, c.DBTimezone)
}

// PaymentConfigured reports whether a payment provider key is present.
func (c *Config) PaymentConfigured() bool {
	return strings.TrimSpace(c.StripeSecretKey) != ""
}

// SearchEnabled reports whether the Elasticsearch lesson index is in use.
func (c *Config) SearchEnabled() bool {
	return strings.TrimSpace(c.ElasticsearchURL) != ""
}
