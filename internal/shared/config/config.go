package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Plaid      PlaidConfig
	Encryption EncryptionConfig
	TLS        TLSConfig
	RateLimit  RateLimitConfig
	Telemetry  TelemetryConfig
	Log        LogConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	AutoMigrate bool
}

type PlaidConfig struct {
	ClientID    string
	Secret      string
	Environment string
	ClientName  string
	CountryCode string
	Language    string
	SyncCount   int
	Timeout     time.Duration
}

type EncryptionConfig struct {
	Key string
}

type TLSConfig struct {
	Enabled  bool
	CertPath string
	KeyPath  string
}

type RateLimitConfig struct {
	Enabled bool
	Every   time.Duration
	Burst   int
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

type LogConfig struct {
	Level  string
	Pretty bool
}

// Load reads configuration from the environment. A .env file in the working
// directory is applied first when present; real environment variables win.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	syncCount, err := strconv.Atoi(getEnv("PLAID_SYNC_COUNT", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLAID_SYNC_COUNT: %w", err)
	}
	if syncCount < 1 || syncCount > 500 {
		return nil, fmt.Errorf("PLAID_SYNC_COUNT must be between 1 and 500")
	}

	plaidTimeout, err := time.ParseDuration(getEnv("PLAID_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid PLAID_TIMEOUT: %w", err)
	}

	rateEvery, err := time.ParseDuration(getEnv("RATE_LIMIT_EVERY", "100ms"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_EVERY: %w", err)
	}
	rateBurst, err := strconv.Atoi(getEnv("RATE_LIMIT_BURST", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_BURST: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	var allowedHosts []string
	for _, host := range strings.Split(getEnv("ALLOWED_HOSTS", ""), ",") {
		host = strings.TrimSpace(host)
		if host != "" {
			allowedHosts = append(allowedHosts, host)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        dbPort,
			User:        getEnv("DB_USER", "spine"),
			Password:    getEnv("DB_PASSWORD", ""),
			DBName:      getEnv("DB_NAME", "spine"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			AutoMigrate: getBoolEnv("DB_AUTO_MIGRATE", false),
		},
		Plaid: PlaidConfig{
			ClientID:    getEnv("PLAID_CLIENT_ID", ""),
			Secret:      getEnv("PLAID_SECRET", ""),
			Environment: strings.ToLower(getEnv("PLAID_ENV", "sandbox")),
			ClientName:  getEnv("PLAID_CLIENT_NAME", "Spine"),
			CountryCode: getEnv("PLAID_COUNTRY_CODE", "US"),
			Language:    getEnv("PLAID_LANGUAGE", "en"),
			SyncCount:   syncCount,
			Timeout:     plaidTimeout,
		},
		Encryption: EncryptionConfig{
			Key: getEnv("ENCRYPTION_KEY", ""),
		},
		TLS: TLSConfig{
			Enabled:  getBoolEnv("TLS_ENABLED", false),
			CertPath: getEnv("TLS_CERT_PATH", ""),
			KeyPath:  getEnv("TLS_KEY_PATH", ""),
		},
		RateLimit: RateLimitConfig{
			Enabled: getBoolEnv("RATE_LIMIT_ENABLED", true),
			Every:   rateEvery,
			Burst:   rateBurst,
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("OTEL_ENABLED", false),
			ServiceName:  getEnv("OTEL_SERVICE_NAME", "spine-api"),
			Environment:  getEnv("OTEL_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTEL_EXPORTER_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9464"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Pretty: getBoolEnv("LOG_PRETTY", false),
		},
	}

	// Validate required fields
	if cfg.Plaid.ClientID == "" {
		return nil, fmt.Errorf("PLAID_CLIENT_ID is required")
	}
	if cfg.Plaid.Secret == "" {
		return nil, fmt.Errorf("PLAID_SECRET is required")
	}
	switch cfg.Plaid.Environment {
	case "sandbox", "production":
	default:
		return nil, fmt.Errorf("PLAID_ENV must be sandbox or production, got %q", cfg.Plaid.Environment)
	}
	if cfg.Encryption.Key == "" {
		return nil, fmt.Errorf("ENCRYPTION_KEY is required")
	}
	if len(cfg.Encryption.Key) != 32 {
		return nil, fmt.Errorf("ENCRYPTION_KEY must be exactly 32 bytes")
	}

	if cfg.TLS.Enabled {
		if cfg.TLS.CertPath == "" {
			return nil, fmt.Errorf("TLS_CERT_PATH is required when TLS_ENABLED=true")
		}
		if cfg.TLS.KeyPath == "" {
			return nil, fmt.Errorf("TLS_KEY_PATH is required when TLS_ENABLED=true")
		}
	}

	return cfg, nil
}

func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	// Accept: true, false, 1, 0, yes, no (case-insensitive)
	switch strings.ToLower(value) {
	case "true", "1", "yes":
		return true
	case "false", "0", "no":
		return false
	default:
		return defaultValue
	}
}
