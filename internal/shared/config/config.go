package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	Checkout  CheckoutConfig
	Nordigen  NordigenConfig
	Sweeper   SweeperConfig
	Telemetry TelemetryConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	AllowedHosts []string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type JWTConfig struct {
	Secret string
}

// CheckoutConfig configures the hosted checkout provider integration.
type CheckoutConfig struct {
	APIKey     string
	WebhookURL string
}

// NordigenConfig configures the open-banking aggregator integration.
// Empty credentials mean the integration is not configured; bank
// endpoints then report a setup error instead of failing opaquely.
type NordigenConfig struct {
	SecretID  string
	SecretKey string
	Country   string
}

type SweeperConfig struct {
	Enabled      bool
	Interval     time.Duration
	WorkerCount  int
	QueueSize    int
	RunOnStartup bool
}

type TelemetryConfig struct {
	Enabled      bool
	ServiceName  string
	Environment  string
	OTLPEndpoint string
	MetricsPort  string
}

func Load() (*Config, error) {

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	sweeperEnabled := getBoolEnv("SWEEPER_ENABLED", true)
	sweeperInterval, err := time.ParseDuration(getEnv("SWEEPER_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEPER_INTERVAL: %w", err)
	}
	sweeperWorkers, err := strconv.Atoi(getEnv("SWEEPER_WORKERS", "2"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEPER_WORKERS: %w", err)
	}
	sweeperQueueSize, err := strconv.Atoi(getEnv("SWEEPER_QUEUE_SIZE", "100"))
	if err != nil {
		return nil, fmt.Errorf("invalid SWEEPER_QUEUE_SIZE: %w", err)
	}

	// Parse allowed hosts (comma-separated list)
	allowedHostsStr := getEnv("ALLOWED_HOSTS", "")
	var allowedHosts []string
	if allowedHostsStr != "" {
		for _, host := range strings.Split(allowedHostsStr, ",") {
			host = strings.TrimSpace(host)
			if host != "" {
				allowedHosts = append(allowedHosts, host)
			}
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Host:         getEnv("HOST", "0.0.0.0"),
			AllowedHosts: allowedHosts,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "lompakko"),
			Password: getEnv("DB_PASSWORD", ""),
			DBName:   getEnv("DB_NAME", "lompakko"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", ""),
		},
		Checkout: CheckoutConfig{
			APIKey:     getEnv("CHECKOUT_API_KEY", ""),
			WebhookURL: getEnv("CHECKOUT_WEBHOOK_URL", ""),
		},
		Nordigen: NordigenConfig{
			SecretID:  getEnv("NORDIGEN_SECRET_ID", ""),
			SecretKey: getEnv("NORDIGEN_SECRET_KEY", ""),
			Country:   getEnv("NORDIGEN_COUNTRY", "FI"),
		},
		Sweeper: SweeperConfig{
			Enabled:      sweeperEnabled,
			Interval:     sweeperInterval,
			WorkerCount:  sweeperWorkers,
			QueueSize:    sweeperQueueSize,
			RunOnStartup: getBoolEnv("SWEEPER_RUN_ON_STARTUP", false),
		},
		Telemetry: TelemetryConfig{
			Enabled:      getBoolEnv("TELEMETRY_ENABLED", false),
			ServiceName:  getEnv("TELEMETRY_SERVICE_NAME", "lompakko-api"),
			Environment:  getEnv("TELEMETRY_ENVIRONMENT", "development"),
			OTLPEndpoint: getEnv("OTLP_ENDPOINT", "localhost:4317"),
			MetricsPort:  getEnv("METRICS_PORT", "9091"),
		},
	}

	if cfg.JWT.Secret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func (c DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

// Configured reports whether the aggregator credentials are present.
func (c NordigenConfig) Configured() bool {
	return c.SecretID != "" && c.SecretKey != ""
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
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return parsed
}
