package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App      AppConfig
	Database DatabaseConfig
	JWT      JWTConfig
	Gateway  GatewayConfig
	Monitor  MonitorConfig
}

// AppConfig holds application configuration shared by both binaries
type AppConfig struct {
	Env      string
	LogLevel string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	AccessExpiration string
}

// GatewayConfig holds the realtime gateway configuration
type GatewayConfig struct {
	Port              int
	CORSOrigins       []string
	AdminEmail        string
	AdminPasswordHash string
	ReportBaseURL     string
}

// MonitorConfig holds the monitoring client configuration
type MonitorConfig struct {
	ChannelURL           string
	APIBaseURL           string
	Token                string
	DataDir              string
	PollInterval         time.Duration
	ReconnectMaxAttempts int
	ReconnectBaseDelay   time.Duration
}

func Load() (*Config, error) {
	// A missing .env file is fine; the environment may be set directly
	_ = godotenv.Load()

	config := &Config{}

	config.App = AppConfig{
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "inout_manager"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: getEnv("JWT_ACCESS_EXPIRATION_TIME", "8h"),
	}

	// Gateway configuration
	gatewayPort, err := strconv.Atoi(getEnv("GATEWAY_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid GATEWAY_PORT: %w", err)
	}

	config.Gateway = GatewayConfig{
		Port:              gatewayPort,
		CORSOrigins:       getEnvSlice("CORS_ORIGINS", "http://localhost:3000"),
		AdminEmail:        getEnv("ADMIN_EMAIL", ""),
		AdminPasswordHash: getEnv("ADMIN_PASSWORD_HASH", ""),
		ReportBaseURL:     getEnv("REPORT_BASE_URL", "http://localhost:8080/downloads"),
	}

	// Monitor configuration
	pollInterval, err := time.ParseDuration(getEnv("MONITOR_POLL_INTERVAL", "7s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_POLL_INTERVAL: %w", err)
	}
	reconnectBaseDelay, err := time.ParseDuration(getEnv("MONITOR_RECONNECT_BASE_DELAY", "1s"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_RECONNECT_BASE_DELAY: %w", err)
	}
	reconnectMaxAttempts, err := strconv.Atoi(getEnv("MONITOR_RECONNECT_MAX_ATTEMPTS", "5"))
	if err != nil {
		return nil, fmt.Errorf("invalid MONITOR_RECONNECT_MAX_ATTEMPTS: %w", err)
	}

	config.Monitor = MonitorConfig{
		ChannelURL:           getEnv("MONITOR_CHANNEL_URL", "ws://localhost:8080/ws/admin"),
		APIBaseURL:           getEnv("MONITOR_API_BASE_URL", "http://localhost:8080"),
		Token:                getEnv("MONITOR_TOKEN", ""),
		DataDir:              getEnv("MONITOR_DATA_DIR", ".inout-monitor"),
		PollInterval:         pollInterval,
		ReconnectMaxAttempts: reconnectMaxAttempts,
		ReconnectBaseDelay:   reconnectBaseDelay,
	}

	return config, nil
}

// ValidateGateway validates the fields the gateway binary requires
func (c *Config) ValidateGateway() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Gateway.AdminEmail == "" {
		return fmt.Errorf("ADMIN_EMAIL is required")
	}
	if c.Gateway.AdminPasswordHash == "" {
		return fmt.Errorf("ADMIN_PASSWORD_HASH is required")
	}
	return nil
}

// ValidateMonitor validates the fields the monitor binary requires
func (c *Config) ValidateMonitor() error {
	if c.Monitor.Token == "" {
		return fmt.Errorf("MONITOR_TOKEN is required")
	}
	if c.Monitor.ChannelURL == "" {
		return fmt.Errorf("MONITOR_CHANNEL_URL is required")
	}
	if c.Monitor.APIBaseURL == "" {
		return fmt.Errorf("MONITOR_API_BASE_URL is required")
	}
	if c.Monitor.PollInterval < 5*time.Second || c.Monitor.PollInterval > 10*time.Second {
		return fmt.Errorf("MONITOR_POLL_INTERVAL must be between 5s and 10s")
	}
	return nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvSlice(env, fallback string) []string {
	value := getEnv(env, fallback)
	if value == "" {
		return []string{}
	}
	return strings.Split(value, ",")
}
