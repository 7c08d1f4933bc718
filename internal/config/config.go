package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	JWT      JWTConfig
	App      AppConfig
	Cron     CronConfig
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
	AccessExpiration time.Duration
}

// AppConfig holds application configuration
type AppConfig struct {
	Port     int
	Env      string
	LogLevel string
}

// CronConfig holds the scheduled job intervals.
type CronConfig struct {
	OverdueCheckInterval  time.Duration
	ReminderInterval      time.Duration
	CleanupInterval       time.Duration
	NotificationRetention int
}

func Load() (*Config, error) {
	// .env is optional; environment variables win in deployed environments.
	_ = godotenv.Load()

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "billora"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:     appPort,
		Env:      getEnv("APP_ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	accessExpiration, err := time.ParseDuration(getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid JWT_ACCESS_EXPIRATION_TIME: %w", err)
	}

	config.JWT = JWTConfig{
		Secret:           getEnv("JWT_SECRET_KEY", ""),
		AccessExpiration: accessExpiration,
	}

	overdueInterval, err := time.ParseDuration(getEnv("CRON_OVERDUE_CHECK_INTERVAL", "1h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_OVERDUE_CHECK_INTERVAL: %w", err)
	}
	reminderInterval, err := time.ParseDuration(getEnv("CRON_REMINDER_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_REMINDER_INTERVAL: %w", err)
	}
	cleanupInterval, err := time.ParseDuration(getEnv("CRON_CLEANUP_INTERVAL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid CRON_CLEANUP_INTERVAL: %w", err)
	}
	retention, err := strconv.Atoi(getEnv("NOTIFICATION_RETENTION_DAYS", "30"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATION_RETENTION_DAYS: %w", err)
	}

	config.Cron = CronConfig{
		OverdueCheckInterval:  overdueInterval,
		ReminderInterval:      reminderInterval,
		CleanupInterval:       cleanupInterval,
		NotificationRetention: retention,
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
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
