package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Database   DatabaseConfig
	Redis      RedisConfig
	JWT        JWTConfig
	Server     ServerConfig
	PayChangu  PayChanguConfig
	Slack      SlackConfig
	SelfHosted bool
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string //nolint:gosec // G117: DB connection config
	DBName   string
	SSLMode  string
	MaxConns int
}

// RedisConfig holds Redis connection settings for the session store.
type RedisConfig struct {
	Addr       string
	Password   string //nolint:gosec // G117: Redis connection config
	DB         int
	SessionTTL time.Duration
}

// JWTConfig holds JWT authentication settings.
type JWTConfig struct {
	Secret     string //nolint:gosec // G117: JWT signing secret config
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	CORSOrigins  []string
	DashboardURL string
}

// PayChanguConfig holds payment gateway settings.
type PayChanguConfig struct {
	BaseURL       string
	SecretKey     string //nolint:gosec // G117: gateway credential config
	WebhookSecret string //nolint:gosec // G117: webhook shared secret config
	CallbackURL   string
	ReturnURL     string
	Timeout       time.Duration
}

// SlackConfig holds payment notification settings. Optional; notifications
// fall back to log-only when the bot token is empty.
type SlackConfig struct {
	BotToken string
	Channel  string
}

// Load reads configuration from environment variables.
// Defaults are safe for local development only. In production,
// sensitive values (JWT secret, gateway keys) must be set explicitly.
func Load() (*Config, error) {
	dbPort, err := getEnvInt("ZATHU_DB_PORT", 5432)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	dbMaxConns, err := getEnvInt("ZATHU_DB_MAX_CONNS", 25)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	redisDB, err := getEnvInt("ZATHU_REDIS_DB", 0)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	sessionTTL, err := getEnvDuration("ZATHU_SESSION_TTL", 24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	accessTTL, err := getEnvDuration("ZATHU_JWT_ACCESS_TTL", 15*time.Minute)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	refreshTTL, err := getEnvDuration("ZATHU_JWT_REFRESH_TTL", 7*24*time.Hour)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	readTimeout, err := getEnvDuration("ZATHU_SERVER_READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	writeTimeout, err := getEnvDuration("ZATHU_SERVER_WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	gatewayTimeout, err := getEnvDuration("ZATHU_PAYCHANGU_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	selfHosted, err := getEnvBool("ZATHU_SELF_HOSTED", false)
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	corsOrigins := getEnvList("ZATHU_CORS_ORIGINS", []string{"http://localhost:5173"})

	cfg := &Config{
		Database: DatabaseConfig{
			Host:     getEnv("ZATHU_DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("ZATHU_DB_USER", "zathu"),
			Password: getEnv("ZATHU_DB_PASSWORD", ""),
			DBName:   getEnv("ZATHU_DB_NAME", "zathu_dev"),
			SSLMode:  getEnv("ZATHU_DB_SSLMODE", "disable"),
			MaxConns: dbMaxConns,
		},
		Redis: RedisConfig{
			Addr:       getEnv("ZATHU_REDIS_ADDR", "localhost:6379"),
			Password:   getEnv("ZATHU_REDIS_PASSWORD", ""),
			DB:         redisDB,
			SessionTTL: sessionTTL,
		},
		JWT: JWTConfig{
			Secret:     getEnv("ZATHU_JWT_SECRET", ""),
			AccessTTL:  accessTTL,
			RefreshTTL: refreshTTL,
		},
		Server: ServerConfig{
			Addr:         getEnv("ZATHU_SERVER_ADDR", ":8080"),
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
			CORSOrigins:  corsOrigins,
			DashboardURL: getEnv("ZATHU_DASHBOARD_URL", "http://localhost:5173"),
		},
		PayChangu: PayChanguConfig{
			BaseURL:       getEnv("ZATHU_PAYCHANGU_BASE_URL", "https://api.paychangu.com"),
			SecretKey:     getEnv("ZATHU_PAYCHANGU_SECRET_KEY", ""),
			WebhookSecret: getEnv("ZATHU_PAYCHANGU_WEBHOOK_SECRET", ""),
			CallbackURL:   getEnv("ZATHU_PAYCHANGU_CALLBACK_URL", ""),
			ReturnURL:     getEnv("ZATHU_PAYCHANGU_RETURN_URL", ""),
			Timeout:       gatewayTimeout,
		},
		Slack: SlackConfig{
			BotToken: getEnv("ZATHU_SLACK_BOT_TOKEN", ""),
			Channel:  getEnv("ZATHU_SLACK_CHANNEL", ""),
		},
		SelfHosted: selfHosted,
	}

	err = cfg.validate()
	if err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}

	return cfg, nil
}

// validate checks required fields and value bounds.
func (c *Config) validate() error {
	// JWT secret is required (no insecure default).
	if c.JWT.Secret == "" {
		return errors.New("ZATHU_JWT_SECRET is required")
	}
	if len(c.JWT.Secret) < 32 {
		return errors.New("ZATHU_JWT_SECRET must be at least 32 characters")
	}

	// DB SSL mode warning for non-self-hosted deployments.
	if c.Database.SSLMode == "disable" && !c.SelfHosted {
		log.Warn().Msg("ZATHU_DB_SSLMODE=disable is insecure for production; set to 'require' or 'verify-full'")
	}

	if c.PayChangu.SecretKey == "" {
		log.Warn().Msg("ZATHU_PAYCHANGU_SECRET_KEY is empty; payment initiation will be rejected by the gateway")
	}
	if c.PayChangu.WebhookSecret == "" {
		log.Warn().Msg("ZATHU_PAYCHANGU_WEBHOOK_SECRET is empty; inbound webhooks will fail signature verification")
	}

	// Bounds checks.
	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("ZATHU_DB_PORT must be 1-65535, got %d", c.Database.Port)
	}
	if c.Database.MaxConns < 1 {
		return fmt.Errorf("ZATHU_DB_MAX_CONNS must be >= 1, got %d", c.Database.MaxConns)
	}
	if c.Redis.SessionTTL <= 0 {
		return fmt.Errorf("ZATHU_SESSION_TTL must be positive, got %s", c.Redis.SessionTTL)
	}
	if c.JWT.AccessTTL <= 0 {
		return fmt.Errorf("ZATHU_JWT_ACCESS_TTL must be positive, got %s", c.JWT.AccessTTL)
	}
	if c.JWT.RefreshTTL <= 0 {
		return fmt.Errorf("ZATHU_JWT_REFRESH_TTL must be positive, got %s", c.JWT.RefreshTTL)
	}
	if c.Server.ReadTimeout <= 0 {
		return fmt.Errorf("ZATHU_SERVER_READ_TIMEOUT must be positive, got %s", c.Server.ReadTimeout)
	}
	if c.Server.WriteTimeout <= 0 {
		return fmt.Errorf("ZATHU_SERVER_WRITE_TIMEOUT must be positive, got %s", c.Server.WriteTimeout)
	}
	if c.PayChangu.Timeout <= 0 {
		return fmt.Errorf("ZATHU_PAYCHANGU_TIMEOUT must be positive, got %s", c.PayChangu.Timeout)
	}

	return nil
}

// DSN returns the PostgreSQL connection string.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as int: %w", key, v, err)
	}
	return n, nil
}

func getEnvBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parsing %s=%q as bool: %w", key, v, err)
	}
	return b, nil
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parsing %s=%q as duration: %w", key, v, err)
	}
	return d, nil
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	parts := strings.Split(v, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}
