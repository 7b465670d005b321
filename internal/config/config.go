package config

import (
	"os"
	"strconv"
	"time"

	"github.com/Alias1177/ChartBot/internal/chart"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	BotToken       string `env:"TELEGRAM_BOT_TOKEN"`
	WebhookURL     string `env:"WEBHOOK_URL"`
	Port           int    `env:"PORT" envDefault:"8443"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	RequestTimeout int    `env:"REQUEST_TIMEOUT" envDefault:"30"` // seconds
	RequestsPerSec int    `env:"REQUESTS_PER_SEC" envDefault:"5"`
	MaxRetries     int    `env:"MAX_RETRIES" envDefault:"3"`
	MaxBars        int    `env:"MAX_BARS" envDefault:"100"`
	Workers        int    `env:"WORKERS" envDefault:"4"`
	YahooBaseURL   string `env:"YAHOO_BASE_URL"`

	AccessKey   string `env:"ACCESS_KEY"`
	SecretKey   string `env:"SECRET_KEY"`
	S3Bucket    string `env:"S3_BUCKET" envDefault:"stocks-bot"`
	S3Region    string `env:"S3_REGION" envDefault:"sa-east-1"`
	S3PublicURL string `env:"S3_PUBLIC_URL"`

	ChartTheme        string  `env:"CHART_THEME" envDefault:"darkgrid"`
	ChartWidth        int     `env:"CHART_WIDTH"`
	ChartHeight       int     `env:"CHART_HEIGHT"`
	ChartDPI          float64 `env:"CHART_DPI"`
	ChartVolumeFactor float64 `env:"CHART_VOLUME_FACTOR" envDefault:"5"`
	ChartLabelFormat  string  `env:"CHART_LABEL_FORMAT" envDefault:"02/01-15:04"`

	RedisAddr     string `env:"REDIS_ADDR"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	CacheTTL      int    `env:"CACHE_TTL" envDefault:"60"` // seconds

	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT" envDefault:"5432"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBSSLMode  string `env:"DB_SSLMODE" envDefault:"disable"`
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.BotToken = getEnvWithDefault("TELEGRAM_BOT_TOKEN", os.Getenv("TOKEN"))
	cfg.WebhookURL = os.Getenv("WEBHOOK_URL")
	cfg.Port = getEnvIntWithDefault("PORT", 8443)
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")
	cfg.RequestTimeout = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestsPerSec = getEnvIntWithDefault("REQUESTS_PER_SEC", 5)
	cfg.MaxRetries = getEnvIntWithDefault("MAX_RETRIES", 3)
	cfg.MaxBars = getEnvIntWithDefault("MAX_BARS", 100)
	cfg.Workers = getEnvIntWithDefault("WORKERS", 4)
	cfg.YahooBaseURL = os.Getenv("YAHOO_BASE_URL")

	cfg.AccessKey = os.Getenv("ACCESS_KEY")
	cfg.SecretKey = os.Getenv("SECRET_KEY")
	cfg.S3Bucket = getEnvWithDefault("S3_BUCKET", "stocks-bot")
	cfg.S3Region = getEnvWithDefault("S3_REGION", "sa-east-1")
	cfg.S3PublicURL = os.Getenv("S3_PUBLIC_URL")

	cfg.ChartTheme = getEnvWithDefault("CHART_THEME", "darkgrid")
	cfg.ChartWidth = getEnvIntWithDefault("CHART_WIDTH", 0)
	cfg.ChartHeight = getEnvIntWithDefault("CHART_HEIGHT", 0)
	cfg.ChartDPI = getEnvFloatWithDefault("CHART_DPI", 0)
	cfg.ChartVolumeFactor = getEnvFloatWithDefault("CHART_VOLUME_FACTOR", 5)
	cfg.ChartLabelFormat = getEnvWithDefault("CHART_LABEL_FORMAT", "02/01-15:04")

	cfg.RedisAddr = os.Getenv("REDIS_ADDR")
	cfg.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.CacheTTL = getEnvIntWithDefault("CACHE_TTL", 60)

	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	return &cfg, nil
}

// RequestTimeoutDuration returns the HTTP timeout as a duration
func (c *Config) RequestTimeoutDuration() time.Duration {
	return time.Duration(c.RequestTimeout) * time.Second
}

// CacheTTLDuration returns the history cache TTL as a duration
func (c *Config) CacheTTLDuration() time.Duration {
	return time.Duration(c.CacheTTL) * time.Second
}

// ChartOptions builds renderer options from the theme preset and the CHART_* overrides
func (c *Config) ChartOptions() chart.Options {
	opts := chart.ThemeOptions(c.ChartTheme)
	if c.ChartWidth > 0 {
		opts.Width = c.ChartWidth
	}
	if c.ChartHeight > 0 {
		opts.Height = c.ChartHeight
	}
	if c.ChartDPI > 0 {
		opts.DPI = c.ChartDPI
	}
	if c.ChartVolumeFactor > 0 {
		opts.VolumeFactor = c.ChartVolumeFactor
	}
	if c.ChartLabelFormat != "" {
		opts.LabelFormat = c.ChartLabelFormat
	}
	return opts
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
