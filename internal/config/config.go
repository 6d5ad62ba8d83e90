package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ndewijer/Realt-Assistant-Backend/internal/investment"
)

// Bot transport modes.
const (
	ModeWebhook = "webhook"
	ModePolling = "polling"
)

// Config holds all configuration for the application
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	CORS       CORSConfig
	Telegram   TelegramConfig
	Catalog    CatalogConfig
	MiniApp    MiniAppConfig
	Investment InvestmentConfig
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port string
	Host string
	Addr string // Combined host:port for convenience
}

// DatabaseConfig holds database-specific configuration
type DatabaseConfig struct {
	Path string
}

// CORSConfig holds CORS-specific configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// TelegramConfig holds Bot API configuration
type TelegramConfig struct {
	Token         string
	APIURL        string
	WebhookURL    string
	WebhookSecret string
	Mode          string // ModeWebhook or ModePolling
}

// CatalogConfig holds configuration of the developer catalog API
type CatalogConfig struct {
	Token           string
	BaseURL         string // v2 API, facility listing
	BaseURLV1       string // v1 API, details, clusters and lots
	RefreshSchedule string // cron spec
	RedisAddr       string // optional snapshot store; empty keeps the snapshot in memory
}

// MiniAppConfig holds configuration of the Telegram mini app and its API tokens
type MiniAppConfig struct {
	URL      string
	TokenKey string // base64 fernet key; empty generates an ephemeral key
	TokenTTL time.Duration
}

// InvestmentConfig holds defaults for investment assumptions that a property has not set,
// and the deposit benchmark the projection is compared against.
type InvestmentConfig struct {
	BenchmarkRate        float64
	Years                int
	AppreciationRate     float64
	OccupancyRate        float64
	OperatingExpensesPct float64
	ManagementFeePct     float64
	TaxRate              float64
}

// Load reads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	miniAppURL := getEnv("MINIAPP_URL", "https://realt-assistant.ru/miniapp")

	config := &Config{
		Server: ServerConfig{
			Port: getEnv("SERVER_PORT", "8080"),
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./data/realt.db"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitList(getEnv("CORS_ALLOWED_ORIGINS", originOf(miniAppURL))),
		},
		Telegram: TelegramConfig{
			Token:         os.Getenv("TELEGRAM_BOT_TOKEN"),
			APIURL:        getEnv("TELEGRAM_API_URL", "https://api.telegram.org"),
			WebhookURL:    os.Getenv("WEBHOOK_URL"),
			WebhookSecret: os.Getenv("WEBHOOK_SECRET"),
			Mode:          strings.ToLower(getEnv("BOT_MODE", ModeWebhook)),
		},
		Catalog: CatalogConfig{
			Token:           os.Getenv("YGROUP_API_TOKEN"),
			BaseURL:         getEnv("YGROUP_API_URL", "https://api.y-group.ru/api/v2"),
			BaseURLV1:       getEnv("YGROUP_API_URL_V1", "https://api.y-group.ru/api/v1"),
			RefreshSchedule: getEnv("CATALOG_REFRESH_SCHEDULE", "@every 6h"),
			RedisAddr:       os.Getenv("REDIS_ADDR"),
		},
		MiniApp: MiniAppConfig{
			URL:      miniAppURL,
			TokenKey: os.Getenv("MINIAPP_TOKEN_KEY"),
		},
	}

	if config.Telegram.Token == "" {
		return nil, errors.New("TELEGRAM_BOT_TOKEN is required")
	}
	if config.Telegram.Mode != ModeWebhook && config.Telegram.Mode != ModePolling {
		return nil, fmt.Errorf("BOT_MODE must be %q or %q, got %q", ModeWebhook, ModePolling, config.Telegram.Mode)
	}

	var err error
	if config.MiniApp.TokenTTL, err = getEnvDuration("MINIAPP_TOKEN_TTL", 24*time.Hour); err != nil {
		return nil, err
	}
	if config.Investment, err = loadInvestment(); err != nil {
		return nil, err
	}

	// Combine host and port
	config.Server.Addr = fmt.Sprintf("%s:%s", config.Server.Host, config.Server.Port)

	return config, nil
}

func loadInvestment() (InvestmentConfig, error) {
	var (
		inv InvestmentConfig
		err error
	)

	floats := []struct {
		key    string
		def    float64
		target *float64
	}{
		{"INVESTMENT_BENCHMARK_RATE", 21, &inv.BenchmarkRate},
		{"DEFAULT_APPRECIATION_RATE", 10, &inv.AppreciationRate},
		{"DEFAULT_OCCUPANCY_RATE", 70, &inv.OccupancyRate},
		{"DEFAULT_OPERATING_EXPENSES", 10, &inv.OperatingExpensesPct},
		{"DEFAULT_MANAGEMENT_FEE", 20, &inv.ManagementFeePct},
		{"DEFAULT_TAX_RATE", 4, &inv.TaxRate},
	}
	for _, f := range floats {
		if *f.target, err = getEnvFloat(f.key, f.def); err != nil {
			return InvestmentConfig{}, err
		}
	}

	if inv.Years, err = getEnvInt("INVESTMENT_YEARS", 5); err != nil {
		return InvestmentConfig{}, err
	}
	if inv.Years < 1 || inv.Years > investment.MaxYears {
		return InvestmentConfig{}, fmt.Errorf("INVESTMENT_YEARS must be between 1 and %d, got %d", investment.MaxYears, inv.Years)
	}

	return inv, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvFloat(key string, defaultValue float64) (float64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return f, nil
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	i, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return i, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// originOf trims the path from a URL so it can be used as a CORS origin.
func originOf(rawURL string) string {
	scheme, rest, ok := strings.Cut(rawURL, "://")
	if !ok {
		return rawURL
	}
	host, _, _ := strings.Cut(rest, "/")
	return scheme + "://" + host
}
