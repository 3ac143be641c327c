// Package config loads runtime configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Config holds all runtime configuration for the BrokerX backend.
type Config struct {
	Port     int
	LogLevel string

	DBConnStr string

	CoinGeckoBaseURL  string
	CoinGeckoAPIKey   string
	MarketDataTimeout time.Duration
	PriceSyncInterval time.Duration

	WebhookURL           string
	WebhookTimeout       time.Duration
	NotificationsEnabled bool

	// APITokens maps bearer tokens to user IDs. Tokens are provisioned out
	// of band; format: "token1:uuid1,token2:uuid2".
	APITokens map[string]uuid.UUID

	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	port, err := getInt("PORT", 8080)
	if err != nil {
		return nil, fmt.Errorf("invalid PORT: %w", err)
	}

	logLevel := getStr("LOG_LEVEL", "info")
	switch logLevel {
	case "debug", "info", "warn", "error":
	default:
		return nil, fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", logLevel)
	}

	marketDataTimeout, err := getDuration("MARKET_DATA_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid MARKET_DATA_TIMEOUT: %w", err)
	}
	priceSyncInterval, err := getDuration("PRICE_SYNC_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid PRICE_SYNC_INTERVAL: %w", err)
	}
	webhookTimeout, err := getDuration("WEBHOOK_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}
	readTimeout, err := getDuration("READ_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}
	writeTimeout, err := getDuration("WRITE_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}
	idleTimeout, err := getDuration("IDLE_TIMEOUT", 120*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}
	shutdownTimeout, err := getDuration("SHUTDOWN_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}

	notificationsEnabled, err := getBool("NOTIFICATIONS_ENABLED", true)
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATIONS_ENABLED: %w", err)
	}

	tokens, err := parseAPITokens(getStr("API_TOKENS", ""))
	if err != nil {
		return nil, fmt.Errorf("invalid API_TOKENS: %w", err)
	}

	return &Config{
		Port:                 port,
		LogLevel:             logLevel,
		DBConnStr:            dbConnStr(),
		CoinGeckoBaseURL:     getStr("COINGECKO_BASE_URL", ""),
		CoinGeckoAPIKey:      getStr("COINGECKO_API_KEY", ""),
		MarketDataTimeout:    marketDataTimeout,
		PriceSyncInterval:    priceSyncInterval,
		WebhookURL:           getStr("WEBHOOK_URL", ""),
		WebhookTimeout:       webhookTimeout,
		NotificationsEnabled: notificationsEnabled,
		APITokens:            tokens,
		ReadTimeout:          readTimeout,
		WriteTimeout:         writeTimeout,
		IdleTimeout:          idleTimeout,
		ShutdownTimeout:      shutdownTimeout,
	}, nil
}

// dbConnStr builds the Postgres connection string, preferring an explicit
// DB_CONN_STR over the individual variables (Docker friendly).
func dbConnStr() string {
	if explicit := os.Getenv("DB_CONN_STR"); explicit != "" {
		return explicit
	}

	host := getStr("DB_HOST", "localhost")
	port := getStr("DB_PORT", "5432")
	user := getStr("DB_USER", "postgres")
	password := getStr("DB_PASSWORD", "postgres")
	dbname := getStr("DB_NAME", "brokerx")

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)
}

// parseAPITokens parses "token:uuid" pairs separated by commas.
func parseAPITokens(raw string) (map[string]uuid.UUID, error) {
	tokens := make(map[string]uuid.UUID)
	if raw == "" {
		return tokens, nil
	}

	for _, pair := range strings.Split(raw, ",") {
		token, id, ok := strings.Cut(strings.TrimSpace(pair), ":")
		if !ok || token == "" {
			return nil, fmt.Errorf("malformed token pair %q", pair)
		}
		userID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("malformed user ID in pair %q: %w", pair, err)
		}
		tokens[token] = userID
	}
	return tokens, nil
}

func getStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.Atoi(v)
}

func getBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	return strconv.ParseBool(v)
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive, got %s", d)
	}
	return d, nil
}
