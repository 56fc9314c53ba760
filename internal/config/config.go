package config

import (
	"errors"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds application configuration loaded from environment and file.
// Priority: env vars → config.toml → defaults
type Config struct {
	// TelegramToken is the Telegram Bot API token. Required.
	TelegramToken string

	// WebAppAddr is the address the webapp server binds to (host:port),
	// assembled from WEBAPP_HOST and WEBAPP_PORT.
	WebAppAddr string

	// WebAppURL is the public URL of the game hub, used for the inline
	// WebApp button. Telegram requires HTTPS here.
	WebAppURL string

	// SharedSecret authenticates server-to-server calls to the credit
	// endpoint. Empty disables the secret path entirely; WebApp clients
	// authenticate with signed initData instead.
	SharedSecret string

	// SessionSecret signs the short-lived session tokens issued to the
	// WebApp after initData verification. Falls back to SharedSecret.
	SessionSecret string

	// AdminIDs are Telegram user IDs allowed to run admin commands.
	AdminIDs []int64

	// DBPath is the SQLite database file.
	DBPath string

	// BSCRPC is the BSC JSON-RPC endpoint. Empty disables the deposit
	// watcher.
	BSCRPC string

	// TreasuryAddress is the on-chain address deposits must be sent to.
	TreasuryAddress string

	// OWCPerBNB is the deposit conversion rate.
	OWCPerBNB int64

	// ExchangeRate is the OWC-per-unit rate used by /convert.
	ExchangeRate int64

	// Economy holds the reward/price tunables from config.toml.
	Economy Economy
}

// ErrNoToken is returned by Load when TELEGRAM_TOKEN is not set.
var ErrNoToken = errors.New("config: TELEGRAM_TOKEN is not set")

// Load reads configuration from the environment and the optional TOML
// file. Environment variables override file values. A .env file in the
// working directory is folded into the environment first.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fileConfig, err := LoadFile()
	if err != nil {
		return nil, err
	}

	host := getEnvOrFile("WEBAPP_HOST", fileConfig.WebAppHost, "0.0.0.0")
	port := getEnvOrFile("WEBAPP_PORT", fileConfig.WebAppPort, "8082")

	cfg := &Config{
		TelegramToken:   strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		WebAppAddr:      host + ":" + port,
		WebAppURL:       getEnvOrFile("WEBAPP_URL", fileConfig.WebAppURL, ""),
		SharedSecret:    getEnvOrFile("WEBAPP_SHARED_SECRET", fileConfig.SharedSecret, ""),
		SessionSecret:   getEnvOrFile("SESSION_SECRET", fileConfig.SessionSecret, ""),
		AdminIDs:        parseAdminIDs(getEnvOrFile("ADMIN_IDS", fileConfig.AdminIDs, "")),
		DBPath:          getEnvOrFile("DB_PATH", fileConfig.DBPath, "oneworld.db"),
		BSCRPC:          getEnvOrFile("BSC_RPC", fileConfig.BSCRPC, ""),
		TreasuryAddress: getEnvOrFile("TREASURY_ADDRESS", fileConfig.TreasuryAddress, ""),
		OWCPerBNB:       getEnvInt64OrFile("OWC_PER_BNB", fileConfig.OWCPerBNB, 10000),
		ExchangeRate:    getEnvInt64OrFile("OWC_EXCHANGE_RATE", fileConfig.ExchangeRate, 100),
		Economy:         fileConfig.Economy.withDefaults(),
	}

	if cfg.TelegramToken == "" {
		return nil, ErrNoToken
	}
	if cfg.SessionSecret == "" {
		cfg.SessionSecret = cfg.SharedSecret
	}
	return cfg, nil
}

// IsAdmin reports whether id is listed in ADMIN_IDS.
func (c *Config) IsAdmin(id int64) bool {
	for _, a := range c.AdminIDs {
		if a == id {
			return true
		}
	}
	return false
}

// parseAdminIDs splits a comma-separated ID list, dropping anything that
// does not parse as an integer.
func parseAdminIDs(s string) []int64 {
	var ids []int64
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// getEnvOrFile returns env value, file value, or default (in priority order)
func getEnvOrFile(key, fileValue, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	if fileValue != "" {
		return fileValue
	}
	return defaultValue
}

// getEnvInt64OrFile returns env int, file int, or default (in priority order)
func getEnvInt64OrFile(key string, fileValue int64, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil {
			return n
		}
	}
	if fileValue != 0 {
		return fileValue
	}
	return defaultValue
}
