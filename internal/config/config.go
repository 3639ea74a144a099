package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
)

const (
	DefaultBaseURL        = "https://www.golfgenius.com/api_v2"
	DefaultRequestTimeout = 30 * time.Second
	DefaultMaxRetries     = 3
	DefaultRetryDelay     = time.Second
	DefaultRateLimitDelay = 500 * time.Millisecond
	DefaultWorkers        = 4
	DefaultDBName         = "tga_audit.db"
	DefaultPort           = "8080"

	minAPIKeyLength = 10
)

// Load reads configuration from the environment and a .env file, failing
// when the Golf Genius API key is missing or malformed.
func Load() Config {
	cfg := FromEnv()
	if cfg.GolfGenius.APIKey == "" {
		log.Fatal("Error: Required environment variable GOLF_GENIUS_API_KEY is not set.")
	}
	if !ValidateAPIKey(cfg.GolfGenius.APIKey) {
		log.Fatal("Error: GOLF_GENIUS_API_KEY has an invalid format.")
	}
	return cfg
}

// FromEnv reads configuration without enforcing required values. The CLI uses
// it so that flags can fill in what the environment leaves out.
func FromEnv() Config {
	if err := godotenv.Load(); err != nil {
		log.Debug("No .env file found, reading from environment variables")
	}

	return Config{
		DBName:    getEnv("DB_NAME", DefaultDBName),
		Port:      getEnv("PORT", DefaultPort),
		OutputDir: getEnv("OUTPUT_DIR", "."),
		GolfGenius: GolfGeniusConfig{
			APIKey:         strings.TrimSpace(os.Getenv("GOLF_GENIUS_API_KEY")),
			BaseURL:        strings.TrimRight(getEnv("GOLF_GENIUS_BASE_URL", DefaultBaseURL), "/"),
			RequestTimeout: getDuration("REQUEST_TIMEOUT", DefaultRequestTimeout),
			MaxRetries:     getInt("MAX_RETRIES", DefaultMaxRetries),
			RetryDelay:     getDuration("RETRY_DELAY", DefaultRetryDelay),
			RateLimitDelay: getDuration("RATE_LIMIT_DELAY", DefaultRateLimitDelay),
		},
		Audit: AuditConfig{
			Workers:  getInt("AUDIT_WORKERS", DefaultWorkers),
			Polarity: os.Getenv("FLAG_POLARITY"),
		},
		Slack: SlackConfig{
			Token:     os.Getenv("SLACK_BOT_TOKEN"),
			ChannelID: os.Getenv("SLACK_CHANNEL_ID"),
		},
		Turso: TursoConfig{
			PrimaryURL: os.Getenv("TURSO_PRIMARY_URL"),
			AuthToken:  os.Getenv("TURSO_AUTH_TOKEN"),
		},
		ProjectID: os.Getenv("GCP_PROJECT"),
	}
}

// ValidateAPIKey checks the key is at least 10 characters and has no
// whitespace.
func ValidateAPIKey(key string) bool {
	if len(key) < minAPIKeyLength {
		return false
	}
	return !strings.ContainsAny(key, " \t\n\r\v\f")
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil || n < 0 {
		log.Warn("Ignoring invalid integer setting", "key", key, "value", value)
		return fallback
	}
	return n
}

// getDuration accepts Go durations ("750ms") or plain seconds ("30", "0.5").
func getDuration(key string, fallback time.Duration) time.Duration {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	if d, err := time.ParseDuration(value); err == nil && d >= 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(value, 64); err == nil && secs >= 0 {
		return time.Duration(secs * float64(time.Second))
	}
	log.Warn("Ignoring invalid duration setting", "key", key, "value", value)
	return fallback
}
