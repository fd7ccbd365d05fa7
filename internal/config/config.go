package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	// DefaultOpenAIModel is the chat model used for caption translation.
	DefaultOpenAIModel = "gpt-4o"
	// DefaultDedupResetInterval is how often the processed-album registry is emptied.
	DefaultDedupResetInterval = 72 * time.Hour
	// DefaultTranslateTimeout bounds a single translation call.
	DefaultTranslateTimeout = 60 * time.Second
)

// Config holds the application configuration.
type Config struct {
	AppEnv             string
	Debug              bool
	Version            string
	BotToken           string
	ChannelID          int64
	OpenAIAPIKey       string
	OpenAIModel        string
	TranslateTimeout   time.Duration
	DedupResetInterval time.Duration
	DefaultLanguage    string
	SentryDSN          string
	MongoDBURI         string
	MongoDBDatabase    string
}

// PostLogEnabled reports whether published posts should be written to MongoDB.
func (c *Config) PostLogEnabled() bool {
	return c.MongoDBURI != ""
}

// LoadConfig loads configuration from environment variables.
// It attempts to load a .env file if present but prioritizes
// actual environment variables set in the system (e.g., by Docker).
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on environment variables")
	}
	return fromEnv()
}

func fromEnv() (*Config, error) {
	debug, _ := strconv.ParseBool(getEnv("DEBUG", "false"))

	channelIDStr := getEnv("CHANNEL_ID", "")
	var channelID int64
	if channelIDStr != "" {
		id, err := strconv.ParseInt(channelIDStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid CHANNEL_ID: %w", err)
		}
		channelID = id
	}

	resetInterval, err := getDuration("DEDUP_RESET_INTERVAL", DefaultDedupResetInterval)
	if err != nil {
		return nil, err
	}
	translateTimeout, err := getDuration("TRANSLATE_TIMEOUT", DefaultTranslateTimeout)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		AppEnv:             getEnv("APP_ENV", "development"),
		Debug:              debug,
		Version:            getEnv("VERSION", "dev"),
		BotToken:           getEnv("TELEGRAM_BOT_TOKEN", getEnv("BOT_TOKEN", "")),
		ChannelID:          channelID,
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:        getEnv("OPENAI_MODEL", DefaultOpenAIModel),
		TranslateTimeout:   translateTimeout,
		DedupResetInterval: resetInterval,
		DefaultLanguage:    getEnv("DEFAULT_LANGUAGE", "ru"),
		SentryDSN:          getEnv("SENTRY_DSN", ""),
		MongoDBURI:         getEnv("MONGODB_URI", ""),
		MongoDBDatabase:    getEnv("MONGODB_DATABASE", "kgrelay"),
	}

	if cfg.BotToken == "" {
		return nil, fmt.Errorf("TELEGRAM_BOT_TOKEN is required")
	}
	if cfg.ChannelID == 0 {
		return nil, fmt.Errorf("CHANNEL_ID is required")
	}
	if cfg.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("OPENAI_API_KEY is required")
	}
	if cfg.SentryDSN == "" {
		log.Println("Warning: SENTRY_DSN is not set. Error tracking disabled.")
	}
	if !cfg.PostLogEnabled() {
		log.Println("Warning: MONGODB_URI is not set. Published posts will not be logged.")
	}

	return cfg, nil
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid %s: must be positive", key)
	}
	return d, nil
}
