package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App           AppConfig
	Storefront    StorefrontConfig
	Cart          CartConfig
	Debounce      DebounceConfig
	Gemini        GeminiConfig
	Redis         RedisConfig
	S3            S3Config
	Notifications NotificationConfig
	Log           LogConfig
}

type AppConfig struct {
	Environment   string
	FakeStoreAddr string
	GinMode       string
}

type StorefrontConfig struct {
	BaseURL       string
	Timeout       time.Duration
	CSRFToken     string
	SessionCookie string
}

type CartConfig struct {
	FreeShippingThreshold int64
	Locale                string
	RedirectDelay         time.Duration
	MaxQuantityOptions    int
}

type DebounceConfig struct {
	Search       time.Duration
	Filter       time.Duration
	CardValidate time.Duration
}

type GeminiConfig struct {
	APIKey  string
	Model   string
	BaseURL string
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Enabled reports whether a Redis transcript store was configured.
func (c RedisConfig) Enabled() bool {
	return c.Host != ""
}

type S3Config struct {
	Region          string
	Bucket          string
	AccessKeyID     string
	SecretAccessKey string
}

// Enabled reports whether transcripts should be archived to S3.
func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

type NotificationConfig struct {
	PushPath        string
	RefreshSchedule string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Environment:   getEnv("ENVIRONMENT", "development"),
			FakeStoreAddr: ":" + getEnv("FAKESTORE_PORT", "5000"),
			GinMode:       getEnv("GIN_MODE", "debug"),
		},
		Storefront: StorefrontConfig{
			BaseURL:       getEnv("STOREFRONT_BASE_URL", "http://localhost:5000"),
			Timeout:       parseDuration(getEnv("STOREFRONT_TIMEOUT", "30s"), 30*time.Second),
			CSRFToken:     getEnv("STOREFRONT_CSRF_TOKEN", ""),
			SessionCookie: getEnv("STOREFRONT_SESSION_COOKIE", ""),
		},
		Cart: CartConfig{
			FreeShippingThreshold: parseInt64(getEnv("CART_FREE_SHIPPING_THRESHOLD", "1000000"), 1000000),
			Locale:                getEnv("CART_LOCALE", "vi"),
			RedirectDelay:         parseDuration(getEnv("CHECKOUT_REDIRECT_DELAY", "1.5s"), 1500*time.Millisecond),
			MaxQuantityOptions:    int(parseInt64(getEnv("CART_MAX_QUANTITY_OPTIONS", "10"), 10)),
		},
		Debounce: DebounceConfig{
			Search:       parseDuration(getEnv("SEARCH_DEBOUNCE", "300ms"), 300*time.Millisecond),
			Filter:       parseDuration(getEnv("FILTER_DEBOUNCE", "500ms"), 500*time.Millisecond),
			CardValidate: parseDuration(getEnv("CARD_VALIDATE_DEBOUNCE", "300ms"), 300*time.Millisecond),
		},
		Gemini: GeminiConfig{
			APIKey:  getEnv("GEMINI_API_KEY", ""),
			Model:   getEnv("GEMINI_MODEL", "gemini-1.5-pro-latest"),
			BaseURL: getEnv("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta"),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", ""),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       int(parseInt64(getEnv("REDIS_DB", "0"), 0)),
		},
		S3: S3Config{
			Region:          getEnv("AWS_REGION", "ap-southeast-1"),
			Bucket:          getEnv("AWS_S3_BUCKET", ""),
			AccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
			SecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		},
		Notifications: NotificationConfig{
			PushPath:        getEnv("NOTIFICATIONS_PUSH_PATH", "/ws/notifications"),
			RefreshSchedule: getEnv("REFRESH_SCHEDULE", "@every 1m"),
		},
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "console"),
		},
	}

	return config, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("Invalid duration %s, using default %s", s, fallback)
		return fallback
	}
	return duration
}

func parseInt64(s string, fallback int64) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		log.Printf("Invalid integer %s, using default %d", s, fallback)
		return fallback
	}
	return n
}
