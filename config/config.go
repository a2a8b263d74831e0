package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/Madhav-Gupta-28/storefront-go/database"
	"github.com/Madhav-Gupta-28/storefront-go/pricing"
	"github.com/joho/godotenv"
)

var ErrMissingAPIURL = errors.New("API_URL is not set")

// LoadEnv loads environment variables from a .env file
func LoadEnv() {
	err := godotenv.Load(".env")
	if err != nil {
		log.Println("No .env file loaded")
	}
}

// GetEnv retrieves environment variables with a fallback
func GetEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

// firstEnv returns the first non-empty variable of keys.
func firstEnv(fallback string, keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return fallback
}

type Config struct {
	Port            string
	APIURL          string
	RazorpayKey     string
	JWTSecret       string
	SessionTTL      time.Duration
	SessionIdle     time.Duration
	UpstreamTimeout time.Duration
	AdminPasscode   string
	LogLevel        string
	Store           database.Options
	Rules           pricing.Rules
}

// Load reads the process environment. The REACT_APP_ names are accepted
// for deployments that share one .env with the browser build.
func Load() (Config, error) {
	cfg := Config{
		Port:          GetEnv("PORT", "3000"),
		APIURL:        firstEnv("", "API_URL", "REACT_APP_API_URL"),
		RazorpayKey:   firstEnv("", "RAZORPAY_KEY_ID", "REACT_APP_RAZORPAY_KEY"),
		JWTSecret:     GetEnv("JWT_SECRET", ""),
		AdminPasscode: GetEnv("ADMIN_PASSCODE_HASH", ""),
		LogLevel:      GetEnv("LOG_LEVEL", "info"),
		Store: database.Options{
			Driver:        database.Driver(GetEnv("STORE_DRIVER", string(database.DriverMemory))),
			MongoURI:      GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
			MongoDatabase: GetEnv("MONGODB_DATABASE", "storefront"),
			SQLitePath:    GetEnv("SQLITE_PATH", "storefront.db"),
			RedisAddr:     GetEnv("REDIS_ADDR", "localhost:6379"),
			RedisPassword: GetEnv("REDIS_PASSWORD", ""),
		},
	}
	if cfg.APIURL == "" {
		return Config{}, ErrMissingAPIURL
	}

	var err error
	if cfg.UpstreamTimeout, err = duration("UPSTREAM_TIMEOUT", 10*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.SessionTTL, err = duration("SESSION_TTL", 7*24*time.Hour); err != nil {
		return Config{}, err
	}
	if cfg.SessionIdle, err = duration("SESSION_IDLE", 30*time.Minute); err != nil {
		return Config{}, err
	}

	cfg.Rules = pricing.DefaultRules()
	if path := GetEnv("PRICING_FILE", ""); path != "" {
		if cfg.Rules, err = pricing.LoadRules(path); err != nil {
			return Config{}, fmt.Errorf("PRICING_FILE: %w", err)
		}
	}
	return cfg, nil
}

// duration accepts Go durations ("15s") or bare seconds ("15").
func duration(key string, fallback time.Duration) (time.Duration, error) {
	raw := GetEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	if secs, err := strconv.Atoi(raw); err == nil {
		return time.Duration(secs) * time.Second, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
