package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	WeatherAPIKey     string
	WeatherAPIBaseURL string

	// HTTPTimeout bounds outbound provider calls (0 = no timeout).
	HTTPTimeout time.Duration

	// RefreshInterval triggers a periodic "refresh all" (0 = disabled).
	RefreshInterval time.Duration

	// Local storage for the selected cities.
	StorageDriver string // sqlite, mysql or memory
	StorageDSN    string // file path for sqlite, DSN for mysql

	// BreakerThreshold is the number of consecutive provider failures after which
	// fetches go straight to the fallback for BreakerCooldown (0 = never).
	BreakerThreshold int
	BreakerCooldown  time.Duration

	Port string
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.WeatherAPIKey = os.Getenv("WEATHERAPI_API_KEY")
	cfg.WeatherAPIBaseURL = getenvDefault("WEATHERAPI_BASE_URL", "https://api.weatherapi.com/v1/forecast.json")
	if cfg.WeatherAPIKey == "" {
		log.Println("WARN: WEATHERAPI_API_KEY is not set; every card will show the fallback forecast")
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "0"); err != nil {
		return nil, err
	}
	if cfg.RefreshInterval, err = getenvDuration("REFRESH_INTERVAL", "0"); err != nil {
		return nil, err
	}
	if cfg.BreakerCooldown, err = getenvDuration("PROVIDER_BREAKER_COOLDOWN", "2m"); err != nil {
		return nil, err
	}

	cfg.BreakerThreshold = getenvInt("PROVIDER_BREAKER_THRESHOLD", 0)
	if cfg.BreakerThreshold < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_BREAKER_THRESHOLD: must not be negative")
	}

	cfg.StorageDriver = getenvDefault("STORAGE_DRIVER", "sqlite")
	switch cfg.StorageDriver {
	case "sqlite", "mysql", "memory":
	default:
		return nil, fmt.Errorf("invalid STORAGE_DRIVER %q: use sqlite, mysql or memory", cfg.StorageDriver)
	}
	cfg.StorageDSN = getenvDefault("STORAGE_DSN", "dashboard.db")
	cfg.Port = getenvDefault("PORT", "8080")

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("invalid %s: must not be negative", key)
	}
	return d, nil
}
