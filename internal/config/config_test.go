package config

import (
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"WEATHERAPI_API_KEY", "WEATHERAPI_BASE_URL", "HTTP_TIMEOUT", "REFRESH_INTERVAL",
		"STORAGE_DRIVER", "STORAGE_DSN", "PROVIDER_BREAKER_THRESHOLD", "PROVIDER_BREAKER_COOLDOWN", "PORT",
	} {
		t.Setenv(k, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTPTimeout != 0 || cfg.RefreshInterval != 0 {
		t.Fatalf("expected no timeout and no periodic refresh, got %v %v", cfg.HTTPTimeout, cfg.RefreshInterval)
	}
	if cfg.StorageDriver != "sqlite" || cfg.StorageDSN != "dashboard.db" {
		t.Fatalf("unexpected storage defaults %q %q", cfg.StorageDriver, cfg.StorageDSN)
	}
	if cfg.BreakerThreshold != 0 || cfg.BreakerCooldown != 2*time.Minute {
		t.Fatalf("unexpected breaker defaults %d %v", cfg.BreakerThreshold, cfg.BreakerCooldown)
	}
	if cfg.WeatherAPIBaseURL != "https://api.weatherapi.com/v1/forecast.json" || cfg.Port != "8080" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("WEATHERAPI_API_KEY", "abc")
	t.Setenv("REFRESH_INTERVAL", "15m")
	t.Setenv("STORAGE_DRIVER", "memory")
	t.Setenv("PROVIDER_BREAKER_THRESHOLD", "3")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.WeatherAPIKey != "abc" || cfg.RefreshInterval != 15*time.Minute ||
		cfg.StorageDriver != "memory" || cfg.BreakerThreshold != 3 {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := map[string]string{
		"REFRESH_INTERVAL":           "often",
		"HTTP_TIMEOUT":               "-1s",
		"STORAGE_DRIVER":             "redis",
		"PROVIDER_BREAKER_THRESHOLD": "-2",
	}
	for key, val := range tests {
		t.Run(key, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(key, val)
			if _, err := Load(); err == nil {
				t.Fatalf("expected error for %s=%s", key, val)
			}
		})
	}
}
