package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "")
	t.Setenv("HTTP_TIMEOUT", "")
	t.Setenv("STORE_DRIVER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.APIBaseURL != "http://localhost:8080/api/v1" {
		t.Errorf("APIBaseURL = %q", cfg.Client.APIBaseURL)
	}
	if cfg.Client.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v, want 10s", cfg.Client.HTTPTimeout)
	}
	if cfg.Client.StoreDriver != "couch" {
		t.Errorf("StoreDriver = %q, want couch", cfg.Client.StoreDriver)
	}
	if cfg.JWT.Expiration != 15*time.Minute {
		t.Errorf("JWT.Expiration = %v, want 15m", cfg.JWT.Expiration)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://shop.example.com/api/v2")
	t.Setenv("HTTP_TIMEOUT", "2s")
	t.Setenv("STORE_DRIVER", "memory")
	t.Setenv("METRICS_ENABLED", "false")
	t.Setenv("BCRYPT_COST", "4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Client.APIBaseURL != "https://shop.example.com/api/v2" {
		t.Errorf("APIBaseURL = %q", cfg.Client.APIBaseURL)
	}
	if cfg.Client.HTTPTimeout != 2*time.Second {
		t.Errorf("HTTPTimeout = %v, want 2s", cfg.Client.HTTPTimeout)
	}
	if cfg.Client.StoreDriver != "memory" {
		t.Errorf("StoreDriver = %q, want memory", cfg.Client.StoreDriver)
	}
	if cfg.Metrics.Enabled {
		t.Error("Metrics.Enabled = true, want false")
	}
	if cfg.Server.BcryptCost != 4 {
		t.Errorf("BcryptCost = %d, want 4", cfg.Server.BcryptCost)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "bad timeout", key: "HTTP_TIMEOUT", value: "soon"},
		{name: "zero timeout", key: "HTTP_TIMEOUT", value: "0s"},
		{name: "bad driver", key: "STORE_DRIVER", value: "redis"},
		{name: "bad jwt expiration", key: "JWT_EXPIRATION", value: "forever"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			if _, err := Load(); err == nil {
				t.Errorf("Load() with %s=%q expected error", tt.key, tt.value)
			}
		})
	}
}

func TestDatabaseURL(t *testing.T) {
	d := DatabaseConfig{Host: "couch", Port: "5984", User: "u", Password: "p"}
	if got := d.URL(); got != "http://u:p@couch:5984" {
		t.Errorf("URL() = %q", got)
	}
}
