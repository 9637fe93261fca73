package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/joho/godotenv"

	"github.com/you/usersvc/internal/config"
)

// LoadTestConfig loads configuration for end-to-end tests. Values come from
// .env.test when present; secrets fall back to fixed test values.
func LoadTestConfig(t *testing.T) *config.Config {
	t.Helper()

	if err := godotenv.Load(".env.test"); err != nil {
		t.Logf("no .env.test, using defaults: %v", err)
	}

	for key, value := range map[string]string{
		"ACCESS_TOKEN_SECRET":  "test-access-secret",
		"REFRESH_TOKEN_SECRET": "test-refresh-secret",
	} {
		if os.Getenv(key) == "" {
			t.Setenv(key, value)
		}
	}

	// nonexistent file: defaults plus environment only
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("Failed to load test configuration: %v", err)
	}

	validateTestConfig(t, cfg)

	cfg.WelcomeBackoff = time.Millisecond
	return cfg
}

// validateTestConfig ensures the configuration cannot reach production resources
func validateTestConfig(t *testing.T, cfg *config.Config) {
	t.Helper()

	if cfg.IsProduction() {
		t.Fatal("refusing to run tests with a production environment")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		t.Fatal("access and refresh secrets must differ")
	}
	if cfg.OTP_TTL != 120*time.Second {
		t.Logf("Warning: OTP TTL is %v, expiry tests assume 120s", cfg.OTP_TTL)
	}
}
