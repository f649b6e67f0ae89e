package config

import (
	"os"
	"testing"
)

func setRequiredEnvVars(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-jwt-secret-key")
}

func TestLoad_Success(t *testing.T) {
	setRequiredEnvVars(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.JWT.Secret != "test-jwt-secret-key" {
		t.Errorf("JWT.Secret = %q, want %q", cfg.JWT.Secret, "test-jwt-secret-key")
	}
	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want %q", cfg.Server.Port, "8080")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("Database.Port = %d, want %d", cfg.Database.Port, 5432)
	}
	if cfg.Nordigen.Country != "FI" {
		t.Errorf("Nordigen.Country = %q, want %q", cfg.Nordigen.Country, "FI")
	}
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for missing JWT_SECRET, got nil")
	}
}

func TestLoad_InvalidDBPort(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("DB_PORT", "not-a-number")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid DB_PORT, got nil")
	}
}

func TestLoad_InvalidSweeperInterval(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("SWEEPER_INTERVAL", "soon")

	_, err := Load()
	if err == nil {
		t.Error("Load() expected error for invalid SWEEPER_INTERVAL, got nil")
	}
}

func TestLoad_AllowedHosts(t *testing.T) {
	setRequiredEnvVars(t)
	t.Setenv("ALLOWED_HOSTS", "lompakko.fi, app.lompakko.fi ,")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if len(cfg.Server.AllowedHosts) != 2 {
		t.Fatalf("AllowedHosts length = %d, want 2", len(cfg.Server.AllowedHosts))
	}
	if cfg.Server.AllowedHosts[0] != "lompakko.fi" || cfg.Server.AllowedHosts[1] != "app.lompakko.fi" {
		t.Errorf("AllowedHosts = %v", cfg.Server.AllowedHosts)
	}
}

func TestNordigenConfig_Configured(t *testing.T) {
	tests := []struct {
		name string
		cfg  NordigenConfig
		want bool
	}{
		{"both set", NordigenConfig{SecretID: "id", SecretKey: "key"}, true},
		{"missing key", NordigenConfig{SecretID: "id"}, false},
		{"missing id", NordigenConfig{SecretKey: "key"}, false},
		{"empty", NordigenConfig{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.cfg.Configured(); got != tt.want {
				t.Errorf("Configured() = %v, want %v", got, tt.want)
			}
		})
	}
}
