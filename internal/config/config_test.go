package config

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("ROWS_TIMEOUT_MS", "")
	t.Setenv("RECOMMENDATION_MIN", "")

	cfg := Load()
	if cfg.StoreBackend != BackendRows {
		t.Errorf("StoreBackend = %q, want rows", cfg.StoreBackend)
	}
	if cfg.RowsTimeout != 15*time.Second {
		t.Errorf("RowsTimeout = %v", cfg.RowsTimeout)
	}
	if cfg.RecommendationMin != 5 {
		t.Errorf("RecommendationMin = %d", cfg.RecommendationMin)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Memory")
	t.Setenv("ROWS_RATE_LIMIT_RPS", "2.5")
	t.Setenv("BCRYPT_COST", "not-a-number")
	t.Setenv("ADMIN_EMAILS", " Ops@EarnGage.io, ,root@earngage.io")

	cfg := Load()
	if cfg.StoreBackend != BackendMemory {
		t.Errorf("StoreBackend = %q", cfg.StoreBackend)
	}
	if cfg.RowsRateLimitRPS != 2.5 {
		t.Errorf("RowsRateLimitRPS = %v", cfg.RowsRateLimitRPS)
	}
	if cfg.BCryptCost != 10 {
		t.Errorf("BCryptCost = %d, want fallback 10", cfg.BCryptCost)
	}
	if !cfg.IsAdmin("ops@earngage.io") || !cfg.IsAdmin("ROOT@earngage.io") {
		t.Errorf("admins = %v", cfg.AdminEmails)
	}
	if cfg.IsAdmin("someone@else.io") {
		t.Errorf("non-admin accepted")
	}
}

func TestValidateResetsUnknownBackend(t *testing.T) {
	cfg := &Config{StoreBackend: "cassandra", JWTSecret: "x"}
	cfg.Validate(zap.NewNop())
	if cfg.StoreBackend != BackendRows {
		t.Errorf("StoreBackend = %q, want rows", cfg.StoreBackend)
	}
}
