package config

import (
	"testing"
	"time"
)

func TestLoadConfig_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	if _, err := LoadConfig(); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("APP_PORT", "")
	t.Setenv("SUBSCRIPTION_PERIOD", "")
	t.Setenv("PAYMENT_LOCK_TTL", "")
	t.Setenv("MEETING_BASE_URL", "")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Subscription.Period != 30*24*time.Hour {
		t.Errorf("expected 30 day subscription period, got %s", cfg.Subscription.Period)
	}
	if cfg.Payment.LockTTL != 30*time.Second {
		t.Errorf("expected 30s lock ttl, got %s", cfg.Payment.LockTTL)
	}
	if cfg.JWT.AccessExpiry != 15*time.Minute {
		t.Errorf("expected 15m access expiry, got %s", cfg.JWT.AccessExpiry)
	}
	if cfg.RabbitMQ.Exchange != "telehealth_events" {
		t.Errorf("unexpected exchange %q", cfg.RabbitMQ.Exchange)
	}
}

func TestLoadConfig_Overrides(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("SUBSCRIPTION_PERIOD", "48h")
	t.Setenv("MEETING_BASE_URL", "https://video.example.org")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://app.example.org, ,https://admin.example.org")

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Subscription.Period != 48*time.Hour {
		t.Errorf("expected 48h, got %s", cfg.Subscription.Period)
	}
	if cfg.Meeting.BaseURL != "https://video.example.org" {
		t.Errorf("unexpected meeting base url %q", cfg.Meeting.BaseURL)
	}
	if len(cfg.App.CORSOrigins) != 2 || cfg.App.CORSOrigins[1] != "https://admin.example.org" {
		t.Errorf("unexpected cors origins %v", cfg.App.CORSOrigins)
	}
}

func TestParseDuration_FallsBackOnGarbage(t *testing.T) {
	if got := parseDuration("soon", time.Minute); got != time.Minute {
		t.Errorf("expected fallback, got %s", got)
	}
	if got := parseDuration("-5s", time.Minute); got != time.Minute {
		t.Errorf("expected fallback for negative, got %s", got)
	}
}
