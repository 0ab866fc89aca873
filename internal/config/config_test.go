package config

import (
	"testing"
	"time"
)

func TestLoad_RequiresMongoURI(t *testing.T) {
	t.Setenv("MONGO_URI", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error when MONGO_URI is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("APP_ENV", "development")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.App.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.App.Port)
	}
	if cfg.Mongo.Database != "simple-ehr" {
		t.Errorf("expected default database simple-ehr, got %s", cfg.Mongo.Database)
	}
	if cfg.Mongo.Timeout != 5*time.Second {
		t.Errorf("expected 5s mongo timeout, got %s", cfg.Mongo.Timeout)
	}
	if cfg.Session.TTL != 24*time.Hour {
		t.Errorf("expected 24h session ttl, got %s", cfg.Session.TTL)
	}
	if cfg.Session.Secret == "" {
		t.Error("expected a development session secret")
	}
	if cfg.Login.Burst != 5 {
		t.Errorf("expected login burst 5, got %d", cfg.Login.Burst)
	}
	if len(cfg.App.TrustedProxies) != 0 {
		t.Errorf("expected no trusted proxies by default, got %v", cfg.App.TrustedProxies)
	}
}

func TestLoad_ProductionRequiresSecret(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error when SESSION_SECRET is missing in production")
	}
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("APP_ENV", "production")
	t.Setenv("SESSION_SECRET", "s3cret")
	t.Setenv("SESSION_TTL", "2h")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("SMTP_USER", "clinic@example.com")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.168.1.4")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Session.TTL != 2*time.Hour {
		t.Errorf("expected 2h ttl, got %s", cfg.Session.TTL)
	}
	if len(cfg.App.CORSOrigins) != 2 || cfg.App.CORSOrigins[1] != "https://b.example" {
		t.Errorf("unexpected cors origins: %v", cfg.App.CORSOrigins)
	}
	if len(cfg.App.TrustedProxies) != 2 || cfg.App.TrustedProxies[0] != "10.0.0.0/8" {
		t.Errorf("unexpected trusted proxies: %v", cfg.App.TrustedProxies)
	}
	if cfg.SMTP.From != "clinic@example.com" {
		t.Errorf("expected MAIL_FROM to fall back to SMTP_USER, got %q", cfg.SMTP.From)
	}
	if cfg.IsDev() {
		t.Error("expected IsDev() to be false in production")
	}
}
