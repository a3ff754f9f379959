package config

import (
	"testing"
	"time"
)

func TestLoadMemoryDefaults(t *testing.T) {
	t.Setenv("DATA_STORE", "memory")
	t.Setenv("POSTGRES_DSN", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != StoreMemory {
		t.Fatalf("unexpected driver %q", cfg.Store.Driver)
	}
	if cfg.App.Addr() != "0.0.0.0:5293" {
		t.Fatalf("unexpected addr %q", cfg.App.Addr())
	}
	if cfg.Auth.AccessTokenTTL() != 60*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.Auth.AccessTokenTTL())
	}
	if len(cfg.App.CORSAllowedOrigins) != 1 || cfg.App.CORSAllowedOrigins[0] != "http://localhost:4200" {
		t.Fatalf("unexpected origins %v", cfg.App.CORSAllowedOrigins)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATA_STORE", "Postgres")
	t.Setenv("POSTGRES_DSN", "postgres://localhost/memberops")
	t.Setenv("AUTH_ACCESS_TOKEN_TTL_MINUTES", "15")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://ops.example.com, https://admin.example.com,")
	t.Setenv("HTTP_REQUEST_TIMEOUT_SECONDS", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Store.Driver != StorePostgres {
		t.Fatalf("unexpected driver %q", cfg.Store.Driver)
	}
	if cfg.Auth.AccessTokenTTL() != 15*time.Minute {
		t.Fatalf("unexpected ttl %v", cfg.Auth.AccessTokenTTL())
	}
	if got := cfg.App.CORSAllowedOrigins; len(got) != 2 || got[1] != "https://admin.example.com" {
		t.Fatalf("unexpected origins %v", got)
	}
	if cfg.App.RequestTimeout() != 0 {
		t.Fatalf("expected timeout disabled, got %v", cfg.App.RequestTimeout())
	}
}

func TestLoadRejectsMissingDSN(t *testing.T) {
	t.Setenv("DATA_STORE", "postgres")
	t.Setenv("POSTGRES_DSN", "")
	if _, err := Load(); err == nil {
		t.Fatal("expected error without POSTGRES_DSN")
	}
}

func TestLoadRejectsUnknownStore(t *testing.T) {
	t.Setenv("DATA_STORE", "mongo")
	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store")
	}
}
