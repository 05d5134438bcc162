package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_RequiresJWTSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")

	if _, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.env")); err == nil {
		t.Fatal("expected error when JWT_SECRET is missing")
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	cfg, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.env"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.TokenTTL != time.Hour {
		t.Errorf("expected 1h token ttl, got %s", cfg.TokenTTL)
	}
	if cfg.Port != "8080" || cfg.Mongo.Database != "nursing_services" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if cfg.RateLimit.LoginBurst != 10 {
		t.Errorf("unexpected burst: %d", cfg.RateLimit.LoginBurst)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("PORT", "")
	os.Unsetenv("PORT")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("JWT_SECRET=from-file\nPORT=9090\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("JWT_SECRET")
		os.Unsetenv("PORT")
	})

	cfg, err := Load(context.Background(), path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.JWTSecret != "from-file" || cfg.Port != "9090" {
		t.Errorf("expected values from .env, got %+v", cfg)
	}
}

func TestLoad_MalformedDotEnvFileFails(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("PORT=\"9090\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	if _, err := Load(context.Background(), path); err == nil {
		t.Fatal("expected error for a malformed .env file")
	}
}
