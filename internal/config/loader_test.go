package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config error: %v", err)
	}
	return path
}

func TestLoadDefaultsWithoutFile(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Endpoint != "https://www.modelscope.cn" {
		t.Fatalf("endpoint default mismatch: %s", cfg.Endpoint)
	}
	if cfg.Revision != "master" {
		t.Fatalf("revision default mismatch: %s", cfg.Revision)
	}
	if cfg.LockTimeout.DurationValue() != 5*time.Minute {
		t.Fatalf("lock timeout default mismatch: %v", cfg.LockTimeout.DurationValue())
	}
	if cfg.LogLevel != "info" {
		t.Fatalf("log level default mismatch: %s", cfg.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := writeConfig(t, `
Endpoint = "https://hub.internal.example.com"
CacheDir = "./hub-cache"
Revision = "main"
LockTimeout = "90s"
LogLevel = "debug"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.Endpoint != "https://hub.internal.example.com" {
		t.Fatalf("endpoint mismatch: %s", cfg.Endpoint)
	}
	if !filepath.IsAbs(cfg.CacheDir) {
		t.Fatalf("cache dir should be absolute: %s", cfg.CacheDir)
	}
	if cfg.LockTimeout.DurationValue() != 90*time.Second {
		t.Fatalf("lock timeout mismatch: %v", cfg.LockTimeout.DurationValue())
	}
}

func TestLoadNumericLockTimeout(t *testing.T) {
	path := writeConfig(t, `LockTimeout = 30`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if cfg.LockTimeout.DurationValue() != 30*time.Second {
		t.Fatalf("numeric seconds mismatch: %v", cfg.LockTimeout.DurationValue())
	}
}

func TestLoadRejectsBadEndpoint(t *testing.T) {
	path := writeConfig(t, `Endpoint = "not a url"`)
	_, err := Load(path)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "Endpoint" {
		t.Fatalf("expected Endpoint field error, got %v", err)
	}
}

func TestLoadRejectsBadLogLevel(t *testing.T) {
	path := writeConfig(t, `LogLevel = "chatty"`)
	_, err := Load(path)
	var fieldErr *FieldError
	if !errors.As(err, &fieldErr) || fieldErr.Field != "LogLevel" {
		t.Fatalf("expected LogLevel field error, got %v", err)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatalf("expected error for missing config file")
	}
}
