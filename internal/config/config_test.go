package config

import (
	"strings"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HTTP.Port != defaultHTTPPort {
		t.Errorf("expected default port %d, got %d", defaultHTTPPort, cfg.HTTP.Port)
	}
	if cfg.Service.Name != defaultServiceName {
		t.Errorf("expected service name %s, got %s", defaultServiceName, cfg.Service.Name)
	}
	if !strings.Contains(cfg.Database.URL, "storefront") {
		t.Errorf("expected database URL to target storefront db, got %s", cfg.Database.URL)
	}
	if len(cfg.Kafka.Brokers) != 0 {
		t.Errorf("expected no kafka brokers by default, got %v", cfg.Kafka.Brokers)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("API_HTTP_PORT", "9090")
	t.Setenv("DATABASE_URL", "postgres://app:app@db:5432/shop?sslmode=disable")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.URL != "postgres://app:app@db:5432/shop?sslmode=disable" {
		t.Errorf("unexpected database URL: %s", cfg.Database.URL)
	}
	if len(cfg.Kafka.Brokers) != 2 {
		t.Errorf("expected 2 brokers, got %v", cfg.Kafka.Brokers)
	}
	if cfg.Telemetry.LogLevel != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Telemetry.LogLevel)
	}
}

func TestLoadRejectsInvalidPort(t *testing.T) {
	t.Setenv("API_HTTP_PORT", "not-a-port")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid port, got nil")
	}
}
