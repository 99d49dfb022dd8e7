package config

import (
	"reflect"
	"strings"
	"testing"
	"time"
)

// TestParseCSVEnv проверяет разбор списка брокеров из ENV.
func TestParseCSVEnv(t *testing.T) {
	t.Setenv("KAFKA_BROKERS", " kafka-1:9092, ,kafka-2:9092 ")

	got := parseCSVEnv("KAFKA_BROKERS")
	want := []string{"kafka-1:9092", "kafka-2:9092"}

	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

// TestParseCSVEnvMissing проверяет поведение при отсутствии переменной.
func TestParseCSVEnvMissing(t *testing.T) {
	got := parseCSVEnv("MISSING_ENV")
	if got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}

// TestParseDurationEnv проверяет разбор длительности и значение по умолчанию.
func TestParseDurationEnv(t *testing.T) {
	t.Setenv("PROVIDER_LATENCY", "250ms")

	got, err := parseDurationEnv("PROVIDER_LATENCY", 150*time.Millisecond)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 250*time.Millisecond {
		t.Fatalf("expected 250ms, got %v", got)
	}

	fallback, err := parseDurationEnv("MISSING_ENV", time.Second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if fallback != time.Second {
		t.Fatalf("expected fallback 1s, got %v", fallback)
	}
}

// TestDatabaseDSN проверяет экранирование пароля в строке подключения.
func TestDatabaseDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "syncscript",
		Password: "p@ss/word",
		Name:     "syncscript",
		SSLMode:  "disable",
	}

	dsn := cfg.DSN()
	if !strings.HasPrefix(dsn, "postgres://") {
		t.Fatalf("expected postgres scheme, got %s", dsn)
	}
	if strings.Contains(dsn, "p@ss/word") {
		t.Fatalf("expected password to be escaped: %s", dsn)
	}
	if !strings.Contains(dsn, "sslmode=disable") {
		t.Fatalf("expected sslmode in query: %s", dsn)
	}
}

// TestValidateRequiresSecret проверяет обязательность JWT_SECRET.
func TestValidateRequiresSecret(t *testing.T) {
	cfg := Config{
		Server:   ServerConfig{Port: 8080},
		Database: DatabaseConfig{Host: "localhost", User: "u", Name: "db", MaxOpenConns: 10, MaxIdleConns: 5},
		Auth: AuthConfig{
			AccessTokenTTL:     time.Minute,
			RefreshTokenTTL:    time.Hour,
			RateLimitPerMinute: 60,
			RateLimitBurst:     10,
		},
		Providers: ProvidersConfig{RateLimitPerMinute: 30, RateLimitBurst: 10},
	}

	if err := cfg.validate(); err == nil {
		t.Fatal("expected error for missing JWT_SECRET")
	}
}
