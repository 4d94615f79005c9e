package config

import (
	"os"
	"testing"
	"time"
)

func TestLoad_Success(t *testing.T) {
	setMinimalEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.App.Env != "production" {
		t.Fatalf("expected App.Env to be production, got %q", cfg.App.Env)
	}
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Fatalf("expected sqlite driver, got %q", cfg.Store.Driver)
	}
	if cfg.Redis.URL != "redis://localhost:6379/0" {
		t.Fatalf("unexpected Redis URL: %q", cfg.Redis.URL)
	}
	if !cfg.Redis.Enabled() {
		t.Fatal("expected redis to be enabled when a URL is set")
	}
	if got := cfg.JWT.TTL(); got != 60*time.Minute {
		t.Fatalf("expected jwt ttl 60m, got %v", got)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvJWTSecret, "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() returned unexpected error: %v", err)
	}

	if cfg.Store.Driver != StoreDriverMongo {
		t.Fatalf("expected mongo default driver, got %q", cfg.Store.Driver)
	}
	if cfg.Mongo.URI != "mongodb://localhost:27017" {
		t.Fatalf("unexpected mongo uri %q", cfg.Mongo.URI)
	}
	if cfg.Mongo.Database != "event_storyboard" {
		t.Fatalf("unexpected mongo database %q", cfg.Mongo.Database)
	}
	if cfg.JWT.ExpirationMinutes != 1440 {
		t.Fatalf("expected 1440 minute expiry, got %d", cfg.JWT.ExpirationMinutes)
	}
	if cfg.Share.TTL != 14*24*time.Hour {
		t.Fatalf("expected 14 day share ttl, got %v", cfg.Share.TTL)
	}
	if cfg.Share.EnforceExpiry {
		t.Fatal("expected share expiry enforcement to be off by default")
	}
	if len(cfg.CORS.AllowedOrigins) != 1 || cfg.CORS.AllowedOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins %v", cfg.CORS.AllowedOrigins)
	}
	if cfg.Redis.Enabled() {
		t.Fatal("expected redis disabled without url or address")
	}
	if cfg.Media.MaxUploadBytes() != 200*1024*1024 {
		t.Fatalf("unexpected max upload bytes %d", cfg.Media.MaxUploadBytes())
	}
}

func TestLoad_MissingRequired(t *testing.T) {
	setMinimalEnv(t)
	if err := os.Unsetenv(EnvJWTSecret); err != nil {
		t.Fatalf("failed to unset %s: %v", EnvJWTSecret, err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected missing required env to return an error")
	}
}

func TestLoad_PostgresRequiresDSN(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStoreDriver, "postgres")

	if _, err := Load(); err == nil {
		t.Fatal("expected postgres driver without dsn to fail")
	}
}

func TestLoad_UnknownDrivers(t *testing.T) {
	setMinimalEnv(t)
	t.Setenv(EnvStoreDriver, "cassandra")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported store driver to fail")
	}

	setMinimalEnv(t)
	t.Setenv(EnvMediaDriver, "ftp")
	if _, err := Load(); err == nil {
		t.Fatal("expected unsupported media driver to fail")
	}
}

func setMinimalEnv(t *testing.T) {
	t.Helper()

	clearEnv(t)
	t.Setenv(EnvAppEnv, "production")
	t.Setenv(EnvPort, "8081")
	t.Setenv(EnvStoreDriver, "SQLite")
	t.Setenv(EnvRedisURL, "redis://localhost:6379/0")
	t.Setenv(EnvJWTSecret, "secret")
	t.Setenv(EnvJWTIssuer, "storyboard")
	t.Setenv(EnvJWTExpMins, "60")
	t.Setenv(EnvMediaDriver, "local")
}

// clearEnv blanks every variable the tests touch; t.Setenv restores them.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		EnvAppEnv, EnvPort, EnvStoreDriver, EnvDBDSN, EnvRedisURL, EnvJWTSecret,
		EnvJWTIssuer, EnvJWTExpMins, EnvMediaDriver, EnvMongoURI, EnvMongoDatabase,
		EnvShareTTL, EnvShareEnforce, EnvCORSOrigins, EnvMaxUploadMB,
	} {
		t.Setenv(key, "")
		if err := os.Unsetenv(key); err != nil {
			t.Fatalf("failed to unset %s: %v", key, err)
		}
	}
}

func TestAppConfigEnvHelpers(t *testing.T) {
	devConfig := AppConfig{Env: "DEV"}
	if !devConfig.IsDev() {
		t.Fatalf("expected IsDev true for %q", devConfig.Env)
	}
	if devConfig.IsProd() {
		t.Fatalf("expected IsProd false for %q", devConfig.Env)
	}

	prodConfig := AppConfig{Env: "prod"}
	if !prodConfig.IsProd() {
		t.Fatalf("expected IsProd true for %q", prodConfig.Env)
	}
	if prodConfig.IsDev() {
		t.Fatalf("expected IsDev false for %q", prodConfig.Env)
	}
}
