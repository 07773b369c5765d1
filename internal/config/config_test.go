package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadWithDefaults(t *testing.T) {
	cfg, err := Load(WithEnvMap(nil), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("expected default port 8080, got %s", cfg.Server.Port)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("unexpected addr %s", cfg.Addr())
	}
	if cfg.Server.ReadTimeout != defaultReadTimeout {
		t.Errorf("unexpected read timeout: %s", cfg.Server.ReadTimeout)
	}
	if cfg.Server.ShutdownTimeout != defaultShutdownTimeout {
		t.Errorf("unexpected shutdown timeout: %s", cfg.Server.ShutdownTimeout)
	}
	if cfg.Assets.TemplatesDir != "templates" || cfg.Assets.PublicDir != "public" {
		t.Errorf("unexpected asset dirs: %+v", cfg.Assets)
	}
	if cfg.Assets.Dev {
		t.Errorf("expected dev mode off by default")
	}
	if cfg.Pricing.CountryHeader != "CF-IPCountry" {
		t.Errorf("expected default country header, got %s", cfg.Pricing.CountryHeader)
	}
	if cfg.Pricing.VariantSeed != nil {
		t.Errorf("expected no variant seed, got %d", *cfg.Pricing.VariantSeed)
	}
	if cfg.Site.Environment != "local" || cfg.IsProduction() {
		t.Errorf("expected local environment, got %s", cfg.Site.Environment)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("expected info log level, got %s", cfg.Log.Level)
	}
}

func TestLoadWithOverrides(t *testing.T) {
	env := map[string]string{
		"KNIFE_WEB_PORT":             "9090",
		"KNIFE_WEB_READ_TIMEOUT":     "20s",
		"KNIFE_WEB_WRITE_TIMEOUT":    "25s",
		"KNIFE_WEB_IDLE_TIMEOUT":     "2m",
		"KNIFE_WEB_SHUTDOWN_TIMEOUT": "3s",
		"KNIFE_WEB_TEMPLATES_DIR":    "/srv/templates",
		"KNIFE_WEB_PUBLIC_DIR":       "/srv/public",
		"KNIFE_WEB_DEV":              "yes",
		"KNIFE_WEB_ENV":              "PROD",
		"KNIFE_WEB_TRACE_PROJECT_ID": "knife-prod",
		"KNIFE_WEB_COUNTRY_HEADER":   "X-Country",
		"KNIFE_WEB_BASE_URL":         "https://knife.example.com/",
		"KNIFE_WEB_VARIANT_SEED":     "42",
		"KNIFE_WEB_LOG_LEVEL":        "debug",
	}

	cfg, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("expected port 9090, got %s", cfg.Server.Port)
	}
	if cfg.Server.ReadTimeout != 20*time.Second || cfg.Server.WriteTimeout != 25*time.Second {
		t.Errorf("unexpected timeouts: %+v", cfg.Server)
	}
	if cfg.Server.IdleTimeout != 2*time.Minute || cfg.Server.ShutdownTimeout != 3*time.Second {
		t.Errorf("unexpected idle/shutdown: %+v", cfg.Server)
	}
	if cfg.Assets.TemplatesDir != "/srv/templates" || cfg.Assets.PublicDir != "/srv/public" || !cfg.Assets.Dev {
		t.Errorf("unexpected assets config: %+v", cfg.Assets)
	}
	if !cfg.IsProduction() {
		t.Errorf("expected production environment, got %s", cfg.Site.Environment)
	}
	if cfg.Site.BaseURL != "https://knife.example.com" {
		t.Errorf("expected trailing slash trimmed, got %s", cfg.Site.BaseURL)
	}
	if cfg.Trace.ProjectID != "knife-prod" {
		t.Errorf("unexpected trace project: %s", cfg.Trace.ProjectID)
	}
	if cfg.Pricing.CountryHeader != "X-Country" {
		t.Errorf("unexpected country header: %s", cfg.Pricing.CountryHeader)
	}
	if cfg.Pricing.VariantSeed == nil || *cfg.Pricing.VariantSeed != 42 {
		t.Errorf("expected variant seed 42, got %v", cfg.Pricing.VariantSeed)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("unexpected log level: %s", cfg.Log.Level)
	}
}

func TestLoadFallsBackToPlatformPort(t *testing.T) {
	cfg, err := Load(WithEnvMap(map[string]string{"PORT": "3000"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "3000" {
		t.Errorf("expected PORT fallback, got %s", cfg.Server.Port)
	}

	cfg, err = Load(WithEnvMap(map[string]string{"PORT": "3000", "KNIFE_WEB_PORT": "4000"}), WithoutSystemEnv(), WithEnvFile(""))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "4000" {
		t.Errorf("expected prefixed port to win, got %s", cfg.Server.Port)
	}
}

func TestLoadInvalidValues(t *testing.T) {
	env := map[string]string{
		"KNIFE_WEB_PORT":         "http",
		"KNIFE_WEB_VARIANT_SEED": "-1",
		"KNIFE_WEB_BASE_URL":     "knife.example.com",
	}

	_, err := Load(WithEnvMap(env), WithoutSystemEnv(), WithEnvFile(""))
	if err == nil {
		t.Fatal("expected validation error")
	}

	var vErr *ValidationError
	if !errors.As(err, &vErr) {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	want := map[string]bool{"Server.Port": true, "Pricing.VariantSeed": true, "Site.BaseURL": true}
	fields := vErr.Fields()
	if len(fields) != len(want) {
		t.Fatalf("unexpected fields: %v", fields)
	}
	for _, f := range fields {
		if !want[f] {
			t.Errorf("unexpected field %s", f)
		}
	}
}

func TestLoadFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# local overrides\nKNIFE_WEB_PORT=7070\nexport KNIFE_WEB_COUNTRY_HEADER=\"X-Geo\"\nKNIFE_WEB_DEV=true\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}

	cfg, err := Load(WithEnvFile(path), WithoutSystemEnv(), WithEnvMap(map[string]string{"KNIFE_WEB_DEV": "false"}))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Errorf("expected port from .env, got %s", cfg.Server.Port)
	}
	if cfg.Pricing.CountryHeader != "X-Geo" {
		t.Errorf("expected header from .env, got %s", cfg.Pricing.CountryHeader)
	}
	if cfg.Assets.Dev {
		t.Errorf("explicit env map should override .env")
	}
}

func TestLoadMissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load(WithEnvFile(filepath.Join(t.TempDir(), "missing.env")), WithoutSystemEnv())
	if err != nil {
		t.Fatalf("expected missing .env to be ignored, got %v", err)
	}
}
