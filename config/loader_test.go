package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

type clientSettings struct {
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	ResponseType string        `mapstructure:"response_type"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_YAMLFile(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "config.yml", "base_url: https://api.test\ntimeout: 5s\nresponse_type: json\n")

	var cfg clientSettings
	if err := Load("client", &cfg, WithConfigFile(path)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://api.test" {
		t.Errorf("base_url = %q", cfg.BaseURL)
	}
	if cfg.Timeout != 5*time.Second {
		t.Errorf("timeout = %v", cfg.Timeout)
	}
	if cfg.ResponseType != "json" {
		t.Errorf("response_type = %q", cfg.ResponseType)
	}
}

func TestLoad_EnvFileOverrides(t *testing.T) {
	dir := t.TempDir()
	cfgPath := writeFile(t, dir, "config.yml", "base_url: https://from-yaml.test\n")
	envPath := writeFile(t, dir, ".env", "BASE_URL=https://from-env.test\n")
	t.Setenv("BASE_URL", "")
	os.Unsetenv("BASE_URL")

	var cfg clientSettings
	if err := Load("client", &cfg, WithConfigFile(cfgPath), WithEnvFile(envPath)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.BaseURL != "https://from-env.test" {
		t.Errorf("base_url = %q, want env value to win", cfg.BaseURL)
	}
}

func TestLoad_EnvPrefix(t *testing.T) {
	t.Setenv("FETCHKIT_RESPONSE_TYPE", "text")

	var cfg clientSettings
	if err := Load("client", &cfg, WithEnvPrefix("FETCHKIT")); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.ResponseType != "text" {
		t.Errorf("response_type = %q, want text from env", cfg.ResponseType)
	}
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	var cfg clientSettings
	if err := Load("client", &cfg, WithConfigFile("/does/not/exist.yml")); err == nil {
		t.Error("expected error for missing explicit config file")
	}
}
