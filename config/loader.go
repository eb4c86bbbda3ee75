// Package config loads fetchkit client configuration from YAML files and
// the environment. It resolves config.yml and .env files from standard
// locations, binds environment variables, and unmarshals into any struct
// carrying mapstructure tags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Loader holds optional explicit file paths. Zero value searches the
// standard locations.
type Loader struct {
	// ConfigFile is an explicit YAML config path.
	ConfigFile string
	// EnvFile is an explicit .env path.
	EnvFile string
	// EnvPrefix namespaces environment variable binding (e.g. "FETCHKIT").
	EnvPrefix string
}

// Option configures a Loader.
type Option func(*Loader)

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) Option {
	return func(l *Loader) { l.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) Option {
	return func(l *Loader) { l.EnvFile = path }
}

// WithEnvPrefix sets the environment variable prefix.
func WithEnvPrefix(prefix string) Option {
	return func(l *Loader) { l.EnvPrefix = prefix }
}

// Load resolves config and env files for name, binds the environment and
// unmarshals the merged result into cfg.
func Load(name string, cfg any, opts ...Option) error {
	var l Loader
	for _, opt := range opts {
		opt(&l)
	}

	configFile := l.ConfigFile
	if configFile == "" {
		configFile = findFirst(configSearchPaths(name))
	}
	envFile := l.EnvFile
	if envFile == "" {
		envFile = findFirst(envSearchPaths(name))
	}

	// .env first so AutomaticEnv sees its variables.
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return fmt.Errorf("config: load env file %s: %w", envFile, err)
		}
	}

	v := viper.New()
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("config: read %s: %w", configFile, err)
		}
	}

	// Viper does not surface automatic env vars through Unmarshal, so bind
	// them explicitly. Environment values take precedence over the file.
	bindEnvironment(v, l.EnvPrefix)

	if err := v.Unmarshal(cfg); err != nil {
		return fmt.Errorf("config: unmarshal %s: %w", name, err)
	}
	return nil
}

// bindEnvironment sets every environment variable on v under its viper key
// variants so Unmarshal can see them. When prefix is non-empty only
// variables carrying it are bound, with the prefix stripped.
func bindEnvironment(v *viper.Viper, prefix string) {
	if prefix != "" {
		prefix = strings.ToUpper(prefix) + "_"
	}
	for _, entry := range os.Environ() {
		key, value, ok := strings.Cut(entry, "=")
		if !ok || key == "" {
			continue
		}
		if prefix != "" {
			if !strings.HasPrefix(key, prefix) {
				continue
			}
			key = strings.TrimPrefix(key, prefix)
		}
		lower := strings.ToLower(key)
		v.Set(lower, value)
		if dotted := strings.ReplaceAll(lower, "_", "."); dotted != lower {
			v.Set(dotted, value)
		}
	}
}

// configSearchPaths lists the standard config.yml locations for name.
func configSearchPaths(name string) []string {
	return []string{
		fmt.Sprintf("./%s.yml", name),
		fmt.Sprintf("./config/%s.yml", name),
		"./config.yml",
		"./config/config.yml",
	}
}

// envSearchPaths lists the standard .env locations for name.
func envSearchPaths(name string) []string {
	return []string{
		fmt.Sprintf(".env.%s", name),
		".env",
		fmt.Sprintf("config/.env.%s", name),
		"config/.env",
	}
}

func findFirst(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
