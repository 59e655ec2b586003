// Package config loads application configuration from a TOML file with
// environment-variable overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
)

const (
	defaultConfigPath   = "~/.config/calorie-tracker/config.toml"
	defaultDataDir      = "~/.local/share/calorie-tracker"
	defaultProvider     = "discord"
	defaultCallbackPort = 8976
)

// Config holds all configuration for the application.
type Config struct {
	// Supabase project.
	SupabaseURL     string
	SupabaseAnonKey string

	// Local state.
	DataDir string

	// OAuth.
	OAuthProvider string
	CallbackPort  int

	// Keystore backend: "sqlite" (default), "redis" or "memory".
	KeystoreBackend string
	RedisURL        string

	// Logging.
	LogLevel string
}

// Load locates and parses the config file, applies CALTRACK_* environment
// overrides, fills defaults and validates the result. A missing file is not
// an error as long as the Supabase settings arrive via the environment.
func Load(path string) (*Config, error) {
	cfg := &Config{
		DataDir:         mustExpand(defaultDataDir),
		OAuthProvider:   defaultProvider,
		CallbackPort:    defaultCallbackPort,
		KeystoreBackend: "sqlite",
		LogLevel:        "info",
	}

	resolved, err := resolvePath(path)
	if err != nil {
		return nil, err
	}
	if err := loadFile(cfg, resolved); err != nil {
		return nil, err
	}
	applyEnv(cfg)

	if err := ValidateConfig(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}

	var raw struct {
		SupabaseURL     string `toml:"supabase_url"`
		SupabaseAnonKey string `toml:"supabase_anon_key"`
		DataDir         string `toml:"data_dir"`
		OAuthProvider   string `toml:"oauth_provider"`
		CallbackPort    int    `toml:"callback_port"`
		KeystoreBackend string `toml:"keystore_backend"`
		RedisURL        string `toml:"redis_url"`
		LogLevel        string `toml:"log_level"`
	}
	if err := toml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	setIfPresent(&cfg.SupabaseURL, raw.SupabaseURL)
	setIfPresent(&cfg.SupabaseAnonKey, raw.SupabaseAnonKey)
	setIfPresent(&cfg.OAuthProvider, raw.OAuthProvider)
	setIfPresent(&cfg.KeystoreBackend, raw.KeystoreBackend)
	setIfPresent(&cfg.RedisURL, raw.RedisURL)
	setIfPresent(&cfg.LogLevel, raw.LogLevel)
	if raw.DataDir != "" {
		cfg.DataDir = mustExpand(raw.DataDir)
	}
	if raw.CallbackPort != 0 {
		cfg.CallbackPort = raw.CallbackPort
	}
	return nil
}

func applyEnv(cfg *Config) {
	setIfPresent(&cfg.SupabaseURL, os.Getenv("CALTRACK_SUPABASE_URL"))
	setIfPresent(&cfg.SupabaseAnonKey, os.Getenv("CALTRACK_SUPABASE_ANON_KEY"))
	setIfPresent(&cfg.OAuthProvider, os.Getenv("CALTRACK_OAUTH_PROVIDER"))
	setIfPresent(&cfg.KeystoreBackend, os.Getenv("CALTRACK_KEYSTORE"))
	setIfPresent(&cfg.RedisURL, os.Getenv("CALTRACK_REDIS_URL"))
	setIfPresent(&cfg.LogLevel, os.Getenv("CALTRACK_LOG_LEVEL"))
	if dir := os.Getenv("CALTRACK_DATA_DIR"); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}
	if port := os.Getenv("CALTRACK_CALLBACK_PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.CallbackPort = n
		}
	}
}

func setIfPresent(dst *string, value string) {
	if value != "" {
		*dst = value
	}
}

func resolvePath(path string) (string, error) {
	if path == "" {
		path = defaultConfigPath
	}
	return expand(path)
}

func expand(path string) (string, error) {
	if !strings.HasPrefix(path, "~") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}

func mustExpand(path string) string {
	expanded, err := expand(path)
	if err != nil {
		return path
	}
	return expanded
}
