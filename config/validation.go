package config

import (
	"fmt"
	"net/url"
	"strings"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateConfig checks that the loaded configuration is usable.
func ValidateConfig(cfg *Config) error {
	var errs []string

	if cfg.SupabaseURL == "" {
		errs = append(errs, ValidationError{"supabase_url", "is required"}.Error())
	} else if u, err := url.Parse(cfg.SupabaseURL); err != nil || u.Scheme == "" || u.Host == "" {
		errs = append(errs, ValidationError{"supabase_url", "must be an absolute URL"}.Error())
	}
	if cfg.SupabaseAnonKey == "" {
		errs = append(errs, ValidationError{"supabase_anon_key", "is required"}.Error())
	}
	if cfg.CallbackPort <= 0 || cfg.CallbackPort > 65535 {
		errs = append(errs, ValidationError{"callback_port", "must be a valid port"}.Error())
	}

	switch cfg.KeystoreBackend {
	case "sqlite", "memory":
	case "redis":
		if cfg.RedisURL == "" {
			errs = append(errs, ValidationError{"redis_url", "is required for the redis keystore"}.Error())
		}
	default:
		errs = append(errs, ValidationError{"keystore_backend", "must be sqlite, redis or memory"}.Error())
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}
