package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o600))
	return path
}

func TestLoadFromFileWithDefaults(t *testing.T) {
	path := writeConfig(t, `
supabase_url = "https://xyz.supabase.co"
supabase_anon_key = "anon-key"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://xyz.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "anon-key", cfg.SupabaseAnonKey)
	assert.Equal(t, "discord", cfg.OAuthProvider)
	assert.Equal(t, 8976, cfg.CallbackPort)
	assert.Equal(t, "sqlite", cfg.KeystoreBackend)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.NotEmpty(t, cfg.DataDir)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
supabase_url = "https://xyz.supabase.co"
supabase_anon_key = "anon-key"
oauth_provider = "github"
callback_port = 9123
keystore_backend = "memory"
log_level = "debug"
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "github", cfg.OAuthProvider)
	assert.Equal(t, 9123, cfg.CallbackPort)
	assert.Equal(t, "memory", cfg.KeystoreBackend)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestEnvOverridesFile(t *testing.T) {
	path := writeConfig(t, `
supabase_url = "https://file.supabase.co"
supabase_anon_key = "file-key"
callback_port = 9123
`)

	t.Setenv("CALTRACK_SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("CALTRACK_CALLBACK_PORT", "9999")
	t.Setenv("CALTRACK_KEYSTORE", "memory")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.supabase.co", cfg.SupabaseURL)
	assert.Equal(t, "file-key", cfg.SupabaseAnonKey)
	assert.Equal(t, 9999, cfg.CallbackPort)
	assert.Equal(t, "memory", cfg.KeystoreBackend)
}

func TestLoadMissingFileUsesEnvironment(t *testing.T) {
	t.Setenv("CALTRACK_SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("CALTRACK_SUPABASE_ANON_KEY", "env-key")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.SupabaseAnonKey)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := writeConfig(t, `supabase_url = `)

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidateConfig(t *testing.T) {
	valid := func() *Config {
		return &Config{
			SupabaseURL:     "https://xyz.supabase.co",
			SupabaseAnonKey: "anon-key",
			CallbackPort:    8976,
			KeystoreBackend: "sqlite",
		}
	}

	require.NoError(t, ValidateConfig(valid()))

	cfg := valid()
	cfg.SupabaseURL = ""
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "supabase_url")

	cfg = valid()
	cfg.SupabaseURL = "not-a-url"
	assert.Error(t, ValidateConfig(cfg))

	cfg = valid()
	cfg.SupabaseAnonKey = ""
	assert.Error(t, ValidateConfig(cfg))

	cfg = valid()
	cfg.CallbackPort = 0
	assert.Error(t, ValidateConfig(cfg))

	cfg = valid()
	cfg.CallbackPort = 70000
	assert.Error(t, ValidateConfig(cfg))

	cfg = valid()
	cfg.KeystoreBackend = "redis"
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis_url")

	cfg.RedisURL = "redis://localhost:6379/0"
	assert.NoError(t, ValidateConfig(cfg))

	cfg = valid()
	cfg.KeystoreBackend = "etcd"
	assert.Error(t, ValidateConfig(cfg))
}
