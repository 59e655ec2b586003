package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/wemitwqw/calorie-tracker-go/config"
	"github.com/wemitwqw/calorie-tracker-go/internal/keystore"
	"github.com/wemitwqw/calorie-tracker-go/internal/service"
	"github.com/wemitwqw/calorie-tracker-go/internal/store"
	"github.com/wemitwqw/calorie-tracker-go/internal/supabase"
	"github.com/wemitwqw/calorie-tracker-go/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ks, err := newKeystore(ctx, cfg)
	if err != nil {
		return err
	}

	client, err := supabase.New(supabase.Config{
		URL:      cfg.SupabaseURL,
		AnonKey:  cfg.SupabaseAnonKey,
		Keystore: ks,
		Logger:   &logger,
	})
	if err != nil {
		return err
	}
	client.Auth().StartAutoRefresh(ctx, 30*time.Second)

	stores := ui.Stores{
		Sessions:  store.NewSessionStore(),
		Dates:     store.NewDateStore(),
		Meals:     store.NewMealStore(),
		Products:  store.NewProductStore(),
		Whitelist: store.NewWhitelistStore(),
	}
	services := ui.Services{
		Auth:     service.NewAuthService(stores.Sessions, client.Auth(), client, logger),
		Meals:    service.NewMealService(stores.Meals, stores.Dates, stores.Sessions, client, client, logger),
		Products: service.NewProductService(stores.Products, stores.Sessions, client, logger),
		Admin:    service.NewAdminService(stores.Whitelist, stores.Sessions, client, logger),
	}

	logger.Info().Str("supabase_url", cfg.SupabaseURL).Msg("starting calorie tracker")

	return ui.Run(ui.Options{
		Context:       ctx,
		Stores:        stores,
		Services:      services,
		OAuthProvider: cfg.OAuthProvider,
		CallbackPort:  cfg.CallbackPort,
		Logger:        logger,
	})
}

// newLogger writes structured logs to a file under the data dir: stdout
// belongs to the TUI.
func newLogger(cfg *config.Config) (zerolog.Logger, func(), error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("create data dir: %w", err)
	}
	f, err := os.OpenFile(cfg.DataDir+"/tracker.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return zerolog.Nop(), nil, fmt.Errorf("open log file: %w", err)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(f).Level(level).With().Timestamp().Logger()
	return logger, func() { _ = f.Close() }, nil
}

func newKeystore(ctx context.Context, cfg *config.Config) (supabase.TokenStore, error) {
	switch cfg.KeystoreBackend {
	case "redis":
		return keystore.NewRedis(ctx, cfg.RedisURL, "calorie-tracker")
	case "memory":
		return keystore.NewMemory(), nil
	default:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		return keystore.NewSqlite(cfg.DataDir)
	}
}
