package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/imagerouter/imagerouter-go/internal/api"
	"github.com/imagerouter/imagerouter-go/internal/auth"
	"github.com/imagerouter/imagerouter-go/internal/cache"
	"github.com/imagerouter/imagerouter-go/internal/catalog"
	"github.com/imagerouter/imagerouter-go/internal/config"
	"github.com/imagerouter/imagerouter-go/internal/httpclient"
)

func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	setupLogging(cfg.LogLevel)
	return cfg, nil
}

func setupLogging(level string) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})))
}

// resolveKey returns the API key from config, keyring, or environment.
// Empty means no key is configured anywhere.
func resolveKey(cfg *config.Config) string {
	if cfg.APIKey != "" {
		return cfg.APIKey
	}
	key, _ := auth.Resolve()
	return key
}

// requireKey is resolveKey for commands that cannot run unauthenticated.
func requireKey(cfg *config.Config) (string, error) {
	if cfg.APIKey != "" {
		return cfg.APIKey, nil
	}
	return auth.Require()
}

func newAPIClient(cfg *config.Config, apiKey string) *api.Client {
	opts := []httpclient.Option{
		httpclient.WithRateLimit(cfg.RateLimit),
		httpclient.WithMaxRetries(cfg.MaxRetries),
		httpclient.WithTimeout(cfg.TimeoutDuration()),
	}

	if cfg.NoCache {
		opts = append(opts, httpclient.WithNoCache())
	} else {
		fc, err := cache.New(cfg.CacheDir, cfg.CacheTTLDuration())
		if err != nil {
			slog.Warn("failed to create cache, continuing without", "error", err)
		} else {
			opts = append(opts, httpclient.WithCache(fc))
		}
	}

	return api.New(httpclient.New(cfg.BaseURL, apiKey, opts...))
}

// loadStore builds the catalog store, either from the live service or
// from the bundled model table when offline is set.
func loadStore(ctx context.Context, cfg *config.Config, offline bool) (*catalog.Store, error) {
	if offline {
		snap, err := catalog.Bundled()
		if err != nil {
			return nil, err
		}
		return catalog.NewStore(snap), nil
	}

	key, err := requireKey(cfg)
	if err != nil {
		return nil, err
	}

	raw, err := newAPIClient(cfg, key).ModelCatalog(ctx)
	if err != nil {
		return nil, err
	}

	store := catalog.NewStore(nil)
	if err := store.Refresh(raw); err != nil {
		return nil, err
	}
	return store, nil
}
