// Package config loads CLI configuration from defaults, an optional
// YAML config file, and IMAGEROUTER_* environment variables, in
// ascending precedence. A .env file in the working directory is loaded
// first so local setups can keep the API key out of the shell profile.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all settings for the CLI and client.
type Config struct {
	BaseURL    string  `mapstructure:"base_url"`
	APIKey     string  `mapstructure:"api_key"`
	Timeout    string  `mapstructure:"timeout"`
	MaxRetries int     `mapstructure:"max_retries"`
	RateLimit  float64 `mapstructure:"rate_limit"`
	CacheDir   string  `mapstructure:"cache_dir"`
	CacheTTL   string  `mapstructure:"cache_ttl"`
	NoCache    bool    `mapstructure:"no_cache"`
	LogLevel   string  `mapstructure:"log_level"`
}

// Load reads configuration. cfgFile overrides the default search path
// (./config.yaml, then $HOME/.config/imagerouter/config.yaml).
func Load(cfgFile string) (*Config, error) {
	// Best effort; a missing .env is the normal case.
	_ = godotenv.Load()

	v := viper.New()

	v.SetDefault("base_url", "https://api.imagerouter.io")
	v.SetDefault("api_key", "")
	v.SetDefault("timeout", "5m")
	v.SetDefault("max_retries", 3)
	v.SetDefault("rate_limit", 5.0)
	v.SetDefault("cache_dir", defaultCacheDir())
	v.SetDefault("cache_ttl", "1h")
	v.SetDefault("no_cache", false)
	v.SetDefault("log_level", "info")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/imagerouter")
	}

	v.SetEnvPrefix("IMAGEROUTER")
	v.AutomaticEnv()
	_ = v.BindEnv("api_key", "IMAGEROUTER_API_KEY")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	return &cfg, nil
}

// TimeoutDuration parses the request timeout, falling back to five
// minutes on a malformed value. Video generation is slow; short
// defaults cause spurious timeouts.
func (c *Config) TimeoutDuration() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 5 * time.Minute
	}
	return d
}

// CacheTTLDuration parses the cache TTL, falling back to one hour.
func (c *Config) CacheTTLDuration() time.Duration {
	d, err := time.ParseDuration(c.CacheTTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "imagerouter-cache")
	}
	return filepath.Join(home, ".cache", "imagerouter")
}
