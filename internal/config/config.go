// Package config resolves runtime settings for ctx-theatre.
//
// Settings are layered: built-in defaults, then an optional YAML file, then
// environment variables (a .env file in the working directory is loaded into
// the environment first). Command-line flags are applied last by the cli
// package.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	configPathEnv   = "CTX_THEATRE_CONFIG"
	feedURLEnv      = "CTX_FEED_URL"
	storePathEnv    = "CTX_STORE_PATH"
	feedFallbackEnv = "CTX_FEED_FALLBACK"
	pageFallbackEnv = "CTX_PAGE_FALLBACK"
	timeoutEnv      = "CTX_TIMEOUT"
	logLevelEnv     = "CTX_LOG_LEVEL"
	databaseEnv     = "CTX_DATABASE_PATH"
	listenAddrEnv   = "CTX_LISTEN_ADDR"
)

// Config holds every setting the commands need.
type Config struct {
	Feed    FeedConfig    `yaml:"feed"`
	Store   StoreConfig   `yaml:"store"`
	HTTP    HTTPConfig    `yaml:"http"`
	Export  ExportConfig  `yaml:"export"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
}

// FeedConfig describes where listings come from. The fallback files are
// local snapshots read when the network fetch fails; empty disables them.
type FeedConfig struct {
	URL          string `yaml:"url"`
	FeedFallback string `yaml:"feedFallback"`
	PageFallback string `yaml:"pageFallback"`
}

// StoreConfig locates the JSON store.
type StoreConfig struct {
	Path string `yaml:"path"`
}

// HTTPConfig controls outbound requests.
type HTTPConfig struct {
	Timeout   time.Duration `yaml:"timeout"`
	UserAgent string        `yaml:"userAgent"`
}

// ExportConfig holds defaults for the export command.
type ExportConfig struct {
	DatabasePath string `yaml:"databasePath"`
}

// ServerConfig holds defaults for the browse API.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// LoggingConfig selects the minimum log level.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Feed: FeedConfig{
			URL:          "https://ctxlivetheatre.com/rss/all/",
			FeedFallback: "sample_feed.xml",
			PageFallback: "sample_production_page.html",
		},
		Store:   StoreConfig{Path: "events.json"},
		HTTP:    HTTPConfig{Timeout: 10 * time.Second, UserAgent: "ctx-theatre/1.0 (github.com/pfrederiksen/ctx-theatre)"},
		Export:  ExportConfig{DatabasePath: "events.db"},
		Server:  ServerConfig{Addr: ":8080"},
		Logging: LoggingConfig{Level: "INFO"},
	}
}

// Load builds the configuration. path names a YAML file; when empty the
// CTX_THEATRE_CONFIG variable is consulted, and when that is empty too only
// defaults and the environment apply. A named file that cannot be read or
// parsed is an error.
func Load(path string) (Config, error) {
	cfg := Default()

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return cfg, fmt.Errorf("loading .env: %w", err)
	}

	if path == "" {
		path = os.Getenv(configPathEnv)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		var fileCfg Config
		if err := yaml.Unmarshal(raw, &fileCfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
		cfg = mergeConfig(cfg, fileCfg)
	}

	if err := cfg.applyEnvOverrides(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnvOverrides() error {
	if v := os.Getenv(feedURLEnv); v != "" {
		c.Feed.URL = v
	}
	if v := os.Getenv(storePathEnv); v != "" {
		c.Store.Path = v
	}
	if v, ok := os.LookupEnv(feedFallbackEnv); ok {
		c.Feed.FeedFallback = v
	}
	if v, ok := os.LookupEnv(pageFallbackEnv); ok {
		c.Feed.PageFallback = v
	}
	if v := os.Getenv(timeoutEnv); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", timeoutEnv, v, err)
		}
		c.HTTP.Timeout = d
	}
	if v := os.Getenv(logLevelEnv); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(databaseEnv); v != "" {
		c.Export.DatabasePath = v
	}
	if v := os.Getenv(listenAddrEnv); v != "" {
		c.Server.Addr = v
	}
	return nil
}

func mergeConfig(base, override Config) Config {
	if override.Feed.URL != "" {
		base.Feed.URL = override.Feed.URL
	}
	if override.Feed.FeedFallback != "" {
		base.Feed.FeedFallback = override.Feed.FeedFallback
	}
	if override.Feed.PageFallback != "" {
		base.Feed.PageFallback = override.Feed.PageFallback
	}

	if override.Store.Path != "" {
		base.Store.Path = override.Store.Path
	}

	if override.HTTP.Timeout > 0 {
		base.HTTP.Timeout = override.HTTP.Timeout
	}
	if override.HTTP.UserAgent != "" {
		base.HTTP.UserAgent = override.HTTP.UserAgent
	}

	if override.Export.DatabasePath != "" {
		base.Export.DatabasePath = override.Export.DatabasePath
	}
	if override.Server.Addr != "" {
		base.Server.Addr = override.Server.Addr
	}
	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}

	return base
}
