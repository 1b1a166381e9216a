// Package config loads the application configuration from a YAML document
// or environment variables via viper.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/fwojciec/vsx"
	"github.com/spf13/viper"
)

// Config stores all configuration of the application. The values are read
// by viper from a config file or environment variables and are immutable
// after loading.
type Config struct {
	Catalog CatalogConfig `mapstructure:"catalog"`
	Scan    ScanConfig    `mapstructure:"scan"`
	Search  SearchConfig  `mapstructure:"search"`
	Health  HealthConfig  `mapstructure:"health"`
	Bridge  BridgeConfig  `mapstructure:"bridge"`
	Server  ServerConfig  `mapstructure:"server"`
}

// CatalogConfig stores catalog database settings.
type CatalogConfig struct {
	DBPath string `mapstructure:"dbPath"`
}

// ScanConfig stores scan roots and traversal settings.
type ScanConfig struct {
	Roots       []string `mapstructure:"roots"`
	Extensions  []string `mapstructure:"extensions"`
	Concurrency int      `mapstructure:"concurrency"`
}

// SearchConfig stores search defaults.
type SearchConfig struct {
	Mode     string `mapstructure:"mode"`
	PageSize int    `mapstructure:"pageSize"`
}

// HealthConfig stores severity thresholds for the health analyzer.
type HealthConfig struct {
	SizeLowMB       int64 `mapstructure:"sizeLowMb"`
	SizeMediumMB    int64 `mapstructure:"sizeMediumMb"`
	SizeHighMB      int64 `mapstructure:"sizeHighMb"`
	DuplicateMedium int   `mapstructure:"duplicateMedium"`
	DuplicateHigh   int   `mapstructure:"duplicateHigh"`
}

// Thresholds converts the configured tiers to the domain type.
func (c HealthConfig) Thresholds() vsx.HealthThresholds {
	return vsx.HealthThresholds{
		SizeLowMB:       c.SizeLowMB,
		SizeMediumMB:    c.SizeMediumMB,
		SizeHighMB:      c.SizeHighMB,
		DuplicateMedium: c.DuplicateMedium,
		DuplicateHigh:   c.DuplicateHigh,
	}
}

// BridgeConfig stores integration bridge connection settings.
type BridgeConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeoutSeconds"`
}

// ServerConfig stores HTTP API server settings.
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// Load reads configuration from configPath, falling back to a config.yaml
// in the working directory. A missing file is not an error; defaults apply.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("catalog.dbPath", "vsx.db")
	v.SetDefault("scan.extensions", []string{".vss", ".vssx", ".vssm", ".vst", ".vstx"})
	v.SetDefault("scan.concurrency", 4)
	v.SetDefault("search.mode", string(vsx.ModeAuto))
	v.SetDefault("search.pageSize", 20)
	v.SetDefault("health.sizeLowMb", 1)
	v.SetDefault("health.sizeMediumMb", 5)
	v.SetDefault("health.sizeHighMb", 10)
	v.SetDefault("health.duplicateMedium", 5)
	v.SetDefault("health.duplicateHigh", 10)
	v.SetDefault("bridge.url", "http://127.0.0.1:5100")
	v.SetDefault("bridge.timeoutSeconds", 10)
	v.SetDefault("server.addr", "127.0.0.1:8080")

	v.SetEnvPrefix("VSX")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate returns an error if the configuration contains invalid fields.
func (c *Config) Validate() error {
	switch vsx.SearchMode(c.Search.Mode) {
	case vsx.ModeAuto, vsx.ModeFTS, vsx.ModeLike:
	default:
		return vsx.Errorf(vsx.EINVALID, "unknown search mode %q", c.Search.Mode)
	}
	if c.Search.PageSize < 1 || c.Search.PageSize > 500 {
		return vsx.Errorf(vsx.EINVALID, "search page size must be between 1 and 500")
	}
	if c.Scan.Concurrency < 1 {
		return vsx.Errorf(vsx.EINVALID, "scan concurrency must be >= 1")
	}
	return nil
}
