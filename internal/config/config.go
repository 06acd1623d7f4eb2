// Package config loads packview's configuration from file and environment.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Archive ArchiveConfig `mapstructure:"archive"`
	Fetch   FetchConfig   `mapstructure:"fetch"`
	Browse  BrowseConfig  `mapstructure:"browse"`
	Spider  SpiderConfig  `mapstructure:"spider"`
	UI      UIConfig      `mapstructure:"ui"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ArchiveConfig holds the remote archive endpoints
type ArchiveConfig struct {
	APIURL string `mapstructure:"api_url"`
	WebURL string `mapstructure:"web_url"`
}

// FetchConfig holds download pipeline configuration
type FetchConfig struct {
	Workers  int    `mapstructure:"workers"`
	CacheDir string `mapstructure:"cache_dir"` // empty disables the on-disk response cache
}

// BrowseConfig holds list paging and filtering preferences
type BrowseConfig struct {
	PageSize     int  `mapstructure:"page_size"`      // pack lists
	RootPageSize int  `mapstructure:"root_page_size"` // group/artist lists
	IncludeMags  bool `mapstructure:"include_mags"`   // magazines in year drill-downs
}

// SpiderConfig holds the background crawler toggle
type SpiderConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

// UIConfig holds UI configuration
type UIConfig struct {
	Theme       string `mapstructure:"theme"`
	GridColumns int    `mapstructure:"grid_columns"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		Archive: ArchiveConfig{
			APIURL: "https://api.16colo.rs",
			WebURL: "https://16colo.rs",
		},
		Fetch: FetchConfig{
			Workers:  4,
			CacheDir: defaultCachePath(),
		},
		Browse: BrowseConfig{
			PageSize:     50,
			RootPageSize: 80,
			IncludeMags:  false,
		},
		Spider: SpiderConfig{
			Enabled: false,
		},
		UI: UIConfig{
			Theme:       "default",
			GridColumns: 4,
		},
		Logging: LoggingConfig{
			File:  defaultLogPath(),
			Level: "INFO",
		},
	}
}

// defaultLogPath returns the default log file path for the current OS
func defaultLogPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "packview", "packview.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "packview", "packview.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "packview")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "packview")
	}
}

// defaultCachePath returns the default response cache directory for the
// current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "packview", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "packview", "cache")
	}
}

// Load loads configuration from file and environment
func Load() (*Config, error) {
	cfg := Default()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("PACKVIEW")
	viper.AutomaticEnv()

	// Read config file if it exists
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found is OK, use defaults
	}

	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("error parsing config: %w", err)
	}

	return cfg, nil
}

// Save writes the current configuration to file
func Save(cfg *Config) error {
	configPath := defaultConfigPath()

	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	viper.Set("archive.api_url", cfg.Archive.APIURL)
	viper.Set("archive.web_url", cfg.Archive.WebURL)

	viper.Set("fetch.workers", cfg.Fetch.Workers)
	viper.Set("fetch.cache_dir", cfg.Fetch.CacheDir)

	viper.Set("browse.page_size", cfg.Browse.PageSize)
	viper.Set("browse.root_page_size", cfg.Browse.RootPageSize)
	viper.Set("browse.include_mags", cfg.Browse.IncludeMags)

	viper.Set("spider.enabled", cfg.Spider.Enabled)

	viper.Set("ui.theme", cfg.UI.Theme)
	viper.Set("ui.grid_columns", cfg.UI.GridColumns)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ClearCache removes all cached response data
func ClearCache(cfg *Config) error {
	if cfg.Fetch.CacheDir == "" {
		return nil
	}
	if err := os.RemoveAll(cfg.Fetch.CacheDir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
