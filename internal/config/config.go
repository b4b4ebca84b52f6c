package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/viper"
)

// CacheBackend selects the local store implementation.
type CacheBackend string

const (
	BackendBolt   CacheBackend = "bolt"
	BackendSQLite CacheBackend = "sqlite"
)

// Config holds all application configuration
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// ServerConfig holds the upstream movie API configuration
type ServerConfig struct {
	BaseURL string `mapstructure:"base_url"` // Empty selects the public TMDB API
	APIKey  string `mapstructure:"api_key"`
}

// CacheConfig holds local cache configuration
type CacheConfig struct {
	Dir     string        `mapstructure:"dir"`
	Backend CacheBackend  `mapstructure:"backend"` // "bolt" or "sqlite"
	TTL     time.Duration `mapstructure:"ttl"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	File  string `mapstructure:"file"`
	Level string `mapstructure:"level"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{},
		Cache: CacheConfig{
			Dir:     defaultCachePath(),
			Backend: BackendBolt,
			TTL:     24 * time.Hour,
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
		return filepath.Join(os.Getenv("APPDATA"), "cinedex", "cinedex.log")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinedex", "cinedex.log")
	}
}

// defaultConfigPath returns the default config file path for the current OS
func defaultConfigPath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "cinedex")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "cinedex")
	}
}

// defaultCachePath returns the default cache directory path for the current OS
func defaultCachePath() string {
	switch runtime.GOOS {
	case "windows":
		return filepath.Join(os.Getenv("LOCALAPPDATA"), "cinedex", "cache")
	default:
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".local", "share", "cinedex", "cache")
	}
}

// LoadConfig loads configuration from file and environment
func LoadConfig() (*Config, error) {
	cfg := DefaultConfig()

	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(defaultConfigPath())
	viper.AddConfigPath(".")

	// Environment variable overrides
	viper.SetEnvPrefix("CINEDEX")
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

	if cfg.Cache.TTL <= 0 {
		cfg.Cache.TTL = 24 * time.Hour
	}
	return cfg, nil
}

// SaveConfig saves the current configuration to file
func SaveConfig(cfg *Config) error {
	configPath := defaultConfigPath()
	if err := os.MkdirAll(configPath, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	// Set fields individually to ensure correct key names (snake_case)
	viper.Set("server.base_url", cfg.Server.BaseURL)
	viper.Set("server.api_key", cfg.Server.APIKey)

	viper.Set("cache.dir", cfg.Cache.Dir)
	viper.Set("cache.backend", cfg.Cache.Backend)
	viper.Set("cache.ttl", cfg.Cache.TTL)

	viper.Set("logging.file", cfg.Logging.File)
	viper.Set("logging.level", cfg.Logging.Level)

	configFile := filepath.Join(configPath, "config.yaml")
	if err := viper.WriteConfigAs(configFile); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// IsConfigured returns true if an API key is set
func (c *Config) IsConfigured() bool {
	return c.Server.APIKey != ""
}

// ClearCache removes the entire cache directory
func ClearCache(cfg *Config) error {
	if err := os.RemoveAll(cfg.Cache.Dir); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
