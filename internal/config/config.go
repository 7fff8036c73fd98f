// Package config provides configuration loading and structs for the filebot server.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// TokenEnv overrides telegram.token when set.
const TokenEnv = "FILEBOT_TOKEN"

// MaxPageSize is the largest number of results Telegram accepts in one inline answer.
const MaxPageSize = 50

// Config holds all configuration for the application.
type Config struct {
	Debug    bool           `yaml:"debug"`
	Server   ServerConfig   `yaml:"server"`
	Storage  StorageConfig  `yaml:"storage"`
	Telegram TelegramConfig `yaml:"telegram"`
	Inline   InlineConfig   `yaml:"inline"`
	Search   SearchConfig   `yaml:"search"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Enabled *bool  `yaml:"enabled"`
	Host    string `yaml:"host"`
	Port    int    `yaml:"port"`
}

// EnabledOrDefault returns whether the HTTP API should run; defaults to true when unset.
func (s *ServerConfig) EnabledOrDefault() bool {
	if s.Enabled != nil {
		return *s.Enabled
	}
	return true
}

// StorageConfig holds paths for the database, index, and instance lock.
type StorageConfig struct {
	DatabasePath   string `yaml:"database_path"`
	BleveIndexPath string `yaml:"bleve_index_path"`
	LockPath       string `yaml:"lock_path"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	Token         string  `yaml:"token"`
	APIEndpoint   string  `yaml:"api_endpoint"`
	Mode          string  `yaml:"mode"` // "polling" or "webhook"
	WebhookPath   string  `yaml:"webhook_path"`
	WebhookURL    string  `yaml:"webhook_url"` // public URL Telegram posts updates to
	PollTimeout   int     `yaml:"poll_timeout"`
	Workers       int     `yaml:"workers"`
	RateLimit     float64 `yaml:"rate_limit"`
	IndexChannels []int64 `yaml:"index_channels"`
}

// InlineConfig holds inline query answering settings.
type InlineConfig struct {
	PageSize      int     `yaml:"page_size"`
	CacheTime     int     `yaml:"cache_time"`
	AuthUsers     []int64 `yaml:"auth_users"`
	AuthChannel   int64   `yaml:"auth_channel"`
	ShareText     string  `yaml:"share_text"`
	DeveloperURL  string  `yaml:"developer_url"`
	BrandName     string  `yaml:"brand_name"`
	CaptionFooter string  `yaml:"caption_footer"`
}

// SearchConfig holds search page cache settings.
type SearchConfig struct {
	PageCacheSize int           `yaml:"page_cache_size"`
	PageCacheTTL  time.Duration `yaml:"page_cache_ttl"`
}

// CacheTimePolicy returns the cache time, in seconds, to use for every inline answer.
// Any access control (allow-list or required channel) disables Telegram's result cache
// so gated results are never served to another user.
func (c *Config) CacheTimePolicy() int {
	if len(c.Inline.AuthUsers) > 0 || c.Inline.AuthChannel != 0 {
		return 0
	}
	return c.Inline.CacheTime
}

// Validate reports configuration values that cannot be served.
func (c *Config) Validate() error {
	if c.Inline.PageSize < 1 || c.Inline.PageSize > MaxPageSize {
		return fmt.Errorf("inline.page_size must be between 1 and %d, got %d", MaxPageSize, c.Inline.PageSize)
	}
	if c.Inline.CacheTime < 0 {
		return fmt.Errorf("inline.cache_time must not be negative, got %d", c.Inline.CacheTime)
	}
	switch c.Telegram.Mode {
	case "polling", "webhook":
	default:
		return fmt.Errorf("telegram.mode must be polling or webhook, got %q", c.Telegram.Mode)
	}
	if c.Telegram.Mode == "webhook" && !c.Server.EnabledOrDefault() {
		return fmt.Errorf("telegram.mode webhook requires the HTTP server")
	}
	if c.Telegram.Mode == "webhook" && c.Telegram.WebhookURL == "" {
		return fmt.Errorf("telegram.mode webhook requires telegram.webhook_url")
	}
	return nil
}

// Load reads and parses the config file at path, expands paths, and applies defaults.
// Returns an error if the file cannot be read or parsed.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if token := os.Getenv(TokenEnv); token != "" {
		cfg.Telegram.Token = token
	}

	ApplyDefaults(&cfg)

	configDir := filepath.Dir(path)
	cfg.Storage.DatabasePath = expandPath(cfg.Storage.DatabasePath, configDir)
	cfg.Storage.BleveIndexPath = expandPath(cfg.Storage.BleveIndexPath, configDir)
	cfg.Storage.LockPath = expandPath(cfg.Storage.LockPath, configDir)

	return &cfg, nil
}

// expandPath converts a path to absolute. Paths starting with "./" are relative to configDir;
// other relative paths are relative to the home directory.
func expandPath(path string, configDir string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if strings.HasPrefix(path, "./") || path == "." {
		return filepath.Join(configDir, path)
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, path)
	}
	return path
}
