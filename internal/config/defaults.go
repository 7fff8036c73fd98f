package config

import "time"

// DefaultShareText is the share message template; {username} is replaced with the bot's username.
const DefaultShareText = "Search any file in Telegram with @{username}"

// ApplyDefaults sets default values for any zero values in cfg.
func ApplyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Storage.DatabasePath == "" {
		cfg.Storage.DatabasePath = "/usr/local/var/filebot/data/db/files.db"
	}
	if cfg.Storage.BleveIndexPath == "" {
		cfg.Storage.BleveIndexPath = "/usr/local/var/filebot/data/indices/bleve"
	}
	if cfg.Storage.LockPath == "" {
		cfg.Storage.LockPath = "/usr/local/var/filebot/data/filebot.lock"
	}
	if cfg.Telegram.Mode == "" {
		cfg.Telegram.Mode = "polling"
	}
	if cfg.Telegram.WebhookPath == "" {
		cfg.Telegram.WebhookPath = "/telegram/webhook"
	}
	if cfg.Telegram.PollTimeout == 0 {
		cfg.Telegram.PollTimeout = 60
	}
	if cfg.Telegram.Workers == 0 {
		cfg.Telegram.Workers = 16
	}
	if cfg.Telegram.RateLimit == 0 {
		cfg.Telegram.RateLimit = 30
	}
	if cfg.Inline.PageSize == 0 {
		cfg.Inline.PageSize = 10
	}
	if cfg.Inline.CacheTime == 0 {
		cfg.Inline.CacheTime = 300
	}
	if cfg.Inline.ShareText == "" {
		cfg.Inline.ShareText = DefaultShareText
	}
	if cfg.Inline.BrandName == "" {
		cfg.Inline.BrandName = "File Bot"
	}
	if cfg.Search.PageCacheSize == 0 {
		cfg.Search.PageCacheSize = 1024
	}
	if cfg.Search.PageCacheTTL == 0 {
		cfg.Search.PageCacheTTL = 2 * time.Minute
	}
}
