package config

import (
	"errors"

	"golang-etf-news-bot/internal/entity"
	"golang-etf-news-bot/pkg/common"
	"golang-etf-news-bot/pkg/config"
)

const (
	NewsProviderNewsAPI   = "newsapi"
	NewsProviderGoogleRSS = "rss"

	StoreBackendFile   = "file"
	StoreBackendRedis  = "redis"
	StoreBackendMemory = "memory"
)

// Telegram holds configuration for the Telegram bot. The token and chat id
// are secrets, supplied via TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID.
type Telegram struct {
	BotToken    string `mapstructure:"bot_token"`
	ChatID      int64  `mapstructure:"chat_id"`
	PollTimeout int    `mapstructure:"poll_timeout"`
	EnableBot   bool   `mapstructure:"enable_bot"`
}

// NewsAPI holds configuration for the news search provider. The key is a
// secret, supplied via NEWSAPI_API_KEY.
type NewsAPI struct {
	Provider string `mapstructure:"provider"`
	BaseURL  string `mapstructure:"base_url"`
	APIKey   string `mapstructure:"api_key"`
	Language string `mapstructure:"language"`
	SortBy   string `mapstructure:"sort_by"`
	PageSize int    `mapstructure:"page_size"`
}

// Store holds configuration for the seen-article store.
type Store struct {
	Backend  string `mapstructure:"backend"`
	FilePath string `mapstructure:"file_path"`
	RedisKey string `mapstructure:"redis_key"`
}

// Scheduler holds configuration for the cron-triggered digest.
type Scheduler struct {
	Enabled        bool   `mapstructure:"enabled"`
	CronExpression string `mapstructure:"cron_expression"`
}

// Config holds the full configuration for the news bot service.
type Config struct {
	App       config.App            `mapstructure:"app"`
	Logger    config.Logger         `mapstructure:"logger"`
	Redis     config.Redis          `mapstructure:"redis"`
	API       config.API            `mapstructure:"api"`
	Telegram  Telegram              `mapstructure:"telegram"`
	NewsAPI   NewsAPI               `mapstructure:"newsapi"`
	Store     Store                 `mapstructure:"store"`
	Scheduler Scheduler             `mapstructure:"scheduler"`
	Watchlist []entity.TrackedAsset `mapstructure:"watchlist"`
}

// Load loads the news bot configuration from the given path and applies
// defaults for optional sections.
func Load(path string) (*Config, error) {
	var cfg Config
	if err := config.Load(path, &cfg); err != nil {
		return nil, err
	}
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.NewsAPI.Provider == "" {
		c.NewsAPI.Provider = NewsProviderNewsAPI
	}
	if c.NewsAPI.Language == "" {
		c.NewsAPI.Language = "en"
	}
	if c.NewsAPI.SortBy == "" {
		c.NewsAPI.SortBy = "relevancy"
	}
	if c.NewsAPI.PageSize <= 0 {
		c.NewsAPI.PageSize = 2
	}
	if c.Store.Backend == "" {
		c.Store.Backend = StoreBackendFile
	}
	if c.Store.FilePath == "" {
		c.Store.FilePath = common.DefaultSeenArticlesFile
	}
	if c.Store.RedisKey == "" {
		c.Store.RedisKey = common.DefaultSeenArticlesRedisKey
	}
	if c.Telegram.PollTimeout <= 0 {
		c.Telegram.PollTimeout = 30
	}
}

// Validate reports configuration errors that make startup pointless.
// Missing credentials are fatal: nothing useful can proceed without them.
func (c *Config) Validate() error {
	if c.Telegram.BotToken == "" {
		return errors.New("telegram bot token is required (TELEGRAM_BOT_TOKEN)")
	}
	if c.Telegram.ChatID == 0 {
		return errors.New("telegram chat id is required (TELEGRAM_CHAT_ID)")
	}
	if c.NewsAPI.Provider == NewsProviderNewsAPI && c.NewsAPI.APIKey == "" {
		return errors.New("news api key is required (NEWSAPI_API_KEY)")
	}
	if len(c.Watchlist) == 0 {
		return errors.New("watchlist must contain at least one tracked asset")
	}
	return nil
}
