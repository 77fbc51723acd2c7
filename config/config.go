package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type Config struct {
	Discord  DiscordConfig  `mapstructure:"discord"`
	Quote    QuoteConfig    `mapstructure:"quote"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Bot      BotConfig      `mapstructure:"bot"`
	Log      LogConfig      `mapstructure:"log"`
	Postgres PostgresConfig `mapstructure:"postgres"`
	Secrets  SecretsConfig  `mapstructure:"secrets"`
}

type DiscordConfig struct {
	Token         string        `mapstructure:"token"`
	GatewayURL    string        `mapstructure:"gateway_url"`
	APIURL        string        `mapstructure:"api_url"`
	Intents       int           `mapstructure:"intents"`
	CommandPrefix string        `mapstructure:"command_prefix"`
	NoticeTTL     time.Duration `mapstructure:"notice_ttl"` // how long error notices stay visible
	Timeout       time.Duration `mapstructure:"timeout"`
}

type QuoteConfig struct {
	Providers     []string      `mapstructure:"providers"` // tried in order: "equity", "chart"
	ChartURL      string        `mapstructure:"chart_url"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	CacheCapacity int           `mapstructure:"cache_capacity"`
	WarmSymbols   []string      `mapstructure:"warm_symbols"` // fetched at startup and after each purge
}

type ChartConfig struct {
	TradingViewURL string        `mapstructure:"tradingview_url"`
	ImageURL       string        `mapstructure:"image_url"`
	APIKey         string        `mapstructure:"api_key"`
	Embedded       bool          `mapstructure:"embedded"`
	Width          int           `mapstructure:"width"`
	Height         int           `mapstructure:"height"`
	Theme          string        `mapstructure:"theme"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type BotConfig struct {
	DedupeCapacity int `mapstructure:"dedupe_capacity"`
	MaxConcurrent  int `mapstructure:"max_concurrent"` // messages handled at once
}

// LogConfig defines the logger configuration options.
type LogConfig struct {
	Level       string `mapstructure:"level"`       // log level: "debug", "info", "warn", "error"
	Format      string `mapstructure:"format"`      // log format: "json" or "console"
	OutputFile  string `mapstructure:"output_file"` // file path to store logs (optional)
	Environment string `mapstructure:"environment"` // environment: "dev" or "prod"
	MaxSizeMB   int    `mapstructure:"max_size_mb"`
	MaxBackups  int    `mapstructure:"max_backups"`
	MaxAgeDays  int    `mapstructure:"max_age_days"`
}

var knownProviders = map[string]bool{"equity": true, "chart": true}

func setDefaults(v *viper.Viper) {
	v.SetDefault("discord.token", "")
	v.SetDefault("discord.gateway_url", "wss://gateway.discord.gg/?v=10&encoding=json")
	v.SetDefault("discord.api_url", "https://discord.com/api/v10")
	v.SetDefault("discord.intents", 37376)
	v.SetDefault("discord.command_prefix", "!")
	v.SetDefault("discord.notice_ttl", 10*time.Second)
	v.SetDefault("discord.timeout", 10*time.Second)

	v.SetDefault("quote.providers", []string{"equity", "chart"})
	v.SetDefault("quote.chart_url", "https://query1.finance.yahoo.com")
	v.SetDefault("quote.timeout", 10*time.Second)
	v.SetDefault("quote.cache_ttl", 300*time.Second)
	v.SetDefault("quote.cache_capacity", 256)
	v.SetDefault("quote.warm_symbols", []string{})

	v.SetDefault("chart.tradingview_url", "https://www.tradingview.com/chart/")
	v.SetDefault("chart.image_url", "https://api.chart-img.com")
	v.SetDefault("chart.api_key", "")
	v.SetDefault("chart.embedded", true)
	v.SetDefault("chart.width", 800)
	v.SetDefault("chart.height", 500)
	v.SetDefault("chart.theme", "dark")
	v.SetDefault("chart.timeout", 15*time.Second)

	v.SetDefault("bot.dedupe_capacity", 1000)
	v.SetDefault("bot.max_concurrent", 8)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output_file", "")
	v.SetDefault("log.environment", "dev")
	v.SetDefault("log.max_size_mb", 10)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("log.max_age_days", 7)

	v.SetDefault("postgres.enabled", false)
	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", 5432)
	v.SetDefault("postgres.user", "postgres")
	v.SetDefault("postgres.password", "")
	v.SetDefault("postgres.dbname", "tickerbot")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.timezone", "UTC")
	v.SetDefault("postgres.max_open_conns", 10)
	v.SetDefault("postgres.max_idle_conns", 5)
	v.SetDefault("postgres.conn_max_lifetime", 30*time.Minute)
	v.SetDefault("postgres.retention", 30*24*time.Hour)

	v.SetDefault("secrets.region", "")
	v.SetDefault("secrets.discord_token", "TICKERBOT_DISCORD_TOKEN")
	v.SetDefault("secrets.chart_api_key", "TICKERBOT_CHARTIMG_API_KEY")
	v.SetDefault("secrets.db_host", "TICKERBOT_DB_HOST")
	v.SetDefault("secrets.db_user", "TICKERBOT_DB_USER")
	v.SetDefault("secrets.db_password", "TICKERBOT_DB_PASSWORD")
}

// Load loads application configuration using Viper.
// It reads a .env file if present, then the YAML config (path, or config.yaml
// next to the working directory or the executable), and overrides with
// environment variables. A missing default config file is not an error.
// In prod, secrets are then read from AWS SSM Parameter Store.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to read .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config") // config.yaml
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		if ex, err := os.Executable(); err == nil {
			v.AddConfigPath(filepath.Join(filepath.Dir(ex), "../config"))
		}
	}

	// Support environment variables with dot notation (e.g., QUOTE_CACHE_TTL)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Variable names the bot has always used
	_ = v.BindEnv("discord.token", "DISCORD_TOKEN")
	_ = v.BindEnv("chart.api_key", "CHARTIMG_API_KEY", "CHART_API_KEY")
	_ = v.BindEnv("chart.embedded", "USE_EMBEDDED_CHARTS", "CHART_EMBEDDED")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if cfg.Log.Environment == "prod" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		store, err := NewParameterStore(ctx, cfg.Secrets.Region)
		if err != nil {
			return nil, err
		}
		if err := cfg.ResolveSecrets(ctx, store); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values every command relies on. The Discord token is
// checked separately by RequireDiscord since offline commands do not need it.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Quote.Providers) == 0 {
		errs = append(errs, errors.New("quote.providers must not be empty"))
	}
	for _, p := range c.Quote.Providers {
		if !knownProviders[p] {
			errs = append(errs, fmt.Errorf("quote.providers: unknown provider %q", p))
		}
	}
	if c.Quote.CacheCapacity <= 0 {
		errs = append(errs, errors.New("quote.cache_capacity must be positive"))
	}
	if c.Quote.CacheTTL <= 0 {
		errs = append(errs, errors.New("quote.cache_ttl must be positive"))
	}
	if c.Bot.DedupeCapacity <= 0 {
		errs = append(errs, errors.New("bot.dedupe_capacity must be positive"))
	}
	if c.Bot.MaxConcurrent <= 0 {
		errs = append(errs, errors.New("bot.max_concurrent must be positive"))
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		errs = append(errs, errors.New("chart.width and chart.height must be positive"))
	}
	if c.Discord.CommandPrefix == "" {
		errs = append(errs, errors.New("discord.command_prefix must not be empty"))
	}

	return errors.Join(errs...)
}

// RequireDiscord reports an error when the bot cannot log in.
func (c *Config) RequireDiscord() error {
	if strings.TrimSpace(c.Discord.Token) == "" {
		return errors.New("discord token is not set (DISCORD_TOKEN)")
	}
	return nil
}

// ImagesEnabled reports whether replies should embed rendered chart images.
func (c *Config) ImagesEnabled() bool {
	return c.Chart.Embedded && c.Chart.APIKey != ""
}
