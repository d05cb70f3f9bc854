package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/viper"

	"gram-gold-watch/internal/logging"
)

// Config materialises application configuration.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Logging    logging.Config   `mapstructure:"logging"`
	Server     ServerConfig     `mapstructure:"server"`
	Sources    SourcesConfig    `mapstructure:"sources"`
	MarketData MarketDataConfig `mapstructure:"marketdata"`
	ArbLog     ArbLogConfig     `mapstructure:"arblog"`
	News       NewsConfig       `mapstructure:"news"`
	Translate  TranslateConfig  `mapstructure:"translate"`
	Sampler    SamplerConfig    `mapstructure:"sampler"`
	Alerting   AlertingConfig   `mapstructure:"alerting"`
	Export     ExportConfig     `mapstructure:"export"`
}

// AppConfig general metadata.
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
}

// ServerConfig governs the HTTP surface.
type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// SourcesConfig names the two local quote pages.
type SourcesConfig struct {
	RetailURL      string        `mapstructure:"retail_url"`
	ReferenceURL   string        `mapstructure:"reference_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// MarketDataConfig covers the close-price series provider.
type MarketDataConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	RateLimitRPS   float64       `mapstructure:"rate_limit_rps"`
}

// ArbLogConfig locates the append-only arbitrage log.
type ArbLogConfig struct {
	Path          string        `mapstructure:"path"`
	WriteInterval time.Duration `mapstructure:"write_interval"`
}

// NewsConfig tunes the headline cache.
type NewsConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TTL            time.Duration `mapstructure:"ttl"`
	Limit          int           `mapstructure:"limit"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	UserAgent      string        `mapstructure:"user_agent"`
}

// TranslateConfig covers the translation collaborator.
type TranslateConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	TargetLang     string        `mapstructure:"target_lang"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// SamplerConfig governs the background sampling loop.
type SamplerConfig struct {
	Enabled      bool          `mapstructure:"enabled"`
	Interval     time.Duration `mapstructure:"interval"`
	AlignToStart bool          `mapstructure:"align_to_start"`
	StartupDelay time.Duration `mapstructure:"startup_delay"`
}

// AlertingConfig defines alert thresholds and routing.
type AlertingConfig struct {
	Enabled      bool           `mapstructure:"enabled"`
	ThresholdPct float64        `mapstructure:"threshold_pct"`
	Telegram     TelegramConfig `mapstructure:"telegram"`
}

// TelegramConfig carries Telegram delivery parameters.
type TelegramConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	BotToken string `mapstructure:"bot_token"`
	ChatID   string `mapstructure:"chat_id"`
	APIBase  string `mapstructure:"api_base"`
}

// ExportConfig sets CLI export behaviour.
type ExportConfig struct {
	MaxDataPoints int `mapstructure:"max_data_points"`
}

// Load builds configuration from file, environment, and defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("GOLDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	if err := readConfig(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, decodeHook()); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func readConfig(v *viper.Viper) error {
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "goldwatcher")
	v.SetDefault("app.environment", "development")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")

	v.SetDefault("server.addr", ":5000")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("sources.request_timeout", "8s")
	v.SetDefault("sources.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")

	v.SetDefault("marketdata.base_url", "https://query1.finance.yahoo.com")
	v.SetDefault("marketdata.request_timeout", "10s")
	v.SetDefault("marketdata.rate_limit_rps", 4.0)

	v.SetDefault("arblog.path", "data/arbitrage_history.csv")
	v.SetDefault("arblog.write_interval", "15m")

	v.SetDefault("news.base_url", "https://news.google.com/rss/search")
	v.SetDefault("news.ttl", "5m")
	v.SetDefault("news.limit", 6)
	v.SetDefault("news.request_timeout", "8s")
	v.SetDefault("news.user_agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36")

	v.SetDefault("translate.base_url", "https://translate.googleapis.com/translate_a/single")
	v.SetDefault("translate.target_lang", "tr")
	v.SetDefault("translate.request_timeout", "6s")

	v.SetDefault("sampler.enabled", false)
	v.SetDefault("sampler.interval", "15m")
	v.SetDefault("sampler.align_to_start", true)
	v.SetDefault("sampler.startup_delay", "0s")

	v.SetDefault("alerting.enabled", false)
	v.SetDefault("alerting.threshold_pct", 1.5)
	v.SetDefault("alerting.telegram.enabled", false)
	v.SetDefault("alerting.telegram.api_base", "https://api.telegram.org")

	v.SetDefault("export.max_data_points", 100000)
}

func decodeHook() viper.DecoderConfigOption {
	return func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "mapstructure"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}
}

// Validate performs basic sanity checks on the configuration values.
func (c *Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr must be set")
	}
	if c.Export.MaxDataPoints <= 0 {
		return fmt.Errorf("export.max_data_points must be greater than zero")
	}
	if c.ArbLog.Path == "" {
		return fmt.Errorf("arblog.path must be set")
	}
	if c.ArbLog.WriteInterval <= 0 {
		return fmt.Errorf("arblog.write_interval must be greater than zero")
	}
	if c.MarketData.RateLimitRPS <= 0 {
		return fmt.Errorf("marketdata.rate_limit_rps must be greater than zero")
	}
	if c.News.TTL <= 0 {
		return fmt.Errorf("news.ttl must be greater than zero")
	}
	if c.Sampler.Enabled && c.Sampler.Interval <= 0 {
		return fmt.Errorf("sampler.interval must be greater than zero")
	}
	if c.Alerting.ThresholdPct < 0 {
		return fmt.Errorf("alerting.threshold_pct cannot be negative")
	}
	if c.Alerting.Telegram.Enabled {
		if c.Alerting.Telegram.BotToken == "" {
			return fmt.Errorf("alerting.telegram.bot_token must be set")
		}
		if c.Alerting.Telegram.ChatID == "" {
			return fmt.Errorf("alerting.telegram.chat_id must be set")
		}
	}
	return nil
}

// ResolveMaxPoints returns either the CLI override or config default.
func (c *Config) ResolveMaxPoints(override int) int {
	if override > 0 {
		return override
	}
	return c.Export.MaxDataPoints
}
