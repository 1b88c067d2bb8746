package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/rewired-gh/covidtrend/internal/jhu"
)

// Config represents the complete application configuration
type Config struct {
	Source   SourceConfig   `mapstructure:"source"`
	Report   ReportConfig   `mapstructure:"report"`
	Chart    ChartConfig    `mapstructure:"chart"`
	Telegram TelegramConfig `mapstructure:"telegram"`
	Logging  LoggingConfig  `mapstructure:"logging"`
}

// SourceConfig holds the upstream dataset locations
type SourceConfig struct {
	GlobalURL string        `mapstructure:"global_url"`
	USURL     string        `mapstructure:"us_url"`
	Timeout   time.Duration `mapstructure:"timeout"` // 0 disables the timeout
}

// ReportConfig holds console report configuration
type ReportConfig struct {
	Days int `mapstructure:"days"`
}

// ChartConfig holds figure rendering configuration
type ChartConfig struct {
	Output        string  `mapstructure:"output"`
	Width         float64 `mapstructure:"width"`  // inches
	Height        float64 `mapstructure:"height"` // inches
	WindowDays    int     `mapstructure:"window_days"`
	RollingWindow int     `mapstructure:"rolling_window"`
}

// TelegramConfig holds Telegram delivery configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and environment variables.
// With an empty path only defaults and COVIDTREND_* variables apply.
func Load(path string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Enable environment variable override
	v.SetEnvPrefix("COVIDTREND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// Unmarshal into Config struct
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	// Source defaults
	v.SetDefault("source.global_url", jhu.DefaultGlobalURL)
	v.SetDefault("source.us_url", jhu.DefaultUSURL)
	v.SetDefault("source.timeout", "0s")

	// Report defaults
	v.SetDefault("report.days", 7)

	// Chart defaults
	v.SetDefault("chart.output", "covidtrend.png")
	v.SetDefault("chart.width", 10.0)
	v.SetDefault("chart.height", 9.0)
	v.SetDefault("chart.window_days", 7*17)
	v.SetDefault("chart.rolling_window", 7)

	// Telegram defaults
	v.SetDefault("telegram.enabled", false)
	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	// Validate Source config
	if c.Source.GlobalURL == "" {
		return fmt.Errorf("source.global_url is required")
	}
	if c.Source.USURL == "" {
		return fmt.Errorf("source.us_url is required")
	}
	if c.Source.Timeout < 0 {
		return fmt.Errorf("source.timeout must not be negative")
	}

	// Validate Report config
	if c.Report.Days < 1 {
		return fmt.Errorf("report.days must be at least 1")
	}

	// Validate Chart config
	if c.Chart.Output == "" {
		return fmt.Errorf("chart.output is required")
	}
	if c.Chart.Width <= 0 || c.Chart.Height <= 0 {
		return fmt.Errorf("chart.width and chart.height must be positive")
	}
	if c.Chart.WindowDays < 1 {
		return fmt.Errorf("chart.window_days must be at least 1")
	}
	if c.Chart.RollingWindow < 1 {
		return fmt.Errorf("chart.rolling_window must be at least 1")
	}

	// Validate Telegram config
	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	// Validate Logging config
	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}
