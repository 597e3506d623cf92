// File: internal/config/config.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/xkilldash9x/folio/api/schemas"
)

// Config holds the entire application configuration.
type Config struct {
	Logger      LoggerConfig     `mapstructure:"logger" yaml:"logger"`
	Target      TargetConfig     `mapstructure:"target" yaml:"target"`
	Wait        WaitConfig       `mapstructure:"wait" yaml:"wait"`
	Browser     BrowserConfig    `mapstructure:"browser" yaml:"browser"`
	Screenshots ScreenshotConfig `mapstructure:"screenshots" yaml:"screenshots"`
	Runner      RunnerConfig     `mapstructure:"runner" yaml:"runner"`
}

// LoggerConfig holds all the configuration for the logger.
type LoggerConfig struct {
	Level       string      `mapstructure:"level" yaml:"level"`
	Format      string      `mapstructure:"format" yaml:"format"`
	AddSource   bool        `mapstructure:"add_source" yaml:"add_source"`
	ServiceName string      `mapstructure:"service_name" yaml:"service_name"`
	LogFile     string      `mapstructure:"log_file" yaml:"log_file"`
	MaxSize     int         `mapstructure:"max_size" yaml:"max_size"`
	MaxBackups  int         `mapstructure:"max_backups" yaml:"max_backups"`
	MaxAge      int         `mapstructure:"max_age" yaml:"max_age"`
	Compress    bool        `mapstructure:"compress" yaml:"compress"`
	Colors      ColorConfig `mapstructure:"colors" yaml:"colors"`
}

// ColorConfig defines the color codes for different log levels.
type ColorConfig struct {
	Debug  string `mapstructure:"debug" yaml:"debug"`
	Info   string `mapstructure:"info" yaml:"info"`
	Warn   string `mapstructure:"warn" yaml:"warn"`
	Error  string `mapstructure:"error" yaml:"error"`
	DPanic string `mapstructure:"dpanic" yaml:"dpanic"`
	Panic  string `mapstructure:"panic" yaml:"panic"`
	Fatal  string `mapstructure:"fatal" yaml:"fatal"`
}

// TargetConfig describes the site under test and what the scenarios expect of it.
type TargetConfig struct {
	BaseURL       string   `mapstructure:"base_url" yaml:"base_url"`
	ExpectedTitle string   `mapstructure:"expected_title" yaml:"expected_title"`
	NavLinks      []string `mapstructure:"nav_links" yaml:"nav_links"`
	SocialDomains []string `mapstructure:"social_domains" yaml:"social_domains"`
}

// WaitConfig bounds element polling and the implicit settle after navigation.
type WaitConfig struct {
	Timeout      time.Duration `mapstructure:"timeout" yaml:"timeout"`
	Settle       time.Duration `mapstructure:"settle" yaml:"settle"`
	PollInterval time.Duration `mapstructure:"poll_interval" yaml:"poll_interval"`
}

// Policy converts the configuration into the engine's wait policy.
func (w WaitConfig) Policy() schemas.WaitPolicy {
	return schemas.WaitPolicy{
		Timeout:      w.Timeout,
		Settle:       w.Settle,
		PollInterval: w.PollInterval,
	}
}

// BrowserConfig holds settings for the browser instances launched per case.
type BrowserConfig struct {
	Headless      bool           `mapstructure:"headless" yaml:"headless"`
	ExecPath      string         `mapstructure:"exec_path" yaml:"exec_path"`
	Args          []string       `mapstructure:"args" yaml:"args"`
	Viewport      map[string]int `mapstructure:"viewport" yaml:"viewport"`
	LaunchTimeout time.Duration  `mapstructure:"launch_timeout" yaml:"launch_timeout"`
	Debug         bool           `mapstructure:"debug" yaml:"debug"`
}

// ViewportSize returns the configured window size, falling back to 1920x1080.
func (b BrowserConfig) ViewportSize() (int, int) {
	w, h := b.Viewport["width"], b.Viewport["height"]
	if w <= 0 {
		w = 1920
	}
	if h <= 0 {
		h = 1080
	}
	return w, h
}

// ScreenshotConfig controls where checkpoint captures are written.
type ScreenshotConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Dir     string `mapstructure:"dir" yaml:"dir"`
}

// RunnerConfig tunes how cases are scheduled.
type RunnerConfig struct {
	Concurrency int           `mapstructure:"concurrency" yaml:"concurrency"`
	CaseTimeout time.Duration `mapstructure:"case_timeout" yaml:"case_timeout"`
	Scenarios   []string      `mapstructure:"scenarios" yaml:"scenarios"`
}

// NewDefaultConfig creates a new configuration struct populated with default values.
func NewDefaultConfig() *Config {
	v := viper.New()
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		panic(fmt.Sprintf("failed to unmarshal default config: %v", err))
	}
	return &cfg
}

// SetDefaults initializes default values for various configuration parameters.
func SetDefaults(v *viper.Viper) {
	// -- Logger --
	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "console")
	v.SetDefault("logger.add_source", false)
	v.SetDefault("logger.service_name", "folio")
	v.SetDefault("logger.log_file", "")
	v.SetDefault("logger.max_size", 10)
	v.SetDefault("logger.max_backups", 3)
	v.SetDefault("logger.max_age", 7)
	v.SetDefault("logger.compress", false)
	v.SetDefault("logger.colors.debug", "cyan")
	v.SetDefault("logger.colors.info", "green")
	v.SetDefault("logger.colors.warn", "yellow")
	v.SetDefault("logger.colors.error", "red")

	// -- Target --
	v.SetDefault("target.base_url", "https://arijit06.github.io/ArijitSinghaRoy/")
	v.SetDefault("target.expected_title", "Arijit Singha Roy")
	v.SetDefault("target.nav_links", []string{"Home", "Portfolio", "Contact"})
	v.SetDefault("target.social_domains", []string{"linkedin.com", "github.com"})

	// -- Wait --
	v.SetDefault("wait.timeout", "10s")
	v.SetDefault("wait.settle", "2s")
	v.SetDefault("wait.poll_interval", "100ms")

	// -- Browser --
	v.SetDefault("browser.headless", false)
	v.SetDefault("browser.viewport", map[string]int{"width": 1920, "height": 1080})
	v.SetDefault("browser.launch_timeout", "30s")
	v.SetDefault("browser.debug", false)

	// -- Screenshots --
	v.SetDefault("screenshots.enabled", true)
	v.SetDefault("screenshots.dir", "src/test/screenshots")

	// -- Runner --
	v.SetDefault("runner.concurrency", 1)
	v.SetDefault("runner.case_timeout", "2m")
}

// NewConfigFromViper creates a new configuration instance from a viper object.
func NewConfigFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config

	if err := v.BindEnv("browser.headless", "FOLIO_BROWSER_HEADLESS"); err != nil {
		return nil, fmt.Errorf("error binding headless env: %w", err)
	}
	// The bare HEADLESS variable only replaces the default, so the flag, the
	// prefixed variable and the config file all take precedence over it.
	if raw, ok := os.LookupEnv("HEADLESS"); ok {
		v.SetDefault("browser.headless", HeadlessFromEnv(raw))
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

// HeadlessFromEnv interprets the bare HEADLESS variable: "true" in any case
// enables headless mode and every other value, including unparsable ones,
// leaves the browser headed.
func HeadlessFromEnv(raw string) bool {
	return strings.EqualFold(raw, "true")
}

// Validate checks the configuration for required fields and sane values.
func (c *Config) Validate() error {
	if c.Target.BaseURL == "" {
		return fmt.Errorf("target.base_url is a required configuration field")
	}
	u, err := url.Parse(c.Target.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("target.base_url must be an absolute URL, got %q", c.Target.BaseURL)
	}
	if err := c.Wait.Validate(); err != nil {
		return fmt.Errorf("wait configuration invalid: %w", err)
	}
	if c.Runner.Concurrency <= 0 {
		return fmt.Errorf("runner.concurrency must be a positive integer")
	}
	if c.Screenshots.Enabled && c.Screenshots.Dir == "" {
		return fmt.Errorf("screenshots.dir is required when screenshots are enabled")
	}
	return nil
}

// Validate checks the wait bounds.
func (w *WaitConfig) Validate() error {
	if w.Timeout <= 0 {
		return fmt.Errorf("timeout must be a positive duration")
	}
	if w.Settle < 0 {
		return fmt.Errorf("settle must not be negative")
	}
	if w.PollInterval <= 0 {
		return fmt.Errorf("poll_interval must be a positive duration")
	}
	return nil
}
