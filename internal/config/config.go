package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Fetch   FetchConfig   `yaml:"fetch" envconfig:"FETCH"`
	Output  OutputConfig  `yaml:"output" envconfig:"OUTPUT"`
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
}

// FetchConfig controls the upstream data-source client: per-call
// timeouts, retry policy and request pacing. The thresholds are
// deliberately configurable; the defaults stay well under the
// provider's throttling limits.
type FetchConfig struct {
	Timeout         time.Duration `yaml:"timeout" envconfig:"TIMEOUT"`
	Retries         int           `yaml:"retries" envconfig:"RETRIES"`
	BackoffBase     time.Duration `yaml:"backoff_base" envconfig:"BACKOFF_BASE"`
	RateRPS         float64       `yaml:"rate_rps" envconfig:"RATE_RPS"`
	RateBurst       int           `yaml:"rate_burst" envconfig:"RATE_BURST"`
	UserAgent       string        `yaml:"user_agent" envconfig:"USER_AGENT"`
	BrowserFallback bool          `yaml:"browser_fallback" envconfig:"BROWSER_FALLBACK"`
	BrowserHeadless bool          `yaml:"browser_headless" envconfig:"BROWSER_HEADLESS"`
}

// OutputConfig contains file system output configuration
type OutputConfig struct {
	Dir string `yaml:"dir" envconfig:"DIR"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL"`
	Format   string `yaml:"format" envconfig:"FORMAT"`
	Output   string `yaml:"output" envconfig:"OUTPUT"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH"`
}

// defaultConfig returns the built-in defaults. Defaults live here
// rather than in struct tags so that file and env overlays can be
// applied in order without the tags resurrecting defaults over file
// values.
func defaultConfig() Config {
	return Config{
		Fetch: FetchConfig{
			Timeout:         15 * time.Second,
			Retries:         3,
			BackoffBase:     500 * time.Millisecond,
			RateRPS:         2,
			RateBurst:       1,
			UserAgent:       "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36",
			BrowserFallback: false,
			BrowserHeadless: true,
		},
		Output: OutputConfig{
			Dir: "Datasets",
		},
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/analyzer.log",
		},
	}
}

// Load builds the configuration in three layers: built-in defaults,
// then the optional YAML config file, then environment variables.
// Later layers win, so env always beats the file.
func Load() (*Config, error) {
	cfg := defaultConfig()

	configFile := getConfigFilePath()
	if _, err := os.Stat(configFile); err == nil {
		if err := loadFromFile(configFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	// Only variables that are actually set overwrite anything here;
	// the struct carries no envconfig defaults.
	if err := envconfig.Process("ANALYZER", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile overlays YAML file values onto cfg; keys absent from
// the file leave the current values untouched.
func loadFromFile(filePath string, cfg *Config) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// getConfigFilePath returns the config file location, overridable via
// ANALYZER_CONFIG_FILE.
func getConfigFilePath() string {
	if path := os.Getenv("ANALYZER_CONFIG_FILE"); path != "" {
		return path
	}
	return "config.yaml"
}

// validate checks the loaded configuration for invalid values
func (c *Config) validate() error {
	if c.Fetch.Timeout <= 0 {
		return fmt.Errorf("fetch timeout must be positive, got %v", c.Fetch.Timeout)
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("fetch retries must not be negative, got %d", c.Fetch.Retries)
	}
	if c.Fetch.RateRPS <= 0 {
		return fmt.Errorf("fetch rate must be positive, got %v", c.Fetch.RateRPS)
	}
	if c.Fetch.RateBurst < 1 {
		return fmt.Errorf("fetch burst must be at least 1, got %d", c.Fetch.RateBurst)
	}
	if c.Output.Dir == "" {
		return fmt.Errorf("output dir must not be empty")
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %s", c.Logging.Level)
	}

	return nil
}
