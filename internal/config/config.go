// Package config loads gemlens settings from an optional config file
// and the environment. All values have sensible defaults; only the API
// key must be supplied.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/gemlens/gemlens/internal/verdict"
)

type Config struct {
	API      APIConfig      `mapstructure:"api"`
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Segments SegmentsConfig `mapstructure:"segments"`
	Slack    SlackConfig    `mapstructure:"slack"`
}

type APIConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Key            string        `mapstructure:"key"`
	RequestDelay   time.Duration `mapstructure:"request_delay"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryBaseDelay time.Duration `mapstructure:"retry_base_delay"`
	Timeout        time.Duration `mapstructure:"timeout"`
}

type AnalysisConfig struct {
	MinConfidence        float64 `mapstructure:"min_confidence"`
	HighConfidence       float64 `mapstructure:"high_confidence"`
	NeutralLiftThreshold float64 `mapstructure:"neutral_lift_threshold"`
	DivergenceDeadZone   float64 `mapstructure:"divergence_dead_zone"`
	MinRuntimeDays       int     `mapstructure:"min_runtime_days"`
	MinVisitors          int     `mapstructure:"min_visitors"`
	MinOrders            int     `mapstructure:"min_orders"`
	FlatMinRuntimeDays   int     `mapstructure:"flat_min_runtime_days"`
	AssumedCAC           float64 `mapstructure:"assumed_cac"`
}

type SegmentsConfig struct {
	IncludeCountry bool `mapstructure:"include_country"`
}

type SlackConfig struct {
	WebhookURL string `mapstructure:"webhook_url"`
}

// Load reads configuration from path (or ./gemlens.yaml when empty)
// plus the environment. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("gemlens")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("GEMLENS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The Intelligems dashboard hands out the key under this name.
	if err := v.BindEnv("api.key", "INTELLIGEMS_API_KEY", "GEMLENS_API_KEY"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "https://api.intelligems.io/v25-10-beta")
	v.SetDefault("api.request_delay", time.Second)
	v.SetDefault("api.max_retries", 5)
	v.SetDefault("api.retry_base_delay", 5*time.Second)
	v.SetDefault("api.timeout", 30*time.Second)

	v.SetDefault("analysis.min_confidence", 0.80)
	v.SetDefault("analysis.high_confidence", 0.95)
	v.SetDefault("analysis.neutral_lift_threshold", 0.02)
	v.SetDefault("analysis.divergence_dead_zone", 0.005)
	v.SetDefault("analysis.min_runtime_days", 10)
	v.SetDefault("analysis.min_visitors", 100)
	v.SetDefault("analysis.min_orders", 30)
	v.SetDefault("analysis.flat_min_runtime_days", 21)
	v.SetDefault("analysis.assumed_cac", 40)

	v.SetDefault("segments.include_country", false)
	v.SetDefault("slack.webhook_url", "")
}

func (c *Config) Validate() error {
	if c.API.Key == "" {
		return fmt.Errorf("api key is required (set INTELLIGEMS_API_KEY)")
	}
	if c.Analysis.MinConfidence <= 0 || c.Analysis.MinConfidence >= 1 {
		return fmt.Errorf("analysis.min_confidence must be between 0 and 1")
	}
	if c.Analysis.HighConfidence < c.Analysis.MinConfidence {
		return fmt.Errorf("analysis.high_confidence must be >= analysis.min_confidence")
	}
	if c.Analysis.MinRuntimeDays < 1 {
		return fmt.Errorf("analysis.min_runtime_days must be positive")
	}
	if c.API.MaxRetries < 0 {
		return fmt.Errorf("api.max_retries must not be negative")
	}
	return nil
}

// Thresholds bundles the verdict policy knobs.
func (c *Config) Thresholds() verdict.Thresholds {
	return verdict.Thresholds{
		MinConfidence:      c.Analysis.MinConfidence,
		NeutralLift:        c.Analysis.NeutralLiftThreshold,
		MinRuntimeDays:     c.Analysis.MinRuntimeDays,
		MinOrders:          c.Analysis.MinOrders,
		FlatMinRuntimeDays: c.Analysis.FlatMinRuntimeDays,
	}
}
