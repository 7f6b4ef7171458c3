// Package config loads host configuration from environment variables and
// validates every setting up front so misconfiguration fails before any
// file is read.
package config

import (
	"fmt"
	"strings"
	"time"

	"covidsonif/internal/engine"

	"github.com/caarlos0/env/v11"
)

// Config holds the settings for the sonify host.
type Config struct {
	Logging LoggingConfig

	// Catalog is the YAML file naming the available datasets.
	Catalog string `env:"SONIF_CATALOG" envDefault:"datasets.yaml"`

	// Dataset is the catalog entry to import (required).
	Dataset string `env:"SONIF_DATASET"`

	// Region is the series to play back.
	Region string `env:"SONIF_REGION" envDefault:"World"`

	// AggregateRegion is the roll-up region excluded from dataset maxima.
	AggregateRegion string `env:"SONIF_AGGREGATE_REGION" envDefault:"World"`

	// IncludeAggregate counts AggregateRegion when computing the dataset maximum.
	IncludeAggregate bool `env:"SONIF_INCLUDE_AGGREGATE" envDefault:"false"`

	// ParseMode is lenient or strict.
	ParseMode string `env:"SONIF_PARSE_MODE" envDefault:"lenient"`

	// Interval between two played dates. Zero plays unpaced.
	Interval time.Duration `env:"SONIF_INTERVAL" envDefault:"250ms"`

	// ArrowOut, when set, receives the imported dataset as an Arrow IPC stream.
	ArrowOut string `env:"SONIF_ARROW_OUT"`

	// Output is the summary format: table or json.
	Output string `env:"SONIF_OUTPUT" envDefault:"table"`
}

type LoggingConfig struct {
	Level  string `env:"SONIF_LOG_LEVEL" envDefault:"info"`
	Format string `env:"SONIF_LOG_FORMAT" envDefault:"text"`
}

// WidenConfig holds the settings for the long-to-wide converter.
type WidenConfig struct {
	Logging LoggingConfig

	Input        string `env:"WIDEN_INPUT"`
	Output       string `env:"WIDEN_OUTPUT"`
	RegionColumn string `env:"WIDEN_REGION_COLUMN" envDefault:"Entity"`
	DateColumn   string `env:"WIDEN_DATE_COLUMN" envDefault:"Date"`
	ValueColumn  string `env:"WIDEN_VALUE_COLUMN"`
}

// Load reads Config from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadWiden reads WidenConfig from the environment and validates it.
func LoadWiden() (*WidenConfig, error) {
	var cfg WidenConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate reports every invalid setting at once.
func (c *Config) Validate() error {
	errs := c.Logging.validate()

	if strings.TrimSpace(c.Catalog) == "" {
		errs = append(errs, "SONIF_CATALOG must not be empty")
	}
	if strings.TrimSpace(c.Dataset) == "" {
		errs = append(errs, "SONIF_DATASET is required")
	}
	if strings.TrimSpace(c.Region) == "" {
		errs = append(errs, "SONIF_REGION must not be empty")
	}
	if _, err := engine.ParseModeOf(c.ParseMode); err != nil {
		errs = append(errs, fmt.Sprintf("SONIF_PARSE_MODE: %v", err))
	}
	if c.Interval < 0 {
		errs = append(errs, fmt.Sprintf("SONIF_INTERVAL must not be negative, got %s", c.Interval))
	}
	switch strings.ToLower(c.Output) {
	case "table", "json":
	default:
		errs = append(errs, fmt.Sprintf("SONIF_OUTPUT must be table or json, got %q", c.Output))
	}

	return joinErrors(errs)
}

// Validate reports every invalid setting at once.
func (c *WidenConfig) Validate() error {
	errs := c.Logging.validate()

	if strings.TrimSpace(c.Input) == "" {
		errs = append(errs, "WIDEN_INPUT is required")
	}
	if strings.TrimSpace(c.Output) == "" {
		errs = append(errs, "WIDEN_OUTPUT is required")
	}
	if strings.TrimSpace(c.ValueColumn) == "" {
		errs = append(errs, "WIDEN_VALUE_COLUMN is required")
	}
	if c.Input != "" && c.Input == c.Output {
		errs = append(errs, "WIDEN_OUTPUT must differ from WIDEN_INPUT")
	}

	return joinErrors(errs)
}

func (l LoggingConfig) validate() []string {
	var errs []string
	switch strings.ToLower(l.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("SONIF_LOG_LEVEL must be debug, info, warn or error, got %q", l.Level))
	}
	switch strings.ToLower(l.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("SONIF_LOG_FORMAT must be text or json, got %q", l.Format))
	}
	return errs
}

func joinErrors(errs []string) error {
	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
