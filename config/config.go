package config

import (
	"fmt"

	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/validation"
)

// DefaultServiceName is used to resolve config files and the env prefix.
const DefaultServiceName = "datakit"

// Config is the top-level datakit configuration.
type Config struct {
	Name        string         `yaml:"name" mapstructure:"name" validate:"required"`
	Environment string         `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Logging     logger.Config  `yaml:"logging" mapstructure:"logging"`
	Analysis    AnalysisConfig `yaml:"analysis" mapstructure:"analysis"`
}

// AnalysisConfig controls how algorithms are instrumented when they run.
type AnalysisConfig struct {
	// LogSteps logs every algorithm step at info level instead of debug.
	LogSteps bool `yaml:"log_steps" mapstructure:"log_steps"`
	// Tracing opens one span per algorithm step.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
	// TracePrefix names step spans "{prefix}.{role}".
	TracePrefix string `yaml:"trace_prefix" mapstructure:"trace_prefix" validate:"required_if=Tracing true"`
	// Metrics records step counts, durations and errors.
	Metrics bool `yaml:"metrics" mapstructure:"metrics"`
	// Telemetry configures the OTLP exporters used when tracing or metrics are on.
	Telemetry TelemetryConfig `yaml:"telemetry" mapstructure:"telemetry"`
}

// TelemetryConfig configures OpenTelemetry export.
type TelemetryConfig struct {
	// Endpoint is the OTLP HTTP endpoint host:port. Empty disables export.
	Endpoint   string  `yaml:"endpoint" mapstructure:"endpoint" validate:"omitempty,hostname_port"`
	Insecure   bool    `yaml:"insecure" mapstructure:"insecure"`
	SampleRate float64 `yaml:"sample_rate" mapstructure:"sample_rate" validate:"gte=0,lte=1"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = DefaultServiceName
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	c.Logging.ApplyDefaults()
	c.Analysis.ApplyDefaults()
}

// ApplyDefaults applies default values to the analysis configuration.
func (c *AnalysisConfig) ApplyDefaults() {
	if c.TracePrefix == "" {
		c.TracePrefix = "datakit"
	}
	if c.Telemetry.SampleRate == 0 {
		c.Telemetry.SampleRate = 1.0
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	if err := c.Logging.Validate(); err != nil {
		return fmt.Errorf("config.logging: %w", err)
	}
	return nil
}

// Load reads the configuration for serviceName, applies defaults and
// validates the result.
func Load(serviceName string, opts ...LoaderOption) (*Config, error) {
	var cfg Config
	if err := LoadConfig(serviceName, &cfg, opts...); err != nil {
		return nil, err
	}
	if cfg.Name == "" {
		cfg.Name = serviceName
	}
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
