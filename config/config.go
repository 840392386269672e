package config

import (
	"github.com/kbukum/inject/logger"
	"github.com/kbukum/inject/observability"
	"github.com/kbukum/inject/validation"
)

// Config contains the fields every registry-backed service needs.
// Projects extend it by embedding:
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
//	}
type Config struct {
	Name          string               `yaml:"name" mapstructure:"name" validate:"required"`
	Environment   string               `yaml:"environment" mapstructure:"environment" validate:"oneof=development staging production"`
	Debug         bool                 `yaml:"debug" mapstructure:"debug"`
	Logging       logger.Config        `yaml:"logging" mapstructure:"logging"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
	Diagnostics   DiagnosticsConfig    `yaml:"diagnostics" mapstructure:"diagnostics"`
}

// DiagnosticsConfig controls the introspection HTTP endpoints.
type DiagnosticsConfig struct {
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
	Addr    string `yaml:"addr" mapstructure:"addr" validate:"omitempty,hostname_port"`
}

// GetConfig returns the base Config. When embedded, the method is promoted
// so the embedding struct satisfies bootstrap.Config.
func (c *Config) GetConfig() *Config {
	return c
}

// ApplyDefaults applies default values to the base configuration.
// Override this in embedding structs and call c.Config.ApplyDefaults() first.
func (c *Config) ApplyDefaults() {
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
	if c.Debug && c.Logging.Level == "" {
		c.Logging.Level = "debug"
	}
	c.Logging.ApplyDefaults()
	c.Observability.ApplyDefaults()
	if c.Diagnostics.Addr == "" {
		c.Diagnostics.Addr = "localhost:8080"
	}
}

// Validate validates the configuration.
// Override this in embedding structs and call c.Config.Validate() first.
func (c *Config) Validate() error {
	if err := validation.Validate(c); err != nil {
		return err
	}
	return c.Observability.Validate()
}
