package config

import "github.com/kbukum/actionflow/validation"

// BaseConfig contains the fields every actionflow binary carries.
type BaseConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Environment string `yaml:"environment" mapstructure:"environment"`
	Version     string `yaml:"version" mapstructure:"version"`
	Debug       bool   `yaml:"debug" mapstructure:"debug"`
}

// Environments accepted by BaseConfig.Validate.
var Environments = []string{"development", "staging", "production"}

// ApplyDefaults applies default values to base configuration.
func (c *BaseConfig) ApplyDefaults() {
	if c.Name == "" {
		c.Name = "actionflow"
	}
	if c.Environment == "" {
		c.Environment = "development"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.Environment == "development" {
		c.Debug = true
	}
}

// Validate validates base configuration.
func (c *BaseConfig) Validate() error {
	v := validation.New()
	v.Required("base.name", c.Name)
	v.OneOf("base.environment", c.Environment, Environments)
	return v.Validate()
}
