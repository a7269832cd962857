package main

import (
	"fmt"

	"github.com/kbukum/actionflow/config"
	"github.com/kbukum/actionflow/flow"
	"github.com/kbukum/actionflow/logger"
	"github.com/kbukum/actionflow/observability"
	"github.com/kbukum/actionflow/process"
	"github.com/kbukum/actionflow/util"
	"github.com/kbukum/actionflow/version"
)

const appName = "actionflow"

// Config is the full CLI configuration.
type Config struct {
	Base          config.BaseConfig    `yaml:"base" mapstructure:"base"`
	Logger        logger.Config        `yaml:"logger" mapstructure:"logger"`
	Engine        flow.EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Process       process.Config       `yaml:"process" mapstructure:"process"`
	Observability observability.Config `yaml:"observability" mapstructure:"observability"`
}

// ApplyDefaults applies defaults to every section. Telemetry identity
// follows the base section unless set explicitly.
func (c *Config) ApplyDefaults() {
	c.Base.Version = util.Coalesce(c.Base.Version, version.Get().Short())
	c.Base.ApplyDefaults()
	c.Logger.ApplyDefaults()
	c.Engine.ApplyDefaults()
	c.Process.ApplyDefaults()

	o := &c.Observability
	o.ServiceName = util.Coalesce(o.ServiceName, c.Base.Name)
	o.ServiceVersion = util.Coalesce(o.ServiceVersion, c.Base.Version)
	o.Environment = util.Coalesce(o.Environment, c.Base.Environment)
	o.ApplyDefaults()
}

// Validate validates every section.
func (c *Config) Validate() error {
	if err := c.Base.Validate(); err != nil {
		return err
	}
	if err := c.Logger.Validate(); err != nil {
		return fmt.Errorf("config.logger: %w", err)
	}
	if err := c.Engine.Validate(); err != nil {
		return err
	}
	if err := c.Process.Validate(); err != nil {
		return err
	}
	return c.Observability.Validate()
}

// loadConfig reads configuration files and the environment, then applies
// command line overrides before defaults and validation.
func loadConfig(opts *rootOptions) (*Config, error) {
	var loaderOpts []config.LoaderOption
	if opts.configFile != "" {
		loaderOpts = append(loaderOpts, config.WithConfigFile(opts.configFile))
	}
	if opts.envFile != "" {
		loaderOpts = append(loaderOpts, config.WithEnvFile(opts.envFile))
	}

	var cfg Config
	if err := config.LoadConfig(appName, &cfg, loaderOpts...); err != nil {
		return nil, err
	}
	opts.override(&cfg)

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
