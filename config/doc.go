// Package config loads actionflow configuration.
//
// LoadConfig reads the first config file found in the standard locations
// (./actionflow.yml, ./config/, the user config directory) with Viper, loads
// an optional .env file with godotenv, and lets prefixed environment
// variables override any key:
//
//	var cfg Config
//	err := config.LoadConfig("actionflow", &cfg)
//
// ACTIONFLOW_LOGGER_LEVEL=debug sets logger.level. Types embedding
// BaseConfig follow the ApplyDefaults then Validate convention.
package config
