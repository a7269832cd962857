package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/kbukum/actionflow/errors"
)

// FileSystem abstracts the file lookups the loader performs.
type FileSystem interface {
	Exists(path string) bool
	LoadEnv(path string) error
	UserConfigDir() (string, error)
}

// RealFileSystem implements FileSystem using actual file operations.
type RealFileSystem struct{}

func (rfs *RealFileSystem) Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

func (rfs *RealFileSystem) LoadEnv(path string) error {
	return godotenv.Load(path)
}

func (rfs *RealFileSystem) UserConfigDir() (string, error) {
	return os.UserConfigDir()
}

// Resolver finds config and env files for an application.
type Resolver struct {
	FileSystem FileSystem
}

// ResolvedFiles contains the resolved config and env file paths. Either may
// be empty when nothing was found.
type ResolvedFiles struct {
	ConfigFile string
	EnvFile    string
}

// ResolveFiles returns explicit paths when given, otherwise the first match
// from the standard search locations.
func (cr *Resolver) ResolveFiles(app string, opts LoaderConfig) ResolvedFiles {
	resolved := ResolvedFiles{
		ConfigFile: opts.ConfigFile,
		EnvFile:    opts.EnvFile,
	}
	if resolved.ConfigFile == "" {
		resolved.ConfigFile = cr.first(cr.configCandidates(app))
	}
	if resolved.EnvFile == "" {
		resolved.EnvFile = cr.first(envCandidates(app))
	}
	return resolved
}

func (cr *Resolver) configCandidates(app string) []string {
	paths := []string{
		"./" + app + ".yml",
		"./" + app + ".yaml",
		"./config/" + app + ".yml",
		"./config/config.yml",
		"./config.yml",
	}
	if dir, err := cr.FileSystem.UserConfigDir(); err == nil && dir != "" {
		paths = append(paths, filepath.Join(dir, app, "config.yml"))
	}
	return paths
}

func envCandidates(app string) []string {
	var paths []string
	for _, name := range []string{".env." + app, ".env"} {
		paths = append(paths, "./"+name, "./config/"+name)
	}
	return paths
}

func (cr *Resolver) first(paths []string) string {
	for _, path := range paths {
		if cr.FileSystem.Exists(path) {
			return path
		}
	}
	return ""
}

// LoaderConfig holds dependencies and optional file overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // Direct config file path (optional)
	EnvFile    string // Direct env file path (optional)
	EnvPrefix  string // Defaults to the upper-cased app name
}

// LoaderOption is a functional option for LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem sets a custom filesystem for the loader.
func WithFileSystem(fs FileSystem) LoaderOption {
	return func(lc *LoaderConfig) { lc.FileSystem = fs }
}

// WithConfigFile sets an explicit config file path.
func WithConfigFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.ConfigFile = path }
}

// WithEnvFile sets an explicit .env file path.
func WithEnvFile(path string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvFile = path }
}

// WithEnvPrefix overrides the environment variable prefix.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// LoadConfig loads configuration for app into cfg.
//
// Values come from the resolved YAML file, then from environment variables
// named PREFIX_SECTION_KEY (ACTIONFLOW_ENGINE_MAX_PARALLEL sets
// engine.max_parallel). A resolved .env file is loaded into the process
// environment first and never overrides variables that are already set.
// A missing config file is not an error; an unreadable one is.
func LoadConfig(app string, cfg any, opts ...LoaderOption) error {
	var lc LoaderConfig
	for _, opt := range opts {
		opt(&lc)
	}
	if lc.FileSystem == nil {
		lc.FileSystem = &RealFileSystem{}
	}
	if lc.EnvPrefix == "" {
		lc.EnvPrefix = strings.ToUpper(strings.ReplaceAll(app, "-", "_"))
	}

	resolver := &Resolver{FileSystem: lc.FileSystem}
	files := resolver.ResolveFiles(app, lc)

	v := viper.New()

	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return errors.InvalidInput("config", err.Error()).
				WithDetail("file", files.ConfigFile).
				WithCause(err)
		}
	}

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			return errors.InvalidInput("env", err.Error()).
				WithDetail("file", files.EnvFile).
				WithCause(err)
		}
	}

	bindEnv(v, lc.EnvPrefix, os.Environ())

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidInput("config", err.Error()).WithCause(err)
	}
	return nil
}

// bindEnv sets every key variant of prefixed environment variables on v.
func bindEnv(v *viper.Viper, prefix string, environ []string) {
	prefix += "_"
	for _, env := range environ {
		key, value, ok := strings.Cut(env, "=")
		if !ok || !strings.HasPrefix(key, prefix) {
			continue
		}
		for _, variant := range envKeyVariants(strings.TrimPrefix(key, prefix)) {
			v.Set(variant, value)
		}
	}
}

// envKeyVariants maps an upper-case env key to the nested keys it may mean.
// Underscores are ambiguous, so every split point is produced:
//
//	ENGINE_MAX_PARALLEL -> [engine_max_parallel, engine.max_parallel, engine.max.parallel]
func envKeyVariants(envKey string) []string {
	lower := strings.ToLower(envKey)
	parts := strings.Split(lower, "_")

	variants := []string{lower}
	for i := 1; i < len(parts); i++ {
		section := strings.Join(parts[:i], ".")
		rest := strings.Join(parts[i:], "_")
		variants = append(variants, section+"."+rest)
	}
	return variants
}
