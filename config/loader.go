package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kbukum/inject/errors"
	"github.com/kbukum/inject/logger"
)

// Loadable is a configuration that can fill its defaults and validate itself.
// Any struct embedding Config satisfies it.
type Loadable interface {
	ApplyDefaults()
	Validate() error
}

// LoaderConfig holds the loader's file system and optional overrides.
type LoaderConfig struct {
	FileSystem FileSystem
	ConfigFile string // explicit config file path
	EnvFile    string // explicit .env file path
	EnvPrefix  string
}

// LoaderOption configures LoadConfig.
type LoaderOption func(*LoaderConfig)

// WithFileSystem replaces the file system used to find and read files.
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

// WithEnvPrefix only honors environment variables starting with prefix and
// an underscore, e.g. "APP" reads APP_LOGGING_LEVEL for logging.level.
func WithEnvPrefix(prefix string) LoaderOption {
	return func(lc *LoaderConfig) { lc.EnvPrefix = prefix }
}

// Load reads configuration for a service into cfg, then applies defaults and
// validates it. Failures are INVALID_CONFIG errors.
func Load(serviceName string, cfg Loadable, opts ...LoaderOption) error {
	if err := LoadConfig(serviceName, cfg, opts...); err != nil {
		return err
	}
	cfg.ApplyDefaults()
	return cfg.Validate()
}

// LoadConfig unmarshals a service's config.yml into cfg. A .env file is
// loaded into the process environment first, and environment variables
// override file values: the key logging.level is read from LOGGING_LEVEL.
// Missing or unreadable files are logged and skipped.
func LoadConfig(serviceName string, cfg any, opts ...LoaderOption) error {
	lc := LoaderConfig{FileSystem: RealFileSystem{}}
	for _, opt := range opts {
		opt(&lc)
	}

	files := (&Resolver{FileSystem: lc.FileSystem}).ResolveFiles(serviceName, lc)

	if files.EnvFile != "" && lc.FileSystem.Exists(files.EnvFile) {
		if err := lc.FileSystem.LoadEnv(files.EnvFile); err != nil {
			logger.Warn("failed to load env file", logger.MergeWithError(
				logger.Fields("file", files.EnvFile), err))
		}
	}

	v := newViper(lc.EnvPrefix)
	if files.ConfigFile != "" && lc.FileSystem.Exists(files.ConfigFile) {
		v.SetConfigFile(files.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			logger.Warn("failed to load config file", logger.MergeWithError(
				logger.Fields("file", files.ConfigFile), err))
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return errors.InvalidConfig(fmt.Sprintf("failed to unmarshal config for service %s", serviceName)).
			WithCause(err)
	}
	return nil
}

// newViper returns a viper instance that resolves every field of the target
// struct from the environment, even keys absent from the config file.
func newViper(envPrefix string) *viper.Viper {
	v := viper.NewWithOptions(viper.ExperimentalBindStruct())
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	if envPrefix != "" {
		v.SetEnvPrefix(envPrefix)
	}
	v.AutomaticEnv()
	return v
}
