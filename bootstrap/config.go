package bootstrap

import (
	"github.com/kbukum/inject/config"
)

// Config is the interface constraint for application configuration types.
// Any struct that embeds config.Config (value embedding) satisfies it via
// promoted methods.
//
//	type MyConfig struct {
//	    config.Config `yaml:",inline" mapstructure:",squash"`
//	    Cache CacheConfig `yaml:"cache" mapstructure:"cache"`
//	}
//
//	app, err := bootstrap.NewApp[*MyConfig](&cfg)
type Config interface {
	GetConfig() *config.Config
	ApplyDefaults()
	Validate() error
}
