// Package config loads service configuration for registry-backed programs.
//
// Load searches config.yml and .env files in the standard locations, binds
// environment variables onto nested keys, applies defaults and validates the
// result:
//
//	var cfg config.Config
//	if err := config.Load("inject-demo", &cfg); err != nil {
//		return err
//	}
//
// Environment variables override file values using underscore-separated
// paths (e.g., LOGGING_LEVEL sets logging.level).
package config
