// Package config provides configuration management for the benchrules CLI.
//
// This package layers flags and environment variables over the shared project
// configuration from internal/config.
package config

import (
	sharedcfg "github.com/leapstack-labs/benchrules/internal/config"
)

// ProjectConfig is an alias for the shared project configuration.
type ProjectConfig = sharedcfg.ProjectConfig

// Config holds all CLI configuration options.
type Config struct {
	ProjectConfig `koanf:",squash"`

	Verbose bool `koanf:"verbose"`
	// Format is the output mode of reporting commands: auto, text, markdown, json.
	Format string `koanf:"format"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values - uses shared defaults from internal/config
const (
	DefaultModelsDir = sharedcfg.DefaultModelsDir
	DefaultIreeDir   = sharedcfg.DefaultIreeDir
	DefaultOutput    = sharedcfg.DefaultOutput
	DefaultFormat    = "auto"
)

// EnvPrefix is the prefix of environment variables overriding config keys.
const EnvPrefix = "BENCHRULES_"

// WritesToStdout reports whether generated output goes to standard output.
func (c *Config) WritesToStdout() bool {
	return c.Output == sharedcfg.StdoutOutput
}
