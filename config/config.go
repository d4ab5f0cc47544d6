package config

import (
	"github.com/BurntSushi/toml"

	"code.lumenmarkets.io/liquidity/api"
	"code.lumenmarkets.io/liquidity/registry"
)

// Config ties together the application configuration of all packages.
type Config struct {
	Environment string

	Registry registry.Config
	API      api.Config
}

// NewDefaultConfig returns the default configuration for all packages.
func NewDefaultConfig() Config {
	return Config{
		Environment: "dev",
		Registry:    registry.NewDefaultConfig(),
		API:         api.NewDefaultConfig(),
	}
}

// Read loads the configuration from a toml file, missing fields keep
// their defaults.
func Read(path string) (Config, error) {
	cfg := NewDefaultConfig()
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}
