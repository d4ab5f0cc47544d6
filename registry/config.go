package registry

import (
	"code.lumenmarkets.io/liquidity/config/encoding"
	"code.lumenmarkets.io/liquidity/logging"
)

const namedLogger = "registry"

// Config contains the configurable items for the registry engine.
type Config struct {
	Level encoding.LogLevel `long:"log-level"`
}

// NewDefaultConfig creates an instance of the package specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level: encoding.LogLevel{Level: logging.InfoLevel},
	}
}
