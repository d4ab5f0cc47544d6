package api

import (
	"time"

	"code.lumenmarkets.io/liquidity/config/encoding"
	"code.lumenmarkets.io/liquidity/logging"
)

const namedLogger = "api"

// Config represents the configuration of the api package.
type Config struct {
	Level   encoding.LogLevel
	IP      string
	Port    int
	Timeout encoding.Duration
}

// NewDefaultConfig creates an instance of the package specific
// configuration.
func NewDefaultConfig() Config {
	return Config{
		Level:   encoding.LogLevel{Level: logging.InfoLevel},
		IP:      "0.0.0.0",
		Port:    3002,
		Timeout: encoding.Duration{Duration: 5 * time.Second},
	}
}
