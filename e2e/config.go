package e2e

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	// E2E_LOG_LEVEL controls the harness verbosity
	LogLevel string `envconfig:"E2E_LOG_LEVEL" default:"debug"`
	// E2E_COLOURS enables colorized output for better log readability
	Colours bool `envconfig:"E2E_COLOURS" default:"true"`
	// E2E_EVENT_TIMEOUT bounds how long assertions wait for async delivery
	EventTimeout int `envconfig:"E2E_EVENT_TIMEOUT" default:"5"`
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
