package config

import (
	"path/filepath"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config carries the environment-driven defaults of the console. Values
// given on the command line take precedence over these.
type Config struct {
	Server       string        `envconfig:"CHECKCTL_SERVER" default:""`
	Token        string        `envconfig:"CHECKCTL_TOKEN" default:""`
	PollInterval time.Duration `envconfig:"CHECKCTL_POLL_INTERVAL" default:"3s"`
	LogLevel     string        `envconfig:"CHECKCTL_LOG_LEVEL" default:"info"`
	DataDir      string        `envconfig:"CHECKCTL_DATA_DIR" default:""`
}

func New() (*Config, error) {
	cfg := &Config{}
	if err := envconfig.Process("", cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// HistoryDir resolves the directory for local history files, next to the
// client config file unless overridden.
func (c *Config) HistoryDir(configPath string) string {
	if c.DataDir != "" {
		return c.DataDir
	}
	return filepath.Dir(configPath)
}
