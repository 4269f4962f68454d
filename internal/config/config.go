// Package config loads connection settings from the config file and environment.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/julianstephens/cloudcast/internal/constants"
	"github.com/julianstephens/cloudcast/internal/logger"
)

const FileName = "config.yaml"

type Config struct {
	Server struct {
		URL            string `mapstructure:"url"`
		TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	} `mapstructure:"server"`
	Log struct {
		Debug bool `mapstructure:"debug"`
	} `mapstructure:"log"`
	Mock struct {
		Addr           string `mapstructure:"addr"`
		AdvanceSeconds int    `mapstructure:"advance_seconds"`
	} `mapstructure:"mock"`
}

// DefaultDir is the directory holding config.yaml, the log directory and the lockfile.
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "."+constants.AppName)
	}
	return filepath.Join(home, ".config", constants.AppName)
}

// Load reads path (or <DefaultDir>/config.yaml when empty) layered under
// CLOUDCAST_* environment variables. A missing file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	for _, key := range []string{"server.url", "server.timeout_seconds", "log.debug", "mock.addr", "mock.advance_seconds"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding %s: %w", key, err)
		}
	}

	v.SetDefault("server.url", constants.DefaultServerURL)
	v.SetDefault("server.timeout_seconds", int(constants.DefaultRequestTimeout/time.Second))
	v.SetDefault("log.debug", false)
	v.SetDefault("mock.addr", constants.MockServerAddr)
	v.SetDefault("mock.advance_seconds", 30)

	if path == "" {
		path = filepath.Join(DefaultDir(), FileName)
	}
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if errors.Is(err, os.ErrNotExist) {
		logger.Debug("Config file not found, using environment and defaults", "path", path)
	} else {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decoding config: %w", err)
	}
	return &cfg, nil
}

// Validate checks the effective configuration. Callers apply command line
// overrides first so a bad file value can be corrected without editing it.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Server.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("server.url %q must be an http(s) URL", c.Server.URL)
	}
	if c.Server.TimeoutSeconds <= 0 {
		return fmt.Errorf("server.timeout_seconds must be positive, got %d", c.Server.TimeoutSeconds)
	}
	if c.Mock.AdvanceSeconds < 0 {
		return fmt.Errorf("mock.advance_seconds must not be negative, got %d", c.Mock.AdvanceSeconds)
	}
	return nil
}

func (c *Config) Timeout() time.Duration {
	return time.Duration(c.Server.TimeoutSeconds) * time.Second
}

func (c *Config) AdvanceEvery() time.Duration {
	return time.Duration(c.Mock.AdvanceSeconds) * time.Second
}
