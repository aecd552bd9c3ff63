package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/arloliu/go-usrr16/usrr16"
	"gopkg.in/yaml.v3"
)

// DefaultCommandTimeout bounds each command of usrr16ctl so an unanswered frame
// does not hang the program.
const DefaultCommandTimeout = 3 * time.Second

// Config is the usrr16ctl configuration file.
//
// Timeout bounds the dial and the authentication handshake, CommandTimeout bounds
// each command and 0 disables it.
type Config struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	Password       string        `yaml:"password"`
	Timeout        time.Duration `yaml:"timeout"`
	CommandTimeout time.Duration `yaml:"command_timeout"`
	LogLevel       string        `yaml:"log_level"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Port:           usrr16.DefaultPort,
		Password:       usrr16.DefaultPassword,
		Timeout:        usrr16.DefaultConnectTimeout,
		CommandTimeout: DefaultCommandTimeout,
		LogLevel:       "info",
	}
}

// DefaultConfigPath returns ~/.usrr16/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".usrr16", "config.yaml")
	}

	return filepath.Join(home, ".usrr16", "config.yaml")
}

// LoadConfig reads the YAML file at path on top of the defaults.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	return cfg, nil
}

// clientConfig converts the file configuration to a client configuration.
func (c *Config) clientConfig() (*usrr16.ClientConfig, error) {
	if c.Host == "" {
		return nil, errors.New("no relay board host configured, use --host or the config file")
	}

	return usrr16.NewClientConfig(c.Host,
		usrr16.WithPort(c.Port),
		usrr16.WithPassword(c.Password),
		usrr16.WithConnectTimeout(c.Timeout),
		usrr16.WithCommandTimeout(c.CommandTimeout),
	)
}
