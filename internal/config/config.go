// Package config loads the devstack tool settings via viper.
//
// Settings come from three layers, lowest priority first: built-in
// defaults, an optional devstack.yaml config file (current directory or
// ~/.config/devstack), and DEVSTACK_-prefixed environment variables
// (e.g. DEVSTACK_DOCKER_BINARY). These are the tool's own knobs — the
// stack being managed is described by the compose file, not here.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// DockerConfig holds Docker-invocation settings.
type DockerConfig struct {
	// Binary is the Docker CLI used for compose verbs.
	Binary string `mapstructure:"binary"`
}

// LoggingConfig holds the logging-related configuration.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
}

// Config is the top-level configuration struct.
type Config struct {
	Docker  DockerConfig  `mapstructure:"docker"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// InitConfig sets defaults, registers the config file locations, and
// reads the file if one exists. A missing config file is not an error;
// defaults and environment variables still apply.
func InitConfig() error {
	viper.SetDefault("docker.binary", "docker")
	viper.SetDefault("logging.level", "info")

	viper.SetConfigName("devstack")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	if home, err := homeConfigDir(); err == nil {
		viper.AddConfigPath(home)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	viper.SetEnvPrefix("devstack")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	return nil
}

// Load unmarshals the merged configuration into the Config struct.
func Load() (*Config, error) {
	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return &config, nil
}

// homeConfigDir returns the per-user config directory for devstack
// (~/.config/devstack on Linux, the platform equivalent elsewhere).
func homeConfigDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "devstack"), nil
}
