// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

// package config loads and writes Fintrack's YAML configuration. Values are
// resolved in the usual precedence: flags, environment, config file, defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// getConfigPath returns the full path for the configuration file.
func getConfigPath(system bool) (string, error) {
	var configDir string
	var err error

	if system {
		switch runtime.GOOS {
		case "windows":
			configDir = filepath.Join(os.Getenv("ProgramData"), "Fintrack")
		default: // Linux, macOS, etc.
			configDir = "/etc/fintrack"
		}
	} else {
		configDir, err = os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("could not get user config directory: %w", err)
		}
		configDir = filepath.Join(configDir, "fintrack")
	}

	return filepath.Join(configDir, "fintrack.yaml"), nil
}

// LoadConfig resolves the configuration for the given command into T.
func LoadConfig[T any](cmd *cobra.Command, defaults map[string]any, additionalConfigFilePath *string) (T, error) {
	var c T
	v := viper.New()

	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigName("fintrack")
	v.SetConfigType("yaml")

	// An explicit --config path has the highest precedence among files.
	if additionalConfigFilePath != nil {
		v.SetConfigFile(*additionalConfigFilePath)
	}

	if userConfigPath, err := getConfigPath(false); err == nil {
		v.AddConfigPath(filepath.Dir(userConfigPath))
	}
	if systemConfigPath, err := getConfigPath(true); err == nil {
		v.AddConfigPath(filepath.Dir(systemConfigPath))
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine; anything else is fatal.
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return c, err
		}
	}

	v.AutomaticEnv()
	v.AllowEmptyEnv(true)
	v.SetEnvPrefix("fintrack")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return c, err
	}

	if err := v.Unmarshal(&c); err != nil {
		return c, err
	}

	return c, nil
}

// WriteConfigFile persists c to the user or system config file.
func WriteConfigFile[T any](c *T, system bool) error {
	path, err := getConfigPath(system)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}

	configDir := filepath.Dir(path)
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("could not create config directory %s: %w", configDir, err)
	}

	// 0600: the file may contain database credentials.
	if err := os.WriteFile(path, data, 0600); err != nil {
		return err
	}

	return nil
}
