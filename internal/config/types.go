// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package config

import "github.com/toeirei/fintrack/internal/model"

// Config is the persisted application configuration. Database entries mirror
// the in-memory registry so registered backends survive restarts.
type Config struct {
	Language  string           `mapstructure:"language" yaml:"language"`
	Databases []StoredDatabase `mapstructure:"databases" yaml:"databases"`
}

// StoredDatabase is the config-file shape of a registered database backend.
// Ids are session-scoped and not persisted; entries are matched by name.
type StoredDatabase struct {
	Name             string `mapstructure:"name" yaml:"name"`
	Provider         string `mapstructure:"provider" yaml:"provider"`
	ConnectionString string `mapstructure:"connection_string" yaml:"connection_string,omitempty"`
	Host             string `mapstructure:"host" yaml:"host,omitempty"`
	Port             int    `mapstructure:"port" yaml:"port,omitempty"`
	Username         string `mapstructure:"username" yaml:"username,omitempty"`
	Password         string `mapstructure:"password" yaml:"password,omitempty"`
	Database         string `mapstructure:"database" yaml:"database,omitempty"`
	Active           bool   `mapstructure:"active" yaml:"active,omitempty"`
}

// ToModel converts a stored entry into a registry config.
func (s StoredDatabase) ToModel() model.DatabaseConfig {
	return model.DatabaseConfig{
		Name:             s.Name,
		Provider:         model.Provider(s.Provider),
		ConnectionString: s.ConnectionString,
		Host:             s.Host,
		Port:             s.Port,
		Username:         s.Username,
		Password:         s.Password,
		Database:         s.Database,
	}
}

// StoredFromModel converts a registry config into its config-file shape.
func StoredFromModel(cfg model.DatabaseConfig) StoredDatabase {
	return StoredDatabase{
		Name:             cfg.Name,
		Provider:         string(cfg.Provider),
		ConnectionString: cfg.ConnectionString,
		Host:             cfg.Host,
		Port:             cfg.Port,
		Username:         cfg.Username,
		Password:         cfg.Password,
		Database:         cfg.Database,
		Active:           cfg.IsActive,
	}
}
