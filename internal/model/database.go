// Copyright (c) 2025 ToeiRei
// Fintrack - personal finance tracker
// This source code is licensed under the MIT license found in the LICENSE file.

package model

import (
	"fmt"
	"net/url"
	"time"
)

// Dialect is the SQL variant a backend speaks, as opposed to the marketing
// provider label. It selects the driver, the bun dialect and the record
// normalization strategy exactly once, at store construction time.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
	DialectMySQL    Dialect = "mysql"
)

// Provider identifies where a backend is hosted. It is a closed enum; the
// dialect is derived from it.
type Provider string

const (
	ProviderLocalFile       Provider = "local-file"
	ProviderPostgres        Provider = "generic-postgres"
	ProviderMySQL           Provider = "generic-mysql"
	ProviderManagedPostgres Provider = "managed-postgres-service"
	ProviderManagedMySQL    Provider = "managed-mysql-service"
	ProviderManagedREST     Provider = "managed-rest-service"
)

// AllProviders lists the valid provider tags, for validation and CLI help.
var AllProviders = []Provider{
	ProviderLocalFile,
	ProviderPostgres,
	ProviderMySQL,
	ProviderManagedPostgres,
	ProviderManagedMySQL,
	ProviderManagedREST,
}

// Valid reports whether p is one of the known provider tags.
func (p Provider) Valid() bool {
	for _, known := range AllProviders {
		if p == known {
			return true
		}
	}
	return false
}

// Dialect returns the SQL dialect for the provider. The second return is
// false for providers that do not speak SQL directly (managed REST services,
// which are reached through their own client).
func (p Provider) Dialect() (Dialect, bool) {
	switch p {
	case ProviderLocalFile:
		return DialectSQLite, true
	case ProviderPostgres, ProviderManagedPostgres:
		return DialectPostgres, true
	case ProviderMySQL, ProviderManagedMySQL:
		return DialectMySQL, true
	default:
		return "", false
	}
}

// Managed reports whether the provider is a hosted service where DDL may be
// restricted by the credentials available at migration time.
func (p Provider) Managed() bool {
	switch p {
	case ProviderManagedPostgres, ProviderManagedMySQL, ProviderManagedREST:
		return true
	}
	return false
}

// DatabaseConfig describes one registered backend. At most one config is
// active at any time; the registry enforces that.
type DatabaseConfig struct {
	ID       int64
	Name     string
	Provider Provider

	// Either a full connection string, or discrete fields below.
	ConnectionString string
	Host             string
	Port             int
	Username         string
	Password         string
	Database         string

	IsConnected        bool
	LastConnectionTest time.Time
	IsActive           bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// DSN returns the driver-ready connection string for the config. When
// ConnectionString is set it wins; otherwise the string is assembled from the
// discrete fields in the form the dialect's driver expects. An empty return
// means the config has no usable connection parameters.
func (c DatabaseConfig) DSN() string {
	if c.ConnectionString != "" {
		return c.ConnectionString
	}
	dialect, ok := c.Provider.Dialect()
	if !ok {
		return ""
	}
	switch dialect {
	case DialectSQLite:
		return c.Database
	case DialectPostgres:
		if c.Host == "" {
			return ""
		}
		port := c.Port
		if port == 0 {
			port = 5432
		}
		u := url.URL{
			Scheme: "postgres",
			User:   url.UserPassword(c.Username, c.Password),
			Host:   fmt.Sprintf("%s:%d", c.Host, port),
			Path:   "/" + c.Database,
		}
		return u.String()
	case DialectMySQL:
		if c.Host == "" {
			return ""
		}
		port := c.Port
		if port == 0 {
			port = 3306
		}
		// parseTime makes the driver scan DATETIME columns into time.Time.
		return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
			c.Username, c.Password, c.Host, port, c.Database)
	}
	return ""
}
