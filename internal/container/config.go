// Package container provides dependency injection and lifecycle management
// for the invoice dashboard following Clean Architecture principles.
package container

import (
	"fmt"
	"time"

	"github.com/garyjia/invoice-dashboard/pkg/database"
)

// Config holds all configuration for the Container.
// It aggregates configurations for all subsystems.
type Config struct {
	// Database configuration
	Database DatabaseConfig

	// View cache configuration
	Cache CacheConfig

	// Session configuration
	Auth AuthConfig

	// Server configuration
	Server ServerConfig
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver is sqlite3 or pgx
	Driver string

	// DSN is the sqlite file path or the postgres connection URL
	DSN string

	// MaxOpenConns is the maximum number of open connections
	MaxOpenConns int

	// MaxIdleConns is the maximum number of idle connections
	MaxIdleConns int

	// ConnMaxLifetime is the maximum connection lifetime
	ConnMaxLifetime time.Duration

	// AutoMigrate applies pending embedded migrations on start
	AutoMigrate bool
}

// CacheConfig holds view cache settings.
type CacheConfig struct {
	// Driver is memory or redis
	Driver string

	// TTL of cached views in Redis
	TTL time.Duration

	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// AuthConfig holds session token settings.
type AuthConfig struct {
	// Secret signs session tokens
	Secret string

	// SessionTTL is how long a sign-in lasts
	SessionTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host to bind to
	Host string

	// Port to listen on
	Port int

	// ReadTimeout for HTTP server
	ReadTimeout time.Duration

	// WriteTimeout for HTTP server
	WriteTimeout time.Duration

	// SecureCookie marks the session cookie Secure
	SecureCookie bool
}

// Cache drivers
const (
	CacheDriverMemory = "memory"
	CacheDriverRedis  = "redis"
)

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          database.DriverSQLite,
			DSN:             "data/dashboard.db",
			MaxOpenConns:    25,
			MaxIdleConns:    5,
			ConnMaxLifetime: 5 * time.Minute,
			AutoMigrate:     true,
		},
		Cache: CacheConfig{
			Driver:    CacheDriverMemory,
			TTL:       15 * time.Minute,
			RedisAddr: "localhost:6379",
		},
		Auth: AuthConfig{
			SessionTTL: 24 * time.Hour,
		},
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
	}
}

// Validate checks that required configuration values are present.
func (c *Config) Validate() error {
	// Validate database configuration
	if c.Database.Driver != database.DriverSQLite && c.Database.Driver != database.DriverPostgres {
		return fmt.Errorf("database.driver %q is not supported", c.Database.Driver)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}

	// Validate cache configuration
	if c.Cache.Driver != CacheDriverMemory && c.Cache.Driver != CacheDriverRedis {
		return fmt.Errorf("cache.driver %q is not supported", c.Cache.Driver)
	}

	// Validate auth configuration
	if c.Auth.Secret == "" {
		return fmt.Errorf("auth.secret is required")
	}

	return nil
}
