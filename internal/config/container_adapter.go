package config

import (
	"github.com/garyjia/invoice-dashboard/internal/container"
)

// ToContainerConfig converts the application Config to a container.Config.
// This provides a bridge between the file-based config loaded by viper
// and the container's configuration structure.
func (c *Config) ToContainerConfig() *container.Config {
	return &container.Config{
		Database: container.DatabaseConfig{
			Driver:          c.Database.Driver,
			DSN:             c.Database.DSN,
			MaxOpenConns:    c.Database.MaxOpenConns,
			MaxIdleConns:    c.Database.MaxIdleConns,
			ConnMaxLifetime: c.Database.ConnMaxLifetime,
			AutoMigrate:     c.Database.AutoMigrate,
		},
		Cache: container.CacheConfig{
			Driver:        c.Cache.Driver,
			TTL:           c.Cache.TTL,
			RedisAddr:     c.Cache.Redis.Addr,
			RedisPassword: c.Cache.Redis.Password,
			RedisDB:       c.Cache.Redis.DB,
		},
		Auth: container.AuthConfig{
			Secret:     c.Auth.Secret,
			SessionTTL: c.Auth.SessionTTL,
		},
		Server: container.ServerConfig{
			Host:         c.Server.Host,
			Port:         c.Server.Port,
			ReadTimeout:  c.Server.ReadTimeout,
			WriteTimeout: c.Server.WriteTimeout,
			SecureCookie: c.Auth.SecureCookie,
		},
	}
}
