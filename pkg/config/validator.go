package config

import (
	"fmt"
	"time"
)

// Validate validates the configuration and returns an error if any required
// fields are missing or have invalid values.
func Validate(cfg *Config) error {
	if cfg.Server.HTTPPort == 0 {
		return fmt.Errorf("server.http_port is required")
	}

	switch cfg.Store.Backend {
	case "memory":
		// No connection settings required.
	case "postgres":
		if cfg.Store.Host == "" {
			return fmt.Errorf("store.host is required when store.backend is postgres")
		}
		if cfg.Store.User == "" {
			return fmt.Errorf("store.user is required when store.backend is postgres")
		}
		if cfg.Store.Database == "" {
			return fmt.Errorf("store.database is required when store.backend is postgres")
		}
	default:
		return fmt.Errorf("store.backend must be %q or %q, got %q", "memory", "postgres", cfg.Store.Backend)
	}

	if cfg.Cache.Host != "" && cfg.Cache.Port == 0 {
		return fmt.Errorf("cache.port is required when cache.host is set")
	}

	switch cfg.Cache.Codec {
	case "json", "msgpack":
	default:
		return fmt.Errorf("cache.codec must be %q or %q, got %q", "json", "msgpack", cfg.Cache.Codec)
	}

	if cfg.Metrics.Enabled && cfg.Metrics.Port == 0 {
		return fmt.Errorf("metrics.port is required when metrics are enabled")
	}

	return nil
}

// applyDefaults applies default values to the configuration where values are not set.
func applyDefaults(cfg *Config) {
	if cfg.Service.Name == "" {
		cfg.Service.Name = "productcache"
	}
	if cfg.Service.Env == "" {
		cfg.Service.Env = "development"
	}

	if cfg.Server.HTTPPort == 0 {
		cfg.Server.HTTPPort = 8080
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = 30 * time.Second
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = 30 * time.Second
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 30 * time.Second
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = 1 << 20 // 1 MB
	}

	if cfg.Store.Backend == "" {
		cfg.Store.Backend = "memory"
	}
	if cfg.Store.Port == 0 && cfg.Store.Host != "" {
		cfg.Store.Port = 5432
	}
	if cfg.Store.SSLMode == "" {
		cfg.Store.SSLMode = "disable"
	}
	if cfg.Store.MaxConns == 0 {
		cfg.Store.MaxConns = 25
	}
	if cfg.Store.MinConns == 0 {
		cfg.Store.MinConns = 2
	}
	if cfg.Store.ConnectTimeout == 0 {
		cfg.Store.ConnectTimeout = 30 * time.Second
	}
	if cfg.Store.QueryTimeout == 0 {
		cfg.Store.QueryTimeout = 30 * time.Second
	}

	if cfg.Cache.Host == "" {
		cfg.Cache.Host = "localhost"
	}
	if cfg.Cache.Port == 0 {
		cfg.Cache.Port = 6379
	}
	if cfg.Cache.DialTimeout == 0 {
		cfg.Cache.DialTimeout = 5 * time.Second
	}
	if cfg.Cache.OpTimeout == 0 {
		cfg.Cache.OpTimeout = 250 * time.Millisecond
	}
	if cfg.Cache.PoolSize == 0 {
		cfg.Cache.PoolSize = 10
	}
	if cfg.Cache.MinIdleConns == 0 {
		cfg.Cache.MinIdleConns = 2
	}
	if cfg.Cache.EntryTTL == 0 {
		cfg.Cache.EntryTTL = 60 * time.Second
	}
	if cfg.Cache.Codec == "" {
		cfg.Cache.Codec = "json"
	}

	if cfg.Invalidator.Workers == 0 {
		cfg.Invalidator.Workers = 2
	}
	if cfg.Invalidator.QueueSize == 0 {
		cfg.Invalidator.QueueSize = 1024
	}
	if cfg.Invalidator.MaxAttempts == 0 {
		cfg.Invalidator.MaxAttempts = 3
	}
	if cfg.Invalidator.InitialDelay == 0 {
		cfg.Invalidator.InitialDelay = 50 * time.Millisecond
	}
	if cfg.Invalidator.MaxDelay == 0 {
		cfg.Invalidator.MaxDelay = 1 * time.Second
	}
	if cfg.Invalidator.DrainTimeout == 0 {
		cfg.Invalidator.DrainTimeout = 5 * time.Second
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "json"
	}
	if cfg.Log.Output == "" {
		cfg.Log.Output = "stdout"
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = "/metrics"
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = "productcache"
	}
	if cfg.Metrics.Port == 0 {
		cfg.Metrics.Port = 9090
	}
}
