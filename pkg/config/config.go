// Package config provides configuration management for the product cache service.
// It supports loading configuration from YAML files and environment variables
// with automatic validation and default value application.
//
// Example usage:
//
//	cfg, err := config.Load("config.yaml", "PRODUCTCACHE")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Or panic on error:
//	cfg := config.MustLoad("config.yaml", "PRODUCTCACHE")
package config

import (
	"time"
)

// Config represents the complete configuration for the product cache service.
type Config struct {
	Service     ServiceConfig     `mapstructure:"service"`
	Server      ServerConfig      `mapstructure:"server"`
	Store       StoreConfig       `mapstructure:"store"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Invalidator InvalidatorConfig `mapstructure:"invalidator"`
	Log         LogConfig         `mapstructure:"log"`
	Metrics     MetricsConfig     `mapstructure:"metrics"`
}

// ServiceConfig contains general service information.
type ServiceConfig struct {
	Name    string `mapstructure:"name"`
	Version string `mapstructure:"version"`
	Env     string `mapstructure:"env"` // development, staging, production
}

// ServerConfig contains HTTP server configuration.
type ServerConfig struct {
	HTTPPort        int           `mapstructure:"http_port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	MaxHeaderBytes  int           `mapstructure:"max_header_bytes"`
}

// StoreConfig contains record store configuration.
// Backend "memory" serves a seeded in-process catalog; "postgres" uses a
// PostgreSQL connection pool as the source of truth.
type StoreConfig struct {
	Backend        string        `mapstructure:"backend"` // "memory" or "postgres"
	Host           string        `mapstructure:"host"`
	Port           int           `mapstructure:"port"`
	Database       string        `mapstructure:"database"`
	User           string        `mapstructure:"user"`
	Password       string        `mapstructure:"password"`
	SSLMode        string        `mapstructure:"ssl_mode"` // disable, require, verify-ca, verify-full
	MaxConns       int           `mapstructure:"max_conns"`
	MinConns       int           `mapstructure:"min_conns"`
	ConnectTimeout time.Duration `mapstructure:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout"`
}

// CacheConfig contains Redis cache configuration.
// EntryTTL is the bounded lifetime of a cached product snapshot; OpTimeout
// caps every round trip so a degraded backend cannot slow the store path.
type CacheConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	OpTimeout    time.Duration `mapstructure:"op_timeout"`
	PoolSize     int           `mapstructure:"pool_size"`
	MinIdleConns int           `mapstructure:"min_idle_conns"`
	EntryTTL     time.Duration `mapstructure:"entry_ttl"`
	Codec        string        `mapstructure:"codec"` // "json" or "msgpack"
}

// InvalidatorConfig contains configuration for the detached cache
// invalidation worker.
type InvalidatorConfig struct {
	// Workers is the number of goroutines draining the invalidation queue.
	Workers int `mapstructure:"workers"`

	// QueueSize is the buffered queue capacity. When the queue is full an
	// invalidation runs in its own goroutine instead of being dropped.
	QueueSize int `mapstructure:"queue_size"`

	// MaxAttempts is the maximum delete attempts per key.
	MaxAttempts uint `mapstructure:"max_attempts"`

	// InitialDelay is the initial retry backoff delay.
	InitialDelay time.Duration `mapstructure:"initial_delay"`

	// MaxDelay is the maximum retry backoff delay.
	MaxDelay time.Duration `mapstructure:"max_delay"`

	// DrainTimeout bounds how long Close waits for outstanding work.
	DrainTimeout time.Duration `mapstructure:"drain_timeout"`
}

// LogConfig contains structured logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`  // debug, info, warn, error
	Format string `mapstructure:"format"` // json, console
	Output string `mapstructure:"output"` // stdout, stderr
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	Port      int    `mapstructure:"port"`
	Path      string `mapstructure:"path"`
	Namespace string `mapstructure:"namespace"` // Metric prefix
}
