// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package config defines the Showfinder configuration schema and loads it
// from layered sources: built-in defaults, an optional YAML file, and
// environment variable overrides, in ascending precedence.
package config

import (
	"fmt"
	"time"
)

// Config is the root configuration.
type Config struct {
	Sources   SourcesConfig   `koanf:"sources"`
	Discovery DiscoveryConfig `koanf:"discovery"`
	Cache     CacheConfig     `koanf:"cache"`
	Server    ServerConfig    `koanf:"server"`
	Social    SocialConfig    `koanf:"social"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// SourcesConfig holds per-provider credentials and limits.
type SourcesConfig struct {
	SerpAPI      SourceConfig `koanf:"serpapi"`
	PredictHQ    SourceConfig `koanf:"predicthq"`
	Ticketmaster SourceConfig `koanf:"ticketmaster"`
}

// SourceConfig configures one provider adapter.
type SourceConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`

	// Weight is the source's share of the result quota. Weights are
	// renormalized over the enabled sources.
	Weight float64 `koanf:"weight"`

	Timeout           time.Duration `koanf:"timeout"`
	RequestsPerSecond float64       `koanf:"requests_per_second"`
	Burst             int           `koanf:"burst"`
}

// DiscoveryConfig tunes the pipeline.
type DiscoveryConfig struct {
	DefaultMaxResults int `koanf:"default_max_results"`
	MaxMaxResults     int `koanf:"max_max_results"`

	// MaxWindowDays bounds the request date window.
	MaxWindowDays int `koanf:"max_window_days"`
}

// CacheConfig selects and tunes the result cache.
type CacheConfig struct {
	// Backend is "memory", "redis" or "none".
	Backend string        `koanf:"backend"`
	TTL     time.Duration `koanf:"ttl"`

	// Capacity bounds the in-memory backend.
	Capacity int `koanf:"capacity"`

	Redis RedisConfig `koanf:"redis"`
}

// RedisConfig configures the Redis cache backend.
type RedisConfig struct {
	Addr     string `koanf:"addr"`
	Password string `koanf:"password"`
	DB       int    `koanf:"db"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Host    string        `koanf:"host"`
	Port    int           `koanf:"port"`
	Timeout time.Duration `koanf:"timeout"`

	// RateLimitReqs requests per RateLimitWindow per client IP.
	RateLimitReqs   int           `koanf:"rate_limit_reqs"`
	RateLimitWindow time.Duration `koanf:"rate_limit_window"`

	CORSOrigins []string `koanf:"cors_origins"`
}

// SocialConfig configures the attendee discovery subsystem.
type SocialConfig struct {
	Enabled bool `koanf:"enabled"`

	Twitter SocialSourceConfig `koanf:"twitter"`
	Reddit  SocialSourceConfig `koanf:"reddit"`

	// MaxResults caps returned attendee profiles.
	MaxResults int `koanf:"max_results"`
}

// SocialSourceConfig configures one social post source.
type SocialSourceConfig struct {
	Enabled bool   `koanf:"enabled"`
	BaseURL string `koanf:"base_url"`
	APIKey  string `koanf:"api_key"`
}

// LoggingConfig configures the global logger.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
	Caller bool   `koanf:"caller"`
}

// Validate checks cross-field constraints that koanf cannot express.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("config: server.port %d out of range", c.Server.Port)
	}
	if c.Discovery.DefaultMaxResults <= 0 {
		return fmt.Errorf("config: discovery.default_max_results must be positive")
	}
	if c.Discovery.MaxMaxResults < c.Discovery.DefaultMaxResults {
		return fmt.Errorf("config: discovery.max_max_results below default_max_results")
	}
	if c.Discovery.MaxWindowDays <= 0 {
		return fmt.Errorf("config: discovery.max_window_days must be positive")
	}

	enabled := 0
	totalWeight := 0.0
	for name, src := range map[string]SourceConfig{
		"serpapi":      c.Sources.SerpAPI,
		"predicthq":    c.Sources.PredictHQ,
		"ticketmaster": c.Sources.Ticketmaster,
	} {
		if !src.Enabled {
			continue
		}
		enabled++
		if src.Weight < 0 {
			return fmt.Errorf("config: sources.%s.weight is negative", name)
		}
		totalWeight += src.Weight
	}
	if enabled == 0 {
		return fmt.Errorf("config: no sources enabled")
	}
	if totalWeight <= 0 {
		return fmt.Errorf("config: enabled source weights sum to zero")
	}

	switch c.Cache.Backend {
	case "memory", "none":
	case "redis":
		if c.Cache.Redis.Addr == "" {
			return fmt.Errorf("config: cache.redis.addr required for redis backend")
		}
	default:
		return fmt.Errorf("config: unknown cache backend %q", c.Cache.Backend)
	}
	return nil
}
