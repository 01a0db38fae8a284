// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in
// order of priority. The first file found wins.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/showfinder/config.yaml",
	"/etc/showfinder/config.yml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// defaultConfig returns a Config with all defaults applied. Defaults load
// first, then the config file, then environment variables.
func defaultConfig() *Config {
	return &Config{
		Sources: SourcesConfig{
			SerpAPI: SourceConfig{
				Enabled:           true,
				Weight:            0.50,
				Timeout:           10 * time.Second,
				RequestsPerSecond: 5,
				Burst:             2,
			},
			PredictHQ: SourceConfig{
				Enabled:           true,
				Weight:            0.25,
				Timeout:           10 * time.Second,
				RequestsPerSecond: 5,
				Burst:             2,
			},
			Ticketmaster: SourceConfig{
				Enabled:           true,
				Weight:            0.25,
				Timeout:           10 * time.Second,
				RequestsPerSecond: 5,
				Burst:             2,
			},
		},
		Discovery: DiscoveryConfig{
			DefaultMaxResults: 20,
			MaxMaxResults:     100,
			MaxWindowDays:     90,
		},
		Cache: CacheConfig{
			Backend:  "memory",
			TTL:      15 * time.Minute,
			Capacity: 256,
			Redis: RedisConfig{
				Addr: "",
				DB:   0,
			},
		},
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8460,
			Timeout:         30 * time.Second,
			RateLimitReqs:   100,
			RateLimitWindow: time.Minute,
			CORSOrigins:     []string{"*"},
		},
		Social: SocialConfig{
			Enabled:    false, // Opt-in: needs platform credentials
			MaxResults: 20,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// Load reads configuration using koanf v2 with layered sources:
//  1. Defaults: built-in sensible defaults
//  2. Config file: optional YAML file
//  3. Environment variables: override any setting
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return cfg, nil
}

// findConfigFile searches the env override, then the default paths.
func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed as comma-separated lists when they arrive as
// env var strings.
var sliceConfigPaths = []string{
	"server.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		val := k.Get(path)
		if val == nil {
			continue
		}
		if _, ok := val.([]interface{}); ok {
			continue
		}
		if _, ok := val.([]string); ok {
			continue
		}
		strVal, ok := val.(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) > 0 {
			if err := k.Set(path, trimmed); err != nil {
				return fmt.Errorf("failed to set %s: %w", path, err)
			}
		}
	}
	return nil
}

// envTransformFunc maps environment variable names to koanf config paths.
// Unmapped variables return empty string and are skipped, so arbitrary
// environment noise never pollutes the config.
func envTransformFunc(key string) string {
	key = strings.ToLower(key)

	envMappings := map[string]string{
		// SerpAPI
		"serpapi_enabled":  "sources.serpapi.enabled",
		"serpapi_base_url": "sources.serpapi.base_url",
		"serpapi_api_key":  "sources.serpapi.api_key",
		"serpapi_weight":   "sources.serpapi.weight",
		"serpapi_timeout":  "sources.serpapi.timeout",
		"serpapi_rps":      "sources.serpapi.requests_per_second",

		// PredictHQ
		"predicthq_enabled":  "sources.predicthq.enabled",
		"predicthq_base_url": "sources.predicthq.base_url",
		"predicthq_token":    "sources.predicthq.api_key",
		"predicthq_weight":   "sources.predicthq.weight",
		"predicthq_timeout":  "sources.predicthq.timeout",
		"predicthq_rps":      "sources.predicthq.requests_per_second",

		// Ticketmaster
		"ticketmaster_enabled":  "sources.ticketmaster.enabled",
		"ticketmaster_base_url": "sources.ticketmaster.base_url",
		"ticketmaster_api_key":  "sources.ticketmaster.api_key",
		"ticketmaster_weight":   "sources.ticketmaster.weight",
		"ticketmaster_timeout":  "sources.ticketmaster.timeout",
		"ticketmaster_rps":      "sources.ticketmaster.requests_per_second",

		// Discovery
		"discovery_default_max_results": "discovery.default_max_results",
		"discovery_max_max_results":     "discovery.max_max_results",
		"discovery_max_window_days":     "discovery.max_window_days",

		// Cache
		"cache_backend":        "cache.backend",
		"cache_ttl":            "cache.ttl",
		"cache_capacity":       "cache.capacity",
		"cache_redis_addr":     "cache.redis.addr",
		"cache_redis_password": "cache.redis.password",
		"cache_redis_db":       "cache.redis.db",

		// Server
		"http_host":           "server.host",
		"http_port":           "server.port",
		"http_timeout":        "server.timeout",
		"rate_limit_requests": "server.rate_limit_reqs",
		"rate_limit_window":   "server.rate_limit_window",
		"cors_origins":        "server.cors_origins",

		// Social
		"social_enabled":          "social.enabled",
		"social_max_results":      "social.max_results",
		"social_twitter_enabled":  "social.twitter.enabled",
		"social_twitter_base_url": "social.twitter.base_url",
		"social_twitter_api_key":  "social.twitter.api_key",
		"social_reddit_enabled":   "social.reddit.enabled",
		"social_reddit_base_url":  "social.reddit.base_url",
		"social_reddit_api_key":   "social.reddit.api_key",

		// Logging
		"log_level":  "logging.level",
		"log_format": "logging.format",
		"log_caller": "logging.caller",
	}

	if mapped, ok := envMappings[key]; ok {
		return mapped
	}
	return ""
}
