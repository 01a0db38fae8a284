// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package main is the Showfinder server entry point.
//
// Initialization order:
//
//  1. Configuration (koanf: defaults, optional YAML file, env overrides)
//  2. Logging (zerolog, level and format from configuration)
//  3. Source adapters for the enabled event providers
//  4. Result cache backend (memory, redis, or none)
//  5. Discovery engine (quota allocator, quality filter)
//  6. Attendee discovery engine, when the social subsystem is enabled
//  7. chi HTTP server with graceful shutdown on SIGINT/SIGTERM
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tomtom215/showfinder/internal/api"
	"github.com/tomtom215/showfinder/internal/cache"
	"github.com/tomtom215/showfinder/internal/config"
	"github.com/tomtom215/showfinder/internal/discovery"
	"github.com/tomtom215/showfinder/internal/logging"
	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/quality"
	"github.com/tomtom215/showfinder/internal/quota"
	"github.com/tomtom215/showfinder/internal/social"
	"github.com/tomtom215/showfinder/internal/sources"
)

// shutdownTimeout bounds graceful HTTP shutdown.
const shutdownTimeout = 10 * time.Second

func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Caller: cfg.Logging.Caller,
	})

	logging.Info().Msg("Starting Showfinder")

	adapters, weights := buildAdapters(cfg)
	logging.Info().
		Int("sources", len(adapters)).
		Bool("social_enabled", cfg.Social.Enabled).
		Str("cache_backend", cfg.Cache.Backend).
		Msg("Configuration loaded")

	alloc, err := quota.New(weights)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build quota allocator")
	}

	store, err := buildCache(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to initialize result cache")
	}
	if store != nil {
		defer func() {
			if err := store.Close(); err != nil {
				logging.Error().Err(err).Msg("Error closing result cache")
			}
		}()
	}

	engine, err := discovery.New(adapters, alloc,
		quality.NewFilter(quality.DefaultConfig()), store,
		discovery.Config{CacheTTL: cfg.Cache.TTL})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build discovery engine")
	}

	socialEngine, err := buildSocial(cfg)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to build attendee discovery engine")
	}

	handler := api.NewHandler(engine, socialEngine, api.HandlerConfig{
		MaxResults:    cfg.Discovery.MaxMaxResults,
		MaxWindowDays: cfg.Discovery.MaxWindowDays,
	})
	router := api.NewRouter(handler, api.NewMiddleware(api.MiddlewareConfig{
		CORSAllowedOrigins: cfg.Server.CORSOrigins,
		RateLimitRequests:  cfg.Server.RateLimitReqs,
		RateLimitWindow:    cfg.Server.RateLimitWindow,
	}))

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.Setup(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		WriteTimeout:      cfg.Server.Timeout,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logging.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logging.Info().Str("signal", sig.String()).Msg("Received shutdown signal")
	case err := <-errCh:
		logging.Error().Err(err).Msg("HTTP server failed")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logging.Error().Err(err).Msg("Graceful shutdown failed")
	}
	logging.Info().Msg("Showfinder stopped")
}

// buildAdapters assembles the enabled source adapters and their quota
// weights. Weights are renormalized by the allocator over what is enabled.
func buildAdapters(cfg *config.Config) ([]sources.Adapter, map[models.Source]float64) {
	var adapters []sources.Adapter
	weights := make(map[models.Source]float64)

	if src := cfg.Sources.SerpAPI; src.Enabled {
		adapters = append(adapters, sources.NewSerpAPI(sources.SerpAPIConfig{
			BaseURL: src.BaseURL,
			APIKey:  src.APIKey,
			Client:  clientConfig(src),
		}))
		weights[models.SourceSerpAPI] = src.Weight
	}
	if src := cfg.Sources.PredictHQ; src.Enabled {
		adapters = append(adapters, sources.NewPredictHQ(sources.PredictHQConfig{
			BaseURL:     src.BaseURL,
			AccessToken: src.APIKey,
			Client:      clientConfig(src),
		}))
		weights[models.SourcePredictHQ] = src.Weight
	}
	if src := cfg.Sources.Ticketmaster; src.Enabled {
		adapters = append(adapters, sources.NewTicketmaster(sources.TicketmasterConfig{
			BaseURL: src.BaseURL,
			APIKey:  src.APIKey,
			Client:  clientConfig(src),
		}))
		weights[models.SourceTicketmaster] = src.Weight
	}
	return adapters, weights
}

func clientConfig(src config.SourceConfig) sources.ClientConfig {
	cc := sources.DefaultClientConfig()
	if src.Timeout > 0 {
		cc.Timeout = src.Timeout
	}
	if src.RequestsPerSecond > 0 {
		cc.RequestsPerSecond = src.RequestsPerSecond
	}
	if src.Burst > 0 {
		cc.Burst = src.Burst
	}
	return cc
}

// buildCache selects the configured cache backend. Returns nil for the
// "none" backend, which disables result caching entirely.
func buildCache(cfg *config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "memory":
		return cache.NewMemory(cfg.Cache.Capacity), nil
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return cache.NewRedis(ctx, cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
		})
	default:
		return nil, nil
	}
}

// buildSocial assembles the attendee discovery engine from the enabled
// post sources. Returns nil when the subsystem is disabled; the API layer
// answers 503 for attendee requests in that case.
func buildSocial(cfg *config.Config) (*social.Engine, error) {
	if !cfg.Social.Enabled {
		return nil, nil
	}

	var postSources []social.PostSource
	if tw := cfg.Social.Twitter; tw.Enabled {
		src, err := social.NewTwitter(social.TwitterConfig{
			BaseURL: tw.BaseURL,
			Token:   tw.APIKey,
			Client:  sources.DefaultClientConfig(),
		})
		if err != nil {
			return nil, err
		}
		postSources = append(postSources, src)
	}
	if rd := cfg.Social.Reddit; rd.Enabled {
		src, err := social.NewReddit(social.RedditConfig{
			BaseURL: rd.BaseURL,
			Token:   rd.APIKey,
			Client:  sources.DefaultClientConfig(),
		})
		if err != nil {
			return nil, err
		}
		postSources = append(postSources, src)
	}
	return social.NewEngine(postSources...)
}
