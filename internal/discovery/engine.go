// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package discovery orchestrates the full event pipeline: per-source quota
// allocation, parallel fetching with failure isolation, the strict date
// filter, deduplication, quality filtering, ranking and truncation.
//
// A single source failing, returning garbage, or coming up short never
// fails the run; its quota is redistributed to the sources that delivered.
// Only when every source fails does the engine report it, and even then as
// a diagnostic on an empty result rather than an error.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tomtom215/showfinder/internal/cache"
	"github.com/tomtom215/showfinder/internal/dedup"
	"github.com/tomtom215/showfinder/internal/logging"
	"github.com/tomtom215/showfinder/internal/metrics"
	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/quality"
	"github.com/tomtom215/showfinder/internal/quota"
	"github.com/tomtom215/showfinder/internal/ranking"
	"github.com/tomtom215/showfinder/internal/sources"
)

// DefaultMaxResults applies when a request does not set MaxResults.
const DefaultMaxResults = 20

// overFetch is how many times the per-source quota each adapter is asked
// for, so the date, dedup and quality stages have records to discard
// without starving the final result.
const overFetch = 3

// Request is one discovery run.
type Request struct {
	Location   string
	Categories []models.Category

	// From and To bound acceptable event dates, inclusive, day granularity.
	From time.Time
	To   time.Time

	MaxResults int

	// IncludeRejected asks for the rejected events in the diagnostics,
	// for debugging filter behavior.
	IncludeRejected bool
}

// Result is the ranked event list plus the run's diagnostics.
type Result struct {
	Events      []models.Event     `json:"events"`
	Diagnostics models.Diagnostics `json:"diagnostics"`
}

// Config tunes the engine.
type Config struct {
	// CacheTTL bounds how long finished results are served from cache.
	CacheTTL time.Duration
}

// DefaultConfig returns the production engine configuration.
func DefaultConfig() Config {
	return Config{CacheTTL: 15 * time.Minute}
}

// Engine runs the discovery pipeline.
type Engine struct {
	adapters []sources.Adapter
	alloc    *quota.Allocator
	filter   *quality.Filter
	store    cache.Store
	cacheTTL time.Duration
	now      func() time.Time
}

// New assembles an engine. store may be nil to disable result caching.
func New(adapters []sources.Adapter, alloc *quota.Allocator, filter *quality.Filter, store cache.Store, cfg Config) (*Engine, error) {
	if len(adapters) == 0 {
		return nil, fmt.Errorf("discovery: no source adapters configured")
	}
	if alloc == nil {
		return nil, fmt.Errorf("discovery: nil quota allocator")
	}
	if filter == nil {
		return nil, fmt.Errorf("discovery: nil quality filter")
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = DefaultConfig().CacheTTL
	}
	return &Engine{
		adapters: adapters,
		alloc:    alloc,
		filter:   filter,
		store:    store,
		cacheTTL: cfg.CacheTTL,
		now:      time.Now,
	}, nil
}

// fetchOutcome is one adapter's contribution before merging.
type fetchOutcome struct {
	source       models.Source
	kept         []models.Event
	fetched      int
	dateRejected int
	err          error
	elapsed      time.Duration
}

// Discover runs the pipeline. It returns an error only for invalid input
// or context cancellation; source failures surface in the diagnostics.
func (e *Engine) Discover(ctx context.Context, req Request) (*Result, error) {
	started := e.now()
	if req.MaxResults <= 0 {
		req.MaxResults = DefaultMaxResults
	}
	if req.Location == "" {
		return nil, fmt.Errorf("discovery: empty location")
	}
	if req.To.Before(req.From) {
		return nil, fmt.Errorf("discovery: date window ends before it starts")
	}

	requestID := logging.RequestIDFromContext(ctx)
	if requestID == "" {
		requestID = logging.GenerateRequestID()
	}

	key := cache.Key(req.Location, req.Categories, req.From, req.To, req.MaxResults)
	if cached := e.lookup(ctx, key); cached != nil {
		diag := cached.Diagnostics
		diag.RequestID = requestID
		diag.CacheHit = true
		metrics.CacheHits.Inc()
		return &Result{Events: cached.Events, Diagnostics: diag}, nil
	}

	available := make([]models.Source, len(e.adapters))
	for i, a := range e.adapters {
		available[i] = a.Name()
	}
	targets := e.alloc.Targets(req.MaxResults, available)

	outcomes := e.fetchAll(ctx, req, targets)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	diag := models.Diagnostics{RequestID: requestID}
	actuals := make(quota.Allocation, len(outcomes))
	failures := 0
	for _, oc := range outcomes {
		stats := models.SourceStats{
			Source:       oc.source,
			Fetched:      oc.fetched,
			DateRejected: oc.dateRejected,
			Elapsed:      oc.elapsed,
		}
		if oc.err != nil {
			stats.Failed = oc.err.Error()
			failures++
		}
		actuals[oc.source] = len(oc.kept)
		diag.TotalFetched += oc.fetched
		diag.Sources = append(diag.Sources, stats)
		metrics.SourceEventsFetched.WithLabelValues(string(oc.source)).Add(float64(oc.fetched))
		metrics.EventsRejected.WithLabelValues("date_filter").Add(float64(oc.dateRejected))
	}

	if failures == len(outcomes) {
		diag.AllSourcesFailed = true
		diag.Elapsed = e.now().Sub(started)
		metrics.RecordDiscovery("all_sources_failed", 0, diag.Elapsed)
		logging.Ctx(ctx).Error().
			Str("location", req.Location).
			Msg("[DISCOVERY] All sources failed")
		return &Result{Events: []models.Event{}, Diagnostics: diag}, nil
	}

	// Reconcile quotas with what actually arrived. Each source contributes
	// up to overFetch times its final share so the dedup and quality stages
	// have records to discard without starving the truncation step; the
	// final quota is enforced by ranked truncation, not here.
	final := e.alloc.Redistribute(targets, actuals)
	merged := make([]models.Event, 0, req.MaxResults*overFetch)
	for i, oc := range outcomes {
		take := final[oc.source] * overFetch
		if take > len(oc.kept) {
			take = len(oc.kept)
		}
		diag.Sources[i].Target = final[oc.source]
		merged = append(merged, oc.kept[:take]...)
	}

	deduped := dedup.Dedupe(merged)
	diag.DuplicatesRemoved = deduped.Removed
	metrics.EventsDeduplicated.Add(float64(deduped.Removed))

	accepted, rejected := e.filter.Run(deduped.Events, req.Location)
	diag.QualityRejected = len(rejected)
	metrics.EventsRejected.WithLabelValues("quality").Add(float64(len(rejected)))
	for _, r := range rejected {
		for _, reason := range r.RejectionReasons {
			diag.AddReason(reason)
		}
	}
	if req.IncludeRejected {
		diag.Rejected = rejected
	}

	ranking.Rank(accepted)
	if len(accepted) > req.MaxResults {
		accepted = accepted[:req.MaxResults]
	}
	if accepted == nil {
		accepted = []models.Event{}
	}

	diag.Returned = len(accepted)
	diag.Elapsed = e.now().Sub(started)

	outcome := "ok"
	if len(accepted) == 0 {
		outcome = "empty"
	}
	metrics.RecordDiscovery(outcome, len(accepted), diag.Elapsed)
	logging.Ctx(ctx).Info().
		Str("location", req.Location).
		Int("fetched", diag.TotalFetched).
		Int("duplicates", diag.DuplicatesRemoved).
		Int("quality_rejected", diag.QualityRejected).
		Int("returned", diag.Returned).
		Dur("elapsed", diag.Elapsed).
		Msg("[DISCOVERY] Pipeline complete")

	result := &Result{Events: accepted, Diagnostics: diag}
	e.storeResult(ctx, key, result)
	return result, nil
}

// fetchAll queries every adapter in parallel. Outcomes come back in adapter
// order regardless of completion order.
func (e *Engine) fetchAll(ctx context.Context, req Request, targets quota.Allocation) []fetchOutcome {
	outcomes := make([]fetchOutcome, len(e.adapters))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i, adapter := range e.adapters {
		i, adapter := i, adapter
		g.Go(func() error {
			q := sources.Query{
				Location:   req.Location,
				Categories: req.Categories,
				From:       req.From,
				To:         req.To,
				Limit:      targets[adapter.Name()] * overFetch,
			}

			fetchStart := e.now()
			events, err := adapter.Fetch(gctx, q)
			oc := fetchOutcome{
				source:  adapter.Name(),
				fetched: len(events),
				elapsed: e.now().Sub(fetchStart),
			}
			if err != nil {
				oc.err = err
				logging.Ctx(gctx).Warn().
					Err(err).
					Str("source", string(adapter.Name())).
					Msg("[DISCOVERY] Source failed")
			} else {
				oc.kept, oc.dateRejected = filterDates(events, req.From, req.To)
			}

			mu.Lock()
			outcomes[i] = oc
			mu.Unlock()
			// Source failures are isolated; never abort the group.
			return nil
		})
	}
	_ = g.Wait()
	return outcomes
}

// filterDates applies the strict date filter: only events with a resolved
// start date inside [from, to] at day granularity survive. Undated events
// are rejected rather than given the benefit of the doubt.
func filterDates(events []models.Event, from, to time.Time) (kept []models.Event, rejected int) {
	fromDay := truncateDay(from)
	toDay := truncateDay(to)

	for _, e := range events {
		day, ok := e.StartDay()
		if !ok || day.Before(fromDay) || day.After(toDay) {
			rejected++
			continue
		}
		kept = append(kept, e)
	}
	return kept, rejected
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// lookup reads the cache, treating every failure as a miss.
func (e *Engine) lookup(ctx context.Context, key string) *cache.Entry {
	if e.store == nil {
		return nil
	}
	entry, err := e.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			metrics.CacheErrors.Inc()
			logging.Ctx(ctx).Warn().Err(err).Msg("[DISCOVERY] Cache read failed")
		} else {
			metrics.CacheMisses.Inc()
		}
		return nil
	}
	return entry
}

// storeResult writes the cache, logging failures without affecting the run.
func (e *Engine) storeResult(ctx context.Context, key string, res *Result) {
	if e.store == nil {
		return
	}
	entry := &cache.Entry{
		Events:      res.Events,
		Diagnostics: res.Diagnostics,
		StoredAt:    e.now(),
	}
	if err := e.store.Set(ctx, key, entry, e.cacheTTL); err != nil {
		metrics.CacheErrors.Inc()
		logging.Ctx(ctx).Warn().Err(err).Msg("[DISCOVERY] Cache write failed")
	}
}
