// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/goccy/go-json"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/showfinder/internal/logging"
	"github.com/tomtom215/showfinder/internal/metrics"
)

// maxErrorBodySize limits how much of a failed response body is read for
// error reporting, preventing unbounded allocation on large error pages.
const maxErrorBodySize = 64 * 1024 // 64KB

// maxThrottleBackoff caps how long a single 429 retry will wait. Providers
// occasionally send Retry-After values far beyond what a live request can
// tolerate; beyond the cap the request fails instead.
const maxThrottleBackoff = time.Second

// ClientConfig tunes one provider's HTTP client.
type ClientConfig struct {
	Timeout           time.Duration
	RequestsPerSecond float64
	Burst             int
}

// DefaultClientConfig returns conservative per-provider limits: 10s request
// timeout, 5 requests per second with a small burst.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		Timeout:           10 * time.Second,
		RequestsPerSecond: 5,
		Burst:             2,
	}
}

// Client is the shared outbound HTTP layer under every adapter, including
// the social post sources. It applies, in order: rate limiting, circuit
// breaking, one bounded retry on HTTP 429, and immediate failure on
// credential rejection.
type Client struct {
	name    string
	http    *http.Client
	limiter *rate.Limiter
	cb      *gobreaker.CircuitBreaker[[]byte]
}

// NewClient builds a rate-limited, circuit-broken HTTP client for one
// provider. Zero config fields fall back to DefaultClientConfig.
func NewClient(name string, cfg ClientConfig) *Client {
	def := DefaultClientConfig()
	if cfg.Timeout <= 0 {
		cfg.Timeout = def.Timeout
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = def.RequestsPerSecond
	}
	if cfg.Burst <= 0 {
		cfg.Burst = def.Burst
	}

	cb := gobreaker.NewCircuitBreaker[[]byte](gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := failureRatio >= 0.6
			if shouldTrip {
				logging.Warn().
					Str("source", name).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_rate", failureRatio*100).
					Msg("[SOURCES] Opening circuit")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().
				Str("source", name).
				Str("from", stateToString(from)).
				Str("to", stateToString(to)).
				Msg("[SOURCES] Circuit state transition")
			metrics.SourceCircuitState.WithLabelValues(name).Set(stateToFloat(to))
		},
	})

	return &Client{
		name:    name,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		cb:      cb,
	}
}

// GetJSON fetches url with the given headers and decodes the response body
// into out. A 429 is retried exactly once after honoring Retry-After up to
// maxThrottleBackoff; 401 and 403 fail immediately with ErrAuth.
func (c *Client) GetJSON(ctx context.Context, url string, headers map[string]string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%s: rate limiter: %w", c.name, err)
	}

	start := time.Now()
	body, err := c.cb.Execute(func() ([]byte, error) {
		return c.doOnce(ctx, url, headers, true)
	})

	outcome := "success"
	if err != nil {
		outcome = "failure"
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			outcome = "rejected"
		}
	}
	metrics.SourceRequests.WithLabelValues(c.name, outcome).Inc()
	metrics.SourceRequestDuration.WithLabelValues(c.name).Observe(time.Since(start).Seconds())

	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%s: decode response: %w", c.name, err)
	}
	return nil
}

// doOnce issues a single GET, retrying one time on 429 when retryThrottle
// is set.
func (c *Client) doOnce(ctx context.Context, url string, headers map[string]string, retryThrottle bool) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("%s: create request: %w", c.name, err)
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s: request: %w", c.name, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%s: read response: %w", c.name, err)
		}
		return body, nil

	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("%s: status %d: %w", c.name, resp.StatusCode, ErrAuth)

	case resp.StatusCode == http.StatusTooManyRequests && retryThrottle:
		wait := throttleBackoff(resp.Header.Get("Retry-After"))
		logging.Warn().
			Str("source", c.name).
			Dur("backoff", wait).
			Msg("[SOURCES] Throttled, retrying once")
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(wait):
		}
		return c.doOnce(ctx, url, headers, false)

	default:
		body := readBodyForError(resp.Body)
		return nil, fmt.Errorf("%s: status %d: %s", c.name, resp.StatusCode, string(body))
	}
}

// throttleBackoff derives the 429 retry delay from a Retry-After header,
// capped at maxThrottleBackoff. Absent or malformed headers back off for
// half the cap.
func throttleBackoff(retryAfter string) time.Duration {
	if retryAfter != "" {
		if secs, err := strconv.Atoi(retryAfter); err == nil && secs >= 0 {
			d := time.Duration(secs) * time.Second
			if d > maxThrottleBackoff {
				return maxThrottleBackoff
			}
			return d
		}
	}
	return maxThrottleBackoff / 2
}

// IsAuthError reports whether an error chain contains credential rejection.
func IsAuthError(err error) bool {
	return errors.Is(err, ErrAuth)
}

// readBodyForError reads at most maxErrorBodySize of a failed response for
// the error message.
func readBodyForError(r io.Reader) []byte {
	body, err := io.ReadAll(io.LimitReader(r, maxErrorBodySize))
	if err != nil {
		return []byte("(failed to read response body)")
	}
	if len(body) == maxErrorBodySize {
		return append(body, []byte("\n... (truncated)")...)
	}
	return body
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateToString(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
