// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

// Package api provides the HTTP surface: event discovery, attendee
// discovery, health and Prometheus metrics, routed with chi.
package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/showfinder/internal/discovery"
	"github.com/tomtom215/showfinder/internal/logging"
	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/social"
	"github.com/tomtom215/showfinder/internal/validation"
)

// maxRequestBody bounds request payload reads.
const maxRequestBody = 64 * 1024 // 64KB

// Handler holds the HTTP handlers' dependencies. The social engine may be
// nil when the attendee subsystem is disabled.
type Handler struct {
	engine        *discovery.Engine
	social        *social.Engine
	maxResults    int
	maxWindowDays int
	startTime     time.Time
}

// HandlerConfig carries the request-shape limits the handlers enforce.
type HandlerConfig struct {
	MaxResults    int
	MaxWindowDays int
}

// NewHandler creates the API handler.
func NewHandler(engine *discovery.Engine, socialEngine *social.Engine, cfg HandlerConfig) *Handler {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 100
	}
	if cfg.MaxWindowDays <= 0 {
		cfg.MaxWindowDays = 90
	}
	return &Handler{
		engine:        engine,
		social:        socialEngine,
		maxResults:    cfg.MaxResults,
		maxWindowDays: cfg.MaxWindowDays,
		startTime:     time.Now(),
	}
}

// sanitizeLogValue strips control characters so attacker-supplied strings
// cannot forge log entries.
func sanitizeLogValue(s string) string {
	var result strings.Builder
	result.Grow(len(s))
	for _, r := range s {
		if r < 0x20 || r == 0x7F {
			result.WriteString(fmt.Sprintf("\\x%02x", r))
		} else {
			result.WriteRune(r)
		}
	}
	return result.String()
}

// respondJSON sends a JSON response envelope.
func respondJSON(w http.ResponseWriter, status int, response *models.APIResponse) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(response)
	if err != nil {
		logging.Error().Err(err).Msg("Failed to marshal JSON response")
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(status)
	if _, err := w.Write(data); err != nil {
		logging.Error().Err(err).Msg("Failed to write JSON response")
	}
}

// respondError sends an error envelope.
func respondError(w http.ResponseWriter, status int, code, message string, err error) {
	if err != nil {
		logging.Error().
			Str("code", code).
			Str("error", sanitizeLogValue(err.Error())).
			Msg("API Error")
	}
	respondJSON(w, status, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error:    &models.APIError{Code: code, Message: message},
	})
}

// respondValidationError sends the structured validation failure envelope.
func respondValidationError(w http.ResponseWriter, ve *validation.RequestValidationError) {
	apiErr := ve.ToAPIError()
	respondJSON(w, http.StatusBadRequest, &models.APIResponse{
		Status:   "error",
		Metadata: models.Metadata{Timestamp: time.Now()},
		Error: &models.APIError{
			Code:    apiErr.Code,
			Message: apiErr.Message,
			Details: apiErr.Details,
		},
	})
}

// decodeBody reads and decodes a bounded JSON request body.
func decodeBody(w http.ResponseWriter, r *http.Request, out any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"Request body must be valid JSON", err)
		return false
	}
	return true
}

// Health reports liveness plus uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"status":         "ok",
			"uptime_seconds": int(time.Since(h.startTime).Seconds()),
			"social_enabled": h.social != nil,
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
