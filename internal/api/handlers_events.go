// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package api

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/tomtom215/showfinder/internal/discovery"
	"github.com/tomtom215/showfinder/internal/logging"
	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/validation"
)

// DiscoverEventsRequest is the POST /api/v1/events/discover payload.
type DiscoverEventsRequest struct {
	Location   string   `json:"location" validate:"required,min=2,max=200"`
	Categories []string `json:"categories" validate:"max=10,dive,eventcategory"`

	// From and To bound acceptable event dates, RFC3339 or YYYY-MM-DD.
	From string `json:"from" validate:"required"`
	To   string `json:"to" validate:"required"`

	MaxResults      int  `json:"max_results" validate:"min=0"`
	IncludeRejected bool `json:"include_rejected"`
}

// DiscoverEvents runs the event pipeline for one request.
func (h *Handler) DiscoverEvents(w http.ResponseWriter, r *http.Request) {
	var req DiscoverEventsRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		respondValidationError(w, ve)
		return
	}
	if req.MaxResults > h.maxResults {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			fmt.Sprintf("max_results must be at most %d", h.maxResults), nil)
		return
	}

	from, err := parseDateBound(req.From)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"from must be RFC3339 or YYYY-MM-DD", err)
		return
	}
	to, err := parseDateBound(req.To)
	if err != nil {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR",
			"to must be RFC3339 or YYYY-MM-DD", err)
		return
	}
	if ve := validation.ValidateWindow(from, to, h.maxWindowDays); ve != nil {
		respondValidationError(w, ve)
		return
	}

	categories := make([]models.Category, 0, len(req.Categories))
	for _, c := range req.Categories {
		categories = append(categories, models.Category(strings.ToLower(c)))
	}

	started := time.Now()
	result, err := h.engine.Discover(r.Context(), discovery.Request{
		Location:        req.Location,
		Categories:      categories,
		From:            from,
		To:              to,
		MaxResults:      req.MaxResults,
		IncludeRejected: req.IncludeRejected,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DISCOVERY_ERROR",
			"Event discovery failed", err)
		return
	}

	logging.Ctx(r.Context()).Debug().
		Str("location", sanitizeLogValue(req.Location)).
		Int("returned", len(result.Events)).
		Msg("[API] Events discovered")

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			RequestID:   result.Diagnostics.RequestID,
			QueryTimeMS: time.Since(started).Milliseconds(),
			Cached:      result.Diagnostics.CacheHit,
		},
	})
}

// parseDateBound accepts RFC3339 timestamps or bare dates.
func parseDateBound(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02", raw)
}
