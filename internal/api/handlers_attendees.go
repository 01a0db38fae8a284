// Showfinder - Multi-Source Event Discovery and Quality Filtering
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/showfinder

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/showfinder/internal/models"
	"github.com/tomtom215/showfinder/internal/social"
	"github.com/tomtom215/showfinder/internal/validation"
)

// DiscoverAttendeesRequest is the POST /api/v1/attendees/discover payload.
type DiscoverAttendeesRequest struct {
	EventName  string `json:"event_name" validate:"required,min=3,max=200"`
	EventDate  string `json:"event_date" validate:"omitempty,max=30"`
	MaxResults int    `json:"max_results" validate:"min=0,max=100"`
}

// DiscoverAttendees searches the social post sources for prospective
// attendees of a named event. Returns 503 when the subsystem is disabled.
func (h *Handler) DiscoverAttendees(w http.ResponseWriter, r *http.Request) {
	if h.social == nil {
		respondError(w, http.StatusServiceUnavailable, "SOCIAL_DISABLED",
			"Attendee discovery is not enabled", nil)
		return
	}

	var req DiscoverAttendeesRequest
	if !decodeBody(w, r, &req) {
		return
	}
	if ve := validation.ValidateStruct(&req); ve != nil {
		respondValidationError(w, ve)
		return
	}

	started := time.Now()
	result, err := h.social.Discover(r.Context(), social.Request{
		EventName:  req.EventName,
		EventDate:  req.EventDate,
		MaxResults: req.MaxResults,
	})
	if err != nil {
		respondError(w, http.StatusInternalServerError, "DISCOVERY_ERROR",
			"Attendee discovery failed", err)
		return
	}

	respondJSON(w, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data:   result,
		Metadata: models.Metadata{
			Timestamp:   time.Now(),
			QueryTimeMS: time.Since(started).Milliseconds(),
		},
	})
}
