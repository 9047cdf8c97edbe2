package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/application/services"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
)

// CallHandler exposes the voice verification pipeline over HTTP
type CallHandler struct {
	callProvider providers.CallProvider
	verifier     services.HoursVerifier
}

// NewCallHandler creates a new call handler
func NewCallHandler(callProvider providers.CallProvider, verifier services.HoursVerifier) *CallHandler {
	return &CallHandler{
		callProvider: callProvider,
		verifier:     verifier,
	}
}

// PlaceCall handles POST /api/vapi/call/{phone}
func (h *CallHandler) PlaceCall(w http.ResponseWriter, r *http.Request) {
	phone := r.PathValue("phone")
	if phone == "" {
		respondWithError(w, http.StatusBadRequest, "phone number is required")
		return
	}

	callID, err := h.callProvider.PlaceCall(r.Context(), phone, "")
	if err != nil {
		if errors.Is(err, providers.ErrInvalidPhoneNumber) {
			respondWithError(w, http.StatusBadRequest, err.Error())
			return
		}
		respondWithError(w, http.StatusBadGateway, "failed to place call")
		return
	}

	respondWithJSON(w, http.StatusCreated, map[string]string{"call_id": callID})
}

// GetCallAnalysis handles GET /api/vapi/call-analysis/{id}
func (h *CallHandler) GetCallAnalysis(w http.ResponseWriter, r *http.Request) {
	callID := r.PathValue("id")
	if callID == "" {
		respondWithError(w, http.StatusBadRequest, "call ID is required")
		return
	}

	analysis, err := h.callProvider.GetAnalysis(r.Context(), callID)
	if err != nil {
		if errors.Is(err, providers.ErrAnalysisUnavailable) {
			respondWithError(w, http.StatusNotFound, "analysis not available yet")
			return
		}
		respondWithError(w, http.StatusBadGateway, "failed to fetch call analysis")
		return
	}

	respondWithJSON(w, http.StatusOK, analysis)
}

// VerifyRestaurant handles POST /api/vapi/verify/{business_id}. It runs the
// full call cycle synchronously and can take minutes to respond.
func (h *CallHandler) VerifyRestaurant(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("business_id")
	if businessID == "" {
		respondWithError(w, http.StatusBadRequest, "business ID is required")
		return
	}

	// The call cycle outlives the server's write timeout; clear the write
	// deadline for this request so the response can still be delivered.
	_ = http.NewResponseController(w).SetWriteDeadline(time.Time{})

	result, err := h.verifier.VerifyHours(r.Context(), businessID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, result)
}
