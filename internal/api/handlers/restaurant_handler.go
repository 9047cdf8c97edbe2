package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/application/services"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
)

// RestaurantHandler handles restaurant-related HTTP requests
type RestaurantHandler struct {
	service *services.RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler
func NewRestaurantHandler(service *services.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{service: service}
}

// ListRestaurants handles GET /api/restaurants
func (h *RestaurantHandler) ListRestaurants(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", 20)
	fetchImages := r.URL.Query().Get("fetch_images") == "true"

	restaurants, err := h.service.ListCached(r.Context(), limit, fetchImages)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// SearchRestaurants handles GET /api/restaurants/search
func (h *RestaurantHandler) SearchRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	params := entities.SearchParams{
		Term:       q.Get("term"),
		Location:   q.Get("location"),
		Price:      q.Get("price"),
		Categories: q.Get("categories"),
		SortBy:     q.Get("sort_by"),
		Limit:      parseIntParam(r, "limit", 0),
		Offset:     parseIntParam(r, "offset", 0),
	}

	restaurants, err := h.service.Search(r.Context(), params)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// SearchCachedRestaurants handles GET /api/restaurants/cached/search
func (h *RestaurantHandler) SearchCachedRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repositories.RestaurantFilter{
		Term:       q.Get("term"),
		Location:   q.Get("location"),
		Price:      q.Get("price"),
		Categories: q.Get("categories"),
		Limit:      parseIntParam(r, "limit", 20),
		Offset:     parseIntParam(r, "offset", 0),
	}

	restaurants, err := h.service.SearchCached(r.Context(), filter)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// SearchRestaurantsByPhone handles GET /api/restaurants/phone/{phone}
func (h *RestaurantHandler) SearchRestaurantsByPhone(w http.ResponseWriter, r *http.Request) {
	phone := r.PathValue("phone")
	if phone == "" {
		respondWithError(w, http.StatusBadRequest, "phone number is required")
		return
	}

	restaurants, err := h.service.SearchByPhone(r.Context(), phone)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"restaurants": restaurants,
		"count":       len(restaurants),
	})
}

// GetRestaurant handles GET /api/restaurants/{id}
func (h *RestaurantHandler) GetRestaurant(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")
	if businessID == "" {
		respondWithError(w, http.StatusBadRequest, "restaurant ID is required")
		return
	}

	restaurant, err := h.service.Get(r.Context(), businessID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, restaurant)
}

// GetHours handles GET /api/restaurants/{id}/hours
func (h *RestaurantHandler) GetHours(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")
	if businessID == "" {
		respondWithError(w, http.StatusBadRequest, "restaurant ID is required")
		return
	}

	hours, err := h.service.GetHours(r.Context(), businessID)
	if err != nil {
		respondWithAppError(w, err)
		return
	}
	if hours == nil {
		respondWithError(w, http.StatusNotFound, "no hours recorded for restaurant "+businessID)
		return
	}

	respondWithJSON(w, http.StatusOK, hours)
}

// UpdateHours handles PUT /api/restaurants/{id}/hours
func (h *RestaurantHandler) UpdateHours(w http.ResponseWriter, r *http.Request) {
	businessID := r.PathValue("id")
	if businessID == "" {
		respondWithError(w, http.StatusBadRequest, "restaurant ID is required")
		return
	}

	var hours entities.OperatingHours
	if err := json.NewDecoder(r.Body).Decode(&hours); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	hours.RestaurantID = businessID

	if err := h.service.UpdateHours(r.Context(), &hours); err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, hours)
}

func parseIntParam(r *http.Request, name string, fallback int) int {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value < 0 {
		return fallback
	}
	return value
}
