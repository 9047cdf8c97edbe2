package handlers

import (
	"net/http"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/api/middleware"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/application/services"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
)

// UserHandler handles user profile HTTP requests
type UserHandler struct {
	service *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(service *services.UserService) *UserHandler {
	return &UserHandler{service: service}
}

// InitializeUser handles POST /api/users/initialize. The user record comes
// entirely from the verified token claims; the body is ignored.
func (h *UserHandler) InitializeUser(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.service.Initialize(r.Context(), &entities.User{
		UserID:    claims.Subject,
		Email:     claims.Email,
		FirstName: claims.FirstName,
		LastName:  claims.LastName,
	})
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}

// GetMe handles GET /api/me
func (h *UserHandler) GetMe(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())
	if claims == nil {
		respondWithError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	user, err := h.service.Get(r.Context(), claims.Subject)
	if err != nil {
		respondWithAppError(w, err)
		return
	}

	respondWithJSON(w, http.StatusOK, user)
}
