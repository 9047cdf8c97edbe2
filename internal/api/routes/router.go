package routes

import (
	"net/http"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/api/handlers"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/api/middleware"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	restaurantHandler *handlers.RestaurantHandler
	callHandler       *handlers.CallHandler
	userHandler       *handlers.UserHandler

	auth            *middleware.AuthMiddleware
	cacheMiddleware *middleware.CacheMiddleware
	metrics         *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	restaurantHandler *handlers.RestaurantHandler,
	callHandler *handlers.CallHandler,
	userHandler *handlers.UserHandler,
	auth *middleware.AuthMiddleware,
	cacheMiddleware *middleware.CacheMiddleware,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:               http.NewServeMux(),
		restaurantHandler: restaurantHandler,
		callHandler:       callHandler,
		userHandler:       userHandler,
		auth:              auth,
		cacheMiddleware:   cacheMiddleware,
		metrics:           metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Restaurant endpoints (optional auth: anonymous reads allowed)
	r.optional("GET /api/restaurants", r.restaurantHandler.ListRestaurants)
	r.optional("GET /api/restaurants/search", r.restaurantHandler.SearchRestaurants)
	r.optional("GET /api/restaurants/cached/search", r.restaurantHandler.SearchCachedRestaurants)
	r.optional("GET /api/restaurants/phone/{phone}", r.restaurantHandler.SearchRestaurantsByPhone)
	r.optional("GET /api/restaurants/{id}", r.restaurantHandler.GetRestaurant)
	r.optional("GET /api/restaurants/{id}/hours", r.restaurantHandler.GetHours)
	r.required("PUT /api/restaurants/{id}/hours", r.restaurantHandler.UpdateHours)

	// Voice verification endpoints
	r.required("POST /api/vapi/call/{phone}", r.callHandler.PlaceCall)
	r.required("GET /api/vapi/call-analysis/{id}", r.callHandler.GetCallAnalysis)
	r.required("POST /api/vapi/verify/{business_id}", r.callHandler.VerifyRestaurant)

	// User endpoints
	r.required("POST /api/users/initialize", r.userHandler.InitializeUser)
	r.required("GET /api/me", r.userHandler.GetMe)

	// Apply middleware in reverse order (last middleware wraps first)
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)

	if r.cacheMiddleware != nil {
		handler = r.cacheMiddleware.Middleware(handler)
	}

	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)

	// CORS wraps everything so headers are set even on cache HITs
	handler = middleware.CORSMiddleware(handler)

	return handler
}

func (r *Router) required(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, r.auth.Required(h))
}

func (r *Router) optional(pattern string, h http.HandlerFunc) {
	r.mux.Handle(pattern, r.auth.Optional(h))
}
