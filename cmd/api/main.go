package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/cache"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/database"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/providers/directory"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/providers/images"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/providers/voice"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/search"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/api/handlers"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/api/middleware"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/api/routes"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/application/services"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/postgres"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/redis"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/typesense"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/observability"
	"github.com/hungrymonkey/restaurant-hours-backend/pkg/config"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Server.Env)

	// Set up context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize OpenTelemetry if enabled
	var shutdown func(context.Context) error
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err = observability.Setup(
			ctx,
			cfg.OTEL.ServiceName,
			cfg.OTEL.ServiceVersion,
			cfg.OTEL.Endpoint,
		)
		if err != nil {
			log.Printf("Warning: Failed to set up OpenTelemetry: %v", err)
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Printf("Error shutting down OpenTelemetry: %v", err)
				}
			}()
			log.Println("OpenTelemetry initialized successfully")
		}
	}

	// Initialize metrics
	metrics, err := observability.InitMetrics()
	if err != nil {
		log.Fatalf("Failed to initialize metrics: %v", err)
	}

	// Initialize database client
	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize PostgreSQL client: %v", err)
	}
	defer pgClient.Close()
	log.Println("PostgreSQL client initialized successfully")

	// Initialize Redis client
	redisClient, err := redis.NewClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to initialize Redis client: %v", err)
		// Continue without Redis - the application can work without caching
	} else {
		defer redisClient.Close()
		log.Println("Redis client initialized successfully")
	}

	// Initialize Typesense client
	typesenseClient, err := typesense.NewClient(&cfg.Typesense)
	if err != nil {
		log.Printf("Warning: Failed to initialize Typesense client: %v", err)
	} else {
		log.Println("Typesense client initialized successfully")
	}

	// Initialize adapters
	restaurantAdapter := database.NewRestaurantAdapter(pgClient)
	hoursAdapter := database.NewHoursAdapter(pgClient)
	verificationStore := database.NewVerificationAdapter(pgClient)
	userAdapter := database.NewUserAdapter(pgClient)

	var cacheProvider providers.CacheProvider
	if redisClient != nil {
		cacheProvider = cache.NewRedisAdapter(redisClient)
	}

	var searchRepo repositories.RestaurantSearchRepository
	if typesenseClient != nil {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Printf("Warning: Failed to init Typesense schema: %v", err)
		}
		searchRepo = adapter
	}

	directoryProvider := directory.NewYelpAdapter(cfg.Yelp.APIKey, cfg.Yelp.BaseURL)
	imageProvider := images.NewImageProvider(&cfg.Images)
	callProvider := voice.NewCallProvider(&cfg.Vapi)
	flags := &services.FeatureFlags{EnableCalls: cfg.Vapi.EnableCalls}

	// Initialize services
	restaurantService := services.NewRestaurantService(
		restaurantAdapter,
		hoursAdapter,
		searchRepo,
		directoryProvider,
		imageProvider,
		cacheProvider,
		metrics,
	)
	verificationService := services.NewVerificationService(
		restaurantAdapter,
		verificationStore,
		callProvider,
		cacheProvider,
		flags,
		metrics,
	)
	userService := services.NewUserService(userAdapter)
	dispatchService := services.NewDispatchService(
		restaurantAdapter,
		verificationService,
		cfg.Dispatch,
		metrics,
	)

	// Start the background verification loop; it stops with the root context.
	go dispatchService.Run(ctx)

	// Initialize handlers
	restaurantHandler := handlers.NewRestaurantHandler(restaurantService)
	callHandler := handlers.NewCallHandler(callProvider, verificationService)
	userHandler := handlers.NewUserHandler(userService)

	authMiddleware := middleware.NewAuthMiddleware(cfg.Auth.ClerkJWTSecret)

	// Initialize cache middleware
	var cacheMiddleware *middleware.CacheMiddleware
	if cacheProvider != nil {
		cacheMiddleware = middleware.NewCacheMiddleware(cacheProvider)
		log.Println("Cache middleware initialized successfully")
	}

	// Set up router
	router := routes.NewRouter(
		restaurantHandler,
		callHandler,
		userHandler,
		authMiddleware,
		cacheMiddleware,
		metrics,
	)
	handler := router.SetupRoutes()

	// Create HTTP server
	serverAddr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Server starting on %s", serverAddr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Server shutting down...")

	// Stop the dispatch loop before draining in-flight requests
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error during server shutdown: %v", err)
	}

	log.Println("Server stopped")
}
