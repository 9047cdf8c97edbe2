package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/database"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/providers/directory"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/adapters/search"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/application/services"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/postgres"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/clients/typesense"
	"github.com/hungrymonkey/restaurant-hours-backend/pkg/config"
)

// Seeds the restaurant cache from the business directory for a set of
// locations, so the dispatch loop has candidates to verify.
func main() {
	var locations string
	var term string
	var pages int
	var pageSize int

	flag.StringVar(&locations, "locations", "San Francisco, CA", "Comma-separated list of locations to seed")
	flag.StringVar(&term, "term", "restaurants", "Directory search term")
	flag.IntVar(&pages, "pages", 2, "Result pages per location")
	flag.IntVar(&pageSize, "page-size", 50, "Results per page (directory max 50)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.Yelp.APIKey == "" {
		log.Fatal("YELP_API_KEY is required for seeding")
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer pgClient.Close()

	restaurantRepo := database.NewRestaurantAdapter(pgClient)
	hoursRepo := database.NewHoursAdapter(pgClient)
	directoryProvider := directory.NewYelpAdapter(cfg.Yelp.APIKey, cfg.Yelp.BaseURL)

	var searchRepo repositories.RestaurantSearchRepository
	if typesenseClient, err := typesense.NewClient(&cfg.Typesense); err != nil {
		log.Printf("Warning: Typesense unavailable, seeding database only: %v", err)
	} else {
		adapter := search.NewTypesenseAdapter(typesenseClient)
		if err := adapter.InitSchema(context.Background()); err != nil {
			log.Fatalf("Failed to init search schema: %v", err)
		}
		searchRepo = adapter
	}

	svc := services.NewRestaurantService(
		restaurantRepo, hoursRepo, searchRepo,
		directoryProvider, nil, nil, nil,
	)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	start := time.Now()
	total := 0

	for _, location := range strings.Split(locations, ",") {
		location = strings.TrimSpace(location)
		if location == "" {
			continue
		}

		for page := 0; page < pages; page++ {
			restaurants, err := svc.Search(ctx, entities.SearchParams{
				Term:     term,
				Location: location,
				Limit:    pageSize,
				Offset:   page * pageSize,
			})
			if err != nil {
				log.Printf("Search failed for %q page %d: %v", location, page, err)
				break
			}
			total += len(restaurants)
			log.Printf("Seeded %d restaurants for %q (page %d)", len(restaurants), location, page)

			if len(restaurants) < pageSize {
				break
			}
		}

		if ctx.Err() != nil {
			break
		}
	}

	log.Printf("Seeding complete: %d restaurants in %s", total, time.Since(start))
}
