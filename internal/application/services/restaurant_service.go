package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/observability"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

const (
	listCacheTTLSeconds = 300
	imageBackfillLimit  = 10
	imagesPerRestaurant = 3
)

// RestaurantService serves restaurant data from the cache-first pipeline:
// Postgres cache and Typesense index in front of the business directory.
type RestaurantService struct {
	repo       repositories.RestaurantRepository
	hoursRepo  repositories.HoursRepository
	searchRepo repositories.RestaurantSearchRepository
	directory  providers.DirectoryProvider
	images     providers.ImageProvider
	cache      providers.CacheProvider
	metrics    *observability.Metrics
}

// NewRestaurantService creates a new restaurant service
func NewRestaurantService(
	repo repositories.RestaurantRepository,
	hoursRepo repositories.HoursRepository,
	searchRepo repositories.RestaurantSearchRepository,
	directory providers.DirectoryProvider,
	images providers.ImageProvider,
	cache providers.CacheProvider,
	metrics *observability.Metrics,
) *RestaurantService {
	return &RestaurantService{
		repo:       repo,
		hoursRepo:  hoursRepo,
		searchRepo: searchRepo,
		directory:  directory,
		images:     images,
		cache:      cache,
		metrics:    metrics,
	}
}

// Search queries the business directory, caches every hit, and indexes them
// for cached search.
func (s *RestaurantService) Search(ctx context.Context, params entities.SearchParams) ([]*entities.Restaurant, error) {
	ctx, span := observability.StartSpan(ctx, "RestaurantService.Search")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	restaurants, err := s.directory.Search(ctx, params)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if err := s.repo.BulkUpsert(ctx, restaurants); err != nil {
		// Directory data is still good; the cache will catch up next search.
		logger.Warn().Err(err).Msg("failed to cache directory results")
	}

	s.indexAll(ctx, restaurants)

	return restaurants, nil
}

// SearchCached searches only local data: the Typesense index when available,
// Postgres otherwise.
func (s *RestaurantService) SearchCached(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	ctx, span := observability.StartSpan(ctx, "RestaurantService.SearchCached")
	defer span.End()

	if s.searchRepo != nil {
		restaurants, err := s.searchRepo.Search(ctx, filter)
		if err == nil {
			return s.hydrate(ctx, restaurants), nil
		}
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("index search failed, falling back to database")
	}

	return s.repo.Search(ctx, filter)
}

// Get returns one restaurant, looking through the cache to the directory.
// Directory hits are cached for next time.
func (s *RestaurantService) Get(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	ctx, span := observability.StartSpan(ctx, "RestaurantService.Get")
	defer span.End()

	restaurant, err := s.repo.GetByID(ctx, businessID)
	if err == nil {
		observability.RecordCacheHit(ctx, s.metrics, "restaurant")
		return restaurant, nil
	}
	if !apperrors.IsType(err, apperrors.ErrorTypeNotFound) {
		observability.RecordError(span, err)
		return nil, err
	}

	observability.RecordCacheMiss(ctx, s.metrics, "restaurant")
	restaurant, err = s.directory.GetBusiness(ctx, businessID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if restaurant == nil {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("restaurant with id %s not found", businessID))
	}

	if err := s.repo.Upsert(ctx, restaurant); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Str("business_id", businessID).Msg("failed to cache directory hit")
	}
	s.indexAll(ctx, []*entities.Restaurant{restaurant})

	return restaurant, nil
}

// ListCached returns cached restaurants joined with their hours records.
// With fetchImages set, restaurants missing photos get an image-provider
// backfill (first few only, to bound vendor quota per request).
func (s *RestaurantService) ListCached(ctx context.Context, limit int, fetchImages bool) ([]*entities.RestaurantWithHours, error) {
	ctx, span := observability.StartSpan(ctx, "RestaurantService.ListCached")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)
	cacheKey := fmt.Sprintf("restaurants:list:%d", limit)

	if !fetchImages && s.cache != nil {
		if data, err := s.cache.Get(ctx, cacheKey); err == nil {
			var cached []*entities.RestaurantWithHours
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.RecordCacheHit(ctx, s.metrics, "restaurant_list")
				return cached, nil
			}
		}
		observability.RecordCacheMiss(ctx, s.metrics, "restaurant_list")
	}

	restaurants, err := s.repo.List(ctx, limit)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if fetchImages {
		s.backfillImages(ctx, restaurants)
	}

	ids := make([]string, 0, len(restaurants))
	for _, r := range restaurants {
		ids = append(ids, r.BusinessID)
	}
	hoursByID, err := s.hoursRepo.GetBulk(ctx, ids)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	result := make([]*entities.RestaurantWithHours, 0, len(restaurants))
	for _, r := range restaurants {
		result = append(result, &entities.RestaurantWithHours{
			Restaurant:     *r,
			OperatingHours: hoursByID[r.BusinessID],
		})
	}

	if !fetchImages && s.cache != nil {
		if data, err := json.Marshal(result); err == nil {
			if err := s.cache.Set(ctx, cacheKey, data, listCacheTTLSeconds); err != nil {
				logger.Warn().Err(err).Msg("failed to cache restaurant list")
			}
		}
	}

	return result, nil
}

// SearchByPhone looks a phone number up in the cache, then the directory.
func (s *RestaurantService) SearchByPhone(ctx context.Context, phone string) ([]*entities.Restaurant, error) {
	ctx, span := observability.StartSpan(ctx, "RestaurantService.SearchByPhone")
	defer span.End()

	restaurants, err := s.repo.SearchByPhone(ctx, phone)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if len(restaurants) > 0 {
		return restaurants, nil
	}

	restaurants, err = s.directory.SearchByPhone(ctx, phone)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	if err := s.repo.BulkUpsert(ctx, restaurants); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to cache phone search results")
	}

	return restaurants, nil
}

// GetHours returns the restaurant's hours record, or nil when unverified.
func (s *RestaurantService) GetHours(ctx context.Context, businessID string) (*entities.OperatingHours, error) {
	return s.hoursRepo.Get(ctx, businessID)
}

// UpdateHours applies a manual hours correction from the API surface.
func (s *RestaurantService) UpdateHours(ctx context.Context, hours *entities.OperatingHours) error {
	if hours.RestaurantID == "" {
		return apperrors.NewValidationError("restaurant_id is required")
	}
	if _, err := s.repo.GetByID(ctx, hours.RestaurantID); err != nil {
		return err
	}
	if err := s.hoursRepo.Upsert(ctx, hours); err != nil {
		return err
	}
	if s.cache != nil {
		if err := s.cache.DeletePattern(ctx, restaurantListCachePattern); err != nil {
			observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to invalidate restaurant list cache")
		}
	}
	return nil
}

// backfillImages fetches photos for the first few restaurants without any,
// persisting what it finds. Failures are logged and skipped.
func (s *RestaurantService) backfillImages(ctx context.Context, restaurants []*entities.Restaurant) {
	if s.images == nil {
		return
	}
	logger := observability.LoggerFromContext(ctx)

	fetched := 0
	for _, r := range restaurants {
		if len(r.Photos) > 0 {
			continue
		}
		if fetched >= imageBackfillLimit {
			break
		}
		fetched++

		query := fmt.Sprintf("%s restaurant %s", r.Name, r.Address.City)
		photos, err := s.images.SearchImages(ctx, query, imagesPerRestaurant)
		if err != nil {
			logger.Warn().Err(err).Str("business_id", r.BusinessID).Msg("image backfill failed")
			continue
		}
		if len(photos) == 0 {
			continue
		}

		r.Photos = photos
		if err := s.repo.Update(ctx, r.BusinessID, repositories.RestaurantUpdate{Photos: photos}); err != nil {
			logger.Warn().Err(err).Str("business_id", r.BusinessID).Msg("failed to persist backfilled photos")
		}
	}
}

// indexAll pushes restaurants into the search index, logging failures;
// index writes are eventually consistent with the database.
func (s *RestaurantService) indexAll(ctx context.Context, restaurants []*entities.Restaurant) {
	if s.searchRepo == nil {
		return
	}
	logger := observability.LoggerFromContext(ctx)
	for _, r := range restaurants {
		if err := s.searchRepo.Index(ctx, r); err != nil {
			logger.Warn().Err(err).Str("business_id", r.BusinessID).Msg("failed to index restaurant")
		}
	}
}

// hydrate replaces partial index documents with full database records where
// possible; misses keep the index document.
func (s *RestaurantService) hydrate(ctx context.Context, restaurants []*entities.Restaurant) []*entities.Restaurant {
	hydrated := make([]*entities.Restaurant, 0, len(restaurants))
	for _, r := range restaurants {
		full, err := s.repo.GetByID(ctx, r.BusinessID)
		if err != nil {
			hydrated = append(hydrated, r)
			continue
		}
		hydrated = append(hydrated, full)
	}
	return hydrated
}
