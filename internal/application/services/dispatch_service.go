package services

import (
	"context"
	"time"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/observability"
	"github.com/hungrymonkey/restaurant-hours-backend/pkg/config"
)

// HoursVerifier is the slice of VerificationService the dispatcher needs.
type HoursVerifier interface {
	VerifyHours(ctx context.Context, businessID string) (*entities.VerificationResult, error)
}

// DispatchService drives background hours verification: every tick it takes
// the oldest unverified restaurants and verifies them one at a time.
type DispatchService struct {
	restaurantRepo repositories.RestaurantRepository
	verifier       HoursVerifier
	cfg            config.DispatchConfig
	metrics        *observability.Metrics
}

// NewDispatchService creates a new dispatch service
func NewDispatchService(
	restaurantRepo repositories.RestaurantRepository,
	verifier HoursVerifier,
	cfg config.DispatchConfig,
	metrics *observability.Metrics,
) *DispatchService {
	return &DispatchService{
		restaurantRepo: restaurantRepo,
		verifier:       verifier,
		cfg:            cfg,
		metrics:        metrics,
	}
}

// Run ticks until the context is cancelled.
func (s *DispatchService) Run(ctx context.Context) {
	logger := observability.GetLogger()
	logger.Info().
		Dur("tick_interval", s.cfg.TickInterval).
		Int("batch_size", s.cfg.BatchSize).
		Int("business_hour_start", s.cfg.BusinessHourStart).
		Msg("dispatch loop started")

	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info().Msg("dispatch loop stopped")
			return
		case <-ticker.C:
			if err := s.RunTick(ctx); err != nil {
				logger.Error().Err(err).Msg("dispatch tick failed")
			}
		}
	}
}

// RunTick runs one dispatch round. Exported so tests can drive the loop
// deterministically. A returned error means candidates could not be listed;
// per-restaurant verification failures are logged and skipped.
func (s *DispatchService) RunTick(ctx context.Context) error {
	ctx, span := observability.StartSpan(ctx, "DispatchService.RunTick")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	localNow := time.Now().In(s.cfg.Location())
	if localNow.Hour() < s.cfg.BusinessHourStart {
		logger.Debug().Int("hour", localNow.Hour()).Msg("before business hours, skipping tick")
		return nil
	}

	restaurants, err := s.restaurantRepo.ListUnverified(ctx, s.cfg.BatchSize)
	if err != nil {
		observability.RecordError(span, err)
		return err
	}
	if len(restaurants) == 0 {
		return nil
	}

	logger.Info().Int("batch", len(restaurants)).Msg("dispatching verification batch")
	observability.RecordDispatchBatch(ctx, s.metrics, len(restaurants))

	for _, restaurant := range restaurants {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		result, err := s.verifier.VerifyHours(ctx, restaurant.BusinessID)
		if err != nil {
			logger.Warn().Err(err).Str("business_id", restaurant.BusinessID).Msg("verification attempt failed")
			continue
		}
		logger.Info().
			Str("business_id", restaurant.BusinessID).
			Str("outcome", string(result.Outcome)).
			Msg("verification attempt finished")
	}

	return nil
}
