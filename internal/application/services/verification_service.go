package services

import (
	"context"
	"fmt"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/infrastructure/observability"
)

// restaurantListCachePattern matches every cached restaurant-list key; a
// successful verification invalidates them all.
const restaurantListCachePattern = "restaurants:*"

// VerificationService runs the full verify-hours cycle for one restaurant:
// place a call, wait for it to finish, read the vendor's analysis, and commit
// both records in one transaction.
type VerificationService struct {
	restaurantRepo repositories.RestaurantRepository
	store          repositories.VerificationStore
	callProvider   providers.CallProvider
	cache          providers.CacheProvider
	flags          *FeatureFlags
	metrics        *observability.Metrics
}

// NewVerificationService creates a new verification service
func NewVerificationService(
	restaurantRepo repositories.RestaurantRepository,
	store repositories.VerificationStore,
	callProvider providers.CallProvider,
	cache providers.CacheProvider,
	flags *FeatureFlags,
	metrics *observability.Metrics,
) *VerificationService {
	return &VerificationService{
		restaurantRepo: restaurantRepo,
		store:          store,
		callProvider:   callProvider,
		cache:          cache,
		flags:          flags,
		metrics:        metrics,
	}
}

// VerifyHours verifies one restaurant's operating hours. The returned result
// is always classified; a non-nil error means the attempt's outcome could not
// be persisted.
//
// Any outcome other than verified permanently closes the restaurant to
// further dispatch (is_closed=true).
func (s *VerificationService) VerifyHours(ctx context.Context, businessID string) (*entities.VerificationResult, error) {
	ctx, span := observability.StartSpan(ctx, "VerificationService.VerifyHours")
	defer span.End()

	logger := observability.LoggerFromContext(ctx)

	restaurant, err := s.restaurantRepo.GetByID(ctx, businessID)
	if err != nil {
		observability.RecordError(span, err)
		return nil, err
	}

	if !s.flags.CallsEnabled() {
		logger.Info().Str("business_id", businessID).Msg("calls disabled, synthesizing negative verification")
		result := &entities.VerificationResult{
			RestaurantID: businessID,
			Outcome:      entities.OutcomeSkipped,
			Message:      "outbound calling disabled",
		}
		return s.commitFailure(ctx, result)
	}

	callID, err := s.callProvider.PlaceCall(ctx, restaurant.Phone, verificationPrompt(restaurant))
	if err != nil {
		logger.Warn().Err(err).Str("business_id", businessID).Msg("call placement failed")
		result := &entities.VerificationResult{
			RestaurantID: businessID,
			Outcome:      entities.OutcomeUnreachable,
			Message:      fmt.Sprintf("call placement failed: %v", err),
		}
		return s.commitFailure(ctx, result)
	}
	observability.RecordCallPlaced(ctx, s.metrics, "vapi")

	if err := s.callProvider.WaitForCompletion(ctx, callID); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		logger.Warn().Err(err).Str("business_id", businessID).Str("call_id", callID).Msg("call did not complete")
		result := &entities.VerificationResult{
			RestaurantID: businessID,
			Outcome:      entities.OutcomeUnreachable,
			Message:      fmt.Sprintf("call did not complete: %v", err),
		}
		return s.commitFailure(ctx, result)
	}

	analysis, err := s.callProvider.GetAnalysis(ctx, callID)
	if err != nil {
		logger.Warn().Err(err).Str("business_id", businessID).Str("call_id", callID).Msg("analysis unavailable")
		result := &entities.VerificationResult{
			RestaurantID: businessID,
			Outcome:      entities.OutcomeDeclined,
			Message:      fmt.Sprintf("analysis unavailable: %v", err),
		}
		return s.commitFailure(ctx, result)
	}

	timeOpen, hasOpen := analysis.StringField(entities.StructuredKeyTimeOpen)
	timeClosed, hasClosed := analysis.StringField(entities.StructuredKeyTimeClosed)

	if !analysis.SuccessEvaluation || !hasOpen || !hasClosed {
		logger.Info().
			Str("business_id", businessID).
			Bool("success_evaluation", analysis.SuccessEvaluation).
			Bool("has_time_open", hasOpen).
			Bool("has_time_closed", hasClosed).
			Msg("call completed without usable hours")
		result := &entities.VerificationResult{
			RestaurantID: businessID,
			Outcome:      entities.OutcomeDeclined,
			Message:      "call completed without usable hours",
		}
		return s.commitFailure(ctx, result)
	}

	hours := &entities.OperatingHours{
		RestaurantID: businessID,
		TimeOpen:     timeOpen,
		TimeClosed:   timeClosed,
		IsOpen:       analysis.BoolField(entities.StructuredKeyIsOpen),
	}

	if err := s.store.CommitVerified(ctx, businessID, hours); err != nil {
		observability.RecordError(span, err)
		return nil, err
	}
	s.invalidateListCache(ctx)
	observability.RecordVerificationOutcome(ctx, s.metrics, string(entities.OutcomeVerified))

	logger.Info().
		Str("business_id", businessID).
		Str("time_open", timeOpen).
		Str("time_closed", timeClosed).
		Msg("hours verified")

	return &entities.VerificationResult{
		RestaurantID: businessID,
		Outcome:      entities.OutcomeVerified,
		Success:      true,
		Message:      "hours verified",
		Hours:        hours,
	}, nil
}

// commitFailure persists the failure branch for every non-verified outcome.
// The restaurant leaves the dispatch pool permanently, so each restaurant is
// called at most once.
func (s *VerificationService) commitFailure(ctx context.Context, result *entities.VerificationResult) (*entities.VerificationResult, error) {
	logger := observability.LoggerFromContext(ctx)
	logger.Warn().
		Str("business_id", result.RestaurantID).
		Str("outcome", string(result.Outcome)).
		Msg("marking restaurant closed after failed verification")

	if err := s.store.MarkUnreachable(ctx, result.RestaurantID); err != nil {
		return nil, err
	}
	s.invalidateListCache(ctx)
	observability.RecordVerificationOutcome(ctx, s.metrics, string(result.Outcome))
	return result, nil
}

func (s *VerificationService) invalidateListCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeletePattern(ctx, restaurantListCachePattern); err != nil {
		observability.LoggerFromContext(ctx).Warn().Err(err).Msg("failed to invalidate restaurant list cache")
	}
}

func verificationPrompt(r *entities.Restaurant) string {
	return fmt.Sprintf("Hi, I'm calling to confirm the operating hours for %s.", r.Name)
}
