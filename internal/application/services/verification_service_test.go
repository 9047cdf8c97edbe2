package services_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/application/services"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

func testRestaurant() *entities.Restaurant {
	return &entities.Restaurant{
		BusinessID: "biz-1",
		Name:       "Golden Wok",
		Phone:      "+14155551234",
	}
}

func newVerificationService(
	repo *MockRestaurantRepository,
	store *MockVerificationStore,
	call *MockCallProvider,
	cache *MockCacheProvider,
	enableCalls bool,
) *services.VerificationService {
	return services.NewVerificationService(
		repo, store, call, cache,
		&services.FeatureFlags{EnableCalls: enableCalls},
		nil,
	)
}

func TestVerifyHours_SuccessfulCallWritesVerifiedHours(t *testing.T) {
	// Arrange
	repo := new(MockRestaurantRepository)
	store := new(MockVerificationStore)
	call := new(MockCallProvider)
	cache := new(MockCacheProvider)

	repo.On("GetByID", mock.Anything, "biz-1").Return(testRestaurant(), nil)
	call.On("PlaceCall", mock.Anything, "+14155551234", mock.Anything).Return("call-1", nil)
	call.On("WaitForCompletion", mock.Anything, "call-1").Return(nil)
	call.On("GetAnalysis", mock.Anything, "call-1").Return(&entities.CallAnalysis{
		StructuredData: map[string]any{
			"time_open":   "09:00",
			"time_closed": "22:00",
			"is_open":     true,
		},
		SuccessEvaluation: true,
	}, nil)
	store.On("CommitVerified", mock.Anything, "biz-1", mock.MatchedBy(func(h *entities.OperatingHours) bool {
		return h.TimeOpen == "09:00" && h.TimeClosed == "22:00" && h.IsOpen
	})).Return(nil)
	cache.On("DeletePattern", mock.Anything, "restaurants:*").Return(nil)

	service := newVerificationService(repo, store, call, cache, true)

	// Act
	result, err := service.VerifyHours(context.Background(), "biz-1")

	// Assert
	assert.NoError(t, err)
	assert.True(t, result.Verified())
	assert.Equal(t, entities.OutcomeVerified, result.Outcome)
	assert.True(t, result.Success)
	assert.Equal(t, "09:00", result.Hours.TimeOpen)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "MarkUnreachable", mock.Anything, mock.Anything)
}

func TestVerifyHours_CallsDisabledSynthesizesNegativeResult(t *testing.T) {
	repo := new(MockRestaurantRepository)
	store := new(MockVerificationStore)
	call := new(MockCallProvider)
	cache := new(MockCacheProvider)

	repo.On("GetByID", mock.Anything, "biz-1").Return(testRestaurant(), nil)
	store.On("MarkUnreachable", mock.Anything, "biz-1").Return(nil)
	cache.On("DeletePattern", mock.Anything, "restaurants:*").Return(nil)

	service := newVerificationService(repo, store, call, cache, false)

	result, err := service.VerifyHours(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.OutcomeSkipped, result.Outcome)
	assert.False(t, result.Success)
	// No vendor I/O at all when calling is disabled.
	call.AssertNotCalled(t, "PlaceCall", mock.Anything, mock.Anything, mock.Anything)
	call.AssertNotCalled(t, "WaitForCompletion", mock.Anything, mock.Anything)
	store.AssertExpectations(t)
}

func TestVerifyHours_PlacementFailureMarksUnreachable(t *testing.T) {
	repo := new(MockRestaurantRepository)
	store := new(MockVerificationStore)
	call := new(MockCallProvider)
	cache := new(MockCacheProvider)

	repo.On("GetByID", mock.Anything, "biz-1").Return(testRestaurant(), nil)
	call.On("PlaceCall", mock.Anything, "+14155551234", mock.Anything).
		Return("", providers.ErrCallDispatch)
	store.On("MarkUnreachable", mock.Anything, "biz-1").Return(nil)
	cache.On("DeletePattern", mock.Anything, "restaurants:*").Return(nil)

	service := newVerificationService(repo, store, call, cache, true)

	result, err := service.VerifyHours(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.OutcomeUnreachable, result.Outcome)
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "CommitVerified", mock.Anything, mock.Anything, mock.Anything)
}

func TestVerifyHours_CallTimeoutMarksUnreachable(t *testing.T) {
	repo := new(MockRestaurantRepository)
	store := new(MockVerificationStore)
	call := new(MockCallProvider)
	cache := new(MockCacheProvider)

	repo.On("GetByID", mock.Anything, "biz-1").Return(testRestaurant(), nil)
	call.On("PlaceCall", mock.Anything, mock.Anything, mock.Anything).Return("call-1", nil)
	call.On("WaitForCompletion", mock.Anything, "call-1").Return(providers.ErrCallTimeout)
	store.On("MarkUnreachable", mock.Anything, "biz-1").Return(nil)
	cache.On("DeletePattern", mock.Anything, "restaurants:*").Return(nil)

	service := newVerificationService(repo, store, call, cache, true)

	result, err := service.VerifyHours(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.Equal(t, entities.OutcomeUnreachable, result.Outcome)
	store.AssertExpectations(t)
}

func TestVerifyHours_IncompleteAnalysisDeclines(t *testing.T) {
	tests := []struct {
		name     string
		analysis *entities.CallAnalysis
	}{
		{
			name: "vendor judged goal unmet",
			analysis: &entities.CallAnalysis{
				StructuredData: map[string]any{
					"time_open":   "09:00",
					"time_closed": "22:00",
				},
				SuccessEvaluation: false,
			},
		},
		{
			name: "missing closing time",
			analysis: &entities.CallAnalysis{
				StructuredData: map[string]any{
					"time_open": "09:00",
				},
				SuccessEvaluation: true,
			},
		},
		{
			name:     "empty structured data",
			analysis: &entities.CallAnalysis{SuccessEvaluation: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRestaurantRepository)
			store := new(MockVerificationStore)
			call := new(MockCallProvider)
			cache := new(MockCacheProvider)

			repo.On("GetByID", mock.Anything, "biz-1").Return(testRestaurant(), nil)
			call.On("PlaceCall", mock.Anything, mock.Anything, mock.Anything).Return("call-1", nil)
			call.On("WaitForCompletion", mock.Anything, "call-1").Return(nil)
			call.On("GetAnalysis", mock.Anything, "call-1").Return(tt.analysis, nil)
			store.On("MarkUnreachable", mock.Anything, "biz-1").Return(nil)
			cache.On("DeletePattern", mock.Anything, "restaurants:*").Return(nil)

			service := newVerificationService(repo, store, call, cache, true)

			result, err := service.VerifyHours(context.Background(), "biz-1")

			assert.NoError(t, err)
			assert.Equal(t, entities.OutcomeDeclined, result.Outcome)
			store.AssertNotCalled(t, "CommitVerified", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestVerifyHours_UnknownRestaurant(t *testing.T) {
	repo := new(MockRestaurantRepository)
	repo.On("GetByID", mock.Anything, "nope").
		Return(nil, apperrors.NewNotFoundError("restaurant with id nope not found"))

	service := newVerificationService(repo, new(MockVerificationStore), new(MockCallProvider), new(MockCacheProvider), true)

	result, err := service.VerifyHours(context.Background(), "nope")

	assert.Nil(t, result)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestVerifyHours_StoreFailureSurfaces(t *testing.T) {
	repo := new(MockRestaurantRepository)
	store := new(MockVerificationStore)
	call := new(MockCallProvider)
	cache := new(MockCacheProvider)

	repo.On("GetByID", mock.Anything, "biz-1").Return(testRestaurant(), nil)
	call.On("PlaceCall", mock.Anything, mock.Anything, mock.Anything).Return("call-1", nil)
	call.On("WaitForCompletion", mock.Anything, "call-1").Return(nil)
	call.On("GetAnalysis", mock.Anything, "call-1").Return(&entities.CallAnalysis{
		StructuredData: map[string]any{
			"time_open":   "09:00",
			"time_closed": "22:00",
		},
		SuccessEvaluation: true,
	}, nil)
	store.On("CommitVerified", mock.Anything, "biz-1", mock.Anything).
		Return(apperrors.NewInternalError("db down", errors.New("connection refused")))

	service := newVerificationService(repo, store, call, cache, true)

	result, err := service.VerifyHours(context.Background(), "biz-1")

	assert.Nil(t, result)
	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInternal))
}
