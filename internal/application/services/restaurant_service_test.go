package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/application/services"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/providers"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
	apperrors "github.com/hungrymonkey/restaurant-hours-backend/pkg/errors"
)

func newRestaurantService(
	repo *MockRestaurantRepository,
	hoursRepo *MockHoursRepository,
	searchRepo *MockSearchRepository,
	directory *MockDirectoryProvider,
	images *MockImageProvider,
	cache *MockCacheProvider,
) *services.RestaurantService {
	// Typed nils must become nil interfaces or the service's nil checks
	// would see a non-nil provider.
	var sr repositories.RestaurantSearchRepository
	if searchRepo != nil {
		sr = searchRepo
	}
	var ip providers.ImageProvider
	if images != nil {
		ip = images
	}
	var cp providers.CacheProvider
	if cache != nil {
		cp = cache
	}
	return services.NewRestaurantService(repo, hoursRepo, sr, directory, ip, cp, nil)
}

func TestSearch_CachesAndIndexesDirectoryResults(t *testing.T) {
	// Arrange
	repo := new(MockRestaurantRepository)
	searchRepo := new(MockSearchRepository)
	directory := new(MockDirectoryProvider)

	hits := []*entities.Restaurant{
		{BusinessID: "biz-1", Name: "Golden Wok"},
		{BusinessID: "biz-2", Name: "Taqueria Luna"},
	}
	params := entities.SearchParams{Location: "San Francisco"}

	directory.On("Search", mock.Anything, params).Return(hits, nil)
	repo.On("BulkUpsert", mock.Anything, hits).Return(nil)
	searchRepo.On("Index", mock.Anything, hits[0]).Return(nil)
	searchRepo.On("Index", mock.Anything, hits[1]).Return(nil)

	service := newRestaurantService(repo, new(MockHoursRepository), searchRepo, directory, nil, nil)

	// Act
	restaurants, err := service.Search(context.Background(), params)

	// Assert
	assert.NoError(t, err)
	assert.Len(t, restaurants, 2)
	repo.AssertExpectations(t)
	searchRepo.AssertExpectations(t)
}

func TestSearch_CacheWriteFailureDoesNotFailTheSearch(t *testing.T) {
	repo := new(MockRestaurantRepository)
	directory := new(MockDirectoryProvider)

	hits := []*entities.Restaurant{{BusinessID: "biz-1"}}
	directory.On("Search", mock.Anything, mock.Anything).Return(hits, nil)
	repo.On("BulkUpsert", mock.Anything, hits).
		Return(apperrors.NewInternalError("db down", errors.New("boom")))

	service := newRestaurantService(repo, new(MockHoursRepository), nil, directory, nil, nil)

	restaurants, err := service.Search(context.Background(), entities.SearchParams{Location: "SF"})

	assert.NoError(t, err)
	assert.Len(t, restaurants, 1)
}

func TestGet_CacheMissFallsThroughToDirectory(t *testing.T) {
	repo := new(MockRestaurantRepository)
	directory := new(MockDirectoryProvider)

	hit := &entities.Restaurant{BusinessID: "biz-1", Name: "Golden Wok"}
	repo.On("GetByID", mock.Anything, "biz-1").
		Return(nil, apperrors.NewNotFoundError("not cached"))
	directory.On("GetBusiness", mock.Anything, "biz-1").Return(hit, nil)
	repo.On("Upsert", mock.Anything, hit).Return(nil)

	service := newRestaurantService(repo, new(MockHoursRepository), nil, directory, nil, nil)

	restaurant, err := service.Get(context.Background(), "biz-1")

	assert.NoError(t, err)
	assert.Equal(t, "Golden Wok", restaurant.Name)
	repo.AssertExpectations(t)
}

func TestGet_UnknownEverywhereIsNotFound(t *testing.T) {
	repo := new(MockRestaurantRepository)
	directory := new(MockDirectoryProvider)

	repo.On("GetByID", mock.Anything, "nope").
		Return(nil, apperrors.NewNotFoundError("not cached"))
	directory.On("GetBusiness", mock.Anything, "nope").Return(nil, nil)

	service := newRestaurantService(repo, new(MockHoursRepository), nil, directory, nil, nil)

	_, err := service.Get(context.Background(), "nope")

	assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeNotFound))
}

func TestListCached_JoinsHoursRecords(t *testing.T) {
	repo := new(MockRestaurantRepository)
	hoursRepo := new(MockHoursRepository)
	cache := new(MockCacheProvider)

	repo.On("List", mock.Anything, 20).Return([]*entities.Restaurant{
		{BusinessID: "biz-1", Photos: []string{"a.jpg"}},
		{BusinessID: "biz-2", Photos: []string{"b.jpg"}},
	}, nil)
	hoursRepo.On("GetBulk", mock.Anything, []string{"biz-1", "biz-2"}).
		Return(map[string]*entities.OperatingHours{
			"biz-1": {RestaurantID: "biz-1", TimeOpen: "09:00", TimeClosed: "22:00", IsHoursVerified: true},
		}, nil)
	cache.On("Get", mock.Anything, "restaurants:list:20").
		Return(nil, errors.New("key not found"))
	cache.On("Set", mock.Anything, "restaurants:list:20", mock.Anything, 300).Return(nil)

	service := newRestaurantService(repo, hoursRepo, nil, new(MockDirectoryProvider), nil, cache)

	result, err := service.ListCached(context.Background(), 20, false)

	assert.NoError(t, err)
	assert.Len(t, result, 2)
	assert.Equal(t, "09:00", result[0].OperatingHours.TimeOpen)
	assert.Nil(t, result[1].OperatingHours)
	cache.AssertExpectations(t)
}

func TestListCached_ServesFromRedisWhenPresent(t *testing.T) {
	repo := new(MockRestaurantRepository)
	cache := new(MockCacheProvider)

	cached := []*entities.RestaurantWithHours{
		{Restaurant: entities.Restaurant{BusinessID: "biz-1"}},
	}
	data, _ := json.Marshal(cached)
	cache.On("Get", mock.Anything, "restaurants:list:20").Return(data, nil)

	service := newRestaurantService(repo, new(MockHoursRepository), nil, new(MockDirectoryProvider), nil, cache)

	result, err := service.ListCached(context.Background(), 20, false)

	assert.NoError(t, err)
	assert.Len(t, result, 1)
	repo.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestListCached_BackfillsMissingPhotos(t *testing.T) {
	repo := new(MockRestaurantRepository)
	hoursRepo := new(MockHoursRepository)
	images := new(MockImageProvider)

	repo.On("List", mock.Anything, 20).Return([]*entities.Restaurant{
		{BusinessID: "biz-1", Name: "Golden Wok", Address: entities.Address{City: "SF"}},
		{BusinessID: "biz-2", Photos: []string{"already.jpg"}},
	}, nil)
	images.On("SearchImages", mock.Anything, "Golden Wok restaurant SF", 3).
		Return([]string{"found.jpg"}, nil)
	repo.On("Update", mock.Anything, "biz-1", repositories.RestaurantUpdate{Photos: []string{"found.jpg"}}).
		Return(nil)
	hoursRepo.On("GetBulk", mock.Anything, mock.Anything).
		Return(map[string]*entities.OperatingHours{}, nil)

	service := newRestaurantService(repo, hoursRepo, nil, new(MockDirectoryProvider), images, nil)

	result, err := service.ListCached(context.Background(), 20, true)

	assert.NoError(t, err)
	assert.Equal(t, []string{"found.jpg"}, result[0].Photos)
	images.AssertNumberOfCalls(t, "SearchImages", 1)
	repo.AssertExpectations(t)
}

func TestSearchCached_FallsBackToDatabaseWhenIndexFails(t *testing.T) {
	repo := new(MockRestaurantRepository)
	searchRepo := new(MockSearchRepository)

	filter := repositories.RestaurantFilter{Term: "tacos"}
	searchRepo.On("Search", mock.Anything, filter).
		Return(nil, errors.New("typesense unavailable"))
	repo.On("Search", mock.Anything, filter).
		Return([]*entities.Restaurant{{BusinessID: "biz-1"}}, nil)

	service := newRestaurantService(repo, new(MockHoursRepository), searchRepo, new(MockDirectoryProvider), nil, nil)

	restaurants, err := service.SearchCached(context.Background(), filter)

	assert.NoError(t, err)
	assert.Len(t, restaurants, 1)
	repo.AssertExpectations(t)
}

func TestSearchByPhone_PrefersCache(t *testing.T) {
	repo := new(MockRestaurantRepository)
	directory := new(MockDirectoryProvider)

	repo.On("SearchByPhone", mock.Anything, "+14155551234").
		Return([]*entities.Restaurant{{BusinessID: "biz-1"}}, nil)

	service := newRestaurantService(repo, new(MockHoursRepository), nil, directory, nil, nil)

	restaurants, err := service.SearchByPhone(context.Background(), "+14155551234")

	assert.NoError(t, err)
	assert.Len(t, restaurants, 1)
	directory.AssertNotCalled(t, "SearchByPhone", mock.Anything, mock.Anything)
}

func TestUpdateHours_InvalidatesListCache(t *testing.T) {
	repo := new(MockRestaurantRepository)
	hoursRepo := new(MockHoursRepository)
	cache := new(MockCacheProvider)

	hours := &entities.OperatingHours{RestaurantID: "biz-1", TimeOpen: "08:00", TimeClosed: "20:00"}
	repo.On("GetByID", mock.Anything, "biz-1").Return(&entities.Restaurant{BusinessID: "biz-1"}, nil)
	hoursRepo.On("Upsert", mock.Anything, hours).Return(nil)
	cache.On("DeletePattern", mock.Anything, "restaurants:*").Return(nil)

	service := newRestaurantService(repo, hoursRepo, nil, new(MockDirectoryProvider), nil, cache)

	err := service.UpdateHours(context.Background(), hours)

	assert.NoError(t, err)
	cache.AssertExpectations(t)
}
