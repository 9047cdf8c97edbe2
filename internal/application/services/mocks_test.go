package services_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/entities"
	"github.com/hungrymonkey/restaurant-hours-backend/internal/domain/repositories"
)

// Mocks shared across the service tests.

type MockRestaurantRepository struct {
	mock.Mock
}

func (m *MockRestaurantRepository) GetByID(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) Upsert(ctx context.Context, restaurant *entities.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockRestaurantRepository) BulkUpsert(ctx context.Context, restaurants []*entities.Restaurant) error {
	args := m.Called(ctx, restaurants)
	return args.Error(0)
}

func (m *MockRestaurantRepository) Update(ctx context.Context, businessID string, update repositories.RestaurantUpdate) error {
	args := m.Called(ctx, businessID, update)
	return args.Error(0)
}

func (m *MockRestaurantRepository) List(ctx context.Context, limit int) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) Search(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) SearchByPhone(ctx context.Context, phone string) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

func (m *MockRestaurantRepository) ListUnverified(ctx context.Context, limit int) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

type MockHoursRepository struct {
	mock.Mock
}

func (m *MockHoursRepository) Get(ctx context.Context, restaurantID string) (*entities.OperatingHours, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.OperatingHours), args.Error(1)
}

func (m *MockHoursRepository) GetBulk(ctx context.Context, restaurantIDs []string) (map[string]*entities.OperatingHours, error) {
	args := m.Called(ctx, restaurantIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]*entities.OperatingHours), args.Error(1)
}

func (m *MockHoursRepository) Upsert(ctx context.Context, hours *entities.OperatingHours) error {
	args := m.Called(ctx, hours)
	return args.Error(0)
}

type MockVerificationStore struct {
	mock.Mock
}

func (m *MockVerificationStore) CommitVerified(ctx context.Context, restaurantID string, hours *entities.OperatingHours) error {
	args := m.Called(ctx, restaurantID, hours)
	return args.Error(0)
}

func (m *MockVerificationStore) MarkUnreachable(ctx context.Context, restaurantID string) error {
	args := m.Called(ctx, restaurantID)
	return args.Error(0)
}

type MockCallProvider struct {
	mock.Mock
}

func (m *MockCallProvider) PlaceCall(ctx context.Context, phoneNumber, message string) (string, error) {
	args := m.Called(ctx, phoneNumber, message)
	return args.String(0), args.Error(1)
}

func (m *MockCallProvider) GetStatus(ctx context.Context, callID string) (entities.CallStatus, error) {
	args := m.Called(ctx, callID)
	return args.Get(0).(entities.CallStatus), args.Error(1)
}

func (m *MockCallProvider) GetAnalysis(ctx context.Context, callID string) (*entities.CallAnalysis, error) {
	args := m.Called(ctx, callID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.CallAnalysis), args.Error(1)
}

func (m *MockCallProvider) WaitForCompletion(ctx context.Context, callID string) error {
	args := m.Called(ctx, callID)
	return args.Error(0)
}

type MockCacheProvider struct {
	mock.Mock
}

func (m *MockCacheProvider) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]byte), args.Error(1)
}

func (m *MockCacheProvider) Set(ctx context.Context, key string, value []byte, expirationSeconds int) error {
	args := m.Called(ctx, key, value, expirationSeconds)
	return args.Error(0)
}

func (m *MockCacheProvider) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockCacheProvider) DeletePattern(ctx context.Context, pattern string) error {
	args := m.Called(ctx, pattern)
	return args.Error(0)
}

func (m *MockCacheProvider) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type MockDirectoryProvider struct {
	mock.Mock
}

func (m *MockDirectoryProvider) Search(ctx context.Context, params entities.SearchParams) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

func (m *MockDirectoryProvider) GetBusiness(ctx context.Context, businessID string) (*entities.Restaurant, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.Restaurant), args.Error(1)
}

func (m *MockDirectoryProvider) SearchByPhone(ctx context.Context, phone string) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, phone)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

type MockImageProvider struct {
	mock.Mock
}

func (m *MockImageProvider) SearchImages(ctx context.Context, query string, num int) ([]string, error) {
	args := m.Called(ctx, query, num)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

type MockSearchRepository struct {
	mock.Mock
}

func (m *MockSearchRepository) InitSchema(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockSearchRepository) Index(ctx context.Context, restaurant *entities.Restaurant) error {
	args := m.Called(ctx, restaurant)
	return args.Error(0)
}

func (m *MockSearchRepository) Search(ctx context.Context, filter repositories.RestaurantFilter) ([]*entities.Restaurant, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entities.Restaurant), args.Error(1)
}

func (m *MockSearchRepository) Delete(ctx context.Context, businessID string) error {
	args := m.Called(ctx, businessID)
	return args.Error(0)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) Get(ctx context.Context, userID string) (*entities.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *entities.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) VerifyHours(ctx context.Context, businessID string) (*entities.VerificationResult, error) {
	args := m.Called(ctx, businessID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entities.VerificationResult), args.Error(1)
}
