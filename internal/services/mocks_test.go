package services_test

import (
	"context"
	"errors"
	"testing"

	"amethyst/internal/apperrors"
	"amethyst/internal/models"
	"amethyst/internal/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockUserRepository is a mock implementation of repositories.UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) WithConn(ctx context.Context, fn func(repositories.UserRepository) error) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) UpdateProfilePicture(ctx context.Context, id uint, picture []byte) error {
	args := m.Called(ctx, id, picture)
	return args.Error(0)
}

// MockBicycleRepository is a mock implementation of repositories.BicycleRepository
type MockBicycleRepository struct {
	mock.Mock
}

func (m *MockBicycleRepository) List(ctx context.Context, typeID *uint) ([]models.BicycleRow, error) {
	args := m.Called(ctx, typeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.BicycleRow), args.Error(1)
}

func (m *MockBicycleRepository) GetByID(ctx context.Context, id uint) (*models.BicycleRow, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.BicycleRow), args.Error(1)
}

func (m *MockBicycleRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockBicycleRepository) CreateType(ctx context.Context, bicycleType *models.BicycleType) error {
	args := m.Called(ctx, bicycleType)
	return args.Error(0)
}

func (m *MockBicycleRepository) Create(ctx context.Context, bicycle *models.Bicycle) error {
	args := m.Called(ctx, bicycle)
	return args.Error(0)
}

// MockPublisher is a mock implementation of services.EventPublisher
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) PublishUserEvent(eventType string, payload map[string]interface{}) error {
	args := m.Called(eventType, payload)
	return args.Error(0)
}

// requireAppError asserts that err is an *apperrors.Error of the given kind
// and message.
func requireAppError(t *testing.T, err error, kind apperrors.Kind, message string) {
	t.Helper()
	var appErr *apperrors.Error
	require.True(t, errors.As(err, &appErr), "expected *apperrors.Error, got %v", err)
	assert.Equal(t, kind, appErr.Kind)
	assert.Equal(t, message, appErr.Message)
}
