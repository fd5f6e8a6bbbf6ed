package mocks

import (
	"context"

	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/entity"
	"github.com/ahmed-elshahat-702/recipe-hub/recipes-service/internal/app/recipes/infrastructure"

	"github.com/stretchr/testify/mock"
)

// MockRecipeRepository мок для RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

func (m *MockRecipeRepository) Create(ctx context.Context, recipe *entity.Recipe) error {
	args := m.Called(ctx, recipe)
	return args.Error(0)
}

func (m *MockRecipeRepository) GetByID(ctx context.Context, id string) (*entity.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) Replace(ctx context.Context, recipe *entity.Recipe, expectedVersion int64) error {
	args := m.Called(ctx, recipe, expectedVersion)
	return args.Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockRecipeRepository) List(ctx context.Context, filter entity.RecipeFilter) ([]entity.Recipe, int64, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]entity.Recipe), args.Get(1).(int64), args.Error(2)
}

func (m *MockRecipeRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.Recipe, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Recipe), args.Error(1)
}

func (m *MockRecipeRepository) ListLinks(ctx context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RecipeLink), args.Error(1)
}

// MockUserRepository мок для UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepository) GetByIDs(ctx context.Context, ids []string) ([]entity.User, error) {
	args := m.Called(ctx, ids)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.User), args.Error(1)
}

func (m *MockUserRepository) Upsert(ctx context.Context, user *entity.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) AddLink(ctx context.Context, link entity.RecipeLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveLink(ctx context.Context, link entity.RecipeLink) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *MockUserRepository) RemoveRecipeLinks(ctx context.Context, recipeID string) error {
	args := m.Called(ctx, recipeID)
	return args.Error(0)
}

func (m *MockUserRepository) LinkedRecipeIDs(ctx context.Context, userID string, kind entity.LinkKind) ([]string, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]string), args.Error(1)
}

func (m *MockUserRepository) ListLinks(ctx context.Context, kind entity.LinkKind) ([]entity.RecipeLink, error) {
	args := m.Called(ctx, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.RecipeLink), args.Error(1)
}

// MockMessagePublisher мок для Kafka MessagePublisher
type MockMessagePublisher struct {
	mock.Mock
	Messages [][]byte
}

func (m *MockMessagePublisher) PublishMessage(ctx context.Context, key string, value []byte) error {
	m.Messages = append(m.Messages, value)
	args := m.Called(ctx, key, value)
	return args.Error(0)
}

func (m *MockMessagePublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockIdempotencyStore мок для IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) Reserve(ctx context.Context, key string) (infrastructure.ReservationState, *entity.StoredResponse, error) {
	args := m.Called(ctx, key)
	var stored *entity.StoredResponse
	if args.Get(1) != nil {
		stored = args.Get(1).(*entity.StoredResponse)
	}
	return args.Get(0).(infrastructure.ReservationState), stored, args.Error(2)
}

func (m *MockIdempotencyStore) Complete(ctx context.Context, key string, response entity.StoredResponse) error {
	args := m.Called(ctx, key, response)
	return args.Error(0)
}

func (m *MockIdempotencyStore) Release(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}
