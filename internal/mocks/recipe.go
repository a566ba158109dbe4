package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/pageza/wellnessmate/backend/internal/models"
	"github.com/pageza/wellnessmate/backend/internal/service"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

// MockRecipeService is a mock implementation of the recipe service
type MockRecipeService struct {
	mock.Mock
}

// GetRecipe mocks the GetRecipe method
func (m *MockRecipeService) GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Recipe), args.Error(1)
}

// GetRecipeDetail mocks the GetRecipeDetail method
func (m *MockRecipeService) GetRecipeDetail(ctx context.Context, id uuid.UUID) (*types.RecipeDetail, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.RecipeDetail), args.Error(1)
}

// Ping mocks the Ping method
func (m *MockRecipeService) Ping(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// Explore mocks the Explore method
func (m *MockRecipeService) Explore(ctx context.Context, limit int) ([]models.Recipe, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// Search mocks the Search method
func (m *MockRecipeService) Search(ctx context.Context, req *types.SearchRequest) ([]models.Recipe, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

// MockMealPlanService is a mock implementation of the meal plan service
type MockMealPlanService struct {
	mock.Mock
}

// Generate mocks the Generate method
func (m *MockMealPlanService) Generate(ctx context.Context, details *types.UserDetails) (*types.MealPlan, error) {
	args := m.Called(ctx, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.MealPlan), args.Error(1)
}

// MockRecipeStore is a mock implementation of service.RecipeStore
type MockRecipeStore struct {
	mock.Mock
}

// FindCandidates mocks the FindCandidates method
func (m *MockRecipeStore) FindCandidates(ctx context.Context, q service.SlotQuery) ([]models.Recipe, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Recipe), args.Error(1)
}

var (
	_ service.IRecipeService   = (*MockRecipeService)(nil)
	_ service.IMealPlanService = (*MockMealPlanService)(nil)
	_ service.RecipeStore      = (*MockRecipeStore)(nil)
)
