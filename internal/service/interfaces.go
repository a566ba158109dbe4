package service

import (
	"context"

	"github.com/google/uuid"
	pgvector "github.com/pgvector/pgvector-go"

	"github.com/pageza/wellnessmate/backend/internal/models"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

// EmbeddingServiceInterface turns recipe text into a vector for similarity search
type EmbeddingServiceInterface interface {
	GenerateEmbedding(text string) (pgvector.Vector, error)
}

// RecipeStore is the read side of the recipe store used for meal planning
type RecipeStore interface {
	FindCandidates(ctx context.Context, q SlotQuery) ([]models.Recipe, error)
}

// ImageSigner fills ImageURL for recipes that have a stored image
type ImageSigner interface {
	SignRecipes(ctx context.Context, recipes []models.Recipe)
}

// IRecipeService defines the interface for recipe operations
type IRecipeService interface {
	GetRecipe(ctx context.Context, id uuid.UUID) (*models.Recipe, error)
	GetRecipeDetail(ctx context.Context, id uuid.UUID) (*types.RecipeDetail, error)
	Explore(ctx context.Context, limit int) ([]models.Recipe, error)
	Search(ctx context.Context, req *types.SearchRequest) ([]models.Recipe, error)
	Ping(ctx context.Context) error
}

// IMealPlanService defines the interface for meal plan generation
type IMealPlanService interface {
	Generate(ctx context.Context, details *types.UserDetails) (*types.MealPlan, error)
}
