package types

import (
	"github.com/pageza/wellnessmate/backend/internal/models"
)

// MealPlan is the response of a meal plan request. Slots with no eligible
// recipes are empty, never null.
type MealPlan struct {
	TargetCalories float64         `json:"target_calories"`
	Breakfast      []models.Recipe `json:"breakfast"`
	Meals          []models.Recipe `json:"meals"`
	Snacks         []models.Recipe `json:"snacks"`
}

// RecipeDetail is a recipe together with similar recipes
type RecipeDetail struct {
	Recipe          *models.Recipe  `json:"recipe"`
	Recommendations []models.Recipe `json:"recommendations"`
}
