package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/config"
	"github.com/pageza/wellnessmate/backend/internal/middleware"
	"github.com/pageza/wellnessmate/backend/internal/models"
	"github.com/pageza/wellnessmate/backend/internal/server"
	"github.com/pageza/wellnessmate/backend/internal/service"
	"github.com/pageza/wellnessmate/backend/internal/testhelpers"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

func ptr[T any](v T) *T { return &v }

// seedRecipes stores breakfasts, mains and snacks sized for the default
// 2000 kcal target.
func seedRecipes(t *testing.T, svc *service.RecipeService) []models.Recipe {
	t.Helper()

	var recipes []models.Recipe
	for i := 0; i < 4; i++ {
		recipes = append(recipes, models.Recipe{
			Name:        fmt.Sprintf("Breakfast bowl %d", i),
			Description: "Breakfast bowl with yoghurt",
			Subcategory: "breakfast",
			Ingredients: models.JSONBStringArray{"yoghurt", "granola"},
			Kcal:        350 + float64(i)*10,
			Protein:     20,
			Carbs:       40,
			Fat:         10,
			Rating:      ptr(4.0),
		})
	}
	for i := 0; i < 6; i++ {
		ingredients := models.JSONBStringArray{"rice", "vegetables"}
		if i%2 == 0 {
			ingredients = append(ingredients, "peanuts")
		}
		recipes = append(recipes, models.Recipe{
			Name:        fmt.Sprintf("Stir fry %d", i),
			Description: "Vegetable stir fry",
			Subcategory: "main",
			Ingredients: ingredients,
			Kcal:        500 + float64(i)*10,
			Protein:     30,
			Carbs:       60,
			Fat:         15,
			PrepMinutes: ptr(10),
			CookMinutes: ptr(15),
		})
	}
	for i := 0; i < 3; i++ {
		recipes = append(recipes, models.Recipe{
			Name:        fmt.Sprintf("Fruit snack %d", i),
			Description: "Fresh fruit",
			Subcategory: "snack",
			Ingredients: models.JSONBStringArray{"apple"},
			Kcal:        120,
			Carbs:       30,
		})
	}

	_, err := svc.ImportRecipes(context.Background(), recipes)
	require.NoError(t, err)
	return recipes
}

func setupServer(t *testing.T) (http.Handler, []models.Recipe) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testhelpers.SetupSQLite(t)
	log := zap.NewNop()
	recipes := service.NewRecipeService(db, service.NewEmbeddingService(), log)
	seeded := seedRecipes(t, recipes)

	mealPlans := service.NewMealPlanService(recipes, log, service.WithSeed(11))
	limiter := middleware.NewRateLimiter(nil, middleware.RateLimitConfig{Window: time.Minute, Limit: 100}, log)
	t.Cleanup(limiter.Stop)
	cfg := &config.Config{ServerHost: "127.0.0.1", ServerPort: "0", CORSOrigins: []string{"http://localhost:3000"}}

	return server.New(cfg, recipes, mealPlans, limiter, log).Handler(), seeded
}

func post(t *testing.T, h http.Handler, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestMealPlanFlow(t *testing.T) {
	h, _ := setupServer(t)

	w := post(t, h, "/api/v1/mealplan", map[string]interface{}{
		"userDetails": map[string]interface{}{
			"allergies":        []string{"peanut"},
			"food_preferences": []string{"vegetable"},
			"eating_frequency": map[string]interface{}{"breakfast": "Yes", "meals": "3", "snacks": 2},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var plan types.MealPlan
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &plan))
	assert.Equal(t, 2000.0, plan.TargetCalories)
	assert.Len(t, plan.Breakfast, 1)
	assert.Len(t, plan.Meals, 3)
	assert.Len(t, plan.Snacks, 2)

	for _, r := range plan.Meals {
		assert.NotContains(t, r.Ingredients, "peanuts")
		assert.Greater(t, r.Kcal, 480.0)
		assert.Less(t, r.Kcal, 600.0)
	}
	for _, r := range plan.Snacks {
		assert.Greater(t, r.Kcal, 60.0)
		assert.Less(t, r.Kcal, 200.0)
	}
}

func TestRecipeExploreAndSearchFlow(t *testing.T) {
	h, seeded := setupServer(t)

	w := post(t, h, "/api/v1/recipe", map[string]string{"id": seeded[4].ID.String()})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var detail types.RecipeDetail
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &detail))
	assert.Equal(t, "Stir fry 0", detail.Recipe.Name)
	assert.Len(t, detail.Recommendations, 3)
	for _, r := range detail.Recommendations {
		assert.NotEqual(t, detail.Recipe.ID, r.ID)
	}

	req := httptest.NewRequest(http.MethodGet, "/ready", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/api/v1/explore", nil)
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	var explored []models.Recipe
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &explored))
	assert.Len(t, explored, len(seeded))

	w = post(t, h, "/api/v1/search", map[string]interface{}{"searchTerm": "fruit", "calorieBoundary": 150})
	require.Equal(t, http.StatusOK, w.Code)
	var found []models.Recipe
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &found))
	assert.Len(t, found, 3)
}
