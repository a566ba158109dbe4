package service_test

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/wellnessmate/backend/internal/mocks"
	"github.com/pageza/wellnessmate/backend/internal/models"
	"github.com/pageza/wellnessmate/backend/internal/service"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

func slotQuery(minKcal, maxKcal float64, keyword string) interface{} {
	return mock.MatchedBy(func(q service.SlotQuery) bool {
		return math.Abs(q.MinKcal-minKcal) < 1e-6 &&
			math.Abs(q.MaxKcal-maxKcal) < 1e-6 &&
			q.Keyword == keyword
	})
}

func candidates(prefix string, n int, ingredients ...string) []models.Recipe {
	out := make([]models.Recipe, n)
	for i := range out {
		out[i] = models.Recipe{
			ID:          uuid.New(),
			Name:        prefix + " " + strconv.Itoa(i),
			Ingredients: models.JSONBStringArray(append([]string{"salt"}, ingredients...)),
			Rating:      floatPtr(float64(i%5 + 1)),
		}
	}
	return out
}

func ids(recipes []models.Recipe) []uuid.UUID {
	out := make([]uuid.UUID, len(recipes))
	for i, r := range recipes {
		out[i] = r.ID
	}
	return out
}

func TestGenerateUsesDefaultTargetAndSlots(t *testing.T) {
	store := new(mocks.MockRecipeStore)
	breakfasts := candidates("breakfast", 4)
	meals := candidates("meal", 6)
	snacks := candidates("snack", 5)

	// Incomplete profile: 2000 kcal target.
	store.On("FindCandidates", mock.Anything, slotQuery(320, 400, "breakfast")).Return(breakfasts, nil)
	store.On("FindCandidates", mock.Anything, slotQuery(480, 600, "")).Return(meals, nil)
	store.On("FindCandidates", mock.Anything, slotQuery(60, 200, "")).Return(snacks, nil)

	svc := service.NewMealPlanService(store, zap.NewNop(), service.WithSeed(1))
	plan, err := svc.Generate(context.Background(), &types.UserDetails{
		EatingFrequency: types.EatingFrequency{Breakfast: "Yes"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2000.0, plan.TargetCalories)
	assert.Len(t, plan.Breakfast, 1)
	assert.Len(t, plan.Meals, 2)
	assert.Len(t, plan.Snacks, 2)
	assert.Subset(t, ids(breakfasts), ids(plan.Breakfast))
	assert.Subset(t, ids(meals), ids(plan.Meals))
	assert.Subset(t, ids(snacks), ids(plan.Snacks))
	store.AssertExpectations(t)
}

func TestGenerateUsesProfileTarget(t *testing.T) {
	store := new(mocks.MockRecipeStore)
	store.On("FindCandidates", mock.Anything, mock.Anything).Return([]models.Recipe{}, nil)

	gender, level := "male", "moderately_active"
	weight, height, age := 80.0, 180.0, 30.0
	details := &types.UserDetails{
		Gender:        &gender,
		Weight:        &weight,
		Height:        &height,
		Age:           &age,
		ActivityLevel: &level,
	}

	plan, err := service.NewMealPlanService(store, zap.NewNop()).Generate(context.Background(), details)
	require.NoError(t, err)

	bmr := 88.362 + 13.397*80 + 4.799*180 - 5.677*30
	assert.InDelta(t, bmr*1.55, plan.TargetCalories, 1e-9)
	target := plan.TargetCalories

	store.AssertCalled(t, "FindCandidates", mock.Anything, slotQuery(0.8*0.3*target, 0.3*target, ""))
	store.AssertCalled(t, "FindCandidates", mock.Anything, slotQuery(0.3*0.1*target, 0.1*target, ""))
	// Breakfast was not requested.
	store.AssertNumberOfCalls(t, "FindCandidates", 2)
}

func TestGenerateCountsAndExclusions(t *testing.T) {
	store := new(mocks.MockRecipeStore)
	safe := candidates("safe", 3)
	nutty := candidates("nutty", 10, "peanuts")
	meals := append(append([]models.Recipe{}, safe...), nutty...)

	store.On("FindCandidates", mock.Anything, slotQuery(480, 600, "")).Return(meals, nil)
	store.On("FindCandidates", mock.Anything, slotQuery(60, 200, "")).Return(nutty, nil)

	svc := service.NewMealPlanService(store, zap.NewNop())
	var fourMeals, oneSnack types.FlexibleInt
	require.NoError(t, fourMeals.UnmarshalJSON([]byte(`"4"`)))
	require.NoError(t, oneSnack.UnmarshalJSON([]byte(`1`)))

	plan, err := svc.Generate(context.Background(), &types.UserDetails{
		Allergies:       []string{"Peanut"},
		EatingFrequency: types.EatingFrequency{Breakfast: "No", Meals: fourMeals, Snacks: oneSnack},
	})
	require.NoError(t, err)

	// Only three recipes survive the allergy filter.
	assert.ElementsMatch(t, ids(safe), ids(plan.Meals))
	assert.NotNil(t, plan.Breakfast)
	assert.Empty(t, plan.Breakfast)
	assert.NotNil(t, plan.Snacks)
	assert.Empty(t, plan.Snacks)
}

func TestGenerateIsReproducibleWithSeed(t *testing.T) {
	store := new(mocks.MockRecipeStore)
	store.On("FindCandidates", mock.Anything, slotQuery(320, 400, "breakfast")).Return(candidates("b", 10), nil)
	store.On("FindCandidates", mock.Anything, slotQuery(480, 600, "")).Return(candidates("m", 20), nil)
	store.On("FindCandidates", mock.Anything, slotQuery(60, 200, "")).Return(candidates("s", 20), nil)

	details := &types.UserDetails{
		FoodPreferences: []string{"spicy"},
		Goals:           "gain_muscle",
		EatingFrequency: types.EatingFrequency{Breakfast: "Yes"},
	}

	first, err := service.NewMealPlanService(store, zap.NewNop(), service.WithSeed(7)).Generate(context.Background(), details)
	require.NoError(t, err)
	second, err := service.NewMealPlanService(store, zap.NewNop(), service.WithSeed(7)).Generate(context.Background(), details)
	require.NoError(t, err)

	assert.Equal(t, ids(first.Breakfast), ids(second.Breakfast))
	assert.Equal(t, ids(first.Meals), ids(second.Meals))
	assert.Equal(t, ids(first.Snacks), ids(second.Snacks))
}

func TestGenerateStoreError(t *testing.T) {
	store := new(mocks.MockRecipeStore)
	store.On("FindCandidates", mock.Anything, mock.Anything).Return(nil, errors.New("connection refused"))

	plan, err := service.NewMealPlanService(store, zap.NewNop()).Generate(context.Background(), &types.UserDetails{})
	assert.Nil(t, plan)
	assert.ErrorContains(t, err, "connection refused")
}

func TestGenerateRequiresDetails(t *testing.T) {
	_, err := service.NewMealPlanService(new(mocks.MockRecipeStore), zap.NewNop()).Generate(context.Background(), nil)
	assert.ErrorIs(t, err, service.ErrMissingUserDetails)
}

func TestGenerateSignsImages(t *testing.T) {
	store := new(mocks.MockRecipeStore)
	store.On("FindCandidates", mock.Anything, mock.Anything).Return(candidates("dish", 3), nil)

	svc := service.NewMealPlanService(store, zap.NewNop(), service.WithImages(stubSigner{}), service.WithSeed(3))
	plan, err := svc.Generate(context.Background(), &types.UserDetails{})
	require.NoError(t, err)

	require.NotEmpty(t, plan.Meals)
	for _, r := range plan.Meals {
		assert.Equal(t, "https://images.test/"+r.Name, r.ImageURL)
	}
}
