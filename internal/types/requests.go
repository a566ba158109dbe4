package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/pageza/wellnessmate/backend/internal/nutrition"
)

// FlexibleInt accepts a JSON number or a numeric string. Clients send meal
// counts either way.
type FlexibleInt struct {
	Value int
	Set   bool
}

func (f *FlexibleInt) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*f = FlexibleInt{}
		return nil
	}

	// Try to unmarshal as number first
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		*f = FlexibleInt{Value: int(num), Set: true}
		return nil
	}

	// Try to unmarshal as string
	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		n, err := strconv.Atoi(strings.TrimSpace(str))
		if err != nil {
			return fmt.Errorf("invalid count %q", str)
		}
		*f = FlexibleInt{Value: n, Set: true}
		return nil
	}

	return fmt.Errorf("invalid count format")
}

func (f FlexibleInt) MarshalJSON() ([]byte, error) {
	if !f.Set {
		return []byte("null"), nil
	}
	return json.Marshal(f.Value)
}

// Or returns the value, or def when the field was absent.
func (f FlexibleInt) Or(def int) int {
	if !f.Set {
		return def
	}
	return f.Value
}

// EatingFrequency describes how many recipes the user wants per meal slot.
type EatingFrequency struct {
	Breakfast string      `json:"breakfast"`
	Meals     FlexibleInt `json:"meals"`
	Snacks    FlexibleInt `json:"snacks"`
}

// UserDetails is the user profile part of a meal plan request
type UserDetails struct {
	Gender          *string         `json:"gender"`
	Weight          *float64        `json:"weight"`
	Height          *float64        `json:"height"`
	Age             *float64        `json:"age"`
	ActivityLevel   *string         `json:"activity_level"`
	Goals           string          `json:"goals"`
	EatingFrequency EatingFrequency `json:"eating_frequency"`
	FoodPreferences []string        `json:"food_preferences"`
	Allergies       []string        `json:"allergies"`
	ExcludedFoods   []string        `json:"excluded_foods"`
}

// Profile returns the biometric fields used for calorie estimates
func (u *UserDetails) Profile() nutrition.Profile {
	return nutrition.Profile{
		Gender:        u.Gender,
		Weight:        u.Weight,
		Height:        u.Height,
		Age:           u.Age,
		ActivityLevel: u.ActivityLevel,
	}
}

// MealPlanRequest represents the request body for generating a meal plan
type MealPlanRequest struct {
	UserDetails *UserDetails `json:"userDetails"`
}

// RecipeLookupRequest represents the request body for fetching a recipe
type RecipeLookupRequest struct {
	ID string `json:"id"`
}

// SearchRequest represents the request body for searching recipes. Nil
// boundaries are not applied.
type SearchRequest struct {
	SearchTerm         string   `json:"searchTerm"`
	PrepBoundary       *float64 `json:"prepBoundary"`
	CookingBoundary    *float64 `json:"cookingBoundary"`
	CalorieBoundary    *float64 `json:"calorieBoundary"`
	ProteinBoundary    *float64 `json:"proteinBoundary"`
	NutriScoreBoundary *float64 `json:"nutriScoreBoundary"`
}
