package nutrition

import "strings"

// Gender selects the BMR formula.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
	Other  Gender = "other"
)

// DefaultCalories is used whenever a profile is too incomplete to estimate needs.
const DefaultCalories = 2000

// DefaultActivityMultiplier applies to unknown activity levels.
const DefaultActivityMultiplier = 1.375

var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extremely_active":  1.9,
}

// CalculateBMR estimates basal metabolic rate with the revised Harris-Benedict
// equation. Weight is kilograms, height centimetres, age years.
func CalculateBMR(gender Gender, weight, height, age float64) float64 {
	switch gender {
	case Male:
		return 13.397*weight + 4.799*height - 5.677*age + 88.362
	case Female:
		return 9.247*weight + 3.098*height - 4.330*age + 447.593
	default:
		return DefaultCalories
	}
}

// ActivityMultiplier returns the TDEE multiplier for an activity level.
func ActivityMultiplier(level string) float64 {
	if m, ok := activityMultipliers[strings.ToLower(strings.TrimSpace(level))]; ok {
		return m
	}
	return DefaultActivityMultiplier
}

// ActivityLevels lists the recognised activity levels.
func ActivityLevels() []string {
	return []string{"sedentary", "lightly_active", "moderately_active", "very_active", "extremely_active"}
}

// Profile is the biometric part of a user's details. Nil fields are missing.
type Profile struct {
	Gender        *string
	Weight        *float64
	Height        *float64
	Age           *float64
	ActivityLevel *string
}

// Complete reports whether every field needed for a calorie estimate is set.
func (p Profile) Complete() bool {
	return p.Gender != nil && p.Weight != nil && p.Height != nil && p.Age != nil && p.ActivityLevel != nil
}

// TargetCalories scales BMR by activity level. Incomplete profiles get
// DefaultCalories.
func TargetCalories(p Profile) float64 {
	if !p.Complete() {
		return DefaultCalories
	}
	gender := Gender(strings.ToLower(strings.TrimSpace(*p.Gender)))
	return CalculateBMR(gender, *p.Weight, *p.Height, *p.Age) * ActivityMultiplier(*p.ActivityLevel)
}
