// Package nutrition scores recipes by their macro balance and estimates daily
// calorie needs from a user's biometric profile.
package nutrition

import (
	"errors"
	"math"
)

// ErrDivisionByZero is returned when a score needs calories per gram and the
// recipe reports zero calories.
var ErrDivisionByZero = errors.New("nutrition: kcal must be non-zero")

// Optimal share of total calories coming from each macro.
const (
	OptimalCarbsRatio   = 0.50
	OptimalProteinRatio = 0.30
	OptimalFatRatio     = 0.20
)

// Calories per gram of each macro.
const (
	kcalPerGramCarbs   = 4
	kcalPerGramProtein = 4
	kcalPerGramFat     = 9
)

// Facts are the nutritional facts of a single recipe. Macros are grams,
// Kcal is total kilocalories.
type Facts struct {
	Carbs     float64
	Fat       float64
	Protein   float64
	Fiber     float64
	Saturates float64
	Kcal      float64
	Sugars    float64
	Salt      float64
}

// ProteinScore rates how close the protein share of calories is to the
// optimal ratio. The result lies in [0, 5].
func ProteinScore(protein, kcal float64) (float64, error) {
	if kcal == 0 {
		return 0, ErrDivisionByZero
	}
	ratio := protein * kcalPerGramProtein / kcal
	return ratioScore(OptimalProteinRatio, ratio) / 20, nil
}

// NutritionScore combines the macro balance with fiber, saturates, sugars
// and salt into an integer in [0, 100]. Zero calories scores 0.
func NutritionScore(f Facts) int {
	if f.Kcal == 0 {
		return 0
	}

	carbsScore := ratioScore(OptimalCarbsRatio, f.Carbs*kcalPerGramCarbs/f.Kcal)
	proteinScore := ratioScore(OptimalProteinRatio, f.Protein*kcalPerGramProtein/f.Kcal)
	fatScore := ratioScore(OptimalFatRatio, f.Fat*kcalPerGramFat/f.Kcal)
	macros := (carbsScore + proteinScore + fatScore) / 3

	// The modifiers are deliberately not clamped on their own.
	modifiers := 0.1*f.Fiber - 0.3*f.Saturates - 0.2*f.Sugars - 0.1*f.Salt

	overall := clamp(macros+modifiers, 0, 100)
	return int(math.RoundToEven(overall))
}

// ScoreRecipe computes the scores persisted on a recipe at ingestion time.
// The protein score is stored on the 0-100 scale.
func ScoreRecipe(f Facts) (proteinScore float64, nutritionScore int, err error) {
	nutritionScore = NutritionScore(f)
	ps, err := ProteinScore(f.Protein, f.Kcal)
	if err != nil {
		return 0, nutritionScore, err
	}
	return ps * 20, nutritionScore, nil
}

// ratioScore maps the distance between an optimal and an actual calorie share
// onto [0, 100].
func ratioScore(optimal, actual float64) float64 {
	return clamp(100-math.Abs(optimal-actual)*100, 0, 100)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
