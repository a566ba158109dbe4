// Package recommend picks recipes for a meal slot. Candidates that clash with
// a user's allergies or excluded foods are dropped, the rest are weighted by
// rating, preference affinity and stored nutrition scores, and a fixed number
// are drawn without replacement.
package recommend

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/pageza/wellnessmate/backend/internal/models"
)

// GoalGainMuscle makes the protein score count towards a recipe's weight.
const GoalGainMuscle = "gain_muscle"

// DefaultMaxResults is used when Options.MaxResults is negative.
const DefaultMaxResults = 3

var (
	// ErrNoEligibleRecipes means every candidate was excluded or none were given.
	ErrNoEligibleRecipes = errors.New("recommend: no eligible recipes")
	// ErrDegenerateWeights means the weights do not form a distribution.
	ErrDegenerateWeights = errors.New("recommend: weights do not form a distribution")
	// ErrSamplingFailed wraps an unexpected failure while sampling.
	ErrSamplingFailed = errors.New("recommend: sampling failed")
)

// Options configures WeightedRandomChoice.
type Options struct {
	// WeightKey names the recipe field used as base weight, e.g. "rating".
	// Recipes without a value for it start at 1.
	WeightKey     string
	Preferences   []string
	Allergies     []string
	ExcludedFoods []string
	Goal          string
	MaxResults    int
	// Rand drives the draw. A nil Rand gets a fresh clock-seeded source.
	Rand *rand.Rand
}

// Weight computes the sampling weight of a single recipe before exclusion.
func Weight(r *models.Recipe, weightKey string, c Constraints, goal string) float64 {
	w, ok := r.WeightFor(weightKey)
	if !ok {
		w = 1
	}
	w += c.Affinity(r.Description)
	if goal == GoalGainMuscle {
		w += r.ProteinScore / 20
	}
	w += float64(r.NutritionScore) / 20
	return w
}

// WeightedRandomChoice draws min(MaxResults, eligible) distinct recipes with
// probability proportional to their weight.
//
// It never panics. When nothing can be drawn it returns an empty, non-nil
// slice together with ErrNoEligibleRecipes, ErrDegenerateWeights or
// ErrSamplingFailed, so callers can treat the slot as having no
// recommendations.
func WeightedRandomChoice(recipes []models.Recipe, opts Options) (selected []models.Recipe, err error) {
	defer func() {
		if r := recover(); r != nil {
			selected = []models.Recipe{}
			err = fmt.Errorf("%w: %v", ErrSamplingFailed, r)
		}
	}()

	constraints := NewConstraints(opts.Preferences, opts.Allergies, opts.ExcludedFoods)

	eligible := make([]models.Recipe, 0, len(recipes))
	weights := make([]float64, 0, len(recipes))
	for i := range recipes {
		w := Weight(&recipes[i], opts.WeightKey, constraints, opts.Goal)
		if constraints.Excluded(recipes[i].Ingredients) {
			continue
		}
		eligible = append(eligible, recipes[i])
		weights = append(weights, w)
	}

	if len(eligible) == 0 {
		return []models.Recipe{}, ErrNoEligibleRecipes
	}
	if err := validateWeights(weights); err != nil {
		return []models.Recipe{}, err
	}

	n := opts.MaxResults
	if n < 0 {
		n = DefaultMaxResults
	}
	if n > len(eligible) {
		n = len(eligible)
	}

	rng := opts.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	picks := drawWithoutReplacement(weights, n, rng)
	selected = make([]models.Recipe, 0, n)
	for _, idx := range picks {
		selected = append(selected, eligible[idx])
	}
	return selected, nil
}

func validateWeights(weights []float64) error {
	var total float64
	for _, w := range weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return fmt.Errorf("%w: non-finite weight %v", ErrDegenerateWeights, w)
		}
		if w < 0 {
			return fmt.Errorf("%w: negative weight %v", ErrDegenerateWeights, w)
		}
		total += w
	}
	if total <= 0 || math.IsInf(total, 0) {
		return fmt.Errorf("%w: weights sum to %v", ErrDegenerateWeights, total)
	}
	return nil
}

// drawWithoutReplacement returns n distinct indices into weights. Each draw
// removes the chosen index and renormalizes over what is left. Once only
// zero-weight entries remain they are drawn uniformly.
func drawWithoutReplacement(weights []float64, n int, rng *rand.Rand) []int {
	remaining := make([]int, len(weights))
	for i := range remaining {
		remaining[i] = i
	}

	picks := make([]int, 0, n)
	for len(picks) < n {
		var total float64
		for _, idx := range remaining {
			total += weights[idx]
		}

		pos := len(remaining) - 1
		if total > 0 {
			target := rng.Float64() * total
			var cumulative float64
			for i, idx := range remaining {
				cumulative += weights[idx]
				if target < cumulative {
					pos = i
					break
				}
			}
			// Rounding can leave target past the last cumulative sum; fall
			// back to the last entry with positive weight.
			for weights[remaining[pos]] == 0 && pos > 0 {
				pos--
			}
		} else {
			pos = rng.Intn(len(remaining))
		}

		picks = append(picks, remaining[pos])
		remaining = append(remaining[:pos], remaining[pos+1:]...)
	}
	return picks
}
