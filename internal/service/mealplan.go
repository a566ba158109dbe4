package service

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/pageza/wellnessmate/backend/internal/models"
	"github.com/pageza/wellnessmate/backend/internal/nutrition"
	"github.com/pageza/wellnessmate/backend/internal/recommend"
	"github.com/pageza/wellnessmate/backend/internal/types"
)

const (
	// DefaultGoal applies when the user states no goal
	DefaultGoal = "lose_weight"
	// DefaultSlotCount is the number of meals and snacks when not given
	DefaultSlotCount = 2

	mealPlanWeightKey = "rating"
)

// ErrMissingUserDetails is returned when a meal plan is requested without a profile
var ErrMissingUserDetails = errors.New("user details are required")

// mealSlot describes one section of a meal plan. Candidates have calories in
// (lower*share*target, share*target).
type mealSlot struct {
	name    string
	share   float64
	lower   float64
	keyword string
	count   int
}

func planSlots(details *types.UserDetails) []mealSlot {
	breakfast := 0
	if details.EatingFrequency.Breakfast == "Yes" {
		breakfast = 1
	}
	return []mealSlot{
		{name: "breakfast", share: 0.2, lower: 0.8, keyword: "breakfast", count: breakfast},
		{name: "meals", share: 0.3, lower: 0.8, count: max(0, details.EatingFrequency.Meals.Or(DefaultSlotCount))},
		{name: "snacks", share: 0.1, lower: 0.3, count: max(0, details.EatingFrequency.Snacks.Or(DefaultSlotCount))},
	}
}

// MealPlanOption configures a MealPlanService
type MealPlanOption func(*MealPlanService)

// WithSeed makes every generated plan use the same random sequence
func WithSeed(seed int64) MealPlanOption {
	return func(s *MealPlanService) {
		s.seed = &seed
	}
}

// WithImages signs image URLs of the recipes in generated plans
func WithImages(images ImageSigner) MealPlanOption {
	return func(s *MealPlanService) {
		s.images = images
	}
}

// MealPlanService builds daily meal plans from the recipe store
type MealPlanService struct {
	store  RecipeStore
	images ImageSigner
	log    *zap.Logger
	seed   *int64
}

// NewMealPlanService creates a new MealPlanService instance
func NewMealPlanService(store RecipeStore, log *zap.Logger, opts ...MealPlanOption) *MealPlanService {
	s := &MealPlanService{store: store, log: log}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Generate picks recipes for breakfast, meals and snacks. Slots without
// eligible recipes are returned empty; store failures fail the plan.
func (s *MealPlanService) Generate(ctx context.Context, details *types.UserDetails) (*types.MealPlan, error) {
	if details == nil {
		return nil, ErrMissingUserDetails
	}

	target := nutrition.TargetCalories(details.Profile())
	slots := planSlots(details)
	results := make([][]models.Recipe, len(slots))

	seed := time.Now().UnixNano()
	if s.seed != nil {
		seed = *s.seed
	}

	g, gctx := errgroup.WithContext(ctx)
	for i, slot := range slots {
		// rand.Rand is not safe for concurrent use, so each slot gets its own.
		rng := rand.New(rand.NewSource(seed + int64(i)))
		g.Go(func() error {
			recipes, err := s.fillSlot(gctx, slot, target, details, rng)
			if err != nil {
				return err
			}
			results[i] = recipes
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		mealPlansTotal.WithLabelValues("error").Inc()
		return nil, err
	}

	mealPlansTotal.WithLabelValues("ok").Inc()
	return &types.MealPlan{
		TargetCalories: target,
		Breakfast:      results[0],
		Meals:          results[1],
		Snacks:         results[2],
	}, nil
}

func (s *MealPlanService) fillSlot(ctx context.Context, slot mealSlot, target float64, details *types.UserDetails, rng *rand.Rand) ([]models.Recipe, error) {
	if slot.count == 0 {
		return []models.Recipe{}, nil
	}

	slotTarget := target * slot.share
	candidates, err := s.store.FindCandidates(ctx, SlotQuery{
		MinKcal: slotTarget * slot.lower,
		MaxKcal: slotTarget,
		Keyword: slot.keyword,
	})
	if err != nil {
		return nil, err
	}
	slotCandidates.WithLabelValues(slot.name).Observe(float64(len(candidates)))

	goal := details.Goals
	if goal == "" {
		goal = DefaultGoal
	}

	picked, err := recommend.WeightedRandomChoice(candidates, recommend.Options{
		WeightKey:     mealPlanWeightKey,
		Preferences:   details.FoodPreferences,
		Allergies:     details.Allergies,
		ExcludedFoods: details.ExcludedFoods,
		Goal:          goal,
		MaxResults:    slot.count,
		Rand:          rng,
	})
	if err != nil {
		reason := emptySlotReason(err)
		s.log.Info("meal slot left empty",
			zap.String("slot", slot.name),
			zap.String("reason", reason),
			zap.Int("candidates", len(candidates)),
			zap.Error(err),
		)
		emptySlotsTotal.WithLabelValues(slot.name, reason).Inc()
		return []models.Recipe{}, nil
	}

	if s.images != nil {
		s.images.SignRecipes(ctx, picked)
	}
	return picked, nil
}

func emptySlotReason(err error) string {
	switch {
	case errors.Is(err, recommend.ErrNoEligibleRecipes):
		return "no_eligible"
	case errors.Is(err, recommend.ErrDegenerateWeights):
		return "degenerate_weights"
	default:
		return "sampling_failed"
	}
}
