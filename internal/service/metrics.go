package service

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	mealPlansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellnessmate",
		Name:      "meal_plans_total",
		Help:      "Meal plan requests by outcome.",
	}, []string{"outcome"})

	emptySlotsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "wellnessmate",
		Name:      "meal_plan_empty_slots_total",
		Help:      "Meal slots returned without recipes, by slot and reason.",
	}, []string{"slot", "reason"})

	slotCandidates = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "wellnessmate",
		Name:      "meal_plan_slot_candidates",
		Help:      "Number of candidate recipes found for a meal slot.",
		Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
	}, []string{"slot"})
)
