package recommend

import "strings"

// AffinityBonus is added to a recipe's weight when its description mentions
// one of the user's food preferences.
const AffinityBonus = 3

// Constraints holds a user's preferences and exclusions, lowercased once per
// request. The zero value matches nothing and excludes nothing.
type Constraints struct {
	preferences []string
	allergies   []string
	excluded    []string
}

// NewConstraints copies and normalizes the caller's constraint lists.
func NewConstraints(preferences, allergies, excludedFoods []string) Constraints {
	return Constraints{
		preferences: normalize(preferences),
		allergies:   normalize(allergies),
		excluded:    normalize(excludedFoods),
	}
}

// Affinity returns AffinityBonus if any preference is a substring of the
// description, otherwise 0. Several matches still count once.
func (c Constraints) Affinity(description string) float64 {
	if len(c.preferences) == 0 {
		return 0
	}
	desc := strings.ToLower(description)
	for _, p := range c.preferences {
		if strings.Contains(desc, p) {
			return AffinityBonus
		}
	}
	return 0
}

// Excluded reports whether any ingredient contains an allergy or an excluded
// food.
func (c Constraints) Excluded(ingredients []string) bool {
	if len(c.allergies) == 0 && len(c.excluded) == 0 {
		return false
	}
	for _, ingredient := range ingredients {
		lower := strings.ToLower(ingredient)
		if containsAny(lower, c.allergies) || containsAny(lower, c.excluded) {
			return true
		}
	}
	return false
}

func containsAny(s string, needles []string) bool {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return true
		}
	}
	return false
}

// normalize lowercases and de-duplicates values. Blank values are dropped
// since an empty needle is a substring of every string.
func normalize(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
