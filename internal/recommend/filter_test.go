package recommend

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestConstraintsAffinity(t *testing.T) {
	c := NewConstraints([]string{"Chicken", "rice"}, nil, nil)

	assert.Equal(t, float64(AffinityBonus), c.Affinity("Grilled CHICKEN with rice"))
	assert.Equal(t, float64(AffinityBonus), c.Affinity("fried rice"))
	assert.Zero(t, c.Affinity("Vegan delight"))
	assert.Zero(t, NewConstraints(nil, nil, nil).Affinity("chicken"))
}

func TestConstraintsExcluded(t *testing.T) {
	c := NewConstraints(nil, []string{"Nuts"}, []string{"pork"})

	assert.True(t, c.Excluded([]string{"rice", "Cashew NUTS"}))
	assert.True(t, c.Excluded([]string{"pulled pork shoulder"}))
	assert.False(t, c.Excluded([]string{"tofu", "vegetables"}))
	assert.False(t, c.Excluded(nil))
}

func TestConstraintsIgnoreBlankValues(t *testing.T) {
	c := NewConstraints([]string{"", "  "}, []string{""}, []string{" "})

	assert.Zero(t, c.Affinity("anything at all"))
	assert.False(t, c.Excluded([]string{"chicken", "rice"}))
}

func TestNewConstraintsCopiesInput(t *testing.T) {
	allergies := []string{"peanut"}
	c := NewConstraints(nil, allergies, nil)
	allergies[0] = "rice"

	assert.True(t, c.Excluded([]string{"peanut butter"}))
	assert.False(t, c.Excluded([]string{"rice"}))
}
