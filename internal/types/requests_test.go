package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFlexibleInt(t *testing.T) {
	var freq EatingFrequency
	require.NoError(t, json.Unmarshal([]byte(`{"breakfast":"Yes","meals":"3","snacks":1}`), &freq))
	assert.Equal(t, 3, freq.Meals.Or(2))
	assert.Equal(t, 1, freq.Snacks.Or(2))

	var empty EatingFrequency
	require.NoError(t, json.Unmarshal([]byte(`{"meals":null}`), &empty))
	assert.Equal(t, 2, empty.Meals.Or(2))
	assert.Equal(t, 2, empty.Snacks.Or(2))

	var bad EatingFrequency
	assert.Error(t, json.Unmarshal([]byte(`{"meals":"lots"}`), &bad))
}

func TestUserDetailsProfile(t *testing.T) {
	var req MealPlanRequest
	require.NoError(t, json.Unmarshal([]byte(`{
		"userDetails": {
			"gender": "female",
			"weight": 70,
			"height": 160,
			"age": 25,
			"activity_level": "sedentary",
			"allergies": ["nuts"]
		}
	}`), &req))

	require.NotNil(t, req.UserDetails)
	p := req.UserDetails.Profile()
	assert.True(t, p.Complete())
	assert.Equal(t, "female", *p.Gender)
	assert.Equal(t, []string{"nuts"}, req.UserDetails.Allergies)

	req.UserDetails.Weight = nil
	assert.False(t, req.UserDetails.Profile().Complete())
}
