package usage

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func essentialsPlan(t *testing.T) *Plan {
	t.Helper()
	p, err := NewPlan(PlanParams{
		Tier:               TierEssentials,
		Name:               "Essentials",
		MonthlyMealLimit:   3,
		MonthlyHealthLimit: 1,
		IsActive:           true,
	})
	require.NoError(t, err)
	return p
}

func TestPolicy_Check(t *testing.T) {
	policy := NewPolicy(DefaultLimits)
	essentials := essentialsPlan(t)
	unlimited, err := NewPlan(PlanParams{Tier: TierOptimal, Name: "Optimal", MonthlyMealLimit: 1, UnlimitedMeals: true})
	require.NoError(t, err)

	tests := []struct {
		name       string
		action     ActionType
		plan       *Plan
		privileged bool
		used       int
		wantErr    bool
	}{
		{"under plan limit", ActionMeal, essentials, false, 2, false},
		{"at plan limit", ActionMeal, essentials, false, 3, true},
		{"over plan limit", ActionMeal, essentials, false, 7, true},
		{"nil plan uses meal default", ActionMeal, nil, false, 2, false},
		{"nil plan meal default reached", ActionMeal, nil, false, 3, true},
		{"nil plan health default reached", ActionHealth, nil, false, 1, true},
		{"unlimited flag ignores limit", ActionMeal, unlimited, false, 100, false},
		{"unlimited flag is per action", ActionHealth, unlimited, false, 0, true},
		{"privileged bypasses", ActionHealth, essentials, true, 50, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := policy.Check(tt.action, tt.plan, tt.privileged, tt.used)
			if tt.wantErr {
				assert.True(t, errors.Is(err, ErrUsageLimitExceeded))
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestPolicy_CheckInvalidAction(t *testing.T) {
	_, err := NewPolicy(DefaultLimits).Check(ActionType("chat"), nil, false, 0)
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestDecision_Remaining(t *testing.T) {
	assert.Equal(t, 1, Decision{Used: 2, Limit: 3}.Remaining())
	assert.Equal(t, 0, Decision{Used: 5, Limit: 3}.Remaining())
	assert.Equal(t, -1, Decision{Unlimited: true}.Remaining())
	assert.Equal(t, -1, Decision{Bypass: true}.Remaining())
}

func TestTier_PetLimit(t *testing.T) {
	assert.Equal(t, 1, TierEssentials.PetLimit())
	assert.Equal(t, 2, TierWellness.PetLimit())
	assert.Equal(t, 5, TierOptimal.PetLimit())
	assert.Equal(t, 0, TierFree.PetLimit())
}
