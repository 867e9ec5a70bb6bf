package seed

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fammo-app/fammo/internal/domain/usage"
)

func TestLoadPlans(t *testing.T) {
	doc := `
plans:
  - tier: essentials
    name: Essentials
    price_eur: 4.99
    monthly_meal_limit: 3
    monthly_health_limit: 1
  - tier: optimal
    name: Optimal
    description: "**Everything** included"
    price_eur: 14.99
    unlimited_meals: true
    unlimited_health: true
    active: false
`
	plans, err := LoadPlans(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, plans, 2)

	assert.Equal(t, usage.TierEssentials, plans[0].Tier())
	assert.Equal(t, int64(499), plans[0].PriceCents())
	assert.True(t, plans[0].IsActive())
	assert.Equal(t, 1, plans[0].PetLimit())

	assert.True(t, plans[1].UnlimitedMeals())
	assert.False(t, plans[1].IsActive())
	assert.Equal(t, int64(1499), plans[1].PriceCents())
}

func TestLoadPlans_Rejects(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"empty", "plans: []"},
		{"unknown tier", "plans:\n  - tier: platinum\n    name: P"},
		{"unknown key", "plans:\n  - tier: essentials\n    name: E\n    meals: 3"},
		{"duplicate tier", "plans:\n  - tier: wellness\n    name: W\n  - tier: wellness\n    name: W2"},
		{"missing name", "plans:\n  - tier: wellness"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadPlans(strings.NewReader(tt.doc))
			assert.Error(t, err)
		})
	}
}

func TestLoadPlansFile_ShippedFile(t *testing.T) {
	plans, err := LoadPlansFile(filepath.Join("..", "..", "..", "configs", "plans.yaml"))
	require.NoError(t, err)

	tiers := make([]usage.Tier, 0, len(plans))
	for _, p := range plans {
		tiers = append(tiers, p.Tier())
	}
	assert.ElementsMatch(t, []usage.Tier{usage.TierEssentials, usage.TierWellness, usage.TierOptimal}, tiers)
}
