// Package seed loads reference data files such as configs/plans.yaml.
package seed

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/fammo-app/fammo/internal/domain/usage"
)

// PlanEntry is one plan as written in the YAML file.
type PlanEntry struct {
	Tier               string  `yaml:"tier"`
	Name               string  `yaml:"name"`
	Description        string  `yaml:"description"`
	PriceEUR           float64 `yaml:"price_eur"`
	MonthlyMealLimit   int     `yaml:"monthly_meal_limit"`
	MonthlyHealthLimit int     `yaml:"monthly_health_limit"`
	UnlimitedMeals     bool    `yaml:"unlimited_meals"`
	UnlimitedHealth    bool    `yaml:"unlimited_health"`
	Active             *bool   `yaml:"active"`
}

type planFile struct {
	Plans []PlanEntry `yaml:"plans"`
}

// LoadPlansFile reads and validates the plans file at path.
func LoadPlansFile(path string) ([]*usage.Plan, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read plans file: %w", err)
	}
	return LoadPlans(bytes.NewReader(data))
}

// LoadPlans decodes plans from r. Unknown keys and duplicate tiers are errors.
func LoadPlans(r io.Reader) ([]*usage.Plan, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var f planFile
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	if len(f.Plans) == 0 {
		return nil, fmt.Errorf("plans file contains no plans")
	}

	seen := make(map[usage.Tier]bool, len(f.Plans))
	plans := make([]*usage.Plan, 0, len(f.Plans))
	for i, e := range f.Plans {
		tier := usage.Tier(e.Tier)
		if seen[tier] {
			return nil, fmt.Errorf("plan %d: duplicate tier %q", i, e.Tier)
		}
		seen[tier] = true

		active := true
		if e.Active != nil {
			active = *e.Active
		}
		p, err := usage.NewPlan(usage.PlanParams{
			Tier:               tier,
			Name:               e.Name,
			Description:        e.Description,
			PriceCents:         int64(math.Round(e.PriceEUR * 100)),
			MonthlyMealLimit:   e.MonthlyMealLimit,
			MonthlyHealthLimit: e.MonthlyHealthLimit,
			UnlimitedMeals:     e.UnlimitedMeals,
			UnlimitedHealth:    e.UnlimitedHealth,
			IsActive:           active,
		})
		if err != nil {
			return nil, fmt.Errorf("plan %d (%s): %w", i, e.Tier, err)
		}
		plans = append(plans, p)
	}
	return plans, nil
}
