package usage

import (
	"errors"
	"strings"
)

// Tier identifies a subscription plan.
type Tier string

const (
	TierFree       Tier = "free"
	TierEssentials Tier = "essentials"
	TierWellness   Tier = "wellness"
	TierOptimal    Tier = "optimal"
)

func (t Tier) IsValid() bool {
	switch t {
	case TierFree, TierEssentials, TierWellness, TierOptimal:
		return true
	}
	return false
}

// PetLimit is the number of pets an account on this tier may register.
func (t Tier) PetLimit() int {
	switch t {
	case TierEssentials:
		return 1
	case TierWellness:
		return 2
	case TierOptimal:
		return 5
	default:
		return 0
	}
}

// Plan is a subscription plan and the quota ceilings it grants.
type Plan struct {
	id                 uint
	tier               Tier
	name               string
	description        string
	priceCents         int64
	monthlyMealLimit   int
	monthlyHealthLimit int
	unlimitedMeals     bool
	unlimitedHealth    bool
	isActive           bool
}

type PlanParams struct {
	Tier               Tier
	Name               string
	Description        string
	PriceCents         int64
	MonthlyMealLimit   int
	MonthlyHealthLimit int
	UnlimitedMeals     bool
	UnlimitedHealth    bool
	IsActive           bool
}

func NewPlan(p PlanParams) (*Plan, error) {
	if !p.Tier.IsValid() {
		return nil, ErrInvalidTier
	}
	if strings.TrimSpace(p.Name) == "" {
		return nil, errors.New("plan name is required")
	}
	if p.MonthlyMealLimit < 0 || p.MonthlyHealthLimit < 0 {
		return nil, errors.New("plan limits cannot be negative")
	}
	if p.PriceCents < 0 {
		return nil, errors.New("plan price cannot be negative")
	}
	return &Plan{
		tier:               p.Tier,
		name:               strings.TrimSpace(p.Name),
		description:        p.Description,
		priceCents:         p.PriceCents,
		monthlyMealLimit:   p.MonthlyMealLimit,
		monthlyHealthLimit: p.MonthlyHealthLimit,
		unlimitedMeals:     p.UnlimitedMeals,
		unlimitedHealth:    p.UnlimitedHealth,
		isActive:           p.IsActive,
	}, nil
}

func ReconstructPlan(id uint, p PlanParams) *Plan {
	return &Plan{
		id:                 id,
		tier:               p.Tier,
		name:               p.Name,
		description:        p.Description,
		priceCents:         p.PriceCents,
		monthlyMealLimit:   p.MonthlyMealLimit,
		monthlyHealthLimit: p.MonthlyHealthLimit,
		unlimitedMeals:     p.UnlimitedMeals,
		unlimitedHealth:    p.UnlimitedHealth,
		isActive:           p.IsActive,
	}
}

func (p *Plan) ID() uint                { return p.id }
func (p *Plan) Tier() Tier              { return p.tier }
func (p *Plan) Name() string            { return p.name }
func (p *Plan) Description() string     { return p.description }
func (p *Plan) PriceCents() int64       { return p.priceCents }
func (p *Plan) MonthlyMealLimit() int   { return p.monthlyMealLimit }
func (p *Plan) MonthlyHealthLimit() int { return p.monthlyHealthLimit }
func (p *Plan) UnlimitedMeals() bool    { return p.unlimitedMeals }
func (p *Plan) UnlimitedHealth() bool   { return p.unlimitedHealth }
func (p *Plan) IsActive() bool          { return p.isActive }
func (p *Plan) PetLimit() int           { return p.tier.PetLimit() }

func (p *Plan) SetID(id uint) {
	p.id = id
}

// Limit returns the monthly ceiling for action and whether it is waived.
func (p *Plan) Limit(action ActionType) (limit int, unlimited bool) {
	switch action {
	case ActionMeal:
		return p.monthlyMealLimit, p.unlimitedMeals
	case ActionHealth:
		return p.monthlyHealthLimit, p.unlimitedHealth
	default:
		return 0, false
	}
}

// Params returns the plan's current values, used for upserts.
func (p *Plan) Params() PlanParams {
	return PlanParams{
		Tier:               p.tier,
		Name:               p.name,
		Description:        p.description,
		PriceCents:         p.priceCents,
		MonthlyMealLimit:   p.monthlyMealLimit,
		MonthlyHealthLimit: p.monthlyHealthLimit,
		UnlimitedMeals:     p.unlimitedMeals,
		UnlimitedHealth:    p.unlimitedHealth,
		IsActive:           p.isActive,
	}
}
