package dto

import (
	"encoding/json"
	"time"

	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
)

// ActionUsageDTO reports one metered action for the current month.
// Limit and Remaining are -1 when the action is not bounded.
type ActionUsageDTO struct {
	Action    string `json:"action"`
	Used      int    `json:"used"`
	Limit     int    `json:"limit"`
	Remaining int    `json:"remaining"`
	Unlimited bool   `json:"unlimited"`
}

type UsageStatusDTO struct {
	Month      string         `json:"month"`
	PlanTier   string         `json:"plan_tier,omitempty"`
	PlanName   string         `json:"plan_name,omitempty"`
	Privileged bool           `json:"privileged"`
	Meal       ActionUsageDTO `json:"meal"`
	Health     ActionUsageDTO `json:"health"`
}

type PlanDTO struct {
	ID                 uint    `json:"id"`
	Tier               string  `json:"tier"`
	Name               string  `json:"name"`
	Description        string  `json:"description"`
	DescriptionHTML    string  `json:"description_html"`
	PriceEUR           float64 `json:"price_eur"`
	MonthlyMealLimit   int     `json:"monthly_meal_limit"`
	MonthlyHealthLimit int     `json:"monthly_health_limit"`
	UnlimitedMeals     bool    `json:"unlimited_meals"`
	UnlimitedHealth    bool    `json:"unlimited_health"`
	PetLimit           int     `json:"pet_limit"`
}

type RecommendationDTO struct {
	ID        uint            `json:"id"`
	PetID     uint            `json:"pet_id"`
	Kind      string          `json:"kind"`
	Result    json.RawMessage `json:"result"`
	IPAddress string          `json:"-"`
	CreatedAt time.Time       `json:"created_at"`
}

type MealPlanResultDTO struct {
	RecommendationID uint                     `json:"recommendation_id"`
	PetID            uint                     `json:"pet_id"`
	MealPlan         *recommendation.MealPlan `json:"meal_plan"`
	Usage            ActionUsageDTO           `json:"usage"`
}

type HealthReportResultDTO struct {
	RecommendationID uint                         `json:"recommendation_id"`
	PetID            uint                         `json:"pet_id"`
	HealthReport     *recommendation.HealthReport `json:"health_report"`
	Usage            ActionUsageDTO               `json:"usage"`
}

func ToActionUsageDTO(action usage.ActionType, d usage.Decision) ActionUsageDTO {
	out := ActionUsageDTO{
		Action:    action.String(),
		Used:      d.Used,
		Limit:     d.Limit,
		Remaining: d.Remaining(),
		Unlimited: d.Bypass || d.Unlimited,
	}
	if out.Unlimited {
		out.Limit = -1
	}
	return out
}

// ToPlanDTO converts a plan; descriptionHTML is the rendered markdown.
func ToPlanDTO(p *usage.Plan, descriptionHTML string) *PlanDTO {
	return &PlanDTO{
		ID:                 p.ID(),
		Tier:               string(p.Tier()),
		Name:               p.Name(),
		Description:        p.Description(),
		DescriptionHTML:    descriptionHTML,
		PriceEUR:           float64(p.PriceCents()) / 100,
		MonthlyMealLimit:   p.MonthlyMealLimit(),
		MonthlyHealthLimit: p.MonthlyHealthLimit(),
		UnlimitedMeals:     p.UnlimitedMeals(),
		UnlimitedHealth:    p.UnlimitedHealth(),
		PetLimit:           p.PetLimit(),
	}
}

func ToRecommendationDTO(r *recommendation.Recommendation) *RecommendationDTO {
	return &RecommendationDTO{
		ID:        r.ID(),
		PetID:     r.PetID(),
		Kind:      r.Kind().String(),
		Result:    r.Payload(),
		IPAddress: r.IPAddress(),
		CreatedAt: r.CreatedAt(),
	}
}

func ToRecommendationDTOList(items []*recommendation.Recommendation) []*RecommendationDTO {
	out := make([]*RecommendationDTO, 0, len(items))
	for _, r := range items {
		out = append(out, ToRecommendationDTO(r))
	}
	return out
}
