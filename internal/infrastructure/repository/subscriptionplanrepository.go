package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/infrastructure/persistence/models"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type SubscriptionPlanRepositoryImpl struct {
	db     *gorm.DB
	logger logger.Interface
}

func NewSubscriptionPlanRepository(gdb *gorm.DB, logger logger.Interface) usage.PlanRepository {
	return &SubscriptionPlanRepositoryImpl{db: gdb, logger: logger}
}

func (r *SubscriptionPlanRepositoryImpl) GetByID(ctx context.Context, id uint) (*usage.Plan, error) {
	var model models.SubscriptionPlanModel
	if err := db.GetTxFromContext(ctx, r.db).First(&model, id).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}
	return toPlan(&model), nil
}

func (r *SubscriptionPlanRepositoryImpl) GetByTier(ctx context.Context, tier usage.Tier) (*usage.Plan, error) {
	var model models.SubscriptionPlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("tier = ?", string(tier)).First(&model).Error; err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get plan by tier: %w", err)
	}
	return toPlan(&model), nil
}

func (r *SubscriptionPlanRepositoryImpl) ListActive(ctx context.Context) ([]*usage.Plan, error) {
	var ms []models.SubscriptionPlanModel
	if err := db.GetTxFromContext(ctx, r.db).Where("is_active = ?", true).Order("price_cents ASC").Find(&ms).Error; err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	plans := make([]*usage.Plan, 0, len(ms))
	for i := range ms {
		plans = append(plans, toPlan(&ms[i]))
	}
	return plans, nil
}

// Upsert inserts or updates the plan identified by its tier.
func (r *SubscriptionPlanRepositoryImpl) Upsert(ctx context.Context, plan *usage.Plan) error {
	p := plan.Params()
	model := &models.SubscriptionPlanModel{
		Tier:               string(p.Tier),
		Name:               p.Name,
		Description:        p.Description,
		PriceCents:         p.PriceCents,
		MonthlyMealLimit:   p.MonthlyMealLimit,
		MonthlyHealthLimit: p.MonthlyHealthLimit,
		UnlimitedMeals:     p.UnlimitedMeals,
		UnlimitedHealth:    p.UnlimitedHealth,
		IsActive:           p.IsActive,
	}
	tx := db.GetTxFromContext(ctx, r.db)
	if err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "tier"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"name", "description", "price_cents", "monthly_meal_limit", "monthly_health_limit",
			"unlimited_meals", "unlimited_health", "is_active", "updated_at",
		}),
	}).Create(model).Error; err != nil {
		r.logger.Errorw("failed to upsert plan", "error", err, "tier", p.Tier)
		return fmt.Errorf("failed to upsert plan: %w", err)
	}
	var stored models.SubscriptionPlanModel
	if err := tx.Where("tier = ?", string(p.Tier)).First(&stored).Error; err != nil {
		return fmt.Errorf("failed to reload plan: %w", err)
	}
	plan.SetID(stored.ID)
	return nil
}

func toPlan(m *models.SubscriptionPlanModel) *usage.Plan {
	return usage.ReconstructPlan(m.ID, usage.PlanParams{
		Tier:               usage.Tier(m.Tier),
		Name:               m.Name,
		Description:        m.Description,
		PriceCents:         m.PriceCents,
		MonthlyMealLimit:   m.MonthlyMealLimit,
		MonthlyHealthLimit: m.MonthlyHealthLimit,
		UnlimitedMeals:     m.UnlimitedMeals,
		UnlimitedHealth:    m.UnlimitedHealth,
		IsActive:           m.IsActive,
	})
}
