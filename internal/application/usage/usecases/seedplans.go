package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// SeedPlansUseCase upserts plans by tier. Plans already in the database
// but absent from the input are left alone.
type SeedPlansUseCase struct {
	plans  usage.PlanRepository
	logger logger.Interface
}

func NewSeedPlansUseCase(plans usage.PlanRepository, logger logger.Interface) *SeedPlansUseCase {
	return &SeedPlansUseCase{plans: plans, logger: logger}
}

func (uc *SeedPlansUseCase) Execute(ctx context.Context, plans []*usage.Plan) (int, error) {
	for _, p := range plans {
		if err := uc.plans.Upsert(ctx, p); err != nil {
			uc.logger.Errorw("failed to upsert plan", "error", err, "tier", p.Tier())
			return 0, fmt.Errorf("failed to upsert plan %s: %w", p.Tier(), err)
		}
		uc.logger.Infow("plan seeded", "tier", p.Tier(), "plan_id", p.ID())
	}
	return len(plans), nil
}
