package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fammo-app/fammo/internal/application/usage/dto"
	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type GetUsageStatusQuery struct {
	UserID uint
}

// GetUsageStatusUseCase reports used and remaining AI actions for the
// current month without consuming anything.
type GetUsageStatusUseCase struct {
	subjects *SubjectResolver
	recs     recommendation.Repository
	policy   *usage.Policy
	now      func() time.Time
	logger   logger.Interface
}

func NewGetUsageStatusUseCase(
	subjects *SubjectResolver,
	recs recommendation.Repository,
	policy *usage.Policy,
	logger logger.Interface,
) *GetUsageStatusUseCase {
	return &GetUsageStatusUseCase{
		subjects: subjects,
		recs:     recs,
		policy:   policy,
		now:      biztime.NowUTC,
		logger:   logger,
	}
}

func (uc *GetUsageStatusUseCase) Execute(ctx context.Context, query GetUsageStatusQuery) (*dto.UsageStatusDTO, error) {
	subject, err := uc.subjects.Resolve(ctx, query.UserID)
	if err != nil {
		return nil, err
	}

	now := uc.now()
	since := biztime.MonthStartUTC(now)
	status := &dto.UsageStatusDTO{
		Month:      biztime.MonthBucket(now).Format("2006-01"),
		Privileged: subject.Privileged,
	}
	if subject.Plan != nil {
		status.PlanTier = string(subject.Plan.Tier())
		status.PlanName = subject.Plan.Name()
	}

	for _, action := range []usage.ActionType{usage.ActionMeal, usage.ActionHealth} {
		used, err := uc.recs.CountSince(ctx, query.UserID, action, since)
		if err != nil {
			uc.logger.Errorw("failed to count usage", "error", err, "user_id", query.UserID, "action", action)
			return nil, fmt.Errorf("failed to count usage: %w", err)
		}
		d := uc.policy.Evaluate(action, subject.Plan, subject.Privileged, used)
		if action == usage.ActionMeal {
			status.Meal = dto.ToActionUsageDTO(action, d)
		} else {
			status.Health = dto.ToActionUsageDTO(action, d)
		}
	}
	return status, nil
}
