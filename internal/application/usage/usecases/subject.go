package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/domain/profile"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/domain/user"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// Subject is the metered user together with what decides their quota.
// Plan is nil for users without a subscription plan.
type Subject struct {
	UserID     uint
	Privileged bool
	Plan       *usage.Plan
}

// SubjectResolver loads the user's role and the plan referenced by their profile.
type SubjectResolver struct {
	users    user.Repository
	profiles profile.Repository
	plans    usage.PlanRepository
	logger   logger.Interface
}

func NewSubjectResolver(
	users user.Repository,
	profiles profile.Repository,
	plans usage.PlanRepository,
	logger logger.Interface,
) *SubjectResolver {
	return &SubjectResolver{
		users:    users,
		profiles: profiles,
		plans:    plans,
		logger:   logger,
	}
}

func (r *SubjectResolver) Resolve(ctx context.Context, userID uint) (*Subject, error) {
	u, err := r.users.GetByID(ctx, userID)
	if err != nil {
		r.logger.Errorw("failed to load user", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if u == nil {
		return nil, errors.NewNotFoundError("user not found")
	}

	subject := &Subject{UserID: userID, Privileged: u.IsPrivileged()}

	p, err := r.profiles.GetByUserID(ctx, userID)
	if err != nil {
		r.logger.Errorw("failed to load profile", "error", err, "user_id", userID)
		return nil, fmt.Errorf("failed to load profile: %w", err)
	}
	if p == nil || p.PlanID() == nil {
		return subject, nil
	}

	plan, err := r.plans.GetByID(ctx, *p.PlanID())
	if err != nil {
		r.logger.Errorw("failed to load plan", "error", err, "plan_id", *p.PlanID())
		return nil, fmt.Errorf("failed to load plan: %w", err)
	}
	if plan == nil {
		r.logger.Warnw("profile references a missing plan, using defaults", "user_id", userID, "plan_id", *p.PlanID())
	}
	subject.Plan = plan
	return subject, nil
}
