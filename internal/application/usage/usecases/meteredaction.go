package usecases

import (
	"context"
	stderrors "errors"
	"fmt"
	"time"

	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/db"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// MeteredActionRunner runs a quota-limited AI action. The ledger row is
// locked, usage is counted, the quota is checked, fn runs and the counter is
// incremented, all in one transaction. fn must use the ctx it is given so its
// writes join that transaction; if fn fails nothing is consumed or stored.
type MeteredActionRunner struct {
	tx       db.Transactor
	ledger   usage.LedgerRepository
	recs     recommendation.Repository
	subjects *SubjectResolver
	policy   *usage.Policy
	now      func() time.Time
	logger   logger.Interface
}

func NewMeteredActionRunner(
	tx db.Transactor,
	ledger usage.LedgerRepository,
	recs recommendation.Repository,
	subjects *SubjectResolver,
	policy *usage.Policy,
	logger logger.Interface,
) *MeteredActionRunner {
	return &MeteredActionRunner{
		tx:       tx,
		ledger:   ledger,
		recs:     recs,
		subjects: subjects,
		policy:   policy,
		now:      biztime.NowUTC,
		logger:   logger,
	}
}

// Run returns the decision as it stands after the action was consumed.
func (r *MeteredActionRunner) Run(
	ctx context.Context,
	userID uint,
	action usage.ActionType,
	fn func(ctx context.Context) error,
) (usage.Decision, error) {
	if !action.IsValid() {
		return usage.Decision{}, errors.NewValidationError("invalid action type")
	}

	var decision usage.Decision
	err := r.tx.RunInTransaction(ctx, func(txCtx context.Context) error {
		subject, err := r.subjects.Resolve(txCtx, userID)
		if err != nil {
			return err
		}

		if subject.Privileged {
			decision = usage.Decision{Bypass: true}
			return fn(txCtx)
		}

		now := r.now()
		record, err := r.ledger.LockCurrent(txCtx, userID, biztime.MonthBucket(now))
		if err != nil {
			return fmt.Errorf("failed to lock usage record: %w", err)
		}

		logged, err := r.recs.CountSince(txCtx, userID, action, biztime.MonthStartUTC(now))
		if err != nil {
			r.logger.Errorw("failed to count usage", "error", err, "user_id", userID, "action", action)
			return fmt.Errorf("failed to count usage: %w", err)
		}
		// the ledger can lag behind the action log after a manual reset
		used := max(record.Count(action), logged)

		decision, err = r.policy.Check(action, subject.Plan, false, used)
		if err != nil {
			if stderrors.Is(err, usage.ErrUsageLimitExceeded) {
				r.logger.Infow("monthly AI limit reached",
					"user_id", userID,
					"action", action,
					"used", decision.Used,
					"limit", decision.Limit,
				)
				return errors.NewLimitExceededError(LimitMessage(action, decision.Limit))
			}
			return err
		}

		if err := fn(txCtx); err != nil {
			return err
		}

		if err := r.ledger.Increment(txCtx, record.ID(), action); err != nil {
			return fmt.Errorf("failed to record usage: %w", err)
		}
		decision.Used++
		return nil
	})
	if err != nil {
		return usage.Decision{}, err
	}
	return decision, nil
}

// LimitMessage is the user-facing rejection text.
func LimitMessage(action usage.ActionType, limit int) string {
	switch action {
	case usage.ActionHealth:
		return fmt.Sprintf("You’ve reached your monthly limit of %d AI health reports.", limit)
	default:
		return fmt.Sprintf("You’ve reached your monthly limit of %d AI meal suggestions.", limit)
	}
}
