package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/biztime"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

type ResetStaleUsageResult struct {
	Month        string `json:"month"`
	RowsAffected int64  `json:"rows_affected"`
}

// ResetStaleUsageUseCase rolls every ledger row from an earlier month to
// the current one with zeroed counters. It is run by the scheduler on the
// first of the month and by the maintenance command.
type ResetStaleUsageUseCase struct {
	ledger usage.LedgerRepository
	now    func() time.Time
	logger logger.Interface
}

func NewResetStaleUsageUseCase(ledger usage.LedgerRepository, logger logger.Interface) *ResetStaleUsageUseCase {
	return &ResetStaleUsageUseCase{
		ledger: ledger,
		now:    biztime.NowUTC,
		logger: logger,
	}
}

func (uc *ResetStaleUsageUseCase) Execute(ctx context.Context) (*ResetStaleUsageResult, error) {
	month := biztime.MonthBucket(uc.now())

	rows, err := uc.ledger.ResetStale(ctx, month)
	if err != nil {
		uc.logger.Errorw("failed to reset stale usage", "error", err, "month", month.Format("2006-01"))
		return nil, fmt.Errorf("failed to reset stale usage: %w", err)
	}
	metrics.RecordUsageReset(int(rows))

	uc.logger.Infow("stale AI usage reset", "month", month.Format("2006-01"), "rows", rows)
	return &ResetStaleUsageResult{Month: month.Format("2006-01"), RowsAffected: rows}, nil
}

// RunBatch adapts the use case to the scheduler's batch job contract.
func (uc *ResetStaleUsageUseCase) RunBatch(ctx context.Context) (int, error) {
	res, err := uc.Execute(ctx)
	if err != nil {
		return 0, err
	}
	return int(res.RowsAffected), nil
}
