package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/application/usage/dto"
	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

type ListRecommendationHistoryQuery struct {
	UserID uint
	Limit  int
}

type ListRecommendationHistoryUseCase struct {
	recs   recommendation.Repository
	logger logger.Interface
}

func NewListRecommendationHistoryUseCase(recs recommendation.Repository, logger logger.Interface) *ListRecommendationHistoryUseCase {
	return &ListRecommendationHistoryUseCase{recs: recs, logger: logger}
}

// Execute lists the user's past AI results, newest first.
func (uc *ListRecommendationHistoryUseCase) Execute(ctx context.Context, query ListRecommendationHistoryQuery) ([]*dto.RecommendationDTO, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = defaultHistoryLimit
	}
	if limit > maxHistoryLimit {
		limit = maxHistoryLimit
	}

	items, err := uc.recs.ListByUser(ctx, query.UserID, limit)
	if err != nil {
		uc.logger.Errorw("failed to list recommendations", "error", err, "user_id", query.UserID)
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	return dto.ToRecommendationDTOList(items), nil
}
