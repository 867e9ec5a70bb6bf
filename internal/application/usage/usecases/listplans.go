package usecases

import (
	"context"
	"fmt"

	"github.com/fammo-app/fammo/internal/application/usage/dto"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/services/markdown"
)

type ListPlansUseCase struct {
	plans    usage.PlanRepository
	renderer markdown.Renderer
	logger   logger.Interface
}

func NewListPlansUseCase(plans usage.PlanRepository, renderer markdown.Renderer, logger logger.Interface) *ListPlansUseCase {
	return &ListPlansUseCase{plans: plans, renderer: renderer, logger: logger}
}

// Execute returns the active plans with their descriptions rendered to HTML.
func (uc *ListPlansUseCase) Execute(ctx context.Context) ([]*dto.PlanDTO, error) {
	plans, err := uc.plans.ListActive(ctx)
	if err != nil {
		uc.logger.Errorw("failed to list plans", "error", err)
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	result := make([]*dto.PlanDTO, 0, len(plans))
	for _, p := range plans {
		html, err := uc.renderer.Render(p.Description())
		if err != nil {
			uc.logger.Warnw("failed to render plan description", "error", err, "tier", p.Tier())
			html = ""
		}
		result = append(result, dto.ToPlanDTO(p, html))
	}
	return result, nil
}
