package usecases

import (
	"context"
	"fmt"
	"time"

	"github.com/fammo-app/fammo/internal/application/usage/dto"
	"github.com/fammo-app/fammo/internal/domain/pet"
	"github.com/fammo-app/fammo/internal/domain/recommendation"
	"github.com/fammo-app/fammo/internal/domain/usage"
	"github.com/fammo-app/fammo/internal/infrastructure/metrics"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
)

// GenerateCommand asks for an AI result for one of the user's pets.
type GenerateCommand struct {
	UserID    uint
	PetID     uint
	IPAddress string
}

// generator holds what meal plans and health reports share: the pet lookup,
// the metered run and the persistence of the structured result.
type generator struct {
	runner *MeteredActionRunner
	pets   pet.Repository
	recs   recommendation.Repository
	logger logger.Interface
}

func (g *generator) run(
	ctx context.Context,
	cmd GenerateCommand,
	action usage.ActionType,
	call func(ctx context.Context, profile string) (any, error),
) (*recommendation.Recommendation, any, dto.ActionUsageDTO, error) {
	p, err := g.pets.GetByID(ctx, cmd.PetID)
	if err != nil {
		g.logger.Errorw("failed to load pet", "error", err, "pet_id", cmd.PetID)
		return nil, nil, dto.ActionUsageDTO{}, fmt.Errorf("failed to load pet: %w", err)
	}
	if p == nil || !p.IsOwnedBy(cmd.UserID) {
		return nil, nil, dto.ActionUsageDTO{}, errors.NewNotFoundError("pet not found")
	}

	start := time.Now()
	var (
		rec    *recommendation.Recommendation
		result any
	)
	decision, err := g.runner.Run(ctx, cmd.UserID, action, func(txCtx context.Context) error {
		out, err := call(txCtx, p.ProfileText())
		if err != nil {
			g.logger.Warnw("AI generation failed", "error", err, "action", action, "pet_id", p.ID())
			return errors.NewInternalError("AI service is temporarily unavailable, please try again later")
		}
		rec, err = recommendation.New(cmd.UserID, p.ID(), action, out, cmd.IPAddress)
		if err != nil {
			return fmt.Errorf("failed to build recommendation: %w", err)
		}
		if err := g.recs.Create(txCtx, rec); err != nil {
			return fmt.Errorf("failed to save recommendation: %w", err)
		}
		result = out
		return nil
	})
	elapsed := time.Since(start).Seconds()
	if err != nil {
		outcome := "error"
		if errors.IsLimitExceededError(err) {
			outcome = "limited"
		}
		metrics.RecordAIAction(action.String(), outcome, elapsed)
		return nil, nil, dto.ActionUsageDTO{}, err
	}
	metrics.RecordAIAction(action.String(), "ok", elapsed)

	g.logger.Infow("AI recommendation generated",
		"user_id", cmd.UserID,
		"pet_id", p.ID(),
		"action", action,
		"recommendation_id", rec.ID(),
	)
	return rec, result, dto.ToActionUsageDTO(action, decision), nil
}

type GenerateMealPlanUseCase struct {
	generator
	llm recommendation.Generator
}

func NewGenerateMealPlanUseCase(
	runner *MeteredActionRunner,
	pets pet.Repository,
	recs recommendation.Repository,
	llm recommendation.Generator,
	logger logger.Interface,
) *GenerateMealPlanUseCase {
	return &GenerateMealPlanUseCase{
		generator: generator{runner: runner, pets: pets, recs: recs, logger: logger},
		llm:       llm,
	}
}

func (uc *GenerateMealPlanUseCase) Execute(ctx context.Context, cmd GenerateCommand) (*dto.MealPlanResultDTO, error) {
	rec, result, usageDTO, err := uc.run(ctx, cmd, usage.ActionMeal, func(ctx context.Context, profile string) (any, error) {
		return uc.llm.GenerateMealPlan(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return &dto.MealPlanResultDTO{
		RecommendationID: rec.ID(),
		PetID:            rec.PetID(),
		MealPlan:         result.(*recommendation.MealPlan),
		Usage:            usageDTO,
	}, nil
}

type GenerateHealthReportUseCase struct {
	generator
	llm recommendation.Generator
}

func NewGenerateHealthReportUseCase(
	runner *MeteredActionRunner,
	pets pet.Repository,
	recs recommendation.Repository,
	llm recommendation.Generator,
	logger logger.Interface,
) *GenerateHealthReportUseCase {
	return &GenerateHealthReportUseCase{
		generator: generator{runner: runner, pets: pets, recs: recs, logger: logger},
		llm:       llm,
	}
}

func (uc *GenerateHealthReportUseCase) Execute(ctx context.Context, cmd GenerateCommand) (*dto.HealthReportResultDTO, error) {
	rec, result, usageDTO, err := uc.run(ctx, cmd, usage.ActionHealth, func(ctx context.Context, profile string) (any, error) {
		return uc.llm.GenerateHealthReport(ctx, profile)
	})
	if err != nil {
		return nil, err
	}
	return &dto.HealthReportResultDTO{
		RecommendationID: rec.ID(),
		PetID:            rec.PetID(),
		HealthReport:     result.(*recommendation.HealthReport),
		Usage:            usageDTO,
	}, nil
}
