package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	usagedto "github.com/fammo-app/fammo/internal/application/usage/dto"
	usageusecases "github.com/fammo-app/fammo/internal/application/usage/usecases"
	"github.com/fammo-app/fammo/internal/shared/errors"
	"github.com/fammo-app/fammo/internal/shared/logger"
	"github.com/fammo-app/fammo/internal/shared/utils"
)

type generateMealPlanUseCase interface {
	Execute(ctx context.Context, cmd usageusecases.GenerateCommand) (*usagedto.MealPlanResultDTO, error)
}

type generateHealthReportUseCase interface {
	Execute(ctx context.Context, cmd usageusecases.GenerateCommand) (*usagedto.HealthReportResultDTO, error)
}

type getUsageStatusUseCase interface {
	Execute(ctx context.Context, query usageusecases.GetUsageStatusQuery) (*usagedto.UsageStatusDTO, error)
}

type listRecommendationHistoryUseCase interface {
	Execute(ctx context.Context, query usageusecases.ListRecommendationHistoryQuery) ([]*usagedto.RecommendationDTO, error)
}

// AIHandler exposes the metered AI actions and the caller's usage.
type AIHandler struct {
	mealPlanUC     generateMealPlanUseCase
	healthReportUC generateHealthReportUseCase
	usageUC        getUsageStatusUseCase
	historyUC      listRecommendationHistoryUseCase
	logger         logger.Interface
}

func NewAIHandler(
	mealPlanUC generateMealPlanUseCase,
	healthReportUC generateHealthReportUseCase,
	usageUC getUsageStatusUseCase,
	historyUC listRecommendationHistoryUseCase,
	logger logger.Interface,
) *AIHandler {
	return &AIHandler{
		mealPlanUC:     mealPlanUC,
		healthReportUC: healthReportUC,
		usageUC:        usageUC,
		historyUC:      historyUC,
		logger:         logger,
	}
}

func (h *AIHandler) generateCommand(c *gin.Context) (usageusecases.GenerateCommand, error) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		return usageusecases.GenerateCommand{}, err
	}
	petID, err := utils.ParseUintParam(c, "id", "pet")
	if err != nil {
		return usageusecases.GenerateCommand{}, err
	}
	return usageusecases.GenerateCommand{
		UserID:    userID,
		PetID:     petID,
		IPAddress: c.ClientIP(),
	}, nil
}

// MealPlan handles POST /api/ai/pets/:id/meal-plan
func (h *AIHandler) MealPlan(c *gin.Context) {
	cmd, err := h.generateCommand(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.mealPlanUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// HealthReport handles POST /api/ai/pets/:id/health-report
func (h *AIHandler) HealthReport(c *gin.Context) {
	cmd, err := h.generateCommand(c)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.healthReportUC.Execute(c.Request.Context(), cmd)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// Usage handles GET /api/ai/usage
func (h *AIHandler) Usage(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	result, err := h.usageUC.Execute(c.Request.Context(), usageusecases.GetUsageStatusQuery{UserID: userID})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}

// History handles GET /api/ai/history?limit=
func (h *AIHandler) History(c *gin.Context) {
	userID, err := getUserIDFromContext(c, h.logger)
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	var limit int
	if raw := c.Query("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			utils.ErrorResponseWithError(c, errors.NewValidationError("limit must be a positive integer"))
			return
		}
	}

	result, err := h.historyUC.Execute(c.Request.Context(), usageusecases.ListRecommendationHistoryQuery{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		utils.ErrorResponseWithError(c, err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "", result)
}
